package store

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"squadup-app/internal/model"

	"github.com/google/uuid"
)

type memoryState struct {
	teams       map[string]model.Team
	players     map[string]model.Player
	skills      map[string][]model.PlayerSkill
	matches     map[string]model.Match
	assignments map[string][]model.Assignment
	invites     map[string]model.Invite
	order       map[string]int64
	seq         int64
}

func newMemoryState() *memoryState {
	return &memoryState{
		teams:       make(map[string]model.Team),
		players:     make(map[string]model.Player),
		skills:      make(map[string][]model.PlayerSkill),
		matches:     make(map[string]model.Match),
		assignments: make(map[string][]model.Assignment),
		invites:     make(map[string]model.Invite),
		order:       make(map[string]int64),
	}
}

func (st *memoryState) clone() *memoryState {
	c := &memoryState{
		teams:       maps.Clone(st.teams),
		players:     maps.Clone(st.players),
		skills:      make(map[string][]model.PlayerSkill, len(st.skills)),
		matches:     maps.Clone(st.matches),
		assignments: make(map[string][]model.Assignment, len(st.assignments)),
		invites:     maps.Clone(st.invites),
		order:       maps.Clone(st.order),
		seq:         st.seq,
	}
	for k, v := range st.skills {
		c.skills[k] = append([]model.PlayerSkill(nil), v...)
	}
	for k, v := range st.assignments {
		c.assignments[k] = append([]model.Assignment(nil), v...)
	}
	return c
}

func (st *memoryState) next() int64 {
	st.seq++
	return st.seq
}

// MemoryStore keeps everything in process. Update works on a copy of the
// state and swaps it in only when the callback succeeds.
type MemoryStore struct {
	writer sync.Mutex
	mu     sync.RWMutex
	state  *memoryState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

func (s *MemoryStore) View(ctx context.Context, fn func(Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memoryTx{st: s.state, readOnly: true})
}

func (s *MemoryStore) Update(ctx context.Context, fn func(Tx) error) error {
	s.writer.Lock()
	defer s.writer.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	draft := s.state.clone()
	s.mu.RUnlock()

	if err := fn(&memoryTx{st: draft}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = draft
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

type memoryTx struct {
	st       *memoryState
	readOnly bool
}

func (t *memoryTx) writable() error {
	if t.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (t *memoryTx) ListTeams(ctx context.Context) ([]model.Team, error) {
	teams := make([]model.Team, 0, len(t.st.teams))
	for _, team := range t.st.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool {
		if !strings.EqualFold(teams[i].Name, teams[j].Name) {
			return strings.ToLower(teams[i].Name) < strings.ToLower(teams[j].Name)
		}
		return t.st.order[teams[i].ID] < t.st.order[teams[j].ID]
	})
	return teams, nil
}

func (t *memoryTx) GetTeam(ctx context.Context, id string) (model.Team, error) {
	team, ok := t.st.teams[id]
	if !ok {
		return model.Team{}, model.ErrTeamNotFound
	}
	return team, nil
}

func (t *memoryTx) CreateTeam(ctx context.Context, team model.Team) (model.Team, error) {
	if err := t.writable(); err != nil {
		return model.Team{}, err
	}
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	t.st.teams[team.ID] = team
	t.st.order[team.ID] = t.st.next()
	return team, nil
}

func (t *memoryTx) UpdateTeam(ctx context.Context, team model.Team) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.teams[team.ID]; !ok {
		return model.ErrTeamNotFound
	}
	t.st.teams[team.ID] = team
	return nil
}

func (t *memoryTx) DeleteTeam(ctx context.Context, id string) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.teams[id]; !ok {
		return model.ErrTeamNotFound
	}
	for pid, p := range t.st.players {
		if p.TeamID == id {
			p.TeamID = ""
			t.st.players[pid] = p
		}
	}
	for mid, m := range t.st.matches {
		changed := false
		if m.Team1ID == id {
			m.Team1ID, changed = "", true
		}
		if m.Team2ID == id {
			m.Team2ID, changed = "", true
		}
		if changed {
			t.st.matches[mid] = m
		}
	}
	delete(t.st.teams, id)
	delete(t.st.order, id)
	return nil
}

func (t *memoryTx) sortPlayers(players []model.Player) {
	sort.Slice(players, func(i, j int) bool {
		return t.st.order[players[i].ID] < t.st.order[players[j].ID]
	})
}

func (t *memoryTx) ListPlayers(ctx context.Context) ([]model.Player, error) {
	players := make([]model.Player, 0, len(t.st.players))
	for _, p := range t.st.players {
		players = append(players, p)
	}
	t.sortPlayers(players)
	return players, nil
}

func (t *memoryTx) ListPlayersByTeam(ctx context.Context, teamID string) ([]model.Player, error) {
	players := []model.Player{}
	if teamID == "" {
		return players, nil
	}
	for _, p := range t.st.players {
		if p.TeamID == teamID {
			players = append(players, p)
		}
	}
	t.sortPlayers(players)
	return players, nil
}

func (t *memoryTx) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	p, ok := t.st.players[id]
	if !ok {
		return model.Player{}, model.ErrPlayerNotFound
	}
	return p, nil
}

func (t *memoryTx) CreatePlayer(ctx context.Context, player model.Player) (model.Player, error) {
	if err := t.writable(); err != nil {
		return model.Player{}, err
	}
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now().UTC()
	}
	if player.TeamID != "" {
		if _, ok := t.st.teams[player.TeamID]; !ok {
			return model.Player{}, model.ErrTeamNotFound
		}
	}
	t.st.players[player.ID] = player
	t.st.order[player.ID] = t.st.next()
	return player, nil
}

func (t *memoryTx) UpdatePlayer(ctx context.Context, player model.Player) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.players[player.ID]; !ok {
		return model.ErrPlayerNotFound
	}
	if player.TeamID != "" {
		if _, ok := t.st.teams[player.TeamID]; !ok {
			return model.ErrTeamNotFound
		}
	}
	t.st.players[player.ID] = player
	return nil
}

func (t *memoryTx) DeletePlayer(ctx context.Context, id string) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.players[id]; !ok {
		return model.ErrPlayerNotFound
	}
	delete(t.st.skills, id)
	for mid, rows := range t.st.assignments {
		kept := rows[:0]
		for _, a := range rows {
			if a.PlayerID != id {
				kept = append(kept, a)
			}
		}
		t.st.assignments[mid] = kept
	}
	for tid, team := range t.st.teams {
		if team.CaptainID == id {
			team.CaptainID = ""
			t.st.teams[tid] = team
		}
	}
	delete(t.st.players, id)
	delete(t.st.order, id)
	return nil
}

func (t *memoryTx) ListSkills(ctx context.Context, playerID, sport string) ([]model.PlayerSkill, error) {
	skills := []model.PlayerSkill{}
	for _, sk := range t.st.skills[playerID] {
		if sk.Sport == sport {
			skills = append(skills, sk)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

func (t *memoryTx) ReplaceSkills(ctx context.Context, playerID, sport string, skills model.SkillSet) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.players[playerID]; !ok {
		return model.ErrPlayerNotFound
	}
	rows := []model.PlayerSkill{}
	for _, sk := range t.st.skills[playerID] {
		if sk.Sport != sport {
			rows = append(rows, sk)
		}
	}
	for name, value := range skills {
		rows = append(rows, model.PlayerSkill{PlayerID: playerID, Sport: sport, Name: name, Value: value})
	}
	t.st.skills[playerID] = rows
	return nil
}

func (t *memoryTx) ListMatches(ctx context.Context) ([]model.Match, error) {
	matches := make([]model.Match, 0, len(t.st.matches))
	for _, m := range t.st.matches {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		return t.st.order[matches[i].ID] > t.st.order[matches[j].ID]
	})
	return matches, nil
}

func (t *memoryTx) GetMatch(ctx context.Context, id string) (model.Match, error) {
	m, ok := t.st.matches[id]
	if !ok {
		return model.Match{}, model.ErrMatchNotFound
	}
	return m, nil
}

// LockMatch needs no row lock here: Update already runs one writer at a time.
func (t *memoryTx) LockMatch(ctx context.Context, id string) (model.Match, error) {
	if err := t.writable(); err != nil {
		return model.Match{}, err
	}
	return t.GetMatch(ctx, id)
}

func (t *memoryTx) CreateMatch(ctx context.Context, match model.Match) (model.Match, error) {
	if err := t.writable(); err != nil {
		return model.Match{}, err
	}
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now().UTC()
	}
	if match.Status == "" {
		match.Status = model.MatchPending
	}
	t.st.matches[match.ID] = match
	t.st.order[match.ID] = t.st.next()
	return match, nil
}

func (t *memoryTx) UpdateMatch(ctx context.Context, match model.Match) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.matches[match.ID]; !ok {
		return model.ErrMatchNotFound
	}
	t.st.matches[match.ID] = match
	return nil
}

func (t *memoryTx) ListAssignments(ctx context.Context, matchID string) ([]model.Assignment, error) {
	rows := append([]model.Assignment{}, t.st.assignments[matchID]...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })
	return rows, nil
}

func (t *memoryTx) CountAssignments(ctx context.Context, matchID string) (int, error) {
	return len(t.st.assignments[matchID]), nil
}

func (t *memoryTx) DeleteAssignments(ctx context.Context, matchID string) error {
	if err := t.writable(); err != nil {
		return err
	}
	delete(t.st.assignments, matchID)
	return nil
}

func (t *memoryTx) DeleteAssignment(ctx context.Context, matchID, playerID string) error {
	if err := t.writable(); err != nil {
		return err
	}
	rows := t.st.assignments[matchID]
	kept := make([]model.Assignment, 0, len(rows))
	for _, a := range rows {
		if a.PlayerID != playerID {
			kept = append(kept, a)
		}
	}
	t.st.assignments[matchID] = kept
	return nil
}

func (t *memoryTx) InsertAssignment(ctx context.Context, a model.Assignment) (model.Assignment, error) {
	if err := t.writable(); err != nil {
		return model.Assignment{}, err
	}
	if _, ok := t.st.matches[a.MatchID]; !ok {
		return model.Assignment{}, model.ErrMatchNotFound
	}
	if _, ok := t.st.players[a.PlayerID]; !ok {
		return model.Assignment{}, model.ErrPlayerNotFound
	}
	for _, existing := range t.st.assignments[a.MatchID] {
		if existing.PlayerID == a.PlayerID {
			return model.Assignment{}, ErrDuplicateAssignment
		}
	}
	a.Seq = t.st.next()
	t.st.assignments[a.MatchID] = append(t.st.assignments[a.MatchID], a)
	return a, nil
}

func (t *memoryTx) GetInvite(ctx context.Context, id string) (model.Invite, error) {
	inv, ok := t.st.invites[id]
	if !ok {
		return model.Invite{}, model.ErrInviteNotFound
	}
	return inv, nil
}

func (t *memoryTx) CreateInvite(ctx context.Context, invite model.Invite) (model.Invite, error) {
	if err := t.writable(); err != nil {
		return model.Invite{}, err
	}
	if invite.ID == "" {
		invite.ID = uuid.NewString()
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now().UTC()
	}
	t.st.invites[invite.ID] = invite
	return invite, nil
}

func (t *memoryTx) UpdateInvite(ctx context.Context, invite model.Invite) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.invites[invite.ID]; !ok {
		return model.ErrInviteNotFound
	}
	t.st.invites[invite.ID] = invite
	return nil
}
