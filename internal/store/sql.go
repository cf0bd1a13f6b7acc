package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"squadup-app/internal/model"

	"github.com/google/uuid"
)

type dialect struct {
	name string
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
	// appended to the match lookup in LockMatch
	lockClause string
}

var (
	sqliteDialect   = dialect{name: "sqlite"}
	postgresDialect = dialect{name: "postgres", numbered: true, lockClause: " FOR UPDATE"}
)

func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// sqlStore is shared by the SQLite and Postgres stores. View reads straight
// from the pool; Update runs inside a database transaction.
type sqlStore struct {
	db *sql.DB
	d  dialect
}

func (s *sqlStore) View(ctx context.Context, fn func(Tx) error) error {
	return fn(&sqlTx{q: s.db, d: s.d, readOnly: true})
}

func (s *sqlStore) Update(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", s.d.name, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(&sqlTx{q: tx, d: s.d}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s tx: %w", s.d.name, err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

type sqlTx struct {
	q        queryer
	d        dialect
	readOnly bool
}

func (t *sqlTx) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if t.readOnly {
		return nil, ErrReadOnly
	}
	return t.q.ExecContext(ctx, t.d.rebind(query), args...)
}

func (t *sqlTx) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.q.QueryContext(ctx, t.d.rebind(query), args...)
}

func (t *sqlTx) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.q.QueryRowContext(ctx, t.d.rebind(query), args...)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

func isForeignKeyViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}

func mustAffect(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

const teamColumns = `id, name, color, sport, skill_rating, captain_id, created_at`

func scanTeamRow(row rowScanner) (model.Team, error) {
	var team model.Team
	var captain sql.NullString
	if err := row.Scan(&team.ID, &team.Name, &team.Color, &team.Sport, &team.SkillRating, &captain, &team.CreatedAt); err != nil {
		return model.Team{}, err
	}
	team.CaptainID = captain.String
	return team, nil
}

func (t *sqlTx) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := t.query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY lower(name), created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		team, err := scanTeamRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (t *sqlTx) GetTeam(ctx context.Context, id string) (model.Team, error) {
	team, err := scanTeamRow(t.queryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Team{}, model.ErrTeamNotFound
	}
	if err != nil {
		return model.Team{}, fmt.Errorf("get team %s: %w", id, err)
	}
	return team, nil
}

func (t *sqlTx) CreateTeam(ctx context.Context, team model.Team) (model.Team, error) {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	_, err := t.exec(ctx, `INSERT INTO teams (`+teamColumns+`) VALUES (?,?,?,?,?,?,?)`,
		team.ID, team.Name, team.Color, team.Sport, team.SkillRating, nullable(team.CaptainID), team.CreatedAt,
	)
	if err != nil {
		return model.Team{}, fmt.Errorf("create team: %w", err)
	}
	return team, nil
}

func (t *sqlTx) UpdateTeam(ctx context.Context, team model.Team) error {
	res, err := t.exec(ctx, `UPDATE teams SET name = ?, color = ?, sport = ?, skill_rating = ?, captain_id = ? WHERE id = ?`,
		team.Name, team.Color, team.Sport, team.SkillRating, nullable(team.CaptainID), team.ID,
	)
	if err != nil {
		return fmt.Errorf("update team %s: %w", team.ID, err)
	}
	return mustAffect(res, model.ErrTeamNotFound)
}

func (t *sqlTx) DeleteTeam(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `UPDATE players SET team_id = NULL WHERE team_id = ?`, id); err != nil {
		return fmt.Errorf("release team members: %w", err)
	}
	if _, err := t.exec(ctx, `UPDATE matches SET team1_id = NULL WHERE team1_id = ?`, id); err != nil {
		return fmt.Errorf("release match slot: %w", err)
	}
	if _, err := t.exec(ctx, `UPDATE matches SET team2_id = NULL WHERE team2_id = ?`, id); err != nil {
		return fmt.Errorf("release match slot: %w", err)
	}
	res, err := t.exec(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete team %s: %w", id, err)
	}
	return mustAffect(res, model.ErrTeamNotFound)
}

const playerColumns = `id, name, email, role, skill_rating, invited, team_id, games_played, wins, losses, created_at`

func scanPlayerRow(row rowScanner) (model.Player, error) {
	var p model.Player
	var team sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.SkillRating, &p.Invited, &team, &p.GamesPlayed, &p.Wins, &p.Losses, &p.CreatedAt); err != nil {
		return model.Player{}, err
	}
	p.TeamID = team.String
	return p, nil
}

func (t *sqlTx) listPlayers(ctx context.Context, query string, args ...any) ([]model.Player, error) {
	rows, err := t.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		p, err := scanPlayerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (t *sqlTx) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return t.listPlayers(ctx, `SELECT `+playerColumns+` FROM players ORDER BY created_at, id`)
}

func (t *sqlTx) ListPlayersByTeam(ctx context.Context, teamID string) ([]model.Player, error) {
	if teamID == "" {
		return []model.Player{}, nil
	}
	return t.listPlayers(ctx, `SELECT `+playerColumns+` FROM players WHERE team_id = ? ORDER BY created_at, id`, teamID)
}

func (t *sqlTx) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	p, err := scanPlayerRow(t.queryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Player{}, model.ErrPlayerNotFound
	}
	if err != nil {
		return model.Player{}, fmt.Errorf("get player %s: %w", id, err)
	}
	return p, nil
}

func (t *sqlTx) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := t.exec(ctx, `INSERT INTO players (`+playerColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Email, p.Role, p.SkillRating, p.Invited, nullable(p.TeamID), p.GamesPlayed, p.Wins, p.Losses, p.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Player{}, model.ErrTeamNotFound
		}
		return model.Player{}, fmt.Errorf("create player: %w", err)
	}
	return p, nil
}

func (t *sqlTx) UpdatePlayer(ctx context.Context, p model.Player) error {
	res, err := t.exec(ctx, `UPDATE players SET name = ?, email = ?, role = ?, skill_rating = ?, invited = ?, team_id = ?, games_played = ?, wins = ?, losses = ? WHERE id = ?`,
		p.Name, p.Email, p.Role, p.SkillRating, p.Invited, nullable(p.TeamID), p.GamesPlayed, p.Wins, p.Losses, p.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrTeamNotFound
		}
		return fmt.Errorf("update player %s: %w", p.ID, err)
	}
	return mustAffect(res, model.ErrPlayerNotFound)
}

func (t *sqlTx) DeletePlayer(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM player_skills WHERE player_id = ?`, id); err != nil {
		return fmt.Errorf("delete player skills: %w", err)
	}
	if _, err := t.exec(ctx, `DELETE FROM match_assignments WHERE player_id = ?`, id); err != nil {
		return fmt.Errorf("delete player assignments: %w", err)
	}
	if _, err := t.exec(ctx, `UPDATE teams SET captain_id = NULL WHERE captain_id = ?`, id); err != nil {
		return fmt.Errorf("clear captain: %w", err)
	}
	res, err := t.exec(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete player %s: %w", id, err)
	}
	return mustAffect(res, model.ErrPlayerNotFound)
}

func (t *sqlTx) ListSkills(ctx context.Context, playerID, sport string) ([]model.PlayerSkill, error) {
	rows, err := t.query(ctx, `SELECT player_id, sport, name, value FROM player_skills WHERE player_id = ? AND sport = ? ORDER BY name`, playerID, sport)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	skills := []model.PlayerSkill{}
	for rows.Next() {
		var sk model.PlayerSkill
		if err := rows.Scan(&sk.PlayerID, &sk.Sport, &sk.Name, &sk.Value); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

func (t *sqlTx) ReplaceSkills(ctx context.Context, playerID, sport string, skills model.SkillSet) error {
	if _, err := t.GetPlayer(ctx, playerID); err != nil {
		return err
	}
	if _, err := t.exec(ctx, `DELETE FROM player_skills WHERE player_id = ? AND sport = ?`, playerID, sport); err != nil {
		return fmt.Errorf("clear skills: %w", err)
	}
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := t.exec(ctx, `INSERT INTO player_skills (player_id, sport, name, value) VALUES (?,?,?,?)`, playerID, sport, name, skills[name]); err != nil {
			return fmt.Errorf("insert skill %s: %w", name, err)
		}
	}
	return nil
}

const matchColumns = `id, sport, location, scheduled_at, team1_id, team2_id, stakes, status, winner_side, created_at`

func scanMatchRow(row rowScanner) (model.Match, error) {
	var m model.Match
	var scheduled sql.NullTime
	var team1, team2 sql.NullString
	var status string
	if err := row.Scan(&m.ID, &m.Sport, &m.Location, &scheduled, &team1, &team2, &m.Stakes, &status, &m.WinnerSide, &m.CreatedAt); err != nil {
		return model.Match{}, err
	}
	if scheduled.Valid {
		at := scheduled.Time
		m.ScheduledAt = &at
	}
	m.Team1ID = team1.String
	m.Team2ID = team2.String
	m.Status = model.MatchStatus(status)
	return m, nil
}

func (t *sqlTx) ListMatches(ctx context.Context) ([]model.Match, error) {
	rows, err := t.query(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		m, err := scanMatchRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (t *sqlTx) getMatch(ctx context.Context, id, suffix string) (model.Match, error) {
	m, err := scanMatchRow(t.queryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`+suffix, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Match{}, model.ErrMatchNotFound
	}
	if err != nil {
		return model.Match{}, fmt.Errorf("get match %s: %w", id, err)
	}
	return m, nil
}

func (t *sqlTx) GetMatch(ctx context.Context, id string) (model.Match, error) {
	return t.getMatch(ctx, id, "")
}

func (t *sqlTx) LockMatch(ctx context.Context, id string) (model.Match, error) {
	if t.readOnly {
		return model.Match{}, ErrReadOnly
	}
	return t.getMatch(ctx, id, t.d.lockClause)
}

func (t *sqlTx) CreateMatch(ctx context.Context, m model.Match) (model.Match, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.Status == "" {
		m.Status = model.MatchPending
	}
	_, err := t.exec(ctx, `INSERT INTO matches (`+matchColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.Sport, m.Location, nullableTime(m.ScheduledAt), nullable(m.Team1ID), nullable(m.Team2ID), m.Stakes, string(m.Status), m.WinnerSide, m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Match{}, model.ErrTeamNotFound
		}
		return model.Match{}, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

func (t *sqlTx) UpdateMatch(ctx context.Context, m model.Match) error {
	res, err := t.exec(ctx, `UPDATE matches SET sport = ?, location = ?, scheduled_at = ?, team1_id = ?, team2_id = ?, stakes = ?, status = ?, winner_side = ? WHERE id = ?`,
		m.Sport, m.Location, nullableTime(m.ScheduledAt), nullable(m.Team1ID), nullable(m.Team2ID), m.Stakes, string(m.Status), m.WinnerSide, m.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrTeamNotFound
		}
		return fmt.Errorf("update match %s: %w", m.ID, err)
	}
	return mustAffect(res, model.ErrMatchNotFound)
}

func (t *sqlTx) ListAssignments(ctx context.Context, matchID string) ([]model.Assignment, error) {
	rows, err := t.query(ctx, `SELECT seq, match_id, player_id, side FROM match_assignments WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	out := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		var side string
		if err := rows.Scan(&a.Seq, &a.MatchID, &a.PlayerID, &side); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.Side = model.Side(side)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (t *sqlTx) CountAssignments(ctx context.Context, matchID string) (int, error) {
	var n int
	if err := t.queryRow(ctx, `SELECT COUNT(*) FROM match_assignments WHERE match_id = ?`, matchID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return n, nil
}

func (t *sqlTx) DeleteAssignments(ctx context.Context, matchID string) error {
	if _, err := t.exec(ctx, `DELETE FROM match_assignments WHERE match_id = ?`, matchID); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	return nil
}

func (t *sqlTx) DeleteAssignment(ctx context.Context, matchID, playerID string) error {
	if _, err := t.exec(ctx, `DELETE FROM match_assignments WHERE match_id = ? AND player_id = ?`, matchID, playerID); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

func (t *sqlTx) InsertAssignment(ctx context.Context, a model.Assignment) (model.Assignment, error) {
	if t.readOnly {
		return model.Assignment{}, ErrReadOnly
	}
	err := t.queryRow(ctx, `INSERT INTO match_assignments (match_id, player_id, side) VALUES (?,?,?) RETURNING seq`,
		a.MatchID, a.PlayerID, string(a.Side),
	).Scan(&a.Seq)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return model.Assignment{}, ErrDuplicateAssignment
		case isForeignKeyViolation(err):
			return model.Assignment{}, model.ErrPlayerNotFound
		}
		return model.Assignment{}, fmt.Errorf("insert assignment: %w", err)
	}
	return a, nil
}

const inviteColumns = `id, context_type, context_id, email, invited_name, secret_hash, accepted, created_at`

func (t *sqlTx) GetInvite(ctx context.Context, id string) (model.Invite, error) {
	var inv model.Invite
	var contextType string
	err := t.queryRow(ctx, `SELECT `+inviteColumns+` FROM invites WHERE id = ?`, id).
		Scan(&inv.ID, &contextType, &inv.ContextID, &inv.Email, &inv.InvitedName, &inv.SecretHash, &inv.Accepted, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Invite{}, model.ErrInviteNotFound
	}
	if err != nil {
		return model.Invite{}, fmt.Errorf("get invite: %w", err)
	}
	inv.ContextType = model.InviteContext(contextType)
	return inv, nil
}

func (t *sqlTx) CreateInvite(ctx context.Context, inv model.Invite) (model.Invite, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	_, err := t.exec(ctx, `INSERT INTO invites (`+inviteColumns+`) VALUES (?,?,?,?,?,?,?,?)`,
		inv.ID, string(inv.ContextType), inv.ContextID, inv.Email, inv.InvitedName, inv.SecretHash, inv.Accepted, inv.CreatedAt,
	)
	if err != nil {
		return model.Invite{}, fmt.Errorf("create invite: %w", err)
	}
	return inv, nil
}

func (t *sqlTx) UpdateInvite(ctx context.Context, inv model.Invite) error {
	res, err := t.exec(ctx, `UPDATE invites SET email = ?, invited_name = ?, accepted = ? WHERE id = ?`,
		inv.Email, inv.InvitedName, inv.Accepted, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("update invite: %w", err)
	}
	return mustAffect(res, model.ErrInviteNotFound)
}
