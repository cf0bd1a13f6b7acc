package service

import (
	"context"
	"strings"

	"squadup-app/internal/ledger"
	"squadup-app/internal/lifecycle"
	"squadup-app/internal/model"
	"squadup-app/internal/roster"
	"squadup-app/internal/store"
)

// Sides lists player names per side, in assignment order.
type Sides struct {
	SideA []string `json:"side_a"`
	SideB []string `json:"side_b"`
}

// Target is where Assign puts a player: side A, side B, or off the match.
type Target string

const (
	TargetA      Target = "A"
	TargetB      Target = "B"
	TargetRemove Target = "remove"
)

// ParseTarget reads the side field of an assign request. The remove flag wins
// over any side value.
func ParseTarget(side string, remove bool) (Target, error) {
	if remove {
		return TargetRemove, nil
	}
	switch t := Target(strings.TrimSpace(side)); t {
	case TargetRemove:
		return t, nil
	case "a", "A":
		return TargetA, nil
	case "b", "B":
		return TargetB, nil
	}
	return "", model.ErrInvalidSide
}

// poolFor returns the members of the match's teams, team1 first, or every
// player when the teams bring nobody.
func poolFor(ctx context.Context, tx store.Tx, m model.Match) ([]model.Player, error) {
	if !m.HasTeams() {
		return tx.ListPlayers(ctx)
	}
	pool := []model.Player{}
	seen := map[string]bool{}
	for _, teamID := range []string{m.Team1ID, m.Team2ID} {
		if teamID == "" {
			continue
		}
		members, err := tx.ListPlayersByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		for _, p := range members {
			if !seen[p.ID] {
				seen[p.ID] = true
				pool = append(pool, p)
			}
		}
	}
	if len(pool) == 0 {
		return tx.ListPlayers(ctx)
	}
	return pool, nil
}

func (s *Service) Balance(ctx context.Context, matchID string) (Sides, error) {
	return s.split(ctx, matchID, roster.PolicyBalance)
}

func (s *Service) Shuffle(ctx context.Context, matchID string) (Sides, error) {
	return s.split(ctx, matchID, roster.PolicyShuffle)
}

func (s *Service) split(ctx context.Context, matchID string, policy roster.Policy) (Sides, error) {
	var m model.Match
	var part roster.Partition
	names := map[string]string{}

	err := s.store.Update(ctx, func(tx store.Tx) error {
		var err error
		if m, err = tx.LockMatch(ctx, matchID); err != nil {
			return err
		}
		if err := lifecycle.CheckMutable(m); err != nil {
			return err
		}
		pool, err := poolFor(ctx, tx, m)
		if err != nil {
			return err
		}
		entries := make([]roster.Entry, len(pool))
		for i, p := range pool {
			entries[i] = roster.Entry{ID: p.ID, Rating: p.SkillRating}
			names[p.ID] = p.DisplayName()
		}
		if part, err = s.balancer.Split(policy, entries); err != nil {
			return err
		}
		return ledger.ReplaceAll(ctx, tx, m, part)
	})
	if err != nil {
		return Sides{}, err
	}

	sides := Sides{SideA: namesOf(names, part.SideA), SideB: namesOf(names, part.SideB)}
	kind := model.EventBalanced
	if policy == roster.PolicyShuffle {
		kind = model.EventShuffled
	}
	s.log.Info("roster split", "match_id", m.ID, "policy", policy, "side_a", len(sides.SideA), "side_b", len(sides.SideB))
	s.notify(ctx, model.RosterEvent{Kind: kind, MatchID: m.ID, Sport: m.Sport, Status: m.Status, SideA: sides.SideA, SideB: sides.SideB})
	return sides, nil
}

func namesOf(names map[string]string, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = names[id]
	}
	return out
}

// currentSides resolves the match's assignments to player names.
func currentSides(ctx context.Context, tx store.Tx, matchID string) (Sides, error) {
	part, err := ledger.AssignmentsFor(ctx, tx, matchID)
	if err != nil {
		return Sides{}, err
	}
	resolve := func(ids []string) ([]string, error) {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			p, err := tx.GetPlayer(ctx, id)
			if err != nil {
				return nil, err
			}
			out = append(out, p.DisplayName())
		}
		return out, nil
	}
	a, err := resolve(part.SideA)
	if err != nil {
		return Sides{}, err
	}
	b, err := resolve(part.SideB)
	if err != nil {
		return Sides{}, err
	}
	return Sides{SideA: a, SideB: b}, nil
}

func (s *Service) ToggleLock(ctx context.Context, matchID string) (model.MatchStatus, error) {
	var m model.Match
	var sides Sides
	err := s.store.Update(ctx, func(tx store.Tx) error {
		var err error
		if m, err = tx.LockMatch(ctx, matchID); err != nil {
			return err
		}
		n, err := tx.CountAssignments(ctx, m.ID)
		if err != nil {
			return err
		}
		next, err := lifecycle.Toggle(m, n)
		if err != nil {
			return err
		}
		m.Status = next
		if err := tx.UpdateMatch(ctx, m); err != nil {
			return err
		}
		sides, err = currentSides(ctx, tx, m.ID)
		return err
	})
	if err != nil {
		return "", err
	}
	s.log.Info("match status changed", "match_id", m.ID, "status", m.Status)
	s.notify(ctx, model.RosterEvent{Kind: model.EventStatus, MatchID: m.ID, Sport: m.Sport, Status: m.Status, SideA: sides.SideA, SideB: sides.SideB})
	return m.Status, nil
}

func (s *Service) Assign(ctx context.Context, matchID, playerID string, target Target) error {
	var m model.Match
	var sides Sides
	err := s.store.Update(ctx, func(tx store.Tx) error {
		var err error
		if m, err = tx.LockMatch(ctx, matchID); err != nil {
			return err
		}
		if err := lifecycle.CheckMutable(m); err != nil {
			return err
		}
		if _, err := tx.GetPlayer(ctx, playerID); err != nil {
			return err
		}
		switch target {
		case TargetRemove:
			err = ledger.Remove(ctx, tx, m, playerID)
		case TargetA, TargetB:
			err = ledger.Upsert(ctx, tx, m, playerID, model.Side(target))
		default:
			err = model.ErrInvalidSide
		}
		if err != nil {
			return err
		}
		sides, err = currentSides(ctx, tx, m.ID)
		return err
	})
	if err != nil {
		return err
	}
	s.notify(ctx, model.RosterEvent{Kind: model.EventAssigned, MatchID: m.ID, Sport: m.Sport, Status: m.Status, SideA: sides.SideA, SideB: sides.SideB})
	return nil
}

// Complete finalizes a locked match and books the result on every assigned
// player's record.
func (s *Service) Complete(ctx context.Context, matchID string, outcome lifecycle.Outcome) (model.Match, error) {
	var done model.Match
	var sides Sides
	err := s.store.Update(ctx, func(tx store.Tx) error {
		m, err := tx.LockMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if done, err = lifecycle.Complete(m, outcome); err != nil {
			return err
		}
		rows, err := tx.ListAssignments(ctx, m.ID)
		if err != nil {
			return err
		}
		for _, a := range rows {
			p, err := tx.GetPlayer(ctx, a.PlayerID)
			if err != nil {
				return err
			}
			if err := tx.UpdatePlayer(ctx, lifecycle.Apply(p, a.Side, outcome)); err != nil {
				return err
			}
		}
		if err := tx.UpdateMatch(ctx, done); err != nil {
			return err
		}
		sides, err = currentSides(ctx, tx, m.ID)
		return err
	})
	if err != nil {
		return model.Match{}, err
	}
	s.log.Info("match completed", "match_id", done.ID, "winner", done.WinnerSide)
	s.notify(ctx, model.RosterEvent{Kind: model.EventCompleted, MatchID: done.ID, Sport: done.Sport, Status: done.Status, SideA: sides.SideA, SideB: sides.SideB})
	return done, nil
}
