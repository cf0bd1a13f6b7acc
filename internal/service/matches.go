package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"squadup-app/internal/ledger"
	"squadup-app/internal/model"
	"squadup-app/internal/store"
)

type MatchInput struct {
	Sport       string
	Location    string
	ScheduledAt *time.Time
	Team1ID     string
	Team2ID     string
	Stakes      float64
}

// MatchDetail is a match with its teams, the pool balancing would draw from
// and the current sides.
type MatchDetail struct {
	Match model.Match    `json:"match"`
	Team1 *model.Team    `json:"team1,omitempty"`
	Team2 *model.Team    `json:"team2,omitempty"`
	Pool  []model.Player `json:"pool"`
	SideA []model.Player `json:"side_a"`
	SideB []model.Player `json:"side_b"`
}

// ParseSchedule accepts RFC 3339 and the shorter forms date pickers send.
// Anything else leaves the match unscheduled.
func ParseSchedule(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func (s *Service) CreateMatch(ctx context.Context, in MatchInput) (model.Match, error) {
	if in.Team1ID != "" && in.Team1ID == in.Team2ID {
		return model.Match{}, fmt.Errorf("%w: a team cannot play itself", model.ErrValidation)
	}
	if in.Stakes < 0 {
		return model.Match{}, fmt.Errorf("%w: stakes cannot be negative", model.ErrValidation)
	}
	sport := strings.TrimSpace(in.Sport)
	if sport == "" {
		sport = model.DefaultSport
	}
	var created model.Match
	err := s.store.Update(ctx, func(tx store.Tx) error {
		for _, id := range []string{in.Team1ID, in.Team2ID} {
			if id == "" {
				continue
			}
			if _, err := tx.GetTeam(ctx, id); err != nil {
				return err
			}
		}
		var err error
		created, err = tx.CreateMatch(ctx, model.Match{
			Sport:       sport,
			Location:    strings.TrimSpace(in.Location),
			ScheduledAt: in.ScheduledAt,
			Team1ID:     in.Team1ID,
			Team2ID:     in.Team2ID,
			Stakes:      in.Stakes,
			Status:      model.MatchPending,
			CreatedAt:   s.now().UTC(),
		})
		return err
	})
	if err != nil {
		return model.Match{}, err
	}
	s.log.Info("match created", "match_id", created.ID, "sport", created.Sport)
	return created, nil
}

func (s *Service) ListMatches(ctx context.Context) ([]model.Match, error) {
	var matches []model.Match
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		matches, err = tx.ListMatches(ctx)
		return err
	})
	return matches, err
}

func (s *Service) GetMatch(ctx context.Context, matchID string) (MatchDetail, error) {
	var d MatchDetail
	err := s.store.View(ctx, func(tx store.Tx) error {
		m, err := tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		d.Match = m
		if d.Team1, err = optionalTeam(ctx, tx, m.Team1ID); err != nil {
			return err
		}
		if d.Team2, err = optionalTeam(ctx, tx, m.Team2ID); err != nil {
			return err
		}
		if d.Pool, err = poolFor(ctx, tx, m); err != nil {
			return err
		}
		part, err := ledger.AssignmentsFor(ctx, tx, m.ID)
		if err != nil {
			return err
		}
		if d.SideA, err = playersOf(ctx, tx, part.SideA); err != nil {
			return err
		}
		d.SideB, err = playersOf(ctx, tx, part.SideB)
		return err
	})
	return d, err
}

func optionalTeam(ctx context.Context, tx store.Tx, id string) (*model.Team, error) {
	if id == "" {
		return nil, nil
	}
	team, err := tx.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func playersOf(ctx context.Context, tx store.Tx, ids []string) ([]model.Player, error) {
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		p, err := tx.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// JoinOpenMatch puts the team into the first free slot of the match.
func (s *Service) JoinOpenMatch(ctx context.Context, matchID, teamID string) (model.Match, error) {
	var m model.Match
	err := s.store.Update(ctx, func(tx store.Tx) error {
		var err error
		if m, err = tx.LockMatch(ctx, matchID); err != nil {
			return err
		}
		if !m.Status.Mutable() {
			return model.Reject(model.ErrMatchLocked, m)
		}
		if _, err := tx.GetTeam(ctx, teamID); err != nil {
			return err
		}
		switch {
		case m.Team1ID == teamID || m.Team2ID == teamID:
			return model.Reject(model.ErrTeamAlreadyInMatch, m)
		case m.Team1ID == "":
			m.Team1ID = teamID
		case m.Team2ID == "":
			m.Team2ID = teamID
		default:
			return model.Reject(model.ErrMatchFull, m)
		}
		return tx.UpdateMatch(ctx, m)
	})
	if err != nil {
		return model.Match{}, err
	}
	s.log.Info("team joined match", "match_id", m.ID, "team_id", teamID)
	return m, nil
}

// Home is the landing summary.
type Home struct {
	Teams       []model.Team  `json:"teams"`
	Matches     []model.Match `json:"matches"`
	OpenMatches []model.Match `json:"open_matches"`
}

func (s *Service) Home(ctx context.Context) (Home, error) {
	var h Home
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		if h.Teams, err = tx.ListTeams(ctx); err != nil {
			return err
		}
		if h.Matches, err = tx.ListMatches(ctx); err != nil {
			return err
		}
		h.OpenMatches = []model.Match{}
		for _, m := range h.Matches {
			if m.Open() && m.Status.Mutable() {
				h.OpenMatches = append(h.OpenMatches, m)
			}
		}
		return nil
	})
	return h, err
}
