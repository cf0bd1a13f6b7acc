package service

import (
	"context"
	"fmt"
	"strings"

	"squadup-app/internal/model"
	"squadup-app/internal/rating"
	"squadup-app/internal/store"
)

type TeamInput struct {
	Name        string
	Color       string
	Sport       string
	Rating      *int
	CaptainName string
}

type TeamDetail struct {
	Team    model.Team     `json:"team"`
	Members []model.Player `json:"members"`
}

// CreateTeam stores the team and, when a captain name is given, a captain
// player on it carrying the team's starting rating.
func (s *Service) CreateTeam(ctx context.Context, in TeamInput) (TeamDetail, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return TeamDetail{}, fmt.Errorf("%w: team name is required", model.ErrValidation)
	}
	start := model.DefaultRating
	if in.Rating != nil {
		start = *in.Rating
	}
	sport := strings.TrimSpace(in.Sport)
	if sport == "" {
		sport = model.DefaultSport
	}

	var d TeamDetail
	err := s.store.Update(ctx, func(tx store.Tx) error {
		team, err := tx.CreateTeam(ctx, model.Team{
			Name:        name,
			Color:       strings.TrimSpace(in.Color),
			Sport:       sport,
			SkillRating: start,
			CreatedAt:   s.now().UTC(),
		})
		if err != nil {
			return err
		}
		d.Members = []model.Player{}
		if captain := strings.TrimSpace(in.CaptainName); captain != "" {
			p, err := tx.CreatePlayer(ctx, model.Player{
				Name:        captain,
				Role:        model.RoleCaptain,
				SkillRating: start,
				TeamID:      team.ID,
				CreatedAt:   s.now().UTC(),
			})
			if err != nil {
				return err
			}
			team.CaptainID = p.ID
			if err := tx.UpdateTeam(ctx, team); err != nil {
				return err
			}
			d.Members = append(d.Members, p)
		}
		d.Team = team
		return nil
	})
	if err != nil {
		return TeamDetail{}, err
	}
	s.log.Info("team created", "team_id", d.Team.ID, "sport", d.Team.Sport)
	return d, nil
}

func (s *Service) ListTeams(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		teams, err = tx.ListTeams(ctx)
		return err
	})
	return teams, err
}

func (s *Service) GetTeam(ctx context.Context, teamID string) (TeamDetail, error) {
	var d TeamDetail
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		if d.Team, err = tx.GetTeam(ctx, teamID); err != nil {
			return err
		}
		d.Members, err = tx.ListPlayersByTeam(ctx, teamID)
		return err
	})
	return d, err
}

// DeleteTeam releases the members and any match slots the team held.
func (s *Service) DeleteTeam(ctx context.Context, teamID string) error {
	err := s.store.Update(ctx, func(tx store.Tx) error {
		return tx.DeleteTeam(ctx, teamID)
	})
	if err != nil {
		return err
	}
	s.log.Info("team deleted", "team_id", teamID)
	return nil
}

// recomputeTeams refreshes team ratings after a membership or skill change.
// Failures leave the old rating in place and are only logged.
func (s *Service) recomputeTeams(ctx context.Context, teamIDs ...string) {
	done := map[string]bool{}
	for _, id := range teamIDs {
		if id == "" || done[id] {
			continue
		}
		done[id] = true
		err := s.store.Update(ctx, func(tx store.Tx) error {
			_, err := rating.RecomputeTeam(ctx, tx, id)
			return err
		})
		if err != nil {
			s.log.Warn("team rating not recomputed", "team_id", id, "error", err)
		}
	}
}
