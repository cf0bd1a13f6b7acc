package service

import (
	"context"
	"fmt"
	"strings"

	"squadup-app/internal/model"
	"squadup-app/internal/rating"
	"squadup-app/internal/store"
)

// PlayerInput carries validated player fields. Skills replace the player's
// whole skill set for its active sport; EditPlayer keeps the stored set when
// Skills is nil. TeamID is only read by EditPlayer, where nil keeps the
// current team and an empty string releases the player.
type PlayerInput struct {
	Name   string
	Email  string
	Role   string
	Rating *int
	Skills model.SkillSet
	TeamID *string
}

type PlayerDetail struct {
	Player model.Player        `json:"player"`
	Sport  string              `json:"sport"`
	Skills []model.PlayerSkill `json:"skills"`
}

func playerDetail(ctx context.Context, tx store.Tx, p model.Player) (PlayerDetail, error) {
	sport, err := rating.ActiveSport(ctx, tx, p)
	if err != nil {
		return PlayerDetail{}, err
	}
	skills, err := tx.ListSkills(ctx, p.ID, sport)
	if err != nil {
		return PlayerDetail{}, err
	}
	return PlayerDetail{Player: p, Sport: sport, Skills: skills}, nil
}

// AddPlayer creates a player, on teamID when it is set.
func (s *Service) AddPlayer(ctx context.Context, teamID string, in PlayerInput) (PlayerDetail, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return PlayerDetail{}, fmt.Errorf("%w: player name is required", model.ErrValidation)
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = model.RolePlayer
	}
	start := model.DefaultRating
	if in.Rating != nil {
		start = *in.Rating
	}

	var d PlayerDetail
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if teamID != "" {
			if _, err := tx.GetTeam(ctx, teamID); err != nil {
				return err
			}
		}
		p, err := tx.CreatePlayer(ctx, model.Player{
			Name:        name,
			Email:       strings.TrimSpace(in.Email),
			Role:        role,
			SkillRating: start,
			TeamID:      teamID,
			CreatedAt:   s.now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := rating.SetSkills(ctx, tx, p.ID, in.Skills); err != nil {
			return err
		}
		if p, err = rating.RecomputePlayer(ctx, tx, p.ID); err != nil {
			return err
		}
		d, err = playerDetail(ctx, tx, p)
		return err
	})
	if err != nil {
		return PlayerDetail{}, err
	}
	s.recomputeTeams(ctx, teamID)
	s.log.Info("player added", "player_id", d.Player.ID, "team_id", teamID, "skills", len(d.Skills))
	return d, nil
}

// EditPlayer rewrites the player's fields and skill set, then refreshes the
// ratings of the player and of every team it belonged to before or after.
func (s *Service) EditPlayer(ctx context.Context, playerID string, in PlayerInput) (PlayerDetail, error) {
	var d PlayerDetail
	var previousTeam string
	err := s.store.Update(ctx, func(tx store.Tx) error {
		p, err := tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		previousTeam = p.TeamID
		if name := strings.TrimSpace(in.Name); name != "" {
			p.Name = name
		}
		p.Email = strings.TrimSpace(in.Email)
		if role := strings.TrimSpace(in.Role); role != "" {
			p.Role = role
		}
		if in.Rating != nil {
			p.SkillRating = *in.Rating
		}
		if in.TeamID != nil {
			if *in.TeamID != "" {
				if _, err := tx.GetTeam(ctx, *in.TeamID); err != nil {
					return err
				}
			}
			p.TeamID = *in.TeamID
		}
		if err := tx.UpdatePlayer(ctx, p); err != nil {
			return err
		}
		if in.Skills != nil {
			if err := rating.SetSkills(ctx, tx, p.ID, in.Skills); err != nil {
				return err
			}
		}
		if p, err = rating.RecomputePlayer(ctx, tx, p.ID); err != nil {
			return err
		}
		d, err = playerDetail(ctx, tx, p)
		return err
	})
	if err != nil {
		return PlayerDetail{}, err
	}
	s.recomputeTeams(ctx, previousTeam, d.Player.TeamID)
	s.log.Info("player edited", "player_id", d.Player.ID, "skills", len(d.Skills))
	return d, nil
}

// DeletePlayer removes the player with its skills and match assignments. The
// former team's rating is refreshed afterwards on a best-effort basis.
func (s *Service) DeletePlayer(ctx context.Context, playerID string) error {
	var teamID string
	err := s.store.Update(ctx, func(tx store.Tx) error {
		p, err := tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		teamID = p.TeamID
		return tx.DeletePlayer(ctx, playerID)
	})
	if err != nil {
		return err
	}
	s.recomputeTeams(ctx, teamID)
	s.log.Info("player deleted", "player_id", playerID, "team_id", teamID)
	return nil
}

func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	var players []model.Player
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		players, err = tx.ListPlayers(ctx)
		return err
	})
	return players, err
}

func (s *Service) GetPlayer(ctx context.Context, playerID string) (PlayerDetail, error) {
	var d PlayerDetail
	err := s.store.View(ctx, func(tx store.Tx) error {
		p, err := tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		d, err = playerDetail(ctx, tx, p)
		return err
	})
	return d, err
}
