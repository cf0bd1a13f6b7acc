package rating

import (
	"context"
	"errors"
	"fmt"

	"squadup-app/internal/model"
	"squadup-app/internal/store"
)

// ActiveSport is the sport whose skills count for the player: its team's
// sport, or the default when the player has no team.
func ActiveSport(ctx context.Context, tx store.Tx, p model.Player) (string, error) {
	if p.TeamID == "" {
		return model.DefaultSport, nil
	}
	team, err := tx.GetTeam(ctx, p.TeamID)
	if errors.Is(err, model.ErrTeamNotFound) {
		return model.DefaultSport, nil
	}
	if err != nil {
		return "", err
	}
	return team.ActiveSport(), nil
}

// SetSkills replaces the player's skill set for its active sport.
func SetSkills(ctx context.Context, tx store.Tx, playerID string, skills model.SkillSet) error {
	p, err := tx.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	for name, v := range skills {
		if v < model.MinSkillValue || v > model.MaxSkillValue {
			return fmt.Errorf("skill %q: %w", name, model.ErrInvalidSkillValue)
		}
	}
	sport, err := ActiveSport(ctx, tx, p)
	if err != nil {
		return err
	}
	return tx.ReplaceSkills(ctx, playerID, sport, skills)
}

func skillValues(ctx context.Context, tx store.Tx, playerID, sport string) ([]int, error) {
	skills, err := tx.ListSkills(ctx, playerID, sport)
	if err != nil {
		return nil, err
	}
	values := make([]int, len(skills))
	for i, sk := range skills {
		values[i] = sk.Value
	}
	return values, nil
}

// RecomputePlayer refreshes the stored rating of one player.
func RecomputePlayer(ctx context.Context, tx store.Tx, playerID string) (model.Player, error) {
	p, err := tx.GetPlayer(ctx, playerID)
	if err != nil {
		return model.Player{}, err
	}
	sport, err := ActiveSport(ctx, tx, p)
	if err != nil {
		return model.Player{}, err
	}
	values, err := skillValues(ctx, tx, p.ID, sport)
	if err != nil {
		return model.Player{}, err
	}
	next := PlayerRating(values, p.SkillRating)
	if next == p.SkillRating {
		return p, nil
	}
	p.SkillRating = next
	if err := tx.UpdatePlayer(ctx, p); err != nil {
		return model.Player{}, fmt.Errorf("store player rating: %w", err)
	}
	return p, nil
}

// RecomputeTeam refreshes the stored rating of one team from its current
// members.
func RecomputeTeam(ctx context.Context, tx store.Tx, teamID string) (model.Team, error) {
	team, err := tx.GetTeam(ctx, teamID)
	if err != nil {
		return model.Team{}, err
	}
	players, err := tx.ListPlayersByTeam(ctx, teamID)
	if err != nil {
		return model.Team{}, err
	}
	members := make([]Member, len(players))
	for i, p := range players {
		values, err := skillValues(ctx, tx, p.ID, team.ActiveSport())
		if err != nil {
			return model.Team{}, err
		}
		members[i] = Member{Rating: p.SkillRating, Values: values}
	}
	next := TeamRating(members, team.SkillRating)
	if next == team.SkillRating {
		return team, nil
	}
	team.SkillRating = next
	if err := tx.UpdateTeam(ctx, team); err != nil {
		return model.Team{}, fmt.Errorf("store team rating: %w", err)
	}
	return team, nil
}
