package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"squadup-app/internal/model"
)

var demoSkills = map[string][]string{
	"soccer":     {"pace", "passing", "shooting", "defending", "stamina"},
	"basketball": {"shooting", "handling", "defense", "rebounding"},
}

// SeedDemo fills an empty store with sample teams, players and matches. A
// store that already has teams is left alone.
func (s *Service) SeedDemo(ctx context.Context) error {
	existing, err := s.ListTeams(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.log.Info("demo data skipped, store not empty", "teams", len(existing))
		return nil
	}
	rng := rand.New(rand.NewPCG(42, 42))

	teamDefs := []struct {
		Name, Color, Sport, Captain string
		Players                     []string
	}{
		{"Riverside Rovers", "#1d4ed8", "soccer", "Maya Okafor", []string{"Liam Brandt", "Sofia Reyes", "Noah Kim", "Ava Lindqvist", "Mateo Rossi"}},
		{"Harbor Hawks", "#dc2626", "soccer", "Jonas Weber", []string{"Chloe Martin", "Ethan Park", "Isla Novak", "Lucas Moreau", "Zara Ahmed"}},
		{"Northside Hoopers", "#16a34a", "basketball", "Dev Patel", []string{"Grace Liu", "Omar Haddad", "Nina Petrova", "Felix Sandoval"}},
	}

	teamIDs := make([]string, 0, len(teamDefs))
	for _, def := range teamDefs {
		team, err := s.CreateTeam(ctx, TeamInput{Name: def.Name, Color: def.Color, Sport: def.Sport, CaptainName: def.Captain})
		if err != nil {
			return fmt.Errorf("seed team %s: %w", def.Name, err)
		}
		teamIDs = append(teamIDs, team.Team.ID)
		for _, name := range def.Players {
			skills := model.SkillSet{}
			for _, skill := range demoSkills[def.Sport] {
				skills[skill] = 40 + rng.IntN(56)
			}
			if _, err := s.AddPlayer(ctx, team.Team.ID, PlayerInput{Name: name, Skills: skills}); err != nil {
				return fmt.Errorf("seed player %s: %w", name, err)
			}
		}
	}
	for _, name := range []string{"Sam Walker", "Priya Nair"} {
		if _, err := s.AddPlayer(ctx, "", PlayerInput{Name: name}); err != nil {
			return fmt.Errorf("seed free agent %s: %w", name, err)
		}
	}

	kickoff := s.now().Add(72 * time.Hour).Truncate(time.Hour)
	if _, err := s.CreateMatch(ctx, MatchInput{Sport: "soccer", Location: "Riverside Park, pitch 2", ScheduledAt: &kickoff, Team1ID: teamIDs[0], Team2ID: teamIDs[1], Stakes: 20}); err != nil {
		return fmt.Errorf("seed match: %w", err)
	}
	if _, err := s.CreateMatch(ctx, MatchInput{Sport: "basketball", Location: "Northside Gym", Team1ID: teamIDs[2]}); err != nil {
		return fmt.Errorf("seed open match: %w", err)
	}
	s.log.Info("demo data seeded", "teams", len(teamIDs))
	return nil
}
