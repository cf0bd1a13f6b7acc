package service

import (
	"context"
	"sort"

	"squadup-app/internal/model"
	"squadup-app/internal/store"
)

type StandingEntry struct {
	Player   model.Player `json:"player"`
	TeamName string       `json:"team_name,omitempty"`
	Played   int          `json:"played"`
	Wins     int          `json:"wins"`
	Losses   int          `json:"losses"`
	Draws    int          `json:"draws"`
	WinShare float64      `json:"win_share"`
}

// BuildStandings ranks players by wins, then win share, then fewer losses.
func BuildStandings(players []model.Player, teams []model.Team) []StandingEntry {
	teamNames := make(map[string]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	standings := make([]StandingEntry, 0, len(players))
	for _, p := range players {
		entry := StandingEntry{
			Player:   p,
			TeamName: teamNames[p.TeamID],
			Played:   p.GamesPlayed,
			Wins:     p.Wins,
			Losses:   p.Losses,
			Draws:    max(p.GamesPlayed-p.Wins-p.Losses, 0),
		}
		if p.GamesPlayed > 0 {
			entry.WinShare = float64(p.Wins) / float64(p.GamesPlayed)
		}
		standings = append(standings, entry)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.WinShare != b.WinShare {
			return a.WinShare > b.WinShare
		}
		if a.Losses != b.Losses {
			return a.Losses < b.Losses
		}
		return a.Player.Name < b.Player.Name
	})
	return standings
}

func (s *Service) Standings(ctx context.Context) ([]StandingEntry, error) {
	var players []model.Player
	var teams []model.Team
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		if players, err = tx.ListPlayers(ctx); err != nil {
			return err
		}
		teams, err = tx.ListTeams(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return BuildStandings(players, teams), nil
}
