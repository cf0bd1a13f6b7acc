package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"squadup-app/internal/model"
)

type storeFactory func(t *testing.T) Store

func factories(t *testing.T) map[string]storeFactory {
	t.Helper()
	out := map[string]storeFactory{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"), SQLiteOptions{})
			if err != nil {
				t.Fatalf("sqlite store: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		out["postgres"] = func(t *testing.T) Store {
			s, err := NewPostgresStore(context.Background(), dsn, PostgresOptions{})
			if err != nil {
				t.Fatalf("postgres store: %v", err)
			}
			t.Cleanup(func() {
				_, _ = s.db.Exec(`TRUNCATE match_assignments, player_skills, invites, matches, players, teams`)
				_ = s.Close()
			})
			return s
		}
	}
	return out
}

func TestStoreContract(t *testing.T) {
	for name, factory := range factories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("team and players", func(t *testing.T) { testTeamAndPlayers(t, factory(t)) })
			t.Run("assignments", func(t *testing.T) { testAssignments(t, factory(t)) })
			t.Run("rollback", func(t *testing.T) { testRollback(t, factory(t)) })
			t.Run("delete player cascades", func(t *testing.T) { testDeletePlayer(t, factory(t)) })
			t.Run("delete team releases slots", func(t *testing.T) { testDeleteTeam(t, factory(t)) })
			t.Run("view is read only", func(t *testing.T) { testViewReadOnly(t, factory(t)) })
		})
	}
}

func testTeamAndPlayers(t *testing.T, s Store) {
	ctx := context.Background()
	var teamID string
	err := s.Update(ctx, func(tx Tx) error {
		team, err := tx.CreateTeam(ctx, model.Team{Name: "Reds", Sport: "soccer", SkillRating: model.DefaultRating})
		if err != nil {
			return err
		}
		teamID = team.ID
		for _, name := range []string{"Ana", "Bo", "Cy"} {
			if _, err := tx.CreatePlayer(ctx, model.Player{Name: name, TeamID: team.ID, SkillRating: model.DefaultRating}); err != nil {
				return err
			}
		}
		_, err = tx.CreatePlayer(ctx, model.Player{Name: "Free agent", SkillRating: model.DefaultRating})
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	err = s.View(ctx, func(tx Tx) error {
		members, err := tx.ListPlayersByTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if len(members) != 3 {
			t.Fatalf("expected 3 members, got %d", len(members))
		}
		for i, want := range []string{"Ana", "Bo", "Cy"} {
			if members[i].Name != want {
				t.Errorf("member %d: expected %s, got %s", i, want, members[i].Name)
			}
		}
		all, err := tx.ListPlayers(ctx)
		if err != nil {
			return err
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 players, got %d", len(all))
		}
		if _, err := tx.GetTeam(ctx, "missing"); !errors.Is(err, model.ErrTeamNotFound) {
			t.Errorf("expected ErrTeamNotFound, got %v", err)
		}
		if _, err := tx.GetPlayer(ctx, "missing"); !errors.Is(err, model.ErrPlayerNotFound) {
			t.Errorf("expected ErrPlayerNotFound, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func seedMatch(t *testing.T, s Store, players int) (string, []string) {
	t.Helper()
	ctx := context.Background()
	var matchID string
	var ids []string
	err := s.Update(ctx, func(tx Tx) error {
		for i := 0; i < players; i++ {
			p, err := tx.CreatePlayer(ctx, model.Player{Name: string(rune('A' + i)), SkillRating: model.DefaultRating})
			if err != nil {
				return err
			}
			ids = append(ids, p.ID)
		}
		m, err := tx.CreateMatch(ctx, model.Match{Sport: "soccer"})
		matchID = m.ID
		return err
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return matchID, ids
}

func testAssignments(t *testing.T, s Store) {
	ctx := context.Background()
	matchID, ids := seedMatch(t, s, 3)

	err := s.Update(ctx, func(tx Tx) error {
		for i, id := range ids {
			side := model.SideA
			if i%2 == 1 {
				side = model.SideB
			}
			if _, err := tx.InsertAssignment(ctx, model.Assignment{MatchID: matchID, PlayerID: id, Side: side}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	err = s.Update(ctx, func(tx Tx) error {
		_, err := tx.InsertAssignment(ctx, model.Assignment{MatchID: matchID, PlayerID: ids[0], Side: model.SideB})
		return err
	})
	if !errors.Is(err, ErrDuplicateAssignment) {
		t.Fatalf("expected ErrDuplicateAssignment, got %v", err)
	}

	err = s.View(ctx, func(tx Tx) error {
		rows, err := tx.ListAssignments(ctx, matchID)
		if err != nil {
			return err
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].Seq <= rows[i-1].Seq {
				t.Errorf("rows out of insertion order: %+v", rows)
			}
		}
		if rows[0].PlayerID != ids[0] || rows[0].Side != model.SideA {
			t.Errorf("unexpected first row %+v", rows[0])
		}
		n, err := tx.CountAssignments(ctx, matchID)
		if err != nil {
			return err
		}
		if n != 3 {
			t.Errorf("expected count 3, got %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	err = s.Update(ctx, func(tx Tx) error {
		if err := tx.DeleteAssignment(ctx, matchID, ids[1]); err != nil {
			return err
		}
		// absent rows are not an error
		if err := tx.DeleteAssignment(ctx, matchID, ids[1]); err != nil {
			return err
		}
		n, err := tx.CountAssignments(ctx, matchID)
		if err != nil {
			return err
		}
		if n != 2 {
			t.Errorf("expected 2 after delete, got %d", n)
		}
		return tx.DeleteAssignments(ctx, matchID)
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func testRollback(t *testing.T, s Store) {
	ctx := context.Background()
	matchID, ids := seedMatch(t, s, 2)
	boom := errors.New("boom")

	err := s.Update(ctx, func(tx Tx) error {
		if _, err := tx.InsertAssignment(ctx, model.Assignment{MatchID: matchID, PlayerID: ids[0], Side: model.SideA}); err != nil {
			return err
		}
		m, err := tx.LockMatch(ctx, matchID)
		if err != nil {
			return err
		}
		m.Status = model.MatchLocked
		if err := tx.UpdateMatch(ctx, m); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = s.View(ctx, func(tx Tx) error {
		n, err := tx.CountAssignments(ctx, matchID)
		if err != nil {
			return err
		}
		if n != 0 {
			t.Errorf("expected rolled back assignments, got %d", n)
		}
		m, err := tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if m.Status != model.MatchPending {
			t.Errorf("expected pending after rollback, got %s", m.Status)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func testDeletePlayer(t *testing.T, s Store) {
	ctx := context.Background()
	matchID, ids := seedMatch(t, s, 2)
	var teamID string

	err := s.Update(ctx, func(tx Tx) error {
		team, err := tx.CreateTeam(ctx, model.Team{Name: "Blues", Sport: "soccer", SkillRating: model.DefaultRating, CaptainID: ids[0]})
		if err != nil {
			return err
		}
		teamID = team.ID
		if err := tx.ReplaceSkills(ctx, ids[0], "soccer", model.SkillSet{"pace": 80, "passing": 60}); err != nil {
			return err
		}
		_, err = tx.InsertAssignment(ctx, model.Assignment{MatchID: matchID, PlayerID: ids[0], Side: model.SideA})
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := s.Update(ctx, func(tx Tx) error { return tx.DeletePlayer(ctx, ids[0]) }); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Update(ctx, func(tx Tx) error { return tx.DeletePlayer(ctx, ids[0]) }); !errors.Is(err, model.ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound on second delete, got %v", err)
	}

	err = s.View(ctx, func(tx Tx) error {
		skills, err := tx.ListSkills(ctx, ids[0], "soccer")
		if err != nil {
			return err
		}
		if len(skills) != 0 {
			t.Errorf("expected skills removed, got %v", skills)
		}
		n, err := tx.CountAssignments(ctx, matchID)
		if err != nil {
			return err
		}
		if n != 0 {
			t.Errorf("expected assignments removed, got %d", n)
		}
		team, err := tx.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if team.CaptainID != "" {
			t.Errorf("expected captain cleared, got %q", team.CaptainID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func testDeleteTeam(t *testing.T, s Store) {
	ctx := context.Background()
	var teamID, playerID, matchID string
	err := s.Update(ctx, func(tx Tx) error {
		team, err := tx.CreateTeam(ctx, model.Team{Name: "Greens", Sport: "soccer", SkillRating: model.DefaultRating})
		if err != nil {
			return err
		}
		teamID = team.ID
		p, err := tx.CreatePlayer(ctx, model.Player{Name: "Dee", TeamID: team.ID, SkillRating: model.DefaultRating})
		if err != nil {
			return err
		}
		playerID = p.ID
		m, err := tx.CreateMatch(ctx, model.Match{Sport: "soccer", Team2ID: team.ID})
		matchID = m.ID
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := s.Update(ctx, func(tx Tx) error { return tx.DeleteTeam(ctx, teamID) }); err != nil {
		t.Fatalf("delete team: %v", err)
	}

	err = s.View(ctx, func(tx Tx) error {
		p, err := tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if p.TeamID != "" {
			t.Errorf("expected player released, got team %q", p.TeamID)
		}
		m, err := tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if m.Team2ID != "" {
			t.Errorf("expected open slot, got %q", m.Team2ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func testViewReadOnly(t *testing.T, s Store) {
	ctx := context.Background()
	err := s.View(ctx, func(tx Tx) error {
		_, err := tx.CreateTeam(ctx, model.Team{Name: "Nope"})
		return err
	})
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestReplaceSkillsKeepsOtherSports(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var id string
	err := s.Update(ctx, func(tx Tx) error {
		p, err := tx.CreatePlayer(ctx, model.Player{Name: "Eve"})
		if err != nil {
			return err
		}
		id = p.ID
		if err := tx.ReplaceSkills(ctx, id, "soccer", model.SkillSet{"pace": 70}); err != nil {
			return err
		}
		if err := tx.ReplaceSkills(ctx, id, "basketball", model.SkillSet{"shooting": 90}); err != nil {
			return err
		}
		return tx.ReplaceSkills(ctx, id, "soccer", model.SkillSet{"passing": 50, "stamina": 40})
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	_ = s.View(ctx, func(tx Tx) error {
		soccer, _ := tx.ListSkills(ctx, id, "soccer")
		if len(soccer) != 2 || soccer[0].Name != "passing" || soccer[1].Name != "stamina" {
			t.Errorf("unexpected soccer skills %+v", soccer)
		}
		basketball, _ := tx.ListSkills(ctx, id, "basketball")
		if len(basketball) != 1 || basketball[0].Value != 90 {
			t.Errorf("unexpected basketball skills %+v", basketball)
		}
		return nil
	})
}

func TestRebind(t *testing.T) {
	got := postgresDialect.rebind(`SELECT a FROM t WHERE x = ? AND y = ?`)
	if got != `SELECT a FROM t WHERE x = $1 AND y = $2` {
		t.Fatalf("unexpected rebind %q", got)
	}
	if q := sqliteDialect.rebind(`x = ?`); q != `x = ?` {
		t.Fatalf("sqlite should keep placeholders, got %q", q)
	}
}
