package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"squadup-app/internal/model"
	"squadup-app/internal/store"
)

func concurrentStores(t *testing.T) map[string]func(t *testing.T) store.Store {
	t.Helper()
	out := map[string]func(t *testing.T) store.Store{
		"memory": func(t *testing.T) store.Store { return store.NewMemoryStore() },
		"sqlite": func(t *testing.T) store.Store {
			s, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "race.db"), store.SQLiteOptions{})
			if err != nil {
				t.Fatalf("sqlite store: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		out["postgres"] = func(t *testing.T) store.Store {
			s, err := store.NewPostgresStore(context.Background(), dsn, store.PostgresOptions{})
			if err != nil {
				t.Fatalf("postgres store: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		}
	}
	return out
}

// Interleaved roster writes and lock toggles must leave one row per player
// and never a locked match without players. The only acceptable failures are
// the lock rules themselves.
func TestConcurrentRosterWrites(t *testing.T) {
	for name, factory := range concurrentStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := factory(t)
			svc := newService(t, st, &recorder{})

			team := mustTeam(t, svc, TeamInput{Name: fmt.Sprintf("Racers %s", name)})
			ids := make([]string, 0, 6)
			for i := 0; i < 6; i++ {
				p := mustPlayer(t, svc, team.Team.ID, PlayerInput{Name: fmt.Sprintf("R%d", i), Rating: ptr(1000 + 50*i)})
				ids = append(ids, p.Player.ID)
			}
			m := mustMatch(t, svc, MatchInput{Team1ID: team.Team.ID})

			const rounds = 40
			var (
				wg         sync.WaitGroup
				mu         sync.Mutex
				unexpected []error
			)
			record := func(op string, err error) {
				if err == nil || errors.Is(err, model.ErrMatchLocked) || errors.Is(err, model.ErrCannotLockEmptyRoster) {
					return
				}
				mu.Lock()
				unexpected = append(unexpected, fmt.Errorf("%s: %w", op, err))
				mu.Unlock()
			}

			for i := 0; i < rounds; i++ {
				wg.Add(4)
				go func() {
					defer wg.Done()
					_, err := svc.Balance(ctx, m.ID)
					record("balance", err)
				}()
				go func() {
					defer wg.Done()
					_, err := svc.Shuffle(ctx, m.ID)
					record("shuffle", err)
				}()
				go func() {
					defer wg.Done()
					_, err := svc.ToggleLock(ctx, m.ID)
					record("toggle", err)
				}()
				go func(i int) {
					defer wg.Done()
					target := []Target{TargetA, TargetB, TargetRemove}[i%3]
					record("assign", svc.Assign(ctx, m.ID, ids[i%len(ids)], target))
				}(i)
			}
			wg.Wait()

			for _, err := range unexpected {
				t.Errorf("unexpected error: %v", err)
			}

			var (
				final model.Match
				rows  []model.Assignment
			)
			err := st.View(ctx, func(tx store.Tx) error {
				var err error
				if final, err = tx.GetMatch(ctx, m.ID); err != nil {
					return err
				}
				rows, err = tx.ListAssignments(ctx, m.ID)
				return err
			})
			if err != nil {
				t.Fatalf("read final state: %v", err)
			}
			seen := map[string]bool{}
			for _, a := range rows {
				if seen[a.PlayerID] {
					t.Errorf("player %s assigned twice: %+v", a.PlayerID, rows)
				}
				seen[a.PlayerID] = true
			}
			if final.Status == model.MatchLocked && len(rows) == 0 {
				t.Fatalf("match locked with an empty roster")
			}
		})
	}
}
