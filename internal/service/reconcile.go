package service

import (
	"context"
	"sync/atomic"

	"squadup-app/internal/model"
	"squadup-app/internal/rating"
	"squadup-app/internal/store"

	"golang.org/x/sync/errgroup"
)

const reconcileWorkers = 4

type ReconcileReport struct {
	Players int `json:"players"`
	Teams   int `json:"teams"`
	Changed int `json:"changed"`
}

// ReconcileRatings recomputes every player and then every team, one
// transaction each, skipping records deleted in the meantime. It repairs
// ratings left behind by failed best-effort recomputes.
func (s *Service) ReconcileRatings(ctx context.Context) (ReconcileReport, error) {
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
		return ReconcileReport{}, err
	}

	var changed atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileWorkers)
	for _, p := range players {
		g.Go(func() error {
			return s.store.Update(gCtx, func(tx store.Tx) error {
				updated, err := rating.RecomputePlayer(gCtx, tx, p.ID)
				if IsNotFound(err) {
					return nil
				}
				if err != nil {
					return err
				}
				if updated.SkillRating != p.SkillRating {
					changed.Add(1)
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return ReconcileReport{}, err
	}

	g, gCtx = errgroup.WithContext(ctx)
	g.SetLimit(reconcileWorkers)
	for _, t := range teams {
		g.Go(func() error {
			return s.store.Update(gCtx, func(tx store.Tx) error {
				updated, err := rating.RecomputeTeam(gCtx, tx, t.ID)
				if IsNotFound(err) {
					return nil
				}
				if err != nil {
					return err
				}
				if updated.SkillRating != t.SkillRating {
					changed.Add(1)
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return ReconcileReport{}, err
	}

	report := ReconcileReport{Players: len(players), Teams: len(teams), Changed: int(changed.Load())}
	s.log.Info("ratings reconciled", "players", report.Players, "teams", report.Teams, "changed", report.Changed)
	return report, nil
}
