// Package service wires the roster core to storage and exposes the
// operations the HTTP layer calls.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"squadup-app/internal/model"
	"squadup-app/internal/roster"
	"squadup-app/internal/store"
)

// Notifier receives roster events after they are committed.
type Notifier interface {
	Notify(ctx context.Context, ev model.RosterEvent) error
}

type Service struct {
	store     store.Store
	balancer  *roster.Balancer
	notifiers []Notifier
	log       *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithBalancer(b *roster.Balancer) Option {
	return func(s *Service) { s.balancer = b }
}

func WithNotifiers(n ...Notifier) Option {
	return func(s *Service) { s.notifiers = append(s.notifiers, n...) }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		balancer: roster.NewBalancer(),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) notify(ctx context.Context, ev model.RosterEvent) {
	if ev.At.IsZero() {
		ev.At = s.now().UTC()
	}
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, ev); err != nil {
			s.log.Warn("roster event not delivered", "kind", ev.Kind, "match_id", ev.MatchID, "error", err)
		}
	}
}

// IsNotFound reports whether err is one of the lookup sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrMatchNotFound) ||
		errors.Is(err, model.ErrPlayerNotFound) ||
		errors.Is(err, model.ErrTeamNotFound) ||
		errors.Is(err, model.ErrInviteNotFound)
}
