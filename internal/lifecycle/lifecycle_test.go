package lifecycle

import (
	"errors"
	"testing"

	"squadup-app/internal/model"
)

func TestCheckMutable(t *testing.T) {
	tests := []struct {
		status  model.MatchStatus
		wantErr bool
	}{
		{model.MatchPending, false},
		{model.MatchLocked, true},
		{model.MatchCompleted, true},
	}
	for _, tt := range tests {
		err := CheckMutable(model.Match{ID: "m1", Status: tt.status})
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: unexpected error %v", tt.status, err)
		}
		if err != nil {
			if !errors.Is(err, model.ErrMatchLocked) {
				t.Fatalf("%s: expected ErrMatchLocked, got %v", tt.status, err)
			}
			var rej *model.Rejection
			if !errors.As(err, &rej) || rej.MatchID != "m1" || rej.Status != tt.status {
				t.Fatalf("%s: expected rejection with context, got %#v", tt.status, err)
			}
		}
	}
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name     string
		status   model.MatchStatus
		assigned int
		want     model.MatchStatus
		wantErr  error
	}{
		{"empty roster cannot lock", model.MatchPending, 0, model.MatchPending, model.ErrCannotLockEmptyRoster},
		{"lock with players", model.MatchPending, 1, model.MatchLocked, nil},
		{"unlock always", model.MatchLocked, 0, model.MatchPending, nil},
		{"completed is final", model.MatchCompleted, 4, model.MatchCompleted, model.ErrMatchCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Toggle(model.Match{Status: tt.status}, tt.assigned)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	if _, err := Complete(model.Match{Status: model.MatchPending}, WinnerA); !errors.Is(err, model.ErrMatchNotLocked) {
		t.Fatalf("expected ErrMatchNotLocked, got %v", err)
	}
	if _, err := Complete(model.Match{Status: model.MatchLocked}, "C"); !errors.Is(err, model.ErrInvalidWinner) {
		t.Fatalf("expected ErrInvalidWinner, got %v", err)
	}
	m, err := Complete(model.Match{Status: model.MatchLocked}, WinnerB)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if m.Status != model.MatchCompleted || m.WinnerSide != "B" {
		t.Fatalf("unexpected match %+v", m)
	}
	if _, err := Complete(m, WinnerA); !errors.Is(err, model.ErrMatchCompleted) {
		t.Fatalf("expected ErrMatchCompleted, got %v", err)
	}
}

func TestApply(t *testing.T) {
	p := model.Player{}
	p = Apply(p, model.SideA, WinnerA)
	p = Apply(p, model.SideA, WinnerB)
	p = Apply(p, model.SideB, Draw)
	if p.GamesPlayed != 3 || p.Wins != 1 || p.Losses != 1 {
		t.Fatalf("unexpected record %+v", p)
	}
}
