package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAsRejection(t *testing.T) {
	m := Match{ID: "m1", Status: MatchLocked}
	wrapped := fmt.Errorf("assign: %w", Reject(ErrMatchLocked, m))

	rej, ok := AsRejection(wrapped)
	if !ok || rej.MatchID != "m1" || rej.Status != MatchLocked || !errors.Is(rej, ErrMatchLocked) {
		t.Fatalf("unexpected rejection %#v (%v)", rej, ok)
	}
	if _, ok := AsRejection(ErrMatchNotFound); ok {
		t.Fatal("plain sentinel reported as rejection")
	}
	if _, ok := AsRejection(nil); ok {
		t.Fatal("nil reported as rejection")
	}
}
