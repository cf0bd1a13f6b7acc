// Package ledger records which side each player takes in a match. Every
// write checks the match status first and changes nothing when the roster is
// frozen. Callers pass a match loaded with store.Tx.LockMatch in the same
// transaction.
package ledger

import (
	"context"
	"fmt"

	"squadup-app/internal/lifecycle"
	"squadup-app/internal/model"
	"squadup-app/internal/roster"
	"squadup-app/internal/store"
)

// ReplaceAll swaps the match's whole assignment set for the partition.
func ReplaceAll(ctx context.Context, tx store.Tx, m model.Match, p roster.Partition) error {
	if err := lifecycle.CheckMutable(m); err != nil {
		return err
	}
	if err := tx.DeleteAssignments(ctx, m.ID); err != nil {
		return err
	}
	if err := insertSide(ctx, tx, m.ID, model.SideA, p.SideA); err != nil {
		return err
	}
	return insertSide(ctx, tx, m.ID, model.SideB, p.SideB)
}

func insertSide(ctx context.Context, tx store.Tx, matchID string, side model.Side, ids []string) error {
	for _, id := range ids {
		if _, err := tx.InsertAssignment(ctx, model.Assignment{MatchID: matchID, PlayerID: id, Side: side}); err != nil {
			return fmt.Errorf("assign %s to side %s: %w", id, side, err)
		}
	}
	return nil
}

// Upsert moves the player to side, adding it to the match if needed. A player
// already on side keeps its row and position.
func Upsert(ctx context.Context, tx store.Tx, m model.Match, playerID string, side model.Side) error {
	if err := lifecycle.CheckMutable(m); err != nil {
		return err
	}
	if !side.Valid() {
		return model.ErrInvalidSide
	}
	rows, err := tx.ListAssignments(ctx, m.ID)
	if err != nil {
		return err
	}
	for _, a := range rows {
		if a.PlayerID == playerID && a.Side == side {
			return nil
		}
	}
	if err := tx.DeleteAssignment(ctx, m.ID, playerID); err != nil {
		return err
	}
	_, err = tx.InsertAssignment(ctx, model.Assignment{MatchID: m.ID, PlayerID: playerID, Side: side})
	return err
}

// Remove takes the player off the match. A player that was never assigned is
// not an error.
func Remove(ctx context.Context, tx store.Tx, m model.Match, playerID string) error {
	if err := lifecycle.CheckMutable(m); err != nil {
		return err
	}
	return tx.DeleteAssignment(ctx, m.ID, playerID)
}

// AssignmentsFor returns both sides in insertion order.
func AssignmentsFor(ctx context.Context, tx store.Tx, matchID string) (roster.Partition, error) {
	rows, err := tx.ListAssignments(ctx, matchID)
	if err != nil {
		return roster.Partition{}, err
	}
	out := roster.Partition{SideA: []string{}, SideB: []string{}}
	for _, a := range rows {
		switch a.Side {
		case model.SideA:
			out.SideA = append(out.SideA, a.PlayerID)
		case model.SideB:
			out.SideB = append(out.SideB, a.PlayerID)
		}
	}
	return out, nil
}
