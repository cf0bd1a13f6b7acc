// Package lifecycle holds the match status rules:
//
//	pending -> locked    needs at least one assigned player
//	locked  -> pending   always
//	locked  -> completed through Complete only
//
// A completed match is final and behaves like a locked one for roster changes.
package lifecycle

import "squadup-app/internal/model"

// CheckMutable rejects roster changes on locked and completed matches.
func CheckMutable(m model.Match) error {
	if m.Status.Mutable() {
		return nil
	}
	return model.Reject(model.ErrMatchLocked, m)
}

// Toggle returns the status a lock toggle moves the match to.
func Toggle(m model.Match, assigned int) (model.MatchStatus, error) {
	switch m.Status {
	case model.MatchLocked:
		return model.MatchPending, nil
	case model.MatchCompleted:
		return m.Status, model.Reject(model.ErrMatchCompleted, m)
	}
	if assigned < 1 {
		return m.Status, model.Reject(model.ErrCannotLockEmptyRoster, m)
	}
	return model.MatchLocked, nil
}

type Outcome string

const (
	WinnerA Outcome = "A"
	WinnerB Outcome = "B"
	Draw    Outcome = "draw"
)

func (o Outcome) Valid() bool { return o == WinnerA || o == WinnerB || o == Draw }

// Complete finalizes a locked match.
func Complete(m model.Match, outcome Outcome) (model.Match, error) {
	if !outcome.Valid() {
		return m, model.ErrInvalidWinner
	}
	switch m.Status {
	case model.MatchCompleted:
		return m, model.Reject(model.ErrMatchCompleted, m)
	case model.MatchPending:
		return m, model.Reject(model.ErrMatchNotLocked, m)
	}
	m.Status = model.MatchCompleted
	m.WinnerSide = string(outcome)
	return m, nil
}

// Apply books one finished game on the player's record.
func Apply(p model.Player, side model.Side, outcome Outcome) model.Player {
	p.GamesPlayed++
	switch {
	case outcome == Draw:
	case string(side) == string(outcome):
		p.Wins++
	default:
		p.Losses++
	}
	return p
}
