package model

import (
	"errors"
	"fmt"
)

var (
	// Lookups
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrInviteNotFound = errors.New("invite not found")

	// Roster and lifecycle rules
	ErrMatchLocked           = errors.New("match is locked")
	ErrCannotLockEmptyRoster = errors.New("cannot lock a match without assigned players")
	ErrMatchCompleted        = errors.New("match is already completed")
	ErrMatchNotLocked        = errors.New("match must be locked before it can be completed")
	ErrMatchFull             = errors.New("match already has two teams")
	ErrInviteAccepted        = errors.New("invite was already accepted")
	ErrInvalidSide           = errors.New("side must be A or B")
	ErrInvalidSkillValue     = errors.New("skill value must be an integer between 0 and 100")
	ErrValidation            = errors.New("validation failed")
	ErrInvalidInviteToken    = errors.New("invalid invite token")
	ErrTeamAlreadyInMatch    = errors.New("team already plays in this match")
	ErrInvalidWinner         = errors.New("winner must be A, B or draw")
)

// Rejection is a rule violation a caller is expected to handle, carrying the
// match context it was raised for.
type Rejection struct {
	Err     error
	MatchID string
	Status  MatchStatus
}

func (r *Rejection) Error() string {
	if r.MatchID == "" {
		return r.Err.Error()
	}
	return fmt.Sprintf("match %s (%s): %v", r.MatchID, r.Status, r.Err)
}

func (r *Rejection) Unwrap() error { return r.Err }

func Reject(err error, m Match) error {
	return &Rejection{Err: err, MatchID: m.ID, Status: m.Status}
}

// AsRejection returns the rule violation carried by err, if any. A rejection
// is an expected outcome rather than a failure.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
