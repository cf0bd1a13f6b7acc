package web

import (
	"errors"

	"squadup-app/internal/model"
	"squadup-app/internal/store"
)

var errorCodes = []struct {
	err     error
	code    string
	message string
}{
	{model.ErrMatchNotFound, "match_not_found", ""},
	{model.ErrPlayerNotFound, "player_not_found", ""},
	{model.ErrTeamNotFound, "team_not_found", ""},
	{model.ErrInviteNotFound, "invite_not_found", ""},
	{model.ErrMatchLocked, "match_locked", "The roster is locked. Unlock the match to change sides."},
	{model.ErrCannotLockEmptyRoster, "empty_roster", "Assign at least one player before locking the match."},
	{model.ErrMatchCompleted, "match_completed", "The match is already completed."},
	{model.ErrMatchNotLocked, "match_not_locked", "Lock the roster before recording a result."},
	{model.ErrMatchFull, "match_full", "Both team slots are already taken."},
	{model.ErrTeamAlreadyInMatch, "team_already_in_match", "The team already plays in this match."},
	{model.ErrInviteAccepted, "invite_accepted", ""},
	{store.ErrDuplicateAssignment, "duplicate_assignment", ""},
	{model.ErrInvalidSide, "invalid_side", ""},
	{model.ErrInvalidWinner, "invalid_winner", ""},
	{model.ErrInvalidInviteToken, "invalid_invite_token", ""},
	{model.ErrInvalidSkillValue, "invalid_skill_value", ""},
	{model.ErrValidation, "validation", ""},
}

func errorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "error"
}

// rejectionMessage is the user-facing text for a rejected roster change.
func rejectionMessage(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) && c.message != "" {
			return c.message
		}
	}
	return err.Error()
}
