package web

import (
	"errors"
	"net/http"

	"squadup-app/internal/model"
	"squadup-app/internal/service"
	"squadup-app/internal/store"
)

// respondError maps service errors to HTTP responses.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if rej, ok := model.AsRejection(err); ok {
		s.errorResponse(w, http.StatusConflict, envelope{
			"error":    rejectionMessage(rej.Err),
			"code":     errorCode(rej.Err),
			"match_id": rej.MatchID,
			"status":   rej.Status,
		})
		return
	}
	switch {
	case service.IsNotFound(err):
		s.errorResponse(w, http.StatusNotFound, envelope{"error": err.Error(), "code": errorCode(err)})
	case errors.Is(err, model.ErrInviteAccepted),
		errors.Is(err, store.ErrDuplicateAssignment):
		s.errorResponse(w, http.StatusConflict, envelope{"error": err.Error(), "code": errorCode(err)})
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrInvalidSkillValue):
		s.errorResponse(w, http.StatusUnprocessableEntity, envelope{"error": err.Error(), "code": errorCode(err)})
	case errors.Is(err, model.ErrInvalidSide),
		errors.Is(err, model.ErrInvalidWinner),
		errors.Is(err, model.ErrInvalidInviteToken):
		s.errorResponse(w, http.StatusBadRequest, envelope{"error": err.Error(), "code": errorCode(err)})
	default:
		s.serverErrorResponse(w, r, err)
	}
}
