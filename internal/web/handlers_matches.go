package web

import (
	"context"
	"net/http"

	"squadup-app/internal/model"
	"squadup-app/internal/service"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMatchList(w http.ResponseWriter, r *http.Request) {
	matches, err := s.svc.ListMatches(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listResponse[model.Match]{Items: matches})
}

func (s *Server) handleMatchCreate(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	m, err := s.svc.CreateMatch(r.Context(), req.input())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleMatchShow(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.GetMatch(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleMatchBalance(w http.ResponseWriter, r *http.Request) {
	s.respondSides(w, r, s.svc.Balance)
}

func (s *Server) handleMatchShuffle(w http.ResponseWriter, r *http.Request) {
	s.respondSides(w, r, s.svc.Shuffle)
}

func (s *Server) respondSides(w http.ResponseWriter, r *http.Request, split func(ctx context.Context, matchID string) (service.Sides, error)) {
	sides, err := split(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sides)
}

func (s *Server) handleMatchToggleLock(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.ToggleLock(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: status})
}

func (s *Server) handleMatchAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	target, err := service.ParseTarget(req.Side, req.Remove)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.svc.Assign(r.Context(), chi.URLParam(r, "matchID"), req.PlayerID, target); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleMatchComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	m, err := s.svc.Complete(r.Context(), chi.URLParam(r, "matchID"), req.Winner)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMatchJoin(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.JoinOpenMatch(r.Context(), chi.URLParam(r, "matchID"), chi.URLParam(r, "teamID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMatchInviteCreate(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.svc.CreateMatchInvite(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, ticket)
}

// handleMatchSocket streams roster events of one match. The match must exist.
func (s *Server) handleMatchSocket(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if _, err := s.svc.GetMatch(r.Context(), matchID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.hub.ServeWS(w, r, matchID)
}
