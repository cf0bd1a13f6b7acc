package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleInviteShow(w http.ResponseWriter, r *http.Request) {
	inv, err := s.svc.GetInvite(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleInviteAccept(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	accepted, err := s.svc.AcceptInvite(r.Context(), chi.URLParam(r, "token"), req.Name, req.Email)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, accepted)
}
