package web

import (
	"net/http"

	"squadup-app/internal/model"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleTeamList(w http.ResponseWriter, r *http.Request) {
	teams, err := s.svc.ListTeams(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listResponse[model.Team]{Items: teams})
}

func (s *Server) handleTeamCreate(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	team, err := s.svc.CreateTeam(r.Context(), req.input())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, team)
}

func (s *Server) handleTeamShow(w http.ResponseWriter, r *http.Request) {
	team, err := s.svc.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleTeamDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTeam(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTeamPlayerAdd(w http.ResponseWriter, r *http.Request) {
	s.createPlayer(w, r, chi.URLParam(r, "teamID"))
}

func (s *Server) handleTeamInviteCreate(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	ticket, err := s.svc.CreateTeamInvite(r.Context(), chi.URLParam(r, "teamID"), req.Name, req.Email)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, ticket)
}
