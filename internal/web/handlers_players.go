package web

import (
	"net/http"

	"squadup-app/internal/model"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handlePlayerList(w http.ResponseWriter, r *http.Request) {
	players, err := s.svc.ListPlayers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listResponse[model.Player]{Items: players})
}

func (s *Server) handlePlayerCreate(w http.ResponseWriter, r *http.Request) {
	s.createPlayer(w, r, "")
}

func (s *Server) createPlayer(w http.ResponseWriter, r *http.Request, teamID string) {
	var req playerRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	in, skipped := req.input()
	s.logSkipped(r, skipped)
	d, err := s.svc.AddPlayer(r.Context(), teamID, in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, playerResponse{PlayerDetail: d, SkippedSkills: skipped})
}

func (s *Server) handlePlayerShow(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.GetPlayer(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, playerResponse{PlayerDetail: d})
}

func (s *Server) handlePlayerEdit(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	in, skipped := req.input()
	s.logSkipped(r, skipped)
	d, err := s.svc.EditPlayer(r.Context(), chi.URLParam(r, "playerID"), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, playerResponse{PlayerDetail: d, SkippedSkills: skipped})
}

func (s *Server) handlePlayerDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeletePlayer(r.Context(), chi.URLParam(r, "playerID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) logSkipped(r *http.Request, skipped []string) {
	if len(skipped) > 0 {
		s.log.Warn("invalid skill values skipped", "path", r.URL.Path, "skills", skipped)
	}
}
