package web

import (
	"net/http"
)

func (s *Server) handleDevSeed(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.SeedDemo(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	home, err := s.svc.Home(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, home)
}

func (s *Server) handleDevReconcile(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.ReconcileRatings(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}
