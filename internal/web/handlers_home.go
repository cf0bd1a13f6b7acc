package web

import (
	"net/http"

	"squadup-app/internal/service"
)

// decode reads and validates a request body, answering the request itself
// when either step fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	read := readJSON
	if optional {
		read = readOptionalJSON
	}
	if err := read(w, r, dst); err != nil {
		s.badRequestResponse(w, err)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.failedValidationResponse(w, validationErrors(err))
		return false
	}
	return true
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	home, err := s.svc.Home(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, home)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := s.svc.Standings(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listResponse[service.StandingEntry]{Items: standings})
}
