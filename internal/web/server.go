// Package web exposes the roster service as a JSON API.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"squadup-app/internal/live"
	"squadup-app/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
)

const requestTimeout = 30 * time.Second

type Options struct {
	Hub         *live.Hub
	Logger      *slog.Logger
	Dev         bool
	CORSOrigins []string
}

type Server struct {
	svc      *service.Service
	hub      *live.Hub
	log      *slog.Logger
	dev      bool
	origins  []string
	validate *validator.Validate
}

func NewServer(svc *service.Service, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{
		svc:      svc,
		hub:      opts.Hub,
		log:      log.With("component", "web"),
		dev:      opts.Dev,
		origins:  origins,
		validate: newValidator(),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	if s.hub != nil {
		r.Get("/ws/matches/{matchID}", s.handleMatchSocket)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Route("/api", func(r chi.Router) {
			r.Get("/home", s.handleHome)
			r.Get("/standings", s.handleStandings)

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", s.handleTeamList)
				r.Post("/", s.handleTeamCreate)
				r.Get("/{teamID}", s.handleTeamShow)
				r.Delete("/{teamID}", s.handleTeamDelete)
				r.Post("/{teamID}/players", s.handleTeamPlayerAdd)
				r.Post("/{teamID}/invites", s.handleTeamInviteCreate)
			})

			r.Route("/players", func(r chi.Router) {
				r.Get("/", s.handlePlayerList)
				r.Post("/", s.handlePlayerCreate)
				r.Get("/{playerID}", s.handlePlayerShow)
				r.Put("/{playerID}", s.handlePlayerEdit)
				r.Delete("/{playerID}", s.handlePlayerDelete)
			})

			r.Route("/matches", func(r chi.Router) {
				r.Get("/", s.handleMatchList)
				r.Post("/", s.handleMatchCreate)
				r.Get("/{matchID}", s.handleMatchShow)
				r.Post("/{matchID}/balance", s.handleMatchBalance)
				r.Post("/{matchID}/shuffle", s.handleMatchShuffle)
				r.Post("/{matchID}/toggle-lock", s.handleMatchToggleLock)
				r.Post("/{matchID}/assign", s.handleMatchAssign)
				r.Post("/{matchID}/complete", s.handleMatchComplete)
				r.Post("/{matchID}/join/{teamID}", s.handleMatchJoin)
				r.Post("/{matchID}/invites", s.handleMatchInviteCreate)
			})

			r.Get("/invites/{token}", s.handleInviteShow)
			r.Post("/invites/{token}/accept", s.handleInviteAccept)
		})

		if s.dev {
			r.Post("/dev/seed", s.handleDevSeed)
			r.Post("/dev/reconcile", s.handleDevReconcile)
		}
	})

	return r
}
