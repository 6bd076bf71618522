// Package httpapi exposes the services over a JSON HTTP API and enforces
// the ownership rules: every authenticated endpoint acts on behalf of the
// caller extracted from the session token, and access to another user's
// project is indistinguishable from a missing one.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/asmolyar/webpen/internal/logging"
	"github.com/asmolyar/webpen/internal/server/profiles"
	"github.com/asmolyar/webpen/internal/server/projects"
	"github.com/asmolyar/webpen/internal/server/users"
)

// SessionCookieName is the cookie carrying the session token for browser
// clients; API clients may send the same token as a bearer header instead.
const SessionCookieName = "webpen_session"

type Server struct {
	address   string
	logger    logging.Logger
	users     *users.Service
	projects  *projects.Service
	profiles  *profiles.Service
	jwtSecret []byte
}

func NewServer(address string, logger logging.Logger, us *users.Service, ps *projects.Service, prs *profiles.Service, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    logger.With("module", "http_server"),
		users:     us,
		projects:  ps,
		profiles:  prs,
		jwtSecret: []byte(secretKey),
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealthz)

	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)

	// unauthenticated: the project ID is the capability, the profile is public
	r.Get("/view/{id}", s.handleViewProject)
	r.Get("/api/profiles/{username}", s.handleGetProfile)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)

		pr.Get("/api/projects", s.handleListProjects)
		pr.Post("/api/projects", s.handleCreateProject)
		pr.Get("/api/projects/{id}", s.handleGetProject)
		pr.Put("/api/projects/{id}", s.handleUpdateProject)
		pr.Delete("/api/projects/{id}", s.handleDeleteProject)

		pr.Put("/api/profile", s.handleEditProfile)
	})

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
