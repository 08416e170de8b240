package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wrale/tiktok-api-v2/cmd/tiktok-oauth-web/handlers/health"
	"github.com/wrale/tiktok-api-v2/internal/state"
	"github.com/wrale/tiktok-api-v2/internal/templates"
	"github.com/wrale/tiktok-api-v2/pkg/apis"
	"github.com/wrale/tiktok-api-v2/pkg/endpoint"
	"github.com/wrale/tiktok-api-v2/pkg/oauth"
)

type server struct {
	cfg       Config
	router    *chi.Mux
	logger    *log.Logger
	templates *templates.Templates
	state     *state.Manager
	oauth     *oauth.Manager
	api       *apis.Client
}

func newServer(cfg Config, logger *log.Logger, stateManager *state.Manager, oauthManager *oauth.Manager, api *apis.Client) (*server, error) {
	tmpls, err := templates.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	srv := &server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		logger:    logger,
		templates: tmpls,
		state:     stateManager,
		oauth:     oauthManager,
		api:       api,
	}

	srv.router.Use(middleware.RequestID)
	srv.router.Use(middleware.RealIP)
	srv.router.Use(middleware.Logger)
	srv.router.Use(middleware.Recoverer)
	srv.router.Use(middleware.Timeout(30 * time.Second))

	srv.routes()

	return srv, nil
}

func (s *server) routes() {
	s.router.Method("GET", "/health", health.New(map[string]health.Checker{
		"state_store": s.state,
	}).WithVersion(Version))

	s.router.Get("/", s.handleIndex())
	s.router.Get("/oauth", s.handleCallback())
	s.router.Get("/videos", s.handleVideos())
	s.router.Post("/refresh", s.handleRefresh())
	s.router.Post("/logout", s.handleLogout())
}

// callOptions bounds every REST call made on behalf of a request
func (s *server) callOptions() endpoint.Options {
	return endpoint.Options{Timeout: s.cfg.APITimeout}
}
