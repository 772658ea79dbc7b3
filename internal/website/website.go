// Package website serves the HTML views and JSON API over the inventory,
// scoped to what the logged in user is allowed to see.
package website

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"filippo.io/csrf"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/accounts"
	"github.com/wolfeidau/ndrweb/internal/acl"
	httpmiddleware "github.com/wolfeidau/ndrweb/internal/http"
	"github.com/wolfeidau/ndrweb/internal/logger"
	"github.com/wolfeidau/ndrweb/internal/login"
	"github.com/wolfeidau/ndrweb/internal/store"
)

const healthCheckTimeout = 2 * time.Second

// Config configures the website.
type Config struct {
	Login     login.Config
	RateLimit login.RateLimitConfig

	// TrustProxy honours X-Forwarded-For and X-Real-IP when resolving the client IP.
	TrustProxy bool

	// CORSOrigins are the origins allowed to call the JSON API with credentials.
	CORSOrigins []string

	// Logger writes the access log. Defaults to the global logger.
	Logger *zerolog.Logger
}

// Website holds the router and everything the handlers need.
type Website struct {
	stores   store.Stores
	resolver *acl.Resolver
	login    *login.Handler
	renderer *Renderer
	pinger   store.Pinger
	router   *chi.Mux
}

// Option configures optional Website dependencies.
type Option func(*Website)

// WithPinger makes /healthz check connectivity with p.
func WithPinger(p store.Pinger) Option {
	return func(s *Website) {
		s.pinger = p
	}
}

// New builds the website and registers its routes.
func New(cfg Config, stores store.Stores, accountSvc *accounts.Service, opts ...Option) (*Website, error) {
	if err := stores.Validate(); err != nil {
		return nil, err
	}

	if accountSvc == nil {
		return nil, errors.New("accounts service is required")
	}

	renderer, err := NewRenderer(nil)
	if err != nil {
		return nil, err
	}

	loginHandler, err := login.NewHandler(cfg.Login, accountSvc, stores.Sessions, renderer.Login)
	if err != nil {
		return nil, fmt.Errorf("failed to create login handler: %w", err)
	}

	rateLimit, err := loginHandler.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	s := &Website{
		stores:   stores,
		resolver: acl.NewResolver(stores),
		login:    loginHandler,
		renderer: renderer,
		router:   chi.NewRouter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	accessLogger := log.Logger
	if cfg.Logger != nil {
		accessLogger = *cfg.Logger
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(httpmiddleware.ClientIPMiddleware(cfg.TrustProxy))
	s.router.Use(logger.HTTPRequests(accessLogger))
	s.router.Use(middleware.Recoverer)

	s.registerRoutes(rateLimit, cfg.CORSOrigins)

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Website) Handler() http.Handler {
	return s.router
}

func (s *Website) registerRoutes(rateLimit func(http.Handler) http.Handler, corsOrigins []string) {
	s.router.Get("/healthz", s.handleHealth)

	// HTML routes get cross-origin protection, API routes get CORS.
	protection := csrf.New()

	s.router.Group(func(r chi.Router) {
		r.Use(protection.Handler)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, login.DefaultRedirect, http.StatusSeeOther)
		})

		r.Get(login.LoginPath, s.login.LoginForm)
		r.With(rateLimit).Post(login.LoginPath, s.login.LoginSubmit)
		r.Get(login.LogoutPath, s.login.Logout)

		r.Group(func(r chi.Router) {
			r.Use(s.login.RequireAuth)

			r.Get("/organizations", s.handleOrganizations)
			r.Get("/organization/{id}", s.handleOrganization)
			r.Get("/site/{id}", s.handleSite)
		})
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(withCORS(corsOrigins))
		r.Use(s.login.RequireAuthJSON)

		r.Get("/organizations", s.apiOrganizations)
		r.Get("/organizations/{id}/sites", s.apiOrganizationSites)
		r.Get("/sites/{id}/recorders", s.apiSiteRecorders)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderer.Error(w, http.StatusNotFound, nil, "The page you requested does not exist.")
	})
}

func (s *Website) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := s.pinger.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS allows credentialed API calls from the configured origins. With
// no origins configured no CORS headers are sent, so only same origin pages
// can read the API.
func withCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true, // session cookie
		MaxAge:           300,
	}).Handler
}
