// Package login implements email and password login backed by server-side
// sessions. The browser only holds a signed cookie carrying the session ID
// plus any pending flash messages.
package login

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/accounts"
	"github.com/wolfeidau/ndrweb/internal/store"
	"github.com/wolfeidau/ndrweb/internal/telemetry"
)

// Flash messages shown to the user.
const (
	FlashLoggedIn      = "Logged In Successfully"
	FlashInvalidLogin  = "Invalid email or password"
	FlashLoggedOut     = "Logged Out Successfully"
	FlashLoginRequired = "Please log in to access this page"
	FlashRateLimited   = "Too many login attempts, please try again later"
)

const (
	// LoginPath serves the login form and accepts its submission.
	LoginPath = "/login"
	// LogoutPath ends the current session.
	LogoutPath = "/logout"
	// DefaultRedirect is where users land after logging in.
	DefaultRedirect = "/organizations"
)

// Page is the data handed to the login form view.
type Page struct {
	Flashes []string
	Next    string
}

// View renders the login form.
type View func(w http.ResponseWriter, r *http.Request, page Page)

// Config holds login configuration.
type Config struct {
	// SessionSecret signs the session cookie. Must be at least 32 bytes.
	SessionSecret []byte

	// SessionTTL is how long a server-side session lives.
	SessionTTL time.Duration

	// SecureCookie marks the cookie as HTTPS only.
	SecureCookie bool
}

// Handler serves the login and logout endpoints and guards authenticated routes.
type Handler struct {
	accounts   *accounts.Service
	sessions   store.SessionStore
	cookies    *sessions.CookieStore
	sessionTTL time.Duration
	view       View
}

// NewHandler creates a login handler.
func NewHandler(cfg Config, accountSvc *accounts.Service, sessionStore store.SessionStore, view View) (*Handler, error) {
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes")
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session TTL must be greater than 0")
	}

	if accountSvc == nil || sessionStore == nil || view == nil {
		return nil, fmt.Errorf("accounts, session store and view are required")
	}

	cookies := sessions.NewCookieStore(cfg.SessionSecret)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	log.Info().
		Bool("secure", cfg.SecureCookie).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("Login handler initialized")

	return &Handler{
		accounts:   accountSvc,
		sessions:   sessionStore,
		cookies:    cookies,
		sessionTTL: cfg.SessionTTL,
		view:       view,
	}, nil
}

// LoginForm renders the login page with any pending flash messages.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, Page{
		Flashes: h.Flashes(w, r),
		Next:    localPath(r.URL.Query().Get("next")),
	})
}

// LoginSubmit checks the submitted credentials and starts a session.
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	metrics := telemetry.GetMetrics()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	next := localPath(r.PostFormValue("next"))

	user, err := h.accounts.Authenticate(ctx, email, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, accounts.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("Login failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Warn().Str("email", email).Msg("Rejected login")
		metrics.RecordLogin(ctx, telemetry.LoginFailure)

		h.AddFlash(w, r, FlashInvalidLogin)
		http.Redirect(w, r, loginURL(next), http.StatusSeeOther)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		log.Error().Err(err).Str("user_id", user.UserID.String()).Msg("Failed to start session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", user.UserID.String()).Str("username", user.Username).Msg("User logged in")
	metrics.RecordLogin(ctx, telemetry.LoginSuccess)

	h.AddFlash(w, r, FlashLoggedIn)

	if next == "" {
		next = DefaultRedirect
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout ends the session and returns to the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	telemetry.GetMetrics().LogoutsTotal.Add(r.Context(), 1)

	h.AddFlash(w, r, FlashLoggedOut)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// RequireAuth protects HTML routes. Unauthenticated requests are redirected to
// the login page with the original path in the next parameter.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, session, err := h.Authenticate(r)
		if err != nil {
			logAuthFailure(r, err)

			h.AddFlash(w, r, FlashLoginRequired)
			http.Redirect(w, r, loginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, session)))
	})
}

// RequireAuthJSON protects API routes, answering 401 with a JSON body.
func (h *Handler) RequireAuthJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, session, err := h.Authenticate(r)
		if err != nil {
			logAuthFailure(r, err)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"authentication required"}`))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, session)))
	})
}

func logAuthFailure(r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidSession), errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrSessionExpired):
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("No valid session")
	default:
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Session check failed")
	}
}

// localPath returns next when it is a path on this site, otherwise "".
func localPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}

	return next
}

func loginURL(next string) string {
	next = localPath(next)
	if next == "" || next == DefaultRedirect {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}
