package login

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	httpmiddleware "github.com/wolfeidau/ndrweb/internal/http"
	"github.com/wolfeidau/ndrweb/internal/telemetry"
)

const rateLimitPrefix = "ndrweb_login"

// RateLimitConfig configures login attempt limiting.
type RateLimitConfig struct {
	// Rate in limiter format, e.g. "10-M" for ten attempts per minute.
	Rate string

	// Redis, when set, shares counters across server instances.
	Redis *redis.Client
}

// NewRateLimiter returns middleware limiting requests per client IP. Rejected
// requests are sent back to the login form with a flash message and a 429.
func (h *Handler) NewRateLimiter(cfg RateLimitConfig) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid login rate limit %q: %w", cfg.Rate, err)
	}

	var st limiter.Store
	if cfg.Redis != nil {
		st, err = sredis.NewStoreWithOptions(cfg.Redis, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
		}
	} else {
		st = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	}

	log.Info().
		Int64("limit", rate.Limit).
		Dur("period", rate.Period).
		Bool("redis", cfg.Redis != nil).
		Msg("Login rate limit configured")

	middleware := stdlib.NewMiddleware(limiter.New(st, rate),
		stdlib.WithKeyGetter(func(r *http.Request) string {
			if ip := httpmiddleware.ClientIPFromContext(r.Context()); ip != "" {
				return ip
			}
			return httpmiddleware.ExtractClientIP(r)
		}),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			log.Warn().Str("path", r.URL.Path).Msg("Login rate limit reached")
			telemetry.GetMetrics().RecordLogin(r.Context(), telemetry.LoginRateLimited)

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			h.view(w, r, Page{Flashes: []string{FlashRateLimited}})
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error().Err(err).Msg("Login rate limiter failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}),
	)

	return middleware.Handler, nil
}
