package website

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ServeConfig configures the HTTP listener.
type ServeConfig struct {
	Addr            string
	CertFile        string
	KeyFile         string
	ShutdownTimeout time.Duration
}

// NewHTTPServer returns an http.Server with conservative timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}

// Serve runs the website until ctx is cancelled, then shuts down gracefully
// within cfg.ShutdownTimeout. TLS is used when both cert and key are set.
func (s *Website) Serve(ctx context.Context, cfg ServeConfig) error {
	httpServer := NewHTTPServer(cfg.Addr, s.Handler())

	serverErrors := make(chan error, 1)

	go func() {
		tls := cfg.CertFile != "" && cfg.KeyFile != ""
		log.Info().Str("addr", cfg.Addr).Bool("tls", tls).Msg("Website listening")

		var err error
		if tls {
			err = httpServer.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	log.Info().Msg("HTTP server shutdown complete")
	return nil
}
