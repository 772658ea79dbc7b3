package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/accounts"
	"github.com/wolfeidau/ndrweb/internal/login"
	"github.com/wolfeidau/ndrweb/internal/maintenance"
	"github.com/wolfeidau/ndrweb/internal/telemetry"
	"github.com/wolfeidau/ndrweb/internal/website"
)

type ServeCmd struct {
	Listen string `help:"HTTP listen address, overrides the config file" default:"" env:"NDRWEB_LISTEN"`

	// Bootstrap account, mainly for the in-memory store which starts empty.
	AdminEmail    string `help:"ensure a superuser with this email exists at startup" default:"" env:"NDRWEB_ADMIN_EMAIL"`
	AdminPassword string `help:"password for the bootstrap superuser" default:"" env:"NDRWEB_ADMIN_PASSWORD"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := globals.setup()
	if err != nil {
		return err
	}

	if c.Listen != "" {
		cfg.Listen = c.Listen
	}

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting ndrweb")

	if cfg.Telemetry.Enabled {
		log.Info().Float64("sample_ratio", cfg.Telemetry.Ratio()).Msg("Telemetry is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, telemetry.Options{
			ServiceName: "ndrweb",
			Version:     globals.Version,
			SampleRatio: cfg.Telemetry.Ratio(),
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	accountSvc := accounts.NewService(b.stores.Users)

	if c.AdminEmail != "" {
		if c.AdminPassword == "" {
			return errors.New("admin password is required with --admin-email")
		}
		if _, err := accountSvc.CreateSuperuser(ctx, "admin", c.AdminEmail, c.AdminPassword, "Administrator"); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close redis client")
			}
		}()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Login rate limits shared through redis")
	}

	opts := []website.Option{}
	if pinger := b.Pinger(); pinger != nil {
		opts = append(opts, website.WithPinger(pinger))
	}

	web, err := website.New(website.Config{
		Login: login.Config{
			SessionSecret: []byte(cfg.Session.Secret),
			SessionTTL:    cfg.Session.TTL,
			SecureCookie:  !cfg.Session.InsecureCookie,
		},
		RateLimit: login.RateLimitConfig{
			Rate:  cfg.Login.RateLimit,
			Redis: redisClient,
		},
		TrustProxy:  cfg.Login.TrustProxy,
		CORSOrigins: cfg.CORS.AllowedOrigins,
	}, b.stores, accountSvc, opts...)
	if err != nil {
		return err
	}

	cleanup := maintenance.NewSessionCleanup(b.stores.Sessions, cfg.Maintenance.SessionCleanupSchedule)
	if err := cleanup.Start(); err != nil {
		return err
	}
	defer func() {
		<-cleanup.Stop().Done()
	}()

	return web.Serve(ctx, website.ServeConfig{
		Addr:            cfg.Listen,
		CertFile:        cfg.TLS.Cert,
		KeyFile:         cfg.TLS.Key,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
}
