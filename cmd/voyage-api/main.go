// README: Entry point; loads config, wires services, starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"voyage/internal/ai"
	"voyage/internal/config"
	httptransport "voyage/internal/http"
	"voyage/internal/infra"
	"voyage/internal/logger"
	"voyage/internal/maps"
	"voyage/internal/metrics"
	"voyage/internal/modules/export"
	"voyage/internal/modules/session"
	"voyage/internal/service"
	"voyage/internal/weather"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("voyage-api stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, zlog *zap.Logger) error {
	gin.SetMode(cfg.HTTP.GinMode)
	m := metrics.New()

	store, closeStore, err := newStore(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer closeStore()
	sessions := session.NewService(store, zlog.Named("session"))

	resolver, details, err := newResolver(cfg, zlog.Named("places"))
	if err != nil {
		return err
	}

	var wx weather.Service = weather.Disabled{}
	if cfg.Weather.Enabled {
		wx = weather.NewOpenMeteo(cfg.Weather.BaseURL, zlog.Named("weather"))
	}

	generator, closeGen, err := newGenerator(ctx, cfg, zlog.Named("ai"))
	if err != nil {
		return err
	}
	defer closeGen()

	planner := service.NewTripPlanner(resolver, wx, generator, m, zlog.Named("planner"), service.Options{
		RadiusMeters: cfg.Places.RadiusMeters,
		Limit:        cfg.Places.Limit,
	})
	exporter := export.NewService(newMailer(cfg, zlog), zlog.Named("export"))

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Planner:     planner,
		Sessions:    sessions,
		Exporter:    exporter,
		Places:      details,
		Metrics:     m,
		Log:         zlog.Named("http"),
		PlanTimeout: cfg.HTTP.PlanTimeout,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("listening", zap.String("addr", cfg.HTTP.Addr),
			zap.String("store", cfg.Store.Backend),
			zap.String("places", cfg.Places.Provider),
			zap.String("ai", cfg.AI.Provider))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.PlanTimeout+5*time.Second)
	defer cancel()
	zlog.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}

func newStore(ctx context.Context, cfg config.Config, zlog *zap.Logger) (session.Store, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, cfg.Store.TTL), func() { _ = client.Close() }, nil
	case "postgres":
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, err
		}
		store := session.NewPGStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		zlog.Info("using in-memory session store; state is lost on restart")
		return session.NewMemoryStore(), func() {}, nil
	}
}

// newResolver returns the cached location resolver and, when the provider
// supports it, the details lookup.
func newResolver(cfg config.Config, zlog *zap.Logger) (maps.Resolver, maps.DetailsProvider, error) {
	var base maps.Resolver
	switch cfg.Places.Provider {
	case "google":
		if cfg.Places.GoogleKey == "" {
			zlog.Warn("no google maps key; location context disabled")
			return maps.Unconfigured{}, nil, nil
		}
		g, err := maps.NewGooglePlacesResolver(cfg.Places.GoogleKey, zlog)
		if err != nil {
			return nil, nil, fmt.Errorf("google places: %w", err)
		}
		base = g
	default:
		if cfg.Places.OpenTripKey == "" {
			zlog.Warn("no opentripmap key; location context disabled")
		}
		base = maps.NewOpenTripMapResolver(maps.OpenTripMapConfig{
			APIKey:  cfg.Places.OpenTripKey,
			BaseURL: cfg.Places.OpenTripURL,
		}, zlog)
	}

	cached := maps.NewCachedResolver(base, cfg.Places.CacheTTL)
	if _, ok := base.(maps.DetailsProvider); ok {
		return cached, cached, nil
	}
	return cached, nil, nil
}

func newGenerator(ctx context.Context, cfg config.Config, zlog *zap.Logger) (ai.Generator, func(), error) {
	noop := func() {}
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.GeminiKey == "" {
			zlog.Warn("no gemini key; generation disabled")
			return ai.Disabled{}, noop, nil
		}
		g, err := ai.NewGeminiGenerator(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiModel, cfg.AI.MaxTokens, cfg.AI.Temperature, zlog)
		if err != nil {
			return nil, nil, fmt.Errorf("gemini: %w", err)
		}
		return g, g.Close, nil
	case "none":
		return ai.Disabled{}, noop, nil
	default:
		if cfg.AI.APIKey == "" {
			zlog.Warn("no chat api key; every plan will use the synthesized itinerary")
		}
		return ai.NewChatClient(ai.ChatConfig{
			Endpoint:    cfg.AI.Endpoint,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		}, zlog), noop, nil
	}
}

func newMailer(cfg config.Config, zlog *zap.Logger) export.Mailer {
	if cfg.Mail.Host == "" {
		return export.NewLogMailer(zlog.Named("mail"))
	}
	return export.NewSMTPMailer(export.SMTPConfig{
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port,
		Username:   cfg.Mail.Username,
		Password:   cfg.Mail.Password,
		From:       cfg.Mail.From,
		FromName:   cfg.Mail.FromName,
		RequireTLS: cfg.Mail.RequireTLS,
	})
}
