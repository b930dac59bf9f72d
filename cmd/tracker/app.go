package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"hiscore-tracker/internal/adapters/cache/redis"
	"hiscore-tracker/internal/adapters/discord"
	"hiscore-tracker/internal/adapters/feed"
	"hiscore-tracker/internal/adapters/hiscores"
	"hiscore-tracker/internal/adapters/hiscores/api"
	"hiscore-tracker/internal/adapters/storage/filestore"
	"hiscore-tracker/internal/adapters/storage/postgres"
	"hiscore-tracker/internal/adapters/wom"
	"hiscore-tracker/internal/config"
	"hiscore-tracker/internal/core/domain"
	"hiscore-tracker/internal/core/ports"
	"hiscore-tracker/internal/core/services/collector"
	"hiscore-tracker/internal/core/services/digest"

	"github.com/go-co-op/gocron"
)

// DigestReader serves the last published digest.
type DigestReader interface {
	LatestDigest(ctx context.Context) (*domain.Digest, error)
}

type App struct {
	config        *config.Config
	store         ports.SnapshotRepository
	redis         io.Closer
	leaderboards  DigestReader
	discord       io.Closer
	collector     *collector.Service
	digest        *digest.Service
	scheduler     *gocron.Scheduler
	metricsServer *http.Server
	jobCtx        context.Context
	jobCancel     context.CancelFunc
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	schema, err := config.LoadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{config: cfg, store: store}

	var publishers []ports.DigestPublisher

	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("Failed to connect to Redis, leaderboards will not be published", "error", err)
		} else {
			cache := redis.NewLeaderboardCache(client)
			app.redis = client
			app.leaderboards = cache
			publishers = append(publishers, cache)
		}
	}

	if cfg.DiscordEnabled() {
		session, err := discord.NewSession(cfg)
		if err != nil {
			store.Close()
			return nil, err
		}
		app.discord = session
		publishers = append(publishers, discord.NewAdapter(session, cfg))
	}

	var (
		players  ports.PlayerListProvider = store
		provider ports.DataProvider       = store
	)
	if cfg.FeedBaseURL != "" {
		f := feed.NewProvider(cfg.FeedBaseURL)
		players, provider = f, f
		slog.Info("Reading snapshots from feed", "url", cfg.FeedBaseURL)
	}

	fetcher := hiscores.NewAdapter(
		api.NewClient(cfg.HiscoresBaseURL, cfg.HiscoresRate),
		schema,
		cfg.WorkerPoolSize,
		cfg.HTMLFallback,
	)

	app.collector = collector.NewService(collector.Dependencies{
		Config:  cfg,
		Storage: store,
		Fetcher: fetcher,
		Groups:  wom.NewClient(cfg.WOMBaseURL),
	})
	app.digest = digest.NewService(digest.Dependencies{
		Config:     cfg,
		Players:    players,
		Provider:   provider,
		Publishers: publishers,
		Schema:     schema,
	})

	slog.Info("Application initialized",
		"storage", cfg.StorageBackend,
		"skills", len(schema.Skills),
		"minigames", len(schema.Minigames),
		"publishers", len(publishers),
	)
	return app, nil
}

func newStore(ctx context.Context, cfg *config.Config) (ports.SnapshotRepository, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		store, err := postgres.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return store, nil
	default:
		store, err := filestore.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open data dir: %w", err)
		}
		return store, nil
	}
}

// Collect runs one collection.
func (a *App) Collect(ctx context.Context) (*collector.RunReport, error) {
	return a.collector.Run(ctx)
}

// Digest builds and publishes one digest.
func (a *App) Digest(ctx context.Context) error {
	d, err := a.digest.Run(ctx)
	if err != nil {
		slog.Error("Digest run failed", "error", err)
		return err
	}
	slog.Info("Digest published", "next_refresh", d.NextRefresh)
	return nil
}

// Run starts the metrics server and the daily job.
func (a *App) Run() error {
	a.startMetricsServer()

	a.jobCtx, a.jobCancel = context.WithCancel(context.Background())

	scheduler, job, err := newDailyScheduler(a.config, func() { a.runDaily(a.jobCtx) })
	if err != nil {
		return err
	}
	a.scheduler = scheduler
	a.scheduler.StartAsync()

	slog.Info("Hiscore tracker is running",
		"refresh_hour", a.config.RefreshHour,
		"timezone", a.config.RefreshTimezone,
		"next_run", job.NextRun(),
	)
	return nil
}

// runDaily collects fresh snapshots and publishes a digest of them. A failed
// collection skips the digest so stale data is not announced as new.
func (a *App) runDaily(ctx context.Context) {
	if _, err := a.Collect(ctx); err != nil {
		return
	}
	_ = a.Digest(ctx)
}

func (a *App) startMetricsServer() {
	a.metricsServer = &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           newMux(a.leaderboards),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Starting metrics server", "addr", a.config.MetricsAddr)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
}

func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.jobCancel != nil {
		a.jobCancel()
	}

	var errs []error
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server: %w", err))
		}
	}

	if a.discord != nil {
		if err := a.discord.Close(); err != nil {
			errs = append(errs, fmt.Errorf("discord: %w", err))
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}

	if a.store != nil {
		a.store.Close()
	}

	return errors.Join(errs...)
}
