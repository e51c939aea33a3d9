package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/castcall-backend/api/controllers"
	"github.com/angelmondragon/castcall-backend/api/routes"
	"github.com/angelmondragon/castcall-backend/internal/analytics"
	"github.com/angelmondragon/castcall-backend/internal/intake"
	"github.com/angelmondragon/castcall-backend/pkg/config"
	"github.com/angelmondragon/castcall-backend/pkg/db"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
	"github.com/angelmondragon/castcall-backend/pkg/mailer"
	"github.com/angelmondragon/castcall-backend/pkg/metrics"
	"github.com/angelmondragon/castcall-backend/pkg/migrate"
	"github.com/angelmondragon/castcall-backend/pkg/redis"
	"github.com/angelmondragon/castcall-backend/pkg/storage/gcs"
	"github.com/angelmondragon/castcall-backend/pkg/storage/local"
	"github.com/angelmondragon/castcall-backend/pkg/storage/s3"
)

const shutdownTimeout = 15 * time.Second

type blobStore interface {
	intake.BlobStore
	controllers.Pinger
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var readiness []controllers.Dependency

	var dbClient *db.Client
	if strings.EqualFold(cfg.Analytics.Backend, config.AnalyticsBackendDB) {
		dbClient, err = db.New(ctx, cfg.DB, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			logg.Error(ctx, "failed to run dev migrations", err)
			os.Exit(1)
		}
		readiness = append(readiness, controllers.Dependency{Name: "database", Pinger: dbClient})
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		readiness = append(readiness, controllers.Dependency{Name: "redis", Pinger: redisClient})
	}

	store, err := newBlobStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap blob storage", err)
		os.Exit(1)
	}
	readiness = append(readiness, controllers.Dependency{Name: "storage", Pinger: store})

	notifier, err := newNotifier(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap mailer", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pipeline, err := intake.NewPipeline(intake.Params{
		Limits: intake.Limits{
			MaxImages:     cfg.Intake.MaxImages,
			MaxImageBytes: cfg.Intake.MaxImageBytes,
			MaxAudioBytes: cfg.Intake.MaxAudioBytes,
		},
		AdminEmail: cfg.Intake.AdminEmail,
		Store:      store,
		Notifier:   notifier,
		Logger:     logg,
		Metrics:    metrics.NewIntakeMetrics(registry),
	})
	if err != nil {
		logg.Error(ctx, "failed to create intake pipeline", err)
		os.Exit(1)
	}

	analyticsService, err := newAnalyticsService(cfg, logg, dbClient, redisClient, registry)
	if err != nil {
		logg.Error(ctx, "failed to create analytics service", err)
		os.Exit(1)
	}

	var rateStore routes.RateStore
	if redisClient != nil {
		rateStore = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
		"storage":  cfg.Storage.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, pipeline, analyticsService, rateStore, registry, readiness...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

func newBlobStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (blobStore, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case config.StorageBackendGCS:
		return gcs.NewClient(ctx, cfg.GCS, cfg.GCP, cfg.Storage.PublicBaseURL, logg)
	case config.StorageBackendS3:
		return s3.NewClient(ctx, cfg.S3, cfg.Storage.PublicBaseURL, logg)
	case config.StorageBackendLocal:
		return local.NewStore(cfg.Storage.LocalRoot, cfg.Storage.PublicBaseURL)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func newNotifier(ctx context.Context, cfg *config.Config, logg *logger.Logger) (intake.Notifier, error) {
	if strings.TrimSpace(cfg.Sendgrid.APIKey) == "" {
		logg.Warn(ctx, "sendgrid api key not set, notifications will only be logged")
		return mailer.NewLogMailer(logg), nil
	}
	return mailer.NewSendgridMailer(cfg.Sendgrid)
}

func newAnalyticsService(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	registry prometheus.Registerer,
) (analytics.Service, error) {
	var store analytics.EventStore
	if dbClient != nil {
		store = analytics.NewRepository(dbClient.DB())
	} else {
		fileStore, err := analytics.NewFileStore(cfg.Analytics.FilePath)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}

	var cache analytics.SessionCache
	if redisClient != nil {
		redisCache, err := analytics.NewRedisSessionCache(redisClient)
		if err != nil {
			return nil, err
		}
		cache = redisCache
	} else {
		memoryCache, err := analytics.NewMemorySessionCache(0, nil)
		if err != nil {
			return nil, err
		}
		cache = memoryCache
	}

	sessions, err := analytics.NewSessionIdentifier(cache, cfg.Analytics.SessionTTL, nil)
	if err != nil {
		return nil, err
	}

	return analytics.NewService(analytics.Params{
		Store:    store,
		Sessions: sessions,
		Window:   cfg.Analytics.StatsWindow,
		Logger:   logg,
		Metrics:  metrics.NewAnalyticsMetrics(registry),
	})
}
