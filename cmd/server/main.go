package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/anonto42/zynq/backend/internal/repositories/memory"
	"github.com/anonto42/zynq/backend/internal/router"
	"github.com/anonto42/zynq/backend/pkg/config"
	"github.com/anonto42/zynq/backend/pkg/firebase"
	"github.com/anonto42/zynq/backend/pkg/logger"
	"github.com/anonto42/zynq/backend/pkg/media"
	"github.com/anonto42/zynq/backend/pkg/metrics"
	"github.com/anonto42/zynq/backend/pkg/ratelimit"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.IsProduction(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	repos, db, err := initStorage(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}
	defer db.CloseDB()

	store, err := initMedia(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize media storage")
	}

	var limiter ratelimit.Allower
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		rl, err := ratelimit.NewRedis(rdb, cfg.RateLimit, cfg.RateLimitWindow)
		if err != nil {
			log.WithError(err).Fatal("Invalid rate limit configuration")
		}
		limiter = rl
	}

	// Initialize Firebase
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize Firebase")
	}

	var m *metrics.Metrics
	var metricsServer *http.Server
	if cfg.MetricsPort != "" {
		m = metrics.New()
		metricsServer = &http.Server{Addr: ":" + cfg.MetricsPort, Handler: m.Handler()}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	router.SetupRoutes(e, router.Dependencies{
		Config:   cfg,
		Repos:    repos,
		Media:    store,
		Metrics:  m,
		Limiter:  limiter,
		Firebase: firebaseApp,
		Logger:   log,
	})

	go func() {
		log.WithField("port", cfg.Port).Info("Server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
}

// initStorage returns the repositories for the configured backend. The
// returned *config.DB is nil for the in-memory backend.
func initStorage(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*repositories.Repositories, *config.DB, error) {
	switch cfg.StorageBackend {
	case "memory":
		log.Warn("Using in-memory storage, data is lost on restart")
		return memory.New().Repositories(), nil, nil
	case "mongo":
		db, err := config.InitDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.EnsureIndexes(ctx, db.Database, cfg.StoryTTL); err != nil {
			db.CloseDB()
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return repositories.NewMongoRepositories(db.Database, cfg.MongoTransactions), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

func initMedia(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (media.Store, error) {
	switch cfg.MediaBackend {
	case "cloudinary":
		if cfg.CloudinaryCloudName == "" {
			log.Warn("Cloudinary is not configured, media uploads are disabled")
			return media.Disabled{}, nil
		}
		return media.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	case "s3":
		return media.NewS3(ctx, media.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
			Folder:    cfg.CloudinaryFolder,
		})
	case "none", "":
		return media.Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.MediaBackend)
	}
}
