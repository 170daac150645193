package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darkClaw921/main-site-templats/internal/config"
	"github.com/darkClaw921/main-site-templats/internal/database"
	"github.com/darkClaw921/main-site-templats/internal/github"
	"github.com/darkClaw921/main-site-templats/internal/handlers"
	"github.com/darkClaw921/main-site-templats/internal/jobs"
	"github.com/darkClaw921/main-site-templats/internal/llm"
	"github.com/darkClaw921/main-site-templats/internal/logger"
	"github.com/darkClaw921/main-site-templats/internal/middleware"
	"github.com/darkClaw921/main-site-templats/internal/s3store"
	"github.com/darkClaw921/main-site-templats/internal/services"
	"github.com/darkClaw921/main-site-templats/internal/storage"
	"github.com/darkClaw921/main-site-templats/internal/supabase"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const (
	serviceName     = "portfolio"
	shutdownTimeout = 10 * time.Second
)

var version = "dev"

type recordStore interface {
	services.ProjectRepository
	services.TweakRepository
	handlers.Pinger
}

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewWithServiceContext(serviceName, version, cfg.Environment, cfg.LogLevel)
	slog.SetDefault(appLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	images, err := openImageStore(ctx, cfg)
	if err != nil {
		appLogger.Error("failed to open image store", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	generator := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	}, appLogger)
	if !generator.Configured() {
		appLogger.Warn("OPENAI_KEY not set, draft generation is disabled")
	}
	var repos services.RepositoryDescriber = github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken, appLogger)
	if rdb := openRedis(ctx, cfg, appLogger); rdb != nil {
		defer rdb.Close()
		repos = github.NewCachedDescriber(repos, rdb, cfg.GitHubCacheTTL, appLogger)
	}

	auth, err := middleware.NewAdminAuth(cfg.AdminPassword, cfg.SecretKey, cfg.SessionTTL, cfg.IsProduction(), appLogger)
	if err != nil {
		appLogger.Error("failed to initialize admin auth", "error", err)
		os.Exit(1)
	}

	scheduler := jobs.NewScheduler(appLogger)
	if lister, ok := images.(services.UploadLister); ok && cfg.UploadSweepSchedule != "" {
		sweeper := services.NewOrphanSweeper(store, lister, images, cfg.UploadSweepGrace, appLogger)
		err := scheduler.Add("upload-sweep", cfg.UploadSweepSchedule, func(ctx context.Context) error {
			_, err := sweeper.Sweep(ctx)
			return err
		})
		if err != nil {
			appLogger.Error("failed to schedule upload sweep", "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()

	router, err := handlers.NewRouter(handlers.Deps{
		Projects:    services.NewProjectService(store, images, appLogger),
		Tweaks:      services.NewTweakService(store, appLogger),
		Drafts:      services.NewDraftService(generator, repos, appLogger),
		Auth:        auth,
		Images:      images,
		DB:          store,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      appLogger,
	})
	if err != nil {
		appLogger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", "error", err)
	}
	scheduler.Stop(shutdownCtx)
}

// openStore connects to PostgreSQL and applies migrations. Without
// DATABASE_URL records live in memory and are lost on restart.
func openStore(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) (recordStore, func(), error) {
	if cfg.DatabaseURL == "" {
		appLogger.Warn("DATABASE_URL not set, using in-memory store")
		return database.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.NewMigrator(db, appLogger).Run(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	appLogger.Info("migrations completed")

	return database.NewStore(db), func() { db.Close() }, nil
}

func openImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		remote, err := s3store.New(ctx, s3store.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		return remote, nil
	case "supabase":
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, err
		}
		remote, err := supabase.NewStorageClient(client, cfg.SupabaseStorageBucket)
		if err != nil {
			return nil, err
		}
		return remote, nil
	}

	local, err := storage.NewLocalStore(cfg.StaticDir, cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return local, nil
}

// openRedis returns nil when REDIS_URL is unset or the server does not answer;
// repository summaries are then fetched on every request.
func openRedis(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		appLogger.Warn("invalid REDIS_URL, repository cache disabled", "error", err)
		return nil
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		appLogger.Warn("redis unavailable, repository cache disabled", "error", err)
		rdb.Close()
		return nil
	}
	return rdb
}
