package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/graceful"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/applicant-tracking-api/internal/config"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	"github.com/yukikurage/applicant-tracking-api/internal/database"
	"github.com/yukikurage/applicant-tracking-api/internal/logging"
	"github.com/yukikurage/applicant-tracking-api/internal/ratelimit"
	"github.com/yukikurage/applicant-tracking-api/internal/server"
	"github.com/yukikurage/applicant-tracking-api/internal/services"
	"github.com/yukikurage/applicant-tracking-api/internal/storage"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(logging.Config{Component: "api", Level: cfg.LogLevel})
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg, logger); err != nil {
		return err
	}
	if err := database.Migrate(logger); err != nil {
		return err
	}

	// Sessions live in Redis so every instance sees the same login.
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return err
	}
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})

	applyLimiter, feedbackLimiter, err := newLimiters(ctx, cfg, redisAddr, logger)
	if err != nil {
		return err
	}

	blobStore, err := newBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	router, err := server.NewRouter(server.Deps{
		DB:              database.GetDB(),
		Logger:          logger,
		SessionStore:    sessionStore,
		BlobStore:       blobStore,
		ApplyLimiter:    applyLimiter,
		FeedbackLimiter: feedbackLimiter,
		Feedback: services.FeedbackConfig{
			Token: cfg.GitHubFeedbackToken,
			Repo:  cfg.GitHubFeedbackRepo,
		},
		DemoOrgSlug:      cfg.DemoOrgSlug,
		MaxRequestBytes:  cfg.MaxRequestBytes,
		TrustedProxies:   cfg.TrustedProxies,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})
	if err != nil {
		return err
	}

	srv, err := graceful.New(router, graceful.WithAddr(":"+cfg.Port))
	if err != nil {
		return err
	}
	defer srv.Close()

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := srv.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newLimiters(ctx context.Context, cfg *config.Config, redisAddr string, logger *zap.Logger) (ratelimit.Limiter, ratelimit.Limiter, error) {
	if cfg.RateLimitBackend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, nil, err
		}
		logger.Info("rate limiting backed by redis")
		return ratelimit.NewRedisSlidingWindow(client, "ratelimit:apply", constants.ApplyRateLimit, constants.ApplyRateWindow),
			ratelimit.NewRedisSlidingWindow(client, "ratelimit:feedback", constants.FeedbackRateLimit, constants.FeedbackRateWindow),
			nil
	}

	apply := ratelimit.NewSlidingWindow(constants.ApplyRateLimit, constants.ApplyRateWindow)
	feedback := ratelimit.NewSlidingWindow(constants.FeedbackRateLimit, constants.FeedbackRateWindow)
	go apply.Run(ctx)
	go feedback.Run(ctx)
	logger.Info("rate limiting in memory")
	return apply, feedback, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.BlobStore, error) {
	if cfg.StorageDriver == "memory" {
		logger.Warn("documents are stored in memory and lost on restart")
		return storage.NewMemoryStore(), nil
	}

	s3Cfg := storage.S3Config{
		Endpoint:       cfg.S3Endpoint,
		Region:         cfg.S3Region,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		ForcePathStyle: cfg.S3ForcePathStyle,
	}
	store, err := storage.NewS3Store(s3Cfg)
	if err != nil {
		return nil, err
	}
	storage.PrepareBucket(ctx, store, s3Cfg, logger)
	logger.Info("document storage ready", zap.String("bucket", cfg.S3Bucket))
	return store, nil
}
