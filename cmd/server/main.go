package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/eventskona-auth/internal/admin"
	"github.com/iliyamo/eventskona-auth/internal/config"
	"github.com/iliyamo/eventskona-auth/internal/database"
	"github.com/iliyamo/eventskona-auth/internal/handler"
	"github.com/iliyamo/eventskona-auth/internal/oauth/google"
	"github.com/iliyamo/eventskona-auth/internal/queue"
	"github.com/iliyamo/eventskona-auth/internal/ratelimit"
	"github.com/iliyamo/eventskona-auth/internal/repository"
	"github.com/iliyamo/eventskona-auth/internal/router"
	"github.com/iliyamo/eventskona-auth/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional outside development

	cfg := config.Load()
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, using in-memory rate limits and no response cache")
	} else {
		defer rdb.Close()
	}

	var store ratelimit.Store
	if rlCfg.Store == "redis" && rdb != nil {
		store = ratelimit.NewRedisStore(rdb, rlCfg.Prefix)
	} else {
		mem := ratelimit.NewMemoryStore(ratelimit.DefaultSweepInterval)
		defer mem.Close()
		store = mem
	}
	limiter := ratelimit.New(store, logger.Named("ratelimit"))

	creds, err := admin.ParseCredentials(cfg.AdminUsers)
	if err != nil {
		logger.Fatal("invalid ADMIN_USERS", zap.Error(err))
	}
	if creds.Len() == 0 {
		logger.Warn("no admin users configured, admin login disabled")
	}
	for name, v := range map[string]string{
		"JWT_SECRET":           cfg.JWTSecret,
		"REFRESH_TOKEN_SECRET": cfg.RefreshTokenSecret,
		"ADMIN_JWT_SECRET":     cfg.AdminJWTSecret,
	} {
		if v == "" {
			logger.Error("secret not configured, dependent routes will answer 500", zap.String("var", name))
		}
	}

	publisher := queue.NewPublisher(cfg.RabbitMQURL, logger.Named("queue"))
	users := repository.NewUserRepo(db)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.RefreshTokenSecret, cfg.AccessTTL, cfg.RefreshTTL)
	adminTokens := admin.NewIssuer(cfg.AdminJWTSecret, cfg.AdminTTL)
	authHandler := handler.NewAuthHandler(cfg, users, tokens, google.NewVerifier(cfg.GoogleUserInfoURL), publisher, logger.Named("auth"))
	adminHandler := handler.NewAdminHandler(creds, adminTokens, users, publisher, logger.Named("admin"))

	e := router.New(router.Deps{
		Cfg:         cfg,
		RateLimit:   rlCfg,
		Cache:       cacheCfg,
		Logger:      logger,
		Limiter:     limiter,
		Redis:       rdb,
		Tokens:      tokens,
		AdminTokens: adminTokens,
		Auth:        authHandler,
		Admin:       adminHandler,
		Organizers:  handler.NewOrganizerHandler(users),
		Health:      &handler.HealthHandler{DB: db, Redis: rdb},
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	// pending reset links and auth events
	authHandler.Wait()
	adminHandler.Wait()
	logger.Info("server stopped")
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
