// Command api runs the user service HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/user-service/internal/api"
	"github.com/99minutos/user-service/internal/api/handler"
	"github.com/99minutos/user-service/internal/core/auth"
	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/core/service"
	mongodb "github.com/99minutos/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/user-service/internal/infrastructure/db/redis"
	"github.com/99minutos/user-service/internal/infrastructure/queue"
	"github.com/99minutos/user-service/internal/pkg/config"
	"github.com/99minutos/user-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "user-service",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := auth.NewCodec([]byte(cfg.JWTSecret), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid auth configuration")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	// The pool outlives the signal context so in-flight requests can finish
	// hashing during graceful shutdown.
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	hashPool := queue.NewHashPool(cfg.HashWorkers, auth.NewHasher(), log)
	hashPool.Start(poolCtx)

	issuer := auth.NewIssuer(codec)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Lockout)
	userService := service.NewUserService(userRepo, hashPool, issuer, log)
	authService := service.NewAuthService(userRepo, hashPool, issuer, limiter, log)

	if cfg.Admin.Email != "" {
		admin, err := userService.EnsureAdmin(ctx, ports.CreateUserInput{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin account")
		}
		log.Info().Int64("user_id", admin.ID).Msg("admin account ready")
	}

	e := api.NewRouter(api.Dependencies{
		Users:         userService,
		Auth:          authService,
		Authenticator: auth.NewAuthenticator(codec, userRepo, log),
		Readiness: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
