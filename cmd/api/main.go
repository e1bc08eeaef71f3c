package main

import (
	"context"
	"log"

	"github.com/rolecall/identity-service/internal/api"
	"github.com/rolecall/identity-service/internal/infrastructure/config"
	"github.com/rolecall/identity-service/internal/infrastructure/db/postgres"
	redisinfra "github.com/rolecall/identity-service/internal/infrastructure/db/redis"
	"github.com/rolecall/identity-service/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logg := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL})
	if err != nil {
		logg.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logg.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		logg.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()

	e := api.NewRouter(pool, rdb, cfg.JWTSecret, logg)

	logg.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting identity api")
	if err := e.Start(":" + cfg.Port); err != nil {
		logg.Fatal().Err(err).Msg("server stopped")
	}
}
