package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/encounter-forge/internal/clients/generator"
	"github.com/KirkDiggler/encounter-forge/internal/clients/srd"
	"github.com/KirkDiggler/encounter-forge/internal/config"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/locale"
	battleorch "github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/clock"
	"github.com/KirkDiggler/encounter-forge/internal/pkg/idgen"
	"github.com/KirkDiggler/encounter-forge/internal/redis"
	"github.com/KirkDiggler/encounter-forge/internal/repositories/battles"
	"github.com/KirkDiggler/encounter-forge/internal/repositories/encounters"
)

// services is what every transport is built from
type services struct {
	encounters encounter.Service
	battles    battleorch.Service
	closers    []func() error
}

// Close releases storage connections in reverse order of opening
func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Warn("failed to close resource", "error", err)
		}
	}
}

func buildServices(ctx context.Context, cfg *config.Config) (_ *services, err error) {
	svc := &services{}
	defer func() {
		if err != nil {
			svc.Close()
		}
	}()

	clk := clock.New()
	locales, err := locale.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load locale table")
	}

	var redisClient redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL, &redis.Options{
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   3,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create redis client")
		}
		svc.closers = append(svc.closers, redisClient.Close)

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis is unreachable")
		}
	}

	encounterRepo, err := buildEncounterRepo(ctx, cfg, redisClient, svc)
	if err != nil {
		return nil, err
	}

	battleRepo, err := buildBattleRepo(cfg, redisClient, clk)
	if err != nil {
		return nil, err
	}

	gen, err := buildGenerator(cfg, locales)
	if err != nil {
		return nil, err
	}

	var srdClient srd.Client
	if cfg.SRDEnabled {
		srdClient, err = srd.New(&srd.Config{
			BaseURL:  cfg.SRDBaseURL,
			CacheTTL: cfg.SRDCacheTTL,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create srd client")
		}
	}

	svc.encounters, err = encounter.NewOrchestrator(&encounter.Config{
		Generator:     gen,
		EncounterRepo: encounterRepo,
		Locales:       locales,
		Roller:        dice.DefaultRoller,
		IDGenerator:   idgen.NewUUID("enc"),
		Clock:         clk,
		SRD:           srdClient,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create encounter orchestrator")
	}

	svc.battles, err = battleorch.NewOrchestrator(&battleorch.Config{
		BattleRepo:    battleRepo,
		EncounterRepo: encounterRepo,
		Locales:       locales,
		IDGenerator:   idgen.NewUUID("battle"),
		Clock:         clk,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create battle orchestrator")
	}

	return svc, nil
}

func buildEncounterRepo(ctx context.Context, cfg *config.Config, client redis.Client, svc *services) (encounters.Repository, error) {
	switch {
	case cfg.SQLitePath != "":
		repo, err := encounters.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, repo.Close)
		slog.Info("encounter storage", "backend", "sqlite", "path", cfg.SQLitePath)
		return repo, nil
	case client != nil:
		slog.Info("encounter storage", "backend", "redis")
		return encounters.NewRedisRepository(&encounters.RedisConfig{Client: client})
	default:
		slog.Info("encounter storage", "backend", "memory")
		return encounters.NewInMemory(), nil
	}
}

func buildBattleRepo(cfg *config.Config, client redis.Client, clk clock.Clock) (battles.Repository, error) {
	if client == nil {
		slog.Info("battle storage", "backend", "memory")
		return battles.NewInMemory(clk), nil
	}

	slog.Info("battle storage", "backend", "redis", "ttl", cfg.BattleTTL)
	return battles.NewRedisRepository(&battles.RedisConfig{
		Client: client,
		Clock:  clk,
		TTL:    cfg.BattleTTL,
	})
}

func buildGenerator(cfg *config.Config, locales *locale.Table) (generator.Client, error) {
	if !cfg.UseLLM() {
		slog.Info("generator", "backend", "offline")
		return generator.NewOffline(&generator.OfflineConfig{Table: locales})
	}

	slog.Info("generator", "backend", "llm", "model", cfg.OpenAIModel)
	retries := cfg.GeneratorRetries
	if retries == 0 {
		retries = -1
	}
	return generator.NewLLM(&generator.LLMConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.Temperature,
		HTTPTimeout: cfg.GeneratorTimeout,
		MaxRetries:  retries,
	})
}
