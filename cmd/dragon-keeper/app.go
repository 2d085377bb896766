package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dragon-keeper/internal/config"
	"github.com/KirkDiggler/dragon-keeper/internal/engine"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	"github.com/KirkDiggler/dragon-keeper/internal/logging"
	"github.com/KirkDiggler/dragon-keeper/internal/redis"
)

// app holds everything a command needs and releases it on Close
type app struct {
	loader *config.Loader
	cfg    *config.Config
	logger *logging.Logger
	redis  redis.Client
	engine *engine.Engine
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags(), flagKeys); err != nil {
		return nil, err
	}
	cfg, err := loader.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(&logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	a := &app{loader: loader, cfg: cfg, logger: logger}

	engineCfg := &engine.Config{
		KeyPrefix:            cfg.Store.KeyPrefix,
		BattleTTL:            cfg.Store.BattleTTL,
		SchedulerInterval:    cfg.Scheduler.Interval,
		EnergyRegen:          cfg.Scheduler.EnergyRegen,
		MaxTurns:             cfg.Battle.MaxTurns,
		GachaPrice:           cfg.Gacha.Price,
		RequireSkinOwnership: cfg.Shop.RequireSkinOwnership,
		Logger:               logger.Logger,
	}

	if cfg.Store.Backend == config.BackendRedis {
		client, err := redis.Connect(&redis.Config{
			Mode:       redis.Mode(cfg.Store.RedisMode),
			Addrs:      cfg.Store.RedisAddrs(),
			MasterName: cfg.Store.RedisMasterName,
		})
		if err != nil {
			a.Close()
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to connect to redis")
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			a.Close()
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis is not reachable").
				WithMeta("addr", cfg.Store.RedisAddr)
		}
		a.redis = client
		engineCfg.RedisClient = client
	}

	a.engine, err = engine.New(ctx, engineCfg)
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to start session")
	}

	logger.Info("Session ready",
		"store", cfg.Store.Backend,
		"scheduler_interval", cfg.Scheduler.Interval)

	return a, nil
}

// watchConfig applies log level edits made to the config file while running
func (a *app) watchConfig() {
	if configPath == "" {
		return
	}
	a.loader.Watch(func(cfg *config.Config) {
		if err := a.logger.SetLevel(cfg.Log.Level); err != nil {
			a.logger.Warn("Ignoring log level change", "error", err)
			return
		}
		a.logger.Info("Config reloaded", "log_level", cfg.Log.Level)
	}, func(err error) {
		a.logger.Warn("Ignoring invalid config change", "error", err)
	})
}

// Close stops the session and releases connections
func (a *app) Close() {
	if a.engine != nil {
		a.engine.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis", "error", err)
		}
	}
	if err := a.logger.Close(); err != nil {
		slog.Warn("Failed to close log file", "error", err)
	}
}
