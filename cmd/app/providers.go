package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/priyadesai/airhealth/internal/domain/prediction"
	"github.com/priyadesai/airhealth/internal/infra/config"
	"github.com/priyadesai/airhealth/internal/infra/modelstore"
	"github.com/priyadesai/airhealth/internal/infra/predcache"
	"github.com/priyadesai/airhealth/internal/infra/readingrepo"
)

// modelArtifacts bundles the decoded model with the ordered feature list it
// was trained on, so both can come from a single load.
type modelArtifacts struct {
	model    *prediction.Model
	features []string
}

func provideModelArtifacts(cfg *config.Config, logger *slog.Logger) (*modelArtifacts, error) {
	model, features, err := modelstore.Load(cfg.Model.Path, cfg.Model.ManifestPath, cfg.Model.FeatureSet, logger)
	if err != nil {
		return nil, err
	}
	return &modelArtifacts{model: model, features: features}, nil
}

func provideModel(artifacts *modelArtifacts) *prediction.Model {
	return artifacts.model
}

func provideFeatureList(artifacts *modelArtifacts) []string {
	return artifacts.features
}

func providePredictionConfig(cfg *config.Config) prediction.Config {
	return prediction.Config{
		CurrentTTL: cfg.Cache.CurrentTTL,
	}
}

func provideReadingSource(cfg *config.Config, logger *slog.Logger) (prediction.ReadingSource, error) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using csv-backed memory repository", "path", cfg.Model.DatasetPath)
		return readingrepo.NewMemoryRepositoryFromCSV(cfg.Model.DatasetPath, logger)
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using csv-backed memory repository", "error", err)
		return readingrepo.NewMemoryRepositoryFromCSV(cfg.Model.DatasetPath, logger)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using csv-backed memory repository", "error", err)
		return readingrepo.NewMemoryRepositoryFromCSV(cfg.Model.DatasetPath, logger)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using csv-backed memory repository", "error", err)
		pool.Close()
		return readingrepo.NewMemoryRepositoryFromCSV(cfg.Model.DatasetPath, logger)
	}
	logger.Info("postgres reading repository enabled")
	return readingrepo.NewPostgresRepository(pool), nil
}

func providePredictionCache(cfg *config.Config, logger *slog.Logger) prediction.Cache {
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return predcache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return predcache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("valkey prediction cache enabled", "addr", cfg.Cache.Valkey.Addr)
			return predcache.NewValkeyStore(client, "airhealth")
		}
	}
	return predcache.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
