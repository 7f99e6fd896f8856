package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/api/http/handlers"
	"github.com/nagardrishti/complaint-service/internal/classifier"
	"github.com/nagardrishti/complaint-service/internal/config"
	"github.com/nagardrishti/complaint-service/internal/observability"
	"github.com/nagardrishti/complaint-service/internal/persistence"
	"github.com/nagardrishti/complaint-service/internal/registry"
)

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.App.Version == "dev" {
		cfg.App.Version = version
	}
	return cfg, logger, nil
}

// cacheRedis connects to Redis only when the classifier cache will use it.
func cacheRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) *persistence.Redis {
	if cfg.Classifier.Endpoint == "" || cfg.Classifier.CacheTTL() <= 0 {
		return nil
	}
	return persistence.NewRedis(ctx, cfg.Redis, logger)
}

// redisPinger returns an untyped nil for an unused Redis so readiness skips it.
func redisPinger(rdb *persistence.Redis) handlers.Pinger {
	if rdb == nil {
		return nil
	}
	return rdb
}

// buildClassifier picks the HTTP classifier when an endpoint is configured and
// fronts it with the Redis cache when a TTL is set.
func buildClassifier(cfg config.ClassifierConfig, rdb *persistence.Redis, logger *zap.Logger) classifier.Classifier {
	if cfg.Endpoint == "" {
		logger.Warn("CLASSIFIER_ENDPOINT not set; every photo will be treated as unrecognised")
		return classifier.Nop{}
	}
	var cls classifier.Classifier = classifier.NewHTTPClassifier(cfg.Endpoint, cfg.Timeout(), cfg.TopK, logger)
	if ttl := cfg.CacheTTL(); ttl > 0 && rdb != nil && rdb.Client != nil {
		cls = classifier.NewCachedClassifier(cls, rdb.Client, ttl, logger)
	}
	return cls
}

// buildRegistry returns nil when the registry is disabled; services then
// record every sync as failed.
func buildRegistry(cfg config.RegistryConfig, logger *zap.Logger) registry.Client {
	if !cfg.Enabled {
		logger.Warn("registry disabled; complaints will stay in Pending Sync")
		return nil
	}
	return registry.NewSimulatedClient(cfg.VendorName, cfg.FailureRate, nil, logger)
}
