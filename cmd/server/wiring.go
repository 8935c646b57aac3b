package main

import (
	"context"
	"encoding/json"
	"fmt"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/analytics"
	"github.com/infralens/api/internal/breaker"
	"github.com/infralens/api/internal/catalog"
	"github.com/infralens/api/internal/config"
	"github.com/infralens/api/internal/database"
	"github.com/infralens/api/internal/eventbus"
	"github.com/infralens/api/internal/metrics"
	"github.com/infralens/api/internal/orchestration"
	"github.com/infralens/api/internal/rerank"
)

// backends holds the external connections. Every field is optional; the
// static catalog keeps recommendations working without any of them.
type backends struct {
	db       *database.Postgres
	redis    *database.Redis
	events   *eventbus.JetStreamStore
	temporal client.Client
}

type backendSet struct {
	postgres bool
	redis    bool
	nats     bool
	temporal bool
}

func connectBackends(cfg *config.Config, want backendSet, logger *zap.Logger) (*backends, func()) {
	b := &backends{}
	var closers []func()

	if want.postgres {
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database, store tier and saved configs disabled", zap.Error(err))
		} else {
			b.db = db
			closers = append(closers, db.Close)
			logger.Info("connected to postgres")
		}
	}

	if want.redis {
		rdb, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("failed to connect to redis, hub snapshots disabled", zap.Error(err))
		} else {
			b.redis = rdb
			closers = append(closers, func() { _ = rdb.Close() })
			logger.Info("connected to redis")
		}
	}

	if want.nats {
		if _, err := eventbus.InitNATSClient(cfg.NATSURL, logger); err != nil {
			logger.Warn("failed to connect to NATS, event stream disabled", zap.Error(err))
		} else {
			closers = append(closers, eventbus.CloseNATSClient)
			store, err := eventbus.NewJetStreamStore()
			if err == nil {
				err = store.EnsureStream(eventbus.AnalyticsStream)
			}
			if err != nil {
				logger.Warn("failed to init JetStream store", zap.Error(err))
			} else {
				b.events = store
				logger.Info("JetStream event store initialized", zap.String("stream", eventbus.AnalyticsStream))
			}
		}
	}

	if want.temporal {
		c, err := orchestration.InitTemporalClient(cfg.TemporalAddress, logger)
		if err != nil {
			logger.Warn("failed to connect to temporal", zap.Error(err))
		} else {
			b.temporal = c
			closers = append(closers, orchestration.CloseTemporalClient)
			logger.Info("connected to temporal", zap.String("address", cfg.TemporalAddress))
		}
	}

	return b, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

// catalogParts is the assembled tier chain plus the pieces other components
// reuse.
type catalogParts struct {
	service *catalog.Service
	static  *catalog.StaticCatalog
	hub     *catalog.HubClient
	breaker *breaker.CircuitBreaker
	store   *catalog.PostgresStore
}

type catalogOptions struct {
	live bool // include the hub tier
}

func buildCatalog(cfg *config.Config, b *backends, opts catalogOptions, logger *zap.Logger) (*catalogParts, error) {
	static, err := catalog.DefaultStaticCatalog()
	if err != nil {
		return nil, fmt.Errorf("load static catalog: %w", err)
	}
	parts := &catalogParts{
		static: static,
		hub:    catalog.NewHubClient(cfg.HubBaseURL, cfg.HubToken, cfg.HubTimeout),
	}

	var tiers []catalog.Tier
	if opts.live {
		hubCache, err := catalog.NewHubCache(cfg.HubCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("hub cache: %w", err)
		}
		parts.breaker = breaker.New()
		parts.breaker.OnStateChange = breakerNotifier(logger)

		hubCfg := catalog.HubTierConfig{
			Fetcher: parts.hub,
			Static:  static,
			Cache:   hubCache,
			Breaker: parts.breaker,
			Logger:  logger,
			OnCache: metrics.CacheObserver("hub"),
		}
		if b != nil && b.redis != nil {
			hubCfg.Snapshots = catalog.NewRedisSnapshots(b.redis.Client(), cfg.HubCacheTTL, logger)
		}
		tiers = append(tiers, catalog.NewHubTier(hubCfg))
	}
	if b != nil && b.db != nil {
		parts.store = catalog.NewPostgresStore(b.db.Pool())
		tiers = append(tiers, catalog.NewStoreTier(parts.store, static, logger))
	}
	tiers = append(tiers, catalog.NewStaticTier(static))

	results, err := catalog.NewResultCache(cfg.ResultCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("result cache: %w", err)
	}
	chain := catalog.NewChain(metrics.ObserveTier, tiers...)
	parts.service = catalog.NewService(chain, results, logger, metrics.CacheObserver("result"))
	return parts, nil
}

// breakerNotifier logs hub breaker transitions and announces them on NATS.
func breakerNotifier(logger *zap.Logger) func(from, to breaker.State) {
	return func(from, to breaker.State) {
		logger.Warn("hub circuit breaker state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		payload, _ := json.Marshal(map[string]string{"from": from.String(), "to": to.String()})
		if err := eventbus.Publish(eventbus.HubBreakerSubject, payload); err != nil {
			logger.Debug("breaker notification not published", zap.Error(err))
		}
	}
}

func buildReranker(cfg *config.Config, logger *zap.Logger) *rerank.Reranker {
	completer, err := rerank.NewCompleter(rerank.ProviderConfig{
		Provider:        cfg.LLMProvider,
		Model:           cfg.LLMModel,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
	})
	if err != nil {
		logger.Info("llm reranking disabled", zap.String("provider", cfg.LLMProvider), zap.Error(err))
		return nil
	}
	logger.Info("llm reranking enabled", zap.String("provider", cfg.LLMProvider))
	return rerank.New(completer, logger)
}

func buildRecorder(b *backends, logger *zap.Logger) *analytics.Recorder {
	rc := analytics.Config{
		Logger:    logger,
		OnFailure: metrics.AnalyticsFailure,
	}
	if b.db != nil {
		rc.Writer = analytics.NewPostgresWriter(b.db.Pool())
	}
	if b.events != nil {
		rc.Publisher = b.events
	}
	return analytics.NewRecorder(rc)
}

func temporalHealth(c client.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := c.CheckHealth(ctx, &client.CheckHealthRequest{})
		return err
	}
}
