package di

import (
	"context"
	"fmt"
	"time"

	"CryptoSeason/internal/domain/models"
	"CryptoSeason/internal/domain/repository"
	domsvc "CryptoSeason/internal/domain/service"
	"CryptoSeason/internal/handler/api"
	internalrepo "CryptoSeason/internal/repository"
	"CryptoSeason/internal/service/ratelimit"
	"CryptoSeason/internal/services/analytics"
	"CryptoSeason/internal/usecase"
	"CryptoSeason/pkg/cache"
	pkgch "CryptoSeason/pkg/clickhouse"
	"CryptoSeason/pkg/config"
	xhttp "CryptoSeason/pkg/http"
	pkgkafka "CryptoSeason/pkg/kafka"
	applogger "CryptoSeason/pkg/logger"
	"CryptoSeason/pkg/metrics"
	"CryptoSeason/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger builds the root logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideCache returns the configured response cache, or nil for "none".
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	redisOpts := []cache.RedisOption{
		cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	}

	switch cfg.Cache.Type {
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		c, err := cache.NewRedisCache(redisOpts...)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	case "layered":
		c, err := cache.NewRedisCache(redisOpts...)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(c, cache.WithLayeredMemory(100, time.Minute)), nil
	default:
		return nil, nil
	}
}

// ProvideSeasonClient creates the analysis API client.
func ProvideSeasonClient(cfg *config.Config, l *applogger.Logger, m repository.Metrics) *analytics.SeasonClient {
	return analytics.NewSeasonClient(cfg.Analysis.BaseURL, cfg.Analysis.Timeout,
		analytics.WithLogger(l.Component("analysis-client")),
		analytics.WithMetrics(m),
	)
}

// ProvideSeasonFetcher puts the cache in front of the client.
func ProvideSeasonFetcher(client *analytics.SeasonClient, c cache.Service, cfg *config.Config, l *applogger.Logger, m repository.Metrics) domsvc.SeasonFetcher {
	return analytics.NewCachedFetcher(client, c, cfg.Cache.TTL, l, m)
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// season_records schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideSnapshotSink returns the sink selected by sink.type.
func ProvideSnapshotSink(cfg *config.Config, l *applogger.Logger) (repository.SnapshotSink, error) {
	switch cfg.Sink.Type {
	case "kafka":
		producer, err := ProvideKafkaProducer(cfg)
		if err != nil {
			return nil, err
		}
		return internalrepo.NewKafkaSnapshotSink(producer, cfg.Kafka.Topic), nil
	case "clickhouse":
		client, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, err
		}
		sink := internalrepo.NewCHSnapshotSink(client, cfg.ClickHouse.Database, client.Close)
		sink.SetLogger(l.Component("clickhouse-sink"))
		return sink, nil
	default:
		return repository.NopSink{}, nil
	}
}

// ProvideAssetSet validates the configured asset list.
func ProvideAssetSet(cfg *config.Config) (*models.AssetSet, error) {
	return models.NewAssetSet(cfg.Analysis.Assets)
}

// ProvideDashboard creates the dashboard use case.
func ProvideDashboard(
	cfg *config.Config,
	fetcher domsvc.SeasonFetcher,
	assets *models.AssetSet,
	sink repository.SnapshotSink,
	m repository.Metrics,
	l *applogger.Logger,
) (*usecase.Dashboard, error) {
	return usecase.NewDashboard(fetcher,
		usecase.WithAssets(assets),
		usecase.WithDefaultAsset(models.Asset(cfg.Analysis.DefaultAsset)),
		usecase.WithSink(sink),
		usecase.WithDashboardMetrics(m),
		usecase.WithDashboardLogger(l),
	)
}

// ProvideRateLimiter creates the per-client limiter for selection changes.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideDashboardHandler creates the Echo handler.
func ProvideDashboardHandler(l *applogger.Logger, dash *usecase.Dashboard, fetcher domsvc.SeasonFetcher, limiter *ratelimit.Limiter) *api.DashboardEchoHandler {
	return api.NewDashboardEchoHandler(l, dash, fetcher, limiter)
}

// ProvideHTTPServer creates the Echo server with routes registered.
func ProvideHTTPServer(cfg *config.Config, h *api.DashboardEchoHandler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l.Component("http")),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	l *applogger.Logger,
	dash *usecase.Dashboard,
	srv *xhttp.Server,
	sink repository.SnapshotSink,
	c cache.Service,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(l, dash, srv,
		server.WithCloser("snapshot sink", sink),
		server.WithCloser("cache", c),
		server.WithLimiter(limiter),
	)
}
