package di

import (
	"fmt"

	domrepo "github.com/vishal13230/BellCurve-Securities/internal/domain/repository"
	domsvc "github.com/vishal13230/BellCurve-Securities/internal/domain/service"
	"github.com/vishal13230/BellCurve-Securities/internal/handler/api"
	internalrepo "github.com/vishal13230/BellCurve-Securities/internal/repository"
	"github.com/vishal13230/BellCurve-Securities/internal/service/cache"
	"github.com/vishal13230/BellCurve-Securities/internal/services/commentary"
	"github.com/vishal13230/BellCurve-Securities/internal/services/quant"
	"github.com/vishal13230/BellCurve-Securities/internal/usecase"
	pkgch "github.com/vishal13230/BellCurve-Securities/pkg/clickhouse"
	"github.com/vishal13230/BellCurve-Securities/pkg/config"
	xhttp "github.com/vishal13230/BellCurve-Securities/pkg/http"
	pkgkafka "github.com/vishal13230/BellCurve-Securities/pkg/kafka"
	"github.com/vishal13230/BellCurve-Securities/pkg/logger"
	"github.com/vishal13230/BellCurve-Securities/pkg/metrics"
	"github.com/vishal13230/BellCurve-Securities/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// provider is inline-only.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Provider.Type != "clickhouse" {
		return nil, nil
	}
	ch := cfg.Provider.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePriceStore creates the price store over ClickHouse, or nil for
// inline-only deployments where every request must carry its prices.
func ProvidePriceStore(cfg *config.Config, client *pkgch.Client) domrepo.PriceStore {
	if client == nil {
		return nil
	}
	table := cfg.Provider.ClickHouse.Database + "." + cfg.Provider.ClickHouse.Table
	return internalrepo.NewClickHousePriceStore(client.DB(), table)
}

// ProvideKafkaProducer creates a Kafka producer when auditing is enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Audit.Brokers),
		pkgkafka.WithCompression("snappy"),
		pkgkafka.WithRequiredAcks(1),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAuditPublisher creates the audit publisher.
func ProvideAuditPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.AuditPublisher {
	if producer == nil {
		return internalrepo.NopAuditPublisher{}
	}
	return internalrepo.NewKafkaAuditPublisher(producer, cfg.Audit.Topic)
}

// ProvideCache picks the result cache backend: Redis when configured, an
// in-process TTL map otherwise, nil when caching is off.
func ProvideCache(cfg *config.Config) cache.BytesCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Redis.Enabled {
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return cache.NewMemoryCache()
}

// ProvideCommentator creates the text-generation client when an API key is
// configured.
func ProvideCommentator(cfg *config.Config) domsvc.Commentator {
	if cfg.Commentary.APIKey == "" {
		return nil
	}
	return commentary.NewClient(cfg)
}

// ProvideOptimizer creates the frontier optimizer with the default penalty
// solver.
func ProvideOptimizer(cfg *config.Config) *quant.Optimizer {
	return quant.NewOptimizer(nil, quant.OptimizerConfig{
		TargetExtension:  cfg.Quant.FrontierExtension,
		SweepParallelism: cfg.Quant.SweepParallelism,
	})
}

// ProvideSimulator creates the bootstrap simulator.
func ProvideSimulator(cfg *config.Config) *quant.Simulator {
	return quant.NewSimulator(cfg.Quant.PathParallelism)
}

// ProvideAnalyzer creates the analysis usecase.
func ProvideAnalyzer(
	cfg *config.Config,
	log *logger.Logger,
	store domrepo.PriceStore,
	commentator domsvc.Commentator,
	bytesCache cache.BytesCache,
	audit domrepo.AuditPublisher,
	m domrepo.Metrics,
	optimizer *quant.Optimizer,
	simulator *quant.Simulator,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(usecase.AnalyzerOptions{
		Store:       store,
		Commentator: commentator,
		Cache:       bytesCache,
		Audit:       audit,
		Metrics:     m,
		Log:         log,
		Optimizer:   optimizer,
		Simulator:   simulator,
		CacheTTL:    cfg.Quant.CacheTTL,
	})
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(log *logger.Logger, analyzer *usecase.Analyzer, store domrepo.PriceStore) xhttp.Handler {
	return api.NewPortfolioEchoHandler(log, analyzer, store)
}

// ProvideApp assembles the application with shutdown closers in release
// order.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	client *pkgch.Client,
	audit domrepo.AuditPublisher,
	bytesCache cache.BytesCache,
) *server.App {
	var closers []server.Closer
	if audit != nil {
		closers = append(closers, server.Closer{Name: "audit", Close: audit.Close})
	}
	if bytesCache != nil {
		closers = append(closers, server.Closer{Name: "cache", Close: bytesCache.Close})
	}
	if client != nil {
		closers = append(closers, server.Closer{Name: "clickhouse", Close: client.Close})
	}
	return server.New(cfg, log, handler, closers...)
}
