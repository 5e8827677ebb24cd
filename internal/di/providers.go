package di

import (
	"context"
	"fmt"
	"time"

	"github.com/fslick/fundamentals-yf/internal/domain/repository"
	"github.com/fslick/fundamentals-yf/internal/handler/api"
	internalrepo "github.com/fslick/fundamentals-yf/internal/repository"
	"github.com/fslick/fundamentals-yf/internal/service/yahoo"
	"github.com/fslick/fundamentals-yf/internal/usecase"
	"github.com/fslick/fundamentals-yf/pkg/cache"
	pkgch "github.com/fslick/fundamentals-yf/pkg/clickhouse"
	"github.com/fslick/fundamentals-yf/pkg/config"
	xhttp "github.com/fslick/fundamentals-yf/pkg/http"
	pkgkafka "github.com/fslick/fundamentals-yf/pkg/kafka"
	"github.com/fslick/fundamentals-yf/pkg/logger"
	"github.com/fslick/fundamentals-yf/pkg/metrics"
	"github.com/fslick/fundamentals-yf/pkg/server"
)

// ProvideLogger creates the root structured logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus recorder on the default registry, the
// one served at the metrics path.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideHTTPClient creates the paced, retrying transport for the provider.
func ProvideHTTPClient(cfg *config.Config, log *logger.Logger) *xhttp.Client {
	p := cfg.Provider
	return xhttp.NewClient(
		xhttp.WithTimeout(p.Timeout),
		xhttp.WithUserAgent(p.UserAgent),
		xhttp.WithRateLimit(p.RateLimit, p.Burst),
		xhttp.WithRetry(p.RetryAttempts+1, p.BackoffMin, p.BackoffMax),
		xhttp.WithOnRetry(func(attempt int, wait time.Duration, err error) {
			log.Warn("provider request retry",
				logger.Int("attempt", attempt),
				logger.Duration("wait_ms", wait),
				logger.Error(err),
			)
		}),
	)
}

// ProvideYahooClient creates the market data provider client.
func ProvideYahooClient(cfg *config.Config, hc *xhttp.Client, log *logger.Logger, m repository.Metrics) *yahoo.Client {
	p := cfg.Provider
	return yahoo.NewClient(hc,
		yahoo.WithBaseURL(p.BaseURL),
		yahoo.WithHistoryYears(p.HistoryYears),
		yahoo.WithSession(p.Cookie, p.Crumb),
		yahoo.WithVerbose(p.Verbose),
		yahoo.WithLogger(log),
		yahoo.WithMetrics(m),
	)
}

// ProvideCache creates the price cache: in-memory, layered over Redis when enabled.
func ProvideCache(cfg *config.Config, log *logger.Logger) (cache.Service, func(), error) {
	c := cfg.Cache
	if !c.Redis.Enabled {
		mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(c.MemorySize), cache.WithMemoryDefaultTTL(c.TTL))
		return mem, func() { _ = mem.Close() }, nil
	}

	redis, err := cache.NewRedisCache(
		cache.WithRedisAddr(c.Redis.Addr),
		cache.WithRedisPassword(c.Redis.Password),
		cache.WithRedisDB(c.Redis.DB),
		cache.WithRedisPrefix(c.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	layered := cache.NewLayeredCache(redis,
		cache.WithLayeredMemorySize(c.MemorySize),
		cache.WithLayeredMemoryTTL(c.TTL),
	)
	log.Info("price cache layered over redis", logger.String("addr", c.Redis.Addr))
	return layered, func() { _ = layered.Close() }, nil
}

// ProvideDataProvider puts the price cache in front of the provider client.
func ProvideDataProvider(yc *yahoo.Client, c cache.Service, cfg *config.Config, log *logger.Logger) repository.DataProvider {
	return internalrepo.NewCachedProvider(yc, c, cfg.Cache.TTL, log)
}

func ProvideReportBuilder(p repository.DataProvider, cfg *config.Config, log *logger.Logger, m repository.Metrics) *usecase.ReportBuilder {
	return usecase.NewReportBuilder(p,
		usecase.WithTargetCurrency(cfg.Batch.TargetCurrency),
		usecase.WithBuilderLogger(log),
		usecase.WithBuilderMetrics(m),
	)
}

func ProvideBatchRunner(b *usecase.ReportBuilder, cfg *config.Config, log *logger.Logger, m repository.Metrics) *usecase.BatchRunner {
	return usecase.NewBatchRunner(b, cfg.Batch.Concurrency, log, m)
}

func ProvideReportWriter(cfg *config.Config, log *logger.Logger) repository.ReportWriter {
	return internalrepo.NewCSVReportWriter(cfg.Output.WideCSV, cfg.Output.LongCSV, log)
}

// ProvideClickHouseClient connects when ClickHouse is enabled and returns nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	ch := cfg.ClickHouse
	if !ch.Enabled {
		return nil, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideReportStore creates the report table when ClickHouse is enabled.
func ProvideReportStore(ch *pkgch.Client, log *logger.Logger) (repository.ReportStore, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewCHReportStore(ch, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates the producer when Kafka is enabled. With a log
// topic configured it also carries the aggregated error log stream.
func ProvideKafkaProducer(cfg *config.Config, log *logger.Logger) (*pkgkafka.Producer, func(), error) {
	k := cfg.Kafka
	if !k.Enabled {
		return nil, func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithBatchSize(k.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(k.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(k.Producer.WriteTimeout, k.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(k.Producer.MaxAttempts),
		pkgkafka.WithAsync(k.Producer.Async),
		pkgkafka.WithAutoCreateTopics(true),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}

	if k.LogTopic != "" {
		log.AddCollector(&logger.CollectionConfig{Topic: k.LogTopic, Publisher: producer})
	}
	cleanup := func() {
		log.RemoveCollector()
		_ = producer.Close()
	}
	return producer, cleanup, nil
}

func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ReportPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.ReportTopic)
}

// ProvideKafkaConsumer creates the report request consumer when enabled.
func ProvideKafkaConsumer(cfg *config.Config, log *logger.Logger) (*pkgkafka.Consumer, error) {
	k := cfg.Kafka
	if !k.Enabled || !k.Consumer.Enabled {
		return nil, nil
	}
	c := k.Consumer
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(k.Brokers),
		pkgkafka.WithConsumerGroupID(c.GroupID),
		pkgkafka.WithConsumerAutoOffsetReset(c.AutoOffsetReset),
		pkgkafka.WithConsumerWorkers(c.Workers),
		pkgkafka.WithConsumerBufferSize(c.BufferSize),
		pkgkafka.WithConsumerRetry(c.RetryMax, c.BackoffMin, c.BackoffMax),
		pkgkafka.WithConsumerDLQ(c.DLQTopic),
		pkgkafka.WithConsumerLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideReportRequestHandler serves request messages when a publisher exists.
func ProvideReportRequestHandler(cfg *config.Config, b *usecase.ReportBuilder, pub repository.ReportPublisher, log *logger.Logger) pkgkafka.MessageHandler {
	if pub == nil {
		return nil
	}
	return usecase.NewReportRequestHandler(cfg.Kafka.RequestTopic, b, pub, log)
}

func ProvideReportsHandler(log *logger.Logger, b *usecase.ReportBuilder, r *usecase.BatchRunner) *api.ReportsEchoHandler {
	return api.NewReportsEchoHandler(log, b, r)
}

func ProvideHTTPServer(cfg *config.Config, log *logger.Logger, h *api.ReportsEchoHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(log, []xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithRequestTimeout(cfg.Server.RequestTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
}

func ProvideSinks(w repository.ReportWriter, s repository.ReportStore, p repository.ReportPublisher) server.Sinks {
	return server.Sinks{Writer: w, Store: s, Publisher: p}
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	runner *usecase.BatchRunner,
	sinks server.Sinks,
	consumer *pkgkafka.Consumer,
	requests pkgkafka.MessageHandler,
	httpServer *xhttp.Server,
) *server.App {
	return server.New(cfg, log, runner, sinks, consumer, requests, httpServer)
}
