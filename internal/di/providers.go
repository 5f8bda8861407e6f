package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"StockCast/internal/domain/repository"
	"StockCast/internal/handler/api"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/service/finnhub"
	"StockCast/internal/services/forecast"
	svcmodel "StockCast/internal/services/model"
	"StockCast/internal/services/yahoo"
	"StockCast/internal/usecase"
	pkgcache "StockCast/pkg/cache"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideResponseCache builds the provider-response cache: layered
// memory+Redis when Redis is configured, in-process memory otherwise.
func ProvideResponseCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(4096)), nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redisCache), nil
}

// ProvideClickHouseClient creates a ClickHouse client and initializes the
// bars schema. Returns nil when ClickHouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := cfg.ClickHouse.Database + "." + cfg.ClickHouse.BarsTable
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		"CREATE TABLE IF NOT EXISTS " + table + " (" +
			"ticker String, date Date, open Float64, high Float64, low Float64, close Float64, volume Int64" +
			") ENGINE=ReplacingMergeTree ORDER BY (ticker, date)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer. Returns nil when no brokers
// are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideBarStore creates the daily-bar store: ClickHouse when enabled, an
// in-process map otherwise.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.BarStore {
	if chClient == nil {
		return internalrepo.NewMemoryBarStore()
	}
	store := internalrepo.NewCHBarStore(chClient, cfg.ClickHouse.Database+"."+cfg.ClickHouse.BarsTable)
	store.SetLogger(l)
	return store
}

// ProvidePublisher creates the recommendation event publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return internalrepo.NoopPublisher{}
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideYahooClient creates the Yahoo Finance provider client.
func ProvideYahooClient(cfg *config.Config, cache pkgcache.Service, l *applogger.Logger) *yahoo.Client {
	return yahoo.New(
		yahoo.WithCache(cache, cfg.Provider.CacheTTL),
		yahoo.WithTimeout(cfg.Provider.Timeout),
		yahoo.WithRateLimit(cfg.Provider.RequestsPerSecond),
		yahoo.WithLogger(l),
	)
}

// ProvideBarSource exposes the provider client as the bar source.
func ProvideBarSource(client *yahoo.Client) repository.BarSource { return client }

// ProvideDirectory exposes the provider client as the discovery directory.
func ProvideDirectory(client *yahoo.Client) usecase.Directory { return client }

// ProvideModelCache creates the trained-model cache.
func ProvideModelCache(cfg *config.Config) *svcmodel.Cache {
	return svcmodel.NewCache(cfg.Prediction.ModelCacheTTL, cfg.Prediction.ModelCacheCapacity, nil)
}

// ProvideTrainer creates the model trainer.
func ProvideTrainer(cfg *config.Config) *svcmodel.Trainer {
	fc := svcmodel.DefaultForestConfig()
	fc.Trees = cfg.Prediction.ForestTrees
	fc.MaxDepth = cfg.Prediction.ForestMaxDepth
	return svcmodel.NewTrainer(fc, cfg.Prediction.TrainSeed)
}

// ProvideForecaster creates the forecaster.
func ProvideForecaster() *forecast.Forecaster { return forecast.New() }

// ProvidePredictor creates the predict use case.
func ProvidePredictor(
	source repository.BarSource,
	cache *svcmodel.Cache,
	trainer *svcmodel.Trainer,
	forecaster *forecast.Forecaster,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.PredictorUseCase {
	return usecase.NewPredictorUseCase(source, cache, trainer, forecaster, m, l, nil, nil)
}

// ProvideAdvisor creates the recommendation use case.
func ProvideAdvisor(
	source repository.BarSource,
	publisher repository.Publisher,
	cache pkgcache.Service,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.AdvisorUseCase {
	return usecase.NewAdvisorUseCase(source, publisher, cache, m, l, nil)
}

// ProvideHistory creates the bar-history use case.
func ProvideHistory(store repository.BarStore, source repository.BarSource, l *applogger.Logger) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store, source, l)
}

// ProvideDiscovery creates the discovery use case.
func ProvideDiscovery(dir usecase.Directory, l *applogger.Logger) *usecase.DiscoveryUseCase {
	return usecase.NewDiscoveryUseCase(dir, l)
}

// ProvideQuoteCollector creates the live-quote collector. Returns nil when
// the stream is disabled in config.
func ProvideQuoteCollector(
	cfg *config.Config,
	store repository.BarStore,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.QuoteCollector {
	if !cfg.Finnhub.Enabled {
		return nil
	}
	stream := finnhub.New(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.Symbols,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
	)
	recorder := usecase.NewQuoteRecorder(store, m, l, cfg.Finnhub.FlushInterval)
	return usecase.NewQuoteCollector(stream, recorder, m, l)
}

// ProvideHandlers assembles HTTP handlers.
func ProvideHandlers(
	l *applogger.Logger,
	predictor *usecase.PredictorUseCase,
	advisor *usecase.AdvisorUseCase,
	history *usecase.HistoryUseCase,
	discovery *usecase.DiscoveryUseCase,
) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewStocksEchoHandler(l, predictor, advisor, history),
		api.NewDiscoveryEchoHandler(l, discovery),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handlers []xhttp.Handler,
	collector *usecase.QuoteCollector,
	chClient *pkgch.Client,
	publisher repository.Publisher,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, handlers, collector, chClient, publisher, producer)
}
