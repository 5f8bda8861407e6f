package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/usecase"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	l         *applogger.Logger
	handlers  []xhttp.Handler
	collector *usecase.QuoteCollector
	chClient  *pkgch.Client
	publisher domrepo.Publisher
	producer  *pkgkafka.Producer

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. collector, chClient,
// and producer may be nil when their subsystems are disabled in config.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handlers []xhttp.Handler,
	collector *usecase.QuoteCollector,
	chClient *pkgch.Client,
	publisher domrepo.Publisher,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		handlers:  handlers,
		collector: collector,
		chClient:  chClient,
		publisher: publisher,
		producer:  producer,
	}
}

// compositeHandler fans route registration out over every handler.
type compositeHandler struct {
	handlers []xhttp.Handler
}

func (h compositeHandler) RegisterRoutes(e *echo.Echo) {
	for _, hh := range h.handlers {
		hh.RegisterRoutes(e)
	}
}

// kafkaLogSink adapts the Kafka producer to the log collector's publisher.
type kafkaLogSink struct {
	producer *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Aggregate error logs onto the bus when one is configured.
	if a.producer != nil {
		a.l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "service-logs",
			Publisher:      kafkaLogSink{producer: a.producer},
		})
	}

	a.httpServer = xhttp.NewServer(compositeHandler{handlers: a.handlers},
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.l, time.Second),
	)
	a.registerHealth()

	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.l.Error("quote collector error", applogger.Error(err))
			}
		}()
		a.l.Info("quote collector started", applogger.Strings("symbols", a.cfg.Finnhub.Symbols))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) registerHealth() {
	a.httpServer.Echo().GET("/health", func(c echo.Context) error {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK

		if a.chClient != nil {
			if err := a.chClient.Health(c.Request().Context()); err != nil {
				status["clickhouse"] = err.Error()
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		if a.collector != nil && !a.collector.IsConnected() {
			status["stream"] = "disconnected"
			status["status"] = "degraded"
		}
		return c.JSON(code, status)
	})
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.l.Warn("quote collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	// flush aggregated logs before their transport goes away
	a.l.RemoveCollector()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
