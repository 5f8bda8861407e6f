package usecase

import (
	"context"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	applogger "StockCast/pkg/logger"
)

// QuoteCollector drives the live quote stream into the recorder, reconnecting
// on read errors until its context ends.
type QuoteCollector struct {
	stream   domrepo.QuoteStream
	recorder *QuoteRecorder
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewQuoteCollector(stream domrepo.QuoteStream, recorder *QuoteRecorder, metrics domrepo.Metrics, l *applogger.Logger) *QuoteCollector {
	return &QuoteCollector{stream: stream, recorder: recorder, metrics: metrics, l: l}
}

// IsConnected reports the stream connection state.
func (c *QuoteCollector) IsConnected() bool { return c.stream.IsConnected() }

// Start connects, subscribes, and launches the consume loop.
func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	c.recorder.Start(ctx)
	quotes, errs := c.stream.Read(ctx)
	go c.consume(ctx, quotes, errs)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, quotes <-chan *models.Quote, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil {
				c.metrics.RecordError("stream")
				c.l.Error("quote stream error, reconnecting", applogger.Error(err))
				if rerr := c.stream.Reconnect(ctx); rerr != nil {
					c.l.Error("quote stream reconnect failed", applogger.Error(rerr))
					return
				}
				quotes, errs = c.stream.Read(ctx)
			}
		case q := <-quotes:
			if q == nil {
				continue
			}
			c.recorder.Record(q)
			c.metrics.RecordLastPrice(q.Ticker, q.Price)
		}
	}
}

// Shutdown stops the recorder and closes the stream.
func (c *QuoteCollector) Shutdown(ctx context.Context) error {
	c.recorder.Stop()
	return c.stream.Close()
}
