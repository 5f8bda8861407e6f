package usecase

import (
	"context"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	applogger "StockCast/pkg/logger"
)

// QuoteRecorder folds live quotes into in-progress daily bars and flushes
// them to the bar store on an interval. The store's MergeTree keeps the last
// write per (ticker, date), so repeated flushes of a still-open day are fine.
type QuoteRecorder struct {
	store   domrepo.BarStore
	metrics domrepo.Metrics
	l       *applogger.Logger

	interval time.Duration

	mu   sync.Mutex
	open map[string]*models.Bar // keyed by ticker + date

	stop chan struct{}
	done chan struct{}
}

func NewQuoteRecorder(store domrepo.BarStore, metrics domrepo.Metrics, l *applogger.Logger, flushInterval time.Duration) *QuoteRecorder {
	if flushInterval <= 0 {
		flushInterval = 30 * time.Second
	}
	return &QuoteRecorder{
		store:    store,
		metrics:  metrics,
		l:        l,
		interval: flushInterval,
		open:     make(map[string]*models.Bar),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Record folds one quote into its ticker's open bar for the quote's UTC day.
func (r *QuoteRecorder) Record(q *models.Quote) {
	if q == nil || q.Price <= 0 {
		return
	}
	day := time.Unix(q.Timestamp, 0).UTC().Truncate(24 * time.Hour)
	key := q.Ticker + "_" + day.Format("2006-01-02")

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.open[key]
	if !ok {
		r.open[key] = &models.Bar{
			Ticker: q.Ticker,
			Date:   day,
			Open:   q.Price,
			High:   q.Price,
			Low:    q.Price,
			Close:  q.Price,
			Volume: int64(q.Volume),
		}
		return
	}
	if q.Price > b.High {
		b.High = q.Price
	}
	if q.Price < b.Low {
		b.Low = q.Price
	}
	b.Close = q.Price
	b.Volume += int64(q.Volume)
}

// Start launches the periodic flush loop.
func (r *QuoteRecorder) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				r.flush(context.Background())
				return
			case <-r.stop:
				r.flush(context.Background())
				return
			case <-ticker.C:
				r.flush(ctx)
			}
		}
	}()
}

// Stop flushes outstanding bars and ends the loop.
func (r *QuoteRecorder) Stop() {
	close(r.stop)
	<-r.done
}

func (r *QuoteRecorder) flush(ctx context.Context) {
	r.mu.Lock()
	if len(r.open) == 0 {
		r.mu.Unlock()
		return
	}
	bars := make([]models.Bar, 0, len(r.open))
	for _, b := range r.open {
		bars = append(bars, *b)
	}
	// open bars stay in the map so later quotes keep extending today's bar
	r.mu.Unlock()

	fctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := r.store.StoreBars(fctx, bars); err != nil {
		r.metrics.RecordError("bar_flush")
		r.l.Error("quote recorder flush failed",
			applogger.Int("bars", len(bars)),
			applogger.Error(err),
		)
		return
	}

	// drop fully closed days after a successful flush
	today := time.Now().UTC().Truncate(24 * time.Hour)
	r.mu.Lock()
	for k, b := range r.open {
		if b.Date.Before(today) {
			delete(r.open, k)
		}
	}
	r.mu.Unlock()

	r.l.Debug("quote recorder flushed", applogger.Int("bars", len(bars)))
}
