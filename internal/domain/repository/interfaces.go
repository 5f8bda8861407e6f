package repository

import (
	"context"
	"errors"
	"time"

	"StockCast/internal/domain/models"
)

// Expected data-quality outcomes. Public operations convert these to empty
// results at their boundary; only genuine provider faults propagate.
var (
	ErrNoData              = errors.New("no data for requested range")
	ErrInsufficientHistory = errors.New("insufficient history for computation")
)

// BarSource supplies daily OHLCV bars for a ticker over [start, end].
// An empty slice with a nil error is a valid response.
type BarSource interface {
	FetchBars(ctx context.Context, ticker string, start, end time.Time) ([]models.Bar, error)
}

// BarStore persists daily bars and serves filtered scans.
type BarStore interface {
	StoreBars(ctx context.Context, bars []models.Bar) error
	GetBars(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error)
	Health(ctx context.Context) error
	Close() error
}

// QuoteStream is a live market-data feed.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher emits recommendation events to downstream consumers.
type Publisher interface {
	PublishRecommendation(ctx context.Context, rec *models.Recommendation) error
	Close() error
}

type Metrics interface {
	RecordPrediction(ticker string, horizon int)
	RecordRecommendation(ticker, action string)
	RecordTraining(ticker string, seconds float64)
	RecordModelCache(hit bool)
	RecordError(kind string)
	RecordLastPrice(ticker string, price float64)
	RecordLatency(op string, seconds float64)
}
