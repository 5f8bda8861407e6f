package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/features"
	"StockCast/internal/services/forecast"
	svcmodel "StockCast/internal/services/model"
	applogger "StockCast/pkg/logger"
)

// DefaultLookbackDays is the training window when the request leaves it unset.
const DefaultLookbackDays = 90

// RNGFactory yields the perturbation source for one forecast. Production wires
// a fresh time-seeded generator per request; tests pin the seed.
type RNGFactory func() *rand.Rand

// PredictorUseCase orchestrates the predict path: fetch bars, engineer
// features, train or reuse a cached model, and synthesize the forecast.
type PredictorUseCase struct {
	source     domrepo.BarSource
	cache      *svcmodel.Cache
	trainer    *svcmodel.Trainer
	forecaster *forecast.Forecaster
	metrics    domrepo.Metrics
	l          *applogger.Logger

	newRNG  RNGFactory
	now     svcmodel.Clock
	timeout time.Duration
}

// NewPredictorUseCase builds the predict orchestrator. now and newRNG may be
// nil, defaulting to the wall clock and time-seeded generators.
func NewPredictorUseCase(
	source domrepo.BarSource,
	cache *svcmodel.Cache,
	trainer *svcmodel.Trainer,
	forecaster *forecast.Forecaster,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	now svcmodel.Clock,
	newRNG RNGFactory,
) *PredictorUseCase {
	if now == nil {
		now = time.Now
	}
	if newRNG == nil {
		newRNG = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &PredictorUseCase{
		source:     source,
		cache:      cache,
		trainer:    trainer,
		forecaster: forecaster,
		metrics:    metrics,
		l:          l,
		newRNG:     newRNG,
		now:        now,
		timeout:    30 * time.Second,
	}
}

// Predict forecasts `days` future closes for the ticker. A ticker with no
// bars, or too few to train on, yields a result with an empty Predictions
// slice and a nil error; only provider faults surface as errors.
func (uc *PredictorUseCase) Predict(ctx context.Context, ticker string, days, lookback int) (*models.PredictionResult, error) {
	start := time.Now()
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	asOf := uc.now().UTC().Truncate(24 * time.Hour)
	res := &models.PredictionResult{
		Ticker:       ticker,
		LookbackDays: lookback,
		GeneratedAt:  uc.now().UTC(),
		Predictions:  []models.PredictionPoint{},
	}

	bars, err := uc.source.FetchBars(ctx, ticker, asOf.AddDate(0, 0, -lookback), asOf)
	if err != nil {
		uc.metrics.RecordError("provider")
		return nil, err
	}

	tbl, err := features.Build(ticker, bars)
	if err != nil {
		if errors.Is(err, domrepo.ErrNoData) || errors.Is(err, domrepo.ErrInsufficientHistory) {
			uc.l.Warn("predict: unusable history",
				applogger.String("ticker", ticker),
				applogger.Int("bars", len(bars)),
				applogger.Error(err),
			)
			return res, nil
		}
		return nil, err
	}
	res.CurrentPrice = tbl.Last().Close

	key := svcmodel.Key(ticker, lookback, asOf)
	m, hit := uc.cache.Get(key)
	uc.metrics.RecordModelCache(hit)
	if !hit {
		trainStart := time.Now()
		m, err = uc.trainer.Train(tbl)
		if err != nil {
			if errors.Is(err, domrepo.ErrInsufficientHistory) {
				return res, nil
			}
			return nil, err
		}
		uc.cache.Put(key, m)
		uc.metrics.RecordTraining(ticker, time.Since(trainStart).Seconds())
	}
	res.ModelCached = hit

	res.Predictions = uc.forecaster.Forecast(m, tbl, asOf, days, uc.newRNG())
	if res.Predictions == nil {
		res.Predictions = []models.PredictionPoint{}
	}

	uc.metrics.RecordPrediction(ticker, days)
	uc.metrics.RecordLatency("predict", time.Since(start).Seconds())
	uc.l.Info("predict ok",
		applogger.String("ticker", ticker),
		applogger.Int("days", days),
		applogger.Int("lookback", lookback),
		applogger.Bool("model_cached", hit),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return res, nil
}
