package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/indicators"
	svcmodel "StockCast/internal/services/model"
	pkgcache "StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
)

// recommendFetchDays is the calendar window fetched for a recommendation.
// The slow moving average needs 50 trading days, which is roughly 70 calendar
// days; 120 leaves headroom for holidays and thin listings.
const recommendFetchDays = 120

// recommendCacheTTL keeps repeated calls for the same ticker from re-fetching
// the provider. Short on purpose: a recommendation tracks the latest bar.
const recommendCacheTTL = 60 * time.Second

// AdvisorUseCase serves indicator-based recommendations and fans the result
// out to the event bus.
type AdvisorUseCase struct {
	source    domrepo.BarSource
	publisher domrepo.Publisher
	cache     pkgcache.Service
	metrics   domrepo.Metrics
	l         *applogger.Logger

	now     svcmodel.Clock
	timeout time.Duration
}

func NewAdvisorUseCase(
	source domrepo.BarSource,
	publisher domrepo.Publisher,
	cache pkgcache.Service,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	now svcmodel.Clock,
) *AdvisorUseCase {
	if now == nil {
		now = time.Now
	}
	return &AdvisorUseCase{
		source:    source,
		publisher: publisher,
		cache:     cache,
		metrics:   metrics,
		l:         l,
		now:       now,
		timeout:   15 * time.Second,
	}
}

// Recommend computes a BUY/SELL/HOLD call for the ticker. A ticker with no
// bars, or fewer than the slow moving average needs, yields (nil, nil); the
// handler maps that to a not-found response. Provider faults propagate.
func (uc *AdvisorUseCase) Recommend(ctx context.Context, ticker string) (*models.Recommendation, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if rec, ok := uc.cachedRecommendation(ctx, ticker); ok {
		uc.metrics.RecordLatency("recommend", time.Since(start).Seconds())
		return rec, nil
	}

	asOf := uc.now().UTC().Truncate(24 * time.Hour)
	bars, err := uc.source.FetchBars(ctx, ticker, asOf.AddDate(0, 0, -recommendFetchDays), asOf)
	if err != nil {
		uc.metrics.RecordError("provider")
		return nil, err
	}

	rec, err := indicators.Recommend(ticker, bars, asOf)
	if err != nil {
		if errors.Is(err, domrepo.ErrNoData) || errors.Is(err, domrepo.ErrInsufficientHistory) {
			uc.l.Warn("recommend: unusable history",
				applogger.String("ticker", ticker),
				applogger.Int("bars", len(bars)),
				applogger.Error(err),
			)
			return nil, nil
		}
		return nil, err
	}

	uc.storeRecommendation(ctx, ticker, rec)

	// Best-effort fan-out; a bus outage never fails the request.
	if uc.publisher != nil {
		if perr := uc.publisher.PublishRecommendation(ctx, rec); perr != nil {
			uc.l.Error("recommend: publish failed",
				applogger.String("ticker", ticker),
				applogger.Error(perr),
			)
		}
	}

	uc.metrics.RecordRecommendation(ticker, rec.Action)
	uc.metrics.RecordLatency("recommend", time.Since(start).Seconds())
	uc.l.Info("recommend ok",
		applogger.String("ticker", ticker),
		applogger.String("action", rec.Action),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return rec, nil
}

func (uc *AdvisorUseCase) cachedRecommendation(ctx context.Context, ticker string) (*models.Recommendation, bool) {
	if uc.cache == nil {
		return nil, false
	}
	key := pkgcache.GenerateKey("recommendation", ticker)
	var raw string
	if err := uc.cache.Get(ctx, key, &raw); err != nil || raw == "" {
		return nil, false
	}
	var rec models.Recommendation
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

func (uc *AdvisorUseCase) storeRecommendation(ctx context.Context, ticker string, rec *models.Recommendation) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	key := pkgcache.GenerateKey("recommendation", ticker)
	_ = uc.cache.Set(ctx, key, string(raw), recommendCacheTTL)
}
