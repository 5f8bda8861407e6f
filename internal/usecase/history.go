package usecase

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	applogger "StockCast/pkg/logger"
)

// HistoryUseCase serves persisted daily bars, backfilling from the provider
// when the store has no coverage for the requested range.
type HistoryUseCase struct {
	store   domrepo.BarStore
	source  domrepo.BarSource
	l       *applogger.Logger
	timeout time.Duration
}

func NewHistoryUseCase(store domrepo.BarStore, source domrepo.BarSource, l *applogger.Logger) *HistoryUseCase {
	return &HistoryUseCase{store: store, source: source, l: l, timeout: 20 * time.Second}
}

// GetBars returns daily bars for [from, to], oldest first. An uncovered range
// is backfilled from the provider and persisted for the next reader; a store
// write failure degrades to serving the fetched bars.
func (uc *HistoryUseCase) GetBars(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	bars, err := uc.store.GetBars(ctx, ticker, from, to)
	if err != nil {
		uc.l.Error("history: store read failed, falling back to provider",
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
	}
	if len(bars) > 0 {
		return bars, nil
	}

	fetched, err := uc.source.FetchBars(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}
	if len(fetched) == 0 {
		return []models.Bar{}, nil
	}

	if serr := uc.store.StoreBars(ctx, fetched); serr != nil {
		uc.l.Error("history: backfill persist failed",
			applogger.String("ticker", ticker),
			applogger.Int("bars", len(fetched)),
			applogger.Error(serr),
		)
	}
	return fetched, nil
}
