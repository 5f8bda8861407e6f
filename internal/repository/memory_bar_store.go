package repository

import (
	"context"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
)

// MemoryBarStore is the BarStore used when ClickHouse is disabled: history
// backfills and recorder flushes survive for the life of the process only.
type MemoryBarStore struct {
	mu sync.RWMutex
	m  map[string]map[int64]models.Bar // ticker -> unix day -> bar
}

func NewMemoryBarStore() *MemoryBarStore {
	return &MemoryBarStore{m: make(map[string]map[int64]models.Bar)}
}

var _ domrepo.BarStore = (*MemoryBarStore)(nil)

func (s *MemoryBarStore) StoreBars(_ context.Context, bars []models.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bars {
		if b.Ticker == "" || b.Date.IsZero() {
			continue
		}
		days, ok := s.m[b.Ticker]
		if !ok {
			days = make(map[int64]models.Bar)
			s.m[b.Ticker] = days
		}
		days[b.Date.Unix()] = b
	}
	return nil
}

func (s *MemoryBarStore) GetBars(_ context.Context, ticker string, from, to time.Time) ([]models.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Bar, 0, 64)
	for _, b := range s.m[ticker] {
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	models.SortBarsByDate(out)
	return out, nil
}

func (s *MemoryBarStore) Health(context.Context) error { return nil }

func (s *MemoryBarStore) Close() error { return nil }
