package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockCast/internal/repository"
)

func TestHistoryServesStoredBars(t *testing.T) {
	store := repository.NewMemoryBarStore()
	bars := zigzagBars(10)
	if err := store.StoreBars(context.Background(), bars); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	source := &fakeBarSource{err: errors.New("provider must not be hit")}
	uc := NewHistoryUseCase(store, source, testLogger(t))

	got, err := uc.GetBars(context.Background(), "TEST", bars[0].Date, bars[len(bars)-1].Date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(bars) {
		t.Fatalf("expected %d bars, got %d", len(bars), len(got))
	}
	if source.calls != 0 {
		t.Fatalf("covered range must not reach the provider")
	}
}

func TestHistoryBackfillsAndPersists(t *testing.T) {
	store := repository.NewMemoryBarStore()
	bars := zigzagBars(10)
	source := &fakeBarSource{bars: bars}
	uc := NewHistoryUseCase(store, source, testLogger(t))

	from, to := bars[0].Date, bars[len(bars)-1].Date
	got, err := uc.GetBars(context.Background(), "TEST", from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(bars) {
		t.Fatalf("expected %d bars, got %d", len(bars), len(got))
	}

	// second read comes from the store
	if _, err := uc.GetBars(context.Background(), "TEST", from, to); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected a single provider fetch, got %d", source.calls)
	}
}

func TestHistoryEmptyRangeIsEmptyNotError(t *testing.T) {
	uc := NewHistoryUseCase(repository.NewMemoryBarStore(), &fakeBarSource{}, testLogger(t))

	got, err := uc.GetBars(context.Background(), "TEST",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no bars, got %d", len(got))
	}
}
