package usecase

import (
	"context"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/repository"
)

func TestQuoteRecorderFoldsDailyBar(t *testing.T) {
	store := repository.NewMemoryBarStore()
	r := NewQuoteRecorder(store, newFakeMetrics(), testLogger(t), time.Minute)

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	at := func(h int) int64 { return day.Add(time.Duration(h) * time.Hour).Unix() }

	r.Record(&models.Quote{Ticker: "TEST", Timestamp: at(10), Price: 100, Volume: 10})
	r.Record(&models.Quote{Ticker: "TEST", Timestamp: at(11), Price: 105, Volume: 5})
	r.Record(&models.Quote{Ticker: "TEST", Timestamp: at(12), Price: 95, Volume: 5})
	r.Record(&models.Quote{Ticker: "TEST", Timestamp: at(13), Price: 101, Volume: 10})
	r.flush(context.Background())

	bars, err := store.GetBars(context.Background(), "TEST", day, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected one daily bar, got %d", len(bars))
	}
	b := bars[0]
	if b.Open != 100 || b.High != 105 || b.Low != 95 || b.Close != 101 {
		t.Fatalf("ohlc wrong: %+v", b)
	}
	if b.Volume != 30 {
		t.Fatalf("volume wrong: %d", b.Volume)
	}
}

func TestQuoteRecorderIgnoresBadQuotes(t *testing.T) {
	store := repository.NewMemoryBarStore()
	r := NewQuoteRecorder(store, newFakeMetrics(), testLogger(t), time.Minute)

	r.Record(nil)
	r.Record(&models.Quote{Ticker: "TEST", Timestamp: time.Now().Unix(), Price: 0})
	r.flush(context.Background())

	bars, err := store.GetBars(context.Background(), "TEST",
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(bars))
	}
}

func TestQuoteRecorderKeepsOpenDayAcrossFlushes(t *testing.T) {
	store := repository.NewMemoryBarStore()
	r := NewQuoteRecorder(store, newFakeMetrics(), testLogger(t), time.Minute)

	now := time.Now().UTC()
	day := now.Truncate(24 * time.Hour)

	r.Record(&models.Quote{Ticker: "TEST", Timestamp: now.Unix(), Price: 100, Volume: 1})
	r.flush(context.Background())
	r.Record(&models.Quote{Ticker: "TEST", Timestamp: now.Unix(), Price: 110, Volume: 1})
	r.flush(context.Background())

	bars, err := store.GetBars(context.Background(), "TEST", day, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected one bar for the open day, got %d", len(bars))
	}
	if bars[0].High != 110 || bars[0].Volume != 2 {
		t.Fatalf("open-day bar not extended: %+v", bars[0])
	}
}
