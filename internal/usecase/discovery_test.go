package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"StockCast/internal/domain/models"
)

type fakeDirectory struct {
	results []models.TickerInfo
	err     error
}

func (d *fakeDirectory) Lookup(_ context.Context, ticker string) (*models.TickerInfo, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &models.TickerInfo{Ticker: ticker, Name: ticker + " Inc.", Price: 100}, nil
}

func (d *fakeDirectory) Search(context.Context, string, int) ([]models.TickerInfo, error) {
	return d.results, d.err
}

func TestSuggestPrefixMatch(t *testing.T) {
	uc := NewDiscoveryUseCase(&fakeDirectory{}, testLogger(t))

	out := uc.Suggest("aa", 10)
	if len(out) == 0 {
		t.Fatalf("expected a suggestion for AA prefix")
	}
	for _, s := range out {
		if !strings.HasPrefix(s.Ticker, "AA") {
			t.Fatalf("non-prefix suggestion %q", s.Ticker)
		}
	}

	if got := uc.Suggest("", 10); len(got) != 0 {
		t.Fatalf("empty query should suggest nothing")
	}
}

func TestSearchFallsBackWhenProviderFails(t *testing.T) {
	uc := NewDiscoveryUseCase(&fakeDirectory{err: errors.New("down")}, testLogger(t))

	out, err := uc.Search(context.Background(), "MS", 5)
	if err != nil {
		t.Fatalf("provider failure should degrade, got %v", err)
	}
	found := false
	for _, r := range out {
		if r.Ticker == "MSFT" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MSFT from the popular list, got %+v", out)
	}
}

func TestSearchDeduplicatesProviderAndPopular(t *testing.T) {
	dir := &fakeDirectory{results: []models.TickerInfo{{Ticker: "AAPL", Name: "Apple Inc."}}}
	uc := NewDiscoveryUseCase(dir, testLogger(t))

	out, err := uc.Search(context.Background(), "AA", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := 0
	for _, r := range out {
		if r.Ticker == "AAPL" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("AAPL should appear once, got %d", seen)
	}
}

func TestSectorsCatalog(t *testing.T) {
	uc := NewDiscoveryUseCase(&fakeDirectory{}, testLogger(t))

	sectors := uc.Sectors()
	if len(sectors) == 0 {
		t.Fatalf("expected a sector catalog")
	}
	for _, s := range sectors {
		if s.Name == "" || len(s.Industries) == 0 {
			t.Fatalf("malformed sector %+v", s)
		}
	}
}

func TestSectorTickersUnknownSector(t *testing.T) {
	uc := NewDiscoveryUseCase(&fakeDirectory{}, testLogger(t))

	out, err := uc.SectorTickers(context.Background(), "Cryptozoology", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("unknown sector should list nothing, got %+v", out)
	}
}

func TestScreenFiltersByPrice(t *testing.T) {
	uc := NewDiscoveryUseCase(&fakeDirectory{}, testLogger(t))

	out, err := uc.Screen(context.Background(), ScreenParams{MinPrice: 200, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("all fake quotes are 100, expected empty screen, got %+v", out)
	}

	out, err = uc.Screen(context.Background(), ScreenParams{MinPrice: 50, MaxPrice: 150, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("expected the limit of 5 rows, got %d", len(out))
	}
}
