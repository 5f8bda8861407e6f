package indicators

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
)

func barsFromCloses(closes []float64) []models.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Ticker: "TEST",
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

// zigzag produces an overall trend while keeping RSI inside the neutral band.
func zigzag(n int, start, up, down float64) []float64 {
	closes := make([]float64, n)
	c := start
	for i := range closes {
		if i > 0 {
			if i%2 == 1 {
				c += up
			} else {
				c -= down
			}
		}
		closes[i] = c
	}
	return closes
}

func TestComputeEmptyAndShort(t *testing.T) {
	if _, err := Compute(nil); !errors.Is(err, domrepo.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	bars := barsFromCloses(zigzag(49, 100, 3, 2))
	if _, err := Compute(bars); !errors.Is(err, domrepo.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestRSIBounds(t *testing.T) {
	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 100
	}
	if got := RSI(flat, 14); got != 50 {
		t.Fatalf("flat series should read neutral, got %v", got)
	}

	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	if got := RSI(rising, 14); got != 100 {
		t.Fatalf("lossless window should clamp to 100, got %v", got)
	}

	if got := RSI([]float64{1, 2}, 14); got != 50 {
		t.Fatalf("short series should read neutral, got %v", got)
	}
}

func TestRSINeutralZigzag(t *testing.T) {
	// alternating +3/-2 gives avg gain 1.5x avg loss: RSI 60
	got := RSI(zigzag(30, 100, 3, 2), 14)
	if math.Abs(got-60) > 1e-9 {
		t.Fatalf("want 60, got %v", got)
	}
}

func TestRecommendUptrendBuy(t *testing.T) {
	bars := barsFromCloses(zigzag(60, 100, 3, 2))
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	rec, err := Recommend("TEST", bars, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Action != models.ActionBuy {
		t.Fatalf("expected BUY, got %s", rec.Action)
	}
	if rec.Confidence != 0.7 {
		t.Fatalf("two net buy signals should give 0.7, got %v", rec.Confidence)
	}
	wantTarget := math.Round(rec.CurrentPrice*1.10*100) / 100
	if rec.TargetPrice != wantTarget {
		t.Fatalf("target: want %v, got %v", wantTarget, rec.TargetPrice)
	}
	if !rec.LastUpdated.Equal(asOf) {
		t.Fatalf("last updated should carry the as-of date")
	}
}

func TestRecommendDowntrendSell(t *testing.T) {
	bars := barsFromCloses(zigzag(60, 200, -3, -2))
	rec, err := Recommend("TEST", bars, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Action != models.ActionSell {
		t.Fatalf("expected SELL, got %s", rec.Action)
	}
	wantTarget := math.Round(rec.CurrentPrice*0.90*100) / 100
	if rec.TargetPrice != wantTarget {
		t.Fatalf("target: want %v, got %v", wantTarget, rec.TargetPrice)
	}
}

func TestRecommendFlatHold(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}
	rec, err := Recommend("TEST", barsFromCloses(closes), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Action != models.ActionHold {
		t.Fatalf("expected HOLD, got %s", rec.Action)
	}
	if rec.Confidence != 0.6 {
		t.Fatalf("hold confidence should be 0.6, got %v", rec.Confidence)
	}
	if rec.TargetPrice != 105 {
		t.Fatalf("hold target should be 5%% above, got %v", rec.TargetPrice)
	}
}

func TestRecommendConfidenceWithinBounds(t *testing.T) {
	cases := [][]float64{
		zigzag(60, 100, 3, 2),
		zigzag(60, 200, -3, -2),
		zigzag(60, 100, 1, 1),
	}
	for i, closes := range cases {
		rec, err := Recommend("TEST", barsFromCloses(closes), time.Now())
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if rec.Confidence < 0.6 || rec.Confidence > 0.99 {
			t.Fatalf("case %d: confidence %v out of bounds", i, rec.Confidence)
		}
	}
}
