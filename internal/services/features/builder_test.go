package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
)

func genBars(n int, start float64, step func(i int) float64) []models.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 0, n)
	close := start
	for i := 0; i < n; i++ {
		if i > 0 {
			close += step(i)
		}
		bars = append(bars, models.Bar{
			Ticker: "TEST",
			Date:   base.AddDate(0, 0, i),
			Open:   close - 0.5,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1000 + int64(i),
		})
	}
	return bars
}

func TestBuildEmptyInput(t *testing.T) {
	_, err := Build("TEST", nil)
	if !errors.Is(err, domrepo.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestBuildInsufficientHistory(t *testing.T) {
	// 25 bars leave only 5 rows after the warm-up drop
	bars := genBars(25, 100, func(int) float64 { return 1 })
	_, err := Build("TEST", bars)
	if !errors.Is(err, domrepo.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestBuildWarmupDrop(t *testing.T) {
	bars := genBars(60, 100, func(int) float64 { return 1 })
	tbl, err := Build("TEST", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := len(tbl.Rows), 40; got != want {
		t.Fatalf("expected %d rows, got %d", want, got)
	}
	if !tbl.Rows[0].Date.Equal(bars[20].Date) {
		t.Fatalf("first row should be the 21st bar, got %v", tbl.Rows[0].Date)
	}
}

func TestBuildSortsUnsortedInput(t *testing.T) {
	bars := genBars(60, 100, func(int) float64 { return 1 })
	shuffled := make([]models.Bar, len(bars))
	for i, b := range bars {
		shuffled[(i*17)%len(bars)] = b
	}

	tbl, err := Build("TEST", shuffled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(tbl.Rows); i++ {
		if !tbl.Rows[i-1].Date.Before(tbl.Rows[i].Date) {
			t.Fatalf("rows not ascending at %d: %v >= %v", i, tbl.Rows[i-1].Date, tbl.Rows[i].Date)
		}
	}
}

func TestBuildSMAWindows(t *testing.T) {
	bars := genBars(60, 100, func(int) float64 { return 2 })
	tbl, err := Build("TEST", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := tbl.Last()
	// linear closes: trailing mean sits (window-1)/2 steps behind the close
	wantSMA5 := last.Close - 2*2
	wantSMA20 := last.Close - 2*9.5
	if math.Abs(last.SMA5-wantSMA5) > 1e-9 {
		t.Fatalf("sma_5: want %v, got %v", wantSMA5, last.SMA5)
	}
	if math.Abs(last.SMA20-wantSMA20) > 1e-9 {
		t.Fatalf("sma_20: want %v, got %v", wantSMA20, last.SMA20)
	}
}

func TestBuildReturns(t *testing.T) {
	bars := genBars(60, 100, func(int) float64 { return 1 })
	tbl, err := Build("TEST", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := tbl.Rows[0]
	want := (r.Close - (r.Close - 1)) / (r.Close - 1)
	if math.Abs(r.Returns-want) > 1e-12 {
		t.Fatalf("returns: want %v, got %v", want, r.Returns)
	}
}

func TestSampleStdDev(t *testing.T) {
	got := SampleStdDev([]float64{1, 2, 3, 4})
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("want %v, got %v", want, got)
	}
	if SampleStdDev([]float64{1}) != 0 {
		t.Fatalf("single observation should have zero deviation")
	}
}

func TestPopStdDev(t *testing.T) {
	got := PopStdDev([]float64{1, 2, 3, 4})
	want := math.Sqrt(5.0 / 4.0)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestLogDiffs(t *testing.T) {
	out := LogDiffs([]float64{1, math.E, math.E * math.E})
	if len(out) != 2 {
		t.Fatalf("expected 2 diffs, got %d", len(out))
	}
	for _, d := range out {
		if math.Abs(d-1) > 1e-12 {
			t.Fatalf("expected unit log diff, got %v", d)
		}
	}
}

func TestVectorOrderMatchesFeatureNames(t *testing.T) {
	r := Row{Open: 1, High: 2, Low: 3, Close: 4, Volume: 5, SMA5: 6, SMA20: 7, Volatility: 8}
	v := r.Vector()
	if len(v) != len(FeatureNames) {
		t.Fatalf("vector length %d != feature count %d", len(v), len(FeatureNames))
	}
	for i, want := range []float64{1, 2, 3, 4, 5, 6, 7, 8} {
		if v[i] != want {
			t.Fatalf("vector[%d]: want %v, got %v", i, want, v[i])
		}
	}
}
