package forecast

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/features"
	svcmodel "StockCast/internal/services/model"
)

func trainFixture(t *testing.T) (*svcmodel.Model, *features.Table) {
	t.Helper()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 60)
	c := 100.0
	for i := range bars {
		if i > 0 {
			if i%2 == 1 {
				c += 3
			} else {
				c -= 2
			}
		}
		bars[i] = models.Bar{
			Ticker: "TEST",
			Date:   base.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + int64(i),
		}
	}

	tbl, err := features.Build("TEST", bars)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	m, err := svcmodel.NewTrainer(svcmodel.ForestConfig{Trees: 20, MaxDepth: 8, MinSplit: 2}, 42).Train(tbl)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	return m, tbl
}

func TestForecastHorizonAndDates(t *testing.T) {
	m, tbl := trainFixture(t)
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	points := New().Forecast(m, tbl, asOf, 7, rand.New(rand.NewSource(7)))
	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	for i, p := range points {
		want := asOf.AddDate(0, 0, i+1)
		if !p.Date.Equal(want) {
			t.Fatalf("point %d: want date %v, got %v", i, want, p.Date)
		}
	}
}

func TestForecastBandIsFixedFraction(t *testing.T) {
	m, tbl := trainFixture(t)
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	points := New().Forecast(m, tbl, asOf, 5, rand.New(rand.NewSource(7)))
	for i, p := range points {
		band := p.PredictedClose * BandFraction
		if math.Abs((p.PredictedClose-p.IntervalLower)-band) > 1e-9 {
			t.Fatalf("point %d: lower band off: %+v", i, p)
		}
		if math.Abs((p.IntervalUpper-p.PredictedClose)-band) > 1e-9 {
			t.Fatalf("point %d: upper band off: %+v", i, p)
		}
		if p.IntervalLower >= p.IntervalUpper {
			t.Fatalf("point %d: degenerate band: %+v", i, p)
		}
	}
}

func TestForecastReproducibleForSeed(t *testing.T) {
	m, tbl := trainFixture(t)
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f := New()

	p1 := f.Forecast(m, tbl, asOf, 10, rand.New(rand.NewSource(99)))
	p2 := f.Forecast(m, tbl, asOf, 10, rand.New(rand.NewSource(99)))
	if len(p1) != len(p2) {
		t.Fatalf("length mismatch")
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("point %d differs across identical seeds: %+v vs %+v", i, p1[i], p2[i])
		}
	}
}

func TestForecastNilInputs(t *testing.T) {
	m, tbl := trainFixture(t)
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f := New()

	if pts := f.Forecast(nil, tbl, asOf, 5, rand.New(rand.NewSource(1))); pts != nil {
		t.Fatalf("nil model should produce no points")
	}
	if pts := f.Forecast(m, nil, asOf, 5, rand.New(rand.NewSource(1))); pts != nil {
		t.Fatalf("nil table should produce no points")
	}
	if pts := f.Forecast(m, tbl, asOf, 0, rand.New(rand.NewSource(1))); pts != nil {
		t.Fatalf("zero horizon should produce no points")
	}
}
