package usecase

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/forecast"
	svcmodel "StockCast/internal/services/model"
	applogger "StockCast/pkg/logger"
)

type fakeBarSource struct {
	bars []models.Bar
	err  error

	calls int
}

func (s *fakeBarSource) FetchBars(_ context.Context, _ string, _, _ time.Time) ([]models.Bar, error) {
	s.calls++
	return s.bars, s.err
}

type fakeMetrics struct {
	cacheHits   int
	cacheMisses int
	trainings   int
	predictions int
	errors      map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: make(map[string]int)}
}

func (m *fakeMetrics) RecordPrediction(string, int)        { m.predictions++ }
func (m *fakeMetrics) RecordRecommendation(string, string) {}
func (m *fakeMetrics) RecordTraining(string, float64)      { m.trainings++ }
func (m *fakeMetrics) RecordModelCache(hit bool) {
	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}
func (m *fakeMetrics) RecordError(kind string)         { m.errors[kind]++ }
func (m *fakeMetrics) RecordLastPrice(string, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64)   {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func zigzagBars(n int) []models.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
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
	return bars
}

func newTestPredictor(source domrepo.BarSource, m domrepo.Metrics, t *testing.T) *PredictorUseCase {
	fixed := time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)
	return NewPredictorUseCase(
		source,
		svcmodel.NewCache(5*time.Minute, 0, func() time.Time { return fixed }),
		svcmodel.NewTrainer(svcmodel.ForestConfig{Trees: 10, MaxDepth: 6, MinSplit: 2}, 42),
		forecast.New(),
		m,
		testLogger(t),
		func() time.Time { return fixed },
		func() *rand.Rand { return rand.New(rand.NewSource(7)) },
	)
}

func TestPredictNoDataIsEmptyNotError(t *testing.T) {
	m := newFakeMetrics()
	uc := newTestPredictor(&fakeBarSource{}, m, t)

	res, err := uc.Predict(context.Background(), "NOPE", 7, 90)
	if err != nil {
		t.Fatalf("no data must not be an error, got %v", err)
	}
	if res == nil || len(res.Predictions) != 0 {
		t.Fatalf("expected empty predictions, got %+v", res)
	}
}

func TestPredictShortHistoryIsEmptyNotError(t *testing.T) {
	m := newFakeMetrics()
	uc := newTestPredictor(&fakeBarSource{bars: zigzagBars(25)}, m, t)

	res, err := uc.Predict(context.Background(), "TEST", 7, 90)
	if err != nil {
		t.Fatalf("short history must not be an error, got %v", err)
	}
	if len(res.Predictions) != 0 {
		t.Fatalf("expected empty predictions, got %d", len(res.Predictions))
	}
}

func TestPredictProviderFaultPropagates(t *testing.T) {
	m := newFakeMetrics()
	boom := errors.New("provider down")
	uc := newTestPredictor(&fakeBarSource{err: boom}, m, t)

	_, err := uc.Predict(context.Background(), "TEST", 7, 90)
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider fault to propagate, got %v", err)
	}
	if m.errors["provider"] != 1 {
		t.Fatalf("expected provider error recorded")
	}
}

func TestPredictHorizonAndModelReuse(t *testing.T) {
	m := newFakeMetrics()
	source := &fakeBarSource{bars: zigzagBars(90)}
	uc := newTestPredictor(source, m, t)

	res, err := uc.Predict(context.Background(), "TEST", 10, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Predictions) != 10 {
		t.Fatalf("expected 10 points, got %d", len(res.Predictions))
	}
	if res.ModelCached {
		t.Fatalf("first call should train")
	}
	if m.trainings != 1 || m.cacheMisses != 1 {
		t.Fatalf("expected one training and one miss, got %d/%d", m.trainings, m.cacheMisses)
	}

	res2, err := uc.Predict(context.Background(), "TEST", 10, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res2.ModelCached {
		t.Fatalf("second same-day call should reuse the model")
	}
	if m.trainings != 1 {
		t.Fatalf("no retraining expected, got %d", m.trainings)
	}
	if m.cacheHits != 1 {
		t.Fatalf("expected one cache hit, got %d", m.cacheHits)
	}

	// identical rng seed and cached model: identical trajectories
	for i := range res.Predictions {
		if res.Predictions[i] != res2.Predictions[i] {
			t.Fatalf("point %d differs across cached calls", i)
		}
	}
}

func TestPredictDefaultLookback(t *testing.T) {
	m := newFakeMetrics()
	uc := newTestPredictor(&fakeBarSource{bars: zigzagBars(90)}, m, t)

	res, err := uc.Predict(context.Background(), "TEST", 5, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.LookbackDays != DefaultLookbackDays {
		t.Fatalf("expected default lookback %d, got %d", DefaultLookbackDays, res.LookbackDays)
	}
}
