package model

import (
	"errors"
	"testing"
	"time"

	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/features"
)

func genTable(n int) *features.Table {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]features.Row, n)
	for i := range rows {
		c := 100 + float64(i)
		rows[i] = features.Row{
			Date:       base.AddDate(0, 0, i),
			Open:       c - 0.5,
			High:       c + 1,
			Low:        c - 1,
			Close:      c,
			Volume:     1000,
			SMA5:       c - 2,
			SMA20:      c - 9.5,
			Volatility: 0.2,
		}
	}
	return &features.Table{Ticker: "TEST", Rows: rows}
}

func TestTrainTooFewRows(t *testing.T) {
	tr := NewTrainer(DefaultForestConfig(), 42)
	_, err := tr.Train(&features.Table{Ticker: "TEST", Rows: genTable(1).Rows})
	if !errors.Is(err, domrepo.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestTrainPredictsNextDayClose(t *testing.T) {
	tbl := genTable(40)
	tr := NewTrainer(ForestConfig{Trees: 30, MaxDepth: 8, MinSplit: 2}, 42)

	m, err := tr.Train(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// targets are next-day closes, so predictions stay inside
	// [close(row 1), close(last row)]
	pred := m.Predict(tbl.Last().Vector())
	lo := tbl.Rows[1].Close
	hi := tbl.Last().Close
	if pred < lo || pred > hi {
		t.Fatalf("prediction %v outside target range [%v, %v]", pred, lo, hi)
	}
	// a monotone series should put the last row's prediction near the top
	if pred < hi-10 {
		t.Fatalf("prediction %v too far from recent closes (last %v)", pred, hi)
	}
}

func TestTrainReproducibleForSeed(t *testing.T) {
	tbl := genTable(40)
	cfg := ForestConfig{Trees: 30, MaxDepth: 8, MinSplit: 2}

	m1, err := NewTrainer(cfg, 42).Train(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := NewTrainer(cfg, 42).Train(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := tbl.Last().Vector()
	if m1.Predict(v) != m2.Predict(v) {
		t.Fatalf("same seed should train identical models")
	}
}

func TestTrainCopiesFeatureNames(t *testing.T) {
	tbl := genTable(40)
	m, err := NewTrainer(ForestConfig{Trees: 5, MaxDepth: 4, MinSplit: 2}, 42).Train(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Features) != len(features.FeatureNames) {
		t.Fatalf("feature name count mismatch")
	}
	m.Features[0] = "mutated"
	if features.FeatureNames[0] == "mutated" {
		t.Fatalf("model must own a copy of the feature order")
	}
}
