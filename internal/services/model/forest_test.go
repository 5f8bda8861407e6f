package model

import (
	"math"
	"math/rand"
	"testing"
)

// genRegression builds a noiseless linear target over two features.
func genRegression(n int, rng *rand.Rand) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		a := rng.Float64() * 10
		b := rng.Float64() * 10
		x[i] = []float64{a, b}
		y[i] = 3*a + b
	}
	return x, y
}

func TestTrainForestDeterministicForSeed(t *testing.T) {
	x, y := genRegression(80, rand.New(rand.NewSource(1)))
	cfg := ForestConfig{Trees: 20, MaxDepth: 8, MinSplit: 2}

	f1 := TrainForest(x, y, cfg, rand.New(rand.NewSource(42)))
	f2 := TrainForest(x, y, cfg, rand.New(rand.NewSource(42)))

	probe := []float64{5, 5}
	if f1.Predict(probe) != f2.Predict(probe) {
		t.Fatalf("same seed should reproduce the forest exactly")
	}

	f3 := TrainForest(x, y, cfg, rand.New(rand.NewSource(43)))
	if f1.Predict(probe) == f3.Predict(probe) {
		t.Fatalf("different seeds should perturb the ensemble")
	}
}

func TestForestPredictsWithinTargetRange(t *testing.T) {
	x, y := genRegression(80, rand.New(rand.NewSource(2)))
	f := TrainForest(x, y, DefaultForestConfig(), rand.New(rand.NewSource(42)))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range y {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	// tree leaves are target means, so the ensemble cannot extrapolate
	got := f.Predict([]float64{20, 20})
	if got < lo || got > hi {
		t.Fatalf("prediction %v outside target range [%v, %v]", got, lo, hi)
	}
}

func TestForestFitsSimpleStep(t *testing.T) {
	// one feature, clean step function: the forest should separate the halves
	x := make([][]float64, 40)
	y := make([]float64, 40)
	for i := range x {
		x[i] = []float64{float64(i)}
		if i < 20 {
			y[i] = 10
		} else {
			y[i] = 20
		}
	}

	f := TrainForest(x, y, ForestConfig{Trees: 50, MaxDepth: 4, MinSplit: 2}, rand.New(rand.NewSource(7)))
	low := f.Predict([]float64{5})
	high := f.Predict([]float64{35})
	if math.Abs(low-10) > 1.5 || math.Abs(high-20) > 1.5 {
		t.Fatalf("step not learned: low=%v high=%v", low, high)
	}
}

func TestTrainForestDegenerateInput(t *testing.T) {
	if f := TrainForest(nil, nil, DefaultForestConfig(), rand.New(rand.NewSource(1))); f != nil {
		t.Fatalf("expected nil forest on empty input")
	}
}

func TestScalerBounds(t *testing.T) {
	x := [][]float64{{0, 10}, {5, 20}, {10, 30}}
	s := FitScaler(x)

	got := s.Transform([]float64{5, 20})
	if math.Abs(got[0]-0.5) > 1e-12 || math.Abs(got[1]-0.5) > 1e-12 {
		t.Fatalf("midpoint should scale to 0.5, got %v", got)
	}

	got = s.Transform([]float64{0, 10})
	if got[0] != 0 || got[1] != 0 {
		t.Fatalf("minimum should scale to 0, got %v", got)
	}
}

func TestScalerDegenerateColumn(t *testing.T) {
	x := [][]float64{{1, 7}, {2, 7}}
	s := FitScaler(x)
	got := s.Transform([]float64{1.5, 7})
	if got[1] != 0 {
		t.Fatalf("constant column should map to 0, got %v", got[1])
	}
}
