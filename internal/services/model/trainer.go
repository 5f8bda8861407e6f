package model

import (
	"math/rand"

	"StockCast/internal/domain/repository"
	"StockCast/internal/services/features"
)

// Model owns the fitted regressor, the fitted scaler, and the feature order
// they were trained with. The three travel as one unit; feeding a vector
// assembled in a different column order is a correctness bug.
type Model struct {
	Forest   *Forest
	Scaler   *MinMaxScaler
	Features []string
}

// Predict scales a raw feature vector and returns the regressor output.
func (m *Model) Predict(raw []float64) float64 {
	return m.Forest.Predict(m.Scaler.Transform(raw))
}

// Trainer fits models from engineered feature tables.
type Trainer struct {
	cfg  ForestConfig
	seed int64
}

// NewTrainer creates a trainer. The seed fixes bootstrap sampling so a
// training run is reproducible for a given table.
func NewTrainer(cfg ForestConfig, seed int64) *Trainer {
	return &Trainer{cfg: cfg, seed: seed}
}

// Train fits a scaler and a forest on the table. The target is the next-day
// close: y[i] = close[i+1], so the final row is dropped from training since
// it has no known target. Returns ErrInsufficientHistory when the shifted
// pairing leaves nothing to fit.
func (t *Trainer) Train(tbl *features.Table) (*Model, error) {
	x := tbl.Matrix()
	if len(x) < 2 {
		return nil, repository.ErrInsufficientHistory
	}

	y := make([]float64, len(x)-1)
	for i := range y {
		y[i] = tbl.Rows[i+1].Close
	}
	x = x[:len(x)-1]

	scaler := FitScaler(x)
	rng := rand.New(rand.NewSource(t.seed))
	forest := TrainForest(scaler.TransformAll(x), y, t.cfg, rng)

	names := make([]string, len(features.FeatureNames))
	copy(names, features.FeatureNames)

	return &Model{Forest: forest, Scaler: scaler, Features: names}, nil
}
