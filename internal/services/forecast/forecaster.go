package forecast

import (
	"math"
	"math/rand"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/features"
	svcmodel "StockCast/internal/services/model"
)

// BandFraction is the symmetric confidence band around each predicted close.
// A fixed fraction, not a residual-variance interval.
const BandFraction = 0.02

const (
	openNoise  = 0.01
	rangeNoise = 0.02
)

// Forecaster recursively applies a trained model to synthesize a trajectory
// of future closes. Perturbations come from the injected rand source, so a
// seeded generator makes a forecast reproducible.
type Forecaster struct {
	band float64
}

func New() *Forecaster {
	return &Forecaster{band: BandFraction}
}

// Forecast produces exactly `days` sequential prediction points starting the
// calendar day after asOf, or nil when no model or features are available.
// Dates advance by calendar day; weekends are not skipped.
//
// Each step feeds the model a synthesized next-day vector: open/high/low are
// the predicted close under multiplicative noise, while the moving averages
// blend the new close with the trailing raw closes of the original training
// window so forecast error does not compound through them. Volatility is the
// log-difference deviation over the original closes plus the new prediction.
func (f *Forecaster) Forecast(m *svcmodel.Model, tbl *features.Table, asOf time.Time, days int, rng *rand.Rand) []models.PredictionPoint {
	if m == nil || tbl == nil || len(tbl.Rows) == 0 || days <= 0 {
		return nil
	}

	closes := tbl.Closes()
	vec := tbl.Last().Vector()
	current := asOf

	points := make([]models.PredictionPoint, 0, days)
	for i := 0; i < days; i++ {
		pred := m.Predict(vec)
		band := pred * f.band
		current = current.AddDate(0, 0, 1)

		points = append(points, models.PredictionPoint{
			Date:           current,
			PredictedClose: pred,
			IntervalLower:  pred - band,
			IntervalUpper:  pred + band,
		})

		vec = f.nextVector(vec, pred, closes, rng)
	}
	return points
}

// nextVector synthesizes the following day's raw feature vector from the
// predicted close. Indexes follow features.FeatureNames.
func (f *Forecaster) nextVector(prev []float64, pred float64, closes []float64, rng *rand.Rand) []float64 {
	next := make([]float64, len(prev))
	copy(next, prev)

	open := pred * (1 + rng.NormFloat64()*openNoise)
	high := math.Max(pred*(1+math.Abs(rng.NormFloat64()*rangeNoise)), open)
	low := math.Min(pred*(1-math.Abs(rng.NormFloat64()*rangeNoise)), open)

	next[0] = open
	next[1] = high
	next[2] = low
	next[3] = pred
	// volume (index 4) carries forward unchanged
	next[5] = blendSMA(closes, pred, 5)
	next[6] = blendSMA(closes, pred, 20)
	next[7] = syntheticVolatility(closes, pred)

	return next
}

// blendSMA averages the predicted close with the trailing window-1 raw closes
// of the original training table.
func blendSMA(closes []float64, pred float64, window int) float64 {
	tail := window - 1
	if tail > len(closes) {
		tail = len(closes)
	}
	sum := pred
	for i := len(closes) - tail; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(window)
}

func syntheticVolatility(closes []float64, pred float64) float64 {
	extended := make([]float64, 0, len(closes)+1)
	extended = append(extended, closes...)
	extended = append(extended, pred)
	return features.PopStdDev(features.LogDiffs(extended)) * math.Sqrt(features.TradingDaysPerYear)
}
