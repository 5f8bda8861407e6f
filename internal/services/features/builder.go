package features

import (
	"math"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
)

const (
	smaShortWindow = 5
	smaLongWindow  = 20
	volWindow      = 20

	// MinTrainingRows is the smallest usable table after warm-up rows are
	// dropped. Below this the model has too little signal/target pairing.
	MinTrainingRows = 30
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// FeatureNames is the model input column order. A trained model must never
// be fed a vector assembled in a different order.
var FeatureNames = []string{"open", "high", "low", "close", "volume", "sma_5", "sma_20", "volatility"}

// Row is one engineered observation derived from a contiguous bar window.
type Row struct {
	Date       time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	Returns    float64
	SMA5       float64
	SMA20      float64
	Volatility float64
}

// Vector assembles the row in FeatureNames order.
func (r Row) Vector() []float64 {
	return []float64{r.Open, r.High, r.Low, r.Close, r.Volume, r.SMA5, r.SMA20, r.Volatility}
}

// Table is an engineered feature table, sorted ascending by date with all
// warm-up rows removed.
type Table struct {
	Ticker string
	Rows   []Row
}

// Matrix returns the raw (unscaled) feature matrix in FeatureNames order.
func (t *Table) Matrix() [][]float64 {
	out := make([][]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Vector()
	}
	return out
}

// Closes returns the close column.
func (t *Table) Closes() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Close
	}
	return out
}

// Last returns the most recent row. Only valid on a non-empty table.
func (t *Table) Last() Row { return t.Rows[len(t.Rows)-1] }

// Build turns a raw bar sequence into an engineered table. Bars may arrive
// unsorted and with calendar gaps; rolling windows run over observation index,
// not calendar distance. Returns ErrNoData on an empty input and
// ErrInsufficientHistory when fewer than MinTrainingRows rows survive the
// warm-up drop.
func Build(ticker string, bars []models.Bar) (*Table, error) {
	if len(bars) == 0 {
		return nil, domrepo.ErrNoData
	}

	sorted := make([]models.Bar, len(bars))
	copy(sorted, bars)
	models.SortBarsByDate(sorted)

	// returns[i] is the day-over-day percent change of close; undefined at i=0.
	returns := make([]float64, len(sorted))
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1].Close
		if prev != 0 {
			returns[i] = (sorted[i].Close - prev) / prev
		}
	}

	// First row with every rolling value defined: volatility needs volWindow
	// returns, and returns themselves start at index 1.
	first := volWindow
	if len(sorted) <= first {
		return nil, domrepo.ErrInsufficientHistory
	}

	rows := make([]Row, 0, len(sorted)-first)
	for i := first; i < len(sorted); i++ {
		b := sorted[i]
		rows = append(rows, Row{
			Date:       b.Date,
			Open:       b.Open,
			High:       b.High,
			Low:        b.Low,
			Close:      b.Close,
			Volume:     float64(b.Volume),
			Returns:    returns[i],
			SMA5:       meanClose(sorted, i, smaShortWindow),
			SMA20:      meanClose(sorted, i, smaLongWindow),
			Volatility: SampleStdDev(returns[i-volWindow+1:i+1]) * math.Sqrt(TradingDaysPerYear),
		})
	}

	if len(rows) < MinTrainingRows {
		return nil, domrepo.ErrInsufficientHistory
	}

	return &Table{Ticker: ticker, Rows: rows}, nil
}

func meanClose(bars []models.Bar, end, window int) float64 {
	sum := 0.0
	for i := end - window + 1; i <= end; i++ {
		sum += bars[i].Close
	}
	return sum / float64(window)
}

// SampleStdDev is the n-1 denominator standard deviation, matching rolling
// window estimators. Returns 0 for windows shorter than two observations.
func SampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)
	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	return math.Sqrt(variance)
}

// PopStdDev is the population (n denominator) standard deviation.
func PopStdDev(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)
	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(n)
	return math.Sqrt(variance)
}

// LogDiffs computes ln(x_i / x_{i-1}) pairwise over a price series.
func LogDiffs(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, 0, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		if xs[i-1] <= 0 || xs[i] <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(xs[i]/xs[i-1]))
	}
	return out
}
