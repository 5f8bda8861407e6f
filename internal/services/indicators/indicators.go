package indicators

import (
	"time"

	"github.com/shopspring/decimal"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
)

const (
	smaFastWindow = 20
	smaSlowWindow = 50
	rsiWindow     = 14

	// crossoverMargin is the minimum SMA separation (as a fraction of the
	// reference SMA) before a crossover counts as a signal.
	crossoverMargin = 0.02

	rsiOversold   = 30
	rsiOverbought = 70
)

// Snapshot holds the indicator values on the latest bar.
type Snapshot struct {
	Price float64
	SMA20 float64
	SMA50 float64
	RSI   float64
}

// Compute derives the latest-bar indicators from a bar history. Bars are
// sorted defensively. Requires at least smaSlowWindow closes so both moving
// averages are defined; otherwise ErrInsufficientHistory (ErrNoData when
// empty).
func Compute(bars []models.Bar) (*Snapshot, error) {
	if len(bars) == 0 {
		return nil, domrepo.ErrNoData
	}
	sorted := make([]models.Bar, len(bars))
	copy(sorted, bars)
	models.SortBarsByDate(sorted)

	closes := make([]float64, len(sorted))
	for i, b := range sorted {
		closes[i] = b.Close
	}
	if len(closes) < smaSlowWindow {
		return nil, domrepo.ErrInsufficientHistory
	}

	return &Snapshot{
		Price: closes[len(closes)-1],
		SMA20: trailingMean(closes, smaFastWindow),
		SMA50: trailingMean(closes, smaSlowWindow),
		RSI:   RSI(closes, rsiWindow),
	}, nil
}

// RSI computes the Relative Strength Index over the trailing window.
//
// The reference formulation divides average gain by average loss, which is
// undefined when the window has no losses. Tie-break, by decision: a zero
// loss average with any gain clamps RSI to 100 (maximally overbought); a
// window with neither gains nor losses reads 50 (neutral).
func RSI(closes []float64, window int) float64 {
	if len(closes) < window+1 {
		return 50
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - window; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(window)
	avgLoss := loss / float64(window)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Recommend maps the signal-counting rule onto a BUY/SELL/HOLD call with a
// confidence in [0.6, 0.99] and a rounded target price. Deterministic over
// the latest bar only.
func Recommend(ticker string, bars []models.Bar, asOf time.Time) (*models.Recommendation, error) {
	snap, err := Compute(bars)
	if err != nil {
		return nil, err
	}

	buy, sell := 0, 0

	// moving average crossover with a margin against noise
	if snap.SMA20 > snap.SMA50 && (snap.SMA20-snap.SMA50)/snap.SMA50 > crossoverMargin {
		buy++
	} else if snap.SMA20 < snap.SMA50 && (snap.SMA50-snap.SMA20)/snap.SMA20 > crossoverMargin {
		sell++
	}

	if snap.RSI < rsiOversold {
		buy++
	} else if snap.RSI > rsiOverbought {
		sell++
	}

	if snap.Price > snap.SMA20 && snap.Price > snap.SMA50 {
		buy++
	} else if snap.Price < snap.SMA20 && snap.Price < snap.SMA50 {
		sell++
	}

	var action string
	var confidence float64
	switch {
	case buy-sell >= 2:
		action = models.ActionBuy
		confidence = 0.7 + minFloat(0.29, float64(buy-2)*0.1)
	case sell-buy >= 2:
		action = models.ActionSell
		confidence = 0.7 + minFloat(0.29, float64(sell-2)*0.1)
	default:
		action = models.ActionHold
		confidence = 0.6
	}

	var target float64
	switch action {
	case models.ActionBuy:
		target = snap.Price * 1.10
	case models.ActionSell:
		target = snap.Price * 0.90
	default:
		target = snap.Price * 1.05
	}

	return &models.Recommendation{
		Ticker:       ticker,
		CurrentPrice: snap.Price,
		TargetPrice:  round2(target),
		Action:       action,
		Confidence:   round2(confidence),
		LastUpdated:  asOf,
	}, nil
}

func trailingMean(xs []float64, window int) float64 {
	sum := 0.0
	for i := len(xs) - window; i < len(xs); i++ {
		sum += xs[i]
	}
	return sum / float64(window)
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
