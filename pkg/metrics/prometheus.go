package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions     *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	trainingTime    *prometheus.HistogramVec
	modelCache      *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_predictions_total",
				Help: "Total number of forecasts served",
			},
			[]string{"ticker", "horizon"},
		),
		recommendations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_recommendations_total",
				Help: "Total number of recommendations served",
			},
			[]string{"ticker", "action"},
		),
		trainingTime: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_model_training_seconds",
				Help:    "Duration of model training runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"ticker"},
		),
		modelCache: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_model_cache_total",
				Help: "Model cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_last_price",
				Help: "Last observed live price for a ticker",
			},
			[]string{"ticker"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPrediction counts a served forecast by horizon length.
func (r *Recorder) RecordPrediction(ticker string, horizon int) {
	r.predictions.WithLabelValues(ticker, strconv.Itoa(horizon)).Inc()
}

// RecordRecommendation counts a served recommendation by action.
func (r *Recorder) RecordRecommendation(ticker, action string) {
	r.recommendations.WithLabelValues(ticker, action).Inc()
}

// RecordTraining records a training run duration.
func (r *Recorder) RecordTraining(ticker string, seconds float64) {
	r.trainingTime.WithLabelValues(ticker).Observe(seconds)
}

// RecordModelCache records a cache lookup outcome.
func (r *Recorder) RecordModelCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.modelCache.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last live price for a ticker.
func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
