package server

import (
	"time"

	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the server.
type Metrics struct {
	predictions        *prometheus.CounterVec
	predictionDuration prometheus.Histogram
	invalidInputs      prometheus.Counter
	activeSessions     prometheus.GaugeFunc
}

// NewMetrics creates collectors registered with the default registry.
func NewMetrics(sessions func() int) *Metrics {
	return NewMetricsWithRegistry(sessions, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates collectors registered with registerer. A nil
// registerer leaves them unregistered.
func NewMetricsWithRegistry(sessions func() int, registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weighin_predictions_total",
			Help: "Total number of predictions by category",
		}, []string{"category"}),
		predictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "weighin_prediction_duration_seconds",
			Help:    "Time spent decoding and scoring a record",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		invalidInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weighin_invalid_inputs_total",
			Help: "Total number of rejected prediction requests",
		}),
		activeSessions: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "weighin_sessions_active",
			Help: "Number of live sessions",
		}, func() float64 {
			return float64(sessions())
		}),
	}

	if registerer != nil {
		registerer.MustRegister(m.predictions)
		registerer.MustRegister(m.predictionDuration)
		registerer.MustRegister(m.invalidInputs)
		registerer.MustRegister(m.activeSessions)
	}

	return m
}

// ObservePrediction records one successful prediction.
func (m *Metrics) ObservePrediction(c scorer.Category, d time.Duration) {
	m.predictions.WithLabelValues(string(c)).Inc()
	m.predictionDuration.Observe(d.Seconds())
}

// ObserveInvalid records one rejected request.
func (m *Metrics) ObserveInvalid() {
	m.invalidInputs.Inc()
}
