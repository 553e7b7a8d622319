package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus collectors for the service.
// A nil *Registry is valid and records nothing.
type Registry struct {
	registry *prometheus.Registry

	ProviderFetches  *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	Predictions      *prometheus.CounterVec
	Unavailable      prometheus.Counter
	SchedulerRuns    *prometheus.CounterVec
}

// NewRegistry creates a Registry with all collectors registered on a private
// Prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		ProviderFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_provider_fetches_total",
				Help: "Provider fetches by provider and result",
			},
			[]string{"provider", "result"},
		),

		ProviderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_provider_fetch_duration_seconds",
				Help:    "Duration of provider fetches in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),

		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_predictions_total",
				Help: "Predicted days by confidence label",
			},
			[]string{"confidence"},
		),

		Unavailable: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "weather_predictions_unavailable_total",
				Help: "Prediction requests answered without predictions due to insufficient history",
			},
		),

		SchedulerRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_scheduler_location_runs_total",
				Help: "Scheduled location fetches by result",
			},
			[]string{"result"},
		),
	}

	r.registry.MustRegister(
		r.ProviderFetches,
		r.ProviderDuration,
		r.Predictions,
		r.Unavailable,
		r.SchedulerRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying gatherer, mostly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveFetch records one provider call.
func (r *Registry) ObserveFetch(provider string, took time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ProviderFetches.WithLabelValues(provider, result).Inc()
	r.ProviderDuration.WithLabelValues(provider).Observe(took.Seconds())
}

// ObservePrediction records the confidence of one predicted day.
func (r *Registry) ObservePrediction(confidence string) {
	if r == nil {
		return
	}
	r.Predictions.WithLabelValues(confidence).Inc()
}

// ObserveUnavailable records a request that produced no predictions.
func (r *Registry) ObserveUnavailable() {
	if r == nil {
		return
	}
	r.Unavailable.Inc()
}

// ObserveSchedulerRun records one scheduled location fetch.
func (r *Registry) ObserveSchedulerRun(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.SchedulerRuns.WithLabelValues(result).Inc()
}
