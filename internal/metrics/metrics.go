// Package metrics exposes prometheus instruments for model fits and analysis requests on a
// private registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "dengue"

// Outcome labels of analysis requests
const (
	OutcomeSuccess      = "success"
	OutcomeInvalidInput = "invalid_input"
	OutcomeFitError     = "fit_error"
)

type Metrics struct {
	registry *prometheus.Registry

	sarimaFitsTotal      *prometheus.CounterVec
	sarimaFitDuration    prometheus.Histogram
	regressionFitsTotal  *prometheus.CounterVec
	forecastSteps        prometheus.Histogram
	analyzeRequestsTotal *prometheus.CounterVec
}

// New creates the instruments under namespace and registers them, along with the go runtime and
// process collectors, on a new registry.
func New(namespace string) (*Metrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sarimaFitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sarima",
				Name:      "fits_total",
				Help:      "Number of seasonal model fits by fit quality",
			},
			[]string{"quality"},
		),
		sarimaFitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sarima",
				Name:      "fit_duration_seconds",
				Help:      "Duration of seasonal model fits",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		regressionFitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "regression",
				Name:      "fits_total",
				Help:      "Number of least squares fits by result",
			},
			[]string{"result"},
		),
		forecastSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sarima",
				Name:      "forecast_steps",
				Help:      "Number of steps requested per forecast",
				Buckets:   []float64{1, 3, 6, 12, 24, 36, 60},
			},
		),
		analyzeRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "analyze_requests_total",
				Help:      "Number of analysis requests by outcome",
			},
			[]string{"outcome"},
		),
	}

	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sarimaFitsTotal,
		m.sarimaFitDuration,
		m.regressionFitsTotal,
		m.forecastSteps,
		m.analyzeRequestsTotal,
	}
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return m, nil
}

// ObserveSarimaFit records a completed fit with its quality label and duration
func (m *Metrics) ObserveSarimaFit(quality string, d time.Duration) {
	if m == nil {
		return
	}
	m.sarimaFitsTotal.WithLabelValues(quality).Inc()
	m.sarimaFitDuration.Observe(d.Seconds())
}

// ObserveRegressionFit records a regression fit, failed when err is not nil
func (m *Metrics) ObserveRegressionFit(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.regressionFitsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveForecast(steps int) {
	if m == nil {
		return
	}
	m.forecastSteps.Observe(float64(steps))
}

func (m *Metrics) ObserveAnalyze(outcome string) {
	if m == nil {
		return
	}
	m.analyzeRequestsTotal.WithLabelValues(outcome).Inc()
}

// Registry returns the registry the instruments live on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
