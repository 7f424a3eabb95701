// Package metrics exposes prometheus collectors for the simulator.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "solar_simulator_"

	// ResultOK marks a simulation that produced a result.
	ResultOK = "ok"
	// ResultInvalid marks a simulation rejected by input validation.
	ResultInvalid = "invalid"
	// ResultError marks a simulation that failed after validation.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	simulationsTotal   *prometheus.CounterVec
	simulationLatency  *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	exportsTotal       *prometheus.CounterVec
)

// Init registers the collectors with the default registry. Calling it more
// than once is a no-op.
func Init() {
	registerOnce.Do(func() {
		simulationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulations_total",
				Help: "Total simulations by result",
			},
			[]string{"result"},
		)
		simulationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "calculation_latency_seconds",
				Help:    "Simulation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		validationFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "validation_failures_total",
				Help: "Total input rule violations by field",
			},
			[]string{"field"},
		)
		exportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			simulationsTotal,
			simulationLatency,
			validationFailures,
			exportsTotal,
		)
	})
}

// ObserveSimulation records one simulation outcome and its duration.
func ObserveSimulation(result string, duration time.Duration) {
	if result == "" {
		result = ResultOK
	}
	if simulationsTotal != nil {
		simulationsTotal.WithLabelValues(result).Inc()
	}
	if simulationLatency != nil {
		simulationLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncValidationFailure counts one violated rule on field.
func IncValidationFailure(field string) {
	if field == "" {
		field = "unknown"
	}
	if validationFailures != nil {
		validationFailures.WithLabelValues(field).Inc()
	}
}

// IncExport counts one report export.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultOK
	}
	if exportsTotal != nil {
		exportsTotal.WithLabelValues(format, result).Inc()
	}
}
