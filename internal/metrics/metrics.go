// Package metrics provides Prometheus observability for the forecast service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the application.
var Registry = prometheus.NewRegistry()

// factory registers metrics to our custom Registry directly.
var factory = promauto.With(Registry)

// ForecastRunsTotal counts completed forecast invocations.
var ForecastRunsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "urgentcast",
	Name:      "forecast_runs_total",
	Help:      "Number of forecast runs executed",
})

// PartitionFailuresTotal counts job-family partitions whose fit/predict
// cycle failed.
var PartitionFailuresTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "urgentcast",
	Name:      "partition_failures_total",
	Help:      "Number of job-family partitions that could not be modeled",
})

// PredictionsProduced counts prediction rows emitted across all runs.
var PredictionsProduced = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "urgentcast",
	Name:      "predictions_produced_total",
	Help:      "Number of daily prediction rows produced",
})

// LastRunDurationSeconds records the wall time of the most recent run.
var LastRunDurationSeconds = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "urgentcast",
	Name:      "last_run_duration_seconds",
	Help:      "Duration of the most recent forecast run",
})

// ObserveRun updates all run-level metrics from one finished run.
func ObserveRun(partitionFailures, predictions int, durationSeconds float64) {
	ForecastRunsTotal.Inc()
	PartitionFailuresTotal.Add(float64(partitionFailures))
	PredictionsProduced.Add(float64(predictions))
	LastRunDurationSeconds.Set(durationSeconds)
}
