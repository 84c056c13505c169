// Package metrics provides Prometheus observability metrics for the model
// compiler and the model readers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// COMPILER METRICS
// =============================================================================

// CompileTotal counts compilations by outcome ("none" for success, else the
// error kind).
var CompileTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "compiler",
	Name:      "runs_total",
	Help:      "Total model compilations by error kind",
}, []string{"error_kind"})

// CompileDurationSeconds tracks the time to compile a model.
var CompileDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "compiler",
	Name:      "duration_seconds",
	Help:      "Time taken to check and resolve a model",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
})

// AgentsTotal is the number of agents of the last compiled model.
var AgentsTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "compiler",
	Name:      "agents_total",
	Help:      "Number of agents in the last compiled model",
})

// FreshCallsTotal is the mean number of fresh calls per day of the last
// compiled model.
var FreshCallsTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "compiler",
	Name:      "fresh_calls_total",
	Help:      "Mean fresh calls per day in the last compiled model",
})

// ShiftsPlanned is the number of agent groups after shift planning.
var ShiftsPlanned = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "compiler",
	Name:      "shifts_planned",
	Help:      "Number of agent groups after shift planning in the last compiled model",
})

// PlausibilityWarnings is the number of warnings of the last plausibility
// check.
var PlausibilityWarnings = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "compiler",
	Name:      "plausibility_warnings",
	Help:      "Number of plausibility warnings in the last check",
})

// =============================================================================
// READER METRICS
// =============================================================================

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total curve values and model documents read.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total records successfully parsed",
})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse an input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ObserveCompile records one compilation.
func ObserveCompile(d time.Duration, errorKind string) {
	CompileDurationSeconds.Observe(d.Seconds())
	CompileTotal.WithLabelValues(errorKind).Inc()
}

// ObserveRunModel records the size of a successfully compiled model.
func ObserveRunModel(agents, freshCalls, shifts int) {
	AgentsTotal.Set(float64(agents))
	FreshCallsTotal.Set(float64(freshCalls))
	ShiftsPlanned.Set(float64(shifts))
}

// ObserveParse records one parsed input.
func ObserveParse(d time.Duration, records int, err error, errorType string) {
	ParserDurationSeconds.Observe(d.Seconds())
	if err != nil {
		ParserErrorsTotal.WithLabelValues(errorType).Inc()
		return
	}
	ParserRecordsTotal.Add(float64(records))
}

// ResetModelGauges resets the gauges describing the last compiled model.
func ResetModelGauges() {
	AgentsTotal.Set(0)
	FreshCallsTotal.Set(0)
	ShiftsPlanned.Set(0)
	PlausibilityWarnings.Set(0)
}
