// Package telemetry records planner activity in Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/warp/course-planner/generic"
	"github.com/warp/course-planner/planner"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeRejected  = "rejected"  // configuration error
	OutcomeAmbiguous = "ambiguous" // no working day reachable
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

// Recorder is what the HTTP shell reports to.
type Recorder interface {
	// RecordOperation counts one generate/move/reschedule/resolve call.
	RecordOperation(operation, outcome string)
	// RecordCascade observes how many modules a move touched.
	RecordCascade(affected int)
	// RecordIssues counts verifier findings by code.
	RecordIssues(issues []planner.Issue)
	// SetCachedCalendars reports the number of cached excluded sets.
	SetCachedCalendars(n int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordOperation(string, string) {}
func (Nop) RecordCascade(int)              {}
func (Nop) RecordIssues([]planner.Issue)   {}
func (Nop) SetCachedCalendars(int)         {}

// PromSink records planner events in Prometheus metrics.
type PromSink struct {
	operations *prometheus.CounterVec
	cascade    prometheus.Histogram
	issues     *prometheus.CounterVec
	cached     prometheus.Gauge
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_operations_total",
		Help: "Planner operations by kind and outcome",
	}, []string{"operation", "outcome"})
	cascade := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_cascade_affected_modules",
		Help:    "Modules whose sessions changed after a move",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})
	issues := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_verify_issues_total",
		Help: "Verifier issues by code and severity",
	}, []string{"code", "severity"})
	cached := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planner_calendar_cache_entries",
		Help: "Excluded-day sets held in the calendar cache",
	})

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if cascade, err = register(reg, cascade); err != nil {
		return nil, err
	}
	if issues, err = register(reg, issues); err != nil {
		return nil, err
	}
	if cached, err = register(reg, cached); err != nil {
		return nil, err
	}

	return &PromSink{operations: operations, cascade: cascade, issues: issues, cached: cached}, nil
}

// register reuses an already registered collector of the same shape.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (s *PromSink) RecordOperation(operation, outcome string) {
	s.operations.WithLabelValues(operation, outcome).Inc()
}

func (s *PromSink) RecordCascade(affected int) {
	s.cascade.Observe(float64(affected))
}

func (s *PromSink) RecordIssues(issues []planner.Issue) {
	for _, is := range issues {
		s.issues.WithLabelValues(string(is.Code), string(is.Severity)).Inc()
	}
}

func (s *PromSink) SetCachedCalendars(n int) {
	s.cached.Set(float64(n))
}

// Outcome maps an operation error to its label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case generic.IsConfigurationError(err):
		return OutcomeRejected
	case generic.IsCascadeAmbiguity(err):
		return OutcomeAmbiguous
	case generic.IsNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
