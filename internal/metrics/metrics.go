// Package metrics counts sequence steps on a private Prometheus registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// Metrics implements sequence.Metrics.
type Metrics struct {
	reg *prometheus.Registry

	// StepsTotal counts executed steps by kind and outcome.
	StepsTotal *prometheus.CounterVec
	// RecordsAffected counts records inserted, updated, deleted or returned, by step kind.
	RecordsAffected *prometheus.CounterVec
	StepDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		StepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookops_steps_total",
				Help: "Total number of executed sequence steps",
			},
			[]string{"kind", "status"},
		),
		RecordsAffected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookops_records_affected_total",
				Help: "Total number of records affected by sequence steps",
			},
			[]string{"kind"},
		),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookops_step_duration_seconds",
				Help:    "Sequence step latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) ObserveStep(kind string, affected int64, d time.Duration, err error) {
	status := statusOK
	if err != nil {
		status = statusError
	}
	m.StepsTotal.WithLabelValues(kind, status).Inc()
	m.RecordsAffected.WithLabelValues(kind).Add(float64(affected))
	m.StepDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
