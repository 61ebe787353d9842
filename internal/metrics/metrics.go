// Package metrics provides operation metrics for the memory engine.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the interface the store reports into. The store
// defaults to the no-op collector; embedders wanting exposition pass
// a PromCollector and serve its registry themselves.
type Collector interface {
	RecordOperation(ctx context.Context, operation, status string, durationMs int64)
	RecordError(ctx context.Context, operation, errorType string)
	SetStorageCount(ctx context.Context, kind string, count int64)
}

// PromCollector is a Prometheus-backed Collector with its own registry.
type PromCollector struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	storageCount      *prometheus.GaugeVec
	registry          *prometheus.Registry
}

// NewCollector creates a Prometheus metrics collector.
func NewCollector() *PromCollector {
	registry := prometheus.NewRegistry()

	operationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_recall_operations_total",
			Help: "Total number of memory operations by type and status",
		},
		[]string{"operation", "status"},
	)

	operationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_recall_operation_duration_seconds",
			Help:    "Duration of memory operations by type",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"operation"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_recall_errors_total",
			Help: "Total number of errors by operation and error type",
		},
		[]string{"operation", "error_type"},
	)

	storageCount := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agent_recall_storage_count",
			Help: "Current count of stored rows by kind",
		},
		[]string{"kind"},
	)

	registry.MustRegister(operationsTotal)
	registry.MustRegister(operationDuration)
	registry.MustRegister(errorsTotal)
	registry.MustRegister(storageCount)

	return &PromCollector{
		operationsTotal:   operationsTotal,
		operationDuration: operationDuration,
		errorsTotal:       errorsTotal,
		storageCount:      storageCount,
		registry:          registry,
	}
}

// RecordOperation records the completion of an operation.
func (c *PromCollector) RecordOperation(_ context.Context, operation, status string, durationMs int64) {
	c.operationsTotal.WithLabelValues(operation, status).Inc()
	c.operationDuration.WithLabelValues(operation).Observe(float64(durationMs) / 1000.0)
}

// RecordError records a failed operation.
func (c *PromCollector) RecordError(_ context.Context, operation, errorType string) {
	c.errorsTotal.WithLabelValues(operation, errorType).Inc()
}

// SetStorageCount records the current row count for a storage kind.
func (c *PromCollector) SetStorageCount(_ context.Context, kind string, count int64) {
	c.storageCount.WithLabelValues(kind).Set(float64(count))
}

// Registry returns the collector's registry for exposition.
func (c *PromCollector) Registry() *prometheus.Registry {
	return c.registry
}
