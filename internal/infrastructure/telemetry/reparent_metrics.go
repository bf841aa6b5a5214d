package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ReparentMetrics records the outcome of category tree moves
type ReparentMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	reparentTotal      *Counter
	affectedCategories *Histogram
	duration           *Histogram
}

// ReparentMetricsConfig holds configuration for reparent metrics.
type ReparentMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewReparentMetrics creates a new ReparentMetrics instance.
func NewReparentMetrics(cfg ReparentMetricsConfig) (*ReparentMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rm := &ReparentMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error
	rm.reparentTotal, err = NewCounter(
		cfg.Meter,
		"catalog_reparent_total",
		"Total number of category reparent operations by outcome",
		"{operations}",
	)
	if err != nil {
		return nil, err
	}

	rm.affectedCategories, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "catalog_reparent_affected_categories",
		Description: "Number of categories rewritten by one reparent operation",
		Unit:        "{categories}",
		Boundaries:  []float64{1, 2, 5, 10, 50, 100, 500, 1000, 5000, 10000},
	})
	if err != nil {
		return nil, err
	}

	rm.duration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "catalog_reparent_duration_seconds",
		Description: "Duration of category reparent operations",
		Unit:        "s",
		Boundaries:  []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Reparent metrics initialized")
	return rm, nil
}

// RecordReparent records one finished reparent operation
func (m *ReparentMetrics) RecordReparent(ctx context.Context, tenantID uuid.UUID, outcome string, affected int, d time.Duration) {
	attrs := []attribute.KeyValue{
		AttrTenantID.String(tenantID.String()),
		AttrOutcome.String(outcome),
	}
	m.reparentTotal.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, d, attrs...)
	if affected > 0 {
		m.affectedCategories.Record(ctx, float64(affected), attrs...)
	}
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewReparentMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
