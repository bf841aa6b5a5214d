package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/erp/catalog/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.MetricsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    60 * time.Second,
		ServiceName:       "catalog-test",
	}

	mp, err := telemetry.NewMeterProvider(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, mp)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test-meter"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewReparentMetrics_NilMeter(t *testing.T) {
	rm, err := telemetry.NewReparentMetrics(telemetry.ReparentMetricsConfig{})
	assert.Nil(t, rm)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
	assert.Equal(t, "NewReparentMetrics: meter cannot be nil", err.Error())
}

func TestReparentMetrics_RecordReparent(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	rm, err := telemetry.NewReparentMetrics(telemetry.ReparentMetricsConfig{
		Meter:  provider.Meter("catalog-test"),
		Logger: zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	tenantID := uuid.New()
	rm.RecordReparent(ctx, tenantID, "committed", 3, 20*time.Millisecond)
	rm.RecordReparent(ctx, tenantID, "committed", 1, 5*time.Millisecond)
	rm.RecordReparent(ctx, tenantID, "rejected", 0, time.Millisecond)

	var rm2 metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm2))

	found := map[string]bool{}
	for _, scope := range rm2.ScopeMetrics {
		for _, m := range scope.Metrics {
			found[m.Name] = true
			switch m.Name {
			case "catalog_reparent_total":
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				assert.Equal(t, int64(3), total)
				assert.Len(t, sum.DataPoints, 2)
			case "catalog_reparent_affected_categories":
				hist, ok := m.Data.(metricdata.Histogram[float64])
				require.True(t, ok)
				require.Len(t, hist.DataPoints, 1)
				assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
				assert.Equal(t, float64(4), hist.DataPoints[0].Sum)
			}
		}
	}

	assert.True(t, found["catalog_reparent_total"])
	assert.True(t, found["catalog_reparent_affected_categories"])
	assert.True(t, found["catalog_reparent_duration_seconds"])
}
