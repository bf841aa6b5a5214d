package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func TestLoggerProvider_Bridge(t *testing.T) {
	t.Run("disabled returns the base logger", func(t *testing.T) {
		lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, lp.IsEnabled())

		base := zap.NewNop()
		assert.Same(t, base, lp.Bridge(base))
		assert.NoError(t, lp.Shutdown(context.Background()))
	})

	t.Run("enabled tees records above the base level", func(t *testing.T) {
		exp := &recordingExporter{}
		lp := &LoggerProvider{
			provider: sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp))),
			logger:   zap.NewNop(),
			config:   LogsConfig{Enabled: true, ServiceName: "catalog-test"},
		}
		t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

		core, logs := observer.New(zapcore.InfoLevel)
		log := lp.Bridge(zap.New(core))

		log.Debug("dropped")
		log.Info("Category moved", zap.String("new_path", "/home/phones"))

		assert.Equal(t, 1, logs.Len())
		assert.Equal(t, []string{"Category moved"}, exp.bodies())
	})
}
