package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include query variables in spans (dev only)
	SlowQueryThresh time.Duration // queries above this are flagged on their span
	DBSystem        string        // "postgresql" or "sqlite"
	// TracerProvider overrides the global provider when set
	TracerProvider trace.TracerProvider
}

// DBTracingPlugin registers otelgorm plus slow query marking on a GORM DB.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryStartKey struct{}

// Register installs the tracing plugin. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// Annotation must run before otelgorm ends the span.
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("catalog_timing:before_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("catalog_timing:before_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("catalog_timing:before_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("catalog_timing:before_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("catalog_timing:before_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("catalog_timing:before_raw", markQueryStart),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("catalog_timing:after_create", p.annotateSpan),
		cb.Query().After("gorm:query").Before("otel:after:query").Register("catalog_timing:after_query", p.annotateSpan),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("catalog_timing:after_update", p.annotateSpan),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("catalog_timing:after_delete", p.annotateSpan),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("catalog_timing:after_row", p.annotateSpan),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("catalog_timing:after_raw", p.annotateSpan),
	} {
		if err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
