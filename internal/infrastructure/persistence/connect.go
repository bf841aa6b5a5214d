package persistence

import (
	"fmt"

	"github.com/erp/catalog/internal/infrastructure/config"
	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Connect opens the configured database with zap-backed GORM logging,
// installs query tracing when enabled and, for SQLite, creates the schema.
func Connect(cfg *config.Config, log *zap.Logger) (*Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	db, err := NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}

	plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        db.DBSystem(),
	}, log)
	if err := plugin.Register(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to register database tracing: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		if err := AutoMigrate(db.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
		}
	}

	return db, nil
}
