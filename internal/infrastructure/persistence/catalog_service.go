package persistence

import (
	appcatalog "github.com/erp/catalog/internal/application/catalog"
	"github.com/erp/catalog/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewReparentService wires the reparent service to GORM-backed repositories
// and transactions on db
func NewReparentService(db *gorm.DB, settings appcatalog.TreeSettings, logger *zap.Logger) *appcatalog.ReparentService {
	return appcatalog.NewReparentService(
		NewGormCategoryRepository(db),
		NewGormProductCounter(db),
		NewGormTransactionScope(db),
		settings,
		logger,
	)
}

// TreeSettings converts the catalog configuration section
func TreeSettings(cfg config.CatalogConfig) appcatalog.TreeSettings {
	return appcatalog.TreeSettings{
		MaxTreeDepth:           cfg.MaxTreeDepth,
		LargeSubtreeThreshold:  cfg.LargeSubtreeThreshold,
		LargeChildrenThreshold: cfg.LargeChildrenThreshold,
		BatchSize:              cfg.ReparentBatchSize,
	}
}
