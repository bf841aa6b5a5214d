package persistence

import (
	"github.com/erp/catalog/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AutoMigrate creates the catalog tables from the GORM models. It backs the
// SQLite local mode; PostgreSQL deployments run the SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.CategoryModel{}, &models.ProductModel{})
}
