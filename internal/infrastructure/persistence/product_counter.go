package persistence

import (
	"context"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductCounter counts products per category from the products table
type GormProductCounter struct {
	db *gorm.DB
}

// NewGormProductCounter creates a new GormProductCounter
func NewGormProductCounter(db *gorm.DB) *GormProductCounter {
	return &GormProductCounter{db: db}
}

// CountByCategory counts products in a specific category
func (r *GormProductCounter) CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("tenant_id = ? AND category_id = ?", tenantID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ catalog.ProductCounter = (*GormProductCounter)(nil)
