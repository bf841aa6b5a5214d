package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/erp/catalog/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForTenant finds a category by ID within a tenant
func (r *GormCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all categories for a tenant ordered for tree assembly
func (r *GormCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("level ASC, sort_order ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainCategories(rows), nil
}

// FindDescendants finds every category whose ancestor list contains categoryID.
// The moved category itself is never part of the result.
func (r *GormCategoryRepository) FindDescendants(ctx context.Context, tenantID, categoryID uuid.UUID) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.descendantsOf(ctx, tenantID, categoryID).
		Order("level ASC, path ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainCategories(rows), nil
}

// CountChildren counts the direct children of a category
func (r *GormCategoryRepository) CountChildren(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("tenant_id = ? AND parent_id = ?", tenantID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountDescendants counts the subtree below a category
func (r *GormCategoryRepository) CountDescendants(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.descendantsOf(ctx, tenantID, categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MaxDescendantLevel returns the deepest level below a category
func (r *GormCategoryRepository) MaxDescendantLevel(ctx context.Context, tenantID, categoryID uuid.UUID) (int, bool, error) {
	var maxLevel sql.NullInt64
	if err := r.descendantsOf(ctx, tenantID, categoryID).
		Select("MAX(level)").
		Row().
		Scan(&maxLevel); err != nil {
		return 0, false, err
	}
	if !maxLevel.Valid {
		return 0, false, nil
	}
	return int(maxLevel.Int64), true, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(category)).Error
}

// UpdateTreeFields persists the tree position of one category
func (r *GormCategoryRepository) UpdateTreeFields(ctx context.Context, category *catalog.Category) error {
	result := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("tenant_id = ? AND id = ?", category.TenantID, category.ID).
		Updates(treeFields(category))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateTreeFieldsBatch persists the tree position of several categories.
// It runs on the repository's connection, so callers wanting atomicity pass a
// repository bound to a transaction.
func (r *GormCategoryRepository) UpdateTreeFieldsBatch(ctx context.Context, categories []*catalog.Category) error {
	for _, c := range categories {
		if err := r.UpdateTreeFields(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatistics persists the derived counts of a category
func (r *GormCategoryRepository) UpdateStatistics(ctx context.Context, category *catalog.Category) error {
	result := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("tenant_id = ? AND id = ?", category.TenantID, category.ID).
		Updates(map[string]interface{}{
			"child_count":      category.ChildCount,
			"descendant_count": category.DescendantCount,
			"product_count":    category.ProductCount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// descendantsOf scopes a query to the subtree below categoryID using the
// ancestor id array. PostgreSQL answers the containment from the GIN index on
// path_ids; SQLite matches the id inside the stored array literal.
func (r *GormCategoryRepository) descendantsOf(ctx context.Context, tenantID, categoryID uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("tenant_id = ?", tenantID)
	if r.db.Dialector.Name() == "postgres" {
		return query.Where("path_ids @> ARRAY[?]::text[]", categoryID.String())
	}
	return query.Where("instr(path_ids, ?) > 0", categoryID.String())
}

func treeFields(c *catalog.Category) map[string]interface{} {
	ids := models.IDArray(c.PathIDs)
	if ids == nil {
		ids = models.IDArray{}
	}
	return map[string]interface{}{
		"parent_id":  c.ParentID,
		"path":       c.Path,
		"path_ids":   ids,
		"level":      c.Level,
		"version":    c.Version,
		"updated_at": c.UpdatedAt,
	}
}

func toDomainCategories(rows []models.CategoryModel) []catalog.Category {
	categories := make([]catalog.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
