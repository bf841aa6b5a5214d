package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByIDForTenant finds a category by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)

	// FindAllForTenant finds all categories for a tenant ordered by level, sort order and name
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Category, error)

	// FindDescendants finds every category whose ancestor list contains categoryID,
	// ordered by ascending level
	FindDescendants(ctx context.Context, tenantID, categoryID uuid.UUID) ([]Category, error)

	// CountChildren counts the direct children of a category
	CountChildren(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error)

	// CountDescendants counts every category whose ancestor list contains categoryID
	CountDescendants(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error)

	// MaxDescendantLevel returns the deepest level in the subtree below categoryID.
	// The boolean is false when the category has no descendants.
	MaxDescendantLevel(ctx context.Context, tenantID, categoryID uuid.UUID) (int, bool, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// UpdateTreeFields persists parent_id, path, path_ids and level of one category
	UpdateTreeFields(ctx context.Context, category *Category) error

	// UpdateTreeFieldsBatch persists the tree fields of several categories
	UpdateTreeFieldsBatch(ctx context.Context, categories []*Category) error

	// UpdateStatistics persists the derived child, descendant and product counts
	UpdateStatistics(ctx context.Context, category *Category) error
}

// ProductCounter counts products attached to a category. Products belong to
// another bounded context; the catalog tree only ever reads this count.
type ProductCounter interface {
	CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error)
}
