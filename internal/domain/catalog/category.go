package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/catalog/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultMaxTreeDepth is the default maximum level a category may reach
const DefaultMaxTreeDepth = 10

// CategoryStatus represents the status of a category
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

// Category represents a product category in the marketplace catalog.
// The tree position is stored as a materialized path: Path holds the slug
// chain, PathIDs the ordered ancestor ids (root first, self excluded) and
// Level the depth, which always equals len(PathIDs).
type Category struct {
	shared.TenantAggregateRoot
	Slug        string
	Name        string
	Description string
	ParentID    *uuid.UUID
	Path        string
	PathIDs     []uuid.UUID
	Level       int
	SortOrder   int
	Status      CategoryStatus

	// Derived statistics, recomputed after tree mutations
	ChildCount      int64
	DescendantCount int64
	ProductCount    int64
}

// NewCategory creates a new root category
func NewCategory(tenantID uuid.UUID, slug, name string) (*Category, error) {
	if err := validateCategorySlug(slug); err != nil {
		return nil, err
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Slug:                strings.ToLower(slug),
		Name:                name,
		Status:              CategoryStatusActive,
	}
	category.applyPathInfo(CalculatePath(nil, category.Slug))

	return category, nil
}

// NewChildCategory creates a new child category under a parent
func NewChildCategory(tenantID uuid.UUID, slug, name string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category is required")
	}
	if err := validateCategorySlug(slug); err != nil {
		return nil, err
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Slug:                strings.ToLower(slug),
		Name:                name,
		ParentID:            &parent.ID,
		Status:              CategoryStatusActive,
	}
	category.applyPathInfo(CalculatePath(parent.AsParent(), category.Slug))

	return category, nil
}

// PathInfo returns a copy of the category's materialized path fields
func (c *Category) PathInfo() PathInfo {
	ids := make([]uuid.UUID, len(c.PathIDs))
	copy(ids, c.PathIDs)
	return PathInfo{
		Path:    c.Path,
		PathIDs: ids,
		Level:   c.Level,
	}
}

// AsParent returns the reference CalculatePath needs to place a child here
func (c *Category) AsParent() *ParentRef {
	return &ParentRef{ID: c.ID, PathInfo: c.PathInfo()}
}

// MoveTo re-parents the category using precomputed path information.
// newParentID is nil when the category becomes a root.
func (c *Category) MoveTo(newParentID *uuid.UUID, info PathInfo) {
	if newParentID != nil {
		id := *newParentID
		c.ParentID = &id
	} else {
		c.ParentID = nil
	}
	c.applyPathInfo(info)
	c.touch()
}

// Rebase rewrites a descendant's path fields after one of its ancestors
// (movedID, previously at oldBasePath) moved to newBase.
func (c *Category) Rebase(movedID uuid.UUID, oldBasePath string, newBase PathInfo, levelDelta int) error {
	info, err := RebasePath(c.PathInfo(), movedID, oldBasePath, newBase, levelDelta)
	if err != nil {
		return err
	}
	c.applyPathInfo(info)
	c.touch()
	return nil
}

// UpdateStatistics replaces the derived tree statistics
func (c *Category) UpdateStatistics(childCount, descendantCount, productCount int64) {
	c.ChildCount = childCount
	c.DescendantCount = descendantCount
	c.ProductCount = productCount
	c.UpdatedAt = time.Now()
}

// Activate activates the category
func (c *Category) Activate() error {
	if c.Status == CategoryStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Category is already active")
	}

	c.Status = CategoryStatusActive
	c.touch()

	return nil
}

// Deactivate deactivates the category
func (c *Category) Deactivate() error {
	if c.Status == CategoryStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Category is already inactive")
	}

	c.Status = CategoryStatusInactive
	c.touch()

	return nil
}

// IsActive returns true if the category is active
func (c *Category) IsActive() bool {
	return c.Status == CategoryStatusActive
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// HasAncestor reports whether id appears in the category's ancestor list
func (c *Category) HasAncestor(id uuid.UUID) bool {
	return containsID(c.PathIDs, id)
}

// IsAncestorOf returns true if this category is an ancestor of the given category
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil {
		return false
	}
	return other.HasAncestor(c.ID)
}

// IsDescendantOf returns true if this category is a descendant of the given category
func (c *Category) IsDescendantOf(other *Category) bool {
	if other == nil {
		return false
	}
	return c.HasAncestor(other.ID)
}

// CheckInvariants verifies the materialized path fields are self-consistent
func (c *Category) CheckInvariants(maxDepth int) error {
	if c.Level != len(c.PathIDs) {
		return fmt.Errorf("category %s: level %d does not match %d ancestors", c.ID, c.Level, len(c.PathIDs))
	}
	if c.HasAncestor(c.ID) {
		return fmt.Errorf("category %s: ancestor list contains itself", c.ID)
	}
	if maxDepth > 0 && c.Level > maxDepth {
		return fmt.Errorf("category %s: level %d exceeds maximum depth %d", c.ID, c.Level, maxDepth)
	}
	if !strings.HasSuffix(c.Path, PathSeparator+c.Slug) {
		return fmt.Errorf("category %s: path %q does not end with slug %q", c.ID, c.Path, c.Slug)
	}
	return nil
}

func (c *Category) applyPathInfo(info PathInfo) {
	c.Path = info.Path
	c.PathIDs = info.PathIDs
	c.Level = info.Level
}

func (c *Category) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// validateCategorySlug validates the category slug
func validateCategorySlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Category slug cannot be empty")
	}
	if len(slug) > 100 {
		return shared.NewDomainError("INVALID_SLUG", "Category slug cannot exceed 100 characters")
	}
	for _, r := range slug {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Category slug can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateCategoryName validates the category name
func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
