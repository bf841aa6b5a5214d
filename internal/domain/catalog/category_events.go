package catalog

import (
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeCategory = "Category"

// Event type constants
const (
	EventTypeCategoryMoved = "CategoryMoved"
)

// CategoryMovedEvent is published after a reparent operation commits
type CategoryMovedEvent struct {
	shared.BaseDomainEvent
	CategoryID         uuid.UUID  `json:"category_id"`
	OldParentID        *uuid.UUID `json:"old_parent_id,omitempty"`
	NewParentID        *uuid.UUID `json:"new_parent_id,omitempty"`
	OldPath            string     `json:"old_path"`
	NewPath            string     `json:"new_path"`
	OldLevel           int        `json:"old_level"`
	NewLevel           int        `json:"new_level"`
	AffectedCategories int        `json:"affected_categories"`
	MovedBy            string     `json:"moved_by,omitempty"`
}

// NewCategoryMovedEvent creates a new CategoryMovedEvent from the category's
// post-move state and the values it had before the move.
func NewCategoryMovedEvent(category *Category, oldParentID *uuid.UUID, oldPath string, oldLevel, affected int, movedBy string) *CategoryMovedEvent {
	return &CategoryMovedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeCategoryMoved, AggregateTypeCategory, category.ID, category.TenantID),
		CategoryID:         category.ID,
		OldParentID:        oldParentID,
		NewParentID:        category.ParentID,
		OldPath:            oldPath,
		NewPath:            category.Path,
		OldLevel:           oldLevel,
		NewLevel:           category.Level,
		AffectedCategories: affected,
		MovedBy:            movedBy,
	}
}
