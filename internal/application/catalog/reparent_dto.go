package catalog

import (
	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/google/uuid"
)

// DefaultReparentBatchSize is the number of descendants rewritten per batch
const DefaultReparentBatchSize = 100

// ReparentOptions controls a single move or a batch of moves
type ReparentOptions struct {
	ValidateConstraints bool `json:"validate_constraints"`
	UpdateProducts      bool `json:"update_products"`
	BatchSize           int  `json:"batch_size"`
	DryRun              bool `json:"dry_run"`
}

// DefaultReparentOptions returns the options used when the caller sends none
func DefaultReparentOptions() ReparentOptions {
	return ReparentOptions{
		ValidateConstraints: true,
		UpdateProducts:      true,
		BatchSize:           DefaultReparentBatchSize,
	}
}

// ReparentRequest moves one category under a new parent.
// A nil NewParentID moves the category to the root.
type ReparentRequest struct {
	TenantID    uuid.UUID
	CategoryID  uuid.UUID
	NewParentID *uuid.UUID
	// UserID is passed through to the CategoryMoved event for auditing
	UserID  string
	Options ReparentOptions
}

// BatchOperation is one move inside a batch request
type BatchOperation struct {
	CategoryID  uuid.UUID  `json:"category_id"`
	NewParentID *uuid.UUID `json:"new_parent_id"`
}

// BatchReparentRequest moves several categories in depth-descending order
type BatchReparentRequest struct {
	TenantID   uuid.UUID
	UserID     string
	Operations []BatchOperation
	Options    ReparentOptions
}

// ReparentingResult is the outcome of one move. Every failure, including store
// errors, is reported through Errors rather than returned as a Go error.
type ReparentingResult struct {
	Success            bool      `json:"success"`
	CategoryID         uuid.UUID `json:"category_id"`
	OldPath            string    `json:"old_path"`
	NewPath            string    `json:"new_path"`
	AffectedCategories int       `json:"affected_categories"`
	AffectedProducts   int64     `json:"affected_products"`
	Errors             []string  `json:"errors"`
	Warnings           []string  `json:"warnings"`
	ExecutionTimeMs    int64     `json:"execution_time_ms"`
	DryRun             bool      `json:"dry_run"`
}

func newReparentingResult(categoryID uuid.UUID, dryRun bool) *ReparentingResult {
	return &ReparentingResult{
		CategoryID: categoryID,
		Errors:     []string{},
		Warnings:   []string{},
		DryRun:     dryRun,
	}
}

// ValidationResult is the outcome of ReparentValidator.Validate
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	// Loaded while validating so callers do not read them twice
	Category        *catalog.Category `json:"-"`
	NewParent       *catalog.Category `json:"-"`
	ChildCount      int64             `json:"-"`
	DescendantCount int64             `json:"-"`
}

func (r *ValidationResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

func (r *ValidationResult) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// MutationResult is the outcome of TreeMutator.Execute
type MutationResult struct {
	Success            bool
	AffectedCategories int
	AffectedProducts   int64
	Errors             []string
	Warnings           []string

	// Category holds the moved category's committed state on success
	Category *catalog.Category
}

// CategoryTreeNode is one node of the read-side category tree
type CategoryTreeNode struct {
	ID              uuid.UUID           `json:"id"`
	Slug            string              `json:"slug"`
	Name            string              `json:"name"`
	Path            string              `json:"path"`
	Level           int                 `json:"level"`
	SortOrder       int                 `json:"sort_order"`
	Status          string              `json:"status"`
	ChildCount      int64               `json:"child_count"`
	DescendantCount int64               `json:"descendant_count"`
	ProductCount    int64               `json:"product_count"`
	Children        []*CategoryTreeNode `json:"children"`
}

// BuildCategoryTree assembles the flat category list into root nodes.
// Categories must be ordered by level so parents are seen before children.
func BuildCategoryTree(categories []catalog.Category) []*CategoryTreeNode {
	nodes := make(map[uuid.UUID]*CategoryTreeNode, len(categories))
	roots := make([]*CategoryTreeNode, 0)

	for i := range categories {
		c := &categories[i]
		node := &CategoryTreeNode{
			ID:              c.ID,
			Slug:            c.Slug,
			Name:            c.Name,
			Path:            c.Path,
			Level:           c.Level,
			SortOrder:       c.SortOrder,
			Status:          string(c.Status),
			ChildCount:      c.ChildCount,
			DescendantCount: c.DescendantCount,
			ProductCount:    c.ProductCount,
			Children:        make([]*CategoryTreeNode, 0),
		}
		nodes[c.ID] = node

		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			// orphaned rows surface as roots rather than disappearing
			roots = append(roots, node)
		}
	}

	return roots
}
