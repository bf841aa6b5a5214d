package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/google/uuid"
)

// Validation messages returned in ReparentingResult.Errors
const (
	ErrMsgMoveToSelf           = "Cannot move category to itself"
	ErrMsgCategoryNotFound     = "Category not found"
	ErrMsgCategoryInactive     = "Category is inactive and cannot be moved"
	ErrMsgParentNotFound       = "New parent category not found"
	ErrMsgMoveToDescendant     = "Cannot move category to its own descendant"
	errMsgMaxDepthExceeded     = "Move would exceed maximum tree depth of %d (resulting depth %d)"
	warnMsgLargeChildren       = "Category has %d direct children; consider running this move during a maintenance window"
	warnMsgLargeSubtree        = "Category has %d descendants; consider running this move during a maintenance window"
	WarnMsgParentInactive      = "New parent category is inactive"
	WarnMsgParentBecomesBranch = "New parent category has no children and will stop being a leaf category"
	WarnMsgSameParent          = "Category is already under the requested parent"
)

// ReparentValidator checks whether a move is allowed before anything is written
type ReparentValidator struct {
	categoryRepo catalog.CategoryRepository
	settings     TreeSettings
	rules        []ReparentRule
}

// NewReparentValidator creates a new ReparentValidator
func NewReparentValidator(categoryRepo catalog.CategoryRepository, settings TreeSettings, rules ...ReparentRule) *ReparentValidator {
	return &ReparentValidator{
		categoryRepo: categoryRepo,
		settings:     settings.withDefaults(),
		rules:        rules,
	}
}

// AddRule registers an additional business rule
func (v *ReparentValidator) AddRule(rule ReparentRule) {
	v.rules = append(v.rules, rule)
}

// Validate runs the structural checks in order, then the business rules and
// the advisory warnings. The returned error is reserved for store failures;
// rejected moves come back as a ValidationResult with IsValid false.
func (v *ReparentValidator) Validate(ctx context.Context, tenantID, categoryID uuid.UUID, newParentID *uuid.UUID, opts ReparentOptions) (*ValidationResult, error) {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	if newParentID != nil && *newParentID == categoryID {
		result.addError(ErrMsgMoveToSelf)
		return result, nil
	}

	category, err := v.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			result.addError(ErrMsgCategoryNotFound)
			return result, nil
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	result.Category = category

	if !category.IsActive() {
		result.addError(ErrMsgCategoryInactive)
	}

	var newParent *catalog.Category
	if newParentID != nil {
		newParent, err = v.categoryRepo.FindByIDForTenant(ctx, tenantID, *newParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				result.addError(ErrMsgParentNotFound)
				return result, nil
			}
			return nil, fmt.Errorf("load new parent: %w", err)
		}
		result.NewParent = newParent
	}

	if newParent != nil && (newParent.ID == category.ID || newParent.HasAncestor(category.ID)) {
		result.addError(ErrMsgMoveToDescendant)
		return result, nil
	}

	if err := v.checkDepth(ctx, result, category, newParent); err != nil {
		return nil, err
	}

	childCount, err := v.categoryRepo.CountChildren(ctx, tenantID, category.ID)
	if err != nil {
		return nil, fmt.Errorf("count children: %w", err)
	}
	descendantCount, err := v.categoryRepo.CountDescendants(ctx, tenantID, category.ID)
	if err != nil {
		return nil, fmt.Errorf("count descendants: %w", err)
	}
	result.ChildCount = childCount
	result.DescendantCount = descendantCount

	if opts.ValidateConstraints && result.IsValid {
		if err := v.applyRules(ctx, result, category, newParent); err != nil {
			return nil, err
		}
	}

	if err := v.addWarnings(ctx, result, category, newParent); err != nil {
		return nil, err
	}

	return result, nil
}

func (v *ReparentValidator) checkDepth(ctx context.Context, result *ValidationResult, category, newParent *catalog.Category) error {
	parentLevel := -1
	if newParent != nil {
		parentLevel = newParent.Level
	}

	maxLevel, found, err := v.categoryRepo.MaxDescendantLevel(ctx, category.TenantID, category.ID)
	if err != nil {
		return fmt.Errorf("max descendant level: %w", err)
	}
	if !found {
		maxLevel = category.Level
	}

	finalDepth := catalog.FinalDepth(parentLevel, category.Level, maxLevel)
	if finalDepth > v.settings.MaxTreeDepth {
		result.addError(fmt.Sprintf(errMsgMaxDepthExceeded, v.settings.MaxTreeDepth, finalDepth))
	}
	return nil
}

func (v *ReparentValidator) applyRules(ctx context.Context, result *ValidationResult, category, newParent *catalog.Category) error {
	var parentRef *catalog.ParentRef
	if newParent != nil {
		parentRef = newParent.AsParent()
	}
	candidate := ReparentCandidate{
		Category:        category,
		NewParent:       newParent,
		NewPath:         catalog.CalculatePath(parentRef, category.Slug),
		DescendantCount: result.DescendantCount,
	}

	for _, rule := range v.rules {
		outcome, err := rule.Evaluate(ctx, candidate)
		if err != nil {
			return fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		for _, msg := range outcome.Errors {
			result.addError(msg)
		}
		for _, msg := range outcome.Warnings {
			result.addWarning(msg)
		}
	}
	return nil
}

func (v *ReparentValidator) addWarnings(ctx context.Context, result *ValidationResult, category, newParent *catalog.Category) error {
	if result.ChildCount > v.settings.LargeChildrenThreshold {
		result.addWarning(fmt.Sprintf(warnMsgLargeChildren, result.ChildCount))
	}
	if result.DescendantCount > v.settings.LargeSubtreeThreshold {
		result.addWarning(fmt.Sprintf(warnMsgLargeSubtree, result.DescendantCount))
	}

	if sameParent(category.ParentID, newParent) {
		result.addWarning(WarnMsgSameParent)
	}

	if newParent == nil {
		return nil
	}
	if !newParent.IsActive() {
		result.addWarning(WarnMsgParentInactive)
	}

	parentChildren, err := v.categoryRepo.CountChildren(ctx, newParent.TenantID, newParent.ID)
	if err != nil {
		return fmt.Errorf("count new parent children: %w", err)
	}
	if parentChildren == 0 {
		result.addWarning(WarnMsgParentBecomesBranch)
	}
	return nil
}

func sameParent(current *uuid.UUID, newParent *catalog.Category) bool {
	if current == nil || newParent == nil {
		return current == nil && newParent == nil
	}
	return *current == newParent.ID
}
