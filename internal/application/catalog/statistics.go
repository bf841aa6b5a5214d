package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// StatisticsRecalculator recomputes the derived counts stored on a category.
// The counts are advisory; nothing in the tree logic reads them back.
type StatisticsRecalculator struct{}

// NewStatisticsRecalculator creates a new StatisticsRecalculator
func NewStatisticsRecalculator() *StatisticsRecalculator {
	return &StatisticsRecalculator{}
}

// Update recomputes child, descendant and product counts for one category
func (s *StatisticsRecalculator) Update(ctx context.Context, repos TransactionalRepositories, tenantID, categoryID uuid.UUID) error {
	categoryRepo := repos.CategoryRepo()

	category, err := categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if err != nil {
		return fmt.Errorf("load category %s: %w", categoryID, err)
	}

	childCount, err := categoryRepo.CountChildren(ctx, tenantID, categoryID)
	if err != nil {
		return fmt.Errorf("count children of %s: %w", categoryID, err)
	}
	descendantCount, err := categoryRepo.CountDescendants(ctx, tenantID, categoryID)
	if err != nil {
		return fmt.Errorf("count descendants of %s: %w", categoryID, err)
	}

	var productCount int64
	if counter := repos.ProductCounter(); counter != nil {
		productCount, err = counter.CountByCategory(ctx, tenantID, categoryID)
		if err != nil {
			return fmt.Errorf("count products of %s: %w", categoryID, err)
		}
	}

	category.UpdateStatistics(childCount, descendantCount, productCount)
	return categoryRepo.UpdateStatistics(ctx, category)
}

// UpdateParents recomputes statistics for every distinct non-nil parent id.
// Only the parents on either side of the moved edge change child counts.
func (s *StatisticsRecalculator) UpdateParents(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, parentIDs ...*uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		if id == nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}

		if err := s.Update(ctx, repos, tenantID, *id); err != nil {
			return err
		}
	}
	return nil
}
