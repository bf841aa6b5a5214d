package catalog

import (
	"context"
	"fmt"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/google/uuid"
)

// TransactionFailedPrefix prefixes the single error reported for a rolled-back move
const TransactionFailedPrefix = "Reparent transaction failed: "

// TreeMutator rewrites the materialized path of a moved category and all of
// its descendants inside one transaction.
type TreeMutator struct {
	txScope    TransactionScope
	statistics *StatisticsRecalculator
	batchSize  int
}

// NewTreeMutator creates a new TreeMutator
func NewTreeMutator(txScope TransactionScope, statistics *StatisticsRecalculator, settings TreeSettings) *TreeMutator {
	if statistics == nil {
		statistics = NewStatisticsRecalculator()
	}
	return &TreeMutator{
		txScope:    txScope,
		statistics: statistics,
		batchSize:  settings.withDefaults().BatchSize,
	}
}

// Execute moves category under newParentID using the precomputed newPath.
// Either every write commits or none does; on failure the result carries one
// error and zero affected counts. category itself is not modified.
func (m *TreeMutator) Execute(ctx context.Context, category *catalog.Category, newParentID *uuid.UUID, newPath catalog.PathInfo, opts ReparentOptions) *MutationResult {
	batchSize := m.batchSize
	if opts.BatchSize > 0 {
		batchSize = opts.BatchSize
	}

	moved := *category
	moved.PathIDs = category.PathInfo().PathIDs
	oldPath := category.Path
	oldLevel := category.Level
	oldParentID := category.ParentID

	var affectedCategories int
	var affectedProducts int64

	err := m.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		affectedCategories = 0
		affectedProducts = 0
		categoryRepo := repos.CategoryRepo()

		// All descendants are read before the first write.
		descendants, err := categoryRepo.FindDescendants(ctx, moved.TenantID, moved.ID)
		if err != nil {
			return fmt.Errorf("load descendants: %w", err)
		}

		moved.MoveTo(newParentID, newPath)
		if err := categoryRepo.UpdateTreeFields(ctx, &moved); err != nil {
			return fmt.Errorf("update category %s: %w", moved.ID, err)
		}
		affectedCategories++

		newBase := moved.PathInfo()
		levelDelta := newBase.Level - oldLevel

		for start := 0; start < len(descendants); start += batchSize {
			end := start + batchSize
			if end > len(descendants) {
				end = len(descendants)
			}

			batch := make([]*catalog.Category, 0, end-start)
			for i := start; i < end; i++ {
				d := &descendants[i]
				if err := d.Rebase(moved.ID, oldPath, newBase, levelDelta); err != nil {
					return err
				}
				batch = append(batch, d)
			}

			if err := categoryRepo.UpdateTreeFieldsBatch(ctx, batch); err != nil {
				return fmt.Errorf("update descendants batch at offset %d: %w", start, err)
			}
			affectedCategories += len(batch)
		}

		if opts.UpdateProducts {
			if counter := repos.ProductCounter(); counter != nil {
				affectedProducts, err = counter.CountByCategory(ctx, moved.TenantID, moved.ID)
				if err != nil {
					return fmt.Errorf("count products: %w", err)
				}
			}
		}

		return m.statistics.UpdateParents(ctx, repos, moved.TenantID, oldParentID, newParentID)
	})

	if err != nil {
		return &MutationResult{
			Success:  false,
			Errors:   []string{TransactionFailedPrefix + err.Error()},
			Warnings: []string{},
		}
	}

	return &MutationResult{
		Success:            true,
		AffectedCategories: affectedCategories,
		AffectedProducts:   affectedProducts,
		Errors:             []string{},
		Warnings:           []string{},
		Category:           &moved,
	}
}
