package catalog

import (
	"context"
	"sort"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// unknownLevel sorts operations whose source category cannot be loaded last
const unknownLevel = -1

// singleReparenter runs one move end to end
type singleReparenter interface {
	Reparent(ctx context.Context, req ReparentRequest) *ReparentingResult
}

// BatchOrchestrator executes several moves one after another, deepest source
// category first. Each move runs in its own transaction. Operations whose
// subtrees overlap are not detected; their outcome depends on execution order.
type BatchOrchestrator struct {
	categoryRepo catalog.CategoryRepository
	reparenter   singleReparenter
	logger       *zap.Logger
}

// NewBatchOrchestrator creates a new BatchOrchestrator
func NewBatchOrchestrator(categoryRepo catalog.CategoryRepository, reparenter singleReparenter, logger *zap.Logger) *BatchOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchOrchestrator{
		categoryRepo: categoryRepo,
		reparenter:   reparenter,
		logger:       logger,
	}
}

type orderedOperation struct {
	op    BatchOperation
	level int
}

// Order returns the operations sorted by the current level of their source
// category, deepest first. Ties keep the caller's order.
func (o *BatchOrchestrator) Order(ctx context.Context, tenantID uuid.UUID, operations []BatchOperation) []BatchOperation {
	ordered := make([]orderedOperation, len(operations))
	for i, op := range operations {
		level := unknownLevel
		category, err := o.categoryRepo.FindByIDForTenant(ctx, tenantID, op.CategoryID)
		if err == nil {
			level = category.Level
		} else {
			o.logger.Debug("batch reparent: source category level unavailable",
				zap.String("category_id", op.CategoryID.String()),
				zap.Error(err),
			)
		}
		ordered[i] = orderedOperation{op: op, level: level}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].level > ordered[j].level
	})

	result := make([]BatchOperation, len(ordered))
	for i, item := range ordered {
		result[i] = item.op
	}
	return result
}

// Execute runs the batch and returns results in execution order. Processing
// stops after the first failed move unless the batch is a dry run.
func (o *BatchOrchestrator) Execute(ctx context.Context, req BatchReparentRequest) []ReparentingResult {
	results := make([]ReparentingResult, 0, len(req.Operations))

	for _, op := range o.Order(ctx, req.TenantID, req.Operations) {
		res := o.reparenter.Reparent(ctx, ReparentRequest{
			TenantID:    req.TenantID,
			CategoryID:  op.CategoryID,
			NewParentID: op.NewParentID,
			UserID:      req.UserID,
			Options:     req.Options,
		})
		results = append(results, *res)

		if !res.Success && !req.Options.DryRun {
			o.logger.Info("batch reparent stopped after failed operation",
				zap.String("category_id", op.CategoryID.String()),
				zap.Int("executed", len(results)),
				zap.Int("total", len(req.Operations)),
			)
			break
		}
	}

	return results
}
