package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/erp/catalog/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reparent outcomes reported to metrics
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeRejected   = "rejected"
	OutcomeDryRun     = "dry_run"
)

// CategoryTreeCache stores the serialized category tree per tenant
type CategoryTreeCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) ([]byte, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, data []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// ReparentService moves categories within the tenant's category tree
type ReparentService struct {
	categoryRepo   catalog.CategoryRepository
	productCounter catalog.ProductCounter
	validator      *ReparentValidator
	mutator        *TreeMutator
	batch          *BatchOrchestrator
	logger         *zap.Logger

	eventPublisher shared.EventPublisher
	treeCache      CategoryTreeCache
	treeCacheTTL   time.Duration
	metrics        *telemetry.ReparentMetrics
}

// NewReparentService creates a new ReparentService
func NewReparentService(
	categoryRepo catalog.CategoryRepository,
	productCounter catalog.ProductCounter,
	txScope TransactionScope,
	settings TreeSettings,
	logger *zap.Logger,
) *ReparentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings = settings.withDefaults()

	s := &ReparentService{
		categoryRepo:   categoryRepo,
		productCounter: productCounter,
		validator:      NewReparentValidator(categoryRepo, settings),
		mutator:        NewTreeMutator(txScope, NewStatisticsRecalculator(), settings),
		logger:         logger,
		treeCacheTTL:   10 * time.Minute,
	}
	s.batch = NewBatchOrchestrator(categoryRepo, s, logger)
	return s
}

// SetEventPublisher sets the publisher used for CategoryMoved events
func (s *ReparentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTreeCache sets the read-side tree cache and its TTL
func (s *ReparentService) SetTreeCache(cache CategoryTreeCache, ttl time.Duration) {
	s.treeCache = cache
	if ttl > 0 {
		s.treeCacheTTL = ttl
	}
}

// SetReparentMetrics sets the metrics recorder
func (s *ReparentService) SetReparentMetrics(m *telemetry.ReparentMetrics) {
	s.metrics = m
}

// AddRule registers a business rule evaluated for every move
func (s *ReparentService) AddRule(rule ReparentRule) {
	s.validator.AddRule(rule)
}

// Reparent validates and executes a single move, or estimates it when
// Options.DryRun is set. It never returns a Go error; every failure is
// reported in the result.
func (s *ReparentService) Reparent(ctx context.Context, req ReparentRequest) *ReparentingResult {
	start := time.Now()
	opts := req.Options

	ctx, span := telemetry.StartServiceSpan(ctx, "category", "reparent",
		telemetry.WithAttribute("tenant_id", req.TenantID.String()),
		telemetry.WithAttribute("category_id", req.CategoryID.String()),
		telemetry.WithAttribute("dry_run", opts.DryRun),
	)
	defer span.End()

	log := s.logger.With(
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("category_id", req.CategoryID.String()),
		zap.Bool("dry_run", opts.DryRun),
	)
	if req.NewParentID != nil {
		log = log.With(zap.String("new_parent_id", req.NewParentID.String()))
	}

	result := newReparentingResult(req.CategoryID, opts.DryRun)
	outcome := OutcomeRejected
	defer func() {
		result.ExecutionTimeMs = time.Since(start).Milliseconds()
		telemetry.SetAttributes(span,
			"outcome", outcome,
			"affected_categories", result.AffectedCategories,
		)
		if result.Success {
			telemetry.SetOK(span)
		}
		if s.metrics != nil {
			s.metrics.RecordReparent(ctx, req.TenantID, outcome, result.AffectedCategories, time.Since(start))
		}
	}()

	validation, err := s.validator.Validate(ctx, req.TenantID, req.CategoryID, req.NewParentID, opts)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("reparent validation failed", zap.Error(err))
		result.Errors = append(result.Errors, TransactionFailedPrefix+err.Error())
		outcome = OutcomeRolledBack
		return result
	}

	result.Warnings = append(result.Warnings, validation.Warnings...)
	if validation.Category != nil {
		result.OldPath = validation.Category.Path
	}
	if len(validation.Warnings) > 0 {
		log.Debug("reparent warnings", zap.Strings("warnings", validation.Warnings))
	}

	if !validation.IsValid {
		result.Errors = append(result.Errors, validation.Errors...)
		log.Info("reparent rejected", zap.Strings("errors", validation.Errors))
		return result
	}

	category := validation.Category
	var parentRef *catalog.ParentRef
	if validation.NewParent != nil {
		parentRef = validation.NewParent.AsParent()
	}
	newPath := catalog.CalculatePath(parentRef, category.Slug)
	result.NewPath = newPath.Path

	if opts.DryRun {
		return s.estimate(ctx, req, validation, result, log, &outcome)
	}

	mutation := s.mutator.Execute(ctx, category, req.NewParentID, newPath, opts)
	result.Warnings = append(result.Warnings, mutation.Warnings...)
	if !mutation.Success {
		result.Errors = append(result.Errors, mutation.Errors...)
		outcome = OutcomeRolledBack
		log.Error("reparent transaction rolled back", zap.Strings("errors", mutation.Errors))
		return result
	}

	result.Success = true
	result.AffectedCategories = mutation.AffectedCategories
	result.AffectedProducts = mutation.AffectedProducts
	outcome = OutcomeCommitted

	log.Info("category reparented",
		zap.String("old_path", result.OldPath),
		zap.String("new_path", result.NewPath),
		zap.Int("affected_categories", result.AffectedCategories),
		zap.Int64("affected_products", result.AffectedProducts),
	)

	s.afterCommit(ctx, req, category, mutation, log)
	return result
}

// estimate fills a dry-run result from counts only. Nothing is written.
func (s *ReparentService) estimate(
	ctx context.Context,
	req ReparentRequest,
	validation *ValidationResult,
	result *ReparentingResult,
	log *zap.Logger,
	outcome *string,
) *ReparentingResult {
	var products int64
	if s.productCounter != nil && req.Options.UpdateProducts {
		count, err := s.productCounter.CountByCategory(ctx, req.TenantID, req.CategoryID)
		if err != nil {
			log.Error("dry run product count failed", zap.Error(err))
			result.Errors = append(result.Errors, TransactionFailedPrefix+err.Error())
			*outcome = OutcomeRolledBack
			return result
		}
		products = count
	}

	result.Success = true
	result.AffectedCategories = 1 + int(validation.DescendantCount)
	result.AffectedProducts = products
	*outcome = OutcomeDryRun

	log.Info("reparent dry run",
		zap.String("old_path", result.OldPath),
		zap.String("new_path", result.NewPath),
		zap.Int("affected_categories", result.AffectedCategories),
		zap.Int64("affected_products", result.AffectedProducts),
	)
	return result
}

func (s *ReparentService) afterCommit(ctx context.Context, req ReparentRequest, before *catalog.Category, mutation *MutationResult, log *zap.Logger) {
	if s.eventPublisher != nil && mutation.Category != nil {
		event := catalog.NewCategoryMovedEvent(
			mutation.Category,
			before.ParentID,
			before.Path,
			before.Level,
			mutation.AffectedCategories,
			req.UserID,
		)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// The move is committed; a lost event only delays cache invalidation.
			log.Warn("failed to publish category moved event", zap.Error(err))
		}
		return
	}

	if s.treeCache != nil {
		if err := s.treeCache.Invalidate(ctx, req.TenantID); err != nil {
			log.Warn("failed to invalidate category tree cache", zap.Error(err))
		}
	}
}

// BatchReparent executes several moves deepest-first and returns their
// results in execution order
func (s *ReparentService) BatchReparent(ctx context.Context, req BatchReparentRequest) []ReparentingResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "batch_reparent",
		telemetry.WithAttribute("tenant_id", req.TenantID.String()),
		telemetry.WithAttribute("operations", len(req.Operations)),
		telemetry.WithAttribute("dry_run", req.Options.DryRun),
	)
	defer span.End()

	results := s.batch.Execute(ctx, req)
	telemetry.SetAttributes(span, "executed", len(results))
	return results
}

// GetTree returns the tenant's category tree, served from the tree cache when present
func (s *ReparentService) GetTree(ctx context.Context, tenantID uuid.UUID) ([]*CategoryTreeNode, error) {
	if s.treeCache != nil {
		data, ok, err := s.treeCache.Get(ctx, tenantID)
		if err != nil {
			s.logger.Warn("category tree cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		} else if ok {
			var tree []*CategoryTreeNode
			if err := json.Unmarshal(data, &tree); err == nil {
				return tree, nil
			}
		}
	}

	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	tree := BuildCategoryTree(categories)

	if s.treeCache != nil {
		if data, err := json.Marshal(tree); err == nil {
			if err := s.treeCache.Set(ctx, tenantID, data, s.treeCacheTTL); err != nil {
				s.logger.Warn("category tree cache write failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
			}
		}
	}

	return tree, nil
}
