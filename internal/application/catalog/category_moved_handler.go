package catalog

import (
	"context"
	"fmt"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryMovedHandler invalidates the tenant's cached category tree once a
// move has committed
type CategoryMovedHandler struct {
	logger    *zap.Logger
	treeCache CategoryTreeCache
}

// NewCategoryMovedHandler creates a new handler for category moved events
func NewCategoryMovedHandler(treeCache CategoryTreeCache, logger *zap.Logger) *CategoryMovedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryMovedHandler{
		logger:    logger,
		treeCache: treeCache,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CategoryMovedHandler) EventTypes() []string {
	return []string{catalog.EventTypeCategoryMoved}
}

// Handle processes a CategoryMovedEvent
func (h *CategoryMovedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	movedEvent, ok := event.(*catalog.CategoryMovedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeCategoryMoved),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeCategoryMoved, event.EventType())
	}

	h.logger.Info("category moved",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("category_id", movedEvent.CategoryID.String()),
		zap.String("old_path", movedEvent.OldPath),
		zap.String("new_path", movedEvent.NewPath),
		zap.Int("affected_categories", movedEvent.AffectedCategories),
		zap.String("moved_by", movedEvent.MovedBy),
	)

	if h.treeCache == nil {
		return nil
	}
	if err := h.treeCache.Invalidate(ctx, event.TenantID()); err != nil {
		return fmt.Errorf("invalidate category tree cache: %w", err)
	}
	return nil
}

var _ shared.EventHandler = (*CategoryMovedHandler)(nil)
