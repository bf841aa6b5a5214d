package handler

import (
	"context"
	"strings"

	appcatalog "github.com/erp/catalog/internal/application/catalog"
	"github.com/erp/catalog/internal/interfaces/http/dto"
	"github.com/erp/catalog/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryReparenter is the application surface used by CategoryHandler
type CategoryReparenter interface {
	Reparent(ctx context.Context, req appcatalog.ReparentRequest) *appcatalog.ReparentingResult
	BatchReparent(ctx context.Context, req appcatalog.BatchReparentRequest) []appcatalog.ReparentingResult
	GetTree(ctx context.Context, tenantID uuid.UUID) ([]*appcatalog.CategoryTreeNode, error)
}

// CategoryHandler handles category tree API endpoints
type CategoryHandler struct {
	BaseHandler
	service CategoryReparenter
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service CategoryReparenter) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// ReparentOptionsRequest overrides the default move options. Omitted
// booleans keep their defaults.
type ReparentOptionsRequest struct {
	ValidateConstraints *bool `json:"validate_constraints"`
	UpdateProducts      *bool `json:"update_products"`
	BatchSize           int   `json:"batch_size" binding:"omitempty,min=1,max=10000"`
	DryRun              bool  `json:"dry_run"`
}

func (r *ReparentOptionsRequest) toOptions() appcatalog.ReparentOptions {
	opts := appcatalog.DefaultReparentOptions()
	if r == nil {
		return opts
	}
	if r.ValidateConstraints != nil {
		opts.ValidateConstraints = *r.ValidateConstraints
	}
	if r.UpdateProducts != nil {
		opts.UpdateProducts = *r.UpdateProducts
	}
	if r.BatchSize > 0 {
		opts.BatchSize = r.BatchSize
	}
	opts.DryRun = r.DryRun
	return opts
}

// MoveCategoryRequest moves one category. A missing new_parent_id moves it to the root.
type MoveCategoryRequest struct {
	NewParentID *string                 `json:"new_parent_id" binding:"omitempty,uuid"`
	Options     *ReparentOptionsRequest `json:"options"`
}

// BatchMoveOperation is one move inside a batch
type BatchMoveOperation struct {
	CategoryID  string  `json:"category_id" binding:"required,uuid"`
	NewParentID *string `json:"new_parent_id" binding:"omitempty,uuid"`
}

// BatchMoveRequest moves several categories, deepest first
type BatchMoveRequest struct {
	Operations []BatchMoveOperation    `json:"operations" binding:"required,min=1,max=1000,dive"`
	Options    *ReparentOptionsRequest `json:"options"`
}

// BatchMoveResponse reports every executed move in execution order
type BatchMoveResponse struct {
	Requested int                            `json:"requested"`
	Executed  int                            `json:"executed"`
	Succeeded int                            `json:"succeeded"`
	Failed    int                            `json:"failed"`
	Results   []appcatalog.ReparentingResult `json:"results"`
}

// RegisterRoutes registers the category tree routes
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/catalog/categories")
	categories.GET("/tree", h.GetTree)
	categories.POST("/batch-move", h.BatchMove)
	categories.POST("/:id/move", h.Move)
}

// Move moves a category and its subtree under a new parent.
// A rejected move answers 422 and a rolled back move 409; both carry the
// full result in data.
func (h *CategoryHandler) Move(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	categoryID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req MoveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result := h.service.Reparent(c.Request.Context(), appcatalog.ReparentRequest{
		TenantID:    tenantID,
		CategoryID:  categoryID,
		NewParentID: parseOptionalUUID(req.NewParentID),
		UserID:      middleware.GetUserID(c),
		Options:     req.Options.toOptions(),
	})

	if result.Success {
		h.Success(c, result)
		return
	}

	code := dto.ErrCodeReparentRejected
	if failedInTransaction(result) {
		code = dto.ErrCodeReparentFailed
	}
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithData(
		code,
		strings.Join(result.Errors, "; "),
		middleware.GetRequestID(c),
		result,
	))
}

// BatchMove executes several moves. Individual failures are reported in
// the results; the request itself succeeds once it has been executed.
func (h *CategoryHandler) BatchMove(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req BatchMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	ops := make([]appcatalog.BatchOperation, len(req.Operations))
	for i, op := range req.Operations {
		ops[i] = appcatalog.BatchOperation{
			CategoryID:  uuid.MustParse(op.CategoryID),
			NewParentID: parseOptionalUUID(op.NewParentID),
		}
	}

	results := h.service.BatchReparent(c.Request.Context(), appcatalog.BatchReparentRequest{
		TenantID:   tenantID,
		UserID:     middleware.GetUserID(c),
		Operations: ops,
		Options:    req.Options.toOptions(),
	})

	resp := BatchMoveResponse{
		Requested: len(ops),
		Executed:  len(results),
		Results:   results,
	}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	h.Success(c, resp)
}

// GetTree returns the tenant's category tree
func (h *CategoryHandler) GetTree(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	tree, err := h.service.GetTree(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// parseOptionalUUID parses a value already validated by the uuid binding tag
func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id := uuid.MustParse(*s)
	return &id
}

func failedInTransaction(result *appcatalog.ReparentingResult) bool {
	for _, e := range result.Errors {
		if strings.HasPrefix(e, appcatalog.TransactionFailedPrefix) {
			return true
		}
	}
	return false
}
