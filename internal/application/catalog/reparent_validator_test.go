package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReparentValidator_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("self move short-circuits before any lookup", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		v := NewReparentValidator(repo, DefaultTreeSettings())
		id := uuid.New()

		result, err := v.Validate(ctx, uuid.New(), id, &id, DefaultReparentOptions())
		require.NoError(t, err)
		assert.False(t, result.IsValid)
		assert.Equal(t, []string{ErrMsgMoveToSelf}, result.Errors)
		repo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing category", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		tenantID := uuid.New()
		id := uuid.New()
		repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)
		v := NewReparentValidator(repo, DefaultTreeSettings())

		result, err := v.Validate(ctx, tenantID, id, nil, DefaultReparentOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{ErrMsgCategoryNotFound}, result.Errors)
		repo.AssertExpectations(t)
	})

	t.Run("store failure is returned as error", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		tenantID := uuid.New()
		id := uuid.New()
		repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, errors.New("connection reset"))
		v := NewReparentValidator(repo, DefaultTreeSettings())

		result, err := v.Validate(ctx, tenantID, id, nil, DefaultReparentOptions())
		assert.Nil(t, result)
		assert.ErrorContains(t, err, "connection reset")
	})

	t.Run("missing new parent", func(t *testing.T) {
		tt := newTestTree()
		v := NewReparentValidator(tt.store, DefaultTreeSettings())
		missing := uuid.New()

		result, err := v.Validate(ctx, tt.tenantID, tt.phones.ID, &missing, DefaultReparentOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{ErrMsgParentNotFound}, result.Errors)
	})

	t.Run("inactive category accumulates with depth error", func(t *testing.T) {
		tt := newTestTree()
		phones := tt.store.get(tt.phones.ID)
		require.NoError(t, phones.Deactivate())
		tt.store.put(&phones)

		settings := DefaultTreeSettings()
		settings.MaxTreeDepth = 1
		v := NewReparentValidator(tt.store, settings)

		result, err := v.Validate(ctx, tt.tenantID, tt.phones.ID, &tt.home.ID, DefaultReparentOptions())
		require.NoError(t, err)
		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, ErrMsgCategoryInactive, result.Errors[0])
		assert.Contains(t, result.Errors[1], "maximum tree depth of 1")
	})

	t.Run("direct child as new parent is a cycle", func(t *testing.T) {
		tt := newTestTree()
		v := NewReparentValidator(tt.store, DefaultTreeSettings())

		result, err := v.Validate(ctx, tt.tenantID, tt.electronics.ID, &tt.phones.ID, DefaultReparentOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{ErrMsgMoveToDescendant}, result.Errors)
	})

	t.Run("cycle check uses the ancestor list without descendant queries", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		tenantID := uuid.New()
		root, _ := catalog.NewCategory(tenantID, "root", "Root")
		child, _ := catalog.NewChildCategory(tenantID, "child", "Child", root)
		repo.On("FindByIDForTenant", ctx, tenantID, root.ID).Return(root, nil)
		repo.On("FindByIDForTenant", ctx, tenantID, child.ID).Return(child, nil)
		v := NewReparentValidator(repo, DefaultTreeSettings())

		result, err := v.Validate(ctx, tenantID, root.ID, &child.ID, DefaultReparentOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{ErrMsgMoveToDescendant}, result.Errors)
		repo.AssertNotCalled(t, "FindDescendants", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "MaxDescendantLevel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("warnings do not affect validity", func(t *testing.T) {
		tt := newTestTree()
		settings := TreeSettings{MaxTreeDepth: 10, LargeChildrenThreshold: 1, LargeSubtreeThreshold: 1, BatchSize: 10}
		tt.chain(tt.phones, "s", 1)

		home := tt.store.get(tt.home.ID)
		require.NoError(t, home.Deactivate())
		tt.store.put(&home)

		v := NewReparentValidator(tt.store, settings)
		result, err := v.Validate(ctx, tt.tenantID, tt.phones.ID, &tt.home.ID, DefaultReparentOptions())
		require.NoError(t, err)

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
		assert.Contains(t, result.Warnings, "Category has 2 direct children; consider running this move during a maintenance window")
		assert.Contains(t, result.Warnings, "Category has 2 descendants; consider running this move during a maintenance window")
		assert.Contains(t, result.Warnings, WarnMsgParentInactive)
		assert.Contains(t, result.Warnings, WarnMsgParentBecomesBranch)
		assert.Equal(t, int64(2), result.ChildCount)
		assert.Equal(t, int64(2), result.DescendantCount)
	})

	t.Run("moving under current parent is allowed with warning", func(t *testing.T) {
		tt := newTestTree()
		v := NewReparentValidator(tt.store, DefaultTreeSettings())

		result, err := v.Validate(ctx, tt.tenantID, tt.phones.ID, &tt.electronics.ID, DefaultReparentOptions())
		require.NoError(t, err)
		assert.True(t, result.IsValid)
		assert.Contains(t, result.Warnings, WarnMsgSameParent)
	})

	t.Run("rule receives computed path and may warn", func(t *testing.T) {
		tt := newTestTree()
		var seen ReparentCandidate
		rule := ReparentRuleFunc{
			RuleName: "observer",
			Fn: func(_ context.Context, c ReparentCandidate) (RuleOutcome, error) {
				seen = c
				return RuleOutcome{Warnings: []string{"brand mapping will be reviewed"}}, nil
			},
		}
		v := NewReparentValidator(tt.store, DefaultTreeSettings(), rule)

		result, err := v.Validate(ctx, tt.tenantID, tt.phones.ID, &tt.home.ID, DefaultReparentOptions())
		require.NoError(t, err)
		assert.True(t, result.IsValid)
		assert.Contains(t, result.Warnings, "brand mapping will be reviewed")
		assert.Equal(t, "/home/phones", seen.NewPath.Path)
		assert.Equal(t, int64(1), seen.DescendantCount)
	})

	t.Run("rule error surfaces as error", func(t *testing.T) {
		tt := newTestTree()
		rule := ReparentRuleFunc{
			RuleName: "broken",
			Fn: func(context.Context, ReparentCandidate) (RuleOutcome, error) {
				return RuleOutcome{}, errors.New("lookup failed")
			},
		}
		v := NewReparentValidator(tt.store, DefaultTreeSettings(), rule)

		_, err := v.Validate(ctx, tt.tenantID, tt.phones.ID, &tt.home.ID, DefaultReparentOptions())
		assert.ErrorContains(t, err, "rule broken")
	})
}
