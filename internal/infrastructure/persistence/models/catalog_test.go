package models

import (
	"testing"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryModel_RoundTrip(t *testing.T) {
	tenantID := uuid.New()
	root, err := catalog.NewCategory(tenantID, "electronics", "Electronics")
	require.NoError(t, err)
	child, err := catalog.NewChildCategory(tenantID, "phones", "Phones", root)
	require.NoError(t, err)
	child.Version = 4
	child.ProductCount = 7

	m := CategoryModelFromDomain(child)
	assert.Equal(t, child.ID, m.ID)
	assert.Equal(t, tenantID, m.TenantID)
	assert.Equal(t, 4, m.Version)

	got := m.ToDomain()
	assert.Equal(t, child.ID, got.ID)
	assert.Equal(t, tenantID, got.TenantID)
	assert.Equal(t, 4, got.Version)
	assert.Equal(t, child.CreatedAt, got.CreatedAt)
	assert.Equal(t, child.UpdatedAt, got.UpdatedAt)
	assert.Equal(t, "/electronics/phones", got.Path)
	assert.Equal(t, []uuid.UUID{root.ID}, got.PathIDs)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, &root.ID, got.ParentID)
	assert.Equal(t, int64(7), got.ProductCount)
}

func TestCategoryModel_RootHasEmptyPathIDs(t *testing.T) {
	root, err := catalog.NewCategory(uuid.New(), "books", "Books")
	require.NoError(t, err)

	m := CategoryModelFromDomain(root)
	assert.NotNil(t, m.PathIDs)
	assert.Empty(t, m.ToDomain().PathIDs)
	assert.NotNil(t, m.ToDomain().PathIDs)
}
