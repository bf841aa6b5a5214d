package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates root category with valid inputs", func(t *testing.T) {
		category, err := NewCategory(tenantID, "electronics", "Electronics")
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, tenantID, category.TenantID)
		assert.Equal(t, "electronics", category.Slug)
		assert.Equal(t, "Electronics", category.Name)
		assert.Nil(t, category.ParentID)
		assert.Equal(t, 0, category.Level)
		assert.Empty(t, category.PathIDs)
		assert.Equal(t, "/electronics", category.Path)
		assert.Equal(t, CategoryStatusActive, category.Status)
		assert.True(t, category.IsRoot())
		assert.NotEqual(t, uuid.Nil, category.ID)
	})

	t.Run("lowercases slug", func(t *testing.T) {
		category, err := NewCategory(tenantID, "Electronics", "Electronics")
		require.NoError(t, err)
		assert.Equal(t, "electronics", category.Slug)
		assert.Equal(t, "/electronics", category.Path)
	})

	t.Run("fails with empty slug", func(t *testing.T) {
		_, err := NewCategory(tenantID, "", "Electronics")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "slug cannot be empty")
	})

	t.Run("fails with invalid slug characters", func(t *testing.T) {
		_, err := NewCategory(tenantID, "elec/tronics", "Electronics")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can only contain letters")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory(tenantID, "electronics", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestNewChildCategory(t *testing.T) {
	tenantID := uuid.New()
	parent, err := NewCategory(tenantID, "electronics", "Electronics")
	require.NoError(t, err)

	t.Run("creates child category under parent", func(t *testing.T) {
		child, err := NewChildCategory(tenantID, "phones", "Phones", parent)
		require.NoError(t, err)

		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
		assert.Equal(t, 1, child.Level)
		assert.Equal(t, []uuid.UUID{parent.ID}, child.PathIDs)
		assert.Equal(t, "/electronics/phones", child.Path)
		assert.False(t, child.IsRoot())
		assert.NoError(t, child.CheckInvariants(DefaultMaxTreeDepth))
	})

	t.Run("grandchild carries full ancestor chain", func(t *testing.T) {
		child, err := NewChildCategory(tenantID, "phones", "Phones", parent)
		require.NoError(t, err)
		grandchild, err := NewChildCategory(tenantID, "android", "Android", child)
		require.NoError(t, err)

		assert.Equal(t, []uuid.UUID{parent.ID, child.ID}, grandchild.PathIDs)
		assert.Equal(t, 2, grandchild.Level)
		assert.Equal(t, "/electronics/phones/android", grandchild.Path)
		assert.True(t, parent.IsAncestorOf(grandchild))
		assert.True(t, grandchild.IsDescendantOf(child))
		assert.False(t, grandchild.IsAncestorOf(parent))
	})

	t.Run("fails with nil parent", func(t *testing.T) {
		_, err := NewChildCategory(tenantID, "phones", "Phones", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Parent category is required")
	})

	t.Run("parent path ids are not aliased", func(t *testing.T) {
		child, err := NewChildCategory(tenantID, "phones", "Phones", parent)
		require.NoError(t, err)
		grandchild, err := NewChildCategory(tenantID, "android", "Android", child)
		require.NoError(t, err)

		grandchild.PathIDs[0] = uuid.New()
		assert.Equal(t, parent.ID, child.PathIDs[0])
	})
}

func TestCategory_MoveTo(t *testing.T) {
	tenantID := uuid.New()
	home, _ := NewCategory(tenantID, "home", "Home")
	electronics, _ := NewCategory(tenantID, "electronics", "Electronics")
	phones, _ := NewChildCategory(tenantID, "phones", "Phones", electronics)

	t.Run("moves under new parent", func(t *testing.T) {
		version := phones.Version
		info := CalculatePath(home.AsParent(), phones.Slug)
		phones.MoveTo(&home.ID, info)

		require.NotNil(t, phones.ParentID)
		assert.Equal(t, home.ID, *phones.ParentID)
		assert.Equal(t, "/home/phones", phones.Path)
		assert.Equal(t, []uuid.UUID{home.ID}, phones.PathIDs)
		assert.Equal(t, 1, phones.Level)
		assert.Equal(t, version+1, phones.Version)
	})

	t.Run("moves to root", func(t *testing.T) {
		phones.MoveTo(nil, CalculatePath(nil, phones.Slug))

		assert.True(t, phones.IsRoot())
		assert.Equal(t, "/phones", phones.Path)
		assert.Empty(t, phones.PathIDs)
		assert.Equal(t, 0, phones.Level)
	})
}

func TestCategory_Rebase(t *testing.T) {
	tenantID := uuid.New()
	electronics, _ := NewCategory(tenantID, "electronics", "Electronics")
	phones, _ := NewChildCategory(tenantID, "phones", "Phones", electronics)
	android, _ := NewChildCategory(tenantID, "android", "Android", phones)
	home, _ := NewCategory(tenantID, "home", "Home")

	oldPath := phones.Path
	oldLevel := phones.Level
	phones.MoveTo(&home.ID, CalculatePath(home.AsParent(), phones.Slug))

	err := android.Rebase(phones.ID, oldPath, phones.PathInfo(), phones.Level-oldLevel)
	require.NoError(t, err)

	assert.Equal(t, "/home/phones/android", android.Path)
	assert.Equal(t, []uuid.UUID{home.ID, phones.ID}, android.PathIDs)
	assert.Equal(t, 2, android.Level)
	assert.NoError(t, android.CheckInvariants(DefaultMaxTreeDepth))
}

func TestCategory_Status(t *testing.T) {
	category, _ := NewCategory(uuid.New(), "garden", "Garden")

	require.True(t, category.IsActive())
	require.Error(t, category.Activate())

	require.NoError(t, category.Deactivate())
	assert.False(t, category.IsActive())
	assert.Error(t, category.Deactivate())

	require.NoError(t, category.Activate())
	assert.True(t, category.IsActive())
}

func TestCategory_CheckInvariants(t *testing.T) {
	category, _ := NewCategory(uuid.New(), "garden", "Garden")

	t.Run("level mismatch", func(t *testing.T) {
		c := *category
		c.Level = 2
		assert.ErrorContains(t, c.CheckInvariants(DefaultMaxTreeDepth), "does not match")
	})

	t.Run("self in ancestors", func(t *testing.T) {
		c := *category
		c.PathIDs = []uuid.UUID{c.ID}
		c.Level = 1
		assert.ErrorContains(t, c.CheckInvariants(DefaultMaxTreeDepth), "contains itself")
	})

	t.Run("too deep", func(t *testing.T) {
		c := *category
		c.PathIDs = []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		c.Level = 3
		assert.ErrorContains(t, c.CheckInvariants(2), "exceeds maximum depth")
	})

	t.Run("path without slug", func(t *testing.T) {
		c := *category
		c.Path = "/other"
		assert.ErrorContains(t, c.CheckInvariants(DefaultMaxTreeDepth), "does not end with slug")
	})
}

func TestCategory_UpdateStatistics(t *testing.T) {
	category, _ := NewCategory(uuid.New(), "garden", "Garden")
	category.UpdateStatistics(3, 7, 42)

	assert.Equal(t, int64(3), category.ChildCount)
	assert.Equal(t, int64(7), category.DescendantCount)
	assert.Equal(t, int64(42), category.ProductCount)
}
