package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindDescendants(ctx context.Context, tenantID, categoryID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountChildren(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) CountDescendants(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) MaxDescendantLevel(ctx context.Context, tenantID, categoryID uuid.UUID) (int, bool, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateTreeFields(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateTreeFieldsBatch(ctx context.Context, categories []*catalog.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateStatistics(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockProductCounter is a mock implementation of ProductCounter
type MockProductCounter struct {
	mock.Mock
}

func (m *MockProductCounter) CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

var errInjected = errors.New("injected store failure")

// memoryCategoryStore is an in-memory category table used to exercise the
// full reparent flow. Its transaction scope snapshots the table and restores
// it when the callback fails.
type memoryCategoryStore struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]catalog.Category
	products   map[uuid.UUID]int64
	failBatchN int // fail the Nth UpdateTreeFieldsBatch call when > 0
	batchCalls int
	batchSizes []int
}

func newMemoryCategoryStore() *memoryCategoryStore {
	return &memoryCategoryStore{
		rows:     make(map[uuid.UUID]catalog.Category),
		products: make(map[uuid.UUID]int64),
	}
}

func cloneCategory(c catalog.Category) catalog.Category {
	c.PathIDs = append([]uuid.UUID{}, c.PathIDs...)
	if c.ParentID != nil {
		id := *c.ParentID
		c.ParentID = &id
	}
	return c
}

func (s *memoryCategoryStore) put(c *catalog.Category) {
	s.rows[c.ID] = cloneCategory(*c)
}

func (s *memoryCategoryStore) get(id uuid.UUID) catalog.Category {
	return cloneCategory(s.rows[id])
}

func (s *memoryCategoryStore) mustFindByPathSuffix(t *testing.T, suffix string) uuid.UUID {
	t.Helper()
	for id, c := range s.rows {
		if strings.HasSuffix(c.Path, suffix) {
			return id
		}
	}
	t.Fatalf("no category with path suffix %q", suffix)
	return uuid.Nil
}

func (s *memoryCategoryStore) snapshot() map[uuid.UUID]catalog.Category {
	out := make(map[uuid.UUID]catalog.Category, len(s.rows))
	for id, c := range s.rows {
		out[id] = cloneCategory(c)
	}
	return out
}

func (s *memoryCategoryStore) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	c, ok := s.rows[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	out := cloneCategory(c)
	return &out, nil
}

func (s *memoryCategoryStore) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0)
	for _, c := range s.rows {
		if c.TenantID == tenantID {
			out = append(out, cloneCategory(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

func (s *memoryCategoryStore) FindDescendants(ctx context.Context, tenantID, categoryID uuid.UUID) ([]catalog.Category, error) {
	all, _ := s.FindAllForTenant(ctx, tenantID)
	out := make([]catalog.Category, 0)
	for _, c := range all {
		if c.HasAncestor(categoryID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memoryCategoryStore) CountChildren(_ context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range s.rows {
		if c.TenantID == tenantID && c.ParentID != nil && *c.ParentID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *memoryCategoryStore) CountDescendants(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	d, _ := s.FindDescendants(ctx, tenantID, categoryID)
	return int64(len(d)), nil
}

func (s *memoryCategoryStore) MaxDescendantLevel(ctx context.Context, tenantID, categoryID uuid.UUID) (int, bool, error) {
	d, _ := s.FindDescendants(ctx, tenantID, categoryID)
	if len(d) == 0 {
		return 0, false, nil
	}
	return d[len(d)-1].Level, true, nil
}

func (s *memoryCategoryStore) Save(_ context.Context, category *catalog.Category) error {
	s.put(category)
	return nil
}

func (s *memoryCategoryStore) UpdateTreeFields(_ context.Context, category *catalog.Category) error {
	row, ok := s.rows[category.ID]
	if !ok {
		return shared.ErrNotFound
	}
	row.ParentID = category.ParentID
	row.Path = category.Path
	row.PathIDs = category.PathIDs
	row.Level = category.Level
	row.Version = category.Version
	s.rows[category.ID] = cloneCategory(row)
	return nil
}

func (s *memoryCategoryStore) UpdateTreeFieldsBatch(ctx context.Context, categories []*catalog.Category) error {
	s.batchCalls++
	s.batchSizes = append(s.batchSizes, len(categories))
	if s.failBatchN > 0 && s.batchCalls == s.failBatchN {
		return errInjected
	}
	for _, c := range categories {
		if err := s.UpdateTreeFields(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryCategoryStore) UpdateStatistics(_ context.Context, category *catalog.Category) error {
	row, ok := s.rows[category.ID]
	if !ok {
		return shared.ErrNotFound
	}
	row.ChildCount = category.ChildCount
	row.DescendantCount = category.DescendantCount
	row.ProductCount = category.ProductCount
	s.rows[category.ID] = row
	return nil
}

func (s *memoryCategoryStore) CountByCategory(_ context.Context, _ uuid.UUID, categoryID uuid.UUID) (int64, error) {
	return s.products[categoryID], nil
}

func (s *memoryCategoryStore) CategoryRepo() catalog.CategoryRepository { return s }
func (s *memoryCategoryStore) ProductCounter() catalog.ProductCounter   { return s }

// Execute emulates a transaction: on error every row is restored
func (s *memoryCategoryStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshot()
	if err := fn(s); err != nil {
		s.rows = before
		return err
	}
	return nil
}

var _ catalog.CategoryRepository = (*memoryCategoryStore)(nil)
var _ TransactionScope = (*memoryCategoryStore)(nil)

// testTree is the electronics/phones/android + home fixture
type testTree struct {
	tenantID    uuid.UUID
	store       *memoryCategoryStore
	electronics *catalog.Category
	phones      *catalog.Category
	android     *catalog.Category
	home        *catalog.Category
}

func newTestTree() *testTree {
	tenantID := uuid.New()
	store := newMemoryCategoryStore()

	electronics, _ := catalog.NewCategory(tenantID, "electronics", "Electronics")
	phones, _ := catalog.NewChildCategory(tenantID, "phones", "Phones", electronics)
	android, _ := catalog.NewChildCategory(tenantID, "android", "Android", phones)
	home, _ := catalog.NewCategory(tenantID, "home", "Home")

	for _, c := range []*catalog.Category{electronics, phones, android, home} {
		store.put(c)
	}
	store.products[phones.ID] = 7

	return &testTree{
		tenantID:    tenantID,
		store:       store,
		electronics: electronics,
		phones:      phones,
		android:     android,
		home:        home,
	}
}

// chain appends a linear chain of depth n under parent and returns the last node
func (tt *testTree) chain(parent *catalog.Category, prefix string, n int) *catalog.Category {
	current := parent
	for i := 0; i < n; i++ {
		var child *catalog.Category
		slug := prefix + string(rune('a'+i))
		if current == nil {
			child, _ = catalog.NewCategory(tt.tenantID, slug, slug)
		} else {
			child, _ = catalog.NewChildCategory(tt.tenantID, slug, slug, current)
		}
		tt.store.put(child)
		current = child
	}
	return current
}

func (tt *testTree) service(settings TreeSettings) *ReparentService {
	return NewReparentService(tt.store, tt.store, tt.store, settings, nil)
}
