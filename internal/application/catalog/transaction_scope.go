package catalog

import (
	"context"

	"github.com/erp/catalog/internal/domain/catalog"
)

// TransactionScope provides transactional access to the catalog repositories.
// All repository operations made through fn share one database transaction and
// are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to the current transaction
type TransactionalRepositories interface {
	// CategoryRepo returns the category repository scoped to the current transaction
	CategoryRepo() catalog.CategoryRepository
	// ProductCounter returns the product counter scoped to the current transaction
	ProductCounter() catalog.ProductCounter
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Useful for tests and read-only flows.
type NoOpTransactionScope struct {
	categoryRepo   catalog.CategoryRepository
	productCounter catalog.ProductCounter
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(categoryRepo catalog.CategoryRepository, productCounter catalog.ProductCounter) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		categoryRepo:   categoryRepo,
		productCounter: productCounter,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CategoryRepo returns the category repository.
func (s *NoOpTransactionScope) CategoryRepo() catalog.CategoryRepository {
	return s.categoryRepo
}

// ProductCounter returns the product counter.
func (s *NoOpTransactionScope) ProductCounter() catalog.ProductCounter {
	return s.productCounter
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
