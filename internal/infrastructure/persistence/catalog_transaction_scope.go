package persistence

import (
	"context"

	appcatalog "github.com/erp/catalog/internal/application/catalog"
	"github.com/erp/catalog/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the callback shares the same transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// CategoryRepo returns the category repository bound to the current transaction.
func (r *gormTransactionalRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

// ProductCounter returns the product counter bound to the current transaction.
func (r *gormTransactionalRepositories) ProductCounter() catalog.ProductCounter {
	return NewGormProductCounter(r.tx)
}

var _ appcatalog.TransactionScope = (*GormTransactionScope)(nil)

var _ appcatalog.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
