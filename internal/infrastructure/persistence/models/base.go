package models

import (
	"time"

	"github.com/erp/catalog/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateModel holds the identity, timestamps and optimistic-lock version
// of an aggregate row.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Version   int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *AggregateModel) fromAggregate(a shared.BaseAggregateRoot) {
	m.ID = a.ID
	m.Version = a.Version
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
}

func (m *AggregateModel) toAggregate(a *shared.BaseAggregateRoot) {
	a.ID = m.ID
	a.Version = m.Version
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
}
