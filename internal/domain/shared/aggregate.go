package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseAggregateRoot is the identity of an aggregate plus the version used
// for optimistic locking.
type BaseAggregateRoot struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// IncrementVersion bumps the optimistic-lock version
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// TenantAggregateRoot is an aggregate owned by a single tenant
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID uuid.UUID
}

// NewTenantAggregateRoot returns a version 1 aggregate with a fresh id
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	now := time.Now()
	return TenantAggregateRoot{
		BaseAggregateRoot: BaseAggregateRoot{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
			Version:   1,
		},
		TenantID: tenantID,
	}
}
