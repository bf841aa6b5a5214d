package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// IDArray stores an ordered list of ids. PostgreSQL keeps it as text[] so
// the ancestor containment predicate can use a GIN index; SQLite keeps the
// same array literal in a text column.
type IDArray []uuid.UUID

// Value implements driver.Valuer
func (a IDArray) Value() (driver.Value, error) {
	strs := make(pq.StringArray, len(a))
	for i, id := range a {
		strs[i] = id.String()
	}
	return strs.Value()
}

// Scan implements sql.Scanner
func (a *IDArray) Scan(src any) error {
	var strs pq.StringArray
	if err := strs.Scan(src); err != nil {
		return fmt.Errorf("scan id array: %w", err)
	}
	ids := make(IDArray, 0, len(strs))
	for _, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("scan id array: %w", err)
		}
		ids = append(ids, id)
	}
	*a = ids
	return nil
}

// GormDataType returns the generic data type for GORM
func (IDArray) GormDataType() string {
	return "id_array"
}

// GormDBDataType returns the column type for the active dialect
func (IDArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// CategoryModel is the persistence model for the Category domain entity.
// (tenant_id, path) is unique so two categories can never share a path.
type CategoryModel struct {
	AggregateModel
	TenantID        uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_categories_tenant_path,priority:1"`
	Slug            string                 `gorm:"type:varchar(100);not null"`
	Name            string                 `gorm:"type:varchar(100);not null"`
	Description     string                 `gorm:"type:text"`
	ParentID        *uuid.UUID             `gorm:"type:uuid;index"`
	Path            string                 `gorm:"type:varchar(1100);not null;uniqueIndex:idx_categories_tenant_path,priority:2"`
	PathIDs         IDArray                `gorm:"column:path_ids;not null"`
	Level           int                    `gorm:"not null;default:0;index"`
	SortOrder       int                    `gorm:"not null;default:0"`
	Status          catalog.CategoryStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ChildCount      int64                  `gorm:"not null;default:0"`
	DescendantCount int64                  `gorm:"not null;default:0"`
	ProductCount    int64                  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	c := &catalog.Category{
		Slug:            m.Slug,
		Name:            m.Name,
		Description:     m.Description,
		ParentID:        m.ParentID,
		Path:            m.Path,
		PathIDs:         []uuid.UUID(m.PathIDs),
		Level:           m.Level,
		SortOrder:       m.SortOrder,
		Status:          m.Status,
		ChildCount:      m.ChildCount,
		DescendantCount: m.DescendantCount,
		ProductCount:    m.ProductCount,
	}
	if c.PathIDs == nil {
		c.PathIDs = []uuid.UUID{}
	}
	m.toAggregate(&c.BaseAggregateRoot)
	c.TenantID = m.TenantID
	return c
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.fromAggregate(c.BaseAggregateRoot)
	m.TenantID = c.TenantID
	m.Slug = c.Slug
	m.Name = c.Name
	m.Description = c.Description
	m.ParentID = c.ParentID
	m.Path = c.Path
	m.PathIDs = IDArray(c.PathIDs)
	if m.PathIDs == nil {
		m.PathIDs = IDArray{}
	}
	m.Level = c.Level
	m.SortOrder = c.SortOrder
	m.Status = c.Status
	m.ChildCount = c.ChildCount
	m.DescendantCount = c.DescendantCount
	m.ProductCount = c.ProductCount
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// ProductModel maps the columns of the products table the catalog tree reads.
// Product data itself is owned by the product service.
type ProductModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}
