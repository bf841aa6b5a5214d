// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of
// ORM tags; repositories convert with ToDomain / FromDomain.
//
// Structure:
//   - base.go: identity, version and timestamp columns shared by aggregates
//   - catalog.go: categories with their materialized path, and the product
//     columns read when counting products per category
package models
