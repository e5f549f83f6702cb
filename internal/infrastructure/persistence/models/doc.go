// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Each model has a ToDomain method and a <Model>FromDomain constructor. Decimal columns
// use decimal(18,4) so the 0.01 balance tolerance is never lost to rounding.
//
// Structure:
//   - base.go: AggregateModel, the id, timestamp and version columns
//   - property.go: properties and leases
//   - ledger.go: accounts, transactions, journal entries and their items
//   - venue.go: events and bookings
//   - stock.go: inventory items
//   - utility.go: utility bills
//   - activity_log.go: correction and audit trail rows
package models
