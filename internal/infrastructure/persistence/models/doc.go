// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
//   - Persistence models carry all GORM annotations and table mappings
//   - ToDomain / ...FromDomain mappers convert between the two
//   - Repositories use persistence models for database operations
//
// Table and column names match migrations/000001_init_store_schema.up.sql.
package models
