package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Paginate applies a page window to a list query. Callers pass validated
// values; a non-positive page or size leaves the query unpaginated.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 || pageSize < 1 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// LockForUpdate takes a row-level write lock inside the current transaction.
// SQLite serializes writers on its own and rejects FOR UPDATE, so the scope
// is a no-op there (the in-memory test database).
func LockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
