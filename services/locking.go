// services/locking.go
package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a FOR UPDATE row lock on dialects that support
// it. SQLite serializes writers at the connection level, so the clause
// is skipped there (it is also a syntax error).
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
