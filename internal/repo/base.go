package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base holds the GORM handle shared by the domain repositories and binds
// request contexts onto queries in one place.
type Base struct {
	db *gorm.DB
}

// NewBase wraps a GORM connection or transaction.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the handle scoped to ctx so cancellation propagates into
// the driver.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Rebind returns a Base backed by tx. Repositories use it to produce a
// transaction-scoped copy of themselves.
func (b Base) Rebind(tx *gorm.DB) Base {
	return Base{db: tx}
}
