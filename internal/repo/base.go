package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Tail loads the last n rows of dest's table ordered by column, returned in ascending order.
// dest must point to a slice.
func (b Base) Tail(ctx context.Context, dest any, column string, n int) error {
	if n <= 0 {
		return nil
	}
	latest := b.DB(ctx).Model(dest).Select(column).Order(column + " DESC").Limit(n)
	return b.DB(ctx).Where(column+" IN (?)", latest).Order(column + " ASC").Find(dest).Error
}
