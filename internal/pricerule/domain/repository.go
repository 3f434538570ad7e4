package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rule *PriceRule) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PriceRule, error)
	// List returns every rule in insertion order.
	List(ctx context.Context, db *gorm.DB) ([]*PriceRule, error)
	FindActiveInScope(ctx context.Context, db *gorm.DB, serviceType, category, nameKey string) ([]*PriceRule, error)
	// Update overwrites every column and reports whether the row existed.
	Update(ctx context.Context, db *gorm.DB, rule *PriceRule) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
