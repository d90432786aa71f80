package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryFilter narrows a tenant-scoped listing.
type EntryFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// KindAggregate is one group row of the summary query.
type KindAggregate struct {
	Kind  Kind
	Count int64
	Total decimal.Decimal
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *CashEntry) error
	FindByID(ctx context.Context, db *gorm.DB, tenantCode string, id int64) (*CashEntry, error)
	List(ctx context.Context, db *gorm.DB, tenantCode string, filter EntryFilter) ([]CashEntry, error)
	Update(ctx context.Context, db *gorm.DB, entry *CashEntry) error
	Delete(ctx context.Context, db *gorm.DB, tenantCode string, id int64) (bool, error)
	Aggregate(ctx context.Context, db *gorm.DB, tenantCode string, from, to *time.Time) ([]KindAggregate, error)
}
