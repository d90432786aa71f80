package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CreateEntryRequest struct {
	EntryDate   string
	Kind        string
	Amount      *decimal.Decimal
	Description *string
}

type UpdateEntryRequest struct {
	ID          int64
	EntryDate   *string
	Kind        *string
	Amount      *decimal.Decimal
	Description *string
}

type ListEntriesRequest struct {
	From   *string
	To     *string
	Limit  int
	Offset int
}

type SummaryRequest struct {
	From *string
	To   *string
}

// Summary aggregates a tenant's entries by kind over an optional inclusive
// date window. Totals are zero, never absent, for kinds with no rows.
type Summary struct {
	TenantCode   string
	From         *time.Time
	To           *time.Time
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	NetTotal     decimal.Decimal
	IncomeCount  int64
	ExpenseCount int64
}

type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (*CashEntry, error)
	List(ctx context.Context, req ListEntriesRequest) ([]CashEntry, error)
	GetByID(ctx context.Context, id int64) (*CashEntry, error)
	Update(ctx context.Context, req UpdateEntryRequest) (*CashEntry, error)
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context, req SummaryRequest) (*Summary, error)
}
