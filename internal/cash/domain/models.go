// Package domain contains the cash entry model, input normalization and
// service contracts for tenant-scoped bookkeeping.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a cash entry as money in or money out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// DateLayout is the wire format for entry dates.
const DateLayout = "2006-01-02"

// CashEntry is one ledger line belonging to exactly one tenant.
type CashEntry struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantCode  string          `gorm:"type:text;not null;index:ix_cash_entries_tenant_date,priority:1" json:"tenant_code"`
	EntryDate   time.Time       `gorm:"type:date;not null;index:ix_cash_entries_tenant_date,priority:2" json:"entry_date"`
	Kind        Kind            `gorm:"type:text;not null;check:chk_cash_entries_kind,kind IN ('income','expense')" json:"kind"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CashEntry) TableName() string { return "cash_entries" }

var (
	ErrInvalidKind   = errors.New("kind must be income or expense")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidDate   = errors.New("entry_date must be a YYYY-MM-DD date")
	ErrTenantScope   = errors.New("tenant scope required")
	ErrUnknownTenant = errors.New("unknown tenant code")
	ErrNotFound      = errors.New("cash entry not found")
)

// ParseKind normalizes a raw kind value. Matching is case-insensitive and the
// in/out shorthands are accepted.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "income", "in":
		return KindIncome, nil
	case "expense", "out":
		return KindExpense, nil
	default:
		return "", ErrInvalidKind
	}
}

// NormalizeAmount quantizes an amount to two fractional digits, rounding half
// up, and rejects non-positive values.
func NormalizeAmount(raw decimal.Decimal) (decimal.Decimal, error) {
	if raw.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return raw.Round(2), nil
}

// Quantize renders any decimal at the stored 2-digit scale.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseEntryDate parses the calendar date of an entry.
func ParseEntryDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
