package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mkadic/cashbook/internal/cash/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.CashEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantCode string, id int64) (*domain.CashEntry, error) {
	var entry domain.CashEntry
	err := db.WithContext(ctx).
		Where("tenant_code = ? AND id = ?", tenantCode, id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantCode string, filter domain.EntryFilter) ([]domain.CashEntry, error) {
	var entries []domain.CashEntry
	stmt := db.WithContext(ctx).
		Model(&domain.CashEntry{}).
		Where("tenant_code = ?", tenantCode)
	if filter.From != nil {
		stmt = stmt.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("entry_date <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		stmt = stmt.Offset(filter.Offset)
	}
	err := stmt.
		Order("entry_date asc, id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, entry *domain.CashEntry) error {
	return db.WithContext(ctx).Exec(
		`UPDATE cash_entries
		 SET entry_date = ?, kind = ?, amount = ?, description = ?
		 WHERE tenant_code = ? AND id = ?`,
		entry.EntryDate,
		entry.Kind,
		entry.Amount,
		entry.Description,
		entry.TenantCode,
		entry.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantCode string, id int64) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM cash_entries WHERE tenant_code = ? AND id = ?`,
		tenantCode,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Aggregate(ctx context.Context, db *gorm.DB, tenantCode string, from, to *time.Time) ([]domain.KindAggregate, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.CashEntry{}).
		Select("kind, COUNT(id) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("tenant_code = ?", tenantCode)
	if from != nil {
		stmt = stmt.Where("entry_date >= ?", *from)
	}
	if to != nil {
		stmt = stmt.Where("entry_date <= ?", *to)
	}

	var rows []domain.KindAggregate
	if err := stmt.Group("kind").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
