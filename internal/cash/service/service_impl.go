package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	cashdomain "github.com/mkadic/cashbook/internal/cash/domain"
	"github.com/mkadic/cashbook/internal/config"
	tenantdomain "github.com/mkadic/cashbook/internal/tenant/domain"
	"github.com/mkadic/cashbook/internal/tenantctx"
	"github.com/mkadic/cashbook/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Policy     *config.PolicyHolder
	Repo       cashdomain.Repository
	TenantRepo tenantdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	policy     *config.PolicyHolder
	repo       cashdomain.Repository
	tenantRepo tenantdomain.Repository
}

func New(p Params) cashdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("cash.service"),
		policy:     p.Policy,
		repo:       p.Repo,
		tenantRepo: p.TenantRepo,
	}
}

func (s *Service) Create(ctx context.Context, req cashdomain.CreateEntryRequest) (*cashdomain.CashEntry, error) {
	tenantCode, ok := tenantctx.Code(ctx)
	if !ok {
		return nil, cashdomain.ErrTenantScope
	}

	entryDate, err := cashdomain.ParseEntryDate(req.EntryDate)
	if err != nil {
		return nil, err
	}

	kind, err := cashdomain.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	if req.Amount == nil {
		return nil, cashdomain.ErrInvalidAmount
	}
	amount, err := cashdomain.NormalizeAmount(*req.Amount)
	if err != nil {
		return nil, err
	}

	entry := cashdomain.CashEntry{
		TenantCode:  tenantCode,
		EntryDate:   entryDate,
		Kind:        kind,
		Amount:      amount,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.policy.Get().AutoCreateTenants {
			if err := s.ensureTenant(ctx, tx, tenantCode); err != nil {
				return err
			}
		}
		return s.repo.Insert(ctx, tx, &entry)
	})
	if err != nil {
		if db.IsForeignKeyErr(err) {
			return nil, cashdomain.ErrUnknownTenant
		}
		if db.IsCheckConstraintErr(err) {
			return nil, cashdomain.ErrInvalidKind
		}
		return nil, err
	}

	s.log.Info("cash entry created",
		zap.Int64("entry_id", entry.ID),
		zap.String("tenant_code", tenantCode),
		zap.String("kind", string(entry.Kind)),
	)

	return &entry, nil
}

func (s *Service) List(ctx context.Context, req cashdomain.ListEntriesRequest) ([]cashdomain.CashEntry, error) {
	tenantCode, ok := tenantctx.Code(ctx)
	if !ok {
		return nil, cashdomain.ErrTenantScope
	}

	from, to, err := parseWindow(req.From, req.To)
	if err != nil {
		return nil, err
	}

	filter := cashdomain.EntryFilter{
		From:   from,
		To:     to,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	return s.repo.List(ctx, s.db, tenantCode, filter)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*cashdomain.CashEntry, error) {
	tenantCode, ok := tenantctx.Code(ctx)
	if !ok {
		return nil, cashdomain.ErrTenantScope
	}

	entry, err := s.repo.FindByID(ctx, s.db, tenantCode, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		// Rows outside the caller's scope look exactly like missing rows.
		return nil, cashdomain.ErrNotFound
	}
	return entry, nil
}

func (s *Service) Update(ctx context.Context, req cashdomain.UpdateEntryRequest) (*cashdomain.CashEntry, error) {
	entry, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// Partial update: only fields present in the payload change.
	if req.EntryDate != nil {
		entryDate, err := cashdomain.ParseEntryDate(*req.EntryDate)
		if err != nil {
			return nil, err
		}
		entry.EntryDate = entryDate
	}
	if req.Kind != nil {
		kind, err := cashdomain.ParseKind(*req.Kind)
		if err != nil {
			return nil, err
		}
		entry.Kind = kind
	}
	if req.Amount != nil {
		amount, err := cashdomain.NormalizeAmount(*req.Amount)
		if err != nil {
			return nil, err
		}
		entry.Amount = amount
	}
	if req.Description != nil {
		entry.Description = req.Description
	}

	if err := s.repo.Update(ctx, s.db, entry); err != nil {
		if db.IsCheckConstraintErr(err) {
			return nil, cashdomain.ErrInvalidKind
		}
		return nil, err
	}

	return entry, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	tenantCode, ok := tenantctx.Code(ctx)
	if !ok {
		return cashdomain.ErrTenantScope
	}

	deleted, err := s.repo.Delete(ctx, s.db, tenantCode, id)
	if err != nil {
		return err
	}
	if !deleted {
		return cashdomain.ErrNotFound
	}

	s.log.Info("cash entry deleted",
		zap.Int64("entry_id", id),
		zap.String("tenant_code", tenantCode),
	)
	return nil
}

func (s *Service) Summary(ctx context.Context, req cashdomain.SummaryRequest) (*cashdomain.Summary, error) {
	tenantCode, ok := tenantctx.Code(ctx)
	if !ok {
		return nil, cashdomain.ErrTenantScope
	}

	from, to, err := parseWindow(req.From, req.To)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Aggregate(ctx, s.db, tenantCode, from, to)
	if err != nil {
		return nil, err
	}

	// A kind absent from the result set contributes zero, not a missing
	// field.
	summary := cashdomain.Summary{
		TenantCode:   tenantCode,
		From:         from,
		To:           to,
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
	}
	for _, row := range rows {
		switch row.Kind {
		case cashdomain.KindIncome:
			summary.IncomeTotal = cashdomain.Quantize(row.Total)
			summary.IncomeCount = row.Count
		case cashdomain.KindExpense:
			summary.ExpenseTotal = cashdomain.Quantize(row.Total)
			summary.ExpenseCount = row.Count
		}
	}
	summary.NetTotal = cashdomain.Quantize(summary.IncomeTotal.Sub(summary.ExpenseTotal))

	return &summary, nil
}

func (s *Service) ensureTenant(ctx context.Context, tx *gorm.DB, code string) error {
	existing, err := s.tenantRepo.FindByCode(ctx, tx, code)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	now := time.Now().UTC()
	tenant := tenantdomain.Tenant{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tenantRepo.Insert(ctx, tx, &tenant); err != nil {
		// A concurrent request may have provisioned the same code.
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}

	s.log.Info("tenant auto-provisioned", zap.String("code", code))
	return nil
}

func parseWindow(from, to *string) (*time.Time, *time.Time, error) {
	var fromDate, toDate *time.Time
	if from != nil && *from != "" {
		t, err := cashdomain.ParseEntryDate(*from)
		if err != nil {
			return nil, nil, err
		}
		fromDate = &t
	}
	if to != nil && *to != "" {
		t, err := cashdomain.ParseEntryDate(*to)
		if err != nil {
			return nil, nil, err
		}
		toDate = &t
	}
	return fromDate, toDate, nil
}
