package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/mkadic/cashbook/internal/tenant/domain"
	"github.com/mkadic/cashbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("tenant.service"),
		repo: p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTenantRequest) (*domain.Tenant, error) {
	code := NormalizeCode(req.Code)
	if code == "" || len(code) > domain.MaxCodeLength {
		return nil, domain.ErrInvalidCode
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &tenant); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeExists
		}
		return nil, err
	}

	s.log.Info("tenant created",
		zap.String("tenant_id", tenant.ID),
		zap.String("code", tenant.Code),
	)

	return &tenant, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Tenant, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}

	tenant, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTenantRequest) (*domain.Tenant, error) {
	tenant, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// Partial update: untouched fields keep their stored values.
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		tenant.Name = name
		tenant.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, s.db, tenant); err != nil {
			return nil, err
		}
	}

	return tenant, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenant, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Postgres cascades via the FK; the explicit delete keeps sqlite and
	// mysql deployments consistent.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM cash_entries WHERE tenant_code = ?`, tenant.Code).Error; err != nil {
			return err
		}

		deleted, err := s.repo.Delete(ctx, tx, tenant.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}

		s.log.Info("tenant deleted",
			zap.String("tenant_id", tenant.ID),
			zap.String("code", tenant.Code),
		)
		return nil
	})
}

// NormalizeCode canonicalizes a human-chosen tenant code.
func NormalizeCode(raw string) string {
	return slug.Make(strings.TrimSpace(raw))
}
