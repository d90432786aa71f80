package domain

import (
	"context"
	"errors"
)

// MaxCodeLength bounds tenant codes, matching the tenants.code column.
const MaxCodeLength = 64

type CreateTenantRequest struct {
	Code string
	Name string
}

type UpdateTenantRequest struct {
	ID   string
	Name *string
}

type Service interface {
	Create(ctx context.Context, req CreateTenantRequest) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	GetByID(ctx context.Context, id string) (*Tenant, error)
	Update(ctx context.Context, req UpdateTenantRequest) (*Tenant, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidCode = errors.New("invalid_code")
	ErrInvalidName = errors.New("invalid_name")
	ErrCodeExists  = errors.New("tenant code already exists")
	ErrNotFound    = errors.New("tenant_not_found")
)
