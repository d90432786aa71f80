package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Tenant, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Tenant, error)
	List(ctx context.Context, db *gorm.DB) ([]Tenant, error)
	Update(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	Delete(ctx context.Context, db *gorm.DB, id string) (bool, error)
}
