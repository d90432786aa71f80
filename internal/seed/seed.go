package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	tenantdomain "github.com/mkadic/cashbook/internal/tenant/domain"
	tenantservice "github.com/mkadic/cashbook/internal/tenant/service"
	"gorm.io/gorm"
)

// EnsureDefaultTenant seeds a tenant for startup bootstrap so a fresh
// install can accept entries immediately.
func EnsureDefaultTenant(db *gorm.DB, code string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	normalized := tenantservice.NormalizeCode(code)
	if normalized == "" {
		return errors.New("seed tenant code is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing tenantdomain.Tenant
		err := tx.Where("code = ?", normalized).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		return tx.Create(&tenantdomain.Tenant{
			ID:        uuid.NewString(),
			Code:      normalized,
			Name:      normalized,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
	})
}
