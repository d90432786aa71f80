package migration

import (
	cashdomain "github.com/mkadic/cashbook/internal/cash/domain"
	"github.com/mkadic/cashbook/internal/config"
	"github.com/mkadic/cashbook/internal/seed"
	tenantdomain "github.com/mkadic/cashbook/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql fall back to gorm's schema sync; the
			// versioned migrations are written against postgres.
			if err := conn.AutoMigrate(&tenantdomain.Tenant{}, &cashdomain.CashEntry{}); err != nil {
				return err
			}
		}

		if cfg.DefaultTenantCode != "" {
			return seed.EnsureDefaultTenant(conn, cfg.DefaultTenantCode)
		}
		return nil
	}),
)
