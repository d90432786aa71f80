package tenant

import (
	"github.com/mkadic/cashbook/internal/tenant/repository"
	"github.com/mkadic/cashbook/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
