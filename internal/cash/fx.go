package cash

import (
	"github.com/mkadic/cashbook/internal/cash/repository"
	"github.com/mkadic/cashbook/internal/cash/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cash.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
