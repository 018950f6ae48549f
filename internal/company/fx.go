package company

import (
	"github.com/zinari/zinari/internal/company/repository"
	"github.com/zinari/zinari/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
