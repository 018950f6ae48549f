package account

import (
	"github.com/zinari/zinari/internal/account/repository"
	"github.com/zinari/zinari/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
