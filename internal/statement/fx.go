package statement

import (
	"github.com/zinari/zinari/internal/statement/repository"
	"github.com/zinari/zinari/internal/statement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("statement.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
