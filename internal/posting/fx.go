package posting

import (
	"github.com/zinari/zinari/internal/posting/repository"
	"github.com/zinari/zinari/internal/posting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("posting.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
