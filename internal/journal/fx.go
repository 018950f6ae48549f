package journal

import (
	"github.com/zinari/zinari/internal/journal/repository"
	"github.com/zinari/zinari/internal/journal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("journal.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
