package party

import (
	"github.com/zinari/zinari/internal/party/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("party.repository",
	fx.Provide(repository.NewRepository),
)
