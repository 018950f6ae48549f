package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/zinari/zinari/internal/clock"
	"github.com/zinari/zinari/internal/config"
	"github.com/zinari/zinari/internal/logger"
	"github.com/zinari/zinari/internal/migration"
	"github.com/zinari/zinari/internal/observability"
	"github.com/zinari/zinari/internal/server"
	"github.com/zinari/zinari/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
