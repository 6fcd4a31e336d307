package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/clock"
	"github.com/revloop/revloop/internal/config"
	"github.com/revloop/revloop/internal/migration"
	"github.com/revloop/revloop/internal/observability"
	"github.com/revloop/revloop/internal/scheduler"
	"github.com/revloop/revloop/internal/server"
	"github.com/revloop/revloop/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		server.Module,
		migration.Module,
		scheduler.Module,
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
