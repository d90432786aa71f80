package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/mkadic/cashbook/internal/config"
	"github.com/mkadic/cashbook/internal/migration"
	"github.com/mkadic/cashbook/internal/observability"
	"github.com/mkadic/cashbook/internal/server"
	"github.com/mkadic/cashbook/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
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
