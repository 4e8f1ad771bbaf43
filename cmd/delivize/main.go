package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/delivize/delivize/internal/config"
	"github.com/delivize/delivize/internal/server"
	"github.com/delivize/delivize/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
