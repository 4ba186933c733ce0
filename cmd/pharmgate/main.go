package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"github.com/kpharma/pharmgate/internal/audit"
	"github.com/kpharma/pharmgate/internal/authorization"
	"github.com/kpharma/pharmgate/internal/branch"
	"github.com/kpharma/pharmgate/internal/clock"
	"github.com/kpharma/pharmgate/internal/config"
	"github.com/kpharma/pharmgate/internal/lock"
	"github.com/kpharma/pharmgate/internal/logger"
	"github.com/kpharma/pharmgate/internal/migration"
	"github.com/kpharma/pharmgate/internal/orderrelay"
	"github.com/kpharma/pharmgate/internal/organization"
	"github.com/kpharma/pharmgate/internal/rolegate"
	"github.com/kpharma/pharmgate/internal/server"
	"github.com/kpharma/pharmgate/internal/settlement"
	"github.com/kpharma/pharmgate/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		lock.Module,
		migration.Module,

		// domain modules
		rolegate.Module,
		authorization.Module,
		audit.Module,
		organization.Module,
		settlement.Module,
		orderrelay.Module,
		branch.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("snowflake node: %v", err)
	}
	return node
}
