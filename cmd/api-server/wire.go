//go:build wireinject
// +build wireinject

package main

import (
	"Aviary/config"
	"Aviary/dao"
	"Aviary/dao/cache"
	"Aviary/handler"
	"Aviary/pkg/client"
	"Aviary/pkg/database"
	"Aviary/pkg/rocketmq"
	"Aviary/pkg/server"
	"Aviary/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) (*server.AppProvider, func(), error) {
	wire.Build(
		database.NewDB,
		database.NewMigrator,
		client.NewRedisClient,
		config.ProvideRocketMQConfig,
		rocketmq.NewProducer,
		server.NewGinEngine,
		cache.ProviderSet,
		wire.Struct(new(handler.Bird), "*"),
		wire.Struct(new(handler.Health), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),

		dao.ProviderSet,

		service.ProviderSet,
	)
	return nil, nil, nil
}

func InitMigrator(cfg *config.Config) (*database.Migrator, func(), error) {
	wire.Build(
		database.NewDB,
		database.NewMigrator,
	)
	return nil, nil, nil
}
