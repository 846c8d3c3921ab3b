package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(BirdService), "*"),
	wire.Bind(new(IBirdService), new(*BirdService)),
)
