//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/armino/internal/config"
	"github.com/zeusync/armino/internal/core/events/bus"
	"github.com/zeusync/armino/internal/core/observability/log"
	"github.com/zeusync/armino/internal/core/systems/physics"
	"github.com/zeusync/armino/internal/replay"
	"github.com/zeusync/armino/internal/runtime/sim"
	"github.com/zeusync/armino/internal/server"
	"github.com/zeusync/armino/internal/session"
)

func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(
		ProvideLogger,
		wire.Bind(new(log.Log), new(*log.Logger)),
		ProvideRegistry,
		physics.NewMemoryEngine,
		wire.Bind(new(physics.Engine), new(*physics.MemoryEngine)),
		sim.DefaultCamera,
		sim.NewRuntime,
		wire.Bind(new(session.Runtime), new(*sim.Runtime)),
		bus.New,
		ProvideSession,
		replay.NewRunner,
		ProvideFeedConfig,
		server.NewFeed,
		server.NewServer,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
