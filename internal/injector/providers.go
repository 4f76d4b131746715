package injector

import (
	"github.com/zeusync/armino/internal/config"
	"github.com/zeusync/armino/internal/core/events/bus"
	"github.com/zeusync/armino/internal/core/observability/log"
	"github.com/zeusync/armino/internal/core/surface"
	"github.com/zeusync/armino/internal/core/systems/physics"
	"github.com/zeusync/armino/internal/replay"
	"github.com/zeusync/armino/internal/server"
	"github.com/zeusync/armino/internal/session"
)

// App is the assembled replay tool.
type App struct {
	Logger *log.Logger
	Events bus.EventBus
	Runner *replay.Runner
	Feed   *server.Feed
	Server *server.Server
}

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level, cfg.Log.Encoding)
}

func ProvideRegistry(cfg *config.Config) *surface.Registry {
	return surface.NewRegistry(
		surface.WithShardCount(cfg.Surface.Shards),
		surface.WithThickness(cfg.Surface.Thickness),
	)
}

func ProvideSession(
	cfg *config.Config,
	runtime session.Runtime,
	engine physics.Engine,
	registry *surface.Registry,
	events bus.EventBus,
	logger log.Log,
) *session.Session {
	return session.New(cfg, runtime, engine, registry, events, logger)
}

func ProvideFeedConfig(cfg *config.Config) config.FeedConfig {
	return cfg.Feed
}
