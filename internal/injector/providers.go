package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/toyfacade/internal/app"
	"github.com/zeusync/toyfacade/internal/config"
	"github.com/zeusync/toyfacade/internal/core/events/bus"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
	"github.com/zeusync/toyfacade/internal/core/toys"
	"github.com/zeusync/toyfacade/internal/scene"
	"github.com/zeusync/toyfacade/internal/server"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	scene.New,
	wire.Bind(new(toys.Engine), new(*scene.Scene)),
	ProvideRegistry,
	toys.NewFactory,
	server.NewTargetService,
	wire.Bind(new(server.Service), new(*server.TargetService)),
	ProvideFeedConfig,
	server.NewFeed,
	app.New,
)

func ProvideLogger(cfg config.Config) (*log.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

// ProvideRegistry builds the scene's registry and keeps it in step with
// destroyed objects.
func ProvideRegistry(engine toys.Engine, b bus.EventBus) (*toys.Registry, error) {
	registry := toys.NewRegistry(engine)
	if err := registry.Attach(b); err != nil {
		return nil, err
	}
	return registry, nil
}

func ProvideFeedConfig(cfg config.Config) server.Config {
	feed := server.DefaultConfig()
	feed.ListenAddr = cfg.ListenAddr
	return feed
}
