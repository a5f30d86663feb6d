//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/toyfacade/internal/app"
	"github.com/zeusync/toyfacade/internal/config"
)

func InitializeApp(cfg config.Config) (*app.App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
