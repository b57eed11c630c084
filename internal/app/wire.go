//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-wallet/internal/adapters"
	"github.com/trebuchet-org/treb-wallet/internal/config"
	"github.com/trebuchet-org/treb-wallet/internal/logging"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// InitApp creates a fully wired App instance writing UI updates to view
func InitApp(v *viper.Viper, view usecase.StatusView) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployGuard,
		usecase.NewManageConnection,
		wire.Bind(new(usecase.ConnectionSource), new(*usecase.ManageConnection)),
		usecase.NewDeployContract,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
