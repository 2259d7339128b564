//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/tetu-io/vaultctl/internal/adapters"
	"github.com/tetu-io/vaultctl/internal/config"
	"github.com/tetu-io/vaultctl/internal/logging"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// InitApp creates a fully wired App instance. The returned cleanup closes
// chain and node connections.
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, func(), error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeploySession,
		usecase.NewListNetworks,
		usecase.NewShowAddresses,
		usecase.NewDeployCore,
		usecase.NewConnectCore,
		usecase.NewDeployVault,
		usecase.NewDeployContract,
		usecase.NewDeployMockToken,
		usecase.NewAnnounce,
		usecase.NewTokenOps,
		usecase.NewVerifyContract,
		usecase.NewManageAnvil,
		usecase.NewDevNodeOps,

		// App
		NewApp,
	)
	return nil, nil, nil
}
