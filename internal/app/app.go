package app

import (
	"log/slog"

	"github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Shared dependencies
	Session   *usecase.DeploySession
	Confirmer usecase.Confirmer
	Progress  usecase.ProgressSink

	// Use cases
	ListNetworks    *usecase.ListNetworks
	ShowAddresses   *usecase.ShowAddresses
	DeployCore      *usecase.DeployCore
	ConnectCore     *usecase.ConnectCore
	DeployVault     *usecase.DeployVault
	DeployContract  *usecase.DeployContract
	DeployMockToken *usecase.DeployMockToken
	Announce        *usecase.Announce
	TokenOps        *usecase.TokenOps
	VerifyContract  *usecase.VerifyContract
	ManageAnvil     *usecase.ManageAnvil
	DevNode         *usecase.DevNodeOps

	// Adapters (needed for special cases like log streaming)
	AnvilManager usecase.AnvilManager
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	session *usecase.DeploySession,
	confirmer usecase.Confirmer,
	progress usecase.ProgressSink,
	listNetworks *usecase.ListNetworks,
	showAddresses *usecase.ShowAddresses,
	deployCore *usecase.DeployCore,
	connectCore *usecase.ConnectCore,
	deployVault *usecase.DeployVault,
	deployContract *usecase.DeployContract,
	deployMockToken *usecase.DeployMockToken,
	announce *usecase.Announce,
	tokenOps *usecase.TokenOps,
	verifyContract *usecase.VerifyContract,
	manageAnvil *usecase.ManageAnvil,
	devNode *usecase.DevNodeOps,
	anvilManager usecase.AnvilManager,
) *App {
	return &App{
		Config:          cfg,
		Logger:          logger,
		Session:         session,
		Confirmer:       confirmer,
		Progress:        progress,
		ListNetworks:    listNetworks,
		ShowAddresses:   showAddresses,
		DeployCore:      deployCore,
		ConnectCore:     connectCore,
		DeployVault:     deployVault,
		DeployContract:  deployContract,
		DeployMockToken: deployMockToken,
		Announce:        announce,
		TokenOps:        tokenOps,
		VerifyContract:  verifyContract,
		ManageAnvil:     manageAnvil,
		DevNode:         devNode,
		AnvilManager:    anvilManager,
	}
}
