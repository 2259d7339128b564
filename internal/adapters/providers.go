package adapters

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/wire"

	"github.com/tetu-io/vaultctl/internal/adapters/anvil"
	"github.com/tetu-io/vaultctl/internal/adapters/artifacts"
	"github.com/tetu-io/vaultctl/internal/adapters/blockchain"
	internalconfig "github.com/tetu-io/vaultctl/internal/adapters/config"
	"github.com/tetu-io/vaultctl/internal/adapters/fs"
	"github.com/tetu-io/vaultctl/internal/adapters/interactive"
	"github.com/tetu-io/vaultctl/internal/adapters/verification"
	"github.com/tetu-io/vaultctl/internal/addressbook"
	"github.com/tetu-io/vaultctl/internal/config"
	domainconfig "github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// AddressOverlayFile is the project file extending the built-in address book.
const AddressOverlayFile = "addresses.yaml"

// ProvideAddressBook returns the built-in address book with the project's
// addresses.yaml applied on top.
func ProvideAddressBook(cfg *domainconfig.RuntimeConfig) (*addressbook.Book, error) {
	overlay, err := addressbook.LoadOverlay(filepath.Join(cfg.ProjectRoot, AddressOverlayFile))
	if err != nil {
		return nil, err
	}
	book, err := addressbook.Default().Merge(overlay)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", AddressOverlayFile, err)
	}
	return book, nil
}

// ProvideConnector returns the chain connector and a cleanup closing it.
func ProvideConnector(cfg *domainconfig.RuntimeConfig, logger *slog.Logger) (*blockchain.Connector, func()) {
	c := blockchain.NewConnector(cfg, logger)
	return c, c.Close
}

// ProvideNodeProvider returns the dev node provider and a cleanup closing it.
func ProvideNodeProvider(cfg *domainconfig.RuntimeConfig) (*anvil.NodeProvider, func()) {
	p := anvil.NewNodeProvider(cfg)
	return p, p.Close
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewDeploymentStoreAdapter,
	wire.Bind(new(usecase.DeploymentStore), new(*fs.DeploymentStoreAdapter)),

	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),
)

// ChainSet provides the connection to the configured network
var ChainSet = wire.NewSet(
	ProvideConnector,
	wire.Bind(new(usecase.ChainProvider), new(*blockchain.Connector)),
)

// AnvilSet provides local node management
var AnvilSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.AnvilManager), new(*anvil.Manager)),

	ProvideNodeProvider,
	wire.Bind(new(usecase.DevNodeProvider), new(*anvil.NodeProvider)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ArtifactSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),

	ProvideAddressBook,
	wire.Bind(new(usecase.AddressBook), new(*addressbook.Book)),
)

// VerificationSet provides explorer verification
var VerificationSet = wire.NewSet(
	verification.NewForgeVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.ForgeVerifier)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ChainSet,
	AnvilSet,
	InteractiveSet,
	ConfigSet,
	VerificationSet,
)
