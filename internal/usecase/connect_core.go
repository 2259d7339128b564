package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
)

// Where the core addresses came from.
const (
	CoreSourceSession     = "session"
	CoreSourceAddressBook = "addressbook"
	CoreSourceDeployment  = "deployment"
)

// ConnectCoreParams contains parameters for connecting to the core contracts
type ConnectCoreParams struct {
	// Check reads the on-chain wiring and compares it with the addresses.
	Check bool
}

// CoreCheck is one comparison of configured and on-chain state
type CoreCheck struct {
	Name     string
	Expected common.Address
	Actual   common.Address
}

func (c CoreCheck) OK() bool {
	return c.Expected == c.Actual
}

// ConnectCoreResult contains the attached core contracts
type ConnectCoreResult struct {
	ChainID    uint64
	Source     string
	Addresses  domain.CoreAddresses
	Core       *bindings.CoreContracts
	Governance common.Address
	TimeLock   *big.Int
	Checks     []CoreCheck
}

// ConnectCore attaches to the core contracts already live on the connected chain.
type ConnectCore struct {
	chains    ChainProvider
	artifacts ArtifactRepository
	book      AddressBook
	store     DeploymentStore
	logger    *slog.Logger
}

// NewConnectCore creates a new ConnectCore use case
func NewConnectCore(chains ChainProvider, artifacts ArtifactRepository, book AddressBook, store DeploymentStore, logger *slog.Logger) *ConnectCore {
	return &ConnectCore{
		chains:    chains,
		artifacts: artifacts,
		book:      book,
		store:     store,
		logger:    logger.With("usecase", "connect_core"),
	}
}

// Run resolves the core addresses for the connected chain. The session is
// consulted first, then the address book, then a stored deployment record.
func (uc *ConnectCore) Run(ctx context.Context, session *DeploySession, params ConnectCoreParams) (*ConnectCoreResult, error) {
	chain, err := uc.chains.Connect(ctx)
	if err != nil {
		return nil, err
	}

	core, source, err := uc.resolve(ctx, chain, session)
	if err != nil {
		return nil, err
	}

	result := &ConnectCoreResult{
		ChainID:   chain.ChainID(),
		Source:    source,
		Addresses: core.Addresses(),
		Core:      core,
	}
	if !params.Check {
		return result, nil
	}

	var bookkeeper, announcer common.Address
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.Governance, err = core.Controller.Governance(gctx)
		return err
	})
	g.Go(func() (err error) {
		bookkeeper, err = core.Controller.Bookkeeper(gctx)
		return err
	})
	g.Go(func() (err error) {
		announcer, err = core.Controller.Announcer(gctx)
		return err
	})
	g.Go(func() (err error) {
		result.TimeLock, err = core.Announcer.TimeLock(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read core state: %w", err)
	}

	result.Checks = []CoreCheck{
		{Name: "controller.bookkeeper", Expected: result.Addresses.Bookkeeper, Actual: bookkeeper},
		{Name: "controller.announcer", Expected: result.Addresses.Announcer, Actual: announcer},
	}
	return result, nil
}

// resolve returns the core contracts attached to chain.
func (uc *ConnectCore) resolve(ctx context.Context, chain Chain, session *DeploySession) (*bindings.CoreContracts, string, error) {
	if core, _, ok := session.Core(chain.ChainID()); ok {
		return core, CoreSourceSession, nil
	}

	key := domain.ChainKey(chain.ChainID())
	uc.logger.Info("Resolving core addresses", "network", key)

	addrs, err := uc.book.Core(key)
	source := CoreSourceAddressBook
	if errors.Is(err, domain.ErrNoConfig) && uc.store != nil {
		record, loadErr := uc.store.Load(ctx, chain.ChainID())
		if loadErr == nil && record.Core.Validate() == nil {
			addrs, err, source = record.Core, nil, CoreSourceDeployment
		}
	}
	if err != nil {
		return nil, "", err
	}

	core, err := uc.attach(chain, addrs)
	if err != nil {
		return nil, "", err
	}
	return core, source, nil
}

func (uc *ConnectCore) attach(chain Chain, addrs domain.CoreAddresses) (*bindings.CoreContracts, error) {
	controllerArt, err := uc.artifacts.Get(ControllerArtifact)
	if err != nil {
		return nil, err
	}
	bookkeeperArt, err := uc.artifacts.Get(BookkeeperArtifact)
	if err != nil {
		return nil, err
	}
	announcerArt, err := uc.artifacts.Get(AnnouncerArtifact)
	if err != nil {
		return nil, err
	}

	return &bindings.CoreContracts{
		Controller: bindings.NewController(chain.At(controllerArt, addrs.Controller)),
		Bookkeeper: bindings.NewBookkeeper(chain.At(bookkeeperArt, addrs.Bookkeeper)),
		Announcer:  bindings.NewAnnouncer(chain.At(announcerArt, addrs.Announcer)),
	}, nil
}
