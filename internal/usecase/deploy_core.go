package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	"github.com/tetu-io/vaultctl/internal/domain/config"
)

// DefaultTimeLock is the announcer delay used for side-chain deployments.
const DefaultTimeLock = 86400

// DeployCoreParams contains parameters for deploying the core contracts
type DeployCoreParams struct {
	TimeLock   uint64
	WaitBlocks uint64
	// ExportPath, when set, receives the controller/announcer/bookkeeper triple
	// as plain text.
	ExportPath string
	// SkipSave disables writing the deployment record.
	SkipSave bool
}

// DeployCoreResult contains the deployed core set
type DeployCoreResult struct {
	Core     *bindings.CoreContracts
	Record   *domain.DeploymentRecord
	Cached   bool
	Duration time.Duration
}

// DeployCore deploys controller, announcer and bookkeeper behind proxies and wires them together.
type DeployCore struct {
	chains    ChainProvider
	artifacts ArtifactRepository
	store     DeploymentStore
	cfg       *config.RuntimeConfig
	progress  ProgressSink
	logger    *slog.Logger
}

// NewDeployCore creates a new DeployCore use case
func NewDeployCore(
	chains ChainProvider,
	artifacts ArtifactRepository,
	store DeploymentStore,
	cfg *config.RuntimeConfig,
	progress ProgressSink,
	logger *slog.Logger,
) *DeployCore {
	return &DeployCore{
		chains:    chains,
		artifacts: artifacts,
		store:     store,
		cfg:       cfg,
		progress:  progress,
		logger:    logger.With("usecase", "deploy_core"),
	}
}

// Run executes the deployment sequence. A core set already held by session
// for the same chain is returned without touching the chain.
func (uc *DeployCore) Run(ctx context.Context, session *DeploySession, params DeployCoreParams) (*DeployCoreResult, error) {
	chain, err := uc.chains.Connect(ctx)
	if err != nil {
		return nil, err
	}

	if core, record, ok := session.Core(chain.ChainID()); ok {
		uc.logger.Debug("Using cached core contracts", "chain", chain.ChainID())
		return &DeployCoreResult{Core: core, Record: record, Cached: true}, nil
	}

	start := time.Now()
	d := &deployer{chain: chain, artifacts: uc.artifacts, logger: uc.logger, wait: params.WaitBlocks}
	record := &domain.DeploymentRecord{
		ID:       uuid.NewString(),
		ChainID:  chain.ChainID(),
		Deployer: chain.From(),
		TimeLock: params.TimeLock,
	}
	if uc.cfg != nil && uc.cfg.Network != nil {
		record.Network = uc.cfg.Network.Name
	}

	const total = 4
	step := func(n int, msg string) {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Deploying", Current: n, Total: total, Message: msg, Spinner: true})
	}

	// controller
	step(1, "Controller")
	controllerC, rec, err := d.proxied(ctx, ControllerArtifact)
	if err != nil {
		return nil, err
	}
	record.Add(rec)
	controller := bindings.NewController(controllerC)
	if err := d.tx(ctx, "controller.initialize", func() (*types.Receipt, error) {
		return controller.Initialize(ctx)
	}); err != nil {
		return nil, err
	}

	// announcer
	step(2, "Announcer")
	announcerC, rec, err := d.proxied(ctx, AnnouncerArtifact)
	if err != nil {
		return nil, err
	}
	record.Add(rec)
	announcer := bindings.NewAnnouncer(announcerC)
	if err := d.tx(ctx, "announcer.initialize", func() (*types.Receipt, error) {
		return announcer.Initialize(ctx, controller.Address(), params.TimeLock)
	}); err != nil {
		return nil, err
	}

	// bookkeeper
	step(3, "Bookkeeper")
	bookkeeperC, rec, err := d.proxied(ctx, BookkeeperArtifact)
	if err != nil {
		return nil, err
	}
	record.Add(rec)
	bookkeeper := bindings.NewBookkeeper(bookkeeperC)
	if err := d.tx(ctx, "bookkeeper.initialize", func() (*types.Receipt, error) {
		return bookkeeper.Initialize(ctx, controller.Address())
	}); err != nil {
		return nil, err
	}

	// wiring
	step(4, "Controller setup")
	if err := d.tx(ctx, "controller.setBookkeeper", func() (*types.Receipt, error) {
		return controller.SetBookkeeper(ctx, bookkeeper.Address())
	}); err != nil {
		return nil, err
	}
	if err := d.tx(ctx, "controller.setAnnouncer", func() (*types.Receipt, error) {
		return controller.SetAnnouncer(ctx, announcer.Address())
	}); err != nil {
		return nil, err
	}

	core := &bindings.CoreContracts{Controller: controller, Bookkeeper: bookkeeper, Announcer: announcer}
	record.Core = core.Addresses()
	record.CreatedAt = time.Now().UTC()

	duration := time.Since(start)
	uc.logger.Info("Core contracts deployed",
		"controller", record.Core.Controller.Hex(),
		"announcer", record.Core.Announcer.Hex(),
		"bookkeeper", record.Core.Bookkeeper.Hex(),
		"duration", duration,
	)

	session.store(chain.ChainID(), core, record)

	if store := recordStore(uc.store, uc.cfg); !params.SkipSave && store != nil {
		if err := store.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to save deployment record: %w", err)
		}
	}
	if params.ExportPath != "" && uc.store != nil {
		if err := uc.store.ExportCoreAddresses(ctx, params.ExportPath, record.Core); err != nil {
			return nil, fmt.Errorf("failed to export core addresses: %w", err)
		}
	}

	return &DeployCoreResult{Core: core, Record: record, Duration: duration}, nil
}

// loadOrNewRecord returns the stored record for the chain or a fresh one.
func loadOrNewRecord(ctx context.Context, store DeploymentStore, chain Chain, cfg *config.RuntimeConfig) (*domain.DeploymentRecord, error) {
	if store = recordStore(store, cfg); store != nil {
		record, err := store.Load(ctx, chain.ChainID())
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	record := &domain.DeploymentRecord{
		ID:        uuid.NewString(),
		ChainID:   chain.ChainID(),
		Deployer:  chain.From(),
		CreatedAt: time.Now().UTC(),
	}
	if cfg != nil && cfg.Network != nil {
		record.Network = cfg.Network.Name
	}
	return record, nil
}

// appendRecord stores extra contracts next to the chain's core record.
func appendRecord(ctx context.Context, store DeploymentStore, chain Chain, cfg *config.RuntimeConfig, contracts ...domain.ContractRecord) error {
	if store = recordStore(store, cfg); store == nil {
		return nil
	}
	record, err := loadOrNewRecord(ctx, store, chain, cfg)
	if err != nil {
		return err
	}
	for _, c := range contracts {
		record.Add(c)
	}
	return store.Save(ctx, record)
}

// recordStore returns store, or nil for the simulated network whose
// contracts vanish with the process.
func recordStore(store DeploymentStore, cfg *config.RuntimeConfig) DeploymentStore {
	if cfg != nil && cfg.Network != nil && cfg.Network.Simulated {
		return nil
	}
	return store
}
