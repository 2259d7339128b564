package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	"github.com/tetu-io/vaultctl/internal/domain/config"
)

// Vault defaults.
const (
	DefaultRewardDuration = 60 * 60 * 24 * 28 // 4 weeks
	DefaultToInvest       = 1000
	noopPlatform          = 1
)

// DeployVaultParams contains parameters for deploying a vault with its strategy
type DeployVaultParams struct {
	Name       string
	Underlying common.Address
	// Strategy artifact; NoopStrategy when empty.
	Strategy string
	// StrategyArgs overrides the default constructor arguments. Raw strings
	// are parsed against the strategy constructor; "$vault" is replaced with
	// the vault proxy address.
	StrategyArgs []string
	// VaultRewardToken is passed to initializeSmartVault (zero for none).
	VaultRewardToken common.Address
	// StrategyRewardToken defaults to the chain's network token.
	StrategyRewardToken *common.Address
	RewardDuration      uint64
	ToInvest            uint64
	WaitBlocks          uint64
}

// DeployVaultResult contains the deployed vault and strategy
type DeployVaultResult struct {
	Vault       *bindings.Vault
	VaultLogic  common.Address
	Strategy    *bindings.Strategy
	VaultName   string
	VaultSymbol string
	Duration    time.Duration
}

// DeployVault deploys a SmartVault behind a proxy, initializes it, deploys its
// strategy and registers both on the controller.
type DeployVault struct {
	chains    ChainProvider
	artifacts ArtifactRepository
	book      AddressBook
	core      *ConnectCore
	store     DeploymentStore
	cfg       *config.RuntimeConfig
	progress  ProgressSink
	logger    *slog.Logger
}

// NewDeployVault creates a new DeployVault use case
func NewDeployVault(
	chains ChainProvider,
	artifacts ArtifactRepository,
	book AddressBook,
	core *ConnectCore,
	store DeploymentStore,
	cfg *config.RuntimeConfig,
	progress ProgressSink,
	logger *slog.Logger,
) *DeployVault {
	return &DeployVault{
		chains:    chains,
		artifacts: artifacts,
		book:      book,
		core:      core,
		store:     store,
		cfg:       cfg,
		progress:  progress,
		logger:    logger.With("usecase", "deploy_vault"),
	}
}

// Run executes the vault deployment
func (uc *DeployVault) Run(ctx context.Context, session *DeploySession, params DeployVaultParams) (*DeployVaultResult, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("vault name is required")
	}
	if params.Underlying == domain.ZeroAddress {
		return nil, fmt.Errorf("%w: underlying is the zero address", domain.ErrInvalidAddress)
	}
	if params.Strategy == "" {
		params.Strategy = NoopStrategyArtifact
	}
	if params.RewardDuration == 0 {
		params.RewardDuration = DefaultRewardDuration
	}
	if params.ToInvest == 0 {
		params.ToInvest = DefaultToInvest
	}

	chain, err := uc.chains.Connect(ctx)
	if err != nil {
		return nil, err
	}
	core, _, err := uc.core.resolve(ctx, chain, session)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	d := &deployer{chain: chain, artifacts: uc.artifacts, logger: uc.logger, wait: params.WaitBlocks}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Deploying", Current: 1, Total: 3, Message: SmartVaultArtifact, Spinner: true})
	vaultC, vaultRec, err := d.proxied(ctx, SmartVaultArtifact)
	if err != nil {
		return nil, err
	}
	vault := bindings.NewVault(vaultC)

	name, symbol := "TETU_"+params.Name, "x"+params.Name
	if err := d.tx(ctx, "vault.initializeSmartVault", func() (*types.Receipt, error) {
		return vault.InitializeSmartVault(ctx, name, symbol, core.Controller.Address(), params.Underlying, params.RewardDuration, params.VaultRewardToken)
	}); err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Deploying", Current: 2, Total: 3, Message: params.Strategy, Spinner: true})
	strategyArt, err := uc.artifacts.Get(params.Strategy)
	if err != nil {
		return nil, err
	}
	args, err := uc.strategyArgs(chain, strategyArt, core, vault.Address(), params)
	if err != nil {
		return nil, err
	}
	strategyC, _, strategyRec, err := d.contract(ctx, params.Strategy, args...)
	if err != nil {
		return nil, err
	}
	strategy := bindings.NewStrategy(strategyC)
	uc.logger.Info("Vault initialized", "vault", name, "duration", time.Since(start))

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Registering", Current: 3, Total: 3, Message: "controller", Spinner: true})
	if err := d.tx(ctx, "controller.addVaultsAndStrategies", func() (*types.Receipt, error) {
		return core.Controller.AddVaultsAndStrategies(ctx, []common.Address{vault.Address()}, []common.Address{strategy.Address()})
	}); err != nil {
		return nil, err
	}
	if err := d.tx(ctx, "vault.setToInvest", func() (*types.Receipt, error) {
		return vault.SetToInvest(ctx, params.ToInvest)
	}); err != nil {
		return nil, err
	}

	vaultRec.Name = name
	if err := appendRecord(ctx, uc.store, chain, uc.cfg, vaultRec, strategyRec); err != nil {
		return nil, fmt.Errorf("failed to save deployment record: %w", err)
	}

	duration := time.Since(start)
	uc.logger.Info("Vault deployment completed", "vault", vault.Address().Hex(), "strategy", strategy.Address().Hex(), "duration", duration)

	return &DeployVaultResult{
		Vault:       vault,
		VaultLogic:  vaultRec.Logic,
		Strategy:    strategy,
		VaultName:   name,
		VaultSymbol: symbol,
		Duration:    duration,
	}, nil
}

// strategyArgs builds the strategy constructor arguments. The NoopStrategy
// constructor exists in a short (controller, underlying, vault, platform) and
// a long (..., rewardTokens, assets, platform) form; the artifact decides.
func (uc *DeployVault) strategyArgs(chain Chain, art *domain.Artifact, core *bindings.CoreContracts, vault common.Address, params DeployVaultParams) ([]any, error) {
	inputs := art.ABI.Constructor.Inputs

	if len(params.StrategyArgs) > 0 {
		raw := make([]string, len(params.StrategyArgs))
		for i, a := range params.StrategyArgs {
			switch a {
			case "$vault":
				raw[i] = vault.Hex()
			case "$controller":
				raw[i] = core.Controller.Address().Hex()
			case "$underlying":
				raw[i] = params.Underlying.Hex()
			default:
				raw[i] = a
			}
		}
		return bindings.ParseArgs(inputs, raw)
	}

	controller := core.Controller.Address().Hex()
	platform := strconv.Itoa(noopPlatform)
	switch len(inputs) {
	case 4:
		return bindings.ParseArgs(inputs, []string{controller, params.Underlying.Hex(), vault.Hex(), platform})
	case 6:
		reward := params.StrategyRewardToken
		if reward == nil {
			netToken, err := uc.book.NetworkToken(domain.ChainKey(chain.ChainID()))
			if err != nil {
				return nil, err
			}
			reward = &netToken
		}
		return bindings.ParseArgs(inputs, []string{
			controller,
			params.Underlying.Hex(),
			vault.Hex(),
			"[" + reward.Hex() + "]",
			"[" + params.Underlying.Hex() + "]",
			platform,
		})
	default:
		return nil, fmt.Errorf("%s constructor takes %d arguments: pass them with --strategy-arg", art.Name, len(inputs))
	}
}
