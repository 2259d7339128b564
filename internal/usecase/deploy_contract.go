package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	"github.com/tetu-io/vaultctl/internal/domain/config"
)

// DeployContractParams contains parameters for a one-off deployment
type DeployContractParams struct {
	Artifact   string
	Args       []string
	WaitBlocks uint64
	SkipSave   bool
}

// DeployContractResult contains the deployed contract
type DeployContractResult struct {
	Contract bindings.Contract
	Record   domain.ContractRecord
	// ConstructorArgs is the ABI-encoded argument blob, for verification.
	ConstructorArgs []byte
}

// DeployContract deploys any artifact with constructor arguments given as strings.
type DeployContract struct {
	chains    ChainProvider
	artifacts ArtifactRepository
	selector  ArtifactSelector
	store     DeploymentStore
	cfg       *config.RuntimeConfig
	logger    *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(chains ChainProvider, artifacts ArtifactRepository, selector ArtifactSelector, store DeploymentStore, cfg *config.RuntimeConfig, logger *slog.Logger) *DeployContract {
	return &DeployContract{
		chains:    chains,
		artifacts: artifacts,
		selector:  selector,
		store:     store,
		cfg:       cfg,
		logger:    logger.With("usecase", "deploy_contract"),
	}
}

// Run executes the deployment
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	art, err := uc.artifact(ctx, params.Artifact)
	if err != nil {
		return nil, err
	}
	args, err := bindings.ParseArgs(art.ABI.Constructor.Inputs, params.Args)
	if err != nil {
		return nil, fmt.Errorf("%s constructor: %w", art.Name, err)
	}
	encoded, err := art.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("%s constructor: %w", art.Name, err)
	}

	chain, err := uc.chains.Connect(ctx)
	if err != nil {
		return nil, err
	}

	d := &deployer{chain: chain, artifacts: uc.artifacts, logger: uc.logger, wait: params.WaitBlocks}
	contract, rec, err := d.deploy(ctx, art, args...)
	if err != nil {
		return nil, err
	}

	if !params.SkipSave {
		if err := appendRecord(ctx, uc.store, chain, uc.cfg, rec); err != nil {
			return nil, fmt.Errorf("failed to save deployment record: %w", err)
		}
	}

	return &DeployContractResult{Contract: contract, Record: rec, ConstructorArgs: encoded}, nil
}

// artifact resolves name, prompting when it is empty or matches several files.
func (uc *DeployContract) artifact(ctx context.Context, name string) (*domain.Artifact, error) {
	var candidates []string
	if name == "" {
		names, err := uc.artifacts.List()
		if err != nil {
			return nil, err
		}
		candidates = names
	} else {
		art, err := uc.artifacts.Get(name)
		var ambiguous domain.AmbiguousArtifactErr
		if !errors.As(err, &ambiguous) {
			return art, err
		}
		candidates = ambiguous.Matches
	}

	if uc.selector == nil {
		return nil, fmt.Errorf("artifact name required")
	}
	picked, err := uc.selector.SelectArtifact(ctx, candidates, "Select contract to deploy")
	if err != nil {
		return nil, err
	}
	return uc.artifacts.Get(picked)
}

// DefaultMockSupply is minted to the deployer by DeployMockToken, in whole tokens.
const DefaultMockSupply = "1000000"

// DeployMockTokenParams contains parameters for deploying a mock ERC20
type DeployMockTokenParams struct {
	Symbol   string
	Decimals uint8
	// MintTo defaults to the deployer.
	MintTo     common.Address
	Amount     string
	WaitBlocks uint64
}

// DeployMockTokenResult contains the deployed token
type DeployMockTokenResult struct {
	Token   *bindings.ERC20
	Name    string
	Minted  string
	Holder  common.Address
	Balance string
}

// DeployMockToken deploys a MockToken named <SYMBOL>_MOCK_TOKEN and mints a supply.
type DeployMockToken struct {
	chains    ChainProvider
	artifacts ArtifactRepository
	store     DeploymentStore
	cfg       *config.RuntimeConfig
	logger    *slog.Logger
}

// NewDeployMockToken creates a new DeployMockToken use case
func NewDeployMockToken(chains ChainProvider, artifacts ArtifactRepository, store DeploymentStore, cfg *config.RuntimeConfig, logger *slog.Logger) *DeployMockToken {
	return &DeployMockToken{
		chains:    chains,
		artifacts: artifacts,
		store:     store,
		cfg:       cfg,
		logger:    logger.With("usecase", "deploy_mock_token"),
	}
}

// Run executes the token deployment
func (uc *DeployMockToken) Run(ctx context.Context, params DeployMockTokenParams) (*DeployMockTokenResult, error) {
	if params.Symbol == "" {
		params.Symbol = "MOCK"
	}
	if params.Amount == "" {
		params.Amount = DefaultMockSupply
	}
	amount, err := bindings.ParseUnits(params.Amount, params.Decimals)
	if err != nil {
		return nil, err
	}

	chain, err := uc.chains.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if params.MintTo == domain.ZeroAddress {
		params.MintTo = chain.From()
	}

	name := params.Symbol + "_MOCK_TOKEN"
	d := &deployer{chain: chain, artifacts: uc.artifacts, logger: uc.logger, wait: params.WaitBlocks}
	c, _, rec, err := d.contract(ctx, MockTokenArtifact, name, params.Symbol, params.Decimals)
	if err != nil {
		return nil, err
	}
	token := bindings.NewERC20(c)

	if err := d.tx(ctx, "token.mint", func() (*types.Receipt, error) {
		return token.Mint(ctx, params.MintTo, amount)
	}); err != nil {
		return nil, err
	}

	balance, err := token.BalanceOf(ctx, params.MintTo)
	if err != nil {
		return nil, err
	}

	rec.Name = name
	if err := appendRecord(ctx, uc.store, chain, uc.cfg, rec); err != nil {
		return nil, fmt.Errorf("failed to save deployment record: %w", err)
	}

	return &DeployMockTokenResult{
		Token:   token,
		Name:    name,
		Minted:  params.Amount,
		Holder:  params.MintTo,
		Balance: bindings.FormatUnits(balance, params.Decimals),
	}, nil
}
