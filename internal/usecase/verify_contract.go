package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	"github.com/tetu-io/vaultctl/internal/domain/config"
)

// VerifyRequest is one explorer verification submission
type VerifyRequest struct {
	Address         common.Address
	Artifact        string
	ArtifactPath    string
	ChainID         uint64
	VerifierURL     string
	APIKey          string
	ConstructorArgs []byte
}

// VerifyContractParams contains parameters for verifying a deployed contract
type VerifyContractParams struct {
	Address  common.Address
	Artifact string
	Args     []string
	// ConstructorArgs, when set, is used instead of parsing Args.
	ConstructorArgs []byte
}

// VerifyContractResult reports the verification outcome. Failures are
// reported here rather than returned as errors.
type VerifyContractResult struct {
	Address  common.Address
	Artifact string
	Verified bool
	Error    string
}

// VerifyContract submits a deployed contract's source to the network explorer.
type VerifyContract struct {
	verifier  ContractVerifier
	artifacts ArtifactRepository
	cfg       *config.RuntimeConfig
	logger    *slog.Logger
}

// NewVerifyContract creates a new VerifyContract use case
func NewVerifyContract(verifier ContractVerifier, artifacts ArtifactRepository, cfg *config.RuntimeConfig, logger *slog.Logger) *VerifyContract {
	return &VerifyContract{
		verifier:  verifier,
		artifacts: artifacts,
		cfg:       cfg,
		logger:    logger.With("usecase", "verify_contract"),
	}
}

// Run executes the verification
func (uc *VerifyContract) Run(ctx context.Context, params VerifyContractParams) (*VerifyContractResult, error) {
	if uc.cfg.Network == nil {
		return nil, fmt.Errorf("no network configured")
	}
	if uc.cfg.Network.Local || uc.cfg.Network.Simulated {
		return nil, fmt.Errorf("network %s has no explorer", uc.cfg.Network.Name)
	}

	art, err := uc.artifacts.Get(params.Artifact)
	if err != nil {
		return nil, err
	}

	encoded := params.ConstructorArgs
	if encoded == nil && len(params.Args) > 0 {
		args, err := bindings.ParseArgs(art.ABI.Constructor.Inputs, params.Args)
		if err != nil {
			return nil, fmt.Errorf("%s constructor: %w", art.Name, err)
		}
		if encoded, err = art.ABI.Pack("", args...); err != nil {
			return nil, fmt.Errorf("%s constructor: %w", art.Name, err)
		}
	}

	result := &VerifyContractResult{Address: params.Address, Artifact: art.Name}
	err = uc.verifier.Verify(ctx, VerifyRequest{
		Address:         params.Address,
		Artifact:        art.Name,
		ArtifactPath:    art.Path,
		ChainID:         uc.cfg.Network.ChainID,
		VerifierURL:     uc.cfg.Network.ExplorerAPI,
		APIKey:          uc.cfg.Network.ScanKey,
		ConstructorArgs: encoded,
	})
	if err != nil {
		uc.logger.Warn("Verification failed", "address", params.Address.Hex(), "contract", art.Name, "error", err)
		result.Error = err.Error()
		return result, nil
	}

	result.Verified = true
	return result, nil
}
