package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
)

// Artifact names of the protocol contracts.
const (
	ControllerArtifact   = "Controller"
	AnnouncerArtifact    = "Announcer"
	BookkeeperArtifact   = "Bookkeeper"
	ProxyArtifact        = "TetuProxyControlled"
	SmartVaultArtifact   = "SmartVault"
	NoopStrategyArtifact = "NoopStrategy"
	MockTokenArtifact    = "MockToken"
)

// deployer runs deployment steps against one chain, waiting the configured
// number of confirmations after every transaction.
type deployer struct {
	chain     Chain
	artifacts ArtifactRepository
	logger    *slog.Logger
	wait      uint64
}

func (d *deployer) contract(ctx context.Context, name string, args ...any) (bindings.Contract, *domain.Artifact, domain.ContractRecord, error) {
	art, err := d.artifacts.Get(name)
	if err != nil {
		return nil, nil, domain.ContractRecord{}, err
	}
	c, rec, err := d.deploy(ctx, art, args...)
	return c, art, rec, err
}

func (d *deployer) deploy(ctx context.Context, art *domain.Artifact, args ...any) (bindings.Contract, domain.ContractRecord, error) {
	c, receipt, err := d.chain.Deploy(ctx, art, args...)
	if err != nil {
		return nil, domain.ContractRecord{}, fmt.Errorf("failed to deploy %s: %w", art.Name, err)
	}
	d.logger.Info("Contract deployed", "contract", art.Name, "address", c.Address().Hex(), "tx", receipt.TxHash.Hex())

	if err := d.chain.WaitConfirmations(ctx, d.wait); err != nil {
		return nil, domain.ContractRecord{}, err
	}

	return c, domain.ContractRecord{
		Name:     art.Name,
		Artifact: art.Path,
		Address:  c.Address(),
		TxHash:   receipt.TxHash,
	}, nil
}

// proxied deploys logicName behind a TetuProxyControlled and returns the logic
// ABI attached to the proxy address.
func (d *deployer) proxied(ctx context.Context, logicName string) (bindings.Contract, domain.ContractRecord, error) {
	logic, logicArt, _, err := d.contract(ctx, logicName)
	if err != nil {
		return nil, domain.ContractRecord{}, err
	}
	proxy, _, proxyRec, err := d.contract(ctx, ProxyArtifact, logic.Address())
	if err != nil {
		return nil, domain.ContractRecord{}, err
	}

	return d.chain.At(logicArt, proxy.Address()), domain.ContractRecord{
		Name:     logicName,
		Artifact: logicArt.Path,
		Address:  proxy.Address(),
		TxHash:   proxyRec.TxHash,
		Proxy:    true,
		Logic:    logic.Address(),
	}, nil
}

// tx runs one transaction step and waits for confirmations.
func (d *deployer) tx(ctx context.Context, label string, send func() (*types.Receipt, error)) error {
	receipt, err := send()
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	d.logger.Debug("Transaction confirmed", "step", label, "tx", receipt.TxHash.Hex())
	return d.chain.WaitConfirmations(ctx, d.wait)
}
