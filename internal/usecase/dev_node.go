package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tetu-io/vaultctl/internal/domain/bindings"
)

// ImpersonationBalance is the ether balance given to impersonated accounts.
var ImpersonationBalance, _ = new(big.Int).SetString("1431E0FAE6D7217CAA0000000", 16)

// DevNodeOps drives the test-only controls of a local node: snapshots, time
// travel, balances and impersonation.
type DevNodeOps struct {
	nodes   DevNodeProvider
	session *DeploySession
	logger  *slog.Logger
}

// NewDevNodeOps creates a new DevNodeOps use case
func NewDevNodeOps(nodes DevNodeProvider, session *DeploySession, logger *slog.Logger) *DevNodeOps {
	return &DevNodeOps{
		nodes:   nodes,
		session: session,
		logger:  logger.With("usecase", "dev_node"),
	}
}

// Snapshot records the current chain state and returns its id.
func (uc *DevNodeOps) Snapshot(ctx context.Context) (string, error) {
	node, err := uc.nodes.DevNode(ctx)
	if err != nil {
		return "", err
	}
	return node.Snapshot(ctx)
}

// Revert restores a snapshot. Cached deployments are dropped since they may
// no longer exist on chain.
func (uc *DevNodeOps) Revert(ctx context.Context, id string) error {
	node, err := uc.nodes.DevNode(ctx)
	if err != nil {
		return err
	}
	ok, err := node.Revert(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("snapshot %s was not reverted", id)
	}
	if uc.session != nil {
		uc.session.Reset()
	}
	return nil
}

// IncreaseTime moves the node clock forward and mines one block so the new
// timestamp is visible.
func (uc *DevNodeOps) IncreaseTime(ctx context.Context, seconds uint64) error {
	node, err := uc.nodes.DevNode(ctx)
	if err != nil {
		return err
	}
	if err := node.IncreaseTime(ctx, seconds); err != nil {
		return err
	}
	return node.Mine(ctx, 1)
}

// Mine mines the given number of empty blocks.
func (uc *DevNodeOps) Mine(ctx context.Context, blocks uint64) error {
	node, err := uc.nodes.DevNode(ctx)
	if err != nil {
		return err
	}
	return node.Mine(ctx, blocks)
}

// Fund sets the ether balance of account; eth is a decimal amount.
func (uc *DevNodeOps) Fund(ctx context.Context, account common.Address, eth string) (*big.Int, error) {
	wei, err := bindings.ParseUnits(eth, 18)
	if err != nil {
		return nil, err
	}
	node, err := uc.nodes.DevNode(ctx)
	if err != nil {
		return nil, err
	}
	if err := node.SetBalance(ctx, account, wei); err != nil {
		return nil, err
	}
	return wei, nil
}

// Impersonate unlocks account on the node and gives it enough ether to send
// transactions.
func (uc *DevNodeOps) Impersonate(ctx context.Context, account common.Address) error {
	node, err := uc.nodes.DevNode(ctx)
	if err != nil {
		return err
	}
	if err := node.Impersonate(ctx, account); err != nil {
		return err
	}
	uc.logger.Info("Impersonating account", "account", account.Hex())
	return node.SetBalance(ctx, account, ImpersonationBalance)
}

// StopImpersonating locks account again.
func (uc *DevNodeOps) StopImpersonating(ctx context.Context, account common.Address) error {
	node, err := uc.nodes.DevNode(ctx)
	if err != nil {
		return err
	}
	return node.StopImpersonating(ctx, account)
}

// SetStorage overwrites one storage slot and mines a block. The previous
// value is returned.
func (uc *DevNodeOps) SetStorage(ctx context.Context, account common.Address, slot, value common.Hash) (common.Hash, error) {
	node, err := uc.nodes.DevNode(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	prev, err := node.StorageAt(ctx, account, slot)
	if err != nil {
		return common.Hash{}, err
	}
	if err := node.SetStorageAt(ctx, account, slot, value); err != nil {
		return common.Hash{}, err
	}
	return prev, node.Mine(ctx, 1)
}
