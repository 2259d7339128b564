package bindings

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Bookkeeper wraps the registry of vaults and strategies.
type Bookkeeper struct {
	Contract
}

func NewBookkeeper(c Contract) *Bookkeeper {
	return &Bookkeeper{Contract: c}
}

func (b *Bookkeeper) Initialize(ctx context.Context, controller common.Address) (*types.Receipt, error) {
	return b.Transact(ctx, "initialize", controller)
}

func (b *Bookkeeper) Vaults(ctx context.Context) ([]common.Address, error) {
	return callAddresses(ctx, b, "vaults")
}

func (b *Bookkeeper) Strategies(ctx context.Context) ([]common.Address, error) {
	return callAddresses(ctx, b, "strategies")
}

func (b *Bookkeeper) AddVault(ctx context.Context, vault common.Address) (*types.Receipt, error) {
	return b.Transact(ctx, "addVault", vault)
}

func (b *Bookkeeper) AddStrategy(ctx context.Context, strategy common.Address) (*types.Receipt, error) {
	return b.Transact(ctx, "addStrategy", strategy)
}

func (b *Bookkeeper) RemoveFromVaults(ctx context.Context, index uint64) (*types.Receipt, error) {
	return b.Transact(ctx, "removeFromVaults", bigU(index))
}

func (b *Bookkeeper) RemoveFromStrategies(ctx context.Context, index uint64) (*types.Receipt, error) {
	return b.Transact(ctx, "removeFromStrategies", bigU(index))
}
