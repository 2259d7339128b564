package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tetu-io/vaultctl/internal/domain/bindings"
)

// Contract is a deployed contract bound to a Client.
type Contract struct {
	client  *Client
	name    string
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
}

func (c *Contract) Address() common.Address {
	return c.address
}

func (c *Contract) ABI() abi.ABI {
	return c.abi
}

func (c *Contract) Name() string {
	return c.name
}

// Call executes a read-only method at the latest block.
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	var out []any
	opts := &bind.CallOpts{Context: ctx, From: c.client.from}
	if err := c.bound.Call(opts, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, decodeRevert(err))
	}
	return out, nil
}

// Transact sends a state-changing call and waits for the receipt.
func (c *Contract) Transact(ctx context.Context, method string, args ...any) (*types.Receipt, error) {
	opts, err := c.client.transactOpts(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := c.bound.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, decodeRevert(err))
	}

	receipt, err := c.client.waitMined(ctx, tx, c.name+"."+method)
	if err != nil {
		return receipt, err
	}

	c.client.logger.Debug("transaction mined",
		"contract", c.name,
		"address", c.address.Hex(),
		"method", method,
		"tx", tx.Hash().Hex(),
		"gas", receipt.GasUsed,
	)
	return receipt, nil
}

var _ bindings.Contract = (*Contract)(nil)
