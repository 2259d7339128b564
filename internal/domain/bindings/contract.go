// Package bindings holds typed wrappers around the protocol contracts.
//
// The contracts are compiled elsewhere, so the wrappers are built on a
// generic Contract handle (artifact ABI + address) instead of abigen output.
package bindings

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Contract is a deployed contract reachable through a connected chain.
type Contract interface {
	Address() common.Address
	ABI() abi.ABI
	Call(ctx context.Context, method string, args ...any) ([]any, error)
	Transact(ctx context.Context, method string, args ...any) (*types.Receipt, error)
}

func callAddress(ctx context.Context, c Contract, method string, args ...any) (common.Address, error) {
	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("%s: empty result", method)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func callBig(ctx context.Context, c Contract, method string, args ...any) (*big.Int, error) {
	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func callBool(ctx context.Context, c Contract, method string, args ...any) (bool, error) {
	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return false, err
	}
	if len(out) == 0 {
		return false, fmt.Errorf("%s: empty result", method)
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func callString(ctx context.Context, c Contract, method string, args ...any) (string, error) {
	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("%s: empty result", method)
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func callAddresses(ctx context.Context, c Contract, method string, args ...any) ([]common.Address, error) {
	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}
