package bindings

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC20ABI is the subset of the token interface used by the harness. MockToken
// artifacts add mint on top of it.
const ERC20ABI = `[
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]}
]`

// ParsedERC20ABI returns ERC20ABI parsed.
func ParsedERC20ABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(ERC20ABI))
}

// ERC20 wraps a token contract.
type ERC20 struct {
	Contract
}

func NewERC20(c Contract) *ERC20 {
	return &ERC20{Contract: c}
}

func (t *ERC20) Name(ctx context.Context) (string, error) {
	return callString(ctx, t, "name")
}

func (t *ERC20) Symbol(ctx context.Context) (string, error) {
	return callString(ctx, t, "symbol")
}

func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.Call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("decimals: empty result")
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

func (t *ERC20) TotalSupply(ctx context.Context) (*big.Int, error) {
	return callBig(ctx, t, "totalSupply")
}

func (t *ERC20) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return callBig(ctx, t, "balanceOf", account)
}

func (t *ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return callBig(ctx, t, "allowance", owner, spender)
}

func (t *ERC20) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, "approve", spender, amount)
}

func (t *ERC20) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, "transfer", to, amount)
}

// Mint is only available on MockToken.
func (t *ERC20) Mint(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, "mint", to, amount)
}
