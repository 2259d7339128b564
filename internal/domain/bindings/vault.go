package bindings

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Vault wraps a SmartVault proxy.
type Vault struct {
	Contract
}

func NewVault(c Contract) *Vault {
	return &Vault{Contract: c}
}

func (v *Vault) InitializeSmartVault(ctx context.Context, name, symbol string, controller, underlying common.Address, rewardDuration uint64, rewardToken common.Address) (*types.Receipt, error) {
	return v.Transact(ctx, "initializeSmartVault", name, symbol, controller, underlying, bigU(rewardDuration), rewardToken)
}

// SetToInvest sets the invested share in 1/1000 units.
func (v *Vault) SetToInvest(ctx context.Context, ratio uint64) (*types.Receipt, error) {
	return v.Transact(ctx, "setToInvest", bigU(ratio))
}

func (v *Vault) AddRewardToken(ctx context.Context, token common.Address) (*types.Receipt, error) {
	return v.Transact(ctx, "addRewardToken", token)
}

func (v *Vault) Deposit(ctx context.Context, amount *big.Int) (*types.Receipt, error) {
	return v.Transact(ctx, "deposit", amount)
}

func (v *Vault) DepositAndInvest(ctx context.Context, amount *big.Int) (*types.Receipt, error) {
	return v.Transact(ctx, "depositAndInvest", amount)
}

func (v *Vault) Withdraw(ctx context.Context, shares *big.Int) (*types.Receipt, error) {
	return v.Transact(ctx, "withdraw", shares)
}

func (v *Vault) Strategy(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, v, "strategy")
}

func (v *Vault) Underlying(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, v, "underlying")
}

func (v *Vault) Name(ctx context.Context) (string, error) {
	return callString(ctx, v, "name")
}

func (v *Vault) Symbol(ctx context.Context) (string, error) {
	return callString(ctx, v, "symbol")
}

func (v *Vault) UnderlyingBalanceWithInvestmentForHolder(ctx context.Context, holder common.Address) (*big.Int, error) {
	return callBig(ctx, v, "underlyingBalanceWithInvestmentForHolder", holder)
}

func (v *Vault) GetPricePerFullShare(ctx context.Context) (*big.Int, error) {
	return callBig(ctx, v, "getPricePerFullShare")
}

// Strategy wraps an IStrategy implementation.
type Strategy struct {
	Contract
}

func NewStrategy(c Contract) *Strategy {
	return &Strategy{Contract: c}
}

func (s *Strategy) Underlying(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, s, "underlying")
}

func (s *Strategy) Vault(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, s, "vault")
}

// Proxy wraps TetuProxyControlled.
type Proxy struct {
	Contract
}

func NewProxy(c Contract) *Proxy {
	return &Proxy{Contract: c}
}

func (p *Proxy) Implementation(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, p, "implementation")
}
