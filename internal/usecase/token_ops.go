package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
)

// TokenInfo describes an ERC20 token
type TokenInfo struct {
	Address     common.Address
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int
}

// TokenBalance is the balance of one holder. Native is set for the chain's
// gas token, in which case Token is nil.
type TokenBalance struct {
	Token     *TokenInfo
	Native    bool
	Holder    common.Address
	Raw       *big.Int
	Formatted string
}

// TokenTxResult is the outcome of a transfer or approval
type TokenTxResult struct {
	Token  *TokenInfo
	To     common.Address
	Amount *big.Int
	TxHash common.Hash
}

// TokenOps reads and moves ERC20 balances. Tokens are referenced by address
// or by symbol from the address book of the connected chain.
type TokenOps struct {
	chains ChainProvider
	book   AddressBook
	logger *slog.Logger
}

// NewTokenOps creates a new TokenOps use case
func NewTokenOps(chains ChainProvider, book AddressBook, logger *slog.Logger) *TokenOps {
	return &TokenOps{
		chains: chains,
		book:   book,
		logger: logger.With("usecase", "token_ops"),
	}
}

// Describe reads name, symbol, decimals and total supply.
func (uc *TokenOps) Describe(ctx context.Context, ref string) (*TokenInfo, error) {
	chain, err := uc.chains.Connect(ctx)
	if err != nil {
		return nil, err
	}
	token, err := uc.token(chain, ref)
	if err != nil {
		return nil, err
	}
	return describe(ctx, token)
}

// Balance returns the holder's balance of ref, or the native balance when
// ref is empty. A zero holder means the signer.
func (uc *TokenOps) Balance(ctx context.Context, ref string, holder common.Address) (*TokenBalance, error) {
	chain, err := uc.chains.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if holder == domain.ZeroAddress {
		holder = chain.From()
	}

	if ref == "" {
		wei, err := chain.Balance(ctx, holder)
		if err != nil {
			return nil, err
		}
		return &TokenBalance{Native: true, Holder: holder, Raw: wei, Formatted: bindings.FormatUnits(wei, 18)}, nil
	}

	token, err := uc.token(chain, ref)
	if err != nil {
		return nil, err
	}
	info, err := describe(ctx, token)
	if err != nil {
		return nil, err
	}
	raw, err := token.BalanceOf(ctx, holder)
	if err != nil {
		return nil, err
	}
	return &TokenBalance{Token: info, Holder: holder, Raw: raw, Formatted: bindings.FormatUnits(raw, info.Decimals)}, nil
}

// Transfer sends amount (in token units) to the recipient.
func (uc *TokenOps) Transfer(ctx context.Context, ref string, to common.Address, amount string) (*TokenTxResult, error) {
	return uc.send(ctx, ref, to, amount, (*bindings.ERC20).Transfer)
}

// Approve sets the spender allowance to amount (in token units).
func (uc *TokenOps) Approve(ctx context.Context, ref string, spender common.Address, amount string) (*TokenTxResult, error) {
	return uc.send(ctx, ref, spender, amount, (*bindings.ERC20).Approve)
}

type tokenTx func(*bindings.ERC20, context.Context, common.Address, *big.Int) (*types.Receipt, error)

func (uc *TokenOps) send(ctx context.Context, ref string, to common.Address, amount string, fn tokenTx) (*TokenTxResult, error) {
	if to == domain.ZeroAddress {
		return nil, fmt.Errorf("recipient: %w", domain.ErrInvalidAddress)
	}
	chain, err := uc.chains.Connect(ctx)
	if err != nil {
		return nil, err
	}
	token, err := uc.token(chain, ref)
	if err != nil {
		return nil, err
	}
	info, err := describe(ctx, token)
	if err != nil {
		return nil, err
	}
	wei, err := bindings.ParseUnits(amount, info.Decimals)
	if err != nil {
		return nil, err
	}

	receipt, err := fn(token, ctx, to, wei)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Token transaction sent", "token", info.Symbol, "to", to.Hex(), "amount", amount, "tx", receipt.TxHash.Hex())
	return &TokenTxResult{Token: info, To: to, Amount: wei, TxHash: receipt.TxHash}, nil
}

func (uc *TokenOps) token(chain Chain, ref string) (*bindings.ERC20, error) {
	address, err := uc.resolve(chain.ChainID(), ref)
	if err != nil {
		return nil, err
	}
	parsed, err := bindings.ParsedERC20ABI()
	if err != nil {
		return nil, err
	}
	return bindings.NewERC20(chain.AtABI("ERC20", parsed, address)), nil
}

func (uc *TokenOps) resolve(chainID uint64, ref string) (common.Address, error) {
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref), nil
	}
	address, err := uc.book.Token(domain.ChainKey(chainID), ref)
	if err != nil {
		return domain.ZeroAddress, err
	}
	if address == domain.ZeroAddress {
		return domain.ZeroAddress, fmt.Errorf("token %s on %d: %w", ref, chainID, domain.ErrInvalidAddress)
	}
	return address, nil
}

func describe(ctx context.Context, token *bindings.ERC20) (*TokenInfo, error) {
	info := &TokenInfo{Address: token.Address()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info.Name, err = token.Name(gctx)
		return err
	})
	g.Go(func() (err error) {
		info.Symbol, err = token.Symbol(gctx)
		return err
	})
	g.Go(func() (err error) {
		info.Decimals, err = token.Decimals(gctx)
		return err
	})
	g.Go(func() (err error) {
		info.TotalSupply, err = token.TotalSupply(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read token %s: %w", token.Address().Hex(), err)
	}
	return info, nil
}
