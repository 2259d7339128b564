package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// DefaultPollInterval is the delay between block height checks while waiting
// for confirmations on a live network.
const DefaultPollInterval = 10 * time.Second

// Backend is what the client needs from a node connection. Both
// *ethclient.Client and the simulated backend's client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ethereum.ChainIDReader
	ethereum.BlockNumberReader
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Options tune a Client.
type Options struct {
	// GasLimit fixes the gas of every transaction; 0 estimates per call.
	GasLimit uint64
	// Local networks skip confirmation waits.
	Local        bool
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Client signs and sends transactions for one account on one chain.
type Client struct {
	backend  Backend
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  uint64
	opts     Options
	logger   *slog.Logger
	closer   func()
	advancer func(time.Duration) error
}

// NewClient wraps an already connected backend. key may be nil for a
// read-only client.
func NewClient(ctx context.Context, backend Backend, key *ecdsa.PrivateKey, opts Options) (*Client, error) {
	id, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		backend: backend,
		key:     key,
		chainID: id.Uint64(),
		opts:    opts,
		logger:  logger.With("component", "blockchain"),
	}
	if key != nil {
		c.from = crypto.PubkeyToAddress(key.PublicKey)
	}
	return c, nil
}

// Dial connects to rpcURL and checks the node serves the expected chain.
// expectedChainID 0 accepts any chain.
func Dial(ctx context.Context, rpcURL string, expectedChainID uint64, key *ecdsa.PrivateKey, opts Options) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	c, err := NewClient(ctx, ec, key, opts)
	if err != nil {
		ec.Close()
		return nil, err
	}
	if expectedChainID != 0 && c.chainID != expectedChainID {
		ec.Close()
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrChainMismatch, expectedChainID, c.chainID)
	}
	c.closer = ec.Close
	return c, nil
}

// ParsePrivateKey accepts a hex key with or without 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

func (c *Client) ChainID() uint64 {
	return c.chainID
}

// From returns the signing account, or the zero address for read-only clients.
func (c *Client) From() common.Address {
	return c.from
}

func (c *Client) IsLocal() bool {
	return c.opts.Local
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.backend.BlockNumber(ctx)
}

func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.backend.BalanceAt(ctx, account, nil)
}

// Close releases the underlying connection.
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if c.key == nil {
		return nil, fmt.Errorf("no private key configured: set PRIVATE_KEY to send transactions")
	}
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, new(big.Int).SetUint64(c.chainID))
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	opts.GasLimit = c.opts.GasLimit
	return opts, nil
}

// Deploy sends the creation transaction for art with constructor args and
// waits for it to be mined.
func (c *Client) Deploy(ctx context.Context, art *domain.Artifact, args ...any) (bindings.Contract, *types.Receipt, error) {
	if !art.HasBytecode() {
		return nil, nil, fmt.Errorf("artifact %s has no bytecode (interface or abstract contract?)", art.Name)
	}
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, nil, err
	}

	_, tx, _, err := bind.DeployContract(opts, art.ABI, art.Bytecode, c.backend, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("deploy %s: %w", art.Name, decodeRevert(err))
	}

	receipt, err := c.waitMined(ctx, tx, "deploy "+art.Name)
	if err != nil {
		return nil, nil, err
	}

	c.logger.Debug("contract deployed",
		"contract", art.Name,
		"address", receipt.ContractAddress.Hex(),
		"tx", tx.Hash().Hex(),
		"gas", receipt.GasUsed,
	)
	return c.bind(art.Name, art.ABI, receipt.ContractAddress), receipt, nil
}

// At attaches art's ABI to an existing address.
func (c *Client) At(art *domain.Artifact, address common.Address) bindings.Contract {
	return c.bind(art.Name, art.ABI, address)
}

// AtABI attaches a bare ABI to an existing address.
func (c *Client) AtABI(name string, parsed abi.ABI, address common.Address) bindings.Contract {
	return c.bind(name, parsed, address)
}

func (c *Client) bind(name string, parsed abi.ABI, address common.Address) *Contract {
	return &Contract{
		client:  c,
		name:    name,
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, c.backend, c.backend, c.backend),
	}
}

func (c *Client) waitMined(ctx context.Context, tx *types.Transaction, label string) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("%s: wait for %s: %w", label, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		if revert := c.replayRevert(ctx, tx, receipt); revert != nil {
			return receipt, fmt.Errorf("%s: %w (tx %s): %w", label, domain.ErrTxFailed, tx.Hash().Hex(), revert)
		}
		return receipt, fmt.Errorf("%s: %w (tx %s)", label, domain.ErrTxFailed, tx.Hash().Hex())
	}
	return receipt, nil
}

// replayRevert re-executes a failed transaction as a call on the parent
// block's state to recover the revert reason. A fixed gas limit skips
// estimation, so the node never reported it at send time. Returns nil when
// the replay yields no revert.
func (c *Client) replayRevert(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) error {
	msg := ethereum.CallMsg{
		From:  c.from,
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}
	var block *big.Int
	if receipt.BlockNumber != nil && receipt.BlockNumber.Sign() > 0 {
		block = new(big.Int).Sub(receipt.BlockNumber, big.NewInt(1))
	}
	_, err := c.backend.CallContract(ctx, msg, block)
	if err == nil {
		return nil
	}
	var revert *domain.RevertError
	if decoded := decodeRevert(err); errors.As(decoded, &revert) {
		return revert
	}
	c.logger.Debug("revert replay failed", "tx", tx.Hash().Hex(), "error", err)
	return nil
}

// AdvanceTime moves the chain clock forward. Only supported on the simulated backend.
func (c *Client) AdvanceTime(ctx context.Context, d time.Duration) error {
	if c.advancer == nil {
		return fmt.Errorf("time travel is not supported on chain %d: use the anvil dev commands", c.chainID)
	}
	return c.advancer(d)
}

var _ usecase.Chain = (*Client)(nil)
