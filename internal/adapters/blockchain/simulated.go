package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
)

// SimulatedChainID is the chain ID of the in-process backend.
const SimulatedChainID = 1337

// DevKeys are the well-known anvil/hardhat development accounts 0..3.
var DevKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
}

// SimulatedChain is an in-process chain with funded development accounts.
type SimulatedChain struct {
	backend *simulated.Backend
	keys    []*ecdsa.PrivateKey
	opts    Options
}

// NewSimulatedChain starts an in-process backend and funds every key in DevKeys.
func NewSimulatedChain(opts Options) (*SimulatedChain, error) {
	balance, _ := new(big.Int).SetString("10000000000000000000000", 10) // 10k ether

	alloc := types.GenesisAlloc{}
	keys := make([]*ecdsa.PrivateKey, 0, len(DevKeys))
	for _, hexKey := range DevKeys {
		key, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			return nil, fmt.Errorf("invalid dev key: %w", err)
		}
		keys = append(keys, key)
		alloc[crypto.PubkeyToAddress(key.PublicKey)] = types.Account{Balance: balance}
	}

	opts.Local = true
	return &SimulatedChain{
		backend: simulated.NewBackend(alloc, simulated.WithBlockGasLimit(30_000_000)),
		keys:    keys,
		opts:    opts,
	}, nil
}

// Accounts returns the funded account addresses.
func (s *SimulatedChain) Accounts() []common.Address {
	out := make([]common.Address, len(s.keys))
	for i, k := range s.keys {
		out[i] = crypto.PubkeyToAddress(k.PublicKey)
	}
	return out
}

// Client returns a client signing with the i-th dev account.
func (s *SimulatedChain) Client(ctx context.Context, i int) (*Client, error) {
	if i < 0 || i >= len(s.keys) {
		return nil, fmt.Errorf("no simulated account %d", i)
	}
	return s.ClientWithKey(ctx, s.keys[i])
}

// ClientWithKey returns a client signing with an arbitrary key. The key's
// account has no balance unless funded.
func (s *SimulatedChain) ClientWithKey(ctx context.Context, key *ecdsa.PrivateKey) (*Client, error) {
	backend := &autoCommit{Client: s.backend.Client(), commit: func() { s.backend.Commit() }}
	c, err := NewClient(ctx, backend, key, s.opts)
	if err != nil {
		return nil, err
	}
	c.advancer = s.AdvanceTime
	return c, nil
}

// AdvanceTime shifts the clock of the next block by d and mines it.
func (s *SimulatedChain) AdvanceTime(d time.Duration) error {
	if err := s.backend.AdjustTime(d); err != nil {
		return fmt.Errorf("failed to adjust time: %w", err)
	}
	return nil
}

// Mine seals a block.
func (s *SimulatedChain) Mine() common.Hash {
	return s.backend.Commit()
}

func (s *SimulatedChain) Close() error {
	return s.backend.Close()
}

// autoCommit mines a block after every sent transaction so receipts are
// available immediately.
type autoCommit struct {
	simulated.Client
	commit func()
}

func (a *autoCommit) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := a.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	a.commit()
	return nil
}
