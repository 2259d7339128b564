package anvil

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// Node calls the evm_* and anvil_* test methods of a local node.
type Node struct {
	client *rpc.Client
}

var _ usecase.DevNode = (*Node)(nil)

// DialNode connects to the node at url.
func DialNode(ctx context.Context, url string) (*Node, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &Node{client: client}, nil
}

func (n *Node) Close() {
	n.client.Close()
}

func (n *Node) Snapshot(ctx context.Context) (string, error) {
	var id string
	if err := n.client.CallContext(ctx, &id, "evm_snapshot"); err != nil {
		return "", fmt.Errorf("evm_snapshot: %w", err)
	}
	return id, nil
}

func (n *Node) Revert(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := n.client.CallContext(ctx, &ok, "evm_revert", id); err != nil {
		return false, fmt.Errorf("evm_revert: %w", err)
	}
	return ok, nil
}

func (n *Node) IncreaseTime(ctx context.Context, seconds uint64) error {
	var shift any
	if err := n.client.CallContext(ctx, &shift, "evm_increaseTime", hexutil.Uint64(seconds)); err != nil {
		return fmt.Errorf("evm_increaseTime: %w", err)
	}
	return nil
}

func (n *Node) Mine(ctx context.Context, blocks uint64) error {
	if err := n.client.CallContext(ctx, nil, "anvil_mine", hexutil.Uint64(blocks)); err != nil {
		return fmt.Errorf("anvil_mine: %w", err)
	}
	return nil
}

func (n *Node) SetBalance(ctx context.Context, account common.Address, wei *big.Int) error {
	if err := n.client.CallContext(ctx, nil, "anvil_setBalance", account, (*hexutil.Big)(wei)); err != nil {
		return fmt.Errorf("anvil_setBalance: %w", err)
	}
	return nil
}

func (n *Node) Impersonate(ctx context.Context, account common.Address) error {
	if err := n.client.CallContext(ctx, nil, "anvil_impersonateAccount", account); err != nil {
		return fmt.Errorf("anvil_impersonateAccount: %w", err)
	}
	return nil
}

func (n *Node) StopImpersonating(ctx context.Context, account common.Address) error {
	if err := n.client.CallContext(ctx, nil, "anvil_stopImpersonatingAccount", account); err != nil {
		return fmt.Errorf("anvil_stopImpersonatingAccount: %w", err)
	}
	return nil
}

func (n *Node) SetStorageAt(ctx context.Context, account common.Address, slot, value common.Hash) error {
	var ok bool
	if err := n.client.CallContext(ctx, &ok, "anvil_setStorageAt", account, slot, value); err != nil {
		return fmt.Errorf("anvil_setStorageAt: %w", err)
	}
	if !ok {
		return fmt.Errorf("anvil_setStorageAt returned false")
	}
	return nil
}

func (n *Node) StorageAt(ctx context.Context, account common.Address, slot common.Hash) (common.Hash, error) {
	var value hexutil.Bytes
	if err := n.client.CallContext(ctx, &value, "eth_getStorageAt", account, slot, "latest"); err != nil {
		return common.Hash{}, fmt.Errorf("eth_getStorageAt: %w", err)
	}
	return common.BytesToHash(value), nil
}

// NodeProvider dials the dev node of the configured network on first use.
type NodeProvider struct {
	cfg *config.RuntimeConfig

	mu   sync.Mutex
	node *Node
}

var _ usecase.DevNodeProvider = (*NodeProvider)(nil)

func NewNodeProvider(cfg *config.RuntimeConfig) *NodeProvider {
	return &NodeProvider{cfg: cfg}
}

func (p *NodeProvider) DevNode(ctx context.Context) (usecase.DevNode, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.node != nil {
		return p.node, nil
	}

	network := p.cfg.Network
	switch {
	case network == nil:
		return nil, fmt.Errorf("no network configured, use --network")
	case network.Simulated:
		return nil, fmt.Errorf("network %s is in-process and has no dev rpc: use --network local with anvil", network.Name)
	case !network.Local:
		return nil, fmt.Errorf("network %s is not a local node", network.Name)
	}

	node, err := DialNode(ctx, network.RPCURL)
	if err != nil {
		return nil, err
	}
	p.node = node
	return node, nil
}

func (p *NodeProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.node != nil {
		p.node.Close()
		p.node = nil
	}
}
