package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// Connector opens the chain connection for the configured network once and
// hands the same client to every use case of the process.
type Connector struct {
	cfg    *config.RuntimeConfig
	logger *slog.Logger

	mu     sync.Mutex
	client *Client
	sim    *SimulatedChain
}

var _ usecase.ChainProvider = (*Connector)(nil)

// NewConnector creates a connector for cfg.Network.
func NewConnector(cfg *config.RuntimeConfig, logger *slog.Logger) *Connector {
	return &Connector{cfg: cfg, logger: logger}
}

// Connect returns the shared client, dialing on first use.
func (c *Connector) Connect(ctx context.Context) (usecase.Chain, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	network := c.cfg.Network
	if network == nil {
		return nil, fmt.Errorf("no network configured, use --network")
	}

	var key *ecdsa.PrivateKey
	if c.cfg.PrivateKey != "" {
		k, err := ParsePrivateKey(c.cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		key = k
	}

	opts := Options{
		GasLimit:     network.GasLimit,
		Local:        network.Local,
		PollInterval: c.cfg.PollInterval,
		Logger:       c.logger,
	}

	if network.Simulated {
		sim, err := NewSimulatedChain(opts)
		if err != nil {
			return nil, err
		}
		var client *Client
		if key != nil {
			client, err = sim.ClientWithKey(ctx, key)
		} else {
			client, err = sim.Client(ctx, 0)
		}
		if err != nil {
			_ = sim.Close()
			return nil, err
		}
		c.sim, c.client = sim, client
		c.logger.Debug("Started simulated chain", "chainId", client.ChainID(), "from", client.From().Hex())
		return client, nil
	}

	if network.RPCURL == "" {
		return nil, fmt.Errorf("network %s has no rpc url", network.Name)
	}
	client, err := Dial(ctx, network.RPCURL, network.ChainID, key, opts)
	if err != nil {
		return nil, fmt.Errorf("network %s: %w", network.Name, err)
	}
	c.client = client
	c.logger.Debug("Connected", "network", network.Name, "chainId", client.ChainID())
	return client, nil
}

// Simulated returns the in-process chain when the network is simulated and
// Connect has been called.
func (c *Connector) Simulated() *SimulatedChain {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sim
}

// Close releases the connection.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
	if c.sim != nil {
		_ = c.sim.Close()
		c.sim = nil
	}
}
