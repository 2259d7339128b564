package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	DataDir      string
	ArtifactsDir string

	// Context settings
	Network *Network // nil if not specified

	// Signing key (hex, no 0x prefix); empty means read-only
	PrivateKey string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Confirmation polling
	WaitBlocks   uint64
	PollInterval time.Duration

	// Config source tracking
	ConfigSource string // "vaultctl.toml" or "defaults"

	// All known networks after applying vaultctl.toml
	Networks map[string]*Network
}

// Network represents network configuration
type Network struct {
	Name        string `json:"name" toml:"-"`
	ChainID     uint64 `json:"chainId" toml:"chain_id"`
	RPCURL      string `json:"rpcUrl" toml:"rpc_url"`
	GasLimit    uint64 `json:"gasLimit,omitempty" toml:"gas_limit"`
	GasPrice    uint64 `json:"gasPrice,omitempty" toml:"gas_price"`
	ExplorerAPI string `json:"explorerApi,omitempty" toml:"explorer_api"`
	ExplorerURL string `json:"explorerUrl,omitempty" toml:"explorer_url"`
	ScanKey     string `json:"-" toml:"scan_key"`
	ForkURL     string `json:"forkUrl,omitempty" toml:"fork_url"`
	ForkBlock   uint64 `json:"forkBlock,omitempty" toml:"fork_block"`
	Local       bool   `json:"local,omitempty" toml:"local"`
	Simulated   bool   `json:"simulated,omitempty" toml:"-"`
}
