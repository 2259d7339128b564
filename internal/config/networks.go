package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/BurntSushi/toml"

	"github.com/tetu-io/vaultctl/internal/domain/config"
)

const (
	// ConfigFileName is the optional project file holding network overrides.
	ConfigFileName = "vaultctl.toml"

	LocalNetwork     = "local"
	SimulatedNetwork = "simulated"

	LocalChainID     uint64 = 31337
	SimulatedChainID uint64 = 1337
)

// forkable lists the networks a local node may fork, keyed by chain id.
var forkable = map[uint64]string{
	1:    "eth",
	137:  "matic",
	250:  "ftm",
	56:   "bsc",
	8453: "base",
}

// localGasLimit mirrors the block gas used for forks of each chain.
func localGasLimit(chainID uint64) uint64 {
	switch chainID {
	case 1, 137:
		return 19_000_000
	case 250:
		return 11_000_000
	default:
		return 9_000_000
	}
}

// DefaultNetworks returns the built-in network table, reading RPC URLs,
// fork blocks and explorer keys from the environment.
func DefaultNetworks() map[string]*config.Network {
	scanKey := os.Getenv("NETWORK_SCAN_KEY")
	infura := os.Getenv("INFURA_KEY")
	infuraURL := func(net string) string {
		if infura == "" {
			return ""
		}
		return "https://" + net + ".infura.io/v3/" + infura
	}

	networks := map[string]*config.Network{
		"base": {
			ChainID:     8453,
			ExplorerAPI: "https://api.basescan.org/api",
			ExplorerURL: "https://basescan.org",
			ScanKey:     os.Getenv("NETWORK_SCAN_KEY_BASE"),
		},
		"ftm": {
			ChainID:     250,
			GasLimit:    10_000_000,
			ExplorerAPI: "https://api.ftmscan.com/api",
			ExplorerURL: "https://ftmscan.com",
			ScanKey:     firstEnv("NETWORK_SCAN_KEY_FTM", "NETWORK_SCAN_KEY"),
		},
		"matic": {
			ChainID:     137,
			GasLimit:    12_000_000,
			ExplorerAPI: "https://api.polygonscan.com/api",
			ExplorerURL: "https://polygonscan.com",
			ScanKey:     firstEnv("NETWORK_SCAN_KEY_MATIC", "NETWORK_SCAN_KEY"),
		},
		"eth": {
			ChainID:     1,
			ExplorerAPI: "https://api.etherscan.io/api",
			ExplorerURL: "https://etherscan.io",
			ScanKey:     scanKey,
		},
		"mumbai": {
			ChainID:     80001,
			RPCURL:      "https://rpc-mumbai.maticvigil.com",
			ExplorerAPI: "https://api-testnet.polygonscan.com/api",
			ExplorerURL: "https://mumbai.polygonscan.com",
			ScanKey:     firstEnv("NETWORK_SCAN_KEY_MATIC", "NETWORK_SCAN_KEY"),
		},
		"ropsten": {
			ChainID:  3,
			RPCURL:   infuraURL("ropsten"),
			GasLimit: 8_000_000,
		},
		"rinkeby": {
			ChainID:  4,
			RPCURL:   infuraURL("rinkeby"),
			GasLimit: 8_000_000,
			GasPrice: 1_100_000_000,
		},
		"bsc": {
			ChainID:     56,
			ExplorerAPI: "https://api.bscscan.com/api",
			ExplorerURL: "https://bscscan.com",
			ScanKey:     firstEnv("NETWORK_SCAN_KEY_BSC", "NETWORK_SCAN_KEY"),
		},
		"zktest": {
			ChainID: 1402,
			RPCURL:  "https://public.zkevm-test.net:2083",
		},
		"goerli": {
			ChainID: 5,
		},
		"sepolia": {
			ChainID: 11155111,
		},
		"tetu": {
			ChainID: 778877,
			RPCURL:  "https://tetu-node.io",
		},
		"custom": {
			ChainID: 778877,
			RPCURL:  "http://localhost:8545",
		},
		"baobab": {
			ChainID: 1001,
			RPCURL:  "https://api.baobab.klaytn.net:8651",
		},
		"skale_test": {
			ChainID:     1351057110,
			RPCURL:      "https://staging-v3.skalenodes.com/v1/staging-fast-active-bellatrix",
			ExplorerAPI: "https://staging-fast-active-bellatrix.explorer.staging-v3.skalenodes.com/api",
			ExplorerURL: "https://staging-fast-active-bellatrix.explorer.staging-v3.skalenodes.com",
			ScanKey:     "any",
		},
		SimulatedNetwork: {
			ChainID:   SimulatedChainID,
			Simulated: true,
			Local:     true,
		},
	}

	for name, n := range networks {
		n.Name = name
		if rpc := os.Getenv(GenerateEnvVarName(name)); rpc != "" {
			n.RPCURL = rpc
		}
		n.ForkBlock = envUint(envName(name, "FORK_BLOCK"))
	}

	networks[LocalNetwork] = localNetwork(networks)
	return networks
}

// localNetwork describes the anvil node on localhost. HARDHAT_CHAIN_ID other
// than 31337 turns it into a fork of the matching live network.
func localNetwork(networks map[string]*config.Network) *config.Network {
	chainID := envUint("HARDHAT_CHAIN_ID")
	if chainID == 0 {
		chainID = LocalChainID
	}
	local := &config.Network{
		Name:     LocalNetwork,
		ChainID:  chainID,
		RPCURL:   os.Getenv(GenerateEnvVarName(LocalNetwork)),
		GasLimit: localGasLimit(chainID),
		Local:    true,
	}
	if local.RPCURL == "" {
		local.RPCURL = "http://127.0.0.1:8545"
	}
	if chainID != LocalChainID {
		if name, ok := forkable[chainID]; ok {
			local.ForkURL = networks[name].RPCURL
			local.ForkBlock = networks[name].ForkBlock
		}
	}
	return local
}

type fileConfig struct {
	Networks map[string]config.Network `toml:"networks"`
}

// LoadNetworks returns the built-in table with vaultctl.toml applied on top.
// Only keys present in the file override a built-in network; unknown names
// add new networks. String values are env-expanded.
func LoadNetworks(projectRoot string) (map[string]*config.Network, bool, error) {
	networks := DefaultNetworks()

	path := filepath.Join(projectRoot, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return networks, false, nil
	}

	var file fileConfig
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	for name, override := range file.Networks {
		override.Name = name
		expandNetwork(&override)

		base, ok := networks[name]
		if !ok {
			n := override
			networks[name] = &n
			continue
		}
		applyDefined(md, name, base, &override)
	}
	return networks, true, nil
}

func expandNetwork(n *config.Network) {
	n.RPCURL = os.ExpandEnv(n.RPCURL)
	n.ExplorerAPI = os.ExpandEnv(n.ExplorerAPI)
	n.ExplorerURL = os.ExpandEnv(n.ExplorerURL)
	n.ScanKey = os.ExpandEnv(n.ScanKey)
	n.ForkURL = os.ExpandEnv(n.ForkURL)
}

// applyDefined copies every field whose toml key is set in the file.
func applyDefined(md toml.MetaData, name string, dst, src *config.Network) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	t := dv.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("toml")
		if key == "" || key == "-" {
			continue
		}
		if md.IsDefined("networks", name, key) {
			dv.Field(i).Set(sv.Field(i))
		}
	}
}
