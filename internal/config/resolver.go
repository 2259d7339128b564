package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/tetu-io/vaultctl/internal/domain/config"
)

// NetworkResolver resolves network names (or chain ids) against the
// configured network table.
type NetworkResolver struct {
	networks map[string]*config.Network
}

// NewNetworkResolver creates a resolver over networks.
func NewNetworkResolver(networks map[string]*config.Network) *NetworkResolver {
	return &NetworkResolver{networks: networks}
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.Networks)
}

// GetNetworks returns all configured network names, sorted.
func (r *NetworkResolver) GetNetworks() []string {
	names := lo.Keys(r.networks)
	slices.Sort(names)
	return names
}

// Resolve looks a network up by name, case-insensitively, or by chain id.
// The returned value is a copy.
func (r *NetworkResolver) Resolve(name string) (*config.Network, error) {
	if name == "" {
		return nil, fmt.Errorf("network not specified")
	}
	if n, ok := r.networks[name]; ok {
		return copyNetwork(n), nil
	}
	if n, ok := r.networks[strings.ToLower(name)]; ok {
		return copyNetwork(n), nil
	}
	if chainID, err := strconv.ParseUint(name, 10, 64); err == nil {
		// several names can share a chain id; pick the first by name
		for _, candidate := range r.GetNetworks() {
			if r.networks[candidate].ChainID == chainID {
				return copyNetwork(r.networks[candidate]), nil
			}
		}
	}
	return nil, fmt.Errorf("unknown network %q (known: %s)", name, strings.Join(r.GetNetworks(), ", "))
}

func copyNetwork(n *config.Network) *config.Network {
	c := *n
	return &c
}
