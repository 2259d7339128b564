package usecase

import (
	"context"
	"fmt"

	"github.com/tetu-io/vaultctl/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name      string
	ChainID   uint64
	RPCURL    string
	Explorer  string
	Local     bool
	Simulated bool
	Current   bool
	Error     error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
	cfg      *config.RuntimeConfig
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
		cfg:      cfg,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	// Get all configured networks
	networkNames := uc.resolver.GetNetworks(ctx)

	// Check each network's status
	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		// Try to resolve network to get chain ID
		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
		} else {
			status.ChainID = info.ChainID
			status.RPCURL = info.RPCURL
			status.Explorer = info.ExplorerURL
			status.Local = info.Local
			status.Simulated = info.Simulated
			if info.RPCURL == "" && !info.Simulated {
				status.Error = fmt.Errorf("no rpc url configured")
			}
		}
		status.Current = uc.cfg != nil && uc.cfg.Network != nil && uc.cfg.Network.Name == name

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}
