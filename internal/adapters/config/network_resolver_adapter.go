package config

import (
	"context"
	"fmt"

	"github.com/tetu-io/vaultctl/internal/config"
	"github.com/tetu-io/vaultctl/internal/domain"
	domainconfig "github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// NetworkResolverAdapter serves the network table to use cases. An empty
// name means the network selected with --network.
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
	cfg      *domainconfig.RuntimeConfig
}

var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)

func NewNetworkResolverAdapter(resolver *config.NetworkResolver, cfg *domainconfig.RuntimeConfig) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{resolver: resolver, cfg: cfg}
}

func (a *NetworkResolverAdapter) GetNetworks(context.Context) []string {
	return a.resolver.GetNetworks()
}

// ResolveNetwork returns a copy of the named network. Unknown names fail
// with domain.ErrNoConfig.
func (a *NetworkResolverAdapter) ResolveNetwork(_ context.Context, name string) (*domainconfig.Network, error) {
	if name == "" {
		if a.cfg == nil || a.cfg.Network == nil {
			return nil, &domain.NoConfigError{Kind: "network", ChainID: "(none selected)"}
		}
		n := *a.cfg.Network
		return &n, nil
	}

	network, err := a.resolver.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", &domain.NoConfigError{Kind: "network", ChainID: name}, err)
	}
	return network, nil
}
