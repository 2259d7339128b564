package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/tetu-io/vaultctl/internal/domain"
)

// Address table kinds.
const (
	AddressKindCore   = "core"
	AddressKindTools  = "tools"
	AddressKindTokens = "tokens"
)

// ShowAddressesParams selects what to list. An empty ChainID lists every
// chain that has an entry of the requested kind.
type ShowAddressesParams struct {
	Kind    string
	ChainID string
}

// ChainAddresses is the address-book content for one chain
type ChainAddresses struct {
	ChainID      string                 `json:"chainId" yaml:"chainId"`
	Core         *domain.CoreAddresses  `json:"core,omitempty" yaml:"core,omitempty"`
	Tools        *domain.ToolsAddresses `json:"tools,omitempty" yaml:"tools,omitempty"`
	Tokens       domain.TokenBook       `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	NetworkToken *common.Address        `json:"networkToken,omitempty" yaml:"networkToken,omitempty"`
}

// ShowAddressesResult contains the listed chains
type ShowAddressesResult struct {
	Kind   string
	Chains []ChainAddresses
}

// ShowAddresses lists the address-book tables.
type ShowAddresses struct {
	book AddressBook
}

// NewShowAddresses creates a new ShowAddresses use case
func NewShowAddresses(book AddressBook) *ShowAddresses {
	return &ShowAddresses{book: book}
}

// Run executes the use case
func (uc *ShowAddresses) Run(_ context.Context, params ShowAddressesParams) (*ShowAddressesResult, error) {
	if params.Kind == "" {
		params.Kind = AddressKindCore
	}

	var chains []string
	switch params.Kind {
	case AddressKindCore:
		chains = uc.book.CoreChains()
	case AddressKindTools:
		chains = uc.book.ToolsChains()
	case AddressKindTokens:
		chains = uc.book.TokenChains()
	default:
		return nil, fmt.Errorf("unknown address kind %q (core, tools, tokens)", params.Kind)
	}
	if params.ChainID != "" {
		if !lo.Contains(chains, params.ChainID) {
			return nil, &domain.NoConfigError{Kind: params.Kind, ChainID: params.ChainID}
		}
		chains = []string{params.ChainID}
	}

	result := &ShowAddressesResult{Kind: params.Kind}
	for _, id := range chains {
		entry := ChainAddresses{ChainID: id}
		switch params.Kind {
		case AddressKindCore:
			core, err := uc.book.Core(id)
			if err != nil {
				return nil, err
			}
			entry.Core = &core
		case AddressKindTools:
			tools, err := uc.book.Tools(id)
			if err != nil {
				return nil, err
			}
			entry.Tools = &tools
		case AddressKindTokens:
			tokens, err := uc.book.Tokens(id)
			if err != nil {
				return nil, err
			}
			entry.Tokens = tokens
			if nt, err := uc.book.NetworkToken(id); err == nil {
				entry.NetworkToken = &nt
			} else if !errors.Is(err, domain.ErrNoConfig) {
				return nil, err
			}
		}
		result.Chains = append(result.Chains, entry)
	}
	return result, nil
}
