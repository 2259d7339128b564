// Package addressbook holds the per-chain address tables of the protocol.
package addressbook

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/tetu-io/vaultctl/internal/domain"
)

// Book is an immutable-by-convention registry of known addresses keyed by chain ID.
type Book struct {
	core          map[string]domain.CoreAddresses
	tools         map[string]domain.ToolsAddresses
	tokens        map[string]domain.TokenBook
	networkTokens map[string]common.Address
	governance    map[string]common.Address
}

// Default returns a book with the built-in tables.
func Default() *Book {
	builtin := &Book{
		core:          builtinCore,
		tools:         builtinTools,
		tokens:        builtinTokens,
		networkTokens: builtinNetworkTokens,
		governance:    builtinGovernance,
	}
	return builtin.clone()
}

// Core returns the core triple for a chain.
func (b *Book) Core(chainID string) (domain.CoreAddresses, error) {
	core, ok := b.core[chainID]
	if !ok {
		return domain.CoreAddresses{}, &domain.NoConfigError{ChainID: chainID}
	}
	return core, nil
}

// Tools returns the tooling addresses for a chain.
func (b *Book) Tools(chainID string) (domain.ToolsAddresses, error) {
	tools, ok := b.tools[chainID]
	if !ok {
		return domain.ToolsAddresses{}, &domain.NoConfigError{Kind: "tools", ChainID: chainID}
	}
	return tools, nil
}

// Tokens returns a copy of the token table for a chain.
func (b *Book) Tokens(chainID string) (domain.TokenBook, error) {
	tokens, ok := b.tokens[chainID]
	if !ok {
		return nil, &domain.NoConfigError{Kind: "tokens", ChainID: chainID}
	}
	out := make(domain.TokenBook, len(tokens))
	for k, v := range tokens {
		out[k] = v
	}
	return out, nil
}

// Token looks up a single token by symbol (case-insensitive).
func (b *Book) Token(chainID, symbol string) (common.Address, error) {
	tokens, ok := b.tokens[chainID]
	if !ok {
		return common.Address{}, &domain.NoConfigError{Kind: "tokens", ChainID: chainID}
	}
	addr, ok := tokens[strings.ToLower(symbol)]
	if !ok {
		return common.Address{}, fmt.Errorf("token %q on chain %s: %w", symbol, chainID, domain.ErrNotFound)
	}
	return addr, nil
}

// NetworkToken returns the wrapped native token used as the default reward token.
func (b *Book) NetworkToken(chainID string) (common.Address, error) {
	addr, ok := b.networkTokens[chainID]
	if !ok {
		return common.Address{}, &domain.NoConfigError{Kind: "network token", ChainID: chainID}
	}
	return addr, nil
}

// Governance returns the governance address for a chain.
func (b *Book) Governance(chainID string) (common.Address, error) {
	addr, ok := b.governance[chainID]
	if !ok {
		return common.Address{}, &domain.NoConfigError{Kind: "governance", ChainID: chainID}
	}
	return addr, nil
}

// CoreChains lists chain IDs that have a core record, sorted.
func (b *Book) CoreChains() []string {
	return sortedKeys(b.core)
}

// TokenChains lists chain IDs that have a token table, sorted.
func (b *Book) TokenChains() []string {
	return sortedKeys(b.tokens)
}

// ToolsChains lists chain IDs that have a tools record, sorted.
func (b *Book) ToolsChains() []string {
	return sortedKeys(b.tools)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Overlay is the on-disk shape of addresses.yaml.
type Overlay struct {
	Core         map[string]map[string]string `yaml:"core"`
	Tools        map[string]map[string]string `yaml:"tools"`
	Tokens       map[string]map[string]string `yaml:"tokens"`
	NetworkToken map[string]string            `yaml:"networkToken"`
	Governance   map[string]string            `yaml:"governance"`
}

// LoadOverlay reads an addresses.yaml file. A missing file yields an empty overlay.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overlay{}, nil
		}
		return nil, fmt.Errorf("failed to read address overlay: %w", err)
	}

	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse address overlay %s: %w", path, err)
	}
	return &o, nil
}

// Merge returns a new book with the overlay applied. Chain entries in the
// overlay replace the built-in entry for that chain as a whole.
func (b *Book) Merge(o *Overlay) (*Book, error) {
	out := b.clone()
	if o == nil {
		return out, nil
	}

	for chain, fields := range o.Core {
		core, err := decodeCore(fields)
		if err != nil {
			return nil, fmt.Errorf("core[%s]: %w", chain, err)
		}
		out.core[chain] = core
	}
	for chain, fields := range o.Tools {
		tools, err := decodeTools(fields)
		if err != nil {
			return nil, fmt.Errorf("tools[%s]: %w", chain, err)
		}
		out.tools[chain] = tools
	}
	for chain, symbols := range o.Tokens {
		tb := make(domain.TokenBook, len(symbols))
		for sym, raw := range symbols {
			addr, err := parseAddress(raw)
			if err != nil {
				return nil, fmt.Errorf("tokens[%s].%s: %w", chain, sym, err)
			}
			tb[strings.ToLower(sym)] = addr
		}
		out.tokens[chain] = tb
	}
	for chain, raw := range o.NetworkToken {
		addr, err := parseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("networkToken[%s]: %w", chain, err)
		}
		out.networkTokens[chain] = addr
	}
	for chain, raw := range o.Governance {
		addr, err := parseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("governance[%s]: %w", chain, err)
		}
		out.governance[chain] = addr
	}
	return out, nil
}

func (b *Book) clone() *Book {
	out := &Book{
		core:          lo.Assign(b.core),
		tools:         lo.Assign(b.tools),
		tokens:        make(map[string]domain.TokenBook, len(b.tokens)),
		networkTokens: lo.Assign(b.networkTokens),
		governance:    lo.Assign(b.governance),
	}
	for k, v := range b.tokens {
		out.tokens[k] = lo.Assign(v)
	}
	return out
}

func decodeCore(fields map[string]string) (domain.CoreAddresses, error) {
	var core domain.CoreAddresses
	targets := map[string]*common.Address{
		"controller": &core.Controller,
		"announcer":  &core.Announcer,
		"bookkeeper": &core.Bookkeeper,
	}
	if err := assignFields(fields, targets, true); err != nil {
		return core, err
	}
	return core, core.Validate()
}

func decodeTools(fields map[string]string) (domain.ToolsAddresses, error) {
	var tools domain.ToolsAddresses
	targets := map[string]*common.Address{
		"reader":          &tools.Reader,
		"calculator":      &tools.Calculator,
		"rewarder":        &tools.Rewarder,
		"zap":             &tools.Zap,
		"perffeetreasury": &tools.PerfFeeTreasury,
	}
	return tools, assignFields(fields, targets, false)
}

func assignFields(fields map[string]string, targets map[string]*common.Address, requireAll bool) error {
	for name, raw := range fields {
		dst, ok := targets[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown field %q", name)
		}
		addr, err := parseAddress(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = addr
	}
	if requireAll {
		for name := range targets {
			if _, ok := lo.FindKeyBy(fields, func(k string, _ string) bool { return strings.EqualFold(k, name) }); !ok {
				return fmt.Errorf("missing field %q", name)
			}
		}
	}
	return nil
}

func parseAddress(raw string) (common.Address, error) {
	if raw == "" {
		return domain.ZeroAddress, nil
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
	}
	return common.HexToAddress(raw), nil
}
