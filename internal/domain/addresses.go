package domain

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the all-zero address.
var ZeroAddress = common.Address{}

// ChainKey formats a numeric chain ID the way the address tables are keyed.
func ChainKey(chainID uint64) string {
	return strconv.FormatUint(chainID, 10)
}

// CoreAddresses is the address triple of the core protocol contracts on one chain.
type CoreAddresses struct {
	Controller common.Address `json:"controller" yaml:"controller"`
	Announcer  common.Address `json:"announcer" yaml:"announcer"`
	Bookkeeper common.Address `json:"bookkeeper" yaml:"bookkeeper"`
}

// Validate checks that the three addresses are set and pairwise distinct.
func (c CoreAddresses) Validate() error {
	named := []struct {
		name string
		addr common.Address
	}{
		{"controller", c.Controller},
		{"announcer", c.Announcer},
		{"bookkeeper", c.Bookkeeper},
	}
	seen := make(map[common.Address]string, len(named))
	for _, n := range named {
		if n.addr == ZeroAddress {
			return fmt.Errorf("%w: %s is the zero address", ErrInvalidAddress, n.name)
		}
		if other, dup := seen[n.addr]; dup {
			return fmt.Errorf("%w: %s and %s share %s", ErrInvalidAddress, other, n.name, n.addr.Hex())
		}
		seen[n.addr] = n.name
	}
	return nil
}

// ToolsAddresses lists auxiliary contracts deployed next to the core set.
type ToolsAddresses struct {
	Reader          common.Address `json:"reader" yaml:"reader"`
	Calculator      common.Address `json:"calculator" yaml:"calculator"`
	Rewarder        common.Address `json:"rewarder" yaml:"rewarder"`
	Zap             common.Address `json:"zap" yaml:"zap"`
	PerfFeeTreasury common.Address `json:"perfFeeTreasury" yaml:"perfFeeTreasury"`
}

// TokenBook maps a lower-case token symbol to its address on one chain.
type TokenBook map[string]common.Address
