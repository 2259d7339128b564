package cli

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/tetu-io/vaultctl/internal/app"
	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/domain/bindings"
)

func parseAddress(what, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s %q: %w", what, s, domain.ErrInvalidAddress)
	}
	return common.HexToAddress(s), nil
}

func parseBig(what, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%s: invalid number %q", what, s)
	}
	return v, nil
}

func parseUint(what, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", what, s)
	}
	return v, nil
}

// parseHash accepts a 32-byte hex value or a decimal number.
func parseHash(what, s string) (common.Hash, error) {
	if len(s) > 2 && s[:2] == "0x" {
		b := common.FromHex(s)
		if len(b) > common.HashLength {
			return common.Hash{}, fmt.Errorf("%s: value longer than 32 bytes", what)
		}
		return common.BytesToHash(b), nil
	}
	v, err := parseBig(what, s)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BigToHash(v), nil
}

// parseAmount reads a decimal token amount such as "1.5" with the given decimals.
func parseAmount(s string, decimals uint8) (*big.Int, error) {
	return bindings.ParseUnits(s, decimals)
}

// waitBlocks returns the --wait flag when set, else the configured default.
func waitBlocks(cmd *cobra.Command, a *app.App, flag uint64) uint64 {
	if cmd.Flags().Changed("wait") {
		return flag
	}
	return a.Config.WaitBlocks
}
