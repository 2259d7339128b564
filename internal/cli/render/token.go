package render

import (
	"fmt"
	"io"

	"github.com/tetu-io/vaultctl/internal/domain/bindings"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// TokenRenderer renders ERC20 queries and transfers
type TokenRenderer struct {
	out io.Writer
}

func NewTokenRenderer(out io.Writer) *TokenRenderer {
	return &TokenRenderer{out: out}
}

func (r *TokenRenderer) RenderInfo(info *usecase.TokenInfo) error {
	fmt.Fprintln(r.out, keyValueTable([][2]string{
		{"Address", formatAddress(info.Address)},
		{"Name", info.Name},
		{"Symbol", info.Symbol},
		{"Decimals", fmt.Sprint(info.Decimals)},
		{"Total supply", bindings.FormatUnits(info.TotalSupply, info.Decimals)},
	}))
	return nil
}

func (r *TokenRenderer) RenderBalance(b *usecase.TokenBalance) error {
	symbol := "native"
	if b.Token != nil && !b.Native {
		symbol = b.Token.Symbol
	}
	fmt.Fprintf(r.out, "%s %s %s\n", formatAddress(b.Holder), labelColor.Sprint(b.Formatted), symbol)
	return nil
}

func (r *TokenRenderer) RenderTx(action string, res *usecase.TokenTxResult) error {
	fmt.Fprintln(r.out, keyValueTable([][2]string{
		{"Token", fmt.Sprintf("%s (%s)", res.Token.Symbol, res.Token.Address.Hex())},
		{"To", formatAddress(res.To)},
		{"Amount", bindings.FormatUnits(res.Amount, res.Token.Decimals)},
		{"Tx", res.TxHash.Hex()},
	}))
	fmt.Fprintln(r.out, FormatSuccess(action))
	return nil
}
