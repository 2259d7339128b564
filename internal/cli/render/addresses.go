package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/tetu-io/vaultctl/internal/usecase"
)

// AddressesRenderer renders address-book entries per chain
type AddressesRenderer struct {
	out io.Writer
}

func NewAddressesRenderer(out io.Writer) *AddressesRenderer {
	return &AddressesRenderer{out: out}
}

func (r *AddressesRenderer) Render(result *usecase.ShowAddressesResult) error {
	if len(result.Chains) == 0 {
		fmt.Fprintln(r.out, "No addresses configured")
		return nil
	}

	for i, chain := range result.Chains {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		headerColor.Fprintf(r.out, "Chain %s\n", chain.ChainID)

		t := newTable()
		t.AppendHeader(table.Row{"Kind", "Name", "Address"})
		if chain.Core != nil {
			t.AppendRow(table.Row{"core", "Controller", formatAddress(chain.Core.Controller)})
			t.AppendRow(table.Row{"core", "Announcer", formatAddress(chain.Core.Announcer)})
			t.AppendRow(table.Row{"core", "Bookkeeper", formatAddress(chain.Core.Bookkeeper)})
		}
		if chain.Tools != nil {
			t.AppendRow(table.Row{"tools", "Reader", formatAddress(chain.Tools.Reader)})
			t.AppendRow(table.Row{"tools", "Calculator", formatAddress(chain.Tools.Calculator)})
			t.AppendRow(table.Row{"tools", "Rewarder", formatAddress(chain.Tools.Rewarder)})
			t.AppendRow(table.Row{"tools", "Zap", formatAddress(chain.Tools.Zap)})
			t.AppendRow(table.Row{"tools", "PerfFeeTreasury", formatAddress(chain.Tools.PerfFeeTreasury)})
		}
		symbols := lo.Keys(chain.Tokens)
		slices.Sort(symbols)
		for _, sym := range symbols {
			t.AppendRow(table.Row{"token", sym, formatAddress(chain.Tokens[sym])})
		}
		if chain.NetworkToken != nil {
			t.AppendRow(table.Row{"token", "network token", formatAddress(*chain.NetworkToken)})
		}
		fmt.Fprintln(r.out, t.Render())
	}
	return nil
}
