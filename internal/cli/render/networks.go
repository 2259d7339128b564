package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tetu-io/vaultctl/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the configured networks as a table
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable()
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "RPC", "Explorer"})
	for _, n := range result.Networks {
		marker := ""
		if n.Current {
			marker = "*"
		}
		name := title(n.Name)
		switch {
		case n.Simulated:
			name += mutedColor.Sprint(" (in-process)")
		case n.Local:
			name += mutedColor.Sprint(" (local)")
		}

		rpc := n.RPCURL
		if n.Error != nil {
			rpc = FormatError(n.Error.Error())
		}
		t.AppendRow(table.Row{marker, name, strconv.FormatUint(n.ChainID, 10), rpc, n.Explorer})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
