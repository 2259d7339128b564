package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tetu-io/vaultctl/internal/usecase"
)

// DeployRenderer renders deployment results
type DeployRenderer struct {
	out io.Writer
}

func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// RenderCore renders the deployed core set.
func (r *DeployRenderer) RenderCore(result *usecase.DeployCoreResult) error {
	if result.Cached {
		fmt.Fprintln(r.out, FormatWarning("Core contracts already deployed in this session"))
	}

	t := newTable()
	t.AppendHeader(table.Row{"Contract", "Proxy", "Logic"})
	addrs := result.Core.Addresses()
	for _, c := range []struct {
		name    string
		address string
	}{
		{"Controller", addrs.Controller.Hex()},
		{"Announcer", addrs.Announcer.Hex()},
		{"Bookkeeper", addrs.Bookkeeper.Hex()},
	} {
		logic := "-"
		if result.Record != nil {
			if l, ok := result.Record.Logic[c.name]; ok {
				logic = l.Hex()
			}
		}
		t.AppendRow(table.Row{c.name, addressColor.Sprint(c.address), mutedColor.Sprint(logic)})
	}
	fmt.Fprintln(r.out, t.Render())

	if result.Record != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, keyValueTable([][2]string{
			{"Network", fmt.Sprintf("%s (%d)", result.Record.Network, result.Record.ChainID)},
			{"Deployer", result.Record.Deployer.Hex()},
			{"Time lock", (time.Duration(result.Record.TimeLock) * time.Second).String()},
		}))
	}
	if !result.Cached {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Core contracts deployed in %s", result.Duration.Round(time.Millisecond))))
	}
	return nil
}

// RenderConnected renders the attached core set and its wiring checks.
func (r *DeployRenderer) RenderConnected(result *usecase.ConnectCoreResult) error {
	rows := [][2]string{
		{"Chain", strconv.FormatUint(result.ChainID, 10)},
		{"Source", result.Source},
		{"Controller", formatAddress(result.Addresses.Controller)},
		{"Announcer", formatAddress(result.Addresses.Announcer)},
		{"Bookkeeper", formatAddress(result.Addresses.Bookkeeper)},
	}
	if result.Governance != (common.Address{}) {
		rows = append(rows, [2]string{"Governance", formatAddress(result.Governance)})
	}
	if result.TimeLock != nil {
		rows = append(rows, [2]string{"Time lock", (time.Duration(result.TimeLock.Int64()) * time.Second).String()})
	}
	fmt.Fprintln(r.out, keyValueTable(rows))

	if len(result.Checks) == 0 {
		return nil
	}
	fmt.Fprintln(r.out)
	t := newTable()
	t.AppendHeader(table.Row{"Check", "Expected", "On chain", ""})
	for _, c := range result.Checks {
		status := FormatSuccess("")
		if !c.OK() {
			status = FormatError("mismatch")
		}
		t.AppendRow(table.Row{c.Name, c.Expected.Hex(), c.Actual.Hex(), status})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// RenderVault renders a deployed vault and its strategy.
func (r *DeployRenderer) RenderVault(result *usecase.DeployVaultResult) error {
	fmt.Fprintln(r.out, keyValueTable([][2]string{
		{"Vault", fmt.Sprintf("%s (%s)", result.VaultName, result.VaultSymbol)},
		{"Proxy", formatAddress(result.Vault.Address())},
		{"Logic", formatAddress(result.VaultLogic)},
		{"Strategy", formatAddress(result.Strategy.Address())},
	}))
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Vault deployed in %s", result.Duration.Round(time.Millisecond))))
	return nil
}

// RenderContract renders a one-off deployment.
func (r *DeployRenderer) RenderContract(result *usecase.DeployContractResult) error {
	rows := [][2]string{
		{"Contract", result.Record.Name},
		{"Address", formatAddress(result.Contract.Address())},
	}
	if result.Record.TxHash != (common.Hash{}) {
		rows = append(rows, [2]string{"Tx", result.Record.TxHash.Hex()})
	}
	if len(result.ConstructorArgs) > 0 {
		rows = append(rows, [2]string{"Constructor args", fmt.Sprintf("0x%x", result.ConstructorArgs)})
	}
	fmt.Fprintln(r.out, keyValueTable(rows))
	fmt.Fprintln(r.out, FormatSuccess(result.Record.Name+" deployed"))
	return nil
}

// RenderMockToken renders a deployed and minted mock token.
func (r *DeployRenderer) RenderMockToken(result *usecase.DeployMockTokenResult) error {
	fmt.Fprintln(r.out, keyValueTable([][2]string{
		{"Token", result.Name},
		{"Address", formatAddress(result.Token.Address())},
		{"Minted", result.Minted},
		{"Holder", formatAddress(result.Holder)},
		{"Balance", result.Balance},
	}))
	fmt.Fprintln(r.out, FormatSuccess("Mock token deployed"))
	return nil
}
