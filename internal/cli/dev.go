package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tetu-io/vaultctl/internal/adapters/anvil"
	"github.com/tetu-io/vaultctl/internal/cli/render"
	"github.com/tetu-io/vaultctl/internal/config"
	domainconfig "github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// NewDevCmd creates the dev command with subcommands
func NewDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development node utilities",
		Long: `Development utilities: manage a local anvil node and drive the dev node
of the selected network (snapshots, time travel, funding, impersonation).`,
	}

	cmd.AddCommand(newDevAnvilCmd())
	cmd.AddCommand(newDevSnapshotCmd())
	cmd.AddCommand(newDevRevertCmd())
	cmd.AddCommand(newDevTimeCmd())
	cmd.AddCommand(newDevMineCmd())
	cmd.AddCommand(newDevFundCmd())
	cmd.AddCommand(newDevImpersonateCmd())
	cmd.AddCommand(newDevStorageCmd())

	return cmd
}

func newDevAnvilCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anvil",
		Short: "Manage local anvil node",
		Long: `Manage a local anvil node. With --fork the node forks a live network at
its configured fork block.`,
	}

	for _, op := range []struct{ name, short string }{
		{usecase.AnvilStart, "Start local anvil node"},
		{usecase.AnvilStop, "Stop local anvil node"},
		{usecase.AnvilRestart, "Restart local anvil node"},
		{usecase.AnvilStatus, "Show anvil status"},
		{usecase.AnvilLogs, "Follow anvil logs"},
	} {
		cmd.AddCommand(newDevAnvilOpCmd(op.name, op.short))
	}

	return cmd
}

// anvilFlags holds common flags for anvil commands
type anvilFlags struct {
	name    string
	port    string
	chainID string
	fork    string
}

func addAnvilFlags(cmd *cobra.Command, flags *anvilFlags) {
	cmd.Flags().StringVar(&flags.name, "name", "anvil", "Instance name")
	cmd.Flags().StringVar(&flags.port, "port", anvil.DefaultAnvilPort, "RPC port to bind")
	cmd.Flags().StringVar(&flags.chainID, "chain-id", "", "Chain ID (default from the local network)")
	cmd.Flags().StringVar(&flags.fork, "fork", "", "Network to fork (e.g. eth, matic)")
}

func newDevAnvilOpCmd(operation, short string) *cobra.Command {
	flags := &anvilFlags{}

	cmd := &cobra.Command{
		Use:   operation,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnvilCommand(cmd, operation, flags)
		},
	}

	addAnvilFlags(cmd, flags)
	return cmd
}

func runAnvilCommand(cmd *cobra.Command, operation string, flags *anvilFlags) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	params := usecase.ManageAnvilParams{
		Operation: operation,
		Name:      flags.name,
		Port:      flags.port,
		ChainID:   flags.chainID,
	}
	if operation == usecase.AnvilStart || operation == usecase.AnvilRestart {
		if err := applyForkDefaults(app.Config.Networks, flags.fork, &params); err != nil {
			return err
		}
	}

	result, err := app.ManageAnvil.Execute(cmd.Context(), params)
	if err != nil {
		return err
	}

	renderer := render.NewAnvilRenderer(cmd.OutOrStdout())
	if operation == usecase.AnvilLogs {
		if err := renderer.RenderLogsHeader(result); err != nil {
			return err
		}
		return app.AnvilManager.StreamLogs(cmd.Context(), result.Instance, cmd.OutOrStdout())
	}
	return renderer.Render(result)
}

// applyForkDefaults fills chain id and fork source from the local network
// unless overridden by flags.
func applyForkDefaults(networks map[string]*domainconfig.Network, fork string, params *usecase.ManageAnvilParams) error {
	local := networks[config.LocalNetwork]

	if fork != "" {
		network, err := config.NewNetworkResolver(networks).Resolve(fork)
		if err != nil {
			return err
		}
		if network.RPCURL == "" {
			return fmt.Errorf("network %q has no RPC URL to fork", network.Name)
		}
		params.ForkURL = network.RPCURL
		params.ForkBlock = network.ForkBlock
		if params.ChainID == "" && local != nil {
			params.ChainID = strconv.FormatUint(local.ChainID, 10)
		}
		return nil
	}

	if local == nil {
		return nil
	}
	if params.ChainID == "" {
		params.ChainID = strconv.FormatUint(local.ChainID, 10)
	}
	params.ForkURL = local.ForkURL
	params.ForkBlock = local.ForkBlock
	return nil
}

func newDevSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Take a chain snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := app.DevNode.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Snapshot "+id))
			return nil
		},
	}
}

func newDevRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <snapshot-id>",
		Short: "Revert to a snapshot",
		Long:  `Revert to a snapshot. Cached deployments of the current chain are dropped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := app.DevNode.Revert(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Reverted to "+args[0]))
			return nil
		},
	}
}

func newDevTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "time <seconds>",
		Short: "Advance block time and mine a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			secs, err := parseUint("seconds", args[0])
			if err != nil {
				return err
			}
			if err := app.DevNode.IncreaseTime(cmd.Context(), secs); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Advanced time by %ds", secs)))
			return nil
		},
	}
}

func newDevMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine [blocks]",
		Short: "Mine blocks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			blocks := uint64(1)
			if len(args) == 1 {
				if blocks, err = parseUint("blocks", args[0]); err != nil {
					return err
				}
			}
			if err := app.DevNode.Mine(cmd.Context(), blocks); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Mined %d block(s)", blocks)))
			return nil
		},
	}
}

func newDevFundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <address> <eth>",
		Short: "Set the native balance of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			account, err := parseAddress("account", args[0])
			if err != nil {
				return err
			}
			wei, err := app.DevNode.Fund(cmd.Context(), account, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Balance of %s set to %s wei", account.Hex(), wei)))
			return nil
		},
	}
}

func newDevImpersonateCmd() *cobra.Command {
	var stop bool

	cmd := &cobra.Command{
		Use:   "impersonate <address>",
		Short: "Start or stop impersonating an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			account, err := parseAddress("account", args[0])
			if err != nil {
				return err
			}
			if stop {
				if err := app.DevNode.StopImpersonating(cmd.Context(), account); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Stopped impersonating "+account.Hex()))
				return nil
			}
			if err := app.DevNode.Impersonate(cmd.Context(), account); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Impersonating "+account.Hex()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&stop, "stop", false, "Stop impersonating")
	return cmd
}

func newDevStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage <address> <slot> <value>",
		Short: "Overwrite a storage slot",
		Long:  `Overwrite a storage slot. Slot and value are 0x hex or decimal.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			account, err := parseAddress("account", args[0])
			if err != nil {
				return err
			}
			slot, err := parseHash("slot", args[1])
			if err != nil {
				return err
			}
			value, err := parseHash("value", args[2])
			if err != nil {
				return err
			}
			prev, err := app.DevNode.SetStorage(cmd.Context(), account, slot, value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Slot %s: %s -> %s", slot.Hex(), prev.Hex(), value.Hex())))
			return nil
		},
	}
}
