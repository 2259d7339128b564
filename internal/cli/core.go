package cli

import (
	"github.com/spf13/cobra"

	"github.com/tetu-io/vaultctl/internal/cli/render"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// NewCoreCmd creates the core command group
func NewCoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "core",
		Short: "Inspect the core contracts of the selected network",
	}
	cmd.AddCommand(newCoreShowCmd())
	return cmd
}

func newCoreShowCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show core addresses and verify their on-chain wiring",
		Long: `Attach to the core contracts of the selected network, taken from the
address book or the last saved deployment, and compare the controller's
bookkeeper and announcer with the expected addresses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.ConnectCore.Run(cmd.Context(), app.Session, usecase.ConnectCoreParams{Check: check})
			if err != nil {
				return err
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderConnected(result)
		},
	}

	cmd.Flags().BoolVar(&check, "check", true, "Read on-chain wiring")
	return cmd
}
