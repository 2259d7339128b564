package cli

import (
	"github.com/spf13/cobra"

	"github.com/tetu-io/vaultctl/internal/cli/render"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <address> <Artifact> [args...]",
		Short: "Verify a deployed contract on the network explorer",
		Long: `Submit the source of a deployed contract to the explorer of the selected
network. Constructor arguments are encoded against the artifact ABI.

Examples:
  vaultctl verify 0x1234... Controller -n matic
  vaultctl verify 0x1234... MockToken "Mock USDC" USDC 6 -n ftm`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			address, err := parseAddress("contract", args[0])
			if err != nil {
				return err
			}

			result, err := app.VerifyContract.Run(cmd.Context(), usecase.VerifyContractParams{
				Address:  address,
				Artifact: args[1],
				Args:     args[2:],
			})
			if err != nil {
				return err
			}
			return render.NewVerifyRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
	return cmd
}
