package cli

import (
	"github.com/spf13/cobra"

	"github.com/tetu-io/vaultctl/internal/cli/render"
	"github.com/tetu-io/vaultctl/internal/domain"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// NewAddressesCmd creates the addresses command
func NewAddressesCmd() *cobra.Command {
	var (
		chainID string
		format  string
	)

	cmd := &cobra.Command{
		Use:       "addresses [core|tools|tokens]",
		Short:     "Show address-book entries",
		Long:      `Show the built-in address book, extended by addresses.yaml in the project root.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{usecase.AddressKindCore, usecase.AddressKindTools, usecase.AddressKindTokens},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if format == "" && app.Config.JSON {
				format = string(render.FormatJSON)
			}
			outFormat, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			params := usecase.ShowAddressesParams{ChainID: chainID}
			if len(args) == 1 {
				params.Kind = args[0]
			}
			if params.ChainID == "" && cmd.Flags().Changed("network") && app.Config.Network != nil {
				params.ChainID = domain.ChainKey(app.Config.Network.ChainID)
			}

			result, err := app.ShowAddresses.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if outFormat != render.FormatTable {
				return render.WriteStructured(cmd.OutOrStdout(), outFormat, result.Chains)
			}
			return render.NewAddressesRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&chainID, "chain", "", "Only show this chain id")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json or yaml")

	return cmd
}
