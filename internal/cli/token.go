package cli

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/tetu-io/vaultctl/internal/cli/render"
)

// NewTokenCmd creates the ERC20 utility commands
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "ERC20 utilities",
		Long: `ERC20 utilities. Tokens are given as an address or as a symbol from the
address book of the selected network (e.g. usdc, weth).`,
	}

	cmd.AddCommand(newTokenDescribeCmd())
	cmd.AddCommand(newTokenBalanceCmd())
	cmd.AddCommand(newTokenTransferCmd())
	cmd.AddCommand(newTokenApproveCmd())

	return cmd
}

func newTokenDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <token>",
		Short: "Show name, symbol, decimals and supply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			info, err := app.TokenOps.Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render.NewTokenRenderer(cmd.OutOrStdout()).RenderInfo(info)
		},
	}
}

func newTokenBalanceCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "balance [holder]",
		Short: "Show a token or native balance",
		Long:  `Show the balance of holder (default signer) in --token, or the native balance when --token is empty.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			var holder common.Address
			if len(args) == 1 {
				if holder, err = parseAddress("holder", args[0]); err != nil {
					return err
				}
			}
			balance, err := app.TokenOps.Balance(cmd.Context(), token, holder)
			if err != nil {
				return err
			}
			return render.NewTokenRenderer(cmd.OutOrStdout()).RenderBalance(balance)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Token address or symbol")
	return cmd
}

func newTokenTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <token> <to> <amount>",
		Short: "Transfer tokens from the signer",
		Long:  `Transfer <amount> in token units (e.g. 1.5) to <to>.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			to, err := parseAddress("recipient", args[1])
			if err != nil {
				return err
			}
			if err := confirmBroadcast(app, "Transfer "+args[2]+" "+args[0]); err != nil {
				return err
			}
			res, err := app.TokenOps.Transfer(cmd.Context(), args[0], to, args[2])
			if err != nil {
				return err
			}
			return render.NewTokenRenderer(cmd.OutOrStdout()).RenderTx("Transferred", res)
		},
	}
}

func newTokenApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <token> <spender> <amount>",
		Short: "Approve a spender",
		Long:  `Set the spender allowance to <amount> in token units.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			spender, err := parseAddress("spender", args[1])
			if err != nil {
				return err
			}
			if err := confirmBroadcast(app, "Approve "+args[2]+" "+args[0]); err != nil {
				return err
			}
			res, err := app.TokenOps.Approve(cmd.Context(), args[0], spender, args[2])
			if err != nil {
				return err
			}
			return render.NewTokenRenderer(cmd.OutOrStdout()).RenderTx("Approved", res)
		},
	}
}
