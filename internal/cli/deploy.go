package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tetu-io/vaultctl/internal/cli/render"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// NewDeployCmd creates the deploy command group
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy protocol contracts",
		Long:  "Deploy the core set, vaults with strategies, mock tokens or any compiled artifact.",
	}

	cmd.AddCommand(newDeployCoreCmd())
	cmd.AddCommand(newDeployVaultCmd())
	cmd.AddCommand(newDeployTokenCmd())
	cmd.AddCommand(newDeployContractCmd())

	return cmd
}

func newDeployCoreCmd() *cobra.Command {
	var (
		timeLock uint64
		wait     uint64
		out      string
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "core",
		Short: "Deploy controller, announcer and bookkeeper",
		Long: `Deploy controller, announcer and bookkeeper behind proxies, initialize them
and register bookkeeper and announcer on the controller.

The addresses are written to --out in the legacy three-line format and the
deployment record is saved under .vaultctl/deployments/<chainId>/core.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := confirmBroadcast(app, "Deploy core contracts"); err != nil {
				return err
			}

			result, err := app.DeployCore.Run(cmd.Context(), app.Session, usecase.DeployCoreParams{
				TimeLock:   timeLock,
				WaitBlocks: waitBlocks(cmd, app, wait),
				ExportPath: out,
				SkipSave:   noSave,
			})
			if err != nil {
				return err
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderCore(result)
		},
	}

	cmd.Flags().Uint64Var(&timeLock, "time-lock", usecase.DefaultTimeLock, "Announcer time-lock in seconds")
	cmd.Flags().Uint64Var(&wait, "wait", 0, "Blocks to wait after each transaction")
	cmd.Flags().StringVar(&out, "out", "tmp/core_addresses.txt", "File receiving the core address triple (empty to skip)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the deployment record")

	return cmd
}

func newDeployVaultCmd() *cobra.Command {
	var (
		underlying          string
		strategy            string
		strategyArgs        []string
		rewardToken         string
		strategyRewardToken string
		rewardDuration      uint64
		toInvest            uint64
		wait                uint64
	)

	cmd := &cobra.Command{
		Use:   "vault <name>",
		Short: "Deploy a SmartVault with its strategy",
		Long: `Deploy a SmartVault named TETU_<name> behind a proxy, deploy its strategy
(NoopStrategy by default) and register both on the controller.

Strategy constructor arguments default to (controller, underlying, vault,
[reward token], reward token). --strategy-arg overrides them; "$vault" is
replaced with the new vault address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.DeployVaultParams{
				Name:           args[0],
				Strategy:       strategy,
				StrategyArgs:   strategyArgs,
				RewardDuration: rewardDuration,
				ToInvest:       toInvest,
				WaitBlocks:     waitBlocks(cmd, app, wait),
			}
			if params.Underlying, err = parseAddress("underlying", underlying); err != nil {
				return err
			}
			if rewardToken != "" {
				if params.VaultRewardToken, err = parseAddress("reward token", rewardToken); err != nil {
					return err
				}
			}
			if strategyRewardToken != "" {
				addr, err := parseAddress("strategy reward token", strategyRewardToken)
				if err != nil {
					return err
				}
				params.StrategyRewardToken = &addr
			}

			if err := confirmBroadcast(app, fmt.Sprintf("Deploy vault %s", params.Name)); err != nil {
				return err
			}
			result, err := app.DeployVault.Run(cmd.Context(), app.Session, params)
			if err != nil {
				return err
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderVault(result)
		},
	}

	cmd.Flags().StringVar(&underlying, "underlying", "", "Underlying token address")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Strategy artifact (default NoopStrategy)")
	cmd.Flags().StringArrayVar(&strategyArgs, "strategy-arg", nil, "Strategy constructor argument (repeatable)")
	cmd.Flags().StringVar(&rewardToken, "reward-token", "", "Vault reward token")
	cmd.Flags().StringVar(&strategyRewardToken, "strategy-reward-token", "", "Strategy reward token (default network token)")
	cmd.Flags().Uint64Var(&rewardDuration, "reward-duration", usecase.DefaultRewardDuration, "Reward duration in seconds")
	cmd.Flags().Uint64Var(&toInvest, "to-invest", usecase.DefaultToInvest, "Share of deposits invested, out of 1000")
	cmd.Flags().Uint64Var(&wait, "wait", 0, "Blocks to wait after each transaction")
	_ = cmd.MarkFlagRequired("underlying")

	return cmd
}

func newDeployTokenCmd() *cobra.Command {
	var (
		decimals uint8
		amount   string
		to       string
		wait     uint64
	)

	cmd := &cobra.Command{
		Use:   "token <SYMBOL>",
		Short: "Deploy a mock ERC20 and mint it",
		Long:  `Deploy MockToken("<SYMBOL>_MOCK_TOKEN", "<SYMBOL>", decimals) and mint --amount whole tokens.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.DeployMockTokenParams{
				Symbol:     args[0],
				Decimals:   decimals,
				Amount:     amount,
				WaitBlocks: waitBlocks(cmd, app, wait),
			}
			if to != "" {
				if params.MintTo, err = parseAddress("recipient", to); err != nil {
					return err
				}
			}

			if err := confirmBroadcast(app, fmt.Sprintf("Deploy mock token %s", params.Symbol)); err != nil {
				return err
			}
			result, err := app.DeployMockToken.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderMockToken(result)
		},
	}

	cmd.Flags().Uint8Var(&decimals, "decimals", 18, "Token decimals")
	cmd.Flags().StringVar(&amount, "amount", usecase.DefaultMockSupply, "Whole tokens to mint")
	cmd.Flags().StringVar(&to, "to", "", "Mint recipient (default signer)")
	cmd.Flags().Uint64Var(&wait, "wait", 0, "Blocks to wait after each transaction")

	return cmd
}

func newDeployContractCmd() *cobra.Command {
	var (
		wait   uint64
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "contract [Artifact] [args...]",
		Short: "Deploy any compiled artifact",
		Long: `Deploy a compiled artifact with constructor arguments given as plain values.
Without an artifact name, or when the name matches several artifacts, an
interactive selector is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.DeployContractParams{
				WaitBlocks: waitBlocks(cmd, app, wait),
				SkipSave:   noSave,
			}
			if len(args) > 0 {
				params.Artifact = args[0]
				params.Args = args[1:]
			}

			if err := confirmBroadcast(app, "Deploy "+artifactLabel(params.Artifact)); err != nil {
				return err
			}
			result, err := app.DeployContract.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderContract(result)
		},
	}

	cmd.Flags().Uint64Var(&wait, "wait", 0, "Blocks to wait after the deployment")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the deployment")

	return cmd
}

func artifactLabel(name string) string {
	if name == "" {
		return "selected contract"
	}
	return name
}
