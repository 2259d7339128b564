package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tetu-io/vaultctl/internal/adapters/progress"
	"github.com/tetu-io/vaultctl/internal/app"
	"github.com/tetu-io/vaultctl/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// releaseKey holds the func closing connections and cancelling the timeout
	releaseKey contextKey = "release"
)

// errAborted is returned when the user declines a confirmation prompt.
var errAborted = errors.New("aborted by user")

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vaultctl",
		Short: "Deploy and exercise the vault protocol contracts",
		Long: `vaultctl deploys the controller, announcer and bookkeeper of the vault
protocol, wires vaults and strategies into them, and drives time-lock
announcements, tokens and local anvil nodes for integration testing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				// commands such as addresses work outside a project
				if projectRoot, err = os.Getwd(); err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)
			sink := progress.NewProgressSink(v.GetBool("non_interactive"))

			appInstance, cleanup, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cancel := func() {}
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			ctx = context.WithValue(ctx, releaseKey, func() {
				cancel()
				cleanup()
			})

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g. matic, ftm, local, simulated)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().String("artifacts", "", "Compiled artifacts directory (default artifacts/ or out/)")

	rootCmd.AddGroup(&cobra.Group{ID: "protocol", Title: "Protocol Commands"})
	rootCmd.AddGroup(&cobra.Group{ID: "tools", Title: "Tooling Commands"})

	for _, c := range []*cobra.Command{NewDeployCmd(), NewCoreCmd(), NewAnnounceCmd(), NewTokenCmd(), NewVerifyCmd()} {
		c.GroupID = "protocol"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewNetworksCmd(), NewAddressesCmd(), NewDevCmd()} {
		c.GroupID = "tools"
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command and releases whatever the executed command
// opened, also when it failed.
func Execute(ctx context.Context) error {
	cmd, err := NewRootCmd().ExecuteContextC(ctx)
	if cmd != nil && cmd.Context() != nil {
		if release, ok := cmd.Context().Value(releaseKey).(func()); ok {
			release()
		}
	}
	return err
}

func needsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return false
	}
	return cmd.Runnable()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}

// confirmBroadcast asks before sending transactions to a live network.
// Local and in-process networks never prompt.
func confirmBroadcast(a *app.App, action string) error {
	network := a.Config.Network
	if network == nil || network.Local || network.Simulated {
		return nil
	}
	ok, err := a.Confirmer.Confirm(fmt.Sprintf("%s on %s (chain %d)", action, network.Name, network.ChainID))
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}
