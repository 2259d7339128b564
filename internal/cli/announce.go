package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/tetu-io/vaultctl/internal/cli/render"
	"github.com/tetu-io/vaultctl/internal/domain"
)

// NewAnnounceCmd creates the time-lock announcement commands
func NewAnnounceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Queue and close time-locked governance changes",
		Long: `Queue and close time-locked changes on the announcer.

Opcodes are given by number (0-22) or name, e.g. Governance, Bookkeeper,
ControllerTokenMove, Announcer.`,
	}

	cmd.AddCommand(newAnnounceAddressCmd())
	cmd.AddCommand(newAnnounceRatioCmd())
	cmd.AddCommand(newAnnounceTokenMoveCmd())
	cmd.AddCommand(newAnnounceCloseCmd())
	cmd.AddCommand(newAnnounceInfoCmd())

	return cmd
}

func newAnnounceAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <opcode> <address>",
		Short: "Announce an address change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			op, err := domain.ParseOpcode(args[0])
			if err != nil {
				return err
			}
			value, err := parseAddress("value", args[1])
			if err != nil {
				return err
			}
			if err := confirmBroadcast(app, fmt.Sprintf("Announce %s change", op)); err != nil {
				return err
			}

			result, err := app.Announce.AddressChange(cmd.Context(), op, value)
			if err != nil {
				return err
			}
			return render.NewAnnounceRenderer(cmd.OutOrStdout()).RenderQueued("Address change announced", result)
		},
	}
}

func newAnnounceRatioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ratio <opcode> <numerator> <denominator>",
		Short: "Announce a ratio change",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			op, err := domain.ParseOpcode(args[0])
			if err != nil {
				return err
			}
			num, err := parseBig("numerator", args[1])
			if err != nil {
				return err
			}
			den, err := parseBig("denominator", args[2])
			if err != nil {
				return err
			}
			if err := confirmBroadcast(app, fmt.Sprintf("Announce %s ratio %s/%s", op, num, den)); err != nil {
				return err
			}

			result, err := app.Announce.RatioChange(cmd.Context(), op, num, den)
			if err != nil {
				return err
			}
			return render.NewAnnounceRenderer(cmd.OutOrStdout()).RenderQueued("Ratio change announced", result)
		},
	}
}

func newAnnounceTokenMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token-move <opcode> <target> <token> <amount>",
		Short: "Announce a token move",
		Long:  `Announce moving <amount> (raw units, no decimals applied) of <token> from <target>.`,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			op, err := domain.ParseOpcode(args[0])
			if err != nil {
				return err
			}
			target, err := parseAddress("target", args[1])
			if err != nil {
				return err
			}
			token, err := parseAddress("token", args[2])
			if err != nil {
				return err
			}
			amount, err := parseBig("amount", args[3])
			if err != nil {
				return err
			}
			if err := confirmBroadcast(app, fmt.Sprintf("Announce %s", op)); err != nil {
				return err
			}

			result, err := app.Announce.TokenMove(cmd.Context(), op, target, token, amount)
			if err != nil {
				return err
			}
			return render.NewAnnounceRenderer(cmd.OutOrStdout()).RenderQueued("Token move announced", result)
		},
	}
}

func newAnnounceCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <opcode> [opHash] [target]",
		Short: "Close an announcement",
		Long: `Close an announcement. A missing op hash or target is taken from the
pending announcement for the opcode.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			op, err := domain.ParseOpcode(args[0])
			if err != nil {
				return err
			}
			var (
				opHash common.Hash
				target common.Address
			)
			if len(args) > 1 {
				if opHash, err = parseHash("op hash", args[1]); err != nil {
					return err
				}
			}
			if len(args) > 2 {
				if target, err = parseAddress("target", args[2]); err != nil {
					return err
				}
			}
			if err := confirmBroadcast(app, fmt.Sprintf("Close %s announcement", op)); err != nil {
				return err
			}

			result, err := app.Announce.Close(cmd.Context(), op, opHash, target)
			if err != nil {
				return err
			}
			return render.NewAnnounceRenderer(cmd.OutOrStdout()).RenderQueued("Announcement closed", result)
		},
	}
}

func newAnnounceInfoCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "info <opcode>",
		Short: "Show the pending announcement for an opcode",
		Long: `Show the pending announcement for an opcode.

Upgrade and token move announcements are queued per target. Pass --target
to read them, otherwise only the opcode-wide queue is checked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			op, err := domain.ParseOpcode(args[0])
			if err != nil {
				return err
			}
			addr := domain.ZeroAddress
			if target != "" {
				if addr, err = parseAddress("target", target); err != nil {
					return err
				}
			}

			result, err := app.Announce.Info(cmd.Context(), op, addr)
			if err != nil {
				return err
			}
			return render.NewAnnounceRenderer(cmd.OutOrStdout()).RenderInfo(result)
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Target address for per-target announcements")
	return cmd
}
