package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/tetu-io/vaultctl/internal/usecase"
)

// AnnounceRenderer renders time-lock announcements
type AnnounceRenderer struct {
	out io.Writer
}

func NewAnnounceRenderer(out io.Writer) *AnnounceRenderer {
	return &AnnounceRenderer{out: out}
}

// RenderQueued renders an announcement or its closing.
func (r *AnnounceRenderer) RenderQueued(action string, result *usecase.AnnounceResult) error {
	rows := [][2]string{
		{"Opcode", fmt.Sprintf("%s (%d)", result.Opcode, uint8(result.Opcode))},
		{"Op hash", result.OpHash.Hex()},
		{"Target", formatAddress(result.Target)},
		{"Tx", result.TxHash.Hex()},
	}
	if result.Index > 0 {
		rows = append(rows, [2]string{"Index", fmt.Sprint(result.Index)})
	}
	if !result.Unlocks.IsZero() {
		rows = append(rows, [2]string{"Unlocks", formatUnlock(result.Unlocks)})
	}
	fmt.Fprintln(r.out, keyValueTable(rows))
	fmt.Fprintln(r.out, FormatSuccess(action))
	return nil
}

// RenderInfo renders the pending announcement for an opcode.
func (r *AnnounceRenderer) RenderInfo(result *usecase.AnnounceInfoResult) error {
	if !result.Pending {
		fmt.Fprintf(r.out, "No pending announcement for %s\n", result.Opcode)
		return nil
	}
	rows := [][2]string{
		{"Opcode", fmt.Sprintf("%s (%d)", result.Opcode, uint8(result.Opcode))},
		{"Index", fmt.Sprint(result.Index)},
	}
	if info := result.Info; info != nil {
		rows = append(rows,
			[2]string{"Op hash", info.OpHash.Hex()},
			[2]string{"Target", formatAddress(info.Target)},
		)
		if len(info.AdrValues) > 0 {
			addrs := make([]string, len(info.AdrValues))
			for i, a := range info.AdrValues {
				addrs[i] = a.Hex()
			}
			rows = append(rows, [2]string{"Addresses", strings.Join(addrs, ", ")})
		}
		if len(info.NumValues) > 0 {
			rows = append(rows, [2]string{"Values", joinBig(info.NumValues)})
		}
	}
	if !result.Unlocks.IsZero() {
		rows = append(rows, [2]string{"Unlocks", formatUnlock(result.Unlocks)})
	}
	fmt.Fprintln(r.out, keyValueTable(rows))
	return nil
}

func joinBig(values []*big.Int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func formatUnlock(t time.Time) string {
	s := t.UTC().Format(time.RFC3339)
	if d := time.Until(t); d > 0 {
		return fmt.Sprintf("%s (in %s)", s, d.Round(time.Second))
	}
	return s + " (unlocked)"
}
