package render

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	addressColor = color.New(color.FgGreen)
	mutedColor   = color.New(color.Faint)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// title capitalizes identifiers such as network names for table cells.
func title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

func formatAddress(addr common.Address) string {
	if addr == (common.Address{}) {
		return mutedColor.Sprint("-")
	}
	return addressColor.Sprint(addr.Hex())
}

// newTable returns a borderless table in the style used across commands.
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "   ",
		MiddleHorizontal: "─",
	}
	t.Style().Format.Header = text.FormatUpper
	return t
}

// keyValueTable renders label/value pairs in two aligned columns.
func keyValueTable(rows [][2]string) string {
	t := newTable()
	t.Style().Options.SeparateHeader = false
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignLeft}})
	for _, r := range rows {
		t.AppendRow(table.Row{labelColor.Sprint(r[0]), r[1]})
	}
	return t.Render()
}
