package render

import (
	"fmt"
	"io"

	"github.com/tetu-io/vaultctl/internal/usecase"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

func (r *VerifyRenderer) Render(result *usecase.VerifyContractResult) error {
	if result.Verified {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s verified at %s", result.Artifact, result.Address.Hex())))
		return nil
	}
	// verification failures are reported, not fatal
	fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s at %s not verified: %s", result.Artifact, result.Address.Hex(), result.Error)))
	return nil
}
