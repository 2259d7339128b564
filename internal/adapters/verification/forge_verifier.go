package verification

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// ForgeVerifier submits explorer verification through `forge verify-contract`.
type ForgeVerifier struct {
	projectRoot string
	binary      string
}

// NewForgeVerifier creates a verifier that runs forge from the project root.
func NewForgeVerifier(cfg *config.RuntimeConfig) *ForgeVerifier {
	return &ForgeVerifier{projectRoot: cfg.ProjectRoot, binary: "forge"}
}

var _ usecase.ContractVerifier = (*ForgeVerifier)(nil)

// Verify runs forge and interprets its output.
func (v *ForgeVerifier) Verify(ctx context.Context, req usecase.VerifyRequest) error {
	cmd := exec.CommandContext(ctx, v.binary, buildVerifyArgs(req)...)
	cmd.Dir = v.projectRoot

	output, err := cmd.CombinedOutput()
	return interpretOutput(string(output), err)
}

// DumpVerifyCommand returns the command Verify would run.
func (v *ForgeVerifier) DumpVerifyCommand(req usecase.VerifyRequest) string {
	return v.binary + " " + strings.Join(buildVerifyArgs(req), " ")
}

func buildVerifyArgs(req usecase.VerifyRequest) []string {
	args := []string{
		"verify-contract",
		req.Address.Hex(),
		req.Artifact,
		"--chain-id", strconv.FormatUint(req.ChainID, 10),
		"--watch",
	}
	if req.VerifierURL != "" {
		args = append(args, "--verifier-url", req.VerifierURL)
	}
	if req.APIKey != "" {
		args = append(args, "--etherscan-api-key", req.APIKey)
	}
	if len(req.ConstructorArgs) > 0 {
		args = append(args, "--constructor-args", common.Bytes2Hex(req.ConstructorArgs))
	}
	return args
}

func alreadyVerified(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "already verified")
}

func interpretOutput(output string, runErr error) error {
	output = strings.TrimSpace(output)
	if alreadyVerified(output) {
		return nil
	}
	if runErr != nil {
		if output == "" {
			return fmt.Errorf("verification failed: %w", runErr)
		}
		return fmt.Errorf("verification failed: %s", output)
	}
	if strings.Contains(output, "successfully verified") || strings.Contains(output, "Pass - Verified") {
		return nil
	}
	return fmt.Errorf("verification status unclear: %s", output)
}
