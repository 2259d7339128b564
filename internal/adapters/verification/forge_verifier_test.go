package verification

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

func TestBuildVerifyArgs(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	t.Run("minimal", func(t *testing.T) {
		args := buildVerifyArgs(usecase.VerifyRequest{Address: addr, Artifact: "Controller", ChainID: 137})
		assert.Equal(t, []string{"verify-contract", addr.Hex(), "Controller", "--chain-id", "137", "--watch"}, args)
	})

	t.Run("full", func(t *testing.T) {
		args := buildVerifyArgs(usecase.VerifyRequest{
			Address:         addr,
			Artifact:        "MockToken",
			ChainID:         250,
			VerifierURL:     "https://api.ftmscan.com/api",
			APIKey:          "KEY",
			ConstructorArgs: []byte{0x01, 0xff},
		})
		assert.Contains(t, args, "--verifier-url")
		assert.Contains(t, args, "https://api.ftmscan.com/api")
		assert.Contains(t, args, "KEY")
		assert.Equal(t, "01ff", args[len(args)-1])
	})
}

func TestInterpretOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		runErr  error
		wantErr string
	}{
		{name: "verified", output: "Contract successfully verified"},
		{name: "already verified", output: "Contract source code already verified"},
		{name: "already verified with exit code", output: "Error: Contract is already verified", runErr: errors.New("exit status 1")},
		{name: "failure", output: "Invalid API Key", runErr: errors.New("exit status 1"), wantErr: "verification failed: Invalid API Key"},
		{name: "failure without output", runErr: errors.New("exec: not found"), wantErr: "exec: not found"},
		{name: "unclear", output: "Submitted", wantErr: "status unclear"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := interpretOutput(tt.output, tt.runErr)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDumpVerifyCommand(t *testing.T) {
	v := NewForgeVerifier(&config.RuntimeConfig{ProjectRoot: t.TempDir()})
	cmd := v.DumpVerifyCommand(usecase.VerifyRequest{Address: common.Address{}, Artifact: "Announcer", ChainID: 1})
	assert.Equal(t, "forge verify-contract 0x0000000000000000000000000000000000000000 Announcer --chain-id 1 --watch", cmd)
}
