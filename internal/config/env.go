package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envName builds the conventional variable name for a network setting.
// Examples: matic, RPC_URL -> MATIC_RPC_URL; skale_test, FORK_BLOCK -> SKALE_TEST_FORK_BLOCK
func envName(networkName, suffix string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_" + suffix
}

// GenerateEnvVarName returns the RPC URL variable for a network, e.g. FTM_RPC_URL.
func GenerateEnvVarName(networkName string) string {
	return envName(networkName, "RPC_URL")
}

// loadEnvFiles loads .env.local and .env. godotenv never overrides, so the
// process environment beats .env.local, which beats .env.
func loadEnvFiles(projectRoot string) error {
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

func envUint(name string) uint64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func envBool(name string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(name)))
	return b
}

// firstEnv returns the first non-empty variable among names.
func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}
