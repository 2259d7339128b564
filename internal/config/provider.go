package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tetu-io/vaultctl/internal/domain/config"
)

// projectMarkers identify a project root, in order of preference.
var projectMarkers = []string{ConfigFileName, "hardhat.config.ts", "foundry.toml"}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env must be loaded before any env-backed key is read
	if err := loadEnvFiles(projectRoot); err != nil {
		return nil, err
	}

	networks, fromFile, err := LoadNetworks(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        resolvePath(projectRoot, v.GetString("data_dir")),
		ArtifactsDir:   artifactsDir(projectRoot, v.GetString("artifacts")),
		PrivateKey:     strings.TrimPrefix(strings.TrimSpace(v.GetString("private_key")), "0x"),
		Debug:          v.GetBool("debug") || envBool("LOGGING_ENABLED"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		WaitBlocks:     v.GetUint64("wait_blocks"),
		PollInterval:   v.GetDuration("poll_interval"),
		ConfigSource:   "defaults",
		Networks:       networks,
	}
	if fromFile {
		cfg.ConfigSource = ConfigFileName
	}

	if networkName := v.GetString("network"); networkName != "" {
		network, err := NewNetworkResolver(networks).Resolve(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to the first
// directory holding vaultctl.toml, hardhat.config.ts or foundry.toml.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootFrom(dir)
}

func findProjectRootFrom(dir string) (string, error) {
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a vault project (none of %s found)", strings.Join(projectMarkers, ", "))
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Global settings may also live at the top level of vaultctl.toml
	v.SetConfigName(strings.TrimSuffix(ConfigFileName, ".toml"))
	v.SetConfigType("toml")
	v.AddConfigPath(projectRoot)

	v.SetEnvPrefix("VAULTCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	_ = v.BindEnv("private_key", "VAULTCTL_PRIVATE_KEY", "PRIVATE_KEY")

	v.SetDefault("timeout", "10m")
	v.SetDefault("poll_interval", "10s")
	v.SetDefault("wait_blocks", 0)
	v.SetDefault("data_dir", ".vaultctl")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// artifactsDir prefers an explicit setting, then Hardhat's artifacts/, then
// Foundry's out/.
func artifactsDir(root, configured string) string {
	if configured != "" {
		return resolvePath(root, configured)
	}
	for _, dir := range []string{"artifacts", "out"} {
		path := filepath.Join(root, dir)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return filepath.Join(root, "artifacts")
}
