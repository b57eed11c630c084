package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/domain/config"
)

// EnvPrefix prefixes every environment variable the tool reads
const EnvPrefix = "TREB_WALLET"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".treb"),
		WalletURL:      v.GetString("wallet_url"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Output:         strings.ToLower(v.GetString("output")),
		Timeout:        v.GetDuration("timeout"),
		FallbackGas:    v.GetUint64("fallback_gas"),
		ResetDelay:     v.GetDuration("reset_delay"),
		PollInterval:   v.GetDuration("poll_interval"),
		ExplorerURL:    v.GetString("explorer_url"),
		FoundryProfile: v.GetString("profile"),
	}

	switch cfg.Output {
	case "", "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("unsupported output format %q (use text, json or yaml)", cfg.Output)
	}
	if cfg.Output == "text" {
		cfg.Output = ""
	}
	if cfg.FallbackGas == 0 {
		cfg.FallbackGas = domain.FallbackGasLimit
	}
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = domain.ResetDelay
	}

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	// a named network supplies the wallet url unless one was given explicitly.
	// The endpoint is not contacted here; an unreachable one is reported by
	// wallet detection.
	if networkName := v.GetString("network"); networkName != "" {
		network, err := NewNetworkResolver(foundryConfig).Lookup(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
		if cfg.WalletURL == "" {
			cfg.WalletURL = network.RPCURL
		}
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find foundry.toml.
// Outside a Foundry project the current directory is used.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "foundry.toml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".treb"))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("project_root", projectRoot)
	v.SetDefault("profile", "default")
	v.SetDefault("timeout", "0s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("fallback_gas", domain.FallbackGasLimit)
	v.SetDefault("reset_delay", domain.ResetDelay.String())
	v.SetDefault("poll_interval", "1s")
	_ = v.BindEnv("profile", EnvPrefix+"_PROFILE", "FOUNDRY_PROFILE")

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.FoundryConfig)
}
