package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Wallet provider endpoint. Empty means no provider is available.
	WalletURL string
	Network   *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	Output         string // "", "json" or "yaml"
	Timeout        time.Duration

	// Deployment settings
	FallbackGas  uint64
	ResetDelay   time.Duration
	PollInterval time.Duration
	// ExplorerURL overrides the block explorer derived from the chain id
	ExplorerURL string

	// Foundry profile used to locate build output
	FoundryProfile string

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId" yaml:"chainId"`
	Name        string `json:"name" yaml:"name"`
	RPCURL      string `json:"rpcUrl" yaml:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
}

// OutDir returns the build output directory for the active profile
func (c *RuntimeConfig) OutDir() string {
	if c.FoundryConfig != nil {
		if p, ok := c.FoundryConfig.Profile[c.FoundryProfile]; ok && p.OutPath != "" {
			return p.OutPath
		}
		if p, ok := c.FoundryConfig.Profile["default"]; ok && p.OutPath != "" {
			return p.OutPath
		}
	}
	return "out"
}
