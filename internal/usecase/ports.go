package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/domain/config"
)

// Wallet ports

// ProviderDetector locates the wallet provider.
// It returns domain.ErrProviderMissing when none is available.
type ProviderDetector interface {
	Detect(ctx context.Context) (WalletProvider, error)
}

// WalletProvider is the EIP-1193 style request surface of a wallet
type WalletProvider interface {
	// Accounts issues eth_accounts. It never prompts the user.
	Accounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts issues eth_requestAccounts, which may show a consent prompt.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	ChainID(ctx context.Context) (uint64, error)
	// Subscribe delivers accountsChanged and chainChanged notifications in order.
	Subscribe(ctx context.Context) (WalletSubscription, error)
	Close()
}

// WalletEventKind identifies a provider notification
type WalletEventKind string

const (
	AccountsChanged WalletEventKind = "accountsChanged"
	ChainChanged    WalletEventKind = "chainChanged"
)

// WalletEvent is a notification pushed by the wallet
type WalletEvent struct {
	Kind     WalletEventKind
	Accounts []common.Address
	ChainID  uint64
}

// WalletSubscription is a cancellable stream of wallet notifications
type WalletSubscription interface {
	Events() <-chan WalletEvent
	Err() <-chan error
	Unsubscribe()
}

// Chain client ports

// ChainClientFactory builds a chain client on top of a detected provider
type ChainClientFactory interface {
	NewChainClient(provider WalletProvider) (ChainClient, error)
}

// ChainClient deploys contracts through the wallet
type ChainClient interface {
	Deploy(artifact *domain.ContractArtifact, args []string) (DeployHandle, error)
	CodeExists(ctx context.Context, address common.Address) (bool, error)
}

// DeployHandle is a prepared contract creation
type DeployHandle interface {
	EstimateGas(ctx context.Context, from common.Address) (uint64, error)
	// Send submits the creation and waits for it to be mined. A submitted transaction is never withdrawn.
	Send(ctx context.Context, from common.Address, gas uint64) (*DeployReceipt, error)
}

// DeployReceipt is the outcome of a mined contract creation
type DeployReceipt struct {
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

// UI ports

// Tone is the visual weight of a status message
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// StatusView is the UI surface the controller writes to. It never reads from it.
type StatusView interface {
	SetConnectLabel(label string)
	SetDeployEnabled(enabled bool)
	SetDeployLabel(label string)
	SetConnectionStatus(text string, tone Tone)
	SetDeploymentStatus(text string, tone Tone, link string)
	// Notice shows a blocking message, the equivalent of an alert.
	Notice(message string)
}

// NopView discards all UI updates
type NopView struct{}

func (NopView) SetConnectLabel(string)                   {}
func (NopView) SetDeployEnabled(bool)                    {}
func (NopView) SetDeployLabel(string)                    {}
func (NopView) SetConnectionStatus(string, Tone)         {}
func (NopView) SetDeploymentStatus(string, Tone, string) {}
func (NopView) Notice(string)                            {}

// Supporting ports

// Scheduler runs f after d. It backs the UI reset timer.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// DeploymentOutcome labels a finished deploy call for metrics
type DeploymentOutcome string

const (
	OutcomeSucceeded DeploymentOutcome = "succeeded"
	OutcomeFailed    DeploymentOutcome = "failed"
	OutcomeRejected  DeploymentOutcome = "rejected"
)

// DeploymentMetrics records deployment activity
type DeploymentMetrics interface {
	ObserveAttempt(outcome DeploymentOutcome)
	ObserveGasLimit(limit uint64, fallback bool)
}

// NopMetrics discards metrics
type NopMetrics struct{}

func (NopMetrics) ObserveAttempt(DeploymentOutcome) {}
func (NopMetrics) ObserveGasLimit(uint64, bool)     {}

// ArtifactRef points at a contract artifact
type ArtifactRef struct {
	// Contract is a contract name or "path:Name" looked up in the build output
	Contract string
	// Path is an artifact JSON file (Foundry or Hardhat format)
	Path string
	// ABIPath and BinPath load a split ABI/bytecode pair
	ABIPath string
	BinPath string
}

// IsZero reports whether no artifact source was given
func (r ArtifactRef) IsZero() bool {
	return r.Contract == "" && r.Path == "" && r.ABIPath == "" && r.BinPath == ""
}

// ArtifactLoader loads compiled contracts
type ArtifactLoader interface {
	Load(ctx context.Context, ref ArtifactRef) (*domain.ContractArtifact, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}
