package domain

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// FallbackGasLimit is used when gas estimation fails
	FallbackGasLimit uint64 = 3_000_000

	// ResetDelay is how long the deploy control stays locked after an attempt resolves
	ResetDelay = 3 * time.Second
)

// ApplyGasBuffer adds the 20% safety margin to a gas estimate, rounding down.
// floor(E*1.2) == E + floor(E/5) for integer E.
func ApplyGasBuffer(estimate uint64) uint64 {
	return estimate + estimate/5
}

// AttemptState is the state of a single deployment attempt
type AttemptState string

const (
	AttemptPending    AttemptState = "pending"
	AttemptEstimating AttemptState = "estimating"
	AttemptSending    AttemptState = "sending"
	AttemptSucceeded  AttemptState = "succeeded"
	AttemptFailed     AttemptState = "failed"
)

// rank orders the states; terminal states share the highest rank.
func (s AttemptState) rank() int {
	switch s {
	case AttemptPending:
		return 0
	case AttemptEstimating:
		return 1
	case AttemptSending:
		return 2
	case AttemptSucceeded, AttemptFailed:
		return 3
	default:
		return -1
	}
}

// IsTerminal reports whether no further transition is possible
func (s AttemptState) IsTerminal() bool {
	return s == AttemptSucceeded || s == AttemptFailed
}

// DeploymentAttempt tracks one deployment from submission to outcome.
// It lives for a single deploy call and is never persisted.
type DeploymentAttempt struct {
	State           AttemptState    `json:"state" yaml:"state"`
	Contract        string          `json:"contract,omitempty" yaml:"contract,omitempty"`
	From            common.Address  `json:"from" yaml:"from"`
	Address         *common.Address `json:"address,omitempty" yaml:"address,omitempty"`
	TxHash          *common.Hash    `json:"txHash,omitempty" yaml:"txHash,omitempty"`
	GasEstimate     uint64          `json:"gasEstimate,omitempty" yaml:"gasEstimate,omitempty"`
	GasLimit        uint64          `json:"gasLimit,omitempty" yaml:"gasLimit,omitempty"`
	UsedFallbackGas bool            `json:"usedFallbackGas" yaml:"usedFallbackGas"`
	ExplorerLink    string          `json:"explorerLink,omitempty" yaml:"explorerLink,omitempty"`
	Error           string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewDeploymentAttempt creates a pending attempt
func NewDeploymentAttempt(contract string, from common.Address) *DeploymentAttempt {
	return &DeploymentAttempt{
		State:    AttemptPending,
		Contract: contract,
		From:     from,
	}
}

// Advance moves the attempt forward. Backward, repeated and post-terminal transitions are rejected.
func (a *DeploymentAttempt) Advance(next AttemptState) error {
	if next.rank() < 0 {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, next)
	}
	if a.State.IsTerminal() || next.rank() <= a.State.rank() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.State, next)
	}
	a.State = next
	return nil
}

// Succeed records the deployed address and completes the attempt
func (a *DeploymentAttempt) Succeed(address common.Address) error {
	if err := a.Advance(AttemptSucceeded); err != nil {
		return err
	}
	a.Address = &address
	return nil
}

// Fail records the failure message and completes the attempt
func (a *DeploymentAttempt) Fail(err error) error {
	if advErr := a.Advance(AttemptFailed); advErr != nil {
		return advErr
	}
	a.Error = ErrorMessage(err)
	return nil
}
