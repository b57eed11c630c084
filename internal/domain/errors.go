package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for wallet and deployment operations
var (
	// ErrProviderMissing is returned when no wallet provider could be detected
	ErrProviderMissing = errors.New("wallet provider not detected")

	// ErrNotConnected is returned when an operation needs a connected account
	ErrNotConnected = errors.New("wallet not connected")

	// ErrArtifactMissing is returned when the contract ABI or bytecode is not loaded
	ErrArtifactMissing = errors.New("contract artifact not available")

	// ErrUserRejected is returned when the user declines a wallet request
	ErrUserRejected = errors.New("user rejected the request")

	// ErrEstimationFailed marks a failed gas estimate. It is recovered with the fallback gas limit.
	ErrEstimationFailed = errors.New("gas estimation failed")

	// ErrDeployInFlight is returned when a deployment is already running
	ErrDeployInFlight = errors.New("deployment already in progress")

	// ErrInvalidTransition is returned when a deployment attempt would move backwards
	ErrInvalidTransition = errors.New("invalid deployment state transition")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")
)

// UserRejectedCode is the EIP-1193 error code for a request the user declined.
const UserRejectedCode = 4001

// unknownErrorMessage is shown when a failure carries no message of its own.
const unknownErrorMessage = "Unknown error"

// SubmissionError wraps a failure while estimating or sending a deployment
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "deployment failed: " + e.UserMessage()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// UserMessage returns the underlying message, or a generic fallback when there is none.
func (e *SubmissionError) UserMessage() string {
	return ErrorMessage(e.Err)
}

// ErrorMessage returns err's message, or "Unknown error" for nil or blank errors.
func ErrorMessage(err error) string {
	if err == nil {
		return unknownErrorMessage
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return unknownErrorMessage
	}
	return msg
}
