package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/treb-wallet/internal/domain"
)

// ConnectionSource exposes the current connection to the executor
type ConnectionSource interface {
	State() ConnectionState
}

// DeploySettings holds the tunables of the deployment executor
type DeploySettings struct {
	FallbackGas uint64
	ResetDelay  time.Duration
	// ExplorerURL overrides the explorer derived from the chain id
	ExplorerURL string
}

// DeployParams contains parameters for a deployment
type DeployParams struct {
	Artifact *domain.ContractArtifact
	Args     []string
}

// DeployContract submits the loaded artifact through the connected wallet, one attempt at a time
type DeployContract struct {
	conn      ConnectionSource
	guard     *DeployGuard
	view      StatusView
	metrics   DeploymentMetrics
	scheduler Scheduler
	settings  DeploySettings
	log       *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	conn ConnectionSource,
	guard *DeployGuard,
	view StatusView,
	metrics DeploymentMetrics,
	scheduler Scheduler,
	settings DeploySettings,
	log *slog.Logger,
) *DeployContract {
	if settings.FallbackGas == 0 {
		settings.FallbackGas = domain.FallbackGasLimit
	}
	return &DeployContract{
		conn:      conn,
		guard:     guard,
		view:      view,
		metrics:   metrics,
		scheduler: scheduler,
		settings:  settings,
		log:       log,
	}
}

// Run deploys params.Artifact. Precondition failures return before any provider call.
// A failed attempt is returned together with a *domain.SubmissionError.
func (uc *DeployContract) Run(ctx context.Context, params DeployParams) (*domain.DeploymentAttempt, error) {
	if !uc.guard.TryAcquire() {
		uc.log.Debug("deploy ignored, attempt already in flight")
		return nil, domain.ErrDeployInFlight
	}

	state := uc.conn.State()
	if err := uc.checkPreconditions(state, params.Artifact); err != nil {
		uc.guard.Release()
		uc.metrics.ObserveAttempt(OutcomeRejected)
		return nil, err
	}

	artifact := params.Artifact
	from := *state.Account
	attempt := domain.NewDeploymentAttempt(artifact.Name, from)

	uc.view.SetDeployEnabled(false)
	uc.view.SetDeployLabel("Deploying...")
	uc.view.SetDeploymentStatus("Deployment in progress...", ToneWarning, "")

	uc.log.Info("creating contract deployment", "contract", artifact.Name, "from", from.Hex())
	handle, err := state.Client.Deploy(artifact, params.Args)
	if err != nil {
		return uc.fail(attempt, fmt.Errorf("failed to prepare deployment: %w", err))
	}

	if err := attempt.Advance(domain.AttemptEstimating); err != nil {
		return uc.fail(attempt, err)
	}
	uc.log.Info("estimating gas")
	gasLimit, err := handle.EstimateGas(ctx, from)
	if err != nil {
		uc.log.Warn("gas estimation failed", "err", fmt.Errorf("%w: %w", domain.ErrEstimationFailed, err))
		gasLimit = uc.settings.FallbackGas
		attempt.UsedFallbackGas = true
		uc.log.Info("using fallback gas limit", "gas", gasLimit)
	} else {
		attempt.GasEstimate = gasLimit
		gasLimit = domain.ApplyGasBuffer(gasLimit)
		uc.log.Info("gas estimate with buffer", "estimate", attempt.GasEstimate, "gas", gasLimit)
	}
	attempt.GasLimit = gasLimit
	uc.metrics.ObserveGasLimit(gasLimit, attempt.UsedFallbackGas)

	if err := attempt.Advance(domain.AttemptSending); err != nil {
		return uc.fail(attempt, err)
	}
	uc.log.Info("sending deployment transaction", "gas", gasLimit)
	receipt, err := handle.Send(ctx, from, gasLimit)
	if err != nil {
		return uc.fail(attempt, err)
	}
	attempt.TxHash = &receipt.TxHash

	if exists, err := state.Client.CodeExists(ctx, receipt.Address); err != nil {
		uc.log.Warn("could not verify deployed code", "address", receipt.Address.Hex(), "err", err)
	} else if !exists {
		uc.log.Warn("no code at deployed address", "address", receipt.Address.Hex())
	}

	if err := attempt.Succeed(receipt.Address); err != nil {
		return uc.fail(attempt, err)
	}
	attempt.ExplorerLink = domain.AddressLink(uc.explorer(state.ChainID), receipt.Address)
	uc.log.Info("contract deployed", "address", receipt.Address.Hex(), "tx", receipt.TxHash.Hex())

	uc.view.SetDeployLabel("Deployed!")
	uc.view.SetDeploymentStatus("Contract deployed at: "+receipt.Address.Hex(), ToneSuccess, attempt.ExplorerLink)
	uc.metrics.ObserveAttempt(OutcomeSucceeded)
	uc.scheduleReset("Deploy Again")

	return attempt, nil
}

func (uc *DeployContract) checkPreconditions(state ConnectionState, artifact *domain.ContractArtifact) error {
	if !state.ProviderDetected || state.Client == nil {
		uc.view.Notice("Wallet not detected! Start or install a wallet to deploy.")
		return domain.ErrProviderMissing
	}
	if state.Account == nil {
		uc.view.Notice("Please connect your wallet first")
		return domain.ErrNotConnected
	}
	if !artifact.Loaded() {
		hasABI := artifact != nil && len(artifact.RawABI) > 0
		hasBytecode := artifact != nil && artifact.Bytecode != "" && artifact.Bytecode != "0x"
		uc.log.Error("contract data missing", "abi", hasABI, "bytecode", hasBytecode)
		uc.view.Notice("Contract data not available. Check the logs for more details.")
		return domain.ErrArtifactMissing
	}
	return nil
}

func (uc *DeployContract) fail(attempt *domain.DeploymentAttempt, cause error) (*domain.DeploymentAttempt, error) {
	subErr := &domain.SubmissionError{Err: cause}
	if err := attempt.Fail(cause); err != nil {
		uc.log.Warn("could not record failure", "err", err)
	}
	uc.log.Error("deployment failed", "err", cause)

	uc.view.SetDeployLabel("Deploy Failed")
	uc.view.SetDeploymentStatus("Error: "+subErr.UserMessage(), ToneError, "")
	uc.view.Notice("Deployment failed: " + subErr.UserMessage())
	uc.metrics.ObserveAttempt(OutcomeFailed)
	uc.scheduleReset("Deploy")

	return attempt, subErr
}

// scheduleReset re-arms the deploy control once the reset delay has passed.
// The guard stays held until then.
func (uc *DeployContract) scheduleReset(label string) {
	uc.scheduler.AfterFunc(uc.settings.ResetDelay, func() {
		uc.guard.Release()
		uc.view.SetDeployEnabled(uc.conn.State().Connected())
		uc.view.SetDeployLabel(label)
	})
}

func (uc *DeployContract) explorer(chainID uint64) string {
	if uc.settings.ExplorerURL != "" {
		return uc.settings.ExplorerURL
	}
	return domain.ExplorerURL(chainID)
}
