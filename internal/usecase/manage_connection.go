package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
)

// ManageConnection detects the wallet, follows its notifications and owns the ConnectionState
type ManageConnection struct {
	detector ProviderDetector
	clients  ChainClientFactory
	guard    *DeployGuard
	view     StatusView
	log      *slog.Logger

	mu       sync.Mutex
	state    ConnectionState
	provider WalletProvider
	sub      WalletSubscription
}

// NewManageConnection creates a new ManageConnection use case
func NewManageConnection(
	detector ProviderDetector,
	clients ChainClientFactory,
	guard *DeployGuard,
	view StatusView,
	log *slog.Logger,
) *ManageConnection {
	return &ManageConnection{
		detector: detector,
		clients:  clients,
		guard:    guard,
		view:     view,
		log:      log,
	}
}

// State returns a snapshot of the connection
func (uc *ManageConnection) State() ConnectionState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state
}

// Initialize detects the provider, subscribes to its notifications and
// restores the connected account without prompting the user.
// A provider from an earlier call is released first.
func (uc *ManageConnection) Initialize(ctx context.Context) error {
	uc.teardown()

	provider, err := uc.detector.Detect(ctx)
	if err != nil {
		uc.mu.Lock()
		uc.state = ConnectionState{}
		uc.mu.Unlock()
		uc.render()

		if errors.Is(err, domain.ErrProviderMissing) {
			uc.log.Info("wallet provider not detected", "err", err)
			return err
		}
		return fmt.Errorf("failed to detect wallet provider: %w", err)
	}
	uc.log.Debug("wallet provider detected")

	client, err := uc.clients.NewChainClient(provider)
	if err != nil {
		provider.Close()
		return fmt.Errorf("failed to create chain client: %w", err)
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		uc.log.Warn("failed to read chain id", "err", err)
	}

	sub, err := provider.Subscribe(ctx)
	if err != nil {
		uc.log.Warn("wallet notifications unavailable", "err", err)
		sub = nil
	}

	uc.mu.Lock()
	uc.provider = provider
	uc.sub = sub
	uc.state = ConnectionState{
		Client:           client,
		ChainID:          chainID,
		ProviderDetected: true,
	}
	uc.mu.Unlock()
	uc.render()

	accounts, err := provider.Accounts(ctx)
	if err != nil {
		uc.log.Error("error checking accounts", "err", err)
		return nil
	}
	uc.OnAccountsChanged(accounts)
	return nil
}

// Connect asks the wallet for account access. A user rejection returns
// domain.ErrUserRejected and leaves the state untouched.
func (uc *ManageConnection) Connect(ctx context.Context) error {
	uc.mu.Lock()
	provider := uc.provider
	uc.mu.Unlock()

	if provider == nil {
		uc.view.Notice("Wallet not detected! Start or install a wallet to use this application.")
		return domain.ErrProviderMissing
	}

	uc.log.Debug("requesting accounts")
	accounts, err := provider.RequestAccounts(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUserRejected) {
			uc.log.Info("user rejected connection request")
			return domain.ErrUserRejected
		}
		uc.log.Error("error connecting to wallet", "err", err)
		return fmt.Errorf("failed to connect wallet: %w", err)
	}

	uc.OnAccountsChanged(accounts)
	return nil
}

// OnAccountsChanged applies an accountsChanged notification and refreshes the UI.
// It reports whether the connected account changed.
func (uc *ManageConnection) OnAccountsChanged(accounts []common.Address) bool {
	uc.mu.Lock()
	next, changed := ApplyAccountsChanged(uc.state, accounts)
	uc.state = next
	uc.mu.Unlock()

	if changed {
		if next.Account == nil {
			uc.log.Info("no accounts connected")
		} else {
			uc.log.Info("account connected", "account", next.Account.Hex())
		}
	}

	uc.render()
	return changed
}

// OnChainChanged discards all in-memory state and initializes again.
// Addresses are not carried across chains.
func (uc *ManageConnection) OnChainChanged(ctx context.Context) error {
	uc.log.Info("chain changed, reloading")
	return uc.Initialize(ctx)
}

// Watch applies wallet notifications in arrival order until ctx is done.
// A chain change replaces the subscription, and Watch follows the new one.
func (uc *ManageConnection) Watch(ctx context.Context) error {
	for {
		sub := uc.subscription()
		if sub == nil {
			if uc.State().ProviderDetected {
				return errors.New("wallet notifications unavailable")
			}
			return domain.ErrProviderMissing
		}

		select {
		case <-ctx.Done():
			return nil

		case ev := <-sub.Events():
			if err := uc.handleEvent(ctx, ev); err != nil && !errors.Is(err, domain.ErrProviderMissing) {
				return err
			}
			if !uc.State().ProviderDetected {
				return domain.ErrProviderMissing
			}

		case err := <-sub.Err():
			if uc.subscription() != sub {
				// replaced by a reload
				continue
			}
			if err != nil {
				return fmt.Errorf("wallet subscription failed: %w", err)
			}
			return nil
		}
	}
}

// Close ends the subscription and releases the provider
func (uc *ManageConnection) Close() {
	uc.teardown()
}

func (uc *ManageConnection) handleEvent(ctx context.Context, ev WalletEvent) error {
	switch ev.Kind {
	case AccountsChanged:
		uc.log.Debug("accounts changed", "accounts", len(ev.Accounts))
		uc.OnAccountsChanged(ev.Accounts)
		return nil
	case ChainChanged:
		return uc.OnChainChanged(ctx)
	default:
		uc.log.Warn("ignoring unknown wallet event", "kind", ev.Kind)
		return nil
	}
}

func (uc *ManageConnection) subscription() WalletSubscription {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sub
}

func (uc *ManageConnection) teardown() {
	uc.mu.Lock()
	sub, provider := uc.sub, uc.provider
	uc.sub, uc.provider = nil, nil
	uc.state = ConnectionState{}
	uc.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if provider != nil {
		provider.Close()
	}
}

// render recomputes every UI flag from the current state
func (uc *ManageConnection) render() {
	state := uc.State()

	uc.view.SetConnectLabel(domain.ConnectLabel(state.Account))
	uc.view.SetDeployEnabled(state.Connected() && !uc.guard.InFlight())

	switch {
	case !state.ProviderDetected:
		uc.view.SetConnectionStatus("Status: Wallet not detected", ToneError)
	case state.Account == nil:
		uc.view.SetConnectionStatus("Status: Not connected", ToneWarning)
	default:
		uc.view.SetConnectionStatus("Status: Connected to "+domain.TruncateAddress(*state.Account), ToneSuccess)
	}
}
