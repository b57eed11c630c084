package wallet

import (
	"context"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// pollSubscription turns periodic eth_accounts/eth_chainId reads into
// accountsChanged and chainChanged notifications.
// The events channel is never closed; Err is closed on Unsubscribe.
type pollSubscription struct {
	events chan usecase.WalletEvent
	sub    event.Subscription
}

func newPollSubscription(p *RPCProvider, accounts []common.Address, chainID uint64) *pollSubscription {
	s := &pollSubscription{
		events: make(chan usecase.WalletEvent, 16),
	}
	s.sub = event.NewSubscription(func(quit <-chan struct{}) error {
		return s.loop(p, quit, accounts, chainID)
	})
	return s
}

func (s *pollSubscription) Events() <-chan usecase.WalletEvent { return s.events }
func (s *pollSubscription) Err() <-chan error                  { return s.sub.Err() }
func (s *pollSubscription) Unsubscribe()                       { s.sub.Unsubscribe() }

func (s *pollSubscription) loop(p *RPCProvider, quit <-chan struct{}, accounts []common.Address, chainID uint64) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case <-ticker.C:
		}

		nextChain, err := p.ChainID(ctx)
		if err != nil {
			p.log.Debug("poll chain id failed", "err", err)
			continue
		}
		if nextChain != chainID {
			chainID = nextChain
			if !s.emit(quit, usecase.WalletEvent{Kind: usecase.ChainChanged, ChainID: chainID}) {
				return nil
			}
			// the listener reloads on a chain change; accounts are re-read then
			continue
		}

		nextAccounts, err := p.Accounts(ctx)
		if err != nil {
			p.log.Debug("poll accounts failed", "err", err)
			continue
		}
		if !slices.Equal(nextAccounts, accounts) {
			accounts = nextAccounts
			if !s.emit(quit, usecase.WalletEvent{Kind: usecase.AccountsChanged, Accounts: accounts, ChainID: chainID}) {
				return nil
			}
		}
	}
}

func (s *pollSubscription) emit(quit <-chan struct{}, ev usecase.WalletEvent) bool {
	select {
	case s.events <- ev:
		return true
	case <-quit:
		return false
	}
}

var _ usecase.WalletSubscription = (*pollSubscription)(nil)
