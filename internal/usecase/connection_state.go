package usecase

import (
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
)

// ConnectionState is the wallet connection owned by ManageConnection
type ConnectionState struct {
	Account          *common.Address
	Client           ChainClient
	ChainID          uint64
	ProviderDetected bool
}

// Connected reports whether an account is available
func (s ConnectionState) Connected() bool {
	return s.Account != nil
}

// ApplyAccountsChanged computes the state after an accountsChanged notification.
// An empty list disconnects; a new first account connects it; the same first account changes nothing.
func ApplyAccountsChanged(state ConnectionState, accounts []common.Address) (ConnectionState, bool) {
	if len(accounts) == 0 {
		if state.Account == nil {
			return state, false
		}
		state.Account = nil
		return state, true
	}

	first := accounts[0]
	if state.Account != nil && *state.Account == first {
		return state, false
	}
	state.Account = &first
	return state, true
}

// DeployGuard admits a single deployment at a time
type DeployGuard struct {
	busy atomic.Bool
}

// NewDeployGuard creates an idle guard
func NewDeployGuard() *DeployGuard {
	return &DeployGuard{}
}

// TryAcquire takes the guard, returning false if a deployment is already in flight
func (g *DeployGuard) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release frees the guard
func (g *DeployGuard) Release() {
	g.busy.Store(false)
}

// InFlight reports whether a deployment holds the guard
func (g *DeployGuard) InFlight() bool {
	return g.busy.Load()
}
