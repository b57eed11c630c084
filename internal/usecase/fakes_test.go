package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDetector returns a fixed provider or error
type fakeDetector struct {
	provider WalletProvider
	err      error
	calls    int
}

func (d *fakeDetector) Detect(ctx context.Context) (WalletProvider, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	if d.provider == nil {
		return nil, domain.ErrProviderMissing
	}
	return d.provider, nil
}

// fakeProvider records every request
type fakeProvider struct {
	mu sync.Mutex

	accounts        []common.Address
	accountsErr     error
	requestAccounts []common.Address
	requestErr      error
	chainID         uint64
	sub             *fakeSubscription

	accountsCalls int
	requestCalls  int
	closed        bool
}

func (p *fakeProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accountsCalls++
	return p.accounts, p.accountsErr
}

func (p *fakeProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requestCalls++
	return p.requestAccounts, p.requestErr
}

func (p *fakeProvider) ChainID(ctx context.Context) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID, nil
}

func (p *fakeProvider) Subscribe(ctx context.Context) (WalletSubscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sub == nil {
		p.sub = newFakeSubscription()
	}
	return p.sub, nil
}

func (p *fakeProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

type fakeSubscription struct {
	events chan WalletEvent
	errc   chan error
	once   sync.Once
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{
		events: make(chan WalletEvent, 16),
		errc:   make(chan error, 1),
	}
}

func (s *fakeSubscription) Events() <-chan WalletEvent { return s.events }
func (s *fakeSubscription) Err() <-chan error          { return s.errc }

func (s *fakeSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.errc) })
}

// fakeClientFactory hands out a single chain client
type fakeClientFactory struct {
	client *fakeChainClient
}

func (f *fakeClientFactory) NewChainClient(provider WalletProvider) (ChainClient, error) {
	return f.client, nil
}

type fakeChainClient struct {
	handle      *fakeHandle
	deployErr   error
	codeMissing bool

	deployCalls int
	lastArgs    []string
}

func (c *fakeChainClient) Deploy(artifact *domain.ContractArtifact, args []string) (DeployHandle, error) {
	c.deployCalls++
	c.lastArgs = args
	if c.deployErr != nil {
		return nil, c.deployErr
	}
	return c.handle, nil
}

func (c *fakeChainClient) CodeExists(ctx context.Context, address common.Address) (bool, error) {
	return !c.codeMissing, nil
}

type fakeHandle struct {
	mu sync.Mutex

	estimate    uint64
	estimateErr error
	receipt     *DeployReceipt
	sendErr     error

	// sending is signalled when Send starts; Send then waits for release when set
	sending chan struct{}
	release chan struct{}

	estimateCalls int
	sendCalls     int
	sentGas       uint64
	sentFrom      common.Address
}

func (h *fakeHandle) EstimateGas(ctx context.Context, from common.Address) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.estimateCalls++
	return h.estimate, h.estimateErr
}

func (h *fakeHandle) Send(ctx context.Context, from common.Address, gas uint64) (*DeployReceipt, error) {
	h.mu.Lock()
	h.sendCalls++
	h.sentGas = gas
	h.sentFrom = from
	sending, release := h.sending, h.release
	h.mu.Unlock()

	if sending != nil {
		close(sending)
	}
	if release != nil {
		<-release
	}
	if h.sendErr != nil {
		return nil, h.sendErr
	}
	return h.receipt, nil
}

func (h *fakeHandle) calls() (estimate, send int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.estimateCalls, h.sendCalls
}

// recordingView keeps the latest value written to each UI element
type recordingView struct {
	mu sync.Mutex

	connectLabel     string
	deployEnabled    bool
	deployLabel      string
	connectionStatus string
	connectionTone   Tone
	deploymentStatus string
	deploymentTone   Tone
	deploymentLink   string
	notices          []string
}

func (v *recordingView) SetConnectLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.connectLabel = label
}

func (v *recordingView) SetDeployEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deployEnabled = enabled
}

func (v *recordingView) SetDeployLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deployLabel = label
}

func (v *recordingView) SetConnectionStatus(text string, tone Tone) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.connectionStatus = text
	v.connectionTone = tone
}

func (v *recordingView) SetDeploymentStatus(text string, tone Tone, link string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deploymentStatus = text
	v.deploymentTone = tone
	v.deploymentLink = link
}

func (v *recordingView) Notice(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, message)
}

func (v *recordingView) enabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deployEnabled
}

// manualScheduler holds timers until fired
type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, f)
	s.delays = append(s.delays, d)
}

func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

type countingMetrics struct {
	mu        sync.Mutex
	outcomes  map[DeploymentOutcome]int
	gasLimits []uint64
	fallbacks int
}

func (m *countingMetrics) ObserveAttempt(outcome DeploymentOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[DeploymentOutcome]int)
	}
	m.outcomes[outcome]++
}

func (m *countingMetrics) ObserveGasLimit(limit uint64, fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gasLimits = append(m.gasLimits, limit)
	if fallback {
		m.fallbacks++
	}
}

// fixedConnection serves a preset state
type fixedConnection struct {
	state ConnectionState
}

func (c *fixedConnection) State() ConnectionState { return c.state }
