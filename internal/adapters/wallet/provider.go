package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// methodNotFoundCode is the JSON-RPC code for an unsupported method
const methodNotFoundCode = -32601

// DefaultPollInterval is used when no poll interval is configured
const DefaultPollInterval = time.Second

// RPCProvider implements WalletProvider over a JSON-RPC connection to the wallet
type RPCProvider struct {
	client       *rpc.Client
	pollInterval time.Duration
	log          *slog.Logger
}

// NewRPCProvider wraps an established JSON-RPC client
func NewRPCProvider(client *rpc.Client, pollInterval time.Duration, log *slog.Logger) *RPCProvider {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &RPCProvider{
		client:       client,
		pollInterval: pollInterval,
		log:          log,
	}
}

// RPCClient exposes the underlying client so chain access shares the wallet connection
func (p *RPCProvider) RPCClient() *rpc.Client {
	return p.client
}

// Accounts returns the accounts the wallet already exposes
func (p *RPCProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	return p.accounts(ctx, "eth_accounts")
}

// RequestAccounts asks the wallet for account access. Endpoints without
// eth_requestAccounts (dev nodes) are treated as already authorized.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	accounts, err := p.accounts(ctx, "eth_requestAccounts")
	if err != nil && errorCode(err) == methodNotFoundCode {
		p.log.Debug("eth_requestAccounts not supported, falling back to eth_accounts")
		return p.Accounts(ctx)
	}
	return accounts, err
}

// ChainID returns the chain the wallet is currently on
func (p *RPCProvider) ChainID(ctx context.Context) (uint64, error) {
	var id hexutil.Uint64
	if err := p.client.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("eth_chainId: %w", TranslateError(err))
	}
	return uint64(id), nil
}

// Subscribe starts watching the wallet for account and chain changes
func (p *RPCProvider) Subscribe(ctx context.Context) (usecase.WalletSubscription, error) {
	accounts, err := p.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read initial accounts: %w", err)
	}
	chainID, err := p.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read initial chain id: %w", err)
	}
	return newPollSubscription(p, accounts, chainID), nil
}

// Close terminates the connection
func (p *RPCProvider) Close() {
	p.client.Close()
}

func (p *RPCProvider) accounts(ctx context.Context, method string) ([]common.Address, error) {
	var raw []string
	if err := p.client.CallContext(ctx, &raw, method); err != nil {
		return nil, fmt.Errorf("%s: %w", method, TranslateError(err))
	}

	accounts := make([]common.Address, 0, len(raw))
	for _, s := range raw {
		addr, err := domain.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		accounts = append(accounts, addr)
	}
	return accounts, nil
}

// TranslateError maps the EIP-1193 user rejection code onto domain.ErrUserRejected
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errorCode(err) == domain.UserRejectedCode {
		return fmt.Errorf("%w: %s", domain.ErrUserRejected, err.Error())
	}
	return err
}

func errorCode(err error) int {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}

// Ensure the provider implements the interface
var _ usecase.WalletProvider = (*RPCProvider)(nil)
