package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/wallet"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/domain/config"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// rpcClientSource is implemented by providers backed by a JSON-RPC connection
type rpcClientSource interface {
	RPCClient() *rpc.Client
}

// ClientFactory builds chain clients that share the wallet's connection
type ClientFactory struct {
	pollInterval time.Duration
	log          *slog.Logger
}

// NewClientFactory creates a new chain client factory
func NewClientFactory(cfg *config.RuntimeConfig, log *slog.Logger) *ClientFactory {
	return &ClientFactory{
		pollInterval: cfg.PollInterval,
		log:          log,
	}
}

// NewChainClient wraps the provider's connection
func (f *ClientFactory) NewChainClient(provider usecase.WalletProvider) (usecase.ChainClient, error) {
	src, ok := provider.(rpcClientSource)
	if !ok {
		return nil, fmt.Errorf("provider %T does not expose a JSON-RPC client", provider)
	}
	return NewClient(src.RPCClient(), f.pollInterval, f.log), nil
}

// Client implements ChainClient using ethclient. Signing is left to the wallet.
type Client struct {
	rpc          *rpc.Client
	eth          *ethclient.Client
	pollInterval time.Duration
	log          *slog.Logger
}

// NewClient creates a chain client on an established connection
func NewClient(client *rpc.Client, pollInterval time.Duration, log *slog.Logger) *Client {
	if pollInterval <= 0 {
		pollInterval = wallet.DefaultPollInterval
	}
	return &Client{
		rpc:          client,
		eth:          ethclient.NewClient(client),
		pollInterval: pollInterval,
		log:          log,
	}
}

// Deploy prepares the creation transaction for artifact
func (c *Client) Deploy(artifact *domain.ContractArtifact, args []string) (usecase.DeployHandle, error) {
	data, err := BuildDeployData(artifact, args)
	if err != nil {
		return nil, err
	}
	return &deployHandle{client: c, data: data}, nil
}

// CodeExists checks if a contract exists at the given address
func (c *Client) CodeExists(ctx context.Context, address common.Address) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	code, err := c.eth.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return len(code) > 0, nil
}

// waitMined polls for the receipt of hash until it is available or ctx ends
func (c *Client) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
		}
		c.log.Debug("transaction not yet mined", "tx", hash.Hex())

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for transaction %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

type sendTxArgs struct {
	From common.Address `json:"from"`
	Data hexutil.Bytes  `json:"data"`
	Gas  hexutil.Uint64 `json:"gas"`
}

type deployHandle struct {
	client *Client
	data   []byte
}

func (h *deployHandle) EstimateGas(ctx context.Context, from common.Address) (uint64, error) {
	gas, err := h.client.eth.EstimateGas(ctx, ethereum.CallMsg{From: from, Data: h.data})
	if err != nil {
		return 0, wallet.TranslateError(err)
	}
	return gas, nil
}

// Send asks the wallet to sign and submit the creation transaction, then waits for it to be mined
func (h *deployHandle) Send(ctx context.Context, from common.Address, gas uint64) (*usecase.DeployReceipt, error) {
	var hash common.Hash
	args := sendTxArgs{From: from, Data: h.data, Gas: hexutil.Uint64(gas)}
	if err := h.client.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return nil, wallet.TranslateError(err)
	}
	h.client.log.Info("transaction submitted", "tx", hash.Hex())

	receipt, err := h.client.waitMined(ctx, hash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted", hash.Hex())
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, fmt.Errorf("transaction %s created no contract", hash.Hex())
	}

	result := &usecase.DeployReceipt{
		Address: receipt.ContractAddress,
		TxHash:  hash,
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return result, nil
}

// Ensure the adapters implement the interfaces
var (
	_ usecase.ChainClientFactory = (*ClientFactory)(nil)
	_ usecase.ChainClient        = (*Client)(nil)
)
