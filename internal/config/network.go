package config

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/domain/config"
)

const chainIDTimeout = 10 * time.Second

// NetworkResolver resolves foundry.toml rpc_endpoints to networks.
// Chain ids are cached in memory for the life of the resolver.
type NetworkResolver struct {
	foundryConfig *config.FoundryConfig
	cache         *NetworkCache
	mu            sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks map[string]uint64 // name -> chainID
	RPCs     map[string]uint64 // rpcURL -> chainID
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		Networks: make(map[string]uint64),
		RPCs:     make(map[string]uint64),
	}
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(foundryConfig *config.FoundryConfig) *NetworkResolver {
	if foundryConfig == nil {
		foundryConfig = &config.FoundryConfig{}
	}
	return &NetworkResolver{
		foundryConfig: foundryConfig,
		cache:         newNetworkCache(),
	}
}

// Names lists the configured networks in alphabetical order
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.foundryConfig.RpcEndpoints)
	sort.Strings(names)
	return names
}

// Lookup returns the configured endpoint of a network without contacting it.
// ChainID is only set when an earlier Resolve cached it.
func (r *NetworkResolver) Lookup(networkName string) (*config.Network, error) {
	rpcURL, exists := r.foundryConfig.RpcEndpoints[networkName]
	if !exists {
		return nil, fmt.Errorf("network '%s' not found in foundry.toml [rpc_endpoints]", networkName)
	}

	network := &config.Network{Name: networkName, RPCURL: rpcURL}
	if chainID, ok := r.cached(networkName, rpcURL); ok {
		network.ChainID = chainID
		network.ExplorerURL = domain.ExplorerURL(chainID)
	}
	return network, nil
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	return r.ResolveContext(context.Background(), networkName)
}

// ResolveContext resolves a network, asking the endpoint for its chain id on a cache miss
func (r *NetworkResolver) ResolveContext(ctx context.Context, networkName string) (*config.Network, error) {
	network, err := r.Lookup(networkName)
	if err != nil {
		return nil, err
	}
	if network.ChainID != 0 {
		return network, nil
	}

	chainID, err := r.fetchChainID(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
	}
	r.updateCache(networkName, network.RPCURL, chainID)

	network.ChainID = chainID
	network.ExplorerURL = domain.ExplorerURL(chainID)
	return network, nil
}

func (r *NetworkResolver) cached(networkName, rpcURL string) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if chainID, ok := r.cache.Networks[networkName]; ok {
		return chainID, true
	}
	chainID, ok := r.cache.RPCs[rpcURL]
	return chainID, ok
}

// fetchChainID asks an RPC endpoint for its chain id
func (r *NetworkResolver) fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, chainIDTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to dial RPC: %w", err)
	}
	defer client.Close()

	var id hexutil.Uint64
	if err := client.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("RPC error: %w", err)
	}
	return uint64(id), nil
}

func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
}
