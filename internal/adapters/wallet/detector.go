package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/domain/config"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

const probeTimeout = 5 * time.Second

// Detector finds the wallet endpoint configured for the project
type Detector struct {
	cfg *config.RuntimeConfig
	log *slog.Logger
}

// NewDetector creates a new wallet detector
func NewDetector(cfg *config.RuntimeConfig, log *slog.Logger) *Detector {
	return &Detector{cfg: cfg, log: log}
}

// Detect dials the wallet URL and probes it. An unset or unreachable
// endpoint is reported as domain.ErrProviderMissing.
func (d *Detector) Detect(ctx context.Context) (usecase.WalletProvider, error) {
	url := d.cfg.WalletURL
	if url == "" {
		return nil, fmt.Errorf("%w: no wallet url configured", domain.ErrProviderMissing)
	}

	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderMissing, err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var id hexutil.Uint64
	if err := client.CallContext(probeCtx, &id, "eth_chainId"); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s did not respond: %v", domain.ErrProviderMissing, url, err)
	}
	d.log.Debug("wallet endpoint responded", "url", url, "chainId", uint64(id))

	return NewRPCProvider(client, d.cfg.PollInterval, d.log), nil
}

// Ensure the detector implements the interface
var _ usecase.ProviderDetector = (*Detector)(nil)
