package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/blockchain"
	internalconfig "github.com/trebuchet-org/treb-wallet/internal/adapters/config"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/fs"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/metrics"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/progress"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/wallet"
	"github.com/trebuchet-org/treb-wallet/internal/config"
	domainconfig "github.com/trebuchet-org/treb-wallet/internal/domain/config"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// ProvideDeploySettings provides the executor tunables from RuntimeConfig
func ProvideDeploySettings(cfg *domainconfig.RuntimeConfig) usecase.DeploySettings {
	return usecase.DeploySettings{
		FallbackGas: cfg.FallbackGas,
		ResetDelay:  cfg.ResetDelay,
		ExplorerURL: cfg.ExplorerURL,
	}
}

// WalletSet provides the wallet provider and the chain client built on it
var WalletSet = wire.NewSet(
	wallet.NewDetector,
	wire.Bind(new(usecase.ProviderDetector), new(*wallet.Detector)),

	blockchain.NewClientFactory,
	wire.Bind(new(usecase.ChainClientFactory), new(*blockchain.ClientFactory)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewArtifactLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*fs.ArtifactLoader)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(fs.Chooser), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// ProgressSet provides the reset timer
var ProgressSet = wire.NewSet(
	progress.NewTimerScheduler,
	wire.Bind(new(usecase.Scheduler), new(*progress.TimerScheduler)),
)

// MetricsSet provides prometheus deployment metrics
var MetricsSet = wire.NewSet(
	metrics.NewPrometheus,
	wire.Bind(new(usecase.DeploymentMetrics), new(*metrics.Prometheus)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProvideDeploySettings,

	WalletSet,
	FSSet,
	InteractiveSet,
	ConfigSet,
	ProgressSet,
	MetricsSet,
)
