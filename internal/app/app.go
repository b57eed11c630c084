package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-wallet/internal/adapters/metrics"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/progress"
	"github.com/trebuchet-org/treb-wallet/internal/domain/config"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	Connection   *usecase.ManageConnection
	Deploy       *usecase.DeployContract
	ListNetworks *usecase.ListNetworks

	// Adapters used directly by commands
	Artifacts usecase.ArtifactLoader
	Confirmer usecase.Confirmer
	Metrics   *metrics.Prometheus
	Scheduler *progress.TimerScheduler
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	connection *usecase.ManageConnection,
	deploy *usecase.DeployContract,
	listNetworks *usecase.ListNetworks,
	artifacts usecase.ArtifactLoader,
	confirmer usecase.Confirmer,
	metrics *metrics.Prometheus,
	scheduler *progress.TimerScheduler,
) (*App, error) {
	return &App{
		Config:       cfg,
		Log:          log,
		Connection:   connection,
		Deploy:       deploy,
		ListNetworks: listNetworks,
		Artifacts:    artifacts,
		Confirmer:    confirmer,
		Metrics:      metrics,
		Scheduler:    scheduler,
	}, nil
}

// Close cancels pending reset timers and releases the wallet provider
func (a *App) Close() {
	a.Scheduler.Stop()
	a.Connection.Close()
}
