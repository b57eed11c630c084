package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-wallet/internal/app"
	"github.com/trebuchet-org/treb-wallet/internal/cli/render"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the wallet connection",
		Long: `Detect the wallet provider and report the connected account and chain.

The account is read with eth_accounts, so the wallet is never asked for
permission. Use 'connect' to request access.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := app.Connection.Initialize(cmd.Context()); err != nil && !errors.Is(err, domain.ErrProviderMissing) {
				return err
			}

			return renderStatus(cmd, app)
		},
	}

	return cmd
}

// renderStatus prints the current connection in the configured output format
func renderStatus(cmd *cobra.Command, app *app.App) error {
	cfg := app.Config

	var network string
	if cfg.Network != nil {
		network = cfg.Network.Name
	}

	report := render.NewStatusReport(app.Connection.State(), cfg.WalletURL, network, cfg.ExplorerURL)
	return render.NewStatusRenderer(cmd.OutOrStdout(), cfg.Output).Render(report)
}
