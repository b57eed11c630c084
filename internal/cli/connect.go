package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-wallet/internal/cli/render"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
)

// NewConnectCmd creates the connect command
func NewConnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Request account access from the wallet",
		Long: `Ask the wallet for account access with eth_requestAccounts.

The wallet may show a consent prompt. Declining it leaves the connection
unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.Connection.Initialize(ctx); err != nil && !errors.Is(err, domain.ErrProviderMissing) {
				return err
			}

			if err := app.Connection.Connect(ctx); err != nil {
				switch {
				case errors.Is(err, domain.ErrUserRejected):
					fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning("Connection request rejected in the wallet"))
				case errors.Is(err, domain.ErrProviderMissing):
					// already reported by the view
				default:
					return err
				}
			}

			return renderStatus(cmd, app)
		},
	}

	return cmd
}
