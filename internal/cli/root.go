package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/progress"
	"github.com/trebuchet-org/treb-wallet/internal/app"
	"github.com/trebuchet-org/treb-wallet/internal/config"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// viewKey is the context key for the status view
	viewKey contextKey = "view"
)

// sessionAnnotation marks commands that drive the interactive session view
const sessionAnnotation = "session"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var (
		appInstance *app.App
		cancel      context.CancelFunc
	)

	rootCmd := &cobra.Command{
		Use:   "treb-wallet",
		Short: "Connect a wallet and deploy contracts through it",
		Long: `treb-wallet connects to a wallet provider over JSON-RPC, follows its
account and chain changes, and deploys compiled contracts with transactions
the wallet signs. No private keys are handled by this tool.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot := config.FindProjectRoot()
			v := config.SetupViper(projectRoot, cmd)

			var view usecase.StatusView
			if _, ok := cmd.Annotations[sessionAnnotation]; ok {
				view = newSessionView()
			} else {
				view = progress.NewTerminalView(cmd.ErrOrStderr())
			}

			// Initialize app with DI
			var err error
			appInstance, err = app.InitApp(v, view)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			ctx = context.WithValue(ctx, viewKey, view)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if terminal, ok := cmd.Context().Value(viewKey).(*progress.TerminalView); ok {
				terminal.Stop()
			}
			if appInstance != nil {
				appInstance.Close()
			}
			if cancel != nil {
				cancel()
			}
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("wallet-url", "", "Wallet provider JSON-RPC endpoint (env TREB_WALLET_WALLET_URL)")
	flags.StringP("network", "n", "", "Network from foundry.toml [rpc_endpoints] to reach the wallet on")
	flags.String("profile", "", "Foundry profile used to locate build output")
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.StringP("output", "o", "", "Output format: text, json or yaml")
	flags.Duration("timeout", 0, "Overall command timeout (0 disables)")
	flags.Uint64("fallback-gas", domain.FallbackGasLimit, "Gas limit used when estimation fails")
	flags.Duration("reset-delay", domain.ResetDelay, "How long the deploy control stays locked after an attempt")
	flags.Duration("poll-interval", 0, "Interval for wallet notification and receipt polling")
	flags.String("explorer-url", "", "Block explorer base URL, overriding the one derived from the chain id")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Wallet Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	statusCmd := NewStatusCmd()
	statusCmd.GroupID = "main"
	rootCmd.AddCommand(statusCmd)

	connectCmd := NewConnectCmd()
	connectCmd.GroupID = "main"
	rootCmd.AddCommand(connectCmd)

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	sessionCmd := NewSessionCmd()
	sessionCmd.GroupID = "main"
	rootCmd.AddCommand(sessionCmd)

	// Management commands
	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	// Version command
	versionCmd := NewVersionCmd()
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
