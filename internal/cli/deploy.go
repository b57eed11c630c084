package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-wallet/internal/app"
	"github.com/trebuchet-org/treb-wallet/internal/cli/render"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// artifactFlags selects the contract to deploy
type artifactFlags struct {
	artifact string
	abi      string
	bin      string
	args     []string
}

func (f *artifactFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.artifact, "artifact", "", "Path to a Foundry or Hardhat artifact JSON file")
	cmd.Flags().StringVar(&f.abi, "abi", "", "Path to an ABI JSON file (use with --bin)")
	cmd.Flags().StringVar(&f.bin, "bin", "", "Path to a bytecode file (use with --abi)")
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "Constructor argument, repeat in declaration order")
}

func (f *artifactFlags) ref(args []string) usecase.ArtifactRef {
	ref := usecase.ArtifactRef{
		Path:    f.artifact,
		ABIPath: f.abi,
		BinPath: f.bin,
	}
	if len(args) > 0 {
		ref.Contract = args[0]
	}
	return ref
}

// load loads the selected artifact. No selection yields nil so the deploy
// preconditions report it. A selection that cannot be loaded is an error.
func (f *artifactFlags) load(ctx context.Context, app *app.App, args []string) (*domain.ContractArtifact, error) {
	ref := f.ref(args)
	if ref.IsZero() {
		app.Log.Debug("no contract artifact selected")
		return nil, nil
	}

	artifact, err := app.Artifacts.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	app.Log.Debug("loaded contract artifact", "contract", artifact.Name)
	return artifact, nil
}

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		flags   artifactFlags
		connect bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "deploy [contract]",
		Short: "Deploy a contract through the connected wallet",
		Long: `Deploy a compiled contract with a transaction signed by the wallet.

The contract is looked up by name (or path:Name) in the Foundry or Hardhat
build output, or loaded from --artifact or an --abi/--bin pair. Gas is
estimated and padded by 20%; when estimation fails a fixed fallback limit is
used. The command waits for the transaction to be mined.`,
		Example: `  treb-wallet deploy Counter
  treb-wallet deploy src/Token.sol:Token --arg "My Token" --arg MTK --arg 1000000
  treb-wallet deploy --abi Counter.abi --bin Counter.bin --network sepolia`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			artifact, err := flags.load(ctx, app, args)
			if err != nil {
				return err
			}

			if err := app.Connection.Initialize(ctx); err != nil && !errors.Is(err, domain.ErrProviderMissing) {
				return err
			}

			state := app.Connection.State()
			if connect && state.ProviderDetected && !state.Connected() {
				if err := app.Connection.Connect(ctx); err != nil {
					if errors.Is(err, domain.ErrUserRejected) {
						fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning("Connection request rejected in the wallet"))
					}
					return err
				}
				state = app.Connection.State()
			}

			if !yes && state.Connected() && artifact.Loaded() {
				prompt := fmt.Sprintf("Deploy %s from %s", artifact.Name, domain.TruncateAddress(*state.Account))
				ok, err := app.Confirmer.Confirm(ctx, prompt)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning("Deployment cancelled"))
					return nil
				}
			}

			attempt, err := app.Deploy.Run(ctx, usecase.DeployParams{
				Artifact: artifact,
				Args:     flags.args,
			})
			if attempt != nil {
				if renderErr := render.NewDeploymentRenderer(cmd.OutOrStdout(), app.Config.Output).Render(attempt); renderErr != nil {
					return renderErr
				}
			}
			return err
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&connect, "connect", false, "Request account access first when no account is connected")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
