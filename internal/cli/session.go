package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/metrics"
	"github.com/trebuchet-org/treb-wallet/internal/cli/render"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// actionDoneMsg reports the end of a controller operation started from the session
type actionDoneMsg struct {
	err error
}

type statusLine struct {
	text string
	tone usecase.Tone
}

// sessionModel is the bubbletea model of the interactive session.
// The connect and deploy controls are bound to the c and d keys.
type sessionModel struct {
	view       *sessionView
	initialize func() error
	connect    func() error
	deploy     func() error

	contract      string
	connectLabel  string
	deployLabel   string
	deployEnabled bool
	connection    statusLine
	deployment    statusLine
	link          string
	notice        string
	err           error
	quitting      bool
}

func newSessionModel(view *sessionView, contract string, initialize, connect, deploy func() error) sessionModel {
	return sessionModel{
		view:         view,
		initialize:   initialize,
		connect:      connect,
		deploy:       deploy,
		contract:     contract,
		connectLabel: domain.ConnectLabel(nil),
		deployLabel:  "Deploy",
	}
}

func runAction(f func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: f()}
	}
}

// Init starts listening for view updates and initializes the connection
func (m sessionModel) Init() tea.Cmd {
	return tea.Batch(m.view.next(), runAction(m.initialize))
}

// Update handles messages and updates the model
func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case connectLabelMsg:
		m.connectLabel = string(msg)
	case deployLabelMsg:
		m.deployLabel = string(msg)
	case deployEnabledMsg:
		m.deployEnabled = bool(msg)
	case connectionStatusMsg:
		m.connection = statusLine{text: msg.text, tone: msg.tone}
	case deploymentStatusMsg:
		m.deployment = statusLine{text: msg.text, tone: msg.tone}
		m.link = msg.link
	case noticeMsg:
		m.notice = string(msg)

	case actionDoneMsg:
		if unreported(msg.err) {
			m.err = msg.err
		}
		return m, nil

	default:
		return m, nil
	}

	// a view update was consumed, wait for the next one
	return m, m.view.next()
}

func (m sessionModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	}

	// a notice blocks the controls until dismissed
	if m.notice != "" {
		switch msg.String() {
		case "enter", "esc", " ":
			m.notice = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "c":
		m.err = nil
		return m, runAction(m.connect)
	case "d":
		m.err = nil
		return m, runAction(m.deploy)
	}
	return m, nil
}

// unreported reports whether err was not already surfaced through the view
func unreported(err error) bool {
	if err == nil {
		return false
	}
	var subErr *domain.SubmissionError
	switch {
	case errors.As(err, &subErr),
		errors.Is(err, domain.ErrUserRejected),
		errors.Is(err, domain.ErrDeployInFlight),
		errors.Is(err, domain.ErrProviderMissing),
		errors.Is(err, domain.ErrNotConnected),
		errors.Is(err, domain.ErrArtifactMissing):
		return false
	}
	return true
}

// View renders the UI
func (m sessionModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprint("treb-wallet session"))
	if m.contract != "" {
		b.WriteString(color.New(color.Faint).Sprintf("  (%s)", m.contract))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  [c] %s\n", m.connectLabel))
	deploy := fmt.Sprintf("  [d] %s", m.deployLabel)
	if !m.deployEnabled {
		deploy = color.New(color.Faint).Sprint(deploy)
	}
	b.WriteString(deploy + "\n\n")

	if m.connection.text != "" {
		b.WriteString("  " + render.ToneColor(m.connection.tone).Sprint(m.connection.text) + "\n")
	}
	if m.deployment.text != "" {
		b.WriteString("  " + render.ToneColor(m.deployment.tone).Sprint(m.deployment.text) + "\n")
	}
	if m.link != "" {
		b.WriteString("  " + color.New(color.Faint).Sprint(m.link) + "\n")
	}
	if m.err != nil {
		b.WriteString("  " + render.FormatError(m.err.Error()) + "\n")
	}

	if m.notice != "" {
		b.WriteString("\n  " + render.FormatWarning(m.notice) + "\n")
		b.WriteString(color.New(color.FgYellow).Sprint("  Enter: dismiss\n"))
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("c: connect  d: deploy  q: quit\n"))
	return b.String()
}

// NewSessionCmd creates the interactive session command
func NewSessionCmd() *cobra.Command {
	var (
		flags       artifactFlags
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "session [contract]",
		Short: "Interactive wallet session with connect and deploy controls",
		Long: `Start an interactive session that follows the wallet.

Press c to request account access and d to deploy the selected contract.
Account changes are applied as they happen; a chain change reloads the
session state. With --metrics-addr, deployment metrics are served over HTTP.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{sessionAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			view, ok := cmd.Context().Value(viewKey).(*sessionView)
			if !ok {
				return fmt.Errorf("session view not initialized")
			}
			defer view.close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			artifact, err := flags.load(ctx, app, args)
			if err != nil {
				return err
			}
			var contract string
			if artifact != nil {
				contract = artifact.Name
			}

			if metricsAddr != "" {
				go func() {
					if err := metrics.Serve(ctx, metricsAddr, metrics.NewRouter(app.Metrics), app.Log); err != nil {
						app.Log.Error("metrics server failed", "err", err)
					}
				}()
			}

			initialize := func() error {
				err := app.Connection.Initialize(ctx)
				if err != nil {
					return err
				}
				go func() {
					if err := app.Connection.Watch(ctx); err != nil && !errors.Is(err, domain.ErrProviderMissing) {
						app.Log.Warn("stopped following wallet notifications", "err", err)
					}
				}()
				return nil
			}
			connect := func() error {
				return app.Connection.Connect(ctx)
			}
			deploy := func() error {
				_, err := app.Deploy.Run(ctx, usecase.DeployParams{Artifact: artifact, Args: flags.args})
				return err
			}

			model := newSessionModel(view, contract, initialize, connect, deploy)
			p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout()))
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("session failed: %w", err)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address (e.g. :2112)")

	return cmd
}
