package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StatusReport describes the wallet connection for display
type StatusReport struct {
	WalletURL        string `json:"walletUrl,omitempty" yaml:"walletUrl,omitempty"`
	Network          string `json:"network,omitempty" yaml:"network,omitempty"`
	ProviderDetected bool   `json:"providerDetected" yaml:"providerDetected"`
	Connected        bool   `json:"connected" yaml:"connected"`
	Account          string `json:"account,omitempty" yaml:"account,omitempty"`
	ChainID          uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Explorer         string `json:"explorer,omitempty" yaml:"explorer,omitempty"`
}

// NewStatusReport builds a report from a connection snapshot
func NewStatusReport(state usecase.ConnectionState, walletURL, network, explorer string) StatusReport {
	report := StatusReport{
		WalletURL:        walletURL,
		Network:          network,
		ProviderDetected: state.ProviderDetected,
		Connected:        state.Connected(),
		ChainID:          state.ChainID,
		Explorer:         explorer,
	}
	if state.Account != nil {
		report.Account = state.Account.Hex()
	}
	if report.Explorer == "" && state.ChainID != 0 {
		report.Explorer = domain.ExplorerURL(state.ChainID)
	}
	return report
}

// StatusRenderer renders the wallet connection status
type StatusRenderer struct {
	out    io.Writer
	format string
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer, format string) *StatusRenderer {
	return &StatusRenderer{out: out, format: format}
}

// Render renders the status report
func (r *StatusRenderer) Render(report StatusReport) error {
	if r.format != "" {
		return writeStructured(r.out, r.format, report)
	}

	title := cases.Title(language.English)
	label := color.New(color.Bold)

	t := newKeyValueTable()
	row := func(key, value string) {
		if value != "" {
			t.AppendRow(table.Row{label.Sprint(title.String(key)), value})
		}
	}

	row("wallet", r.walletLine(report))
	row("network", report.Network)
	if report.ChainID != 0 {
		row("chain id", fmt.Sprintf("%d", report.ChainID))
	}
	row("account", report.Account)
	row("explorer", report.Explorer)

	fmt.Fprintln(r.out, t.Render())
	return nil
}

func (r *StatusRenderer) walletLine(report StatusReport) string {
	switch {
	case !report.ProviderDetected:
		return ToneColor(usecase.ToneError).Sprint("Wallet not detected")
	case !report.Connected:
		return ToneColor(usecase.ToneWarning).Sprint("Not connected")
	default:
		return ToneColor(usecase.ToneSuccess).Sprint("Connected")
	}
}

var _ Renderer[StatusReport] = (*StatusRenderer)(nil)
