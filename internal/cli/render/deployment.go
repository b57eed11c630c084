package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeploymentRenderer renders the outcome of a deployment attempt
type DeploymentRenderer struct {
	out    io.Writer
	format string
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer, format string) *DeploymentRenderer {
	return &DeploymentRenderer{out: out, format: format}
}

// Render renders a finished attempt
func (r *DeploymentRenderer) Render(attempt *domain.DeploymentAttempt) error {
	if r.format != "" {
		return writeStructured(r.out, r.format, attempt)
	}

	fmt.Fprintln(r.out)
	if attempt.State == domain.AttemptSucceeded {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s", attempt.Contract)))
	} else {
		fmt.Fprintln(r.out, FormatError(attempt.Error))
	}

	title := cases.Title(language.English)
	label := color.New(color.Bold)

	t := newKeyValueTable()
	t.AppendRow(table.Row{label.Sprint("State"), title.String(string(attempt.State))})
	t.AppendRow(table.Row{label.Sprint("From"), attempt.From.Hex()})
	if attempt.Address != nil {
		t.AppendRow(table.Row{label.Sprint("Address"), color.New(color.FgGreen).Sprint(attempt.Address.Hex())})
	}
	if attempt.TxHash != nil {
		t.AppendRow(table.Row{label.Sprint("Transaction"), attempt.TxHash.Hex()})
	}
	if attempt.GasLimit != 0 {
		t.AppendRow(table.Row{label.Sprint("Gas Limit"), gasLine(attempt)})
	}
	if attempt.ExplorerLink != "" {
		t.AppendRow(table.Row{label.Sprint("Explorer"), attempt.ExplorerLink})
	}
	fmt.Fprintln(r.out, t.Render())

	return nil
}

func gasLine(attempt *domain.DeploymentAttempt) string {
	if attempt.UsedFallbackGas {
		return fmt.Sprintf("%d (fallback)", attempt.GasLimit)
	}
	return fmt.Sprintf("%d (estimate %d + 20%%)", attempt.GasLimit, attempt.GasEstimate)
}

var _ Renderer[*domain.DeploymentAttempt] = (*DeploymentRenderer)(nil)
