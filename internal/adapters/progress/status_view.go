package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/trebuchet-org/treb-wallet/internal/cli/render"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// TerminalView renders controller updates as terminal lines.
// A warning-tone deployment status runs a spinner until the next deployment status.
type TerminalView struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
	animate bool

	connectLabel  string
	deployLabel   string
	deployEnabled bool
	connection    string
}

// NewTerminalView creates a terminal view writing to out
func NewTerminalView(out io.Writer) *TerminalView {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &TerminalView{
		out:     out,
		spinner: s,
		animate: isTerminal(out),
	}
}

// SetConnectLabel records the connect control label
func (v *TerminalView) SetConnectLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.connectLabel = label
}

// SetDeployEnabled records whether deploying is possible
func (v *TerminalView) SetDeployEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deployEnabled = enabled
}

// SetDeployLabel records the deploy control label
func (v *TerminalView) SetDeployLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deployLabel = label
}

// SetConnectionStatus prints the connection status when it changes
func (v *TerminalView) SetConnectionStatus(text string, tone usecase.Tone) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if text == v.connection {
		return
	}
	v.connection = text
	v.println(render.ToneColor(tone).Sprintf("%s %s", render.ToneIcon(tone), text))
}

// SetDeploymentStatus prints the deployment status. In-progress statuses spin.
func (v *TerminalView) SetDeploymentStatus(text string, tone usecase.Tone, link string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if tone == usecase.ToneWarning {
		if !v.animate {
			v.println(render.ToneColor(tone).Sprint(text))
			return
		}
		v.spinner.Suffix = " " + text
		if !v.spinner.Active() {
			v.spinner.Start()
		}
		return
	}

	if v.spinner.Active() {
		v.spinner.Stop()
	}
	v.println(render.ToneColor(tone).Sprintf("%s %s", render.ToneIcon(tone), text))
	if link != "" {
		v.println(fmt.Sprintf("   %s", color.New(color.Faint).Sprint(link)))
	}
}

// Notice prints a blocking message
func (v *TerminalView) Notice(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.println(render.FormatWarning(message))
}

// Controls returns the last connect label, deploy label and deploy enablement
func (v *TerminalView) Controls() (connect, deploy string, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.connectLabel, v.deployLabel, v.deployEnabled
}

// Stop halts a running spinner
func (v *TerminalView) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.spinner.Active() {
		v.spinner.Stop()
	}
}

// println writes a line, pausing the spinner around it
func (v *TerminalView) println(line string) {
	wasActive := v.spinner.Active()
	if wasActive {
		v.spinner.Stop()
	}

	fmt.Fprintln(v.out, line)

	if wasActive {
		v.spinner.Start()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Ensure TerminalView implements StatusView
var _ usecase.StatusView = (*TerminalView)(nil)
