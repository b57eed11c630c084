package cli

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

type connectLabelMsg string

type deployLabelMsg string

type deployEnabledMsg bool

type connectionStatusMsg struct {
	text string
	tone usecase.Tone
}

type deploymentStatusMsg struct {
	text string
	tone usecase.Tone
	link string
}

type noticeMsg string

// sessionView forwards controller updates to the session program as messages
type sessionView struct {
	updates chan tea.Msg
	done    chan struct{}
	once    sync.Once
}

func newSessionView() *sessionView {
	return &sessionView{
		updates: make(chan tea.Msg, 64),
		done:    make(chan struct{}),
	}
}

func (v *sessionView) send(msg tea.Msg) {
	select {
	case v.updates <- msg:
	case <-v.done:
	}
}

func (v *sessionView) SetConnectLabel(label string) { v.send(connectLabelMsg(label)) }

func (v *sessionView) SetDeployEnabled(enabled bool) { v.send(deployEnabledMsg(enabled)) }

func (v *sessionView) SetDeployLabel(label string) { v.send(deployLabelMsg(label)) }

func (v *sessionView) SetConnectionStatus(text string, tone usecase.Tone) {
	v.send(connectionStatusMsg{text: text, tone: tone})
}

func (v *sessionView) SetDeploymentStatus(text string, tone usecase.Tone, link string) {
	v.send(deploymentStatusMsg{text: text, tone: tone, link: link})
}

func (v *sessionView) Notice(message string) { v.send(noticeMsg(message)) }

// next waits for the following update
func (v *sessionView) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-v.updates:
			return msg
		case <-v.done:
			return nil
		}
	}
}

// close drops updates sent after the session ends
func (v *sessionView) close() {
	v.once.Do(func() { close(v.done) })
}

var _ usecase.StatusView = (*sessionView)(nil)
