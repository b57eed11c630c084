package cli

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type sessionFixture struct {
	view     *sessionView
	connects int
	deploys  int
	model    sessionModel
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{view: newSessionView()}
	t.Cleanup(f.view.close)

	f.model = newSessionModel(f.view, "Counter",
		func() error { return nil },
		func() error { f.connects++; return nil },
		func() error { f.deploys++; return nil },
	)
	return f
}

func (f *sessionFixture) update(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(sessionModel)
	return cmd
}

func TestSessionModel_ViewUpdates(t *testing.T) {
	f := newSessionFixture(t)

	assert.NotNil(t, f.update(connectLabelMsg("Connected: 0x5FbD...0aa3")))
	f.update(deployEnabledMsg(true))
	f.update(deployLabelMsg("Deploying..."))
	f.update(connectionStatusMsg{text: "Status: Connected to 0x5FbD...0aa3", tone: usecase.ToneSuccess})
	f.update(deploymentStatusMsg{text: "Contract deployed at: 0xabc", tone: usecase.ToneSuccess, link: "https://etherscan.io/address/0xabc"})

	out := f.model.View()
	assert.Contains(t, out, "[c] Connected: 0x5FbD...0aa3")
	assert.Contains(t, out, "[d] Deploying...")
	assert.Contains(t, out, "Status: Connected to 0x5FbD...0aa3")
	assert.Contains(t, out, "https://etherscan.io/address/0xabc")
	assert.Contains(t, out, "c: connect  d: deploy  q: quit")
}

func TestSessionModel_Keys(t *testing.T) {
	f := newSessionFixture(t)

	cmd := f.update(key("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, actionDoneMsg{}, cmd())
	assert.Equal(t, 1, f.connects)

	cmd = f.update(key("d"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, f.deploys)

	cmd = f.update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, f.model.View())
}

func TestSessionModel_NoticeBlocksControls(t *testing.T) {
	f := newSessionFixture(t)

	f.update(noticeMsg("Please connect your wallet first"))
	assert.Contains(t, f.model.View(), "Please connect your wallet first")

	assert.Nil(t, f.update(key("d")))
	assert.Equal(t, 0, f.deploys)

	f.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotContains(t, f.model.View(), "Please connect your wallet first")

	require.NotNil(t, f.update(key("d")))
}

func TestSessionModel_ActionErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		shown bool
	}{
		{"nil", nil, false},
		{"rejected", domain.ErrUserRejected, false},
		{"in flight", domain.ErrDeployInFlight, false},
		{"precondition", domain.ErrNotConnected, false},
		{"submission", &domain.SubmissionError{Err: errors.New("boom")}, false},
		{"unexpected", fmt.Errorf("failed to connect wallet: %w", errors.New("connection refused")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			f.update(actionDoneMsg{err: tt.err})
			if tt.shown {
				assert.Contains(t, f.model.View(), "Connection refused")
			} else {
				assert.Nil(t, f.model.err)
			}
		})
	}
}

func TestSessionView_ForwardsUpdates(t *testing.T) {
	v := newSessionView()

	v.SetConnectLabel("Connect Wallet")
	v.Notice("Wallet not detected!")

	assert.Equal(t, connectLabelMsg("Connect Wallet"), v.next()())
	assert.Equal(t, noticeMsg("Wallet not detected!"), v.next()())

	v.close()
	done := make(chan struct{})
	go func() {
		// sends after close never block
		for i := 0; i < 100; i++ {
			v.SetDeployEnabled(true)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked after close")
	}
}
