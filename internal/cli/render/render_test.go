package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

var account = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func TestFormatError(t *testing.T) {
	assert.Equal(t, "❌ User denied transaction signature.", FormatError("deployment failed: user rejected the request: User denied transaction signature."))
	assert.Equal(t, "❌ Boom", FormatError("boom"))
}

func TestNetworksRenderer(t *testing.T) {
	result := &usecase.ListNetworksResult{Networks: []usecase.NetworkStatus{
		{Name: "base", ChainID: 8453, Explorer: "https://basescan.org"},
		{Name: "offline", Error: errors.New("failed to fetch chain ID")},
	}}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewNetworksRenderer(&buf, "").Render(result))
		out := buf.String()
		assert.Contains(t, out, "✅ base")
		assert.Contains(t, out, "Chain ID: 8453")
		assert.Contains(t, out, "❌ offline")
		assert.Contains(t, out, "Error: failed to fetch chain ID")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewNetworksRenderer(&buf, "json").Render(result))
		assert.JSONEq(t, `{"networks":[
			{"name":"base","chainId":8453,"explorer":"https://basescan.org"},
			{"name":"offline","error":"failed to fetch chain ID"}
		]}`, buf.String())
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewNetworksRenderer(&buf, "").Render(&usecase.ListNetworksResult{}))
		assert.Contains(t, buf.String(), "No networks configured")
	})
}

func TestNewStatusReport(t *testing.T) {
	tests := []struct {
		name  string
		state usecase.ConnectionState
		want  StatusReport
	}{
		{
			name:  "no provider",
			state: usecase.ConnectionState{},
			want:  StatusReport{},
		},
		{
			name:  "not connected",
			state: usecase.ConnectionState{ProviderDetected: true, ChainID: 8453},
			want:  StatusReport{ProviderDetected: true, ChainID: 8453, Explorer: "https://basescan.org"},
		},
		{
			name:  "connected",
			state: usecase.ConnectionState{ProviderDetected: true, ChainID: 1, Account: &account},
			want: StatusReport{
				ProviderDetected: true,
				Connected:        true,
				Account:          account.Hex(),
				ChainID:          1,
				Explorer:         "https://etherscan.io",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewStatusReport(tt.state, "", "", ""))
		})
	}
}

func TestStatusRenderer_Text(t *testing.T) {
	report := NewStatusReport(usecase.ConnectionState{ProviderDetected: true, ChainID: 1, Account: &account}, "http://127.0.0.1:1248", "mainnet", "")

	var buf bytes.Buffer
	require.NoError(t, NewStatusRenderer(&buf, "").Render(report))
	out := buf.String()
	assert.Contains(t, out, "Wallet")
	assert.Contains(t, out, "Connected")
	assert.Contains(t, out, "Chain Id")
	assert.Contains(t, out, account.Hex())
	assert.Contains(t, out, "mainnet")
}

func TestDeploymentRenderer(t *testing.T) {
	addr := common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	hash := common.HexToHash("0x01")
	attempt := &domain.DeploymentAttempt{
		State:        domain.AttemptSucceeded,
		Contract:     "Counter",
		From:         account,
		Address:      &addr,
		TxHash:       &hash,
		GasEstimate:  1000,
		GasLimit:     1200,
		ExplorerLink: domain.AddressLink("https://etherscan.io", addr),
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewDeploymentRenderer(&buf, "").Render(attempt))
		out := buf.String()
		assert.Contains(t, out, "✅ Deployed Counter")
		assert.Contains(t, out, addr.Hex())
		assert.Contains(t, out, "1200 (estimate 1000 + 20%)")
		assert.Contains(t, out, "Succeeded")
	})

	t.Run("failed", func(t *testing.T) {
		failed := &domain.DeploymentAttempt{State: domain.AttemptFailed, From: account, GasLimit: 3_000_000, UsedFallbackGas: true, Error: "transaction reverted"}
		var buf bytes.Buffer
		require.NoError(t, NewDeploymentRenderer(&buf, "").Render(failed))
		assert.Contains(t, buf.String(), "❌ Transaction reverted")
		assert.Contains(t, buf.String(), "3000000 (fallback)")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewDeploymentRenderer(&buf, "yaml").Render(attempt))

		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "succeeded", decoded["state"])
		assert.Equal(t, 1200, decoded["gasLimit"])
	})
}
