package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out    io.Writer
	format string
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, format string) *NetworksRenderer {
	return &NetworksRenderer{
		out:    out,
		format: format,
	}
}

type networkOutput struct {
	Name     string `json:"name" yaml:"name"`
	ChainID  uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Explorer string `json:"explorer,omitempty" yaml:"explorer,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Render renders the list of networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if r.format != "" {
		networks := make([]networkOutput, 0, len(result.Networks))
		for _, n := range result.Networks {
			out := networkOutput{Name: n.Name, ChainID: n.ChainID, Explorer: n.Explorer}
			if n.Error != nil {
				out.Error = n.Error.Error()
			}
			networks = append(networks, out)
		}
		return writeStructured(r.out, r.format, map[string]any{"networks": networks})
	}

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in foundry.toml [rpc_endpoints]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newKeyValueTable()
	for _, network := range result.Networks {
		if network.Error != nil {
			t.AppendRow(table.Row{"  ❌ " + network.Name, ToneColor(usecase.ToneError).Sprintf("Error: %v", network.Error)})
			continue
		}
		explorer := network.Explorer
		if explorer == "" {
			explorer = "-"
		}
		t.AppendRow(table.Row{"  ✅ " + network.Name, fmt.Sprintf("Chain ID: %d", network.ChainID), explorer})
	}
	fmt.Fprintln(r.out, t.Render())

	return nil
}
