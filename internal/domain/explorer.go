package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultExplorerURL is used when the chain has no known explorer
const DefaultExplorerURL = "https://etherscan.io"

var knownExplorers = map[uint64]string{
	1:        "https://etherscan.io",
	10:       "https://optimistic.etherscan.io",
	56:       "https://bscscan.com",
	137:      "https://polygonscan.com",
	250:      "https://ftmscan.com",
	324:      "https://explorer.zksync.io",
	1101:     "https://zkevm.polygonscan.com",
	8453:     "https://basescan.org",
	42161:    "https://arbiscan.io",
	42220:    "https://celoscan.io",
	43114:    "https://snowtrace.io",
	44787:    "https://alfajores.celoscan.io",
	84532:    "https://sepolia.basescan.org",
	11155111: "https://sepolia.etherscan.io",
}

// ExplorerURL returns the block explorer for a chain, falling back to etherscan.io
func ExplorerURL(chainID uint64) string {
	if url, ok := knownExplorers[chainID]; ok {
		return url
	}
	return DefaultExplorerURL
}

// AddressLink builds the explorer page URL for an address
func AddressLink(explorer string, addr common.Address) string {
	if explorer == "" {
		explorer = DefaultExplorerURL
	}
	return strings.TrimRight(explorer, "/") + "/address/" + addr.Hex()
}
