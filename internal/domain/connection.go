package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress parses a hex account address as returned by a wallet
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// TruncateAddress shortens an address for display, e.g. 0x1234...abcd.
// It keeps the first six characters and everything from index 38.
func TruncateAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "..." + hex[38:]
}

// ConnectLabel is the connect control label for the given account.
func ConnectLabel(account *common.Address) string {
	if account == nil {
		return "Connect Wallet"
	}
	return "Connected: " + TruncateAddress(*account)
}
