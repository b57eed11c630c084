package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ContractArtifact is the compiled contract to deploy: its ABI and creation bytecode.
type ContractArtifact struct {
	Name     string
	Source   string
	RawABI   json.RawMessage
	ABI      abi.ABI
	Bytecode string
}

// NewContractArtifact parses the ABI and validates the bytecode
func NewContractArtifact(name string, rawABI json.RawMessage, bytecode string) (*ContractArtifact, error) {
	if len(bytes.TrimSpace(rawABI)) == 0 || strings.TrimSpace(bytecode) == "" {
		return nil, ErrArtifactMissing
	}

	parsed, err := abi.JSON(bytes.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
	}

	normalized := NormalizeBytecode(bytecode)
	if _, err := hexutil.Decode(normalized); err != nil {
		return nil, fmt.Errorf("invalid bytecode for %s: %w", name, err)
	}
	if normalized == "0x" {
		return nil, fmt.Errorf("%w: %s has empty bytecode (abstract contract or interface?)", ErrArtifactMissing, name)
	}

	return &ContractArtifact{
		Name:     name,
		RawABI:   rawABI,
		ABI:      parsed,
		Bytecode: normalized,
	}, nil
}

// Loaded reports whether both the ABI and the bytecode are present
func (a *ContractArtifact) Loaded() bool {
	return a != nil && len(a.RawABI) > 0 && a.Bytecode != "" && a.Bytecode != "0x"
}

// BytecodeBytes decodes the normalized bytecode
func (a *ContractArtifact) BytecodeBytes() ([]byte, error) {
	return hexutil.Decode(NormalizeBytecode(a.Bytecode))
}

// NormalizeBytecode returns the bytecode as a 0x-prefixed hex string
func NormalizeBytecode(bytecode string) string {
	bytecode = strings.TrimSpace(bytecode)
	if strings.HasPrefix(bytecode, "0x") || strings.HasPrefix(bytecode, "0X") {
		return "0x" + bytecode[2:]
	}
	return "0x" + bytecode
}
