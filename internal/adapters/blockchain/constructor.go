package blockchain

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
)

// BuildDeployData returns the creation bytecode followed by the encoded constructor arguments
func BuildDeployData(artifact *domain.ContractArtifact, args []string) ([]byte, error) {
	code, err := artifact.BytecodeBytes()
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}

	encoded, err := EncodeConstructorArgs(artifact.ABI, args)
	if err != nil {
		return nil, err
	}
	return append(code, encoded...), nil
}

// EncodeConstructorArgs converts string arguments to the constructor's
// parameter types and ABI-encodes them.
func EncodeConstructorArgs(contractABI abi.ABI, args []string) ([]byte, error) {
	inputs := contractABI.Constructor.Inputs
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("constructor expects %d arguments, got %d", len(inputs), len(args))
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	values := make([]interface{}, len(inputs))
	for i, input := range inputs {
		v, err := parseArg(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		values[i] = v
	}

	encoded, err := inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	return encoded, nil
}

func parseArg(t abi.Type, s string) (interface{}, error) {
	s = strings.TrimSpace(s)

	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
		}
		return common.HexToAddress(s), nil

	case abi.BoolTy:
		return strconv.ParseBool(s)

	case abi.StringTy:
		return s, nil

	case abi.BytesTy:
		return hexutil.Decode(s)

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("value is %d bytes, max %d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.IntTy, abi.UintTy:
		return parseInteger(t, s)

	default:
		return nil, fmt.Errorf("unsupported constructor argument type")
	}
}

// parseInteger returns the Go type go-ethereum packs for t: sized ints up
// to 64 bits, *big.Int above.
func parseInteger(t abi.Type, s string) (interface{}, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}

	unsigned := t.T == abi.UintTy
	if unsigned && v.Sign() < 0 {
		return nil, fmt.Errorf("negative value for unsigned type")
	}
	if !fitsBits(v, t.Size, unsigned) {
		return nil, fmt.Errorf("value overflows %d bits", t.Size)
	}

	if t.GetType() == reflect.TypeOf(&big.Int{}) {
		return v, nil
	}
	rv := reflect.New(t.GetType()).Elem()
	if unsigned {
		rv.SetUint(v.Uint64())
	} else {
		rv.SetInt(v.Int64())
	}
	return rv.Interface(), nil
}

func fitsBits(v *big.Int, bits int, unsigned bool) bool {
	if unsigned {
		return v.BitLen() <= bits
	}
	if v.Sign() < 0 {
		// -2^(n-1) is the smallest value
		return new(big.Int).Add(v, big.NewInt(1)).BitLen() < bits
	}
	return v.BitLen() < bits
}
