package blockchain

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/wallet"
	"github.com/trebuchet-org/treb-wallet/internal/adapters/wallet/wallettest"
	"github.com/trebuchet-org/treb-wallet/internal/domain"
	"github.com/trebuchet-org/treb-wallet/internal/domain/config"
)

var deployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

const tokenABI = `[{"type":"constructor","stateMutability":"nonpayable","inputs":[
	{"name":"owner","type":"address"},
	{"name":"supply","type":"uint256"},
	{"name":"decimals","type":"uint8"},
	{"name":"offset","type":"int64"},
	{"name":"name","type":"string"},
	{"name":"paused","type":"bool"},
	{"name":"salt","type":"bytes32"},
	{"name":"extra","type":"bytes"}
]}]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustArtifact(t *testing.T, rawABI, bytecode string) *domain.ContractArtifact {
	t.Helper()
	a, err := domain.NewContractArtifact("Token", []byte(rawABI), bytecode)
	require.NoError(t, err)
	return a
}

func TestEncodeConstructorArgs(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(tokenABI))
	require.NoError(t, err)

	args := []string{
		deployer.Hex(),
		"1000000000000000000000",
		"18",
		"-5",
		"Token",
		"true",
		"0x01",
		"0xdeadbeef",
	}

	encoded, err := EncodeConstructorArgs(parsed, args)
	require.NoError(t, err)

	values, err := parsed.Constructor.Inputs.Unpack(encoded)
	require.NoError(t, err)
	require.Len(t, values, 8)

	supply, _ := new(big.Int).SetString("1000000000000000000000", 10)
	assert.Equal(t, deployer, values[0])
	assert.Equal(t, supply, values[1])
	assert.Equal(t, uint8(18), values[2])
	assert.Equal(t, int64(-5), values[3])
	assert.Equal(t, "Token", values[4])
	assert.Equal(t, true, values[5])
	assert.Equal(t, [32]byte{0x01}, values[6])
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, values[7])
}

func TestEncodeConstructorArgs_Errors(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(`[{"type":"constructor","inputs":[{"name":"n","type":"uint8"}]}]`))
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing argument", nil, "expects 1 arguments, got 0"},
		{"too many arguments", []string{"1", "2"}, "expects 1 arguments, got 2"},
		{"not a number", []string{"abc"}, "invalid integer"},
		{"overflow", []string{"256"}, "overflows 8 bits"},
		{"negative unsigned", []string{"-1"}, "negative value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeConstructorArgs(parsed, tt.args)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestEncodeConstructorArgs_NoConstructor(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(`[]`))
	require.NoError(t, err)

	encoded, err := EncodeConstructorArgs(parsed, nil)
	require.NoError(t, err)
	assert.Empty(t, encoded)
}

func TestFitsBits(t *testing.T) {
	assert.True(t, fitsBits(big.NewInt(127), 8, false))
	assert.False(t, fitsBits(big.NewInt(128), 8, false))
	assert.True(t, fitsBits(big.NewInt(-128), 8, false))
	assert.False(t, fitsBits(big.NewInt(-129), 8, false))
	assert.True(t, fitsBits(big.NewInt(255), 8, true))
}

func TestClient_DeployFlow(t *testing.T) {
	node := wallettest.NewNode(31337, deployer)
	node.SetEstimate(50_000)
	node.DelayReceipts(2)
	client := NewClient(node.Client(t), 5*time.Millisecond, testLogger())

	artifact := mustArtifact(t, `[{"type":"constructor","inputs":[]}]`, "0x6080")
	handle, err := client.Deploy(artifact, nil)
	require.NoError(t, err)

	gas, err := handle.EstimateGas(context.Background(), deployer)
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000), gas)

	receipt, err := handle.Send(context.Background(), deployer, 60_000)
	require.NoError(t, err)
	assert.Equal(t, wallettest.ContractAddress(deployer, 0), receipt.Address)
	assert.Equal(t, uint64(1), receipt.BlockNumber)

	sent := node.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, deployer, sent[0].From)
	assert.Equal(t, uint64(60_000), uint64(sent[0].Gas))
	assert.Equal(t, []byte{0x60, 0x80}, []byte(sent[0].Data))

	exists, err := client.CodeExists(context.Background(), receipt.Address)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.CodeExists(context.Background(), common.HexToAddress("0x1"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_SendRejected(t *testing.T) {
	node := wallettest.NewNode(1, deployer)
	node.RejectSend()
	client := NewClient(node.Client(t), time.Millisecond, testLogger())

	handle, err := client.Deploy(mustArtifact(t, `[]`, "0x6080"), nil)
	require.NoError(t, err)

	_, err = handle.Send(context.Background(), deployer, 100_000)
	assert.ErrorIs(t, err, domain.ErrUserRejected)
}

func TestClient_SendReverted(t *testing.T) {
	node := wallettest.NewNode(1, deployer)
	node.Revert()
	client := NewClient(node.Client(t), time.Millisecond, testLogger())

	handle, err := client.Deploy(mustArtifact(t, `[]`, "0x6080"), nil)
	require.NoError(t, err)

	_, err = handle.Send(context.Background(), deployer, 100_000)
	assert.ErrorContains(t, err, "reverted")
}

func TestClient_EstimateFailure(t *testing.T) {
	node := wallettest.NewNode(1, deployer)
	node.FailEstimate("execution reverted")
	client := NewClient(node.Client(t), time.Millisecond, testLogger())

	handle, err := client.Deploy(mustArtifact(t, `[]`, "0x6080"), nil)
	require.NoError(t, err)

	_, err = handle.EstimateGas(context.Background(), deployer)
	assert.ErrorContains(t, err, "execution reverted")
}

func TestClient_WaitMinedHonoursContext(t *testing.T) {
	node := wallettest.NewNode(1, deployer)
	node.DelayReceipts(1_000_000)
	client := NewClient(node.Client(t), time.Millisecond, testLogger())

	handle, err := client.Deploy(mustArtifact(t, `[]`, "0x6080"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = handle.Send(ctx, deployer, 100_000)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientFactory(t *testing.T) {
	node := wallettest.NewNode(1, deployer)
	factory := NewClientFactory(&config.RuntimeConfig{}, testLogger())

	provider := wallet.NewRPCProvider(node.Client(t), 0, testLogger())
	client, err := factory.NewChainClient(provider)
	require.NoError(t, err)
	assert.NotNil(t, client)
}
