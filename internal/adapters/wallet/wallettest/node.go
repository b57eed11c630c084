// Package wallettest provides an in-process JSON-RPC wallet for adapter tests.
package wallettest

import (
	"math/big"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
)

// SentTx is an eth_sendTransaction request as received by the node
type SentTx struct {
	From common.Address `json:"from"`
	Data hexutil.Bytes  `json:"data"`
	Gas  hexutil.Uint64 `json:"gas"`
}

// Node is a scriptable wallet endpoint. Fields may be changed between calls
// with the setters, which take the node lock.
type Node struct {
	mu sync.Mutex

	chainID         uint64
	accounts        []common.Address
	requestAccounts []common.Address
	rejectRequests  bool
	noRequestMethod bool

	estimate    uint64
	estimateErr string
	rejectSend  bool
	reverted    bool
	// pendingPolls is how many receipt lookups return null before the receipt
	pendingPolls int
	code         map[common.Address][]byte

	sent     []SentTx
	receipts map[common.Hash]*types.Receipt
}

// NewNode returns a node on chainID with the given accounts exposed
func NewNode(chainID uint64, accounts ...common.Address) *Node {
	return &Node{
		chainID:  chainID,
		accounts: accounts,
		estimate: 21000,
		code:     make(map[common.Address][]byte),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

// Serve starts an HTTP JSON-RPC server for the node and returns its URL
func (n *Node) Serve(t testing.TB) string {
	t.Helper()
	srv := rpc.NewServer()
	if err := srv.RegisterName("eth", &ethService{n: n}); err != nil {
		t.Fatalf("register eth service: %v", err)
	}
	hs := httptest.NewServer(srv)
	t.Cleanup(func() {
		hs.Close()
		srv.Stop()
	})
	return hs.URL
}

// Client dials the node in-process
func (n *Node) Client(t testing.TB) *rpc.Client {
	t.Helper()
	srv := rpc.NewServer()
	if err := srv.RegisterName("eth", &ethService{n: n}); err != nil {
		t.Fatalf("register eth service: %v", err)
	}
	client := rpc.DialInProc(srv)
	t.Cleanup(func() {
		client.Close()
		srv.Stop()
	})
	return client
}

func (n *Node) SetAccounts(accounts ...common.Address) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accounts = accounts
}

func (n *Node) SetChainID(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chainID = id
}

// SetRequestAccounts sets the accounts granted by eth_requestAccounts
func (n *Node) SetRequestAccounts(accounts ...common.Address) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requestAccounts = accounts
}

// RejectRequests makes eth_requestAccounts fail with code 4001
func (n *Node) RejectRequests() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejectRequests = true
}

// DisableRequestAccounts makes eth_requestAccounts an unknown method
func (n *Node) DisableRequestAccounts() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.noRequestMethod = true
}

func (n *Node) SetEstimate(gas uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.estimate = gas
}

// FailEstimate makes eth_estimateGas return msg as an error
func (n *Node) FailEstimate(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.estimateErr = msg
}

// RejectSend makes eth_sendTransaction fail with code 4001
func (n *Node) RejectSend() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejectSend = true
}

// Revert makes mined transactions report a failed status
func (n *Node) Revert() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reverted = true
}

// DelayReceipts returns null for the next polls receipt lookups
func (n *Node) DelayReceipts(polls int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pendingPolls = polls
}

// Sent returns the transactions submitted so far
func (n *Node) Sent() []SentTx {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SentTx(nil), n.sent...)
}

// ContractAddress is where the nonce-th deployment from sender lands
func ContractAddress(sender common.Address, nonce uint64) common.Address {
	return crypto.CreateAddress(sender, nonce)
}

type rpcError struct {
	code int
	msg  string
}

func (e *rpcError) Error() string  { return e.msg }
func (e *rpcError) ErrorCode() int { return e.code }

type ethService struct {
	n *Node
}

func (s *ethService) Accounts() []common.Address {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	return append([]common.Address{}, s.n.accounts...)
}

func (s *ethService) RequestAccounts() ([]common.Address, error) {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	switch {
	case s.n.noRequestMethod:
		return nil, &rpcError{code: -32601, msg: "the method eth_requestAccounts does not exist/is not available"}
	case s.n.rejectRequests:
		return nil, &rpcError{code: 4001, msg: "User rejected the request."}
	case s.n.requestAccounts != nil:
		s.n.accounts = s.n.requestAccounts
	}
	return append([]common.Address{}, s.n.accounts...), nil
}

func (s *ethService) ChainId() hexutil.Uint64 {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	return hexutil.Uint64(s.n.chainID)
}

func (s *ethService) EstimateGas(args map[string]interface{}, block *string) (hexutil.Uint64, error) {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	if s.n.estimateErr != "" {
		return 0, &rpcError{code: 3, msg: s.n.estimateErr}
	}
	return hexutil.Uint64(s.n.estimate), nil
}

func (s *ethService) SendTransaction(tx SentTx) (common.Hash, error) {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	if s.n.rejectSend {
		return common.Hash{}, &rpcError{code: 4001, msg: "User denied transaction signature."}
	}

	nonce := uint64(len(s.n.sent))
	s.n.sent = append(s.n.sent, tx)
	hash := crypto.Keccak256Hash(tx.From.Bytes(), tx.Data, big.NewInt(int64(nonce)).Bytes())

	receipt := &types.Receipt{
		Type:              types.LegacyTxType,
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: uint64(tx.Gas),
		Logs:              []*types.Log{},
		TxHash:            hash,
		GasUsed:           uint64(tx.Gas),
		BlockNumber:       big.NewInt(int64(nonce + 1)),
	}
	if s.n.reverted {
		receipt.Status = types.ReceiptStatusFailed
	} else {
		receipt.ContractAddress = ContractAddress(tx.From, nonce)
		s.n.code[receipt.ContractAddress] = []byte{0x60, 0x80}
	}
	s.n.receipts[hash] = receipt
	return hash, nil
}

func (s *ethService) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	if s.n.pendingPolls > 0 {
		s.n.pendingPolls--
		return nil, nil
	}
	return s.n.receipts[hash], nil
}

func (s *ethService) GetCode(addr common.Address, block *string) (hexutil.Bytes, error) {
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	return s.n.code[addr], nil
}
