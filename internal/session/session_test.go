package session

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multitoken-labs/m1155/internal/erc1155"
	"github.com/multitoken-labs/m1155/internal/txstate"
	"github.com/multitoken-labs/m1155/internal/wallet"
)

// Well-known anvil/hardhat dev key; never holds real funds.
const devKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

const (
	contract = "0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"
	accountA = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	accountB = "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
	txHash   = "0x9e3b1f6c2a00000000000000000000000000000000000000000000000000cafe"
)

func packOutput(t *testing.T, typ string, values ...interface{}) string {
	t.Helper()
	args := make(gethabi.Arguments, 0, 1)
	abiT, err := gethabi.NewType(typ, "", nil)
	require.NoError(t, err)
	args = append(args, gethabi.Argument{Type: abiT})
	data, err := args.Pack(values...)
	require.NoError(t, err)
	return "0x" + common.Bytes2Hex(data)
}

// newNode serves both the read path (eth_call, dispatched by handler) and the
// full write path. The calls counter lets tests assert zero network traffic.
func newNode(t *testing.T, calls *atomic.Int64, onCall func(method string) (interface{}, bool)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result interface{}
		if onCall != nil {
			if v, ok := onCall(req.Method); ok {
				result = v
			}
		}
		if result == nil {
			switch req.Method {
			case "eth_estimateGas":
				result = "0x186a0"
			case "eth_gasPrice":
				result = "0x5f5e100"
			case "eth_getTransactionCount":
				result = "0x1"
			case "eth_sendRawTransaction":
				result = txHash
			case "eth_getTransactionReceipt":
				result = map[string]interface{}{"status": "0x1", "blockNumber": "0x10", "gasUsed": "0x5208"}
			case "eth_call":
				result = "0x"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0", "id": req.ID, "result": result,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestSession(t *testing.T, rpcURL string, opts ...Option) *Session {
	t.Helper()
	signer, err := wallet.NewSignerFromHex(devKey)
	require.NoError(t, err)
	reader := erc1155.NewReader(rpcURL, contract)
	writer := erc1155.NewWriter(rpcURL, contract, signer, big.NewInt(421614))
	opts = append([]Option{WithWriter(writer)}, opts...)
	return New(reader, opts...)
}

func record(seen *[]txstate.RequestState) Option {
	return WithTracker(txstate.NewTracker(0, txstate.WithListener(func(s txstate.RequestState) {
		*seen = append(*seen, s)
	})))
}

// ---------------------------------------------------------------------------
// preconditions
// ---------------------------------------------------------------------------

func TestActionWithoutSignerFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := newNode(t, &calls, nil)

	s := New(erc1155.NewReader(srv.URL, contract))
	require.False(t, s.CanWrite())

	_, err := s.Transfer(context.Background(), accountA, accountB, big.NewInt(1), big.NewInt(10), nil)
	var precond *PreconditionError
	require.ErrorAs(t, err, &precond)
	assert.Equal(t, "signer", precond.Missing)

	assert.Equal(t, int64(0), calls.Load())
	assert.IsType(t, txstate.Idle{}, s.RequestState())
}

// ---------------------------------------------------------------------------
// write lifecycle
// ---------------------------------------------------------------------------

func TestTransferWalksFullLifecycle(t *testing.T) {
	var calls atomic.Int64
	srv := newNode(t, &calls, nil)

	var seen []txstate.RequestState
	s := newTestSession(t, srv.URL, record(&seen))

	hash, err := s.Transfer(context.Background(), accountA, accountB, big.NewInt(1), big.NewInt(10), nil)
	require.NoError(t, err)
	assert.Equal(t, txHash, hash)

	require.Len(t, seen, 3)
	assert.Equal(t, txstate.Pending{Op: "transfer"}, seen[0])
	assert.Equal(t, txstate.Confirming{Op: "transfer", Hash: txHash}, seen[1])
	assert.Equal(t, txstate.Succeeded{Op: "transfer", Hash: txHash}, seen[2])
}

func TestSubmissionFailureLandsInErrorState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Method == "eth_sendRawTransaction" {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]interface{}{"code": -32000, "message": "insufficient funds"},
			})
			return
		}
		var result interface{}
		switch req.Method {
		case "eth_estimateGas":
			result = "0x186a0"
		case "eth_gasPrice":
			result = "0x5f5e100"
		case "eth_getTransactionCount":
			result = "0x1"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0", "id": req.ID, "result": result,
		})
	}))
	t.Cleanup(srv.Close)

	s := newTestSession(t, srv.URL)
	_, err := s.Transfer(context.Background(), accountA, accountB, big.NewInt(1), big.NewInt(10), nil)

	var sub *erc1155.SubmissionError
	require.ErrorAs(t, err, &sub)

	failed, ok := s.RequestState().(txstate.Failed)
	require.True(t, ok)
	assert.ErrorAs(t, failed.Err, &sub)
}

func TestValidationFailureNeverTouchesNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := newNode(t, &calls, nil)

	s := newTestSession(t, srv.URL)
	_, err := s.TransferBatch(context.Background(), accountA, accountB,
		[]*big.Int{big.NewInt(1), big.NewInt(2)}, []*big.Int{big.NewInt(10)}, nil)

	var val *erc1155.ValidationError
	require.ErrorAs(t, err, &val)
	assert.Equal(t, int64(0), calls.Load())
}

func TestSuccessRefetchesBalances(t *testing.T) {
	var calls atomic.Int64
	var balanceCalls atomic.Int64
	srv := newNode(t, &calls, func(method string) (interface{}, bool) {
		if method == "eth_call" {
			balanceCalls.Add(1)
			return packOutputForBatch(), true
		}
		return nil, false
	})

	s := newTestSession(t, srv.URL)

	_, err := s.FetchBalances(context.Background(),
		[]string{accountA, accountB}, []*big.Int{big.NewInt(1), big.NewInt(1)})
	require.NoError(t, err)
	require.Equal(t, int64(1), balanceCalls.Load())

	_, err = s.Transfer(context.Background(), accountA, accountB, big.NewInt(1), big.NewInt(10), nil)
	require.NoError(t, err)

	// The successful write refetched the remembered balance query.
	assert.Equal(t, int64(2), balanceCalls.Load())
	rows := s.Balances()
	require.Equal(t, txstate.AsyncSuccess, rows.Status)
	require.Len(t, rows.Value, 2)
	assert.Equal(t, big.NewInt(100), rows.Value[0].Amount)
	assert.Equal(t, big.NewInt(200), rows.Value[1].Amount)
}

func packOutputForBatch() string {
	data, _ := batchArgs.Pack([]*big.Int{big.NewInt(100), big.NewInt(200)})
	return "0x" + common.Bytes2Hex(data)
}

var batchArgs = func() gethabi.Arguments {
	typ, err := gethabi.NewType("uint256[]", "", nil)
	if err != nil {
		panic(err)
	}
	return gethabi.Arguments{{Type: typ}}
}()

// ---------------------------------------------------------------------------
// reads
// ---------------------------------------------------------------------------

func TestFetchContractInfoWithProbes(t *testing.T) {
	var calls atomic.Int64
	selectorHits := 0
	srv := newNode(t, &calls, func(method string) (interface{}, bool) {
		if method != "eth_call" {
			return nil, false
		}
		selectorHits++
		switch selectorHits {
		case 1: // owner()
			return packOutput(t, "address", common.HexToAddress(accountA)), true
		case 2: // paused(): empty data means unsupported
			return "0x", true
		default: // uri(0)
			return packOutput(t, "string", "https://meta.example/{id}.json"), true
		}
	})

	s := New(erc1155.NewReader(srv.URL, contract))
	info, err := s.FetchContractInfo(context.Background())
	require.NoError(t, err)

	require.True(t, info.Owner.Supported)
	assert.Equal(t, common.HexToAddress(accountA).Hex(), info.Owner.Value)
	assert.False(t, info.Paused.Supported)
	require.True(t, info.BaseURI.Supported)
	assert.Equal(t, "https://meta.example/{id}.json", info.BaseURI.Value)

	cached := s.ContractInfo()
	assert.Equal(t, txstate.AsyncSuccess, cached.Status)
	assert.Equal(t, info, cached.Value)
}

func TestFetchApprovalReadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	s := New(erc1155.NewReader(srv.URL, contract))
	_, err := s.FetchApproval(context.Background(), accountA, accountB)

	var readErr *erc1155.ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, txstate.AsyncError, s.Approval().Status)
}

func TestFetchTokenInfo(t *testing.T) {
	var calls atomic.Int64
	selectorHits := 0
	srv := newNode(t, &calls, func(method string) (interface{}, bool) {
		if method != "eth_call" {
			return nil, false
		}
		selectorHits++
		switch selectorHits {
		case 1: // exists(id)
			return packOutput(t, "bool", true), true
		case 2: // totalSupply(id)
			return packOutput(t, "uint256", big.NewInt(5000)), true
		default: // uri(id)
			return packOutput(t, "string", "ipfs://abc/7"), true
		}
	})

	s := New(erc1155.NewReader(srv.URL, contract))
	info, err := s.FetchTokenInfo(context.Background(), big.NewInt(7))
	require.NoError(t, err)

	assert.True(t, info.Exists.Value)
	assert.Equal(t, big.NewInt(5000), info.TotalSupply.Value)
	assert.Equal(t, "ipfs://abc/7", info.URI.Value)
}

// ---------------------------------------------------------------------------
// request state reset
// ---------------------------------------------------------------------------

func TestResetAfterSuccess(t *testing.T) {
	var calls atomic.Int64
	srv := newNode(t, &calls, nil)

	s := newTestSession(t, srv.URL, WithConfirmTimeout(time.Second))
	_, err := s.SetApproval(context.Background(), accountB, true)
	require.NoError(t, err)
	assert.IsType(t, txstate.Succeeded{}, s.RequestState())

	s.ResetRequest()
	assert.IsType(t, txstate.Idle{}, s.RequestState())
}
