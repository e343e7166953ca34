package erc1155

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	accountA = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	accountB = "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
	contract = "0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"
)

// mockNode is a JSON-RPC test server that answers eth_call with a canned
// result per function selector and counts every request it receives.
type mockNode struct {
	srv      *httptest.Server
	calls    atomic.Int64
	handlers map[string]func() (interface{}, *rpcErr)
}

type rpcErr struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newMockNode(t *testing.T) *mockNode {
	t.Helper()
	m := &mockNode{handlers: make(map[string]func() (interface{}, *rpcErr))}
	m.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.calls.Add(1)
		var req struct {
			Method string        `json:"method"`
			Params []interface{} `json:"params"`
			ID     int           `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		key := req.Method
		if req.Method == "eth_call" && len(req.Params) > 0 {
			if obj, ok := req.Params[0].(map[string]interface{}); ok {
				if data, ok := obj["data"].(string); ok && len(data) >= 10 {
					key = data[:10] // function selector
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if h, ok := m.handlers[key]; ok {
			result, rerr := h()
			if rerr != nil {
				resp["error"] = rerr
			} else {
				resp["result"] = result
			}
		} else {
			resp["error"] = &rpcErr{Code: -32601, Message: "method not found"}
		}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
	t.Cleanup(m.srv.Close)
	return m
}

// onSelector registers a fixed eth_call result for a function name.
func (m *mockNode) onSelector(t *testing.T, fn string, out ...interface{}) {
	t.Helper()
	method, ok := contractABI().Methods[fn]
	require.True(t, ok, "unknown function %s", fn)
	packed, err := method.Outputs.Pack(out...)
	require.NoError(t, err)
	selector := "0x" + hex.EncodeToString(method.ID)
	m.handlers[selector] = func() (interface{}, *rpcErr) {
		return "0x" + hex.EncodeToString(packed), nil
	}
}

// onSelectorRevert makes a function name revert.
func (m *mockNode) onSelectorRevert(t *testing.T, fn string) {
	t.Helper()
	method, ok := contractABI().Methods[fn]
	require.True(t, ok)
	selector := "0x" + hex.EncodeToString(method.ID)
	m.handlers[selector] = func() (interface{}, *rpcErr) {
		return nil, &rpcErr{Code: 3, Message: "execution reverted"}
	}
}

// ---------------------------------------------------------------------------
// balances
// ---------------------------------------------------------------------------

func TestBalanceOf(t *testing.T) {
	node := newMockNode(t)
	node.onSelector(t, "balanceOf", big.NewInt(100))

	r := NewReader(node.srv.URL, contract)
	bal, err := r.BalanceOf(context.Background(), accountA, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), bal)
}

func TestBalanceOfInvalidAddress(t *testing.T) {
	node := newMockNode(t)

	r := NewReader(node.srv.URL, contract)
	_, err := r.BalanceOf(context.Background(), "not-an-address", big.NewInt(1))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int64(0), node.calls.Load(), "validation must fail before any network call")
}

func TestBalanceOfEndpointError(t *testing.T) {
	r := NewReader("http://127.0.0.1:1", contract)
	_, err := r.BalanceOf(context.Background(), accountA, big.NewInt(1))

	var rerr *ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "balanceOf", rerr.Function)
}

func TestBalanceOfBatchOrderPreserving(t *testing.T) {
	node := newMockNode(t)
	want := []*big.Int{big.NewInt(5), big.NewInt(0), big.NewInt(42)}
	node.onSelector(t, "balanceOfBatch", want)

	r := NewReader(node.srv.URL, contract)
	got, err := r.BalanceOfBatch(context.Background(),
		[]string{accountA, accountB, accountA},
		[]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, want, got)
}

func TestBalanceOfBatchLengthMismatch(t *testing.T) {
	node := newMockNode(t)

	r := NewReader(node.srv.URL, contract)
	_, err := r.BalanceOfBatch(context.Background(),
		[]string{accountA, accountB},
		[]*big.Int{big.NewInt(1)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "length mismatch")
	assert.Equal(t, int64(0), node.calls.Load())
}

// ---------------------------------------------------------------------------
// approvals
// ---------------------------------------------------------------------------

func TestIsApprovedForAll(t *testing.T) {
	node := newMockNode(t)
	node.onSelector(t, "isApprovedForAll", true)

	r := NewReader(node.srv.URL, contract)
	ok, err := r.IsApprovedForAll(context.Background(), accountA, accountB)
	require.NoError(t, err)
	assert.True(t, ok)
}

// ---------------------------------------------------------------------------
// capability probes
// ---------------------------------------------------------------------------

func TestOwnerSupported(t *testing.T) {
	node := newMockNode(t)
	node.onSelector(t, "owner", common.HexToAddress(accountA))

	r := NewReader(node.srv.URL, contract)
	probe, err := r.Owner(context.Background())
	require.NoError(t, err)
	assert.True(t, probe.Supported)
	assert.Equal(t, common.HexToAddress(accountA).Hex(), probe.Value)
}

func TestOwnerUnsupportedOnRevert(t *testing.T) {
	node := newMockNode(t)
	node.onSelectorRevert(t, "owner")

	r := NewReader(node.srv.URL, contract)
	probe, err := r.Owner(context.Background())
	require.NoError(t, err, "a missing function is not an error")
	assert.False(t, probe.Supported)
}

func TestPausedUnsupportedOnEmptyData(t *testing.T) {
	node := newMockNode(t)
	method := contractABI().Methods["paused"]
	node.handlers["0x"+hex.EncodeToString(method.ID)] = func() (interface{}, *rpcErr) {
		return "0x", nil
	}

	r := NewReader(node.srv.URL, contract)
	probe, err := r.Paused(context.Background())
	require.NoError(t, err)
	assert.False(t, probe.Supported)
}

func TestPausedSupportedFalseIsNotUnsupported(t *testing.T) {
	node := newMockNode(t)
	node.onSelector(t, "paused", false)

	r := NewReader(node.srv.URL, contract)
	probe, err := r.Paused(context.Background())
	require.NoError(t, err)
	// "not paused" must be distinguishable from "no paused() function".
	assert.True(t, probe.Supported)
	assert.False(t, probe.Value)
}

func TestTotalSupplyProbe(t *testing.T) {
	node := newMockNode(t)
	node.onSelector(t, "totalSupply", big.NewInt(1_000_000))

	r := NewReader(node.srv.URL, contract)
	probe, err := r.TotalSupply(context.Background(), big.NewInt(7))
	require.NoError(t, err)
	assert.True(t, probe.Supported)
	assert.Equal(t, big.NewInt(1_000_000), probe.Value)
}

func TestURIProbe(t *testing.T) {
	node := newMockNode(t)
	node.onSelector(t, "uri", "ipfs://bafy.../{id}.json")

	r := NewReader(node.srv.URL, contract)
	probe, err := r.URI(context.Background(), big.NewInt(1))
	require.NoError(t, err)
	assert.True(t, probe.Supported)
	assert.Equal(t, "ipfs://bafy.../{id}.json", probe.Value)
}

// A revert on a required core function is a ReadError, never a probe miss.
func TestRequiredFunctionRevertIsReadError(t *testing.T) {
	node := newMockNode(t)
	node.onSelectorRevert(t, "balanceOf")

	r := NewReader(node.srv.URL, contract)
	_, err := r.BalanceOf(context.Background(), accountA, big.NewInt(1))

	var rerr *ReadError
	require.ErrorAs(t, err, &rerr)
}
