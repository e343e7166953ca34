package erc1155

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/multitoken-labs/m1155/internal/chain"
)

// Probe is the result of reading a function that may be absent from a given
// deployed build. Supported distinguishes "the contract answered" from "this
// build has no such function" — a zero Value with Supported true is a real
// on-chain zero.
type Probe[T any] struct {
	Supported bool
	Value     T
}

func supported[T any](v T) Probe[T] { return Probe[T]{Supported: true, Value: v} }

func unsupported[T any]() Probe[T] { return Probe[T]{} }

// errNotImplemented marks a call that reverted or returned undecodable data
// on a function the deployed build does not export.
var errNotImplemented = errors.New("function not implemented by deployed contract")

// Reader performs read-only calls against a deployed My1155 contract.
type Reader struct {
	client   *chain.EVMClient
	contract string
}

// NewReader creates a Reader for the contract at contractAddr.
func NewReader(rpcURL, contractAddr string) *Reader {
	return &Reader{
		client:   chain.NewEVMClient(rpcURL),
		contract: contractAddr,
	}
}

// NewReaderWithClient creates a Reader reusing an existing client handle.
func NewReaderWithClient(client *chain.EVMClient, contractAddr string) *Reader {
	return &Reader{client: client, contract: contractAddr}
}

// Contract returns the target contract address.
func (r *Reader) Contract() string { return r.contract }

// BalanceOf returns the balance of a token id held by account.
func (r *Reader) BalanceOf(ctx context.Context, account string, id *big.Int) (*big.Int, error) {
	if err := requireAddress("account", account); err != nil {
		return nil, err
	}
	if err := requireUint("id", id); err != nil {
		return nil, err
	}
	out, err := r.read(ctx, "balanceOf", common.HexToAddress(account), id)
	if err != nil {
		return nil, err
	}
	return asBig(out, "balanceOf")
}

// BalanceOfBatch returns the balances for parallel (accounts, ids) pairs.
// The result array has the same length and order as the inputs.
func (r *Reader) BalanceOfBatch(ctx context.Context, accounts []string, ids []*big.Int) ([]*big.Int, error) {
	if len(accounts) != len(ids) {
		return nil, validationf("accounts and ids length mismatch: %d vs %d", len(accounts), len(ids))
	}
	if len(accounts) == 0 {
		return nil, validationf("empty batch")
	}
	addrs := make([]common.Address, len(accounts))
	for i, a := range accounts {
		if err := requireAddress(fmt.Sprintf("accounts[%d]", i), a); err != nil {
			return nil, err
		}
		addrs[i] = common.HexToAddress(a)
	}
	for i, id := range ids {
		if err := requireUint(fmt.Sprintf("ids[%d]", i), id); err != nil {
			return nil, err
		}
	}

	out, err := r.read(ctx, "balanceOfBatch", addrs, ids)
	if err != nil {
		return nil, err
	}
	balances, ok := out[0].([]*big.Int)
	if !ok {
		return nil, &ReadError{Function: "balanceOfBatch", Err: fmt.Errorf("unexpected output type %T", out[0])}
	}
	return balances, nil
}

// IsApprovedForAll reports whether operator may move all of account's tokens.
func (r *Reader) IsApprovedForAll(ctx context.Context, account, operator string) (bool, error) {
	if err := requireAddress("account", account); err != nil {
		return false, err
	}
	if err := requireAddress("operator", operator); err != nil {
		return false, err
	}
	out, err := r.read(ctx, "isApprovedForAll", common.HexToAddress(account), common.HexToAddress(operator))
	if err != nil {
		return false, err
	}
	return asBool(out, "isApprovedForAll")
}

// Owner probes the optional owner() function.
func (r *Reader) Owner(ctx context.Context) (Probe[string], error) {
	out, err := r.read(ctx, "owner")
	if errors.Is(err, errNotImplemented) {
		return unsupported[string](), nil
	}
	if err != nil {
		return unsupported[string](), err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return unsupported[string](), nil
	}
	return supported(addr.Hex()), nil
}

// Paused probes the optional paused() function.
func (r *Reader) Paused(ctx context.Context) (Probe[bool], error) {
	out, err := r.read(ctx, "paused")
	if errors.Is(err, errNotImplemented) {
		return unsupported[bool](), nil
	}
	if err != nil {
		return unsupported[bool](), err
	}
	v, ok := out[0].(bool)
	if !ok {
		return unsupported[bool](), nil
	}
	return supported(v), nil
}

// URI probes the optional uri(id) metadata location for a token type.
func (r *Reader) URI(ctx context.Context, id *big.Int) (Probe[string], error) {
	if err := requireUint("id", id); err != nil {
		return unsupported[string](), err
	}
	out, err := r.read(ctx, "uri", id)
	if errors.Is(err, errNotImplemented) {
		return unsupported[string](), nil
	}
	if err != nil {
		return unsupported[string](), err
	}
	s, ok := out[0].(string)
	if !ok {
		return unsupported[string](), nil
	}
	return supported(s), nil
}

// Exists probes the optional exists(id) function.
func (r *Reader) Exists(ctx context.Context, id *big.Int) (Probe[bool], error) {
	if err := requireUint("id", id); err != nil {
		return unsupported[bool](), err
	}
	out, err := r.read(ctx, "exists", id)
	if errors.Is(err, errNotImplemented) {
		return unsupported[bool](), nil
	}
	if err != nil {
		return unsupported[bool](), err
	}
	v, ok := out[0].(bool)
	if !ok {
		return unsupported[bool](), nil
	}
	return supported(v), nil
}

// TotalSupply probes the optional totalSupply(id) function.
func (r *Reader) TotalSupply(ctx context.Context, id *big.Int) (Probe[*big.Int], error) {
	if err := requireUint("id", id); err != nil {
		return unsupported[*big.Int](), err
	}
	out, err := r.read(ctx, "totalSupply", id)
	if errors.Is(err, errNotImplemented) {
		return unsupported[*big.Int](), nil
	}
	if err != nil {
		return unsupported[*big.Int](), err
	}
	n, ok := out[0].(*big.Int)
	if !ok {
		return unsupported[*big.Int](), nil
	}
	return supported(n), nil
}

// read packs, calls, and unpacks one view function. Optional functions that
// revert or return nothing map to errNotImplemented; everything else that
// fails maps to a ReadError.
func (r *Reader) read(ctx context.Context, fn string, args ...interface{}) ([]interface{}, error) {
	a := contractABI()
	calldata, err := a.Pack(fn, args...)
	if err != nil {
		return nil, validationf("packing %s: %v", fn, err)
	}

	out, err := r.client.CallContract(ctx, "", r.contract, calldata)
	if err != nil {
		if IsOptional(fn) && chain.IsRevert(err) {
			return nil, errNotImplemented
		}
		return nil, &ReadError{Function: fn, Err: err}
	}
	if len(out) == 0 {
		if IsOptional(fn) {
			return nil, errNotImplemented
		}
		return nil, &ReadError{Function: fn, Err: errors.New("empty return data")}
	}

	vals, err := a.Unpack(fn, out)
	if err != nil {
		if IsOptional(fn) {
			return nil, errNotImplemented
		}
		return nil, &ReadError{Function: fn, Err: fmt.Errorf("decoding result: %w", err)}
	}
	if len(vals) == 0 {
		return nil, &ReadError{Function: fn, Err: errors.New("no output values")}
	}
	return vals, nil
}

// --- argument validation ---

func requireAddress(name, addr string) error {
	if !common.IsHexAddress(addr) {
		return validationf("%s is not a valid address: %q", name, addr)
	}
	return nil
}

func requireUint(name string, n *big.Int) error {
	if n == nil {
		return validationf("%s is nil", name)
	}
	if n.Sign() < 0 {
		return validationf("%s is negative: %s", name, n)
	}
	return nil
}

// --- output coercion ---

func asBig(out []interface{}, fn string) (*big.Int, error) {
	n, ok := out[0].(*big.Int)
	if !ok {
		return nil, &ReadError{Function: fn, Err: fmt.Errorf("unexpected output type %T", out[0])}
	}
	return n, nil
}

func asBool(out []interface{}, fn string) (bool, error) {
	v, ok := out[0].(bool)
	if !ok {
		return false, &ReadError{Function: fn, Err: fmt.Errorf("unexpected output type %T", out[0])}
	}
	return v, nil
}
