package erc1155

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/multitoken-labs/m1155/internal/chain"
	"github.com/multitoken-labs/m1155/internal/config"
	"github.com/multitoken-labs/m1155/internal/wallet"
)

// Writer submits state-changing transactions to a deployed My1155 contract.
// Each operation validates its arguments locally, builds and signs the
// transaction, broadcasts it, and returns the transaction hash. Waiting for
// inclusion is a separate step (WaitMined) so callers can track the
// pending → confirming transition.
type Writer struct {
	client   *chain.EVMClient
	signer   *wallet.Signer
	contract string
	chainID  *big.Int
}

// NewWriter creates a Writer for the contract at contractAddr.
func NewWriter(rpcURL, contractAddr string, signer *wallet.Signer, chainID *big.Int) *Writer {
	return &Writer{
		client:   chain.NewEVMClient(rpcURL),
		signer:   signer,
		contract: contractAddr,
		chainID:  chainID,
	}
}

// NewWriterWithClient creates a Writer reusing an existing client handle.
func NewWriterWithClient(client *chain.EVMClient, contractAddr string, signer *wallet.Signer, chainID *big.Int) *Writer {
	return &Writer{client: client, signer: signer, contract: contractAddr, chainID: chainID}
}

// Sender returns the signing account's address.
func (w *Writer) Sender() string { return w.signer.Address() }

// SetApprovalForAll grants or revokes operator permission over all of the
// sender's token ids.
func (w *Writer) SetApprovalForAll(ctx context.Context, operator string, approved bool) (string, error) {
	if err := requireAddress("operator", operator); err != nil {
		return "", err
	}
	return w.submit(ctx, "setApprovalForAll", config.GasLimitAdmin,
		common.HexToAddress(operator), approved)
}

// SafeTransferFrom moves amount of token id from one account to another.
func (w *Writer) SafeTransferFrom(ctx context.Context, from, to string, id, amount *big.Int, data []byte) (string, error) {
	if err := requireAddress("from", from); err != nil {
		return "", err
	}
	if err := requireAddress("to", to); err != nil {
		return "", err
	}
	if err := requireUint("id", id); err != nil {
		return "", err
	}
	if err := requireUint("amount", amount); err != nil {
		return "", err
	}
	return w.submit(ctx, "safeTransferFrom", config.GasLimitTransfer,
		common.HexToAddress(from), common.HexToAddress(to), id, amount, orEmpty(data))
}

// SafeBatchTransferFrom moves several token ids at once. ids and amounts must
// be parallel arrays of equal length.
func (w *Writer) SafeBatchTransferFrom(ctx context.Context, from, to string, ids, amounts []*big.Int, data []byte) (string, error) {
	if err := requireAddress("from", from); err != nil {
		return "", err
	}
	if err := requireAddress("to", to); err != nil {
		return "", err
	}
	if err := requireBatch(ids, amounts); err != nil {
		return "", err
	}
	return w.submit(ctx, "safeBatchTransferFrom", config.GasLimitBatchTransfer,
		common.HexToAddress(from), common.HexToAddress(to), ids, amounts, orEmpty(data))
}

// Mint creates amount of token id for to. Extended builds only.
func (w *Writer) Mint(ctx context.Context, to string, id, amount *big.Int, data []byte) (string, error) {
	if err := requireAddress("to", to); err != nil {
		return "", err
	}
	if err := requireUint("id", id); err != nil {
		return "", err
	}
	if err := requireUint("amount", amount); err != nil {
		return "", err
	}
	return w.submit(ctx, "mint", config.GasLimitMint,
		common.HexToAddress(to), id, amount, orEmpty(data))
}

// MintAuto creates amount of a fresh token id chosen by the contract.
func (w *Writer) MintAuto(ctx context.Context, to string, amount *big.Int, data []byte) (string, error) {
	if err := requireAddress("to", to); err != nil {
		return "", err
	}
	if err := requireUint("amount", amount); err != nil {
		return "", err
	}
	return w.submit(ctx, "mintAuto", config.GasLimitMint,
		common.HexToAddress(to), amount, orEmpty(data))
}

// MintBatch creates several token ids for to in one transaction.
func (w *Writer) MintBatch(ctx context.Context, to string, ids, amounts []*big.Int, data []byte) (string, error) {
	if err := requireAddress("to", to); err != nil {
		return "", err
	}
	if err := requireBatch(ids, amounts); err != nil {
		return "", err
	}
	return w.submit(ctx, "mintBatch", config.GasLimitBatchTransfer,
		common.HexToAddress(to), ids, amounts, orEmpty(data))
}

// Burn destroys amount of token id held by from.
func (w *Writer) Burn(ctx context.Context, from string, id, amount *big.Int) (string, error) {
	if err := requireAddress("from", from); err != nil {
		return "", err
	}
	if err := requireUint("id", id); err != nil {
		return "", err
	}
	if err := requireUint("amount", amount); err != nil {
		return "", err
	}
	return w.submit(ctx, "burn", config.GasLimitMint,
		common.HexToAddress(from), id, amount)
}

// BurnBatch destroys several token ids held by from in one transaction.
func (w *Writer) BurnBatch(ctx context.Context, from string, ids, amounts []*big.Int) (string, error) {
	if err := requireAddress("from", from); err != nil {
		return "", err
	}
	if err := requireBatch(ids, amounts); err != nil {
		return "", err
	}
	return w.submit(ctx, "burnBatch", config.GasLimitBatchTransfer,
		common.HexToAddress(from), ids, amounts)
}

// SetURI replaces the contract's base metadata URI.
func (w *Writer) SetURI(ctx context.Context, newURI string) (string, error) {
	if newURI == "" {
		return "", validationf("new URI is empty")
	}
	return w.submit(ctx, "setURI", config.GasLimitAdmin, newURI)
}

// Pause halts all transfers on the contract.
func (w *Writer) Pause(ctx context.Context) (string, error) {
	return w.submit(ctx, "pause", config.GasLimitAdmin)
}

// Unpause resumes transfers on the contract.
func (w *Writer) Unpause(ctx context.Context) (string, error) {
	return w.submit(ctx, "unpause", config.GasLimitAdmin)
}

// TransferOwnership hands contract ownership to newOwner.
func (w *Writer) TransferOwnership(ctx context.Context, newOwner string) (string, error) {
	if err := requireAddress("newOwner", newOwner); err != nil {
		return "", err
	}
	return w.submit(ctx, "transferOwnership", config.GasLimitAdmin,
		common.HexToAddress(newOwner))
}

// WaitMined blocks until the transaction is included, then checks its status.
// A reverted transaction returns an ExecutionError; the receipt is still
// returned so callers can report gas usage.
func (w *Writer) WaitMined(ctx context.Context, hash string, timeout time.Duration) (*chain.Receipt, error) {
	receipt, err := w.client.WaitForReceipt(ctx, hash, timeout)
	if err != nil {
		return nil, &SubmissionError{Function: "waitMined", Err: err}
	}
	if receipt.Status == 0 {
		return receipt, &ExecutionError{Hash: hash}
	}
	return receipt, nil
}

// submit builds, signs, and broadcasts one write transaction.
func (w *Writer) submit(ctx context.Context, fn string, gasFallback uint64, args ...interface{}) (string, error) {
	calldata, err := contractABI().Pack(fn, args...)
	if err != nil {
		return "", validationf("packing %s: %v", fn, err)
	}

	from := w.signer.Address()

	gas, err := w.client.EstimateGas(ctx, from, w.contract, calldata)
	if err != nil {
		if chain.IsRevert(err) {
			// The node simulated the call and it reverts; surface the reason
			// instead of broadcasting a transaction that will fail.
			return "", &SubmissionError{Function: fn, Err: fmt.Errorf("would revert: %s", chain.RevertReason(err))}
		}
		gas = gasFallback
	}

	gasPrice, err := w.client.GasPrice(ctx)
	if err != nil {
		return "", &SubmissionError{Function: fn, Err: fmt.Errorf("getting gas price: %w", err)}
	}

	nonce, err := w.client.GetNonce(ctx, from)
	if err != nil {
		return "", &SubmissionError{Function: fn, Err: fmt.Errorf("getting nonce: %w", err)}
	}

	toAddr := common.HexToAddress(w.contract)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   w.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &toAddr,
		Value:     big.NewInt(0),
		Data:      calldata,
	})

	raw, err := w.signer.SignTx(tx, w.chainID)
	if err != nil {
		return "", &SubmissionError{Function: fn, Err: err}
	}

	hash, err := w.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return "", &SubmissionError{Function: fn, Err: err}
	}
	return hash, nil
}

func requireBatch(ids, amounts []*big.Int) error {
	if len(ids) != len(amounts) {
		return validationf("ids and amounts length mismatch: %d vs %d", len(ids), len(amounts))
	}
	if len(ids) == 0 {
		return validationf("empty batch")
	}
	for i, id := range ids {
		if err := requireUint(fmt.Sprintf("ids[%d]", i), id); err != nil {
			return err
		}
	}
	for i, amt := range amounts {
		if err := requireUint(fmt.Sprintf("amounts[%d]", i), amt); err != nil {
			return err
		}
	}
	return nil
}

func orEmpty(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}
