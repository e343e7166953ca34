package erc1155

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/multitoken-labs/m1155/internal/chain"
)

// Event signatures emitted by the contract.
const (
	sigTransferSingle = "TransferSingle(address,address,address,uint256,uint256)"
	sigTransferBatch  = "TransferBatch(address,address,address,uint256[],uint256[])"
	sigApprovalForAll = "ApprovalForAll(address,address,bool)"
)

// eventTopic computes the keccak-256 topic hash for an event signature.
func eventTopic(sig string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// TransferEvent is one decoded TransferSingle or TransferBatch log.
// Single transfers carry exactly one (id, value) pair.
type TransferEvent struct {
	TxHash   string
	Block    uint64
	Operator string
	From     string
	To       string
	IDs      []*big.Int
	Values   []*big.Int
	Batch    bool
}

// ApprovalEvent is one decoded ApprovalForAll log.
type ApprovalEvent struct {
	TxHash   string
	Block    uint64
	Account  string
	Operator string
	Approved bool
}

// TransferHistory fetches and decodes transfer logs for the contract between
// fromBlock and toBlock (hex quantities or "latest"). Logs that fail to
// decode are skipped; partial history is better than none for display.
func (r *Reader) TransferHistory(ctx context.Context, fromBlock, toBlock string) ([]TransferEvent, error) {
	singleTopic := eventTopic(sigTransferSingle)
	batchTopic := eventTopic(sigTransferBatch)

	logs, err := r.client.GetLogs(ctx, r.contract, nil, fromBlock, toBlock)
	if err != nil {
		return nil, &ReadError{Function: "getLogs", Err: err}
	}

	var events []TransferEvent
	for _, lg := range logs {
		if len(lg.Topics) < 4 {
			continue
		}
		switch lg.Topics[0] {
		case singleTopic:
			ev, err := decodeTransferSingle(lg)
			if err != nil {
				continue
			}
			events = append(events, ev)
		case batchTopic:
			ev, err := decodeTransferBatch(lg)
			if err != nil {
				continue
			}
			events = append(events, ev)
		}
	}
	return events, nil
}

// ApprovalHistory fetches and decodes ApprovalForAll logs for the contract.
func (r *Reader) ApprovalHistory(ctx context.Context, fromBlock, toBlock string) ([]ApprovalEvent, error) {
	topic := eventTopic(sigApprovalForAll)

	logs, err := r.client.GetLogs(ctx, r.contract, []string{topic}, fromBlock, toBlock)
	if err != nil {
		return nil, &ReadError{Function: "getLogs", Err: err}
	}

	var events []ApprovalEvent
	for _, lg := range logs {
		if len(lg.Topics) < 3 {
			continue
		}
		vals, err := unpackEventData("ApprovalForAll", lg.Data)
		if err != nil || len(vals) != 1 {
			continue
		}
		approved, ok := vals[0].(bool)
		if !ok {
			continue
		}
		events = append(events, ApprovalEvent{
			TxHash:   lg.TxHash,
			Block:    blockOf(lg),
			Account:  topicAddress(lg.Topics[1]),
			Operator: topicAddress(lg.Topics[2]),
			Approved: approved,
		})
	}
	return events, nil
}

func decodeTransferSingle(lg chain.LogEntry) (TransferEvent, error) {
	vals, err := unpackEventData("TransferSingle", lg.Data)
	if err != nil {
		return TransferEvent{}, err
	}
	if len(vals) != 2 {
		return TransferEvent{}, fmt.Errorf("TransferSingle: %d data values", len(vals))
	}
	id, ok1 := vals[0].(*big.Int)
	value, ok2 := vals[1].(*big.Int)
	if !ok1 || !ok2 {
		return TransferEvent{}, fmt.Errorf("TransferSingle: unexpected data types")
	}
	return TransferEvent{
		TxHash:   lg.TxHash,
		Block:    blockOf(lg),
		Operator: topicAddress(lg.Topics[1]),
		From:     topicAddress(lg.Topics[2]),
		To:       topicAddress(lg.Topics[3]),
		IDs:      []*big.Int{id},
		Values:   []*big.Int{value},
	}, nil
}

func decodeTransferBatch(lg chain.LogEntry) (TransferEvent, error) {
	vals, err := unpackEventData("TransferBatch", lg.Data)
	if err != nil {
		return TransferEvent{}, err
	}
	if len(vals) != 2 {
		return TransferEvent{}, fmt.Errorf("TransferBatch: %d data values", len(vals))
	}
	ids, ok1 := vals[0].([]*big.Int)
	values, ok2 := vals[1].([]*big.Int)
	if !ok1 || !ok2 {
		return TransferEvent{}, fmt.Errorf("TransferBatch: unexpected data types")
	}
	return TransferEvent{
		TxHash:   lg.TxHash,
		Block:    blockOf(lg),
		Operator: topicAddress(lg.Topics[1]),
		From:     topicAddress(lg.Topics[2]),
		To:       topicAddress(lg.Topics[3]),
		IDs:      ids,
		Values:   values,
		Batch:    true,
	}, nil
}

// unpackEventData decodes the non-indexed fields of a named event.
func unpackEventData(event, data string) ([]interface{}, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(data, "0x"))
	if err != nil {
		return nil, err
	}
	ev, ok := contractABI().Events[event]
	if !ok {
		return nil, fmt.Errorf("unknown event %q", event)
	}
	return ev.Inputs.NonIndexed().Unpack(raw)
}

// topicAddress extracts the address from a 32-byte indexed topic.
func topicAddress(topic string) string {
	t := strings.TrimPrefix(topic, "0x")
	if len(t) != 64 {
		return topic
	}
	return "0x" + t[24:]
}

func blockOf(lg chain.LogEntry) uint64 {
	n, ok := new(big.Int).SetString(strings.TrimPrefix(lg.BlockNumber, "0x"), 16)
	if !ok {
		return 0
	}
	return n.Uint64()
}
