package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/ui"
)

var (
	transferTo      string
	transferFrom    string
	transferID      string
	transferAmount  string
	transferIDs     string
	transferAmounts string
	transferData    string
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer tokens to another account",
	Long: `Transfer tokens via safeTransferFrom, or several ids at once via
safeBatchTransferFrom with --ids/--amounts.

Batch lists must have equal lengths; this is checked before anything is
sent to the network.

Examples:
  m1155 transfer --to 0xDEF... --id 1 --amount 50
  m1155 transfer --to 0xDEF... --ids 1,2 --amounts 50,10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if transferTo == "" {
			return fmt.Errorf("--to is required")
		}
		batch := transferIDs != "" || transferAmounts != ""
		if !batch && (transferID == "" || transferAmount == "") {
			return fmt.Errorf("--id and --amount are required (or --ids/--amounts for a batch)")
		}

		data, err := parseDataFlag(transferData)
		if err != nil {
			return err
		}

		sess, net, err := newSession(true)
		if err != nil {
			return err
		}

		from := transferFrom
		if from == "" {
			from = sess.Sender()
		}

		spin := ui.NewSpinner("Transferring...")
		spin.Start()

		var hash string
		if batch {
			ids, err := parseBigList("--ids", transferIDs)
			if err != nil {
				spin.Stop()
				return err
			}
			amounts, err := parseBigList("--amounts", transferAmounts)
			if err != nil {
				spin.Stop()
				return err
			}
			hash, err = sess.TransferBatch(context.Background(), from, transferTo, ids, amounts, data)
			spin.Stop()
			if err != nil {
				return err
			}
		} else {
			id, err := parseBig("--id", transferID)
			if err != nil {
				spin.Stop()
				return err
			}
			amount, err := parseBig("--amount", transferAmount)
			if err != nil {
				spin.Stop()
				return err
			}
			hash, err = sess.Transfer(context.Background(), from, transferTo, id, amount, data)
			spin.Stop()
			if err != nil {
				return err
			}
		}

		fmt.Println(ui.Success("Transfer mined"))
		fmt.Println(ui.Addr("Hash: " + hash))
		fmt.Println(ui.Meta(explorerTxLink(net, hash)))
		return nil
	},
}

// parseDataFlag decodes an optional 0x-prefixed hook payload.
func parseDataFlag(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid --data hex: %w", err)
	}
	return b, nil
}

func init() {
	transferCmd.Flags().StringVar(&transferTo, "to", "", "recipient address (required)")
	transferCmd.Flags().StringVar(&transferFrom, "from", "", "source address (default: signer)")
	transferCmd.Flags().StringVar(&transferID, "id", "", "token id")
	transferCmd.Flags().StringVar(&transferAmount, "amount", "", "amount to transfer")
	transferCmd.Flags().StringVar(&transferIDs, "ids", "", "batch token ids, comma separated")
	transferCmd.Flags().StringVar(&transferAmounts, "amounts", "", "batch amounts, comma separated")
	transferCmd.Flags().StringVar(&transferData, "data", "", "hex receiver-hook payload")
}
