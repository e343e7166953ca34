package cmd

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/ui"
)

var (
	historyFromBlock string
	historyToBlock   string
	historyApprovals bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show transfer and approval history",
	Long: `Show decoded TransferSingle/TransferBatch events for the contract, or
ApprovalForAll events with --approvals.

Block bounds accept decimal numbers or the tags "earliest" and "latest".

Examples:
  m1155 history
  m1155 history --from-block 1200000
  m1155 history --approvals`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, _, err := newReader()
		if err != nil {
			return err
		}

		from := blockTag(historyFromBlock)
		to := blockTag(historyToBlock)

		spin := ui.NewSpinner("Fetching logs...")
		spin.Start()

		if historyApprovals {
			events, err := reader.ApprovalHistory(context.Background(), from, to)
			spin.Stop()
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println(ui.Meta("No approval events in range."))
				return nil
			}
			t := ui.NewTable([]ui.Column{
				{Title: "Block", Width: 10},
				{Title: "Account", Width: 14},
				{Title: "Operator", Width: 14},
				{Title: "Approved", Width: 8},
			})
			for _, e := range events {
				approved := "no"
				if e.Approved {
					approved = "yes"
				}
				t.AddRow(ui.Row{
					fmt.Sprintf("%d", e.Block),
					ui.TruncateAddr(e.Account),
					ui.TruncateAddr(e.Operator),
					approved,
				})
			}
			fmt.Print(t.Render())
			return nil
		}

		events, err := reader.TransferHistory(context.Background(), from, to)
		spin.Stop()
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println(ui.Meta("No transfer events in range."))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Block", Width: 10},
			{Title: "From", Width: 14},
			{Title: "To", Width: 14},
			{Title: "Tokens", Width: 24},
			{Title: "Amounts", Width: 24},
		})
		for _, e := range events {
			t.AddRow(ui.Row{
				fmt.Sprintf("%d", e.Block),
				ui.TruncateAddr(e.From),
				ui.TruncateAddr(e.To),
				joinBigs(e.IDs),
				joinBigs(e.Values),
			})
		}
		fmt.Print(t.Render())
		return nil
	},
}

// blockTag converts a decimal block number to the hex form eth_getLogs
// expects, passing tags like "latest" through.
func blockTag(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "earliest"
	}
	if s == "earliest" || s == "latest" || strings.HasPrefix(s, "0x") {
		return s
	}
	n, err := parseBig("block", s)
	if err != nil {
		return s
	}
	return "0x" + n.Text(16)
}

// joinBigs renders a batch's ids or values as "1, 2, 7".
func joinBigs(ns []*big.Int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}

func init() {
	historyCmd.Flags().StringVar(&historyFromBlock, "from-block", "", "start block (default: earliest)")
	historyCmd.Flags().StringVar(&historyToBlock, "to-block", "latest", "end block")
	historyCmd.Flags().BoolVar(&historyApprovals, "approvals", false, "show ApprovalForAll events instead")
}
