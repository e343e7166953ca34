package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/ui"
)

var balanceIDs string

var balanceCmd = &cobra.Command{
	Use:   "balance <account>",
	Short: "Check token balances for an account",
	Long: `Check ERC-1155 balances for one account across one or more token ids.

Multiple ids go through a single balanceOfBatch call; results come back in
query order.

Examples:
  m1155 balance 0xABC... --ids 1
  m1155 balance 0xABC... --ids 1,2,7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account := args[0]
		ids, err := parseBigList("--ids", balanceIDs)
		if err != nil {
			return err
		}

		sess, _, err := newSession(false)
		if err != nil {
			return err
		}

		accounts := make([]string, len(ids))
		for i := range accounts {
			accounts[i] = account
		}

		spin := ui.NewSpinner(fmt.Sprintf("Fetching %d balance(s)...", len(ids)))
		spin.Start()
		rows, err := sess.FetchBalances(context.Background(), accounts, ids)
		spin.Stop()
		if err != nil {
			return err
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Token", Width: 12},
			{Title: "Balance", Width: 30},
		})
		for _, r := range rows {
			t.AddRow(ui.Row{"#" + r.ID.String(), r.Amount.String()})
		}
		fmt.Println(ui.Meta("Account " + account))
		fmt.Print(t.Render())
		return nil
	},
}

func init() {
	balanceCmd.Flags().StringVar(&balanceIDs, "ids", "", "token ids, comma separated (required)")
	balanceCmd.MarkFlagRequired("ids") //nolint:errcheck
}
