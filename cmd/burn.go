package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/ui"
)

var (
	burnFrom    string
	burnID      string
	burnAmount  string
	burnIDs     string
	burnAmounts string
)

var burnCmd = &cobra.Command{
	Use:   "burn",
	Short: "Burn tokens",
	Long: `Destroy tokens held by an account. The signer must hold them or be an
approved operator of the holder.

Examples:
  m1155 burn --id 1 --amount 10
  m1155 burn --from 0xABC... --ids 1,2 --amounts 10,5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch := burnIDs != "" || burnAmounts != ""
		if !batch && (burnID == "" || burnAmount == "") {
			return fmt.Errorf("--id and --amount are required (or --ids/--amounts for a batch)")
		}

		sess, net, err := newSession(true)
		if err != nil {
			return err
		}

		from := burnFrom
		if from == "" {
			from = sess.Sender()
		}

		spin := ui.NewSpinner("Burning...")
		spin.Start()

		var hash string
		if batch {
			ids, err := parseBigList("--ids", burnIDs)
			if err != nil {
				spin.Stop()
				return err
			}
			amounts, err := parseBigList("--amounts", burnAmounts)
			if err != nil {
				spin.Stop()
				return err
			}
			hash, err = sess.BurnBatch(context.Background(), from, ids, amounts)
			spin.Stop()
			if err != nil {
				return err
			}
		} else {
			id, err := parseBig("--id", burnID)
			if err != nil {
				spin.Stop()
				return err
			}
			amount, err := parseBig("--amount", burnAmount)
			if err != nil {
				spin.Stop()
				return err
			}
			hash, err = sess.Burn(context.Background(), from, id, amount)
			spin.Stop()
			if err != nil {
				return err
			}
		}

		fmt.Println(ui.Success("Burn mined"))
		fmt.Println(ui.Addr("Hash: " + hash))
		fmt.Println(ui.Meta(explorerTxLink(net, hash)))
		return nil
	},
}

func init() {
	burnCmd.Flags().StringVar(&burnFrom, "from", "", "holder address (default: signer)")
	burnCmd.Flags().StringVar(&burnID, "id", "", "token id")
	burnCmd.Flags().StringVar(&burnAmount, "amount", "", "amount to burn")
	burnCmd.Flags().StringVar(&burnIDs, "ids", "", "batch token ids, comma separated")
	burnCmd.Flags().StringVar(&burnAmounts, "amounts", "", "batch amounts, comma separated")
}
