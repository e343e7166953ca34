package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/ui"
)

var (
	mintTo      string
	mintID      string
	mintAmount  string
	mintIDs     string
	mintAmounts string
	mintData    string
	mintAuto    bool
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint new tokens (owner only)",
	Long: `Mint tokens into an account. Requires the contract to export minting
and the signer to be its owner.

With --auto the contract assigns the next free token id. With
--ids/--amounts several ids are minted in one transaction.

Examples:
  m1155 mint --to 0xABC... --id 1 --amount 1000
  m1155 mint --to 0xABC... --auto --amount 1
  m1155 mint --to 0xABC... --ids 1,2 --amounts 500,500`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mintTo == "" {
			return fmt.Errorf("--to is required")
		}
		if mintAmount == "" && mintAmounts == "" {
			return fmt.Errorf("--amount (or --amounts) is required")
		}

		data, err := parseDataFlag(mintData)
		if err != nil {
			return err
		}

		sess, net, err := newSession(true)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Minting...")
		spin.Start()

		var hash string
		switch {
		case mintIDs != "" || mintAmounts != "":
			ids, err := parseBigList("--ids", mintIDs)
			if err != nil {
				spin.Stop()
				return err
			}
			amounts, err := parseBigList("--amounts", mintAmounts)
			if err != nil {
				spin.Stop()
				return err
			}
			hash, err = sess.MintBatch(context.Background(), mintTo, ids, amounts, data)
			spin.Stop()
			if err != nil {
				return err
			}

		case mintAuto:
			amount, err := parseBig("--amount", mintAmount)
			if err != nil {
				spin.Stop()
				return err
			}
			hash, err = sess.MintAuto(context.Background(), mintTo, amount, data)
			spin.Stop()
			if err != nil {
				return err
			}

		default:
			if mintID == "" {
				spin.Stop()
				return fmt.Errorf("--id is required (or use --auto)")
			}
			id, err := parseBig("--id", mintID)
			if err != nil {
				spin.Stop()
				return err
			}
			amount, err := parseBig("--amount", mintAmount)
			if err != nil {
				spin.Stop()
				return err
			}
			hash, err = sess.Mint(context.Background(), mintTo, id, amount, data)
			spin.Stop()
			if err != nil {
				return err
			}
		}

		fmt.Println(ui.Success("Mint mined"))
		fmt.Println(ui.Addr("Hash: " + hash))
		fmt.Println(ui.Meta(explorerTxLink(net, hash)))
		return nil
	},
}

func init() {
	mintCmd.Flags().StringVar(&mintTo, "to", "", "recipient address (required)")
	mintCmd.Flags().StringVar(&mintID, "id", "", "token id")
	mintCmd.Flags().StringVar(&mintAmount, "amount", "", "amount to mint")
	mintCmd.Flags().StringVar(&mintIDs, "ids", "", "batch token ids, comma separated")
	mintCmd.Flags().StringVar(&mintAmounts, "amounts", "", "batch amounts, comma separated")
	mintCmd.Flags().StringVar(&mintData, "data", "", "hex receiver-hook payload")
	mintCmd.Flags().BoolVar(&mintAuto, "auto", false, "let the contract assign the token id")
}
