package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/ui"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Owner-only contract administration",
	Long: `Pause and unpause transfers, update the metadata base URI, and hand
the contract to a new owner. All sub-commands require the signer to be the
contract owner and the contract to export the admin surface.`,
}

var adminPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Halt all transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, net, err := newSession(true)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Pausing transfers...")
		spin.Start()
		hash, err := sess.Pause(context.Background())
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.Warn("Transfers are now paused"))
		fmt.Println(ui.Meta(explorerTxLink(net, hash)))
		return nil
	},
}

var adminUnpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "Resume transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, net, err := newSession(true)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Resuming transfers...")
		spin.Start()
		hash, err := sess.Unpause(context.Background())
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("Transfers resumed"))
		fmt.Println(ui.Meta(explorerTxLink(net, hash)))
		return nil
	},
}

var adminSetURICmd = &cobra.Command{
	Use:   "set-uri <uri>",
	Short: "Update the metadata base URI",
	Long: `Update the metadata base URI. The {id} placeholder is substituted by
clients per token, e.g. https://meta.example/{id}.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, net, err := newSession(true)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Updating base URI...")
		spin.Start()
		hash, err := sess.SetBaseURI(context.Background(), args[0])
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("Base URI updated"))
		fmt.Println(ui.Meta(explorerTxLink(net, hash)))
		return nil
	},
}

var adminTransferOwnershipCmd = &cobra.Command{
	Use:   "transfer-ownership <new-owner>",
	Short: "Hand the contract to a new owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ConfirmDanger("Transfer ownership to " + ui.TruncateAddr(args[0]) + "? This cannot be undone.") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		sess, net, err := newSession(true)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Transferring ownership...")
		spin.Start()
		hash, err := sess.TransferOwnership(context.Background(), args[0])
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("Ownership transferred to " + ui.TruncateAddr(args[0])))
		fmt.Println(ui.Meta(explorerTxLink(net, hash)))
		return nil
	},
}

func init() {
	adminCmd.AddCommand(adminPauseCmd, adminUnpauseCmd, adminSetURICmd, adminTransferOwnershipCmd)
}
