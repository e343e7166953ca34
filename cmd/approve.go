package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/ui"
)

var approveRevoke bool

var approveCmd = &cobra.Command{
	Use:   "approve <operator>",
	Short: "Grant or revoke operator approval",
	Long: `Grant an operator the right to move all of the signer's tokens, or
revoke it with --revoke. Approval covers every token id at once; per-id
allowances do not exist in ERC-1155.

Examples:
  m1155 approve 0xDEF...
  m1155 approve 0xDEF... --revoke`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		operator := args[0]
		sess, net, err := newSession(true)
		if err != nil {
			return err
		}

		action := "Granting"
		if approveRevoke {
			action = "Revoking"
		}
		spin := ui.NewSpinner(action + " operator approval...")
		spin.Start()
		hash, err := sess.SetApproval(context.Background(), operator, !approveRevoke)
		spin.Stop()
		if err != nil {
			return err
		}

		if approveRevoke {
			fmt.Println(ui.Success("Approval revoked for " + ui.TruncateAddr(operator)))
		} else {
			fmt.Println(ui.Success("Approval granted to " + ui.TruncateAddr(operator)))
		}
		fmt.Println(ui.Meta(explorerTxLink(net, hash)))
		return nil
	},
}

var approvedCmd = &cobra.Command{
	Use:   "approved <account> <operator>",
	Short: "Check operator approval status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := newSession(false)
		if err != nil {
			return err
		}

		approved, err := sess.FetchApproval(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}

		status := ui.Err("not approved")
		if approved {
			status = ui.Success("approved")
		}
		fmt.Printf("%s may %s move tokens of %s\n",
			ui.Addr(ui.TruncateAddr(args[1])), status, ui.Addr(ui.TruncateAddr(args[0])))
		return nil
	},
}

func init() {
	approveCmd.Flags().BoolVar(&approveRevoke, "revoke", false, "revoke instead of grant")
}
