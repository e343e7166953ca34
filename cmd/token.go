package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/ui"
)

var tokenCmd = &cobra.Command{
	Use:   "token <id>",
	Short: "Show per-token metadata",
	Long: `Show existence, total supply, and metadata URI for one token id.

All three functions are optional contract exports; unsupported ones are
reported instead of failing.

Examples:
  m1155 token 7
  m1155 token 7 --network localhost`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBig("id", args[0])
		if err != nil {
			return err
		}

		sess, _, err := newSession(false)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Probing token " + ui.TokenID(id.String()) + "...")
		spin.Start()
		info, err := sess.FetchTokenInfo(context.Background(), id)
		spin.Stop()
		if err != nil {
			return err
		}

		exists := "no"
		if info.Exists.Value {
			exists = "yes"
		}
		supply := ""
		if info.TotalSupply.Supported {
			supply = info.TotalSupply.Value.String()
		}
		fmt.Println(ui.KeyValueBlock("Token #"+id.String(), [][2]string{
			{"Exists", probeOrDash(info.Exists.Supported, exists)},
			{"Total Supply", probeOrDash(info.TotalSupply.Supported, supply)},
			{"URI", probeOrDash(info.URI.Supported, info.URI.Value)},
		}))
		return nil
	},
}
