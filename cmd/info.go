package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show contract-level info",
	Long: `Show owner, pause state, and base URI for the configured contract.

Optional functions are probed: a minimal deployment that exports only the
transfer core shows them as "not exported" rather than erroring.

Examples:
  m1155 info
  m1155 info --network arbitrum-one --contract 0xABC...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := newSession(false)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Probing contract...")
		spin.Start()
		info, err := sess.FetchContractInfo(context.Background())
		spin.Stop()
		if err != nil {
			return err
		}

		paused := "no"
		if info.Paused.Value {
			paused = "yes"
		}
		fmt.Println(ui.KeyValueBlock("Contract", [][2]string{
			{"Address", info.Address},
			{"Network", cfg.DefaultNetwork},
			{"Owner", probeOrDash(info.Owner.Supported, info.Owner.Value)},
			{"Paused", probeOrDash(info.Paused.Supported, paused)},
			{"Base URI", probeOrDash(info.BaseURI.Supported, info.BaseURI.Value)},
		}))
		if !info.Owner.Supported && !info.Paused.Supported && !info.BaseURI.Supported {
			fmt.Println(ui.Hint("This deployment exports only the transfer core."))
		}
		return nil
	},
}

func probeOrDash(supported bool, v string) string {
	if !supported {
		return "— not exported"
	}
	return v
}
