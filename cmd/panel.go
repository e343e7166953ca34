package cmd

import (
	"math/big"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/config"
	"github.com/multitoken-labs/m1155/internal/erc1155"
	"github.com/multitoken-labs/m1155/internal/session"
	"github.com/multitoken-labs/m1155/internal/txstate"
	"github.com/multitoken-labs/m1155/internal/ui"
)

var panelReadOnly bool

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Interactive contract panel",
	Long: `Open the full-screen panel: contract overview, balance queries,
transfers, minting, and operator approvals, with a live status line that
follows each transaction from submission to inclusion.

Without a signing key (or with --read-only) writes are disabled but all
read tabs work.

Examples:
  m1155 panel
  m1155 panel --read-only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, net, err := activeNetwork()
		if err != nil {
			return err
		}
		addr, err := resolveContract(net)
		if err != nil {
			return err
		}

		// The tracker listener feeds the panel's status line. The channel is
		// buffered so a slow redraw never blocks a state transition.
		states := make(chan txstate.RequestState, 16)
		tracker := txstate.NewTracker(config.StatusResetDelay,
			txstate.WithListener(func(s txstate.RequestState) {
				select {
				case states <- s:
				default:
				}
			}))

		reader := erc1155.NewReader(net.RPCURL, addr)
		opts := []session.Option{session.WithTracker(tracker)}
		account := ""
		if !panelReadOnly {
			signer, err := loadSigner()
			if err == nil {
				writer := erc1155.NewWriter(net.RPCURL, addr, signer, big.NewInt(net.ChainID))
				opts = append(opts, session.WithWriter(writer))
				account = signer.Address()
			} else {
				logger.Debug("no signer available, panel is read-only", "err", err)
			}
		}

		sess := session.New(reader, opts...)
		return ui.RunPanel(ui.NewPanel(sess, name, addr, account, states))
	},
}

func init() {
	panelCmd.Flags().BoolVar(&panelReadOnly, "read-only", false, "disable writes even when a key is available")
}
