package cmd

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/multitoken-labs/m1155/internal/ui"
	"github.com/multitoken-labs/m1155/internal/wallet"
)

var walletKeyFlag string

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage signing keys",
	Long: `Manage signing keys in the OS keychain. Keys never touch the config
file; only the wallet name is persisted there.`,
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Store a signing key under a name",
	Long: `Store a private key in the OS keychain. Without --key the key is read
from a hidden prompt, which keeps it out of shell history.

Examples:
  m1155 wallet add deployer
  m1155 wallet add ci --key 0xac09...        # scripts only`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		hexKey := walletKeyFlag
		if hexKey == "" {
			fmt.Print("Private key (hidden): ")
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("reading key: %w", err)
			}
			hexKey = strings.TrimSpace(string(raw))
		}

		// Validate before storing so the keychain never holds junk.
		signer, err := wallet.NewSignerFromHex(hexKey)
		if err != nil {
			return err
		}

		if _, err := wallet.DefaultKeystore().Store(name, hexKey); err != nil {
			return err
		}

		fmt.Println(ui.Success("Stored key " + name))
		fmt.Println(ui.Meta("Address: " + signer.Address()))
		if cfg.DefaultWallet == "" {
			cfg.DefaultWallet = name
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Println(ui.Hint(name + " is now the default wallet."))
		}
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Verify the key exists and parses before switching.
		if _, err := wallet.NewSignerFromKeystore(wallet.DefaultKeystore(), args[0]); err != nil {
			return err
		}
		cfg.DefaultWallet = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Default wallet is now " + args[0]))
		return nil
	},
}

var walletAddressCmd = &cobra.Command{
	Use:   "address [name]",
	Short: "Show a wallet's address",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.DefaultWallet
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			return fmt.Errorf("no wallet specified and no default set")
		}
		signer, err := wallet.NewSignerFromKeystore(wallet.DefaultKeystore(), name)
		if err != nil {
			return err
		}
		fmt.Println(ui.Addr(signer.Address()))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ConfirmDanger("Delete key " + args[0] + " from the keychain?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if err := wallet.DefaultKeystore().Remove(wallet.Ref(args[0])); err != nil {
			return err
		}
		if cfg.DefaultWallet == args[0] {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success("Removed " + args[0]))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key hex (prefer the hidden prompt)")
	walletCmd.AddCommand(walletAddCmd, walletUseCmd, walletAddressCmd, walletRemoveCmd)
}
