package cmd

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/config"
	"github.com/multitoken-labs/m1155/internal/erc1155"
	"github.com/multitoken-labs/m1155/internal/session"
	"github.com/multitoken-labs/m1155/internal/wallet"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/multitoken-labs/m1155/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir       string
	cfg          *config.Config
	env          config.Env
	verbose      bool
	networkFlag  string
	contractFlag string

	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "m1155",
	Short: "Multi-token terminal for Arbitrum Stylus",
	Long: `m1155 — terminal tool for ERC-1155 contracts on Arbitrum Stylus.

  Query balances and token metadata, transfer and mint tokens, manage
  operator approvals, watch transfer history, and deploy new contract
  instances through the deployment service.

Minimal deployments export only the transfer core; everything optional
(owner, pause, mint, metadata) is probed at call time and reported as
"not exported" instead of failing.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
		env = config.LoadEnv()
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if networkFlag != "" {
			cfg.DefaultNetwork = networkFlag
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// M1155_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("M1155_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.m1155)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&networkFlag, "network", "", "network to use (default: config)")
	rootCmd.PersistentFlags().StringVar(&contractFlag, "contract", "", "contract address (default: config)")

	rootCmd.AddCommand(
		infoCmd,
		balanceCmd,
		tokenCmd,
		transferCmd,
		approveCmd,
		approvedCmd,
		mintCmd,
		burnCmd,
		adminCmd,
		historyCmd,
		deployCmd,
		panelCmd,
		configCmd,
		walletCmd,
	)
}

// activeNetwork resolves the effective network, honoring M1155_RPC_URL.
func activeNetwork() (string, config.Network, error) {
	name := cfg.DefaultNetwork
	net, err := cfg.Network(name)
	if err != nil {
		return "", config.Network{}, err
	}
	if env.RPCURL != "" {
		logger.Debug("rpc url overridden from environment")
		net.RPCURL = env.RPCURL
	}
	return name, net, nil
}

// resolveContract picks the contract address for the active network.
func resolveContract(net config.Network) (string, error) {
	if contractFlag != "" {
		return contractFlag, nil
	}
	if net.ContractAddress == "" {
		return "", fmt.Errorf("no contract address configured — pass --contract or run `m1155 config set-contract <address>`")
	}
	return net.ContractAddress, nil
}

// newReader builds a reader over the active network's contract.
func newReader() (*erc1155.Reader, config.Network, error) {
	_, net, err := activeNetwork()
	if err != nil {
		return nil, config.Network{}, err
	}
	addr, err := resolveContract(net)
	if err != nil {
		return nil, config.Network{}, err
	}
	logger.Debug("contract resolved", "address", addr, "rpc", net.RPCURL)
	return erc1155.NewReader(net.RPCURL, addr), net, nil
}

// loadSigner resolves a signer: M1155_PRIVATE_KEY first, then the default
// wallet in the OS keychain.
func loadSigner() (*wallet.Signer, error) {
	if env.PrivateKey != "" {
		logger.Debug("signing key sourced from environment")
		return wallet.NewSignerFromHex(env.PrivateKey)
	}
	if cfg.DefaultWallet == "" {
		return nil, fmt.Errorf("no signing key — set %s or add a wallet:\n  m1155 wallet add mykey\n  m1155 wallet use mykey", config.EnvPrivateKey)
	}
	return wallet.NewSignerFromKeystore(wallet.DefaultKeystore(), cfg.DefaultWallet)
}

// newSession builds a session; withSigner attaches a writer so actions work.
func newSession(withSigner bool) (*session.Session, config.Network, error) {
	_, net, err := activeNetwork()
	if err != nil {
		return nil, config.Network{}, err
	}
	addr, err := resolveContract(net)
	if err != nil {
		return nil, config.Network{}, err
	}

	reader := erc1155.NewReader(net.RPCURL, addr)
	opts := []session.Option{}
	if withSigner {
		signer, err := loadSigner()
		if err != nil {
			return nil, config.Network{}, err
		}
		writer := erc1155.NewWriter(net.RPCURL, addr, signer, big.NewInt(net.ChainID))
		opts = append(opts, session.WithWriter(writer))
	}
	return session.New(reader, opts...), net, nil
}

// explorerTxLink returns the explorer URL for a transaction, or just the
// hash when the network has no explorer configured.
func explorerTxLink(net config.Network, hash string) string {
	if net.ExplorerURL == "" {
		return hash
	}
	return net.ExplorerURL + "/tx/" + hash
}

// parseBig parses a non-negative decimal integer flag.
func parseBig(name, s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%s must be a non-negative decimal integer, got %q", name, s)
	}
	return n, nil
}

// parseBigList parses "1,2,7" style comma lists.
func parseBigList(name, s string) ([]*big.Int, error) {
	parts := strings.Split(s, ",")
	out := make([]*big.Int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := parseBig(name, p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s requires at least one value", name)
	}
	return out, nil
}
