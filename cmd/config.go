package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/config"
	"github.com/multitoken-labs/m1155/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := cfg.Network("")
		if err != nil {
			return err
		}
		contract := net.ContractAddress
		if contract == "" {
			contract = "— not set"
		}
		deployAPI := cfg.DeployAPIURL
		if deployAPI == "" {
			deployAPI = "— not set"
		}
		wallet := cfg.DefaultWallet
		if wallet == "" {
			wallet = "— not set"
		}
		fmt.Println(ui.KeyValueBlock("Configuration", [][2]string{
			{"Config Dir", cfg.Dir()},
			{"Network", cfg.DefaultNetwork},
			{"RPC URL", net.RPCURL},
			{"Chain ID", fmt.Sprintf("%d", net.ChainID)},
			{"Contract", contract},
			{"Deploy API", deployAPI},
			{"Wallet", wallet},
		}))
		return nil
	},
}

var configNetworksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List configured networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(cfg.Networks))
		for name := range cfg.Networks {
			names = append(names, name)
		}
		sort.Strings(names)

		t := ui.NewTable([]ui.Column{
			{Title: "Network", Width: 18},
			{Title: "Chain ID", Width: 10},
			{Title: "Contract", Width: 14},
			{Title: "RPC", Width: 40},
		})
		for _, name := range names {
			n := cfg.Networks[name]
			marker := name
			if name == cfg.DefaultNetwork {
				marker = name + " *"
			}
			contract := "—"
			if n.ContractAddress != "" {
				contract = ui.TruncateAddr(n.ContractAddress)
			}
			t.AddRow(ui.Row{marker, fmt.Sprintf("%d", n.ChainID), contract, n.RPCURL})
		}
		fmt.Print(t.Render())
		return nil
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use <network>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := cfg.Network(args[0]); err != nil {
			return err
		}
		cfg.DefaultNetwork = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Default network is now " + args[0]))
		return nil
	},
}

var (
	addNetRPC      string
	addNetChainID  int64
	addNetExplorer string
)

var configAddNetworkCmd = &cobra.Command{
	Use:   "add-network <name>",
	Short: "Add or replace a network entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if addNetRPC == "" {
			return fmt.Errorf("--rpc is required")
		}
		cfg.SetNetwork(args[0], config.Network{
			RPCURL:      addNetRPC,
			ChainID:     addNetChainID,
			ExplorerURL: addNetExplorer,
		})
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Network " + args[0] + " saved"))
		return nil
	},
}

var configSetContractCmd = &cobra.Command{
	Use:   "set-contract <address>",
	Short: "Set the contract address for the active network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.DefaultNetwork
		net, err := cfg.Network(name)
		if err != nil {
			return err
		}
		net.ContractAddress = args[0]
		cfg.SetNetwork(name, net)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Contract for " + name + " set to " + ui.TruncateAddr(args[0])))
		return nil
	},
}

var configSetDeployAPICmd = &cobra.Command{
	Use:   "set-deploy-api <url>",
	Short: "Set the deployment service URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.DeployAPIURL = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Deployment service set"))
		return nil
	},
}

func init() {
	configAddNetworkCmd.Flags().StringVar(&addNetRPC, "rpc", "", "RPC endpoint URL (required)")
	configAddNetworkCmd.Flags().Int64Var(&addNetChainID, "chain-id", 0, "chain id")
	configAddNetworkCmd.Flags().StringVar(&addNetExplorer, "explorer", "", "block explorer base URL")

	configCmd.AddCommand(
		configShowCmd,
		configNetworksCmd,
		configUseCmd,
		configAddNetworkCmd,
		configSetContractCmd,
		configSetDeployAPICmd,
	)
}
