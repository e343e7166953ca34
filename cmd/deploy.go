package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multitoken-labs/m1155/internal/config"
	"github.com/multitoken-labs/m1155/internal/deploy"
	"github.com/multitoken-labs/m1155/internal/session"
	"github.com/multitoken-labs/m1155/internal/txstate"
	"github.com/multitoken-labs/m1155/internal/ui"
	"github.com/multitoken-labs/m1155/internal/wallet"
)

var (
	deployBaseURI string
	deployFactory string
	deployAPI     string
	deploySave    bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a new contract instance",
	Long: `Deploy a fresh ERC-1155 contract through the deployment service. The
service deploys the bytecode, activates the Stylus program, initializes
contract state, and registers the instance with the factory in a single
request; each phase is reported as it resolves.

The signing key funds the deployment. With --save the new address becomes
the configured contract for the active network.

Examples:
  m1155 deploy --base-uri "https://meta.example/{id}.json"
  m1155 deploy --base-uri "ipfs://Qm.../{id}.json" --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if deployBaseURI == "" {
			return fmt.Errorf("--base-uri is required")
		}

		name, net, err := activeNetwork()
		if err != nil {
			return err
		}

		apiURL := deployAPI
		if apiURL == "" {
			apiURL = env.DeployAPIURL
		}
		if apiURL == "" {
			apiURL = cfg.DeployAPIURL
		}
		if apiURL == "" {
			return fmt.Errorf("no deployment service configured — pass --api, set %s, or run `m1155 config set-deploy-api <url>`", config.EnvDeployAPI)
		}

		key, err := deployKey()
		if err != nil {
			return err
		}

		factory := deployFactory
		if factory == "" {
			factory = net.FactoryAddress
		}

		tracker := txstate.NewDeployTracker(0, txstate.WithDeployListener(func(s txstate.DeployState) {
			fmt.Println("  " + ui.DeployStatus(s))
		}))
		ds := session.NewDeploySession(deploy.NewClient(apiURL), session.WithDeployTracker(tracker))

		ctx, cancel := context.WithTimeout(context.Background(), config.DeployTimeout)
		defer cancel()

		fmt.Println(ui.Meta("Deploying to " + name + " via " + apiURL))
		result, err := ds.Deploy(ctx, deploy.Request{
			BaseURI:        deployBaseURI,
			FactoryAddress: factory,
			PrivateKey:     key,
			RPCEndpoint:    net.RPCURL,
		})
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(ui.KeyValueBlock("Deployed", [][2]string{
			{"Contract", result.ContractAddress},
			{"Tx Hash", result.TxHash},
			{"Network", name},
		}))

		if deploySave {
			net.ContractAddress = result.ContractAddress
			cfg.SetNetwork(name, net)
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Println(ui.Success("Saved as the contract for " + name))
		} else {
			fmt.Println(ui.Hint("Run `m1155 config set-contract " + result.ContractAddress + "` to use it."))
		}
		return nil
	},
}

// deployKey resolves the funding key as raw hex: environment first, then the
// default wallet in the keychain.
func deployKey() (string, error) {
	if env.PrivateKey != "" {
		return env.PrivateKey, nil
	}
	if cfg.DefaultWallet == "" {
		return "", fmt.Errorf("no signing key — set %s or add a wallet with `m1155 wallet add`", config.EnvPrivateKey)
	}
	return wallet.DefaultKeystore().Retrieve(wallet.Ref(cfg.DefaultWallet))
}

func init() {
	deployCmd.Flags().StringVar(&deployBaseURI, "base-uri", "", "metadata base URI (required)")
	deployCmd.Flags().StringVar(&deployFactory, "factory", "", "factory address (default: network config)")
	deployCmd.Flags().StringVar(&deployAPI, "api", "", "deployment service URL (default: env/config)")
	deployCmd.Flags().BoolVar(&deploySave, "save", false, "save the deployed address into config")
}
