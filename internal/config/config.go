package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const configFile = "config.json"

// Network describes one chain a contract instance lives on. The contract
// address is explicit per network: there are no hidden module-level defaults,
// so tests can substitute arbitrary networks.
type Network struct {
	RPCURL          string `json:"rpc_url"`
	ChainID         int64  `json:"chain_id"`
	ContractAddress string `json:"contract_address,omitempty"`
	FactoryAddress  string `json:"factory_address,omitempty"`
	ExplorerURL     string `json:"explorer_url,omitempty"`
}

// Config holds all m1155 configuration.
type Config struct {
	DefaultNetwork string             `json:"default_network"`
	DefaultWallet  string             `json:"default_wallet,omitempty"`
	DeployAPIURL   string             `json:"deploy_api_url,omitempty"`
	Networks       map[string]Network `json:"networks"`

	// internal: config dir path used for Save()
	configDir string
}

// Load reads config from dir (or creates defaults). dir defaults to ~/.m1155.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".m1155")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]Network)
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Network returns the named network, defaulting to DefaultNetwork when name
// is empty.
func (c *Config) Network(name string) (Network, error) {
	if name == "" {
		name = c.DefaultNetwork
	}
	n, ok := c.Networks[name]
	if !ok {
		return Network{}, fmt.Errorf("unknown network %q — run `m1155 config networks`", name)
	}
	return n, nil
}

// SetNetwork stores or replaces a network entry.
func (c *Config) SetNetwork(name string, n Network) {
	if c.Networks == nil {
		c.Networks = make(map[string]Network)
	}
	c.Networks[name] = n
}

// Dir returns the config directory.
func (c *Config) Dir() string { return c.configDir }

func defaults(dir string) *Config {
	return &Config{
		DefaultNetwork: "arbitrum-sepolia",
		Networks: map[string]Network{
			"arbitrum-sepolia": {
				RPCURL:      "https://sepolia-rollup.arbitrum.io/rpc",
				ChainID:     421614,
				ExplorerURL: "https://sepolia.arbiscan.io",
			},
			"arbitrum-one": {
				RPCURL:      "https://arb1.arbitrum.io/rpc",
				ChainID:     42161,
				ExplorerURL: "https://arbiscan.io",
			},
			"localhost": {
				RPCURL:  "http://localhost:8547",
				ChainID: 412346,
			},
		},
		configDir: dir,
	}
}
