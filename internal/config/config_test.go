package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "arbitrum-sepolia", cfg.DefaultNetwork)
	net, err := cfg.Network("")
	require.NoError(t, err)
	assert.Equal(t, int64(421614), net.ChainID)
	assert.NotEmpty(t, net.RPCURL)

	local, err := cfg.Network("localhost")
	require.NoError(t, err)
	assert.Equal(t, int64(412346), local.ChainID)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.DefaultWallet = "deployer"
	cfg.DeployAPIURL = "https://deploy.example"
	cfg.SetNetwork("custom", Network{
		RPCURL:          "http://localhost:9999",
		ChainID:         1337,
		ContractAddress: "0xCCCC",
	})
	require.NoError(t, cfg.Save())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "deployer", reloaded.DefaultWallet)
	assert.Equal(t, "https://deploy.example", reloaded.DeployAPIURL)

	custom, err := reloaded.Network("custom")
	require.NoError(t, err)
	assert.Equal(t, "0xCCCC", custom.ContractAddress)
	assert.Equal(t, int64(1337), custom.ChainID)
}

func TestUnknownNetwork(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	_, err = cfg.Network("no-such-chain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-chain")
}

func TestSaveFilePermissions(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadEnvReadsVariables(t *testing.T) {
	t.Setenv(EnvPrivateKey, "0xabc123")
	t.Setenv(EnvDeployAPI, "https://deploy.example")
	t.Setenv(EnvRPCURL, "http://localhost:8547")

	env := LoadEnv()
	assert.Equal(t, "0xabc123", env.PrivateKey)
	assert.Equal(t, "https://deploy.example", env.DeployAPIURL)
	assert.Equal(t, "http://localhost:8547", env.RPCURL)
}
