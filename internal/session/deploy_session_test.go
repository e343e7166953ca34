package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multitoken-labs/m1155/internal/deploy"
	"github.com/multitoken-labs/m1155/internal/txstate"
)

const deployedAt = "0xDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD"

func TestDeployWalksAllPhases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"contractAddress": "` + deployedAt + `",
			"txHash": "` + txHash + `",
			"success": true
		}`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	var seen []txstate.DeployState
	d := NewDeploySession(deploy.NewClient(srv.URL),
		WithDeployTracker(txstate.NewDeployTracker(0,
			txstate.WithDeployListener(func(s txstate.DeployState) { seen = append(seen, s) }))))

	result, err := d.Deploy(context.Background(), deploy.Request{
		BaseURI:     "https://meta.example/{id}.json",
		PrivateKey:  devKey,
		RPCEndpoint: "https://sepolia-rollup.arbitrum.io/rpc",
	})
	require.NoError(t, err)
	assert.Equal(t, deployedAt, result.ContractAddress)

	require.Len(t, seen, 5)
	assert.IsType(t, txstate.Deploying{}, seen[0])
	assert.IsType(t, txstate.Activating{}, seen[1])
	assert.IsType(t, txstate.Initializing{}, seen[2])
	assert.IsType(t, txstate.Registering{}, seen[3])
	final, ok := seen[4].(txstate.DeploySucceeded)
	require.True(t, ok)
	assert.Equal(t, deployedAt, final.ContractAddress)
	assert.Equal(t, txHash, final.TxHash)
}

func TestDeployServiceFailureLandsInFailedState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"insufficient funds for deployment"}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	d := NewDeploySession(deploy.NewClient(srv.URL),
		WithDeployTracker(txstate.NewDeployTracker(0)))

	_, err := d.Deploy(context.Background(), deploy.Request{
		BaseURI: "ipfs://x/", PrivateKey: devKey, RPCEndpoint: "http://localhost:8547",
	})

	var depErr *deploy.DeploymentError
	require.ErrorAs(t, err, &depErr)
	assert.Contains(t, depErr.Message, "insufficient funds")

	failed, ok := d.State().(txstate.DeployFailed)
	require.True(t, ok)
	assert.ErrorAs(t, failed.Err, &depErr)
}

func TestDeployWhileInFlightRejected(t *testing.T) {
	tracker := txstate.NewDeployTracker(0)
	require.NoError(t, tracker.Begin())

	d := NewDeploySession(deploy.NewClient("http://localhost:0"), WithDeployTracker(tracker))
	_, err := d.Deploy(context.Background(), deploy.Request{})

	var invalid *txstate.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}
