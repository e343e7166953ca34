package txstate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployPhaseSequence(t *testing.T) {
	var seen []DeployState
	tr := NewDeployTracker(time.Second,
		WithDeployClock(&fakeClock{}),
		WithDeployListener(func(s DeployState) { seen = append(seen, s) }))

	require.NoError(t, tr.Begin())
	require.NoError(t, tr.Advance()) // activating
	require.NoError(t, tr.Advance()) // initializing
	require.NoError(t, tr.Advance()) // registering
	require.NoError(t, tr.Succeed("0xDD", "0xHASH"))

	require.Len(t, seen, 5)
	assert.Equal(t, Deploying{}, seen[0])
	assert.Equal(t, Activating{}, seen[1])
	assert.Equal(t, Initializing{}, seen[2])
	assert.Equal(t, Registering{}, seen[3])
	assert.Equal(t, DeploySucceeded{ContractAddress: "0xDD", TxHash: "0xHASH"}, seen[4])
}

func TestDeploySucceedOnlyFromRegistering(t *testing.T) {
	tr := NewDeployTracker(time.Second, WithDeployClock(&fakeClock{}))
	require.NoError(t, tr.Begin())

	var ierr *InvalidTransitionError
	require.ErrorAs(t, tr.Succeed("0xDD", "0xHASH"), &ierr)
	assert.Equal(t, Deploying{}, tr.State())
}

func TestDeployAdvancePastRegistering(t *testing.T) {
	tr := NewDeployTracker(time.Second, WithDeployClock(&fakeClock{}))
	require.NoError(t, tr.Begin())
	for i := 0; i < 3; i++ {
		require.NoError(t, tr.Advance())
	}
	require.Error(t, tr.Advance(), "Registering has no next phase")
}

func TestDeployFailFromAnyPhase(t *testing.T) {
	boom := errors.New("activation failed")
	tr := NewDeployTracker(time.Second, WithDeployClock(&fakeClock{}))

	require.NoError(t, tr.Begin())
	require.NoError(t, tr.Advance())
	require.NoError(t, tr.Fail(boom))

	failed, ok := tr.State().(DeployFailed)
	require.True(t, ok)
	assert.Equal(t, boom, failed.Err)
}

func TestDeployFailFromIdleRejected(t *testing.T) {
	tr := NewDeployTracker(time.Second, WithDeployClock(&fakeClock{}))

	var ierr *InvalidTransitionError
	require.ErrorAs(t, tr.Fail(errors.New("x")), &ierr)
}

func TestDeployTerminalAutoReset(t *testing.T) {
	clock := &fakeClock{}
	tr := NewDeployTracker(5*time.Second, WithDeployClock(clock))

	require.NoError(t, tr.Begin())
	require.NoError(t, tr.Fail(errors.New("boom")))
	clock.fire()
	assert.Equal(t, DeployIdle{}, tr.State())
}

func TestDeployStaleTimerGuard(t *testing.T) {
	clock := &fakeClock{}
	tr := NewDeployTracker(5*time.Second, WithDeployClock(clock))

	require.NoError(t, tr.Begin())
	require.NoError(t, tr.Fail(errors.New("boom")))
	require.NoError(t, tr.Begin()) // retry before timeout

	clock.fire()
	assert.Equal(t, Deploying{}, tr.State())
}

func TestAsyncReplacedWholesale(t *testing.T) {
	a := AsyncOf[[]int]()
	assert.Equal(t, AsyncIdle, a.Status)

	a = Loading[[]int]()
	assert.Equal(t, AsyncLoading, a.Status)

	a = Ready([]int{1, 2, 3})
	assert.Equal(t, AsyncSuccess, a.Status)
	assert.Equal(t, []int{1, 2, 3}, a.Value)

	a = Errored[[]int](errors.New("rpc down"))
	assert.Equal(t, AsyncError, a.Status)
	assert.Nil(t, a.Value)
	assert.Equal(t, "error", a.Status.String())
}
