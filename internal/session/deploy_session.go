package session

import (
	"context"

	"github.com/multitoken-labs/m1155/internal/config"
	"github.com/multitoken-labs/m1155/internal/deploy"
	"github.com/multitoken-labs/m1155/internal/txstate"
)

// DeploySession drives the deployment phase machine around one call to the
// deployment service. The service performs deploy, activate, initialize, and
// register inside a single request, so the session enters the first phase
// before dispatch and resolves each later phase as the corresponding step
// output comes back. Phases stay strictly sequential either way.
type DeploySession struct {
	client  *deploy.Client
	tracker *txstate.DeployTracker
}

// DeployOption customizes a DeploySession.
type DeployOption func(*DeploySession)

// WithDeployTracker substitutes the phase tracker.
func WithDeployTracker(t *txstate.DeployTracker) DeployOption {
	return func(d *DeploySession) { d.tracker = t }
}

// NewDeploySession creates a session over client.
func NewDeploySession(client *deploy.Client, opts ...DeployOption) *DeploySession {
	d := &DeploySession{client: client}
	for _, opt := range opts {
		opt(d)
	}
	if d.tracker == nil {
		d.tracker = txstate.NewDeployTracker(config.StatusResetDelay)
	}
	return d
}

// State returns the current deployment phase.
func (d *DeploySession) State() txstate.DeployState { return d.tracker.State() }

// Reset forces terminal deployment state back to idle.
func (d *DeploySession) Reset() { d.tracker.Reset() }

// Deploy runs the full deployment chain and reports the resulting contract
// address through both the return value and the phase machine.
func (d *DeploySession) Deploy(ctx context.Context, req deploy.Request) (*deploy.Result, error) {
	if err := d.tracker.Begin(); err != nil {
		return nil, err
	}

	result, err := d.client.Deploy(ctx, req)
	if err != nil {
		_ = d.tracker.Fail(err)
		return nil, err
	}

	// Walk the remaining phases in order. The client has already rejected
	// results without a contract address or transaction hash, so a success
	// here always carries both.
	for i := 0; i < 3; i++ {
		if err := d.tracker.Advance(); err != nil {
			return nil, err
		}
	}
	if err := d.tracker.Succeed(result.ContractAddress, result.TxHash); err != nil {
		return nil, err
	}
	return result, nil
}
