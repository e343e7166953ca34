package ui

import (
	"github.com/multitoken-labs/m1155/internal/txstate"
)

// RequestStatus renders one styled line for the current write operation state.
func RequestStatus(s txstate.RequestState) string {
	switch st := s.(type) {
	case txstate.Pending:
		return StyleWarning.Render("◍ " + st.Op + " — waiting for the network to accept")
	case txstate.Confirming:
		return StyleWarning.Render("◍ "+st.Op+" — confirming ") + StyleAddress.Render(TruncateAddr(st.Hash))
	case txstate.Succeeded:
		return StyleSuccess.Render("✓ "+st.Op+" mined ") + StyleAddress.Render(TruncateAddr(st.Hash))
	case txstate.Failed:
		return StyleError.Render("✗ " + st.Op + " failed: " + st.Err.Error())
	default:
		return StyleMeta.Render("· ready")
	}
}

// DeployStatus renders one styled line per deployment phase.
func DeployStatus(s txstate.DeployState) string {
	switch st := s.(type) {
	case txstate.Deploying:
		return StyleWarning.Render("◍ deploying contract bytecode")
	case txstate.Activating:
		return StyleWarning.Render("◍ activating the program onchain")
	case txstate.Initializing:
		return StyleWarning.Render("◍ initializing contract state")
	case txstate.Registering:
		return StyleWarning.Render("◍ registering with the indexer")
	case txstate.DeploySucceeded:
		return StyleSuccess.Render("✓ deployed at ") + StyleAddress.Render(st.ContractAddress)
	case txstate.DeployFailed:
		return StyleError.Render("✗ deployment failed: " + st.Err.Error())
	default:
		return StyleMeta.Render("· idle")
	}
}

// ProbeValue formats an optional contract capability: the value when the
// function exists, a dim placeholder when the deployment does not export it.
func ProbeValue(supported bool, value string) string {
	if !supported {
		return StyleMeta.Render("(not exported by this deployment)")
	}
	return StyleValue.Render(value)
}
