package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the
// call. Conservative upper bounds; actual gas used will be lower.
const (
	GasLimitTransfer      = uint64(120_000) // single safeTransferFrom
	GasLimitBatchTransfer = uint64(400_000) // safeBatchTransferFrom
	GasLimitMint          = uint64(150_000)
	GasLimitAdmin         = uint64(80_000) // pause/unpause/setURI/ownership
)

// Timeouts shared across cmd, session, and ui packages.
const (
	TxConfirmTimeout = 3 * time.Minute // transaction confirmation wait
	DeployTimeout    = 5 * time.Minute // deploy API end-to-end wait
	StatusResetDelay = 5 * time.Second // terminal request state display interval
)
