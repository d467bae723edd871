package samplegames

import "time"

// Defaults used when a Config field is left zero.
const (
	DefaultPlayers        = 200
	DefaultGamesPerPlayer = 40
	DefaultTopN           = 5
	DefaultTimeout        = 30 * time.Second
	DefaultSettleTimeout  = 2 * time.Minute
	DefaultSeed           = 42
)

const (
	pollInterval         = 500 * time.Millisecond
	progressEvery        = 100
	percentageMultiplier = 100
	directoryPermission  = 0o750
	filePermission       = 0o600
)
