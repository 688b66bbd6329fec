// Package timeouts defines shared timeout constants used by the tools.
package timeouts

import "time"

// TelemetryShutdown caps how long a tool waits for pending spans to flush
// before exiting.
const TelemetryShutdown = 5 * time.Second

// StoreBusy is the SQLite busy timeout applied to the key registry so that
// two tools sharing one registry file wait instead of failing.
const StoreBusy = 5 * time.Second
