package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG   PGConfig
	CH   CHConfig
	Lite LiteConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero picks the defaults in openers.go
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string // reported in client info, e.g. "api" or "cli"
}

// LiteConfig configures the local sqlite file
type LiteConfig struct {
	Enabled     bool
	Path        string // file path or ":memory:"
	BusyTimeout time.Duration
}
