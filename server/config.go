package server

import "time"

// Config holds ServerCore's tunables. Build one with functional options
// rather than constructing the struct directly, following the teacher's
// Option pattern.
type Config struct {
	TickRate        int
	BatchInterval   time.Duration
	ConnectionLimit int
	SendBufferSize  int
}

// Option mutates a Config during construction.
type Option func(*Config)

var defaultConfig = Config{
	TickRate:        60,
	BatchInterval:   10 * time.Millisecond,
	ConnectionLimit: 256,
	SendBufferSize:  1400,
}

// WithTickRate sets the server's tick rate in Hz (informational; the caller
// drives Tick at whatever cadence it chooses, this only documents intent).
func WithTickRate(hz int) Option {
	return func(c *Config) { c.TickRate = hz }
}

// WithBatchInterval sets the per-batch flush timeout.
func WithBatchInterval(d time.Duration) Option {
	return func(c *Config) { c.BatchInterval = d }
}

// WithConnectionLimit sets the maximum number of simultaneous connections.
func WithConnectionLimit(n int) Option {
	return func(c *Config) { c.ConnectionLimit = n }
}

// WithSendBufferSize sets the size of the dispatcher's reusable outbound
// Writer buffer; must be at least 1 byte plus the largest serialized
// message any registered handler produces.
func WithSendBufferSize(n int) Option {
	return func(c *Config) { c.SendBufferSize = n }
}
