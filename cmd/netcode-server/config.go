package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tailscale/hujson"
)

// fileConfig mirrors server.Config's fields in their HuJSON-file form.
// Durations are plain milliseconds so the config file stays a flat,
// commentable HuJSON document rather than needing a custom duration
// unmarshaler.
type fileConfig struct {
	TickRate          int    `json:"tick_rate,omitempty"`
	BatchIntervalMS   int    `json:"batch_interval_ms,omitempty"`
	ConnectionLimit   int    `json:"connection_limit,omitempty"`
	SendBufferSize    int    `json:"send_buffer_size,omitempty"`
	ListenAddress     string `json:"listen_address,omitempty"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		TickRate:        60,
		BatchIntervalMS: 10,
		ConnectionLimit: 256,
		SendBufferSize:  1400,
		ListenAddress:   ":7777",
	}
}

// loadFileConfig reads a HuJSON (JSON-with-comments) config file at path,
// merging it over defaults. A missing path is not an error: defaults (and
// later, CLI flags) still apply.
func loadFileConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := json.Unmarshal(std, &cfg); err != nil {
		return cfg, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, nil
}

func (c fileConfig) batchInterval() time.Duration {
	return time.Duration(c.BatchIntervalMS) * time.Millisecond
}
