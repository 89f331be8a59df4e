// Manages server configuration stored in server_config.json.

package storage

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ServerConfig stores all server-wide configuration.
// Loaded from server_config.json, created with defaults if missing.
type ServerConfig struct {
	// APISecret signs API tokens when RequireAuth is enabled.
	// Auto-generated if empty on first load.
	APISecret []byte `json:"api_secret"`

	// RequireAuth gates mutating workspace requests behind a Bearer token.
	// Disabled by default so the API is open out of the box.
	RequireAuth bool `json:"require_auth"`

	// MaxRequestBodyBytes limits the size of any single HTTP request body.
	MaxRequestBodyBytes int64 `json:"max_request_body_bytes"`

	// RateLimits defines rate limiting configuration.
	RateLimits RateLimits `json:"rate_limits"`
}

// RateLimits defines rate limiting configuration (requests per minute).
type RateLimits struct {
	// WriteRatePerMin limits write operations (POST/DELETE).
	// 0 means unlimited.
	WriteRatePerMin int `json:"write_rate_per_min"`

	// ReadRatePerMin limits read operations.
	// 0 means unlimited.
	ReadRatePerMin int `json:"read_rate_per_min"`
}

// Validate checks that rate limit values are non-negative.
func (r *RateLimits) Validate() error {
	if r.WriteRatePerMin < 0 {
		return errors.New("write_rate_per_min must be non-negative")
	}
	if r.ReadRatePerMin < 0 {
		return errors.New("read_rate_per_min must be non-negative")
	}
	return nil
}

// DefaultRateLimits returns the default rate limits.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		WriteRatePerMin: 60,   // 60 req/min for writes
		ReadRatePerMin:  6000, // 6k req/min for reads
	}
}

// Validate checks that the configuration is valid.
func (c *ServerConfig) Validate() error {
	if len(c.APISecret) == 0 {
		return errors.New("api_secret is required")
	}
	if len(c.APISecret) < 32 {
		return errors.New("api_secret must be at least 32 bytes")
	}
	if c.MaxRequestBodyBytes < 0 {
		return errors.New("max_request_body_bytes must be non-negative")
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limits: %w", err)
	}
	return nil
}

// LoadServerConfig loads configuration from dataDir/server_config.json.
// Creates the file with defaults if it doesn't exist.
// Auto-generates APISecret if empty.
func LoadServerConfig(dataDir string) (*ServerConfig, error) {
	path := filepath.Join(dataDir, "server_config.json")

	cfg := ServerConfig{
		MaxRequestBodyBytes: 1024 * 1024, // 1 MiB
		RateLimits:          DefaultRateLimits(),
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is constructed from dataDir, not user input
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read server_config.json: %w", err)
		}
		// File doesn't exist, will create with defaults
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse server_config.json: %w", err)
		}
	}

	// Auto-generate the API secret if missing
	modified := false
	if len(cfg.APISecret) == 0 {
		cfg.APISecret = make([]byte, 32)
		if _, err := rand.Read(cfg.APISecret); err != nil {
			return nil, fmt.Errorf("failed to generate API secret: %w", err)
		}
		modified = true
	}

	// Save if we created defaults or generated a secret
	if modified || errors.Is(err, os.ErrNotExist) {
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server_config.json: %w", err)
	}

	return &cfg, nil
}

// Save saves configuration to dataDir/server_config.json.
func (c *ServerConfig) Save(dataDir string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dataDir, "server_config.json"), data, 0o600); err != nil {
		return fmt.Errorf("failed to write server_config.json: %w", err)
	}
	return nil
}
