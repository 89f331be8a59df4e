// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"net/http"
	"time"
)

// Tier defines a rate limit tier. Buckets are keyed by client IP.
type Tier struct {
	Name    string
	Limiter *Limiter
}

// Config holds rate limiters for the write and read tiers.
// A tier with a nil Limiter is unlimited.
type Config struct {
	Write Tier
	Read  Tier
}

// NewConfig creates a Config from requests-per-minute limits.
// 0 disables limiting for that tier.
func NewConfig(writePerMin, readPerMin int) *Config {
	c := &Config{
		Write: Tier{Name: "write"},
		Read:  Tier{Name: "read"},
	}
	if writePerMin > 0 {
		c.Write.Limiter = NewLimiter(writePerMin, time.Minute, burstFor(writePerMin))
	}
	if readPerMin > 0 {
		c.Read.Limiter = NewLimiter(readPerMin, time.Minute, burstFor(readPerMin))
	}
	return c
}

// burstFor sizes the burst at a sixth of the per-minute rate, minimum 5.
func burstFor(perMin int) int {
	return max(perMin/6, 5)
}

// Match returns the tier for the request, or nil when the request should not
// be rate limited (health check, unlimited tier, non-API traffic).
func (c *Config) Match(method, path string) *Tier {
	if path == "/api/health" {
		return nil
	}

	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		if c.Write.Limiter == nil {
			return nil
		}
		return &c.Write
	case http.MethodGet:
		if c.Read.Limiter == nil {
			return nil
		}
		return &c.Read
	}

	return nil
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	if c.Write.Limiter != nil {
		c.Write.Limiter.Close()
	}
	if c.Read.Limiter != nil {
		c.Read.Limiter.Close()
	}
}
