package config

import "fmt"

// Validate rejects settings the engines cannot run with.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.SiteTimeout < 0 {
		return fmt.Errorf("site timeout must not be negative, got %s", c.SiteTimeout)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %s", c.ProbeTimeout)
	}
	if c.NavRetries < 1 {
		return fmt.Errorf("navigation retries must be at least 1, got %d", c.NavRetries)
	}
	if c.MaxScrolls < 1 {
		return fmt.Errorf("max scrolls must be at least 1, got %d", c.MaxScrolls)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit must be positive, got %f", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1, got %d", c.RateLimitBurst)
	}
	return nil
}
