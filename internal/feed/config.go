package feed

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the feed module configuration.
type Config struct {
	// Enabled toggles polling; the module still initializes when false so
	// its HTTP health surface stays available.
	Enabled bool `mapstructure:"enabled"`

	// URL is the historian endpoint returning reading batches as JSON.
	URL string `mapstructure:"url"`

	// PollInterval is how often readings are fetched.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// Timeout bounds a single fetch.
	Timeout time.Duration `mapstructure:"timeout"`

	// WindowHint is passed to the historian so it can limit the response
	// to the trailing window of interest.
	WindowHint string `mapstructure:"window_hint"`
}

// DefaultConfig returns the default feed configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		PollInterval: 5 * time.Minute,
		Timeout:      30 * time.Second,
		WindowHint:   "24h",
	}
}

// Validate checks the feed configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" {
		return fmt.Errorf("feed url is required when enabled")
	}
	if _, err := url.Parse(c.URL); err != nil {
		return fmt.Errorf("invalid feed url %q: %w", c.URL, err)
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("poll_interval must be at least 1s, got %s", c.PollInterval)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
