package device

import (
	"fmt"
	"time"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// Config groups device subsystem parameters.
type Config struct {
	PollInterval    time.Duration `yaml:"poll_interval"`    // idle workers re-check shutdown at this period
	DefaultDuration time.Duration `yaml:"default_duration"` // service time of requests submitted with duration 0
	Verbose         bool          `yaml:"verbose"`          // narrate per-request progress
}

// DefaultConfig returns the stock configuration: 100ms poll, 1500ms requests, quiet.
func DefaultConfig() Config {
	return Config{
		PollInterval:    100 * time.Millisecond,
		DefaultDuration: 1500 * time.Millisecond,
	}
}

// Validate checks that both durations are usable.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s: %w", c.PollInterval, sim.ErrValidation)
	}
	if c.DefaultDuration < 0 {
		return fmt.Errorf("default_duration must be >= 0, got %s: %w", c.DefaultDuration, sim.ErrValidation)
	}
	return nil
}
