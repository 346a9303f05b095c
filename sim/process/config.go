package process

import (
	"fmt"
	"strings"
	"time"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// Config groups process manager parameters.
type Config struct {
	Policy      string        `yaml:"policy"`       // "round-robin" (default) or "sjf"
	Quantum     int           `yaml:"quantum"`      // round-robin slice in time units (must be >= 1)
	Tick        time.Duration `yaml:"tick"`         // background loop polling interval (must be > 0)
	TimeUnit    time.Duration `yaml:"time_unit"`    // wall-clock length of one unit of CPU time; 0 = instant
	AutoExecute bool          `yaml:"auto_execute"` // background loop dispatches on every tick
}

// DefaultConfig returns the stock configuration: round-robin with a quantum
// of 2, a 100ms tick, instantaneous CPU time and auto-execute disabled.
func DefaultConfig() Config {
	return Config{
		Policy:  string(PolicyRoundRobin),
		Quantum: 2,
		Tick:    100 * time.Millisecond,
	}
}

// Validate checks ranges and policy names.
func (c Config) Validate() error {
	if !IsValidPolicy(c.Policy) {
		return fmt.Errorf("unknown dispatch policy %q; valid: %s: %w",
			c.Policy, strings.Join(ValidPolicyNames(), ", "), sim.ErrValidation)
	}
	if c.Quantum < 1 {
		return fmt.Errorf("quantum must be >= 1, got %d: %w", c.Quantum, sim.ErrValidation)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s: %w", c.Tick, sim.ErrValidation)
	}
	if c.TimeUnit < 0 {
		return fmt.Errorf("time_unit must be >= 0, got %s: %w", c.TimeUnit, sim.ErrValidation)
	}
	return nil
}
