package memory

import (
	"fmt"
	"strings"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// Config groups memory manager parameters.
type Config struct {
	TotalFrames      int    `yaml:"total_frames"`       // physical capacity in pages (must be > 0)
	Policy           string `yaml:"policy"`             // "fifo" (default), "lru", "working-set"
	WorkingSetWindow int64  `yaml:"working_set_window"` // trailing window in logical ticks (must be > 0)
}

// DefaultConfig returns the stock configuration: 16 frames, FIFO, window of 5 ticks.
func DefaultConfig() Config {
	return Config{
		TotalFrames:      16,
		Policy:           string(PolicyFIFO),
		WorkingSetWindow: 5,
	}
}

// Validate checks ranges and policy names.
func (c Config) Validate() error {
	if c.TotalFrames <= 0 {
		return fmt.Errorf("total_frames must be positive, got %d: %w", c.TotalFrames, sim.ErrValidation)
	}
	if !IsValidPolicy(c.Policy) {
		return fmt.Errorf("unknown replacement policy %q; valid: %s: %w",
			c.Policy, strings.Join(ValidPolicyNames(), ", "), sim.ErrValidation)
	}
	if c.WorkingSetWindow <= 0 {
		return fmt.Errorf("working_set_window must be positive, got %d: %w", c.WorkingSetWindow, sim.ErrValidation)
	}
	return nil
}
