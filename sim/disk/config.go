package disk

import (
	"fmt"
	"strings"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// Track bounds of the simulated disk.
const (
	MinTrack = 0
	MaxTrack = 199
)

// Config groups disk scheduler parameters.
type Config struct {
	Head      int    `yaml:"head"`      // initial head position, MinTrack..MaxTrack
	Algorithm string `yaml:"algorithm"` // "fcfs" (default), "sstf", "scan"
}

// DefaultConfig returns the stock configuration: head at track 0, FCFS.
func DefaultConfig() Config {
	return Config{Head: 0, Algorithm: string(AlgorithmFCFS)}
}

// Validate checks the head position and algorithm name.
func (c Config) Validate() error {
	if err := checkTrack("head", c.Head); err != nil {
		return err
	}
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("unknown disk algorithm %q; valid: %s: %w",
			c.Algorithm, strings.Join(ValidAlgorithmNames(), ", "), sim.ErrValidation)
	}
	return nil
}

func checkTrack(what string, track int) error {
	if track < MinTrack || track > MaxTrack {
		return fmt.Errorf("%s %d outside [%d,%d]: %w", what, track, MinTrack, MaxTrack, sim.ErrValidation)
	}
	return nil
}
