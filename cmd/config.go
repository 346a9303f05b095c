package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/device"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/disk"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/memory"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/process"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/syncprim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/trace"
)

// Config represents the full sosim.yaml structure.
// Every section must be listed here to satisfy KnownFields(true) strict parsing.
type Config struct {
	Process process.Config    `yaml:"process"`
	Memory  memory.Config     `yaml:"memory"`
	Disk    disk.Config       `yaml:"disk"`
	Device  device.Config     `yaml:"device"`
	Sync    syncprim.Config   `yaml:"sync"`
	Trace   trace.TraceConfig `yaml:"trace"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Process: process.DefaultConfig(),
		Memory:  memory.DefaultConfig(),
		Disk:    disk.DefaultConfig(),
		Device:  device.DefaultConfig(),
		Sync:    syncprim.DefaultConfig(),
		Trace:   trace.TraceConfig{Level: trace.TraceLevelDecisions},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Process.Validate(); err != nil {
		return fmt.Errorf("process: %w", err)
	}
	if err := c.Memory.Validate(); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if err := c.Disk.Validate(); err != nil {
		return fmt.Errorf("disk: %w", err)
	}
	if err := c.Device.Validate(); err != nil {
		return fmt.Errorf("device: %w", err)
	}
	if err := c.Sync.Validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return fmt.Errorf("trace: unknown level %q: %w", c.Trace.Level, sim.ErrValidation)
	}
	return nil
}

// LoadConfig reads a YAML config file over the defaults. Fields absent from
// the file keep their default value; unknown fields are an error.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := decodeStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// decodeStrict decodes YAML rejecting unknown fields (typos must cause errors).
// An empty document leaves out untouched.
func decodeStrict(data []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
