package syncprim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// DelayRange is an inclusive range of simulated activity durations.
type DelayRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

func (d DelayRange) validate(name string) error {
	if d.Min < 0 || d.Max < d.Min {
		return fmt.Errorf("%s delay range [%s,%s] invalid: %w", name, d.Min, d.Max, sim.ErrValidation)
	}
	return nil
}

// pick draws a duration uniformly from the range.
func (d DelayRange) pick(rng *rand.Rand) time.Duration {
	if d.Max == d.Min {
		return d.Min
	}
	return d.Min + time.Duration(rng.Int63n(int64(d.Max-d.Min)+1))
}

// DiningConfig parameterizes the dining philosophers table.
type DiningConfig struct {
	Philosophers int        `yaml:"philosophers"` // seats and forks around the ring (>= 2)
	Think        DelayRange `yaml:"think"`
	Eat          DelayRange `yaml:"eat"`
}

// ProducerConsumerConfig parameterizes the bounded-buffer demo.
type ProducerConsumerConfig struct {
	Producers        int        `yaml:"producers"`
	Consumers        int        `yaml:"consumers"`
	ItemsPerProducer int        `yaml:"items_per_producer"`
	Capacity         int        `yaml:"capacity"`
	Produce          DelayRange `yaml:"produce"`
	Consume          DelayRange `yaml:"consume"`
}

// ReaderWriterConfig parameterizes the reader-writer demo.
type ReaderWriterConfig struct {
	Readers int        `yaml:"readers"`
	Writers int        `yaml:"writers"`
	Rounds  int        `yaml:"rounds"` // accesses per actor
	Read    DelayRange `yaml:"read"`
	Write   DelayRange `yaml:"write"`
}

// Config groups the synchronization demos.
type Config struct {
	Seed             int64                  `yaml:"seed"` // drives every actor delay
	Dining           DiningConfig           `yaml:"dining"`
	ProducerConsumer ProducerConsumerConfig `yaml:"producer_consumer"`
	ReaderWriter     ReaderWriterConfig     `yaml:"reader_writer"`
}

// DefaultConfig returns the classroom setup: five philosophers thinking and
// eating 1-3s, two producers and two consumers moving three items each
// through a buffer of five, three readers and two writers doing two rounds.
func DefaultConfig() Config {
	return Config{
		Seed: 42,
		Dining: DiningConfig{
			Philosophers: 5,
			Think:        DelayRange{Min: time.Second, Max: 3 * time.Second},
			Eat:          DelayRange{Min: time.Second, Max: 3 * time.Second},
		},
		ProducerConsumer: ProducerConsumerConfig{
			Producers:        2,
			Consumers:        2,
			ItemsPerProducer: 3,
			Capacity:         5,
			Produce:          DelayRange{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond},
			Consume:          DelayRange{Min: 800 * time.Millisecond, Max: 2000 * time.Millisecond},
		},
		ReaderWriter: ReaderWriterConfig{
			Readers: 3,
			Writers: 2,
			Rounds:  2,
			Read:    DelayRange{Min: 300 * time.Millisecond, Max: 800 * time.Millisecond},
			Write:   DelayRange{Min: 500 * time.Millisecond, Max: 1200 * time.Millisecond},
		},
	}
}

// Validate checks every demo section.
func (c Config) Validate() error {
	if err := c.Dining.Validate(); err != nil {
		return err
	}
	if err := c.ProducerConsumer.Validate(); err != nil {
		return err
	}
	return c.ReaderWriter.Validate()
}

func (c DiningConfig) Validate() error {
	if c.Philosophers < 2 {
		return fmt.Errorf("dining needs at least 2 philosophers, got %d: %w", c.Philosophers, sim.ErrValidation)
	}
	if err := c.Think.validate("think"); err != nil {
		return err
	}
	return c.Eat.validate("eat")
}

func (c ProducerConsumerConfig) Validate() error {
	switch {
	case c.Producers < 1 || c.Consumers < 1:
		return fmt.Errorf("producer-consumer needs at least one of each, got %d/%d: %w", c.Producers, c.Consumers, sim.ErrValidation)
	case c.ItemsPerProducer < 1:
		return fmt.Errorf("items_per_producer must be >= 1, got %d: %w", c.ItemsPerProducer, sim.ErrValidation)
	case c.Capacity < 1:
		return fmt.Errorf("capacity must be >= 1, got %d: %w", c.Capacity, sim.ErrValidation)
	case (c.Producers*c.ItemsPerProducer)%c.Consumers != 0:
		return fmt.Errorf("%d items cannot be split evenly across %d consumers: %w",
			c.Producers*c.ItemsPerProducer, c.Consumers, sim.ErrValidation)
	}
	if err := c.Produce.validate("produce"); err != nil {
		return err
	}
	return c.Consume.validate("consume")
}

func (c ReaderWriterConfig) Validate() error {
	if c.Readers < 0 || c.Writers < 0 || c.Readers+c.Writers == 0 {
		return fmt.Errorf("reader-writer needs actors, got %d readers and %d writers: %w", c.Readers, c.Writers, sim.ErrValidation)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be >= 1, got %d: %w", c.Rounds, sim.ErrValidation)
	}
	if err := c.Read.validate("read"); err != nil {
		return err
	}
	return c.Write.validate("write")
}

// sleep pauses for d or until ctx is done, reporting whether the full pause elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
