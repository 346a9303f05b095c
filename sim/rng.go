package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey identifies a reproducible run of the synchronization demos.
// Two runs with the same key draw the same think/eat/produce delays.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem names ===

// SubsystemPhilosopher returns the subsystem name for philosopher N.
func SubsystemPhilosopher(id int) string {
	return fmt.Sprintf("philosopher_%d", id)
}

// SubsystemProducer returns the subsystem name for producer N.
func SubsystemProducer(id int) string {
	return fmt.Sprintf("producer_%d", id)
}

// SubsystemConsumer returns the subsystem name for consumer N.
func SubsystemConsumer(id int) string {
	return fmt.Sprintf("consumer_%d", id)
}

// SubsystemReader returns the subsystem name for reader N.
func SubsystemReader(id int) string {
	return fmt.Sprintf("reader_%d", id)
}

// SubsystemWriter returns the subsystem name for writer N.
func SubsystemWriter(id int) string {
	return fmt.Sprintf("writer_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per actor.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Hand each returned *rand.Rand to exactly one
// goroutine and call ForSubsystem only while setting actors up.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
