package trace

import "sync"

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures dispatch, eviction and seek decisions.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel `yaml:"level"`
}

// SimulationTrace collects decision records. It is shared by managers that
// run on different goroutines, so every method takes the trace's own lock.
// A nil *SimulationTrace is valid and records nothing.
type SimulationTrace struct {
	Config TraceConfig

	mu         sync.Mutex
	dispatches []DispatchRecord
	evictions  []EvictionRecord
	seeks      []SeekRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		dispatches: make([]DispatchRecord, 0),
		evictions:  make([]EvictionRecord, 0),
		seeks:      make([]SeekRecord, 0),
	}
}

func (st *SimulationTrace) enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordDispatch appends a dispatch decision record.
func (st *SimulationTrace) RecordDispatch(record DispatchRecord) {
	if !st.enabled() {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.dispatches = append(st.dispatches, record)
}

// RecordEviction appends a page replacement record.
func (st *SimulationTrace) RecordEviction(record EvictionRecord) {
	if !st.enabled() {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.evictions = append(st.evictions, record)
}

// RecordSeek appends a disk scheduling record.
func (st *SimulationTrace) RecordSeek(record SeekRecord) {
	if !st.enabled() {
		return
	}
	record.Visited = append([]int(nil), record.Visited...)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.seeks = append(st.seeks, record)
}

// Dispatches returns a copy of the recorded dispatch decisions.
func (st *SimulationTrace) Dispatches() []DispatchRecord {
	if st == nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]DispatchRecord(nil), st.dispatches...)
}

// Evictions returns a copy of the recorded evictions.
func (st *SimulationTrace) Evictions() []EvictionRecord {
	if st == nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]EvictionRecord(nil), st.evictions...)
}

// Seeks returns a copy of the recorded disk passes.
func (st *SimulationTrace) Seeks() []SeekRecord {
	if st == nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]SeekRecord(nil), st.seeks...)
}
