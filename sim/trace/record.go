// Package trace provides decision-trace recording for the resource managers.
// This package has no dependencies on the manager packages — it stores pure data types.
package trace

// DispatchRecord captures a single dispatch decision of the process scheduler.
type DispatchRecord struct {
	Seq            int    // dispatch sequence number (1-based)
	ProcessID      int    // process that received the CPU
	Policy         string // "round-robin" or "sjf"
	Slice          int    // time units granted
	RemainingAfter int    // remaining burst once the slice finished
	Completed      bool   // remaining reached zero in this slice
	QueueDepth     int    // ready-queue length when the decision was made
}

// EvictionRecord captures a page replacement decision.
type EvictionRecord struct {
	Tick          int64  // logical time of the faulting access
	Frame         int    // frame that was reused
	Policy        string // "fifo", "lru" or "working-set"
	VictimProcess int
	VictimPage    int
	LoadedProcess int
	LoadedPage    int
}

// SeekRecord captures one disk scheduling pass.
type SeekRecord struct {
	Algorithm string
	Start     int   // head position before the pass
	Visited   []int // tracks in service order
	Total     int   // total head movement in tracks
}
