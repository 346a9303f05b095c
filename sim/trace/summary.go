package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDispatches    int
	CompletedBursts    int
	TotalEvictions     int
	TotalSeekMovement  int
	DispatchesPerPID   map[int]int    // process ID → number of dispatches
	EvictionsPerPolicy map[string]int // policy → number of evictions
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchesPerPID:   make(map[int]int),
		EvictionsPerPolicy: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	dispatches := st.Dispatches()
	summary.TotalDispatches = len(dispatches)
	for _, d := range dispatches {
		summary.DispatchesPerPID[d.ProcessID]++
		if d.Completed {
			summary.CompletedBursts++
		}
	}

	evictions := st.Evictions()
	summary.TotalEvictions = len(evictions)
	for _, e := range evictions {
		summary.EvictionsPerPolicy[e.Policy]++
	}

	for _, s := range st.Seeks() {
		summary.TotalSeekMovement += s.Total
	}
	return summary
}
