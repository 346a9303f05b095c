package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalDispatches != 0 || summary.TotalEvictions != 0 || summary.TotalSeekMovement != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
	if len(summary.DispatchesPerPID) != 0 || len(summary.EvictionsPerPolicy) != 0 {
		t.Error("expected empty distributions")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalDispatches != 0 || summary.DispatchesPerPID == nil {
		t.Errorf("unexpected summary for nil trace: %+v", summary)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed records
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDispatch(DispatchRecord{ProcessID: 1, Slice: 2, RemainingAfter: 1})
	st.RecordDispatch(DispatchRecord{ProcessID: 2, Slice: 2, Completed: true})
	st.RecordDispatch(DispatchRecord{ProcessID: 1, Slice: 1, Completed: true})
	st.RecordEviction(EvictionRecord{Policy: "lru"})
	st.RecordEviction(EvictionRecord{Policy: "fifo"})
	st.RecordEviction(EvictionRecord{Policy: "lru"})
	st.RecordSeek(SeekRecord{Total: 100})
	st.RecordSeek(SeekRecord{Total: 120})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalDispatches != 3 {
		t.Errorf("expected 3 dispatches, got %d", summary.TotalDispatches)
	}
	if summary.CompletedBursts != 2 {
		t.Errorf("expected 2 completed bursts, got %d", summary.CompletedBursts)
	}
	if summary.DispatchesPerPID[1] != 2 {
		t.Errorf("expected process 1 dispatched twice, got %d", summary.DispatchesPerPID[1])
	}
	if summary.EvictionsPerPolicy["lru"] != 2 || summary.TotalEvictions != 3 {
		t.Errorf("unexpected eviction counts: %+v", summary.EvictionsPerPolicy)
	}
	if summary.TotalSeekMovement != 220 {
		t.Errorf("expected 220 tracks of movement, got %d", summary.TotalSeekMovement)
	}
}
