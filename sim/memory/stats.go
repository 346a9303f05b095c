package memory

// Statistics aggregates page access counters for the memory report.
type Statistics struct {
	Accesses  int64   // Hits + Faults
	Hits      int64   // Accesses that found the page resident
	Faults    int64   // Accesses that had to load the page
	Evictions int64   // Faults that had to replace a resident page
	HitRate   float64 // Hits / Accesses, 0 when no accesses
	FaultRate float64 // Faults / Accesses, 0 when no accesses
}

func newStatistics(hits, faults, evictions int64) Statistics {
	s := Statistics{Accesses: hits + faults, Hits: hits, Faults: faults, Evictions: evictions}
	if s.Accesses > 0 {
		s.HitRate = float64(hits) / float64(s.Accesses)
		s.FaultRate = float64(faults) / float64(s.Accesses)
	}
	return s
}
