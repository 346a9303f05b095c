// Tracks scheduler-wide counters for the process report.

package process

// Metrics aggregates dispatch statistics since the manager was created.
type Metrics struct {
	Dispatches      int     // Dispatch steps that ran a process
	ContextSwitches int     // Dispatches that ran a different process than the previous one
	CompletedBursts int     // Dispatches that brought a process to Remaining == 0
	TotalWait       int     // Sum of WaitTime over every known process
	AverageWait     float64 // TotalWait / number of known processes, 0 when none
}
