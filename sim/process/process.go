// Defines the Process record owned by the process manager and its lifecycle states.

package process

import "fmt"

// State represents the lifecycle state of a process.
type State string

const (
	StateNew        State = "new"
	StateReady      State = "ready"
	StateRunning    State = "running"
	StateSuspended  State = "suspended"
	StateTerminated State = "terminated"
)

// Process models one simulated process.
// Times are expressed in simulated time units; one unit of CPU time lasts
// Config.TimeUnit of wall-clock time.
type Process struct {
	ID       int // Externally assigned, unique within a manager
	Burst    int // Total CPU time requested
	Arrival  int // Arrival time, informational
	Priority int // 0 (highest) to 3 (lowest), informational
	Pages    int // Pages allocated at creation

	Remaining int   // CPU time still owed; 0 once the burst completed
	WaitTime  int   // Time spent in the ready queue while other processes ran
	State     State // new, ready, running, suspended, terminated
}

// String returns a human-readable representation of a process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (ID: %d, State: %s, Remaining: %d/%d, Pages: %d)", p.ID, p.State, p.Remaining, p.Burst, p.Pages)
}
