package process

import (
	"fmt"
	"sort"
)

// Policy names a dispatch policy.
type Policy string

const (
	// PolicyRoundRobin serves the ready queue in FIFO order, one quantum at a time.
	PolicyRoundRobin Policy = "round-robin"
	// PolicySJF runs the queued process with the least remaining time to completion.
	PolicySJF Policy = "sjf"
)

// validPolicies maps accepted dispatch policy names.
var validPolicies = map[Policy]bool{PolicyRoundRobin: true, PolicySJF: true}

// IsValidPolicy returns true if name is a recognized dispatch policy.
func IsValidPolicy(name string) bool {
	return validPolicies[Policy(name)]
}

// ValidPolicyNames returns the sorted list of dispatch policy names.
func ValidPolicyNames() []string {
	names := make([]string, 0, len(validPolicies))
	for p := range validPolicies {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

// String returns the display name used in reports.
func (p Policy) String() string {
	switch p {
	case PolicyRoundRobin:
		return "Round Robin"
	case PolicySJF:
		return "SJF"
	default:
		panic(fmt.Sprintf("unhandled dispatch policy %q", string(p)))
	}
}

// Dispatcher decides which ready process runs next and for how long.
// Every process passed to a Dispatcher has Remaining > 0.
type Dispatcher interface {
	// Policy returns the policy this dispatcher implements.
	Policy() Policy
	// Pick returns the index into ready of the process to run. ready is non-empty.
	Pick(ready []*Process) int
	// Slice returns the CPU time granted to p for this dispatch.
	Slice(p *Process) int
}

// RoundRobin runs the head of the queue for at most Quantum units.
type RoundRobin struct {
	Quantum int
}

func (r *RoundRobin) Policy() Policy { return PolicyRoundRobin }

func (r *RoundRobin) Pick(_ []*Process) int { return 0 }

func (r *RoundRobin) Slice(p *Process) int {
	return min(r.Quantum, p.Remaining)
}

// ShortestJobFirst is non-preemptive: the chosen process runs to completion.
// Ties on remaining time go to the process found first in queue order.
type ShortestJobFirst struct{}

func (s *ShortestJobFirst) Policy() Policy { return PolicySJF }

func (s *ShortestJobFirst) Pick(ready []*Process) int {
	best := 0
	for i := 1; i < len(ready); i++ {
		if ready[i].Remaining < ready[best].Remaining {
			best = i
		}
	}
	return best
}

func (s *ShortestJobFirst) Slice(p *Process) int {
	return p.Remaining
}

// NewDispatcher creates a Dispatcher by policy. The quantum is used by
// round-robin only and must be positive for it.
// Panics on an unrecognized policy or a non-positive round-robin quantum.
func NewDispatcher(policy Policy, quantum int) Dispatcher {
	switch policy {
	case PolicyRoundRobin:
		if quantum < 1 {
			panic(fmt.Sprintf("NewDispatcher: round-robin quantum must be >= 1, got %d", quantum))
		}
		return &RoundRobin{Quantum: quantum}
	case PolicySJF:
		return &ShortestJobFirst{}
	default:
		panic(fmt.Sprintf("unknown dispatch policy %q", string(policy)))
	}
}
