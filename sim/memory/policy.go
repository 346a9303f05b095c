package memory

import (
	"fmt"
	"sort"
)

// Policy names a page replacement policy. The set is closed: every switch
// over Policy in this package handles all three values and panics otherwise.
type Policy string

const (
	// PolicyFIFO evicts the frame loaded earliest, ignoring later hits.
	PolicyFIFO Policy = "fifo"
	// PolicyLRU evicts the frame with the smallest last-used timestamp.
	PolicyLRU Policy = "lru"
	// PolicyWorkingSet evicts a frame untouched within the trailing window,
	// falling back to LRU when every frame is in the working set.
	PolicyWorkingSet Policy = "working-set"
)

// validPolicies is the set of recognized replacement policy names.
var validPolicies = map[Policy]bool{PolicyFIFO: true, PolicyLRU: true, PolicyWorkingSet: true}

// IsValidPolicy returns true if name is a recognized replacement policy.
func IsValidPolicy(name string) bool {
	return validPolicies[Policy(name)]
}

// ValidPolicyNames returns the sorted list of replacement policy names.
func ValidPolicyNames() []string {
	names := make([]string, 0, len(validPolicies))
	for p := range validPolicies {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

// String returns the display name used by the memory report.
func (p Policy) String() string {
	switch p {
	case PolicyFIFO:
		return "FIFO"
	case PolicyLRU:
		return "LRU"
	case PolicyWorkingSet:
		return "WORKING SET"
	default:
		panic(fmt.Sprintf("unhandled replacement policy %q", string(p)))
	}
}
