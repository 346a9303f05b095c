package disk

import (
	"fmt"
	"sort"
)

// Algorithm names a disk-arm scheduling algorithm.
type Algorithm string

const (
	// AlgorithmFCFS visits requests in arrival order.
	AlgorithmFCFS Algorithm = "fcfs"
	// AlgorithmSSTF visits the nearest unvisited request next.
	AlgorithmSSTF Algorithm = "sstf"
	// AlgorithmSCAN sweeps upward from the head, then back down.
	AlgorithmSCAN Algorithm = "scan"
)

// validAlgorithms maps accepted algorithm names.
var validAlgorithms = map[Algorithm]bool{AlgorithmFCFS: true, AlgorithmSSTF: true, AlgorithmSCAN: true}

// preference orders algorithms for tie-breaking in comparisons, best first.
var preference = []Algorithm{AlgorithmSSTF, AlgorithmSCAN, AlgorithmFCFS}

// IsValidAlgorithm returns true if name is a recognized algorithm.
func IsValidAlgorithm(name string) bool {
	return validAlgorithms[Algorithm(name)]
}

// ValidAlgorithmNames returns the sorted list of algorithm names.
func ValidAlgorithmNames() []string {
	names := make([]string, 0, len(validAlgorithms))
	for a := range validAlgorithms {
		names = append(names, string(a))
	}
	sort.Strings(names)
	return names
}

// String returns the display name used in reports.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmFCFS:
		return "FCFS (First-Come, First-Served)"
	case AlgorithmSSTF:
		return "SSTF (Shortest Seek Time First)"
	case AlgorithmSCAN:
		return "SCAN (Elevator)"
	default:
		panic(fmt.Sprintf("unhandled disk algorithm %q", string(a)))
	}
}

// order returns the visiting order of reqs under a, starting from head.
// reqs is not modified.
func order(a Algorithm, head int, reqs []Request) []Request {
	switch a {
	case AlgorithmFCFS:
		return append([]Request(nil), reqs...)
	case AlgorithmSSTF:
		return sstfOrder(head, reqs)
	case AlgorithmSCAN:
		return scanOrder(head, reqs)
	default:
		panic(fmt.Sprintf("unhandled disk algorithm %q", string(a)))
	}
}

// sstfOrder repeatedly takes the pending request closest to the head.
// Ties go to the request found first in arrival order.
func sstfOrder(head int, reqs []Request) []Request {
	pending := append([]Request(nil), reqs...)
	out := make([]Request, 0, len(reqs))
	for len(pending) > 0 {
		closest := 0
		for i := 1; i < len(pending); i++ {
			if distance(pending[i].Track, head) < distance(pending[closest].Track, head) {
				closest = i
			}
		}
		head = pending[closest].Track
		out = append(out, pending[closest])
		pending = append(pending[:closest], pending[closest+1:]...)
	}
	return out
}

// scanOrder visits every request at or above the head in ascending order,
// then every request below it in descending order.
func scanOrder(head int, reqs []Request) []Request {
	sorted := append([]Request(nil), reqs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Track < sorted[j].Track })
	split := sort.Search(len(sorted), func(i int) bool { return sorted[i].Track >= head })

	out := make([]Request, 0, len(sorted))
	out = append(out, sorted[split:]...)
	for i := split - 1; i >= 0; i-- {
		out = append(out, sorted[i])
	}
	return out
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
