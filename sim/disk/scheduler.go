package disk

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/trace"
)

// Request is one pending seek.
type Request struct {
	Track     int
	ProcessID int
}

// Step is one head movement of a scheduling run.
type Step struct {
	Track     int
	ProcessID int
	Movement  int // tracks crossed to reach Track
}

// Run is the outcome of one simulated pass over the pending requests.
type Run struct {
	Algorithm Algorithm
	Start     int
	Steps     []Step
	Total     int
}

// Comparison holds the total movement of every algorithm for the same input.
type Comparison struct {
	Start  int
	Totals map[Algorithm]int
	Best   Algorithm // lowest total; ties prefer SSTF, then SCAN, then FCFS
}

// Visualization is the data behind the disk map report.
type Visualization struct {
	Head    int
	Pending []Request
	History []int // head positions of the last run, starting position first
	Total   int
}

// Scheduler holds the head position and the pending requests.
// Scheduling runs are simulations: they neither move the head nor consume requests.
type Scheduler struct {
	mu        sync.Mutex
	head      int
	algorithm Algorithm
	requests  []Request
	history   []int
	total     int
	trace     *trace.SimulationTrace
}

// NewScheduler creates a scheduler with no pending requests.
// Panics on an invalid configuration.
func NewScheduler(cfg Config, st *trace.SimulationTrace) *Scheduler {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("disk.NewScheduler: %v", err))
	}
	return &Scheduler{head: cfg.Head, algorithm: Algorithm(cfg.Algorithm), trace: st}
}

// AddRequest appends a pending request for track.
func (s *Scheduler) AddRequest(track, pid int) error {
	if err := checkTrack("track", track); err != nil {
		return fmt.Errorf("add disk request: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{Track: track, ProcessID: pid})
	logrus.Debugf("disk: request track %d (process %d), %d pending", track, pid, len(s.requests))
	return nil
}

// SetAlgorithm selects the algorithm used by Schedule.
func (s *Scheduler) SetAlgorithm(a Algorithm) error {
	if !validAlgorithms[a] {
		return fmt.Errorf("unknown disk algorithm %q: %w", string(a), sim.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.algorithm = a
	logrus.Infof("disk: algorithm set to %s", a)
	return nil
}

// Algorithm returns the active algorithm.
func (s *Scheduler) Algorithm() Algorithm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.algorithm
}

// SetHeadPosition moves the head.
func (s *Scheduler) SetHeadPosition(pos int) error {
	if err := checkTrack("head position", pos); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.head = pos
	logrus.Infof("disk: head moved to track %d", pos)
	return nil
}

// HeadPosition returns the head position.
func (s *Scheduler) HeadPosition() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head
}

// Requests returns a copy of the pending requests in arrival order.
func (s *Scheduler) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// ClearRequests drops every pending request and the movement history.
func (s *Scheduler) ClearRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.history = nil
	s.total = 0
	logrus.Infof("disk: requests cleared")
}

// Schedule simulates a full pass under the active algorithm.
func (s *Scheduler) Schedule() (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Run{}, fmt.Errorf("schedule: no pending disk requests: %w", sim.ErrStateConflict)
	}
	run := simulate(s.algorithm, s.head, s.requests)

	s.history = make([]int, 0, len(run.Steps)+1)
	s.history = append(s.history, run.Start)
	for _, st := range run.Steps {
		s.history = append(s.history, st.Track)
	}
	s.total = run.Total
	s.trace.RecordSeek(trace.SeekRecord{
		Algorithm: string(run.Algorithm),
		Start:     run.Start,
		Visited:   s.history[1:],
		Total:     run.Total,
	})
	logrus.Infof("disk: %s from %d moved %d tracks", run.Algorithm, run.Start, run.Total)
	return run, nil
}

// CompareAlgorithms computes the total movement of every algorithm from the
// current head over the pending requests.
func (s *Scheduler) CompareAlgorithms() (Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Comparison{}, fmt.Errorf("compare: no pending disk requests: %w", sim.ErrStateConflict)
	}
	c := Comparison{Start: s.head, Totals: make(map[Algorithm]int, len(preference))}
	for _, a := range preference {
		c.Totals[a] = simulate(a, s.head, s.requests).Total
		if c.Best == "" || c.Totals[a] < c.Totals[c.Best] {
			c.Best = a
		}
	}
	return c, nil
}

// Visualization returns the head, pending requests and last run history.
func (s *Scheduler) Visualization() Visualization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Visualization{
		Head:    s.head,
		Pending: append([]Request(nil), s.requests...),
		History: append([]int(nil), s.history...),
		Total:   s.total,
	}
}

func simulate(a Algorithm, head int, reqs []Request) Run {
	run := Run{Algorithm: a, Start: head}
	cur := head
	for _, r := range order(a, head, reqs) {
		mv := distance(r.Track, cur)
		run.Steps = append(run.Steps, Step{Track: r.Track, ProcessID: r.ProcessID, Movement: mv})
		run.Total += mv
		cur = r.Track
	}
	return run
}
