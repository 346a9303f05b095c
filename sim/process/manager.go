package process

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/trace"
)

// MaxPriority is the lowest priority a process may carry (0 is the highest).
const MaxPriority = 3

// PageAllocator is the slice of the memory manager the process manager uses.
// Implementations must not call back into the process manager.
type PageAllocator interface {
	Allocate(pages, pid int) error
	FreeProcessPages(pid int) int
}

// DispatchResult describes one dispatch step.
type DispatchResult struct {
	ProcessID int
	Policy    Policy
	Slice     int  // CPU time consumed, short of the grant when cancelled
	Remaining int  // remaining time after the slice
	Completed bool // the slice brought Remaining to 0
}

// Manager owns the process table and the ready queue.
//
// mu guards all process records, the ready queue, the dispatcher and the
// counters. dispatchMu serializes dispatch steps so that mu can be released
// while a slice is running. Lock order: dispatchMu, then mu, then the
// memory manager's own lock.
type Manager struct {
	mu         sync.Mutex
	dispatchMu sync.Mutex

	procs       map[int]*Process
	ready       ReadyQueue
	dispatcher  Dispatcher
	autoExecute bool
	tick        time.Duration
	timeUnit    time.Duration

	memory PageAllocator
	trace  *trace.SimulationTrace

	dispatches      int
	contextSwitches int
	completed       int
	lastPID         int

	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewManager creates a process manager. memory may be nil, in which case no
// pages are accounted. Panics on an invalid configuration.
func NewManager(cfg Config, memory PageAllocator, st *trace.SimulationTrace) *Manager {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("process.NewManager: %v", err))
	}
	return &Manager{
		procs:       make(map[int]*Process),
		dispatcher:  NewDispatcher(Policy(cfg.Policy), cfg.Quantum),
		autoExecute: cfg.AutoExecute,
		tick:        cfg.Tick,
		timeUnit:    cfg.TimeUnit,
		memory:      memory,
		trace:       st,
		lastPID:     -1,
	}
}

// CreateProcess registers a new process in state New and allocates its pages.
// Nothing is recorded if the allocation fails.
func (m *Manager) CreateProcess(id, burst, arrival, priority, pages int) error {
	switch {
	case id < 0:
		return fmt.Errorf("create process %d: id must be >= 0: %w", id, sim.ErrValidation)
	case burst < 1:
		return fmt.Errorf("create process %d: burst must be >= 1, got %d: %w", id, burst, sim.ErrValidation)
	case arrival < 0:
		return fmt.Errorf("create process %d: arrival must be >= 0, got %d: %w", id, arrival, sim.ErrValidation)
	case priority < 0 || priority > MaxPriority:
		return fmt.Errorf("create process %d: priority must be in [0,%d], got %d: %w", id, MaxPriority, priority, sim.ErrValidation)
	case pages < 0:
		return fmt.Errorf("create process %d: pages must be >= 0, got %d: %w", id, pages, sim.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A terminated record only stays to reject a repeated terminate; its id is free again.
	if old, ok := m.procs[id]; ok && old.State != StateTerminated {
		return fmt.Errorf("create process %d: id already in use: %w", id, sim.ErrStateConflict)
	}
	if m.memory != nil && pages > 0 {
		if err := m.memory.Allocate(pages, id); err != nil {
			return fmt.Errorf("create process %d: %w", id, err)
		}
	}
	m.procs[id] = &Process{
		ID:        id,
		Burst:     burst,
		Arrival:   arrival,
		Priority:  priority,
		Pages:     pages,
		Remaining: burst,
		State:     StateNew,
	}
	logrus.Infof("process: created %d (burst=%d, priority=%d, pages=%d)", id, burst, priority, pages)
	return nil
}

// lookup returns the live record for id. Caller holds mu.
func (m *Manager) lookup(id int) (*Process, error) {
	p, ok := m.procs[id]
	if !ok {
		return nil, fmt.Errorf("process %d: %w", id, sim.ErrNotFound)
	}
	return p, nil
}

// makeReady moves p to Ready and queues it if it still owes CPU time. Caller holds mu.
func (m *Manager) makeReady(p *Process) {
	p.State = StateReady
	if p.Remaining > 0 && !m.ready.Contains(p.ID) {
		m.ready.Enqueue(p)
	}
}

// ExecuteProcess makes a New or Suspended process Ready. When the background
// loop is not dispatching, it then runs one dispatch step itself.
// A Ready or Running process is left untouched. Returns the state of the
// process after the call.
func (m *Manager) ExecuteProcess(id int) (State, error) {
	m.mu.Lock()
	p, err := m.lookup(id)
	if err != nil {
		m.mu.Unlock()
		return "", fmt.Errorf("execute: %w", err)
	}
	switch p.State {
	case StateTerminated:
		m.mu.Unlock()
		return StateTerminated, fmt.Errorf("execute process %d: already terminated: %w", id, sim.ErrStateConflict)
	case StateReady, StateRunning:
		state := p.State
		m.mu.Unlock()
		logrus.Debugf("process: execute %d ignored, already %s", id, state)
		return state, nil
	case StateNew, StateSuspended:
		m.makeReady(p)
		logrus.Debugf("process: %d -> ready (queue %s)", id, m.ready.String())
	default:
		panic(fmt.Sprintf("unhandled process state %q", string(p.State)))
	}
	if m.autoExecute && m.loopRunningLocked() {
		m.mu.Unlock()
		return StateReady, nil
	}
	m.mu.Unlock()

	if _, err := m.Dispatch(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return p.State, nil
}

// SuspendProcess moves a process to Suspended and takes it off the ready queue.
// Suspending a Suspended process is a no-op.
func (m *Manager) SuspendProcess(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(id)
	if err != nil {
		return fmt.Errorf("suspend: %w", err)
	}
	if p.State == StateTerminated {
		return fmt.Errorf("suspend process %d: already terminated: %w", id, sim.ErrStateConflict)
	}
	m.ready.Remove(id)
	p.State = StateSuspended
	logrus.Debugf("process: %d -> suspended", id)
	return nil
}

// ResumeProcess moves a Suspended process back to Ready.
func (m *Manager) ResumeProcess(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(id)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if p.State != StateSuspended {
		return fmt.Errorf("resume process %d: not suspended (%s): %w", id, p.State, sim.ErrStateConflict)
	}
	m.makeReady(p)
	logrus.Debugf("process: %d -> ready (resumed)", id)
	return nil
}

// TerminateProcess releases every page of the process, removes it from the
// ready queue and marks it Terminated. The record is kept for reporting.
func (m *Manager) TerminateProcess(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(id)
	if err != nil {
		return fmt.Errorf("terminate: %w", err)
	}
	if p.State == StateTerminated {
		return fmt.Errorf("terminate process %d: already terminated: %w", id, sim.ErrStateConflict)
	}
	freed := 0
	if m.memory != nil {
		freed = m.memory.FreeProcessPages(id)
	}
	m.ready.Remove(id)
	p.State = StateTerminated
	logrus.Infof("process: terminated %d (%d pages released)", id, freed)
	return nil
}

// ListProcesses returns a copy of every process record, sorted by ID.
func (m *Manager) ListProcesses() []Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Process, 0, len(m.procs))
	for _, p := range m.procs {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a copy of one process record.
func (m *Manager) Get(id int) (Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(id)
	if err != nil {
		return Process{}, err
	}
	return *p, nil
}

// ReadyQueue returns the IDs of the queued processes in queue order.
func (m *Manager) ReadyQueue() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, m.ready.Len())
	for _, p := range m.ready.Items() {
		ids = append(ids, p.ID)
	}
	return ids
}

// SetScheduler switches the dispatch policy. The quantum is validated and
// used for round-robin only.
func (m *Manager) SetScheduler(policy Policy, quantum int) error {
	if !validPolicies[policy] {
		return fmt.Errorf("unknown dispatch policy %q: %w", string(policy), sim.ErrValidation)
	}
	if quantum < 1 {
		return fmt.Errorf("quantum must be >= 1, got %d: %w", quantum, sim.ErrValidation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatcher = NewDispatcher(policy, quantum)
	logrus.Infof("process: scheduler set to %s (quantum %d)", policy, quantum)
	return nil
}

// Policy returns the active dispatch policy.
func (m *Manager) Policy() Policy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatcher.Policy()
}

// SetAutoExecute enables or disables dispatching from the background loop.
func (m *Manager) SetAutoExecute(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoExecute = on
	logrus.Infof("process: auto-execute %t", on)
}

// Dispatch runs one dispatch step under the active policy and returns what it
// did, or nil when the ready queue is empty.
func (m *Manager) Dispatch() (*DispatchResult, error) {
	return m.dispatch(context.Background())
}

func (m *Manager) dispatch(ctx context.Context) (*DispatchResult, error) {
	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()

	m.mu.Lock()
	if m.ready.Len() == 0 {
		m.mu.Unlock()
		return nil, nil
	}
	d := m.dispatcher
	p := m.ready.RemoveAt(d.Pick(m.ready.Items()))
	slice := d.Slice(p)
	p.State = StateRunning
	waiting := append([]*Process(nil), m.ready.Items()...)
	m.dispatches++
	if p.ID != m.lastPID {
		m.contextSwitches++
		m.lastPID = p.ID
	}
	logrus.Debugf("process: dispatch %d for %d units (%s)", p.ID, slice, d.Policy())
	m.mu.Unlock()

	ran := m.run(ctx, slice)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range waiting {
		other.WaitTime += ran
	}
	p.Remaining -= ran
	res := &DispatchResult{
		ProcessID: p.ID,
		Policy:    d.Policy(),
		Slice:     ran,
		Remaining: p.Remaining,
		Completed: p.Remaining == 0,
	}
	if res.Completed {
		m.completed++
		logrus.Infof("process: %d completed its burst", p.ID)
	}
	// A process suspended or terminated while running keeps that state. A
	// terminated record is never queued, and its id may already belong to a
	// new process.
	if p.State == StateRunning {
		m.makeReady(p)
	} else if p.Remaining == 0 && p.State != StateTerminated {
		m.ready.Remove(p.ID)
	}
	m.trace.RecordDispatch(trace.DispatchRecord{
		Seq:            m.dispatches,
		ProcessID:      p.ID,
		Policy:         string(d.Policy()),
		Slice:          ran,
		RemainingAfter: p.Remaining,
		Completed:      res.Completed,
		QueueDepth:     m.ready.Len(),
	})
	return res, nil
}

// run blocks for slice units of simulated CPU time and returns how many
// units ran. Cancelling ctx cuts the slice short: only the whole units that
// elapsed are charged.
func (m *Manager) run(ctx context.Context, slice int) int {
	if m.timeUnit <= 0 || slice <= 0 {
		return slice
	}
	start := time.Now()
	timer := time.NewTimer(time.Duration(slice) * m.timeUnit)
	defer timer.Stop()
	select {
	case <-timer.C:
		return slice
	case <-ctx.Done():
		return min(slice, int(time.Since(start)/m.timeUnit))
	}
}

// Metrics returns the dispatch counters and wait-time aggregates.
func (m *Manager) Metrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt := Metrics{
		Dispatches:      m.dispatches,
		ContextSwitches: m.contextSwitches,
		CompletedBursts: m.completed,
	}
	for _, p := range m.procs {
		mt.TotalWait += p.WaitTime
	}
	if len(m.procs) > 0 {
		mt.AverageWait = float64(mt.TotalWait) / float64(len(m.procs))
	}
	return mt
}

// StartScheduler launches the background loop. On every tick, while
// auto-execute is enabled, the loop runs one dispatch step. The loop ends
// when ctx is cancelled or StopScheduler is called.
func (m *Manager) StartScheduler(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loopRunningLocked() {
		return fmt.Errorf("start scheduler: already running: %w", sim.ErrStateConflict)
	}
	if m.cancel != nil {
		m.cancel()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.wg.Add(1)
	go m.loop(loopCtx, m.done)
	logrus.Infof("process: scheduler loop started (tick %s)", m.tick)
	return nil
}

func (m *Manager) loop(ctx context.Context, done chan struct{}) {
	defer m.wg.Done()
	defer close(done)
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			auto := m.autoExecute
			m.mu.Unlock()
			if auto {
				if _, err := m.dispatch(ctx); err != nil {
					logrus.Warnf("process: background dispatch: %v", err)
				}
			}
		}
	}
}

// StopScheduler cancels the background loop and waits for it to exit.
// Stopping a stopped loop is a no-op.
func (m *Manager) StopScheduler() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()
	logrus.Infof("process: scheduler loop stopped")
}

// SchedulerRunning reports whether the background loop is alive.
func (m *Manager) SchedulerRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loopRunningLocked()
}

func (m *Manager) loopRunningLocked() bool {
	if m.cancel == nil || m.done == nil {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}
