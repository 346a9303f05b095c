package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/memory"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/trace"
)

func newTestMemory(frames int) *memory.Manager {
	cfg := memory.DefaultConfig()
	cfg.TotalFrames = frames
	return memory.NewManager(cfg, nil)
}

func newTestManager(t *testing.T, policy Policy, quantum int, mem PageAllocator) (*Manager, *trace.SimulationTrace) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Policy = string(policy)
	cfg.Quantum = quantum
	cfg.Tick = 5 * time.Millisecond
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	return NewManager(cfg, mem, st), st
}

// enqueue puts a process on the ready queue without triggering a dispatch.
func enqueue(t *testing.T, m *Manager, id, burst int) {
	t.Helper()
	require.NoError(t, m.CreateProcess(id, burst, 0, 1, 0))
	require.NoError(t, m.SuspendProcess(id))
	require.NoError(t, m.ResumeProcess(id))
}

func dispatchedIDs(st *trace.SimulationTrace) []int {
	var ids []int
	for _, r := range st.Dispatches() {
		ids = append(ids, r.ProcessID)
	}
	return ids
}

func TestCreateProcess_Validation(t *testing.T) {
	tests := []struct {
		name                                string
		id, burst, arrival, priority, pages int
	}{
		{"negative id", -1, 5, 0, 0, 0},
		{"zero burst", 1, 0, 0, 0, 0},
		{"negative arrival", 1, 5, -1, 0, 0},
		{"priority below range", 1, 5, 0, -1, 0},
		{"priority above range", 1, 5, 0, 4, 0},
		{"negative pages", 1, 5, 0, 0, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t, PolicyRoundRobin, 2, nil)
			err := m.CreateProcess(tt.id, tt.burst, tt.arrival, tt.priority, tt.pages)
			assert.ErrorIs(t, err, sim.ErrValidation)
			assert.Empty(t, m.ListProcesses())
		})
	}
}

func TestCreateProcess_StartsNewWithPages(t *testing.T) {
	// GIVEN an 8-frame memory
	mem := newTestMemory(8)
	m, _ := newTestManager(t, PolicyRoundRobin, 2, mem)

	// WHEN process 1 is created with 3 pages
	require.NoError(t, m.CreateProcess(1, 6, 2, 3, 3))

	// THEN it is New, not queued, and owns 3 frames
	p, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, Process{ID: 1, Burst: 6, Arrival: 2, Priority: 3, Pages: 3, Remaining: 6, State: StateNew}, p)
	assert.Empty(t, m.ReadyQueue())
	assert.Equal(t, 3, mem.UsedPages())
}

func TestCreateProcess_DuplicateID_Conflict(t *testing.T) {
	mem := newTestMemory(8)
	m, _ := newTestManager(t, PolicyRoundRobin, 2, mem)
	require.NoError(t, m.CreateProcess(1, 5, 0, 0, 2))

	err := m.CreateProcess(1, 5, 0, 0, 2)

	assert.ErrorIs(t, err, sim.ErrStateConflict)
	assert.Equal(t, 2, mem.UsedPages())
}

func TestCreateProcess_NotEnoughMemory_NoRecord(t *testing.T) {
	// GIVEN a 4-frame memory with 3 frames taken
	mem := newTestMemory(4)
	m, _ := newTestManager(t, PolicyRoundRobin, 2, mem)
	require.NoError(t, m.CreateProcess(1, 5, 0, 0, 3))

	// WHEN a process needing 2 pages is created
	err := m.CreateProcess(2, 5, 0, 0, 2)

	// THEN it is rejected as exhausted and never recorded
	assert.ErrorIs(t, err, sim.ErrResourceExhausted)
	_, getErr := m.Get(2)
	assert.ErrorIs(t, getErr, sim.ErrNotFound)
	assert.Equal(t, 3, mem.UsedPages())
}

func TestExecuteProcess_DispatchesOnceWhenLoopDisabled(t *testing.T) {
	// GIVEN a New process with burst 5 under round-robin quantum 2
	m, st := newTestManager(t, PolicyRoundRobin, 2, nil)
	require.NoError(t, m.CreateProcess(1, 5, 0, 0, 0))

	// WHEN it is executed
	state, err := m.ExecuteProcess(1)

	// THEN exactly one slice ran and it is back on the ready queue
	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
	p, _ := m.Get(1)
	assert.Equal(t, 3, p.Remaining)
	assert.Equal(t, []int{1}, m.ReadyQueue())
	assert.Len(t, st.Dispatches(), 1)

	// AND executing a Ready process changes nothing
	state, err = m.ExecuteProcess(1)
	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
	assert.Len(t, st.Dispatches(), 1)
}

func TestExecuteProcess_Errors(t *testing.T) {
	m, _ := newTestManager(t, PolicyRoundRobin, 2, nil)
	_, err := m.ExecuteProcess(9)
	assert.ErrorIs(t, err, sim.ErrNotFound)

	require.NoError(t, m.CreateProcess(1, 5, 0, 0, 0))
	require.NoError(t, m.TerminateProcess(1))
	state, err := m.ExecuteProcess(1)
	assert.ErrorIs(t, err, sim.ErrStateConflict)
	assert.Equal(t, StateTerminated, state)
}

func TestRoundRobin_DispatchCountIsCeilOfRemainingOverQuantum(t *testing.T) {
	tests := []struct {
		burst, quantum, want int
	}{
		{burst: 7, quantum: 3, want: 3},
		{burst: 6, quantum: 3, want: 2},
		{burst: 1, quantum: 4, want: 1},
		{burst: 5, quantum: 1, want: 5},
	}
	for _, tt := range tests {
		m, st := newTestManager(t, PolicyRoundRobin, tt.quantum, nil)
		enqueue(t, m, 1, tt.burst)

		remaining := tt.burst
		for {
			res, err := m.Dispatch()
			require.NoError(t, err)
			if res == nil {
				break
			}
			assert.Equal(t, min(tt.quantum, remaining), res.Slice)
			remaining -= res.Slice
			assert.Equal(t, remaining, res.Remaining)
		}

		assert.Len(t, st.Dispatches(), tt.want, "burst=%d quantum=%d", tt.burst, tt.quantum)
		p, _ := m.Get(1)
		assert.Equal(t, 0, p.Remaining)
		assert.Equal(t, StateReady, p.State, "a completed burst awaits explicit termination")
	}
}

func TestRoundRobin_InterleavesAndAccumulatesWait(t *testing.T) {
	// GIVEN two processes of burst 4 under quantum 2
	m, st := newTestManager(t, PolicyRoundRobin, 2, nil)
	enqueue(t, m, 1, 4)
	enqueue(t, m, 2, 4)

	// WHEN the queue is drained
	for {
		res, err := m.Dispatch()
		require.NoError(t, err)
		if res == nil {
			break
		}
	}

	// THEN they alternate and each waited while the other ran
	assert.Equal(t, []int{1, 2, 1, 2}, dispatchedIDs(st))
	p1, _ := m.Get(1)
	p2, _ := m.Get(2)
	assert.Equal(t, 2, p1.WaitTime)
	assert.Equal(t, 4, p2.WaitTime)
	assert.Equal(t, Metrics{
		Dispatches: 4, ContextSwitches: 4, CompletedBursts: 2, TotalWait: 6, AverageWait: 3,
	}, m.Metrics())
}

func TestShortestJobFirst_CompletesInOrderOfRemainingTime(t *testing.T) {
	// GIVEN processes with remaining times 5, 2 and 8 queued in that order
	m, st := newTestManager(t, PolicySJF, 1, nil)
	enqueue(t, m, 1, 5)
	enqueue(t, m, 2, 2)
	enqueue(t, m, 3, 8)

	// WHEN three dispatch steps run
	var slices []int
	for i := 0; i < 3; i++ {
		res, err := m.Dispatch()
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.True(t, res.Completed)
		slices = append(slices, res.Slice)
	}

	// THEN bursts complete in the order 2, 5, 8 and the queue is empty
	assert.Equal(t, []int{2, 5, 8}, slices)
	assert.Equal(t, []int{2, 1, 3}, dispatchedIDs(st))
	assert.Empty(t, m.ReadyQueue())
	res, err := m.Dispatch()
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestSetScheduler_SwitchesPolicy(t *testing.T) {
	m, _ := newTestManager(t, PolicyRoundRobin, 2, nil)
	assert.ErrorIs(t, m.SetScheduler("lottery", 2), sim.ErrValidation)
	assert.ErrorIs(t, m.SetScheduler(PolicyRoundRobin, 0), sim.ErrValidation)
	assert.Equal(t, PolicyRoundRobin, m.Policy())

	require.NoError(t, m.SetScheduler(PolicySJF, 1))
	assert.Equal(t, PolicySJF, m.Policy())
}

func TestSuspendResume(t *testing.T) {
	// GIVEN two queued processes
	m, _ := newTestManager(t, PolicyRoundRobin, 2, nil)
	enqueue(t, m, 1, 4)
	enqueue(t, m, 2, 4)

	// WHEN process 1 is suspended
	require.NoError(t, m.SuspendProcess(1))

	// THEN it leaves the ready queue
	assert.Equal(t, []int{2}, m.ReadyQueue())
	p, _ := m.Get(1)
	assert.Equal(t, StateSuspended, p.State)

	// AND resuming puts it back at the tail
	require.NoError(t, m.ResumeProcess(1))
	assert.Equal(t, []int{2, 1}, m.ReadyQueue())

	// AND resuming a non-suspended process is a conflict
	assert.ErrorIs(t, m.ResumeProcess(1), sim.ErrStateConflict)
	assert.ErrorIs(t, m.SuspendProcess(7), sim.ErrNotFound)
}

func TestExecuteProcess_ResumesSuspended(t *testing.T) {
	m, _ := newTestManager(t, PolicyRoundRobin, 10, nil)
	require.NoError(t, m.CreateProcess(1, 3, 0, 0, 0))
	require.NoError(t, m.SuspendProcess(1))

	state, err := m.ExecuteProcess(1)

	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
	p, _ := m.Get(1)
	assert.Equal(t, 0, p.Remaining)
	assert.Empty(t, m.ReadyQueue())
}

func TestTerminateProcess_ReleasesPagesAndKeepsRecord(t *testing.T) {
	// GIVEN two queued processes holding pages
	mem := newTestMemory(8)
	m, _ := newTestManager(t, PolicyRoundRobin, 2, mem)
	require.NoError(t, m.CreateProcess(2, 4, 0, 0, 2))
	require.NoError(t, m.CreateProcess(1, 4, 0, 0, 3))
	require.NoError(t, m.SuspendProcess(1))
	require.NoError(t, m.ResumeProcess(1))

	// WHEN process 1 is terminated
	require.NoError(t, m.TerminateProcess(1))

	// THEN its pages are free, it left the queue and it is listed as Terminated
	assert.Equal(t, 2, mem.UsedPages())
	assert.Empty(t, m.ReadyQueue())
	list := m.ListProcesses()
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, StateTerminated, list[0].State)
	assert.Equal(t, StateNew, list[1].State)

	// AND terminating again is a conflict
	assert.ErrorIs(t, m.TerminateProcess(1), sim.ErrStateConflict)
	assert.ErrorIs(t, m.SuspendProcess(1), sim.ErrStateConflict)
	assert.ErrorIs(t, m.TerminateProcess(5), sim.ErrNotFound)
}

func TestCreateProcess_ReusesTerminatedID(t *testing.T) {
	// GIVEN process 1 created and terminated
	mem := newTestMemory(8)
	m, _ := newTestManager(t, PolicyRoundRobin, 2, mem)
	require.NoError(t, m.CreateProcess(1, 5, 0, 0, 2))
	require.NoError(t, m.TerminateProcess(1))

	// WHEN the id is created again
	err := m.CreateProcess(1, 3, 4, 2, 1)

	// THEN a fresh New record replaces the terminated one
	require.NoError(t, err)
	p, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, StateNew, p.State)
	assert.Equal(t, 3, p.Remaining)
	assert.Equal(t, 2, p.Priority)
	assert.Len(t, m.ListProcesses(), 1)
	assert.Equal(t, 1, mem.UsedPages())

	// AND the new record behaves like any live process
	state, err := m.ExecuteProcess(1)
	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
	require.NoError(t, m.TerminateProcess(1))
	assert.ErrorIs(t, m.TerminateProcess(1), sim.ErrStateConflict)
}

func TestDispatch_CancelledSliceChargesElapsedUnits(t *testing.T) {
	// GIVEN a process whose single slice lasts 10 units of 50ms
	cfg := DefaultConfig()
	cfg.Quantum = 10
	cfg.TimeUnit = 50 * time.Millisecond
	m := NewManager(cfg, nil, nil)
	enqueue(t, m, 1, 10)

	// WHEN the dispatch is cancelled after about two units
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	res, err := m.dispatch(ctx)

	// THEN only the elapsed whole units are charged and the process is queued again
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.GreaterOrEqual(t, res.Slice, 2)
	assert.Less(t, res.Slice, 10)
	assert.Equal(t, 10-res.Slice, res.Remaining)
	assert.False(t, res.Completed)
	p, _ := m.Get(1)
	assert.Equal(t, res.Remaining, p.Remaining)
	assert.Equal(t, StateReady, p.State)
	assert.Equal(t, []int{1}, m.ReadyQueue())
	assert.Equal(t, 0, m.Metrics().CompletedBursts)
}

func TestDispatch_SuspendedWhileRunningIsNotRequeued(t *testing.T) {
	// GIVEN a manager where one time unit lasts 20ms
	cfg := DefaultConfig()
	cfg.Quantum = 2
	cfg.TimeUnit = 20 * time.Millisecond
	m := NewManager(cfg, nil, nil)
	enqueue(t, m, 1, 6)

	// WHEN the process is suspended while its slice runs
	results := make(chan *DispatchResult, 1)
	go func() {
		res, _ := m.Dispatch()
		results <- res
	}()
	require.Eventually(t, func() bool {
		p, _ := m.Get(1)
		return p.State == StateRunning
	}, time.Second, time.Millisecond)
	require.NoError(t, m.SuspendProcess(1))
	res := <-results

	// THEN the slice is accounted but the process stays suspended off the queue
	require.NotNil(t, res)
	assert.Equal(t, 4, res.Remaining)
	p, _ := m.Get(1)
	assert.Equal(t, StateSuspended, p.State)
	assert.Empty(t, m.ReadyQueue())
}

func TestScheduler_BackgroundLoop(t *testing.T) {
	// GIVEN a started loop with auto-execute enabled
	m, _ := newTestManager(t, PolicyRoundRobin, 2, nil)
	m.SetAutoExecute(true)
	require.NoError(t, m.StartScheduler(context.Background()))
	assert.True(t, m.SchedulerRunning())
	assert.ErrorIs(t, m.StartScheduler(context.Background()), sim.ErrStateConflict)

	// WHEN a process is executed
	require.NoError(t, m.CreateProcess(1, 5, 0, 0, 0))
	state, err := m.ExecuteProcess(1)
	require.NoError(t, err)
	assert.Equal(t, StateReady, state, "execute only enqueues when the loop dispatches")

	// THEN the loop drives it to completion
	require.Eventually(t, func() bool {
		p, _ := m.Get(1)
		return p.Remaining == 0
	}, 2*time.Second, 5*time.Millisecond)

	// AND stopping joins the loop; stopping twice is harmless
	m.StopScheduler()
	m.StopScheduler()
	assert.False(t, m.SchedulerRunning())
	assert.Equal(t, 3, m.Metrics().Dispatches)
}

func TestScheduler_ContextCancelEndsLoop(t *testing.T) {
	m, _ := newTestManager(t, PolicyRoundRobin, 2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.StartScheduler(ctx))

	cancel()

	require.Eventually(t, func() bool { return !m.SchedulerRunning() }, time.Second, time.Millisecond)
	require.NoError(t, m.StartScheduler(context.Background()), "a loop ended by its context can be restarted")
	m.StopScheduler()
}

func TestScheduler_AutoExecuteOffLeavesQueue(t *testing.T) {
	m, _ := newTestManager(t, PolicyRoundRobin, 2, nil)
	require.NoError(t, m.StartScheduler(context.Background()))
	defer m.StopScheduler()
	enqueue(t, m, 1, 4)

	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, []int{1}, m.ReadyQueue())
	assert.Equal(t, 0, m.Metrics().Dispatches)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"sjf", func(c *Config) { c.Policy = "sjf" }, true},
		{"unknown policy", func(c *Config) { c.Policy = "edf" }, false},
		{"zero quantum", func(c *Config) { c.Quantum = 0 }, false},
		{"zero tick", func(c *Config) { c.Tick = 0 }, false},
		{"negative time unit", func(c *Config) { c.TimeUnit = -time.Millisecond }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, sim.ErrValidation)
			}
		})
	}
}
