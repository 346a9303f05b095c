package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/trace"
)

func newTestScheduler(t *testing.T, head int, alg Algorithm, tracks ...int) *Scheduler {
	t.Helper()
	s := NewScheduler(Config{Head: head, Algorithm: string(alg)}, nil)
	for i, tr := range tracks {
		require.NoError(t, s.AddRequest(tr, i+1))
	}
	return s
}

func visited(run Run) []int {
	out := make([]int, 0, len(run.Steps))
	for _, st := range run.Steps {
		out = append(out, st.Track)
	}
	return out
}

func TestSchedule_Algorithms(t *testing.T) {
	tests := []struct {
		alg       Algorithm
		head      int
		tracks    []int
		wantOrder []int
		wantMoves []int
		wantTotal int
	}{
		{AlgorithmFCFS, 50, []int{10, 90, 30}, []int{10, 90, 30}, []int{40, 80, 60}, 180},
		{AlgorithmSSTF, 50, []int{10, 90, 30}, []int{30, 10, 90}, []int{20, 20, 80}, 120},
		{AlgorithmSCAN, 50, []int{10, 90, 30}, []int{90, 30, 10}, []int{40, 60, 20}, 120},
		{AlgorithmSCAN, 50, []int{50, 60, 40}, []int{50, 60, 40}, []int{0, 10, 20}, 30},
		{AlgorithmSCAN, 199, []int{5, 100}, []int{100, 5}, []int{99, 95}, 194},
		{AlgorithmSSTF, 50, []int{60, 40}, []int{60, 40}, []int{10, 20}, 30},
	}
	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			s := newTestScheduler(t, tt.head, tt.alg, tt.tracks...)

			run, err := s.Schedule()

			require.NoError(t, err)
			assert.Equal(t, tt.wantOrder, visited(run))
			moves := make([]int, 0, len(run.Steps))
			for _, st := range run.Steps {
				moves = append(moves, st.Movement)
			}
			assert.Equal(t, tt.wantMoves, moves)
			assert.Equal(t, tt.wantTotal, run.Total)
			assert.Equal(t, tt.head, s.HeadPosition(), "a run never moves the head")
			assert.Len(t, s.Requests(), len(tt.tracks), "a run never consumes requests")
		})
	}
}

func TestSSTF_FromFifty(t *testing.T) {
	// GIVEN head 50 and pending tracks 10, 90, 30
	s := newTestScheduler(t, 50, AlgorithmSSTF, 10, 90, 30)

	// WHEN scheduled
	run, err := s.Schedule()

	// THEN the nearest-first order is 30, 10, 90
	require.NoError(t, err)
	assert.Equal(t, []int{30, 10, 90}, visited(run))
	assert.Equal(t, []int{3, 1, 2}, []int{run.Steps[0].ProcessID, run.Steps[1].ProcessID, run.Steps[2].ProcessID})
}

func TestSchedule_NoRequests(t *testing.T) {
	s := newTestScheduler(t, 0, AlgorithmFCFS)
	_, err := s.Schedule()
	assert.ErrorIs(t, err, sim.ErrStateConflict)
	_, err = s.CompareAlgorithms()
	assert.ErrorIs(t, err, sim.ErrStateConflict)
}

func TestSchedule_RecordsHistoryAndTrace(t *testing.T) {
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	s := NewScheduler(Config{Head: 50, Algorithm: "scan"}, st)
	require.NoError(t, s.AddRequest(10, 1))
	require.NoError(t, s.AddRequest(90, 2))

	_, err := s.Schedule()
	require.NoError(t, err)

	v := s.Visualization()
	assert.Equal(t, []int{50, 90, 10}, v.History)
	assert.Equal(t, 120, v.Total)
	assert.Equal(t, []trace.SeekRecord{{Algorithm: "scan", Start: 50, Visited: []int{90, 10}, Total: 120}}, st.Seeks())

	// WHEN cleared, history goes too
	s.ClearRequests()
	v = s.Visualization()
	assert.Empty(t, v.Pending)
	assert.Empty(t, v.History)
	assert.Equal(t, 0, v.Total)
}

func TestCompareAlgorithms(t *testing.T) {
	tests := []struct {
		name   string
		head   int
		tracks []int
		totals map[Algorithm]int
		best   Algorithm
	}{
		{
			name:   "sstf ties scan and wins",
			head:   50,
			tracks: []int{10, 90, 30},
			totals: map[Algorithm]int{AlgorithmFCFS: 180, AlgorithmSSTF: 120, AlgorithmSCAN: 120},
			best:   AlgorithmSSTF,
		},
		{
			name:   "all tied prefers sstf",
			head:   0,
			tracks: []int{10, 20},
			totals: map[Algorithm]int{AlgorithmFCFS: 20, AlgorithmSSTF: 20, AlgorithmSCAN: 20},
			best:   AlgorithmSSTF,
		},
		{
			name:   "scan beats sstf",
			head:   50,
			tracks: []int{44, 57, 35},
			totals: map[Algorithm]int{AlgorithmFCFS: 41, AlgorithmSSTF: 37, AlgorithmSCAN: 29},
			best:   AlgorithmSCAN,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler(t, tt.head, AlgorithmFCFS, tt.tracks...)

			c, err := s.CompareAlgorithms()

			require.NoError(t, err)
			assert.Equal(t, tt.totals, c.Totals)
			assert.Equal(t, tt.best, c.Best)
			assert.Equal(t, tt.head, s.HeadPosition())
		})
	}
}

func TestValidation(t *testing.T) {
	s := newTestScheduler(t, 0, AlgorithmFCFS)

	assert.ErrorIs(t, s.AddRequest(-1, 1), sim.ErrValidation)
	assert.ErrorIs(t, s.AddRequest(200, 1), sim.ErrValidation)
	assert.NoError(t, s.AddRequest(199, 1))
	assert.ErrorIs(t, s.SetHeadPosition(200), sim.ErrValidation)
	assert.ErrorIs(t, s.SetAlgorithm("look"), sim.ErrValidation)
	assert.Equal(t, AlgorithmFCFS, s.Algorithm())
	assert.Len(t, s.Requests(), 1)

	assert.Panics(t, func() { NewScheduler(Config{Head: 500, Algorithm: "fcfs"}, nil) })
	assert.Panics(t, func() { NewScheduler(Config{Algorithm: "elevator"}, nil) })
}

func TestAlgorithm_Names(t *testing.T) {
	assert.Equal(t, []string{"fcfs", "scan", "sstf"}, ValidAlgorithmNames())
	assert.True(t, IsValidAlgorithm("scan"))
	assert.Panics(t, func() { _ = Algorithm("c-look").String() })
}
