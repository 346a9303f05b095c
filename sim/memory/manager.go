// sim/memory/manager.go
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Workiva/go-datastructures/bitarray"
	"github.com/sirupsen/logrus"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/trace"
)

// fifoEntry remembers the load order of a frame. An entry is stale once the
// frame was freed or reloaded (its loadSeq no longer matches).
type fifoEntry struct {
	frame int
	seq   uint64
}

// Eviction describes the page that a fault displaced.
type Eviction struct {
	Frame   int
	Process int
	Page    int
	Dirty   bool // the victim had been written and would need a write-back
}

// AccessResult reports the outcome of one page access.
type AccessResult struct {
	Hit     bool
	Frame   int       // frame now holding the page
	Evicted *Eviction // non-nil when the fault replaced a resident page
}

// Manager owns the frame table and implements allocation and demand paging.
// All state lives behind one mutex; callers that also hold another manager's
// lock must acquire that lock first (process → memory).
type Manager struct {
	mu sync.Mutex

	frames   []Frame
	occupied bitarray.BitArray // bit i set iff frames[i] is bound
	used     int               // number of bound frames (tracked incrementally)

	policy Policy
	window int64
	clock  int64 // logical time, advanced on every tracked access

	fifo    []fifoEntry // load order, oldest first
	loadSeq uint64

	hits      int64
	faults    int64
	evictions int64

	trace *trace.SimulationTrace
}

// NewManager initializes a frame table with every frame free.
// Panics on an invalid configuration; validate with Config.Validate first.
func NewManager(cfg Config, st *trace.SimulationTrace) *Manager {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("memory.NewManager: %v", err))
	}
	m := &Manager{
		frames:   make([]Frame, cfg.TotalFrames),
		occupied: bitarray.NewBitArray(uint64(cfg.TotalFrames)),
		policy:   Policy(cfg.Policy),
		window:   cfg.WorkingSetWindow,
		trace:    st,
	}
	for i := range m.frames {
		m.frames[i].Index = i
		m.frames[i].reset()
	}
	return m
}

// tick advances logical time and returns the new timestamp.
func (m *Manager) tick() int64 {
	m.clock++
	return m.clock
}

func (m *Manager) isOccupied(i int) bool {
	set, err := m.occupied.GetBit(uint64(i))
	if err != nil {
		panic(fmt.Sprintf("frame %d outside bitmap: %v", i, err))
	}
	return set
}

func (m *Manager) setOccupied(i int, on bool) {
	var err error
	if on {
		err = m.occupied.SetBit(uint64(i))
	} else {
		err = m.occupied.ClearBit(uint64(i))
	}
	if err != nil {
		panic(fmt.Sprintf("frame %d outside bitmap: %v", i, err))
	}
}

// firstFreeFrame returns the lowest free frame index, or -1.
func (m *Manager) firstFreeFrame() int {
	for i := range m.frames {
		if !m.isOccupied(i) {
			return i
		}
	}
	return -1
}

// load binds frame i to (pid, page) and stamps it with a fresh timestamp.
// The caller adjusts the used count.
func (m *Manager) load(i, pid, page int) {
	f := &m.frames[i]
	f.reset()
	f.Owner = pid
	f.Page = page
	f.record(m.tick())
	m.loadSeq++
	f.loadSeq = m.loadSeq
	m.fifo = append(m.fifo, fifoEntry{frame: i, seq: f.loadSeq})
	m.setOccupied(i, true)
	if len(m.fifo) > 2*len(m.frames) {
		m.compactFIFO()
	}
}

// compactFIFO drops stale load-order entries, keeping relative order.
func (m *Manager) compactFIFO() {
	live := m.fifo[:0]
	for _, e := range m.fifo {
		f := &m.frames[e.frame]
		if !f.IsFree() && f.loadSeq == e.seq {
			live = append(live, e)
		}
	}
	m.fifo = live
}

// release unbinds frame i and decrements the used count.
func (m *Manager) release(i int) {
	m.frames[i].reset()
	m.setOccupied(i, false)
	if m.used > 0 {
		m.used--
	}
}

// nextPage returns the first virtual page ID after the highest one pid holds.
func (m *Manager) nextPage(pid int) int {
	next := 0
	for i := range m.frames {
		if m.frames[i].Owner == pid && m.frames[i].Page >= next {
			next = m.frames[i].Page + 1
		}
	}
	return next
}

// Allocate binds pages free frames to pid. It fails without changing any
// state when fewer than pages frames are free.
func (m *Manager) Allocate(pages, pid int) error {
	if pages < 0 || pid < 0 {
		return fmt.Errorf("allocate %d pages for process %d: %w", pages, pid, sim.ErrValidation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	free := len(m.frames) - m.used
	if pages > free {
		return fmt.Errorf("allocate %d pages for process %d: only %d of %d frames free: %w",
			pages, pid, free, len(m.frames), sim.ErrResourceExhausted)
	}

	page := m.nextPage(pid)
	allocated := 0
	for i := range m.frames {
		if allocated == pages {
			break
		}
		if m.isOccupied(i) {
			continue
		}
		m.load(i, pid, page)
		m.used++
		page++
		allocated++
	}
	logrus.Debugf("memory: allocated %d pages to process %d (%d/%d used)", allocated, pid, m.used, len(m.frames))
	return nil
}

// Free releases at most pages frames owned by pid, lowest frame first, and
// returns how many were released.
func (m *Manager) Free(pages, pid int) (int, error) {
	if pages < 0 {
		return 0, fmt.Errorf("free %d pages for process %d: %w", pages, pid, sim.ErrValidation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	freed := m.freeLocked(pages, pid)
	logrus.Debugf("memory: freed %d pages of process %d", freed, pid)
	return freed, nil
}

// FreeProcessPages releases every frame owned by pid and returns the count.
func (m *Manager) FreeProcessPages(pid int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	freed := m.freeLocked(len(m.frames), pid)
	logrus.Debugf("memory: freed all %d pages of process %d", freed, pid)
	return freed
}

func (m *Manager) freeLocked(limit, pid int) int {
	freed := 0
	for i := range m.frames {
		if freed == limit {
			break
		}
		if m.frames[i].Owner == pid {
			m.release(i)
			freed++
		}
	}
	return freed
}

// AccessPage reads virtual page of pid, loading it on a fault.
func (m *Manager) AccessPage(pid, page int) (AccessResult, error) {
	return m.access(pid, page, false)
}

// WritePage is AccessPage that also marks the frame as modified.
func (m *Manager) WritePage(pid, page int) (AccessResult, error) {
	return m.access(pid, page, true)
}

func (m *Manager) access(pid, page int, write bool) (AccessResult, error) {
	if pid < 0 || page < 0 {
		return AccessResult{}, fmt.Errorf("access page %d of process %d: %w", page, pid, sim.ErrValidation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.frames {
		f := &m.frames[i]
		if f.Owner == pid && f.Page == page {
			f.record(m.tick())
			if write {
				f.Modified = true
			}
			m.hits++
			logrus.Debugf("memory: HIT page %d of process %d in frame %d", page, pid, i)
			return AccessResult{Hit: true, Frame: i}, nil
		}
	}

	m.faults++
	result := AccessResult{Frame: m.firstFreeFrame()}
	if result.Frame >= 0 {
		m.load(result.Frame, pid, page)
		m.used++
	} else {
		victim := m.selectVictim()
		old := m.frames[victim]
		result.Frame = victim
		result.Evicted = &Eviction{Frame: victim, Process: old.Owner, Page: old.Page, Dirty: old.Modified}
		m.evictions++
		m.load(victim, pid, page)
		m.trace.RecordEviction(trace.EvictionRecord{
			Tick:          m.clock,
			Frame:         victim,
			Policy:        string(m.policy),
			VictimProcess: old.Owner,
			VictimPage:    old.Page,
			LoadedProcess: pid,
			LoadedPage:    page,
		})
		logrus.Debugf("memory: replaced page %d of process %d in frame %d (%s)", old.Page, old.Owner, victim, m.policy)
	}
	if write {
		m.frames[result.Frame].Modified = true
	}
	logrus.Debugf("memory: PAGE FAULT page %d of process %d -> frame %d", page, pid, result.Frame)
	return result, nil
}

// selectVictim picks the frame to replace. Only called when every frame is bound.
func (m *Manager) selectVictim() int {
	switch m.policy {
	case PolicyFIFO:
		if v := m.fifoVictim(); v >= 0 {
			return v
		}
		return m.lruVictim()
	case PolicyLRU:
		return m.lruVictim()
	case PolicyWorkingSet:
		return m.workingSetVictim()
	default:
		panic(fmt.Sprintf("unhandled replacement policy %q", string(m.policy)))
	}
}

// fifoVictim pops the load-order record until it finds a frame still holding
// the page it was recorded for.
func (m *Manager) fifoVictim() int {
	for len(m.fifo) > 0 {
		e := m.fifo[0]
		m.fifo = m.fifo[1:]
		if m.isOccupied(e.frame) && m.frames[e.frame].loadSeq == e.seq {
			return e.frame
		}
	}
	return -1
}

// lruVictim returns the bound frame with the smallest LastUsed (lowest index on ties).
func (m *Manager) lruVictim() int {
	victim := -1
	for i := range m.frames {
		if !m.isOccupied(i) {
			continue
		}
		if victim == -1 || m.frames[i].LastUsed < m.frames[victim].LastUsed {
			victim = i
		}
	}
	return victim
}

// workingSetVictim returns the oldest bound frame with no access inside the
// window, or the LRU frame when every frame belongs to the working set.
func (m *Manager) workingSetVictim() int {
	victim := -1
	for i := range m.frames {
		if !m.isOccupied(i) || m.frames[i].recentAccesses(m.clock, m.window) > 0 {
			continue
		}
		if victim == -1 || m.frames[i].LastUsed < m.frames[victim].LastUsed {
			victim = i
		}
	}
	if victim == -1 {
		return m.lruVictim()
	}
	return victim
}

// SetReplacementPolicy switches the policy used by future faults.
func (m *Manager) SetReplacementPolicy(p Policy) error {
	if !validPolicies[p] {
		return fmt.Errorf("unknown replacement policy %q: %w", string(p), sim.ErrValidation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policy = p
	logrus.Infof("memory: replacement policy set to %s", p)
	return nil
}

// SetWorkingSetWindow sets the trailing window, in logical ticks.
func (m *Manager) SetWorkingSetWindow(window int64) error {
	if window <= 0 {
		return fmt.Errorf("working set window must be positive, got %d: %w", window, sim.ErrValidation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.window = window
	logrus.Infof("memory: working set window set to %d ticks", window)
	return nil
}

// ReplacementPolicy returns the active policy.
func (m *Manager) ReplacementPolicy() Policy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.policy
}

// WorkingSetWindow returns the active window.
func (m *Manager) WorkingSetWindow() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.window
}

// UsedPages returns the number of bound frames.
func (m *Manager) UsedPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}

// TotalPages returns the physical capacity in frames.
func (m *Manager) TotalPages() int {
	return len(m.frames)
}

// FreePages returns the number of unbound frames.
func (m *Manager) FreePages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames) - m.used
}

// Clock returns the current logical time.
func (m *Manager) Clock() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock
}

// Statistics returns the cumulative hit/fault counters.
func (m *Manager) Statistics() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return newStatistics(m.hits, m.faults, m.evictions)
}

// Frames returns a deep copy of the frame table.
func (m *Manager) Frames() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Frame, len(m.frames))
	for i := range m.frames {
		out[i] = m.frames[i].clone()
	}
	return out
}

// PagesByProcess returns the number of frames each process holds.
func (m *Manager) PagesByProcess() map[int]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	dist := make(map[int]int)
	for i := range m.frames {
		if !m.frames[i].IsFree() {
			dist[m.frames[i].Owner]++
		}
	}
	return dist
}

// ResidentPages returns the sorted virtual pages of pid currently in memory.
func (m *Manager) ResidentPages(pid int) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pages []int
	for i := range m.frames {
		if m.frames[i].Owner == pid {
			pages = append(pages, m.frames[i].Page)
		}
	}
	sort.Ints(pages)
	return pages
}
