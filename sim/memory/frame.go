package memory

// FreeOwner marks a frame that is not bound to any process.
const FreeOwner = -1

// historyCap bounds the per-frame access history used by the working-set policy.
const historyCap = 10

// Frame is one physical page of memory.
// A frame is bound to at most one (process, virtual page) pair at a time;
// Owner == FreeOwner if and only if the frame is not counted as used.
type Frame struct {
	Index      int     // Position in the frame table
	Owner      int     // Owning process ID, or FreeOwner
	Page       int     // Virtual page ID within the owner, -1 when free
	Referenced bool    // Set on load and on every access
	Modified   bool    // Set by writes; cleared on load
	LastUsed   int64   // Logical timestamp of the latest access
	History    []int64 // Most recent access timestamps, oldest first, at most historyCap entries

	loadSeq uint64 // bumped on every load; lets the FIFO order skip reassigned frames
}

// IsFree reports whether the frame is unbound.
func (f *Frame) IsFree() bool {
	return f.Owner == FreeOwner
}

// recentAccesses counts history entries newer than the window boundary.
func (f *Frame) recentAccesses(now, window int64) int {
	n := 0
	for _, t := range f.History {
		if t > now-window {
			n++
		}
	}
	return n
}

func (f *Frame) record(t int64) {
	f.Referenced = true
	f.LastUsed = t
	f.History = append(f.History, t)
	if len(f.History) > historyCap {
		f.History = append(f.History[:0:0], f.History[len(f.History)-historyCap:]...)
	}
}

func (f *Frame) reset() {
	f.Owner = FreeOwner
	f.Page = -1
	f.Referenced = false
	f.Modified = false
	f.History = nil
}

func (f Frame) clone() Frame {
	f.History = append([]int64(nil), f.History...)
	return f
}
