package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Valesague52/Proyecto-Final-SOs/sim/device"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/disk"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/memory"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/process"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/syncprim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/trace"
)

// mapColumns is the width of the disk map, in tracks per row.
const mapColumns = 20

func printProcesses(w io.Writer, policy process.Policy, procs []process.Process, m process.Metrics) {
	fmt.Fprintf(w, "=== Processes (%s) ===\n", policy)
	fmt.Fprintf(w, "%-5s %-11s %-6s %-9s %-4s %-5s %-5s\n", "PID", "STATE", "BURST", "REMAINING", "PRI", "PAGES", "WAIT")
	for _, p := range procs {
		fmt.Fprintf(w, "%-5d %-11s %-6d %-9d %-4d %-5d %-5d\n", p.ID, p.State, p.Burst, p.Remaining, p.Priority, p.Pages, p.WaitTime)
	}
	fmt.Fprintf(w, "Dispatches           : %d\n", m.Dispatches)
	fmt.Fprintf(w, "Context Switches     : %d\n", m.ContextSwitches)
	fmt.Fprintf(w, "Completed Bursts     : %d\n", m.CompletedBursts)
	fmt.Fprintf(w, "Average Wait         : %.2f units\n", m.AverageWait)
}

func printMemory(w io.Writer, mem *memory.Manager) {
	used, total := mem.UsedPages(), mem.TotalPages()
	fmt.Fprintln(w, "=== Memory ===")
	fmt.Fprintf(w, "Policy               : %s (window %d)\n", mem.ReplacementPolicy(), mem.WorkingSetWindow())
	fmt.Fprintf(w, "Used Frames          : %d/%d (%.1f%%)\n", used, total, 100*float64(used)/float64(total))
	fmt.Fprintf(w, "Logical Clock        : %d\n", mem.Clock())
	dist := mem.PagesByProcess()
	pids := make([]int, 0, len(dist))
	for pid := range dist {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	for _, pid := range pids {
		fmt.Fprintf(w, "  process %d: %d pages\n", pid, dist[pid])
	}
	s := mem.Statistics()
	fmt.Fprintf(w, "Accesses             : %d (hits %d, faults %d, evictions %d)\n", s.Accesses, s.Hits, s.Faults, s.Evictions)
	fmt.Fprintf(w, "Hit Rate             : %.2f%%\n", 100*s.HitRate)
	fmt.Fprintf(w, "Fault Rate           : %.2f%%\n", 100*s.FaultRate)
}

func printPageTable(w io.Writer, frames []memory.Frame) {
	fmt.Fprintln(w, "=== Page Table ===")
	fmt.Fprintf(w, "%-6s %-8s %-5s %-4s %-4s %-8s\n", "FRAME", "PROCESS", "PAGE", "REF", "MOD", "LASTUSED")
	for _, f := range frames {
		if f.IsFree() {
			fmt.Fprintf(w, "%-6d %-8s\n", f.Index, "free")
			continue
		}
		fmt.Fprintf(w, "%-6d %-8d %-5d %-4s %-4s %-8d\n", f.Index, f.Owner, f.Page, flag(f.Referenced), flag(f.Modified), f.LastUsed)
	}
}

func flag(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printRun(w io.Writer, run disk.Run) {
	fmt.Fprintf(w, "=== Disk Schedule: %s ===\n", run.Algorithm)
	cur := run.Start
	for _, st := range run.Steps {
		fmt.Fprintf(w, "%3d -> %3d  (process %d, movement %d)\n", cur, st.Track, st.ProcessID, st.Movement)
		cur = st.Track
	}
	fmt.Fprintf(w, "Total Movement       : %d tracks\n", run.Total)
}

func printComparison(w io.Writer, c disk.Comparison) {
	fmt.Fprintf(w, "=== Algorithm Comparison (head %d) ===\n", c.Start)
	for _, name := range disk.ValidAlgorithmNames() {
		a := disk.Algorithm(name)
		fmt.Fprintf(w, "%-5s: %d tracks\n", strings.ToUpper(name), c.Totals[a])
	}
	fmt.Fprintf(w, "Best                 : %s\n", strings.ToUpper(string(c.Best)))
}

func printDiskMap(w io.Writer, v disk.Visualization) {
	fmt.Fprintf(w, "=== Disk Map (tracks %d-%d, head %d) ===\n", disk.MinTrack, disk.MaxTrack, v.Head)
	requested := make(map[int]bool, len(v.Pending))
	for _, r := range v.Pending {
		requested[r.Track] = true
	}
	for track := disk.MinTrack; track <= disk.MaxTrack; track++ {
		switch {
		case track == v.Head:
			fmt.Fprint(w, "[H]")
		case requested[track]:
			fmt.Fprint(w, "[X]")
		default:
			fmt.Fprint(w, "[ ]")
		}
		if (track-disk.MinTrack+1)%mapColumns == 0 {
			fmt.Fprintln(w)
		}
	}
	if len(v.History) > 0 {
		hops := make([]string, len(v.History))
		for i, h := range v.History {
			hops[i] = fmt.Sprint(h)
		}
		fmt.Fprintf(w, "History              : %s\n", strings.Join(hops, " -> "))
		fmt.Fprintf(w, "Total Movement       : %d tracks\n", v.Total)
	}
}

func printDevices(w io.Writer, lanes []device.LaneStatus, completed int64) {
	fmt.Fprintln(w, "=== Device Queues ===")
	for _, l := range lanes {
		state := "idle"
		if l.Busy {
			state = "busy"
		}
		fmt.Fprintf(w, "%-9s: %d pending, %s\n", l.Kind, l.Pending, state)
		for _, r := range l.Head {
			fmt.Fprintf(w, "   - process %d (priority %d, %s)\n", r.ProcessID, r.Priority, r.Duration)
		}
		if l.Pending > len(l.Head) {
			fmt.Fprintf(w, "   ... and %d more\n", l.Pending-len(l.Head))
		}
	}
	fmt.Fprintf(w, "Completed Requests   : %d\n", completed)
}

func printInterrupts(w io.Writer, pending []device.Interrupt) {
	fmt.Fprintf(w, "=== Interrupts (%d pending) ===\n", len(pending))
	for i, in := range pending {
		fmt.Fprintf(w, "%d. %s - process %d (data %d)\n", i+1, in.Kind, in.ProcessID, in.Data)
	}
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Dispatches           : %d (%d completed bursts)\n", s.TotalDispatches, s.CompletedBursts)
	fmt.Fprintf(w, "Evictions            : %d\n", s.TotalEvictions)
	for _, name := range memory.ValidPolicyNames() {
		if n := s.EvictionsPerPolicy[name]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", name, n)
		}
	}
	fmt.Fprintf(w, "Seek Movement        : %d tracks\n", s.TotalSeekMovement)
}

func printMeals(w io.Writer, meals []int) {
	fmt.Fprintln(w, "=== Dining Philosophers ===")
	for i, m := range meals {
		fmt.Fprintf(w, "Philosopher %d ate %d times\n", i, m)
	}
}

func printProducerConsumer(w io.Writer, r syncprim.ProducerConsumerReport, capacity int) {
	fmt.Fprintln(w, "=== Producer-Consumer ===")
	fmt.Fprintf(w, "Produced             : %d\n", r.Produced)
	fmt.Fprintf(w, "Consumed             : %d\n", r.Consumed)
	fmt.Fprintf(w, "Peak Occupancy       : %d/%d\n", r.MaxOccupancy, capacity)
	fmt.Fprintf(w, "Consumption Order    : %v\n", r.Items)
}

func printReaderWriter(w io.Writer, r syncprim.ReaderWriterReport) {
	fmt.Fprintln(w, "=== Reader-Writer ===")
	fmt.Fprintf(w, "Reads                : %d\n", r.Reads)
	fmt.Fprintf(w, "Writes               : %d\n", r.Writes)
	fmt.Fprintf(w, "Max Concurrent Reads : %d\n", r.MaxConcurrentReaders)
	fmt.Fprintf(w, "Writer Overlaps      : %d\n", r.Overlaps)
	fmt.Fprintf(w, "Final Value          : %d\n", r.LastValue)
}
