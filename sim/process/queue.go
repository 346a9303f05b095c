// Implements the ReadyQueue, which holds processes eligible for dispatch.
// Processes are enqueued when they become Ready and leave when dispatched,
// suspended or terminated.

package process

import (
	"fmt"
	"strings"
)

// ReadyQueue is a FIFO queue of processes waiting for the CPU.
// Round-robin serves it from the front; shortest-job-first scans all of it.
type ReadyQueue struct {
	queue []*Process
}

// Enqueue adds a process to the back of the ready queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	if p == nil {
		panic("Enqueue: p must not be nil")
	}
	rq.queue = append(rq.queue, p)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(fmt.Sprint(p.ID))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Peek() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	return rq.queue[0]
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage; callers MUST NOT
// append to or reslice it.
func (rq *ReadyQueue) Items() []*Process {
	return rq.queue
}

// Dequeue removes the process at the front of the queue.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Dequeue() *Process {
	return rq.RemoveAt(0)
}

// RemoveAt removes and returns the process at index i, preserving the order
// of the others. Returns nil if i is out of range.
func (rq *ReadyQueue) RemoveAt(i int) *Process {
	if i < 0 || i >= len(rq.queue) {
		return nil
	}
	p := rq.queue[i]
	rq.queue = append(rq.queue[:i], rq.queue[i+1:]...)
	return p
}

// Remove deletes the process with the given ID and reports whether it was queued.
func (rq *ReadyQueue) Remove(id int) bool {
	for i, p := range rq.queue {
		if p.ID == id {
			rq.RemoveAt(i)
			return true
		}
	}
	return false
}

// Contains reports whether the process with the given ID is queued.
func (rq *ReadyQueue) Contains(id int) bool {
	for _, p := range rq.queue {
		if p.ID == id {
			return true
		}
	}
	return false
}
