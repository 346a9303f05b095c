package device

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// headSize is how many queued requests a lane snapshot shows.
const headSize = 3

// Request is one I/O operation waiting on a device lane.
type Request struct {
	ProcessID int
	Device    Kind
	Payload   string
	Priority  int
	Duration  time.Duration
}

// Interrupt is one entry of the shared interrupt queue.
// For IOComplete interrupts Data is the index of the lane that served the request.
type Interrupt struct {
	Kind      InterruptKind
	ProcessID int
	Data      int
}

// LaneStatus is a snapshot of one lane for the queue report.
type LaneStatus struct {
	Kind    Kind
	Pending int
	Busy    bool
	Head    []Request // first queued requests, oldest first
}

type lane struct {
	kind Kind

	mu    sync.Mutex
	queue []Request
	busy  bool

	wake chan struct{} // one-slot doorbell, rung on enqueue
}

func (l *lane) take() (Request, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return Request{}, false
	}
	req := l.queue[0]
	l.queue = l.queue[1:]
	l.busy = true
	return req, true
}

// Subsystem runs one worker per device lane and collects their completion
// interrupts in a shared FIFO queue.
type Subsystem struct {
	lanes [NumLanes]*lane

	imu        sync.Mutex
	interrupts []Interrupt

	completed atomic.Int64
	verbose   atomic.Bool

	poll            time.Duration
	defaultDuration time.Duration

	mu     sync.Mutex // guards cancel
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSubsystem creates the four lanes. Workers start with Start.
// Panics on an invalid configuration.
func NewSubsystem(cfg Config) *Subsystem {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("device.NewSubsystem: %v", err))
	}
	s := &Subsystem{poll: cfg.PollInterval, defaultDuration: cfg.DefaultDuration}
	for k := KindPrinter; k <= KindKeyboard; k++ {
		s.lanes[k] = &lane{kind: k, wake: make(chan struct{}, 1)}
	}
	s.verbose.Store(cfg.Verbose)
	return s
}

// Start launches one worker per lane. Workers exit when ctx is cancelled or
// Shutdown is called.
func (s *Subsystem) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("start devices: already running: %w", sim.ErrStateConflict)
	}
	ctx, s.cancel = context.WithCancel(ctx)
	for _, l := range s.lanes {
		s.wg.Add(1)
		go s.worker(ctx, l)
	}
	logrus.Infof("device: %d lanes started", NumLanes)
	return nil
}

// Shutdown stops every worker and waits for them to return. A request being
// served is finished first. Calling Shutdown on a stopped subsystem is a no-op.
func (s *Subsystem) Shutdown() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	logrus.Infof("device: lanes stopped")
}

// Running reports whether the lane workers are started.
func (s *Subsystem) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Subsystem) worker(ctx context.Context, l *lane) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		if ctx.Err() != nil {
			return
		}
		req, ok := l.take()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-l.wake:
			case <-ticker.C:
			}
			continue
		}
		s.serve(l, req)
	}
}

func (s *Subsystem) serve(l *lane, req Request) {
	if s.verbose.Load() {
		logrus.Infof("device: %s serving process %d (%s)", l.kind, req.ProcessID, req.Duration)
	}
	time.Sleep(req.Duration)
	s.pushInterrupt(Interrupt{Kind: InterruptIOComplete, ProcessID: req.ProcessID, Data: int(l.kind)})
	l.mu.Lock()
	l.busy = false
	l.mu.Unlock()
	s.completed.Add(1)
	if s.verbose.Load() {
		logrus.Infof("device: %s completed request of process %d", l.kind, req.ProcessID)
	}
}

// RequestIO queues a request on the lane of device and wakes its worker.
// It never blocks on the device. A zero duration means the configured default.
// Requests queued while the subsystem is stopped wait for the next Start.
func (s *Subsystem) RequestIO(pid int, device Kind, payload string, priority int, duration time.Duration) error {
	if !device.Valid() {
		return fmt.Errorf("request io: device %d out of range: %w", int(device), sim.ErrValidation)
	}
	if duration < 0 {
		return fmt.Errorf("request io: negative duration %s: %w", duration, sim.ErrValidation)
	}
	if duration == 0 {
		duration = s.defaultDuration
	}
	l := s.lanes[device]
	l.mu.Lock()
	l.queue = append(l.queue, Request{ProcessID: pid, Device: device, Payload: payload, Priority: priority, Duration: duration})
	pending := len(l.queue)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	logrus.Debugf("device: queued request of process %d on %s (%d pending)", pid, device, pending)
	return nil
}

func (s *Subsystem) pushInterrupt(in Interrupt) {
	s.imu.Lock()
	defer s.imu.Unlock()
	s.interrupts = append(s.interrupts, in)
}

// GenerateInterrupt appends an interrupt to the shared queue.
func (s *Subsystem) GenerateInterrupt(kind InterruptKind, pid, data int) error {
	if !kind.Valid() {
		return fmt.Errorf("generate interrupt: kind %d out of range: %w", int(kind), sim.ErrValidation)
	}
	s.pushInterrupt(Interrupt{Kind: kind, ProcessID: pid, Data: data})
	logrus.Infof("device: interrupt %s raised for process %d", kind, pid)
	return nil
}

// ProcessNextInterrupt pops the oldest pending interrupt.
func (s *Subsystem) ProcessNextInterrupt() (Interrupt, error) {
	s.imu.Lock()
	defer s.imu.Unlock()
	if len(s.interrupts) == 0 {
		return Interrupt{}, fmt.Errorf("process interrupt: queue empty: %w", sim.ErrNotFound)
	}
	in := s.interrupts[0]
	s.interrupts = s.interrupts[1:]
	switch in.Kind {
	case InterruptTimer:
		logrus.Infof("device: TIMER interrupt, context switch")
	case InterruptIOComplete:
		logrus.Infof("device: IO_COMPLETE from lane %d, process %d may continue", in.Data, in.ProcessID)
	case InterruptPageFault:
		logrus.Infof("device: PAGE_FAULT, loading page %d for process %d", in.Data, in.ProcessID)
	case InterruptSystemCall:
		logrus.Infof("device: SYSTEM_CALL from process %d", in.ProcessID)
	default:
		panic(fmt.Sprintf("unhandled interrupt kind %d", int(in.Kind)))
	}
	return in, nil
}

// PendingInterrupts returns a copy of the interrupt queue, oldest first.
func (s *Subsystem) PendingInterrupts() []Interrupt {
	s.imu.Lock()
	defer s.imu.Unlock()
	return append([]Interrupt(nil), s.interrupts...)
}

// Lanes returns a snapshot of every lane in lane order.
func (s *Subsystem) Lanes() []LaneStatus {
	out := make([]LaneStatus, 0, NumLanes)
	for _, l := range s.lanes {
		l.mu.Lock()
		st := LaneStatus{Kind: l.kind, Pending: len(l.queue), Busy: l.busy}
		st.Head = append([]Request(nil), l.queue[:min(headSize, len(l.queue))]...)
		l.mu.Unlock()
		out = append(out, st)
	}
	return out
}

// Completed returns the number of requests served since creation.
func (s *Subsystem) Completed() int64 {
	return s.completed.Load()
}

// SetVerbose toggles per-request narration.
func (s *Subsystem) SetVerbose(on bool) {
	s.verbose.Store(on)
	logrus.Infof("device: verbose %t", on)
}

// Verbose reports whether per-request narration is on.
func (s *Subsystem) Verbose() bool {
	return s.verbose.Load()
}
