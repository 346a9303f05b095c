package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/device"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/disk"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/memory"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/process"
	"github.com/Valesague52/Proyecto-Final-SOs/sim/trace"
)

// Step is one scripted operation. Op selects the operation; the other
// fields are its arguments and are ignored when irrelevant.
type Step struct {
	Op string `yaml:"op"`

	ID       int    `yaml:"id"`
	Burst    int    `yaml:"burst"`
	Arrival  int    `yaml:"arrival"`
	Priority int    `yaml:"priority"`
	Pages    int    `yaml:"pages"`
	Page     int    `yaml:"page"`
	Policy   string `yaml:"policy"`
	Quantum  int    `yaml:"quantum"`
	Window   int64  `yaml:"window"`
	Count    int    `yaml:"count"`
	On       bool   `yaml:"on"`

	Track     int    `yaml:"track"`
	Head      int    `yaml:"head"`
	Algorithm string `yaml:"algorithm"`

	Device    string        `yaml:"device"`
	Payload   string        `yaml:"payload"`
	Duration  time.Duration `yaml:"duration"`
	Interrupt string        `yaml:"interrupt"`
	Data      int           `yaml:"data"`
}

// Scenario is a scripted session against every manager.
type Scenario struct {
	Steps []Step `yaml:"steps"`
}

// LoadScenario reads a scenario file with strict field checking.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	if err := decodeStrict(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Kernel wires the managers together the way the console driver uses them.
type Kernel struct {
	Trace     *trace.SimulationTrace
	Memory    *memory.Manager
	Processes *process.Manager
	Disk      *disk.Scheduler
	Devices   *device.Subsystem
}

// NewKernel builds every manager from cfg. Panics on an invalid configuration.
func NewKernel(cfg Config) *Kernel {
	st := trace.NewSimulationTrace(cfg.Trace)
	mem := memory.NewManager(cfg.Memory, st)
	return &Kernel{
		Trace:     st,
		Memory:    mem,
		Processes: process.NewManager(cfg.Process, mem, st),
		Disk:      disk.NewScheduler(cfg.Disk, st),
		Devices:   device.NewSubsystem(cfg.Device),
	}
}

// Start launches the device workers.
func (k *Kernel) Start(ctx context.Context) error {
	return k.Devices.Start(ctx)
}

// Shutdown stops the scheduler loop and the device workers, waiting for both.
func (k *Kernel) Shutdown() {
	k.Processes.StopScheduler()
	k.Devices.Shutdown()
}

// errUnknownOp is returned for a step whose op is not recognized.
var errUnknownOp = errors.New("unknown op")

// Apply executes one step.
func (k *Kernel) Apply(ctx context.Context, s Step) error {
	switch s.Op {
	// processes
	case "create":
		return k.Processes.CreateProcess(s.ID, s.Burst, s.Arrival, s.Priority, s.Pages)
	case "execute":
		_, err := k.Processes.ExecuteProcess(s.ID)
		return err
	case "suspend":
		return k.Processes.SuspendProcess(s.ID)
	case "resume":
		return k.Processes.ResumeProcess(s.ID)
	case "terminate":
		return k.Processes.TerminateProcess(s.ID)
	case "dispatch":
		for i := 0; i < max(1, s.Count); i++ {
			if _, err := k.Processes.Dispatch(); err != nil {
				return err
			}
		}
		return nil
	case "scheduler":
		return k.Processes.SetScheduler(process.Policy(s.Policy), s.Quantum)
	case "auto_execute":
		k.Processes.SetAutoExecute(s.On)
		return nil
	case "start_scheduler":
		return k.Processes.StartScheduler(ctx)
	case "stop_scheduler":
		k.Processes.StopScheduler()
		return nil
	case "sleep":
		select {
		case <-time.After(s.Duration):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

	// memory
	case "allocate":
		return k.Memory.Allocate(s.Pages, s.ID)
	case "free":
		_, err := k.Memory.Free(s.Pages, s.ID)
		return err
	case "free_all":
		k.Memory.FreeProcessPages(s.ID)
		return nil
	case "access", "write":
		return k.access(s)
	case "replacement":
		return k.Memory.SetReplacementPolicy(memory.Policy(s.Policy))
	case "window":
		return k.Memory.SetWorkingSetWindow(s.Window)

	// disk
	case "disk_request":
		return k.Disk.AddRequest(s.Track, s.ID)
	case "disk_algorithm":
		return k.Disk.SetAlgorithm(disk.Algorithm(s.Algorithm))
	case "disk_head":
		return k.Disk.SetHeadPosition(s.Head)
	case "disk_schedule":
		_, err := k.Disk.Schedule()
		return err
	case "disk_compare":
		_, err := k.Disk.CompareAlgorithms()
		return err
	case "disk_clear":
		k.Disk.ClearRequests()
		return nil

	// devices
	case "io":
		kind, err := device.ParseKind(s.Device)
		if err != nil {
			return err
		}
		return k.Devices.RequestIO(s.ID, kind, s.Payload, s.Priority, s.Duration)
	case "interrupt":
		kind, err := device.ParseInterruptKind(s.Interrupt)
		if err != nil {
			return err
		}
		return k.Devices.GenerateInterrupt(kind, s.ID, s.Data)
	case "process_interrupt":
		_, err := k.Devices.ProcessNextInterrupt()
		return err
	case "verbose":
		k.Devices.SetVerbose(s.On)
		return nil
	default:
		return fmt.Errorf("step %q: %w: %w", s.Op, errUnknownOp, sim.ErrValidation)
	}
}

// access touches a page and raises a PageFault interrupt on a miss.
func (k *Kernel) access(s Step) error {
	var (
		res memory.AccessResult
		err error
	)
	if s.Op == "write" {
		res, err = k.Memory.WritePage(s.ID, s.Page)
	} else {
		res, err = k.Memory.AccessPage(s.ID, s.Page)
	}
	if err != nil {
		return err
	}
	if !res.Hit {
		return k.Devices.GenerateInterrupt(device.InterruptPageFault, s.ID, s.Page)
	}
	return nil
}

// Run applies every step in order. Failed steps are logged and skipped,
// like a rejected menu command; the number of failures is returned.
func (k *Kernel) Run(ctx context.Context, sc *Scenario) int {
	failed := 0
	for i, s := range sc.Steps {
		if ctx.Err() != nil {
			break
		}
		if err := k.Apply(ctx, s); err != nil {
			failed++
			logrus.Warnf("step %d (%s): %v", i+1, s.Op, err)
		}
	}
	return failed
}

// WaitIdle blocks until every device lane is empty and idle or timeout elapses.
// With the devices stopped nothing drains, so it reports immediately.
func (k *Kernel) WaitIdle(timeout time.Duration, poll time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		idle := true
		for _, l := range k.Devices.Lanes() {
			if l.Pending > 0 || l.Busy {
				idle = false
				break
			}
		}
		if idle {
			return true
		}
		if !k.Devices.Running() || time.Now().After(deadline) {
			return false
		}
		time.Sleep(poll)
	}
}
