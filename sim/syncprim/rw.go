package syncprim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// ReaderWriterReport summarizes one reader-writer run.
type ReaderWriterReport struct {
	Reads                int
	Writes               int
	MaxConcurrentReaders int
	Overlaps             int // accesses that found a writer active alongside them; always 0
	LastValue            int // value left by the last writer
}

type rwState struct {
	mu      sync.Mutex
	readers int // readers inside the critical section
	writers int
	value   int
	report  ReaderWriterReport
}

func (s *rwState) enterRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readers++
	if s.writers > 0 {
		s.report.Overlaps++
	}
	s.report.MaxConcurrentReaders = max(s.report.MaxConcurrentReaders, s.readers)
}

func (s *rwState) leaveRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readers--
	s.report.Reads++
}

func (s *rwState) enterWrite(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writers++
	if s.readers > 0 || s.writers > 1 {
		s.report.Overlaps++
	}
	s.value = v
}

func (s *rwState) leaveWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writers--
	s.report.Writes++
	s.report.LastValue = s.value
}

// ReaderWriter runs the first-reader/last-reader protocol: the first reader
// in takes the write lock on behalf of all readers and the last reader out
// releases it; writers take the same lock exclusively. Writer w stores
// w*100+i on its i-th round.
func ReaderWriter(ctx context.Context, cfg ReaderWriterConfig, key sim.SimulationKey) (ReaderWriterReport, error) {
	if err := cfg.Validate(); err != nil {
		return ReaderWriterReport{}, fmt.Errorf("reader-writer: %w", err)
	}
	rng := sim.NewPartitionedRNG(key)
	writeLock := NewSemaphore(1)
	var (
		countMu     sync.Mutex
		readerCount int
		state       rwState
		wg          sync.WaitGroup
	)

	reader := func(id int, r *rand.Rand) {
		defer wg.Done()
		for i := 0; i < cfg.Rounds; i++ {
			countMu.Lock()
			readerCount++
			if readerCount == 1 {
				if writeLock.WaitContext(ctx) != nil {
					readerCount--
					countMu.Unlock()
					return
				}
			}
			countMu.Unlock()

			state.enterRead()
			logrus.Debugf("rw: reader %d reading", id)
			sleep(ctx, cfg.Read.pick(r))
			state.leaveRead()

			countMu.Lock()
			readerCount--
			if readerCount == 0 {
				writeLock.Signal()
			}
			countMu.Unlock()
			if !sleep(ctx, cfg.Read.pick(r)) {
				return
			}
		}
	}
	writer := func(id int, r *rand.Rand) {
		defer wg.Done()
		for i := 0; i < cfg.Rounds; i++ {
			if writeLock.WaitContext(ctx) != nil {
				return
			}
			state.enterWrite(id*100 + i)
			logrus.Debugf("rw: writer %d wrote %d", id, id*100+i)
			sleep(ctx, cfg.Write.pick(r))
			state.leaveWrite()
			writeLock.Signal()
			if !sleep(ctx, cfg.Write.pick(r)) {
				return
			}
		}
	}

	// Interleave start order so writers arrive while readers are active.
	// PartitionedRNG is not safe for concurrent use: draw every actor's
	// source here, before its goroutine starts.
	for i := 1; i <= max(cfg.Readers, cfg.Writers); i++ {
		if i <= cfg.Readers {
			wg.Add(1)
			go reader(i, rng.ForSubsystem(sim.SubsystemReader(i)))
		}
		if i <= cfg.Writers {
			wg.Add(1)
			go writer(i, rng.ForSubsystem(sim.SubsystemWriter(i)))
		}
	}
	wg.Wait()

	state.mu.Lock()
	report := state.report
	state.mu.Unlock()
	logrus.Infof("rw: %d reads, %d writes, up to %d concurrent readers, final value %d",
		report.Reads, report.Writes, report.MaxConcurrentReaders, report.LastValue)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("reader-writer: %w", err)
	}
	return report, nil
}
