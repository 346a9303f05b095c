// Package sim holds the shared vocabulary of the operating-system simulator.
//
// # Reading Guide
//
// Start with these packages to understand the resource managers:
//   - process/: process lifecycle (new → ready → running → terminated) and the dispatch loop
//   - memory/: page frames, allocation and the FIFO / LRU / working-set replacement policies
//   - device/: per-device worker goroutines feeding the shared interrupt queue
//
// # Architecture
//
// The sim package defines the error taxonomy and the partitioned RNG; every
// manager lives in its own sub-package and owns its state behind one mutex:
//   - sim/process/: ProcessManager, ready queue, round-robin and SJF dispatchers
//   - sim/memory/: MemoryManager, frame table, replacement policies, statistics
//   - sim/disk/: DiskHeadScheduler (FCFS, SSTF, SCAN)
//   - sim/device/: DeviceInterruptSubsystem (four lanes, interrupt queue)
//   - sim/syncprim/: counting semaphore, dining philosophers, producer-consumer, reader-writer
//   - sim/trace/: decision trace recording
//
// Managers never call each other except process → memory, which goes through
// the process.PageAllocator interface.
package sim
