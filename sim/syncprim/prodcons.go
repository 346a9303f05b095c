package syncprim

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

// ProducerConsumerReport summarizes one bounded-buffer run.
type ProducerConsumerReport struct {
	Produced     int
	Consumed     int
	MaxOccupancy int   // highest buffer fill observed
	Items        []int // consumed items in consumption order
}

// ProducerConsumer moves cfg.Producers*cfg.ItemsPerProducer items through a
// buffer of cfg.Capacity slots. Producers block on the empty-slot semaphore,
// consumers on the full-slot semaphore; the buffer itself is guarded by one
// mutex. Producer p emits items p*10+i. Returns the partial report and the
// context error if ctx ends first.
func ProducerConsumer(ctx context.Context, cfg ProducerConsumerConfig, key sim.SimulationKey) (ProducerConsumerReport, error) {
	if err := cfg.Validate(); err != nil {
		return ProducerConsumerReport{}, fmt.Errorf("producer-consumer: %w", err)
	}
	rng := sim.NewPartitionedRNG(key)
	empty := NewSemaphore(cfg.Capacity)
	full := NewSemaphore(0)

	var (
		mu     sync.Mutex
		buffer []int
		report ProducerConsumerReport
		wg     sync.WaitGroup
	)
	perConsumer := cfg.Producers * cfg.ItemsPerProducer / cfg.Consumers

	for p := 1; p <= cfg.Producers; p++ {
		r := rng.ForSubsystem(sim.SubsystemProducer(p))
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < cfg.ItemsPerProducer; i++ {
				if empty.WaitContext(ctx) != nil {
					return
				}
				item := id*10 + i
				mu.Lock()
				buffer = append(buffer, item)
				report.Produced++
				report.MaxOccupancy = max(report.MaxOccupancy, len(buffer))
				mu.Unlock()
				full.Signal()
				logrus.Debugf("prodcons: producer %d put %d", id, item)
				if !sleep(ctx, cfg.Produce.pick(r)) {
					return
				}
			}
		}(p)
	}
	for c := 1; c <= cfg.Consumers; c++ {
		r := rng.ForSubsystem(sim.SubsystemConsumer(c))
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perConsumer; i++ {
				if full.WaitContext(ctx) != nil {
					return
				}
				mu.Lock()
				item := buffer[0]
				buffer = buffer[1:]
				report.Consumed++
				report.Items = append(report.Items, item)
				mu.Unlock()
				empty.Signal()
				logrus.Debugf("prodcons: consumer %d took %d", id, item)
				if !sleep(ctx, cfg.Consume.pick(r)) {
					return
				}
			}
		}(c)
	}
	wg.Wait()

	logrus.Infof("prodcons: produced %d, consumed %d, peak occupancy %d/%d",
		report.Produced, report.Consumed, report.MaxOccupancy, cfg.Capacity)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("producer-consumer: %w", err)
	}
	return report, nil
}
