package syncprim

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Valesague52/Proyecto-Final-SOs/sim"
)

func fastProducerConsumer() ProducerConsumerConfig {
	cfg := DefaultConfig().ProducerConsumer
	cfg.Produce = DelayRange{Max: time.Millisecond}
	cfg.Consume = DelayRange{Max: 2 * time.Millisecond}
	return cfg
}

func fastReaderWriter() ReaderWriterConfig {
	cfg := DefaultConfig().ReaderWriter
	cfg.Read = DelayRange{Min: time.Millisecond, Max: 3 * time.Millisecond}
	cfg.Write = DelayRange{Min: time.Millisecond, Max: 3 * time.Millisecond}
	return cfg
}

func TestProducerConsumer_MovesEveryItemWithinCapacity(t *testing.T) {
	// GIVEN two producers of three items, two consumers and a buffer of five
	cfg := fastProducerConsumer()

	// WHEN the demo runs to completion
	report, err := ProducerConsumer(context.Background(), cfg, sim.NewSimulationKey(3))

	// THEN every produced item was consumed exactly once and the buffer never overflowed
	require.NoError(t, err)
	assert.Equal(t, 6, report.Produced)
	assert.Equal(t, 6, report.Consumed)
	assert.LessOrEqual(t, report.MaxOccupancy, cfg.Capacity)
	assert.GreaterOrEqual(t, report.MaxOccupancy, 1)
	items := append([]int(nil), report.Items...)
	sort.Ints(items)
	assert.Equal(t, []int{10, 11, 12, 20, 21, 22}, items)
}

func TestProducerConsumer_CapacityOneNeverExceeded(t *testing.T) {
	cfg := fastProducerConsumer()
	cfg.Capacity = 1
	cfg.Consumers = 3

	report, err := ProducerConsumer(context.Background(), cfg, sim.NewSimulationKey(5))

	require.NoError(t, err)
	assert.Equal(t, 1, report.MaxOccupancy)
	assert.Equal(t, 6, report.Consumed)
}

func TestProducerConsumer_Cancelled(t *testing.T) {
	// GIVEN consumers that would wait forever on slow producers
	cfg := fastProducerConsumer()
	cfg.Produce = DelayRange{Min: time.Hour, Max: time.Hour}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	// WHEN the context expires
	report, err := ProducerConsumer(ctx, cfg, sim.NewSimulationKey(1))

	// THEN the demo returns a partial report and the context error
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, report.Produced)
	assert.LessOrEqual(t, report.Consumed, report.Produced)
}

func TestProducerConsumer_InvalidConfig(t *testing.T) {
	cfg := fastProducerConsumer()
	cfg.Consumers = 4 // 6 items over 4 consumers
	_, err := ProducerConsumer(context.Background(), cfg, 0)
	assert.ErrorIs(t, err, sim.ErrValidation)
}

func TestReaderWriter_NoWriterOverlaps(t *testing.T) {
	// GIVEN three readers and two writers doing two rounds
	cfg := fastReaderWriter()

	// WHEN the demo runs
	report, err := ReaderWriter(context.Background(), cfg, sim.NewSimulationKey(11))

	// THEN all accesses happened and no writer ever shared the section
	require.NoError(t, err)
	assert.Equal(t, 6, report.Reads)
	assert.Equal(t, 4, report.Writes)
	assert.Equal(t, 0, report.Overlaps)
	assert.GreaterOrEqual(t, report.MaxConcurrentReaders, 1)
	assert.LessOrEqual(t, report.MaxConcurrentReaders, cfg.Readers)
	assert.Contains(t, []int{100, 101, 200, 201}, report.LastValue)
}

func TestReaderWriter_ReadersShareTheSection(t *testing.T) {
	// GIVEN only readers with long reads
	cfg := fastReaderWriter()
	cfg.Writers = 0
	cfg.Rounds = 1
	cfg.Read = DelayRange{Min: 50 * time.Millisecond, Max: 50 * time.Millisecond}

	report, err := ReaderWriter(context.Background(), cfg, 0)

	// THEN they overlapped with each other
	require.NoError(t, err)
	assert.Equal(t, cfg.Readers, report.MaxConcurrentReaders)
	assert.Equal(t, 0, report.Writes)
}

func TestReaderWriter_Cancelled(t *testing.T) {
	cfg := fastReaderWriter()
	cfg.Write = DelayRange{Min: time.Hour, Max: time.Hour}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	report, err := ReaderWriter(ctx, cfg, 0)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, report.Overlaps)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.ReaderWriter.Rounds = 0
	assert.ErrorIs(t, cfg.Validate(), sim.ErrValidation)

	cfg = DefaultConfig()
	cfg.ProducerConsumer.Capacity = 0
	assert.ErrorIs(t, cfg.Validate(), sim.ErrValidation)

	cfg = DefaultConfig()
	cfg.Dining.Eat = DelayRange{Min: -time.Second}
	assert.ErrorIs(t, cfg.Validate(), sim.ErrValidation)
}

func TestReaderWriter_ManyActorsStartConcurrently(t *testing.T) {
	// GIVEN eight readers and eight writers released at once, repeated so that
	// `go test -race` sees every actor's start
	cfg := ReaderWriterConfig{Readers: 8, Writers: 8, Rounds: 1}

	for run := 0; run < 20; run++ {
		// WHEN the demo runs with no delays
		report, err := ReaderWriter(context.Background(), cfg, sim.NewSimulationKey(int64(run)))

		// THEN every access completes and writers stay exclusive
		require.NoError(t, err)
		assert.Equal(t, 8, report.Reads)
		assert.Equal(t, 8, report.Writes)
		assert.Zero(t, report.Overlaps)
	}
}
