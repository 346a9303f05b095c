package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadyQueue_FIFOOrder(t *testing.T) {
	// GIVEN a queue with processes [1, 2, 3]
	rq := &ReadyQueue{}
	for id := 1; id <= 3; id++ {
		rq.Enqueue(&Process{ID: id})
	}

	// WHEN the front is peeked and then dequeued
	front := rq.Peek()
	got := rq.Dequeue()

	// THEN both return process 1 and the rest keep their order
	assert.Equal(t, 1, front.ID)
	assert.Same(t, front, got)
	assert.Equal(t, "[2 3]", rq.String())
}

func TestReadyQueue_Empty(t *testing.T) {
	rq := &ReadyQueue{}
	assert.Nil(t, rq.Peek())
	assert.Nil(t, rq.Dequeue())
	assert.Nil(t, rq.RemoveAt(0))
	assert.False(t, rq.Remove(1))
	assert.Equal(t, "[]", rq.String())
}

func TestReadyQueue_RemoveKeepsOrder(t *testing.T) {
	rq := &ReadyQueue{}
	for id := 1; id <= 4; id++ {
		rq.Enqueue(&Process{ID: id})
	}

	assert.True(t, rq.Remove(2))
	assert.False(t, rq.Contains(2))
	assert.Equal(t, 3, rq.RemoveAt(1).ID)
	assert.Equal(t, "[1 4]", rq.String())
	assert.Equal(t, 2, rq.Len())
}

func TestReadyQueue_EnqueueNil_Panics(t *testing.T) {
	rq := &ReadyQueue{}
	assert.Panics(t, func() { rq.Enqueue(nil) })
}
