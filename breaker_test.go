package mhost

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedUnorderedWithBreakerRunsAllTasksWhenNoBreaker(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	tasks := make([]Task[int], 20)
	for i := range tasks {
		i := i
		tasks[i] = func(ctx context.Context) int {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				cur := maxInFlight.Load()
				if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
					break
				}
			}
			return i
		}
	}

	results := BufferedUnorderedWithBreaker(context.Background(), 4, tasks, nil)
	require.Len(t, results, len(tasks))
	assert.LessOrEqual(t, maxInFlight.Load(), int32(4))
}

func TestBufferedUnorderedWithBreakerStopsScheduling(t *testing.T) {
	var started atomic.Int32
	tasks := make([]Task[int], 50)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) int {
			started.Add(1)
			return 1
		}
	}

	breaker := func(r int) bool { return true }
	results := BufferedUnorderedWithBreaker(context.Background(), 1, tasks, breaker)

	assert.NotEmpty(t, results, "expected at least one result before the breaker stopped scheduling")
	assert.Less(t, int(started.Load()), len(tasks), "breaker should stop scheduling")
}

func TestBufferedUnorderedWithBreakerEmptyTasks(t *testing.T) {
	results := BufferedUnorderedWithBreaker[int](context.Background(), 4, nil, nil)
	assert.Nil(t, results)
}
