package mhost

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work for BufferedUnorderedWithBreaker: it receives a
// context and produces a result. It never returns a Go error — any failure
// a caller cares about belongs inside T (as Resolver/ResolverGroup do with
// Lookup's Error variant), so that a failing task never aborts its peers.
type Task[T any] func(ctx context.Context) T

// BufferedUnorderedWithBreaker is the one custom concurrency primitive this
// package needs (spec §4.7): a bounded-parallel stream over a finite set of
// tasks, yielding results in completion order, with an optional predicate
// that halts scheduling of further tasks once satisfied.
//
// At any instant at most n tasks are in flight. Once breaker(r) returns true
// for some completed result r, no further tasks are started; tasks already
// in flight are not preempted and are still drained into the returned
// slice. If breaker is nil, every task runs.
//
// This is built on golang.org/x/sync/errgroup's Group.SetLimit, which blocks
// a submitting goroutine until a slot is free — exactly the bounded-in-flight
// behaviour this primitive needs, following the fan-out pattern shown in
// semihalev/sdns's parallel_lookup.go (errgroup.WithContext + SetLimit).
func BufferedUnorderedWithBreaker[T any](ctx context.Context, n int, tasks []Task[T], breaker func(T) bool) []T {
	if len(tasks) == 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}

	// Buffered to len(tasks) so a task goroutine's send never blocks on a
	// slow consumer; that would otherwise prevent errgroup from freeing the
	// slot the submission loop is waiting on.
	results := make(chan T, len(tasks))

	g := new(errgroup.Group)
	g.SetLimit(n)

	var stopped atomic.Bool

	go func() {
		for _, task := range tasks {
			if stopped.Load() {
				break
			}
			task := task
			g.Go(func() error {
				results <- task(ctx)
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	out := make([]T, 0, len(tasks))
	for r := range results {
		out = append(out, r)
		if breaker != nil && breaker(r) {
			stopped.Store(true)
		}
	}

	return out
}
