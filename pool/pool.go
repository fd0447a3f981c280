// Package pool runs a queue of tasks with a fixed number of permits.
package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Task is one unit of work. Tasks should honour ctx.
type Task func(ctx context.Context) error

// Pool bounds how many tasks run at once. A Pool may be shared across
// callers; the bound applies to the sum of their in-flight tasks.
type Pool struct {
	limit int
	sem   *semaphore.Weighted
}

// New returns a pool with limit permits. limit < 1 is treated as 1.
func New(limit int) *Pool {
	if limit < 1 {
		limit = 1
	}
	return &Pool{limit: limit, sem: semaphore.NewWeighted(int64(limit))}
}

// Limit is the number of permits.
func (p *Pool) Limit() int { return p.limit }

// Run executes every task, never more than Limit at a time, and returns one
// error slot per task in queue order. A failing task does not stop the
// others. Tasks not yet started when ctx is cancelled report ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []error {
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		err := ctx.Err()
		if err == nil {
			err = p.sem.Acquire(ctx, 1)
		}
		if err != nil {
			for j := i; j < len(tasks); j++ {
				errs[j] = err
			}
			break
		}
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			defer p.sem.Release(1)
			errs[i] = task(ctx)
		}(i, task)
	}

	wg.Wait()
	return errs
}
