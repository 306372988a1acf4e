// Package shutdownqueue runs cleanup tasks in reverse order of registration.
//
// Register resources as they are opened and drain once at the end of main:
//
//	q := shutdownqueue.New()
//	q.Add(func(ctx context.Context) error { pool.Close(); return nil })
//	...
//	err := q.Shutdown(ctx)
//
// Tasks run once. Panics are recovered. Shutdown is idempotent and returns an
// aggregated error via errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a shutdown function. It should honor ctx and return an error
// if it can't finish (or ctx is canceled).
type Task func(ctx context.Context) error

// Queue holds shutdown tasks.
type Queue struct {
	mu     sync.Mutex
	tasks  []namedTask
	closed bool
}

type namedTask struct {
	name string
	fn   Task
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{tasks: make([]namedTask, 0, 8)}
}

// Add registers a task to be run on Shutdown, in LIFO order.
// If t is nil or shutdown has already started, Add does nothing.
func (q *Queue) Add(name string, t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.tasks = append(q.tasks, namedTask{name: name, fn: t})
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Shutdown drains all registered tasks in LIFO order.
// If ctx is canceled mid-drain, Shutdown stops early and returns the context
// error joined with any task errors so far.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed && len(q.tasks) == 0 {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	var errs []error
	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled before %s: %w", tasks[i].name, ctx.Err()))
			return errors.Join(errs...)
		default:
		}

		if err := run(ctx, tasks[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func run(ctx context.Context, t namedTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in shutdown task %s: %v", t.name, r)
		}
	}()
	if err := t.fn(ctx); err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}
	return nil
}
