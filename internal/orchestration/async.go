package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes multiple tasks in parallel and returns the first error encountered.
// All tasks are started concurrently, and the function waits for all to complete.
// If any task returns an error, the first error is returned after all tasks finish.
//
// Task start and completion are logged at V(1) on the context logger.
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	log := logr.FromContextOrDiscard(ctx)
	resultChan := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			start := time.Now()
			log.V(1).Info("task started", "task", task.Name)
			err := task.Func(ctx)
			log.V(1).Info("task finished", "task", task.Name, "duration", time.Since(start).String(), "failed", err != nil)
			resultChan <- result{name: task.Name, err: err}
		}()
	}

	var firstError error
	for range len(tasks) {
		res := <-resultChan
		if res.err != nil && firstError == nil {
			firstError = fmt.Errorf("failed to reconcile %s: %w", res.name, res.err)
		}
	}

	return firstError
}
