package orchestration

import (
	"context"
	"sync"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/provisioning"
)

// Reconciler runs the resolver for stacks against one composer set.
type Reconciler struct {
	composers provisioning.Composers
	metrics   *provisioning.Metrics
	observer  provisioning.Observer
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithObserver sends resolution events to o instead of the context logger.
func WithObserver(o provisioning.Observer) ReconcilerOption {
	return func(r *Reconciler) {
		r.observer = o
	}
}

// NewReconciler creates a reconciler. metrics may be nil.
func NewReconciler(composers provisioning.Composers, metrics *provisioning.Metrics, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{composers: composers, metrics: metrics}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile validates and resolves stack once. On a composer error the
// partial state is returned with the error.
func (r *Reconciler) Reconcile(ctx context.Context, stack *config.Stack, runID string) (*provisioning.State, error) {
	opts := []provisioning.Option{provisioning.WithRunID(runID)}
	if r.metrics != nil {
		opts = append(opts, provisioning.WithMetrics(r.metrics))
	}
	if r.observer != nil {
		opts = append(opts, provisioning.WithObserver(r.observer))
	}
	return provisioning.Provision(ctx, stack, r.composers, opts...)
}

// Result is the outcome of one stack in ReconcileAll.
type Result struct {
	Stack *config.Stack
	State *provisioning.State
	Err   error
}

// ReconcileAll reconciles stacks in parallel. Results keep the order of
// stacks; the returned error is the first failure.
func (r *Reconciler) ReconcileAll(ctx context.Context, stacks []*config.Stack, runID string) ([]Result, error) {
	results := make([]Result, len(stacks))
	var mu sync.Mutex

	tasks := make([]Task, 0, len(stacks))
	for i, stack := range stacks {
		tasks = append(tasks, Task{
			Name: stack.Name,
			Func: func(ctx context.Context) error {
				state, err := r.Reconcile(ctx, stack, runID)
				mu.Lock()
				results[i] = Result{Stack: stack, State: state, Err: err}
				mu.Unlock()
				return err
			},
		})
	}

	err := RunParallel(ctx, tasks)
	return results, err
}
