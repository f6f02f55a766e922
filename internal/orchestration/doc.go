// Package orchestration wires provider clients into a composer set and runs
// the resolver for one or more stacks.
//
// # Composer sets
//
// NewLiveComposers builds composers backed by the Kubernetes API, Hetzner
// Cloud and the configured DNS provider. NewRenderComposers builds composers
// that record the Kubernetes objects instead of applying them and return
// placeholder cloud handles, so a render makes no provider call.
//
// # Usage
//
//	composers, err := orchestration.NewLiveComposers(settings)
//	reconciler := orchestration.NewReconciler(composers, metrics)
//	state, err := reconciler.Reconcile(ctx, stack, runID)
//
// Stacks are independent. ReconcileAll runs several in parallel, each with
// its own single-goroutine resolution pass.
package orchestration
