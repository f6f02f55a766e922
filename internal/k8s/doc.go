// Package k8s builds the cluster objects of a stack and applies them.
//
// Builders are pure functions from composer arguments to typed objects. The
// Composer turns them into handles and hands every object to an Applier:
// Client writes to a live cluster, Recorder collects objects for rendering.
package k8s
