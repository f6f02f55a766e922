package labels

import "maps"

// Label and annotation keys owned by appstack.
const (
	// KeyStack identifies which stack a resource belongs to.
	KeyStack = "appstack.io/stack"

	// AnnotationManagedBy identifies the management system. It is an
	// annotation so the label set of every object stays the stack's own.
	AnnotationManagedBy = "app.kubernetes.io/managed-by"

	// AnnotationParent records the scope a resource was composed under.
	AnnotationParent = "appstack.io/parent"

	// AnnotationAddress records the external address an ingress is reached at.
	AnnotationAddress = "appstack.io/address"
)

// ManagedByAppstack is the value written under AnnotationManagedBy on cluster objects.
const ManagedByAppstack = "appstack"

// LabelBuilder provides a fluent interface for building a stack label set.
type LabelBuilder struct {
	stack  string
	labels map[string]string
}

// NewLabelBuilder creates a builder for the given stack name.
func NewLabelBuilder(stack string) *LabelBuilder {
	return &LabelBuilder{
		stack:  stack,
		labels: make(map[string]string),
	}
}

// Merge adds all labels from the provided map. Later calls win on conflict.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	maps.Copy(lb.labels, extra)
	return lb
}

// Build returns a fresh map holding the merged labels with the identity key
// applied on top.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels)+1)
	maps.Copy(result, lb.labels)
	result[KeyStack] = lb.stack
	return result
}

// ForStack is shorthand for NewLabelBuilder(stack).Merge(caller).Build().
func ForStack(stack string, caller map[string]string) map[string]string {
	return NewLabelBuilder(stack).Merge(caller).Build()
}
