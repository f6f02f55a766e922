package testing

import (
	"maps"
	"slices"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/appstack/internal/config"
)

// StackBuilder provides a fluent interface for constructing test stacks.
// Each method returns a new builder (immutable) for chaining.
type StackBuilder struct {
	stack config.Stack
}

// NewStackBuilder creates a builder for a minimal valid stack.
func NewStackBuilder(name string) *StackBuilder {
	return &StackBuilder{stack: config.Stack{
		Name:      name,
		Container: config.Container{Image: "x"},
	}}
}

func (b *StackBuilder) clone() *StackBuilder {
	s := b.stack
	s.Labels = maps.Clone(b.stack.Labels)
	s.ExtraPorts = slices.Clone(b.stack.ExtraPorts)
	s.Sidecars = slices.Clone(b.stack.Sidecars)
	return &StackBuilder{stack: s}
}

// WithImage sets the main container image.
func (b *StackBuilder) WithImage(image string) *StackBuilder {
	n := b.clone()
	n.stack.Container.Image = image
	return n
}

// WithPort sets the main container port.
func (b *StackBuilder) WithPort(port int32) *StackBuilder {
	n := b.clone()
	n.stack.Container.Port = &port
	return n
}

// WithDomain sets the domain and DNS zone.
func (b *StackBuilder) WithDomain(domain, zone string) *StackBuilder {
	n := b.clone()
	n.stack.Domain = domain
	n.stack.DNSZoneName = zone
	return n
}

// WithNamespace reuses an existing namespace.
func (b *StackBuilder) WithNamespace(ns string) *StackBuilder {
	n := b.clone()
	n.stack.Namespace = ns
	return n
}

// WithLabel adds a caller label.
func (b *StackBuilder) WithLabel(key, value string) *StackBuilder {
	n := b.clone()
	if n.stack.Labels == nil {
		n.stack.Labels = make(map[string]string)
	}
	n.stack.Labels[key] = value
	return n
}

// WithReplicas sets the replica count.
func (b *StackBuilder) WithReplicas(r int32) *StackBuilder {
	n := b.clone()
	n.stack.Replicas = &r
	return n
}

// WithMinAvailable sets the minAvailable bound.
func (b *StackBuilder) WithMinAvailable(v intstr.IntOrString) *StackBuilder {
	n := b.clone()
	n.stack.MinAvailable = &v
	return n
}

// WithMaxUnavailable sets the maxUnavailable bound.
func (b *StackBuilder) WithMaxUnavailable(v intstr.IntOrString) *StackBuilder {
	n := b.clone()
	n.stack.MaxUnavailable = &v
	return n
}

// WithReadinessProbe sets an explicit readiness probe.
func (b *StackBuilder) WithReadinessProbe(p *corev1.Probe) *StackBuilder {
	n := b.clone()
	n.stack.ReadinessProbe = p
	return n
}

// WithLivenessProbe sets an explicit liveness probe.
func (b *StackBuilder) WithLivenessProbe(p *corev1.Probe) *StackBuilder {
	n := b.clone()
	n.stack.LivenessProbe = p
	return n
}

// WithServicePort sets the service port.
func (b *StackBuilder) WithServicePort(p int32) *StackBuilder {
	n := b.clone()
	n.stack.ServicePort = &p
	return n
}

// WithExtraPort adds an extra service port.
func (b *StackBuilder) WithExtraPort(name string, port int32) *StackBuilder {
	n := b.clone()
	n.stack.ExtraPorts = append(n.stack.ExtraPorts, config.ServicePort{Name: name, Port: port})
	return n
}

// WithSidecar adds a sidecar container.
func (b *StackBuilder) WithSidecar(name, image string) *StackBuilder {
	n := b.clone()
	n.stack.Sidecars = append(n.stack.Sidecars, config.Sidecar{Name: name, Image: image})
	return n
}

// Build returns a copy of the stack.
func (b *StackBuilder) Build() *config.Stack {
	s := b.clone().stack
	return &s
}

// TCPProbe returns a TCP socket probe on port.
func TCPProbe(port int32) *corev1.Probe {
	return &corev1.Probe{ProbeHandler: corev1.ProbeHandler{
		TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromInt32(port)},
	}}
}
