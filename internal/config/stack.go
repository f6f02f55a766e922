package config

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// Stack is the caller input for one application stack.
type Stack struct {
	// Name is the stack identity. Every child resource is named after it.
	Name string `json:"name"`

	// Namespace names an existing namespace to deploy into. When empty a
	// namespace owned by the stack is created.
	Namespace string `json:"namespace,omitempty"`

	Labels map[string]string `json:"labels,omitempty"`

	// Domain and DNSZoneName gate the public half of the stack: address, DNS
	// record, certificate and ingress.
	Domain      string `json:"domain,omitempty"`
	DNSZoneName string `json:"dnsZoneName,omitempty"`

	Container Container `json:"container"`
	Sidecars  []Sidecar `json:"sidecars,omitempty"`

	Replicas *int32                     `json:"replicas,omitempty"`
	Strategy *appsv1.DeploymentStrategy `json:"strategy,omitempty"`

	LivenessPath   *string       `json:"livenessPath,omitempty"`
	ReadinessPath  *string       `json:"readinessPath,omitempty"`
	LivenessProbe  *corev1.Probe `json:"livenessProbe,omitempty"`
	ReadinessProbe *corev1.Probe `json:"readinessProbe,omitempty"`

	MinAvailable   *intstr.IntOrString `json:"minAvailable,omitempty"`
	MaxUnavailable *intstr.IntOrString `json:"maxUnavailable,omitempty"`

	ServicePort *int32        `json:"servicePort,omitempty"`
	ExtraPorts  []ServicePort `json:"extraPorts,omitempty"`
}

// Container describes the main container of the stack's pod.
type Container struct {
	Image   string            `json:"image"`
	Port    *int32            `json:"port,omitempty"`
	CPU     *Allocation       `json:"cpu,omitempty"`
	Memory  *Allocation       `json:"memory,omitempty"`
	Command []string          `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Allocation is a request/limit pair in Kubernetes quantity notation.
type Allocation struct {
	Request string `json:"request,omitempty"`
	Limit   string `json:"limit,omitempty"`
}

// Sidecar is an additional container that runs next to the main one.
type Sidecar struct {
	Name    string                 `json:"name"`
	Image   string                 `json:"image"`
	Command []string               `json:"command,omitempty"`
	Args    []string               `json:"args,omitempty"`
	Env     map[string]string      `json:"env,omitempty"`
	Ports   []corev1.ContainerPort `json:"ports,omitempty"`
}

// ServicePort is an additional port exposed on the stack's service.
type ServicePort struct {
	Name       string              `json:"name"`
	Port       int32               `json:"port"`
	TargetPort *intstr.IntOrString `json:"targetPort,omitempty"`
	Protocol   corev1.Protocol     `json:"protocol,omitempty"`
}

// HasPort reports whether the main container declares a port.
func (c Container) HasPort() bool {
	return c.Port != nil
}
