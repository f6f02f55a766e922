package provisioning

import (
	"maps"
	"slices"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/util/labels"
	"github.com/imamik/appstack/internal/util/naming"
)

// Defaults applied by Normalize.
const (
	DefaultReplicas    int32 = 1
	DefaultServicePort int32 = 80
	DefaultProbePath         = "/healthz"
)

// Input is a normalized stack. It owns its maps, slices and probes, so later
// changes to the source config.Stack never leak into a run.
type Input struct {
	Name        string
	Namespace   string
	Labels      map[string]string
	Domain      string
	DNSZoneName string

	Container     config.Container
	ContainerName string
	Sidecars      []config.Sidecar
	Replicas      int32
	Strategy      *appsv1.DeploymentStrategy

	LivenessPath   string
	ReadinessPath  string
	LivenessProbe  *corev1.Probe
	ReadinessProbe *corev1.Probe

	MinAvailable   *intstr.IntOrString
	MaxUnavailable *intstr.IntOrString

	ServicePort int32
	ExtraPorts  []config.ServicePort
}

// Normalize merges labels with the stack identity and fills defaults. It does
// not validate; call config.Stack.Validate first.
func Normalize(s *config.Stack) *Input {
	in := &Input{
		Name:          s.Name,
		Namespace:     s.Namespace,
		Labels:        labels.ForStack(s.Name, s.Labels),
		Domain:        s.Domain,
		DNSZoneName:   s.DNSZoneName,
		Container:     copyContainer(s.Container),
		ContainerName: naming.Container(s.Name),
		Sidecars:      copySidecars(s.Sidecars),
		Replicas:      DefaultReplicas,
		LivenessPath:  DefaultProbePath,
		ReadinessPath: DefaultProbePath,
		ServicePort:   DefaultServicePort,
		ExtraPorts:    copyServicePorts(s.ExtraPorts),
	}

	if s.Replicas != nil {
		in.Replicas = *s.Replicas
	}
	if s.Strategy != nil {
		in.Strategy = s.Strategy.DeepCopy()
	}
	if s.LivenessPath != nil {
		in.LivenessPath = *s.LivenessPath
	}
	if s.ReadinessPath != nil {
		in.ReadinessPath = *s.ReadinessPath
	}
	if s.LivenessProbe != nil {
		in.LivenessProbe = s.LivenessProbe.DeepCopy()
	}
	if s.ReadinessProbe != nil {
		in.ReadinessProbe = s.ReadinessProbe.DeepCopy()
	}
	if s.MinAvailable != nil {
		v := *s.MinAvailable
		in.MinAvailable = &v
	}
	if s.MaxUnavailable != nil {
		v := *s.MaxUnavailable
		in.MaxUnavailable = &v
	}
	if s.ServicePort != nil {
		in.ServicePort = *s.ServicePort
	}
	return in
}

// labelSet returns a fresh copy of the normalized labels, so no two
// composer calls share a map.
func (in *Input) labelSet() map[string]string {
	return maps.Clone(in.Labels)
}

// Scope returns the scope token of this stack.
func (in *Input) Scope() Scope {
	return Scope{Type: ScopeType, Name: in.Name}
}

func copyContainer(c config.Container) config.Container {
	out := c
	if c.Port != nil {
		p := *c.Port
		out.Port = &p
	}
	if c.CPU != nil {
		a := *c.CPU
		out.CPU = &a
	}
	if c.Memory != nil {
		a := *c.Memory
		out.Memory = &a
	}
	out.Command = slices.Clone(c.Command)
	out.Args = slices.Clone(c.Args)
	out.Env = maps.Clone(c.Env)
	return out
}

func copySidecars(in []config.Sidecar) []config.Sidecar {
	if in == nil {
		return nil
	}
	out := make([]config.Sidecar, len(in))
	for i, sc := range in {
		out[i] = sc
		out[i].Command = slices.Clone(sc.Command)
		out[i].Args = slices.Clone(sc.Args)
		out[i].Env = maps.Clone(sc.Env)
		out[i].Ports = slices.Clone(sc.Ports)
	}
	return out
}

func copyServicePorts(in []config.ServicePort) []config.ServicePort {
	if in == nil {
		return nil
	}
	out := make([]config.ServicePort, len(in))
	for i, p := range in {
		out[i] = p
		if p.TargetPort != nil {
			tp := *p.TargetPort
			out[i].TargetPort = &tp
		}
	}
	return out
}
