package provisioning

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/appstack/internal/config"
)

// NamespaceArgs configures a stack-owned namespace.
type NamespaceArgs struct {
	Labels map[string]string
}

// AddressArgs configures an external address reservation.
type AddressArgs struct {
	Labels map[string]string
}

// DNSRecordArgs configures the record pointing Domain at Address.
type DNSRecordArgs struct {
	Zone    string
	Domain  string
	Address AddressHandle
	Labels  map[string]string
}

// CertificateArgs configures a certificate for the domain of Record.
type CertificateArgs struct {
	Namespace string
	Record    DNSRecordHandle
	Labels    map[string]string
}

// ProbeArgs configures a derived HTTP probe. Host is sent as the Host header.
type ProbeArgs struct {
	Path string
	Host string
	Port int32
}

// DeploymentArgs configures the workload and its pod.
type DeploymentArgs struct {
	Namespace      string
	Labels         map[string]string
	Replicas       int32
	Strategy       *appsv1.DeploymentStrategy
	ContainerName  string
	Container      config.Container
	Sidecars       []config.Sidecar
	ExtraPorts     []config.ServicePort
	LivenessProbe  Optional[*corev1.Probe]
	ReadinessProbe Optional[*corev1.Probe]
}

// DisruptionBudgetArgs configures a pod disruption budget. Exactly one bound
// is set.
type DisruptionBudgetArgs struct {
	Namespace      string
	Labels         map[string]string
	MatchLabels    map[string]string
	MinAvailable   *intstr.IntOrString
	MaxUnavailable *intstr.IntOrString
}

// ServiceArgs configures the service in front of Deployment.
type ServiceArgs struct {
	Namespace  string
	Labels     map[string]string
	Selector   map[string]string
	Port       int32
	TargetPort int32
	ExtraPorts []config.ServicePort
}

// IngressArgs configures the external entry point.
type IngressArgs struct {
	Namespace   string
	Labels      map[string]string
	Domain      string
	Service     ServiceHandle
	Certificate CertificateHandle
	Address     AddressHandle
}

// NamespaceComposer creates stack-owned namespaces.
type NamespaceComposer interface {
	CreateNamespace(ctx context.Context, name string, args NamespaceArgs, scope Scope) (NamespaceHandle, error)
}

// AddressComposer reserves external addresses.
type AddressComposer interface {
	CreateAddress(ctx context.Context, name string, args AddressArgs, scope Scope) (AddressHandle, error)
}

// DNSRecordComposer creates DNS records.
type DNSRecordComposer interface {
	CreateDNSRecords(ctx context.Context, name string, args DNSRecordArgs, scope Scope) (DNSRecordHandle, error)
}

// CertificateComposer requests TLS certificates.
type CertificateComposer interface {
	CreateCertificate(ctx context.Context, name string, args CertificateArgs, scope Scope) (CertificateHandle, error)
}

// ProbeComposer computes HTTP probe specs. It makes no provider call.
type ProbeComposer interface {
	CreateHTTPProbe(args ProbeArgs) *corev1.Probe
}

// DeploymentComposer creates the workload, composing its pod spec.
type DeploymentComposer interface {
	CreateDeployment(ctx context.Context, name string, args DeploymentArgs, scope Scope) (DeploymentHandle, error)
}

// DisruptionBudgetComposer creates pod disruption budgets.
type DisruptionBudgetComposer interface {
	CreatePodDisruptionBudget(ctx context.Context, name string, args DisruptionBudgetArgs, scope Scope) (DisruptionBudgetHandle, error)
}

// ServiceComposer creates services.
type ServiceComposer interface {
	CreateService(ctx context.Context, name string, args ServiceArgs, scope Scope) (ServiceHandle, error)
}

// IngressComposer creates ingresses.
type IngressComposer interface {
	CreateIngress(ctx context.Context, name string, args IngressArgs, scope Scope) (IngressHandle, error)
}

// Composers is every collaborator the resolver needs.
type Composers interface {
	NamespaceComposer
	AddressComposer
	DNSRecordComposer
	CertificateComposer
	ProbeComposer
	DeploymentComposer
	DisruptionBudgetComposer
	ServiceComposer
	IngressComposer
}

// ComposerSet assembles Composers from per-kind implementations backed by
// different providers.
type ComposerSet struct {
	NamespaceComposer
	AddressComposer
	DNSRecordComposer
	CertificateComposer
	ProbeComposer
	DeploymentComposer
	DisruptionBudgetComposer
	ServiceComposer
	IngressComposer
}

var _ Composers = ComposerSet{}
