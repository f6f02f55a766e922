package provisioning

import "fmt"

// Kind names one entity of the stack graph.
type Kind string

const (
	KindNamespace        Kind = "Namespace"
	KindAddress          Kind = "Address"
	KindDNSRecord        Kind = "DnsRecord"
	KindCertificate      Kind = "Certificate"
	KindReadinessProbe   Kind = "ReadinessProbe"
	KindLivenessProbe    Kind = "LivenessProbe"
	KindDeployment       Kind = "Deployment"
	KindDisruptionBudget Kind = "DisruptionBudget"
	KindService          Kind = "Service"
	KindIngress          Kind = "Ingress"
)

// ScopeType is the component type every stack scope carries.
const ScopeType = "appstack:k8s:stack"

// Scope groups the children of one stack. The resolver passes it to every
// composer without looking inside.
type Scope struct {
	Type string
	Name string
}

func (s Scope) String() string {
	return fmt.Sprintf("%s/%s", s.Type, s.Name)
}

// NamespaceHandle identifies the namespace the stack lives in. Owned is false
// when the caller supplied an existing namespace; its labels are then unknown.
type NamespaceHandle struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Owned  bool              `json:"owned"`
}

// AddressHandle is a reserved external IP.
type AddressHandle struct {
	Name   string            `json:"name"`
	ID     string            `json:"id"`
	IP     string            `json:"ip"`
	Labels map[string]string `json:"labels,omitempty"`
}

// DNSRecordHandle is a record pointing the domain at an address.
type DNSRecordHandle struct {
	Name   string            `json:"name"`
	ID     string            `json:"id"`
	Zone   string            `json:"zone"`
	FQDN   string            `json:"fqdn"`
	Target string            `json:"target"`
	Labels map[string]string `json:"labels,omitempty"`
}

// CertificateHandle is a TLS certificate for the domain of a DNS record.
type CertificateHandle struct {
	Name       string            `json:"name"`
	Namespace  string            `json:"namespace"`
	Domain     string            `json:"domain"`
	SecretName string            `json:"secretName"`
	Labels     map[string]string `json:"labels,omitempty"`
}

// DeploymentHandle is the workload. Port is absent when the main container
// declares none.
type DeploymentHandle struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Port      Optional[int32]   `json:"port"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// DisruptionBudgetHandle is the pod disruption budget of the workload.
type DisruptionBudgetHandle struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// ServiceHandle is the stable internal endpoint in front of the workload.
type ServiceHandle struct {
	Name       string            `json:"name"`
	Namespace  string            `json:"namespace"`
	Port       int32             `json:"port"`
	TargetPort int32             `json:"targetPort"`
	Labels     map[string]string `json:"labels,omitempty"`
}

// IngressHandle is the external HTTPS entry point.
type IngressHandle struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Host      string            `json:"host"`
	Address   string            `json:"address"`
	Labels    map[string]string `json:"labels,omitempty"`
}
