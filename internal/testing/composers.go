package testing

import (
	"context"
	"fmt"
	"maps"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/appstack/internal/provisioning"
)

// KindHTTPProbe is the kind recorded for derived probe calls. Readiness and
// liveness share one composer.
const KindHTTPProbe provisioning.Kind = "HTTPProbe"

// Call is one recorded composer invocation.
type Call struct {
	Kind  provisioning.Kind
	Name  string
	Args  any
	Scope provisioning.Scope
}

// RecordingComposers implements provisioning.Composers in memory. Every call
// is appended to Calls; FailOn makes the composer of a kind return an error.
type RecordingComposers struct {
	Calls  []Call
	FailOn map[provisioning.Kind]error
}

var _ provisioning.Composers = (*RecordingComposers)(nil)

// NewRecordingComposers creates an empty recorder.
func NewRecordingComposers() *RecordingComposers {
	return &RecordingComposers{FailOn: make(map[provisioning.Kind]error)}
}

// Kinds returns the kinds of the recorded calls in order.
func (r *RecordingComposers) Kinds() []provisioning.Kind {
	out := make([]provisioning.Kind, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Kind
	}
	return out
}

// CallsFor returns the calls recorded for kind.
func (r *RecordingComposers) CallsFor(kind provisioning.Kind) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (r *RecordingComposers) record(kind provisioning.Kind, name string, args any, scope provisioning.Scope) error {
	r.Calls = append(r.Calls, Call{Kind: kind, Name: name, Args: args, Scope: scope})
	return r.FailOn[kind]
}

func (r *RecordingComposers) CreateNamespace(_ context.Context, name string, args provisioning.NamespaceArgs, scope provisioning.Scope) (provisioning.NamespaceHandle, error) {
	if err := r.record(provisioning.KindNamespace, name, args, scope); err != nil {
		return provisioning.NamespaceHandle{}, err
	}
	return provisioning.NamespaceHandle{Name: name, Labels: maps.Clone(args.Labels)}, nil
}

func (r *RecordingComposers) CreateAddress(_ context.Context, name string, args provisioning.AddressArgs, scope provisioning.Scope) (provisioning.AddressHandle, error) {
	if err := r.record(provisioning.KindAddress, name, args, scope); err != nil {
		return provisioning.AddressHandle{}, err
	}
	return provisioning.AddressHandle{Name: name, ID: "1", IP: "203.0.113.10", Labels: maps.Clone(args.Labels)}, nil
}

func (r *RecordingComposers) CreateDNSRecords(_ context.Context, name string, args provisioning.DNSRecordArgs, scope provisioning.Scope) (provisioning.DNSRecordHandle, error) {
	if err := r.record(provisioning.KindDNSRecord, name, args, scope); err != nil {
		return provisioning.DNSRecordHandle{}, err
	}
	return provisioning.DNSRecordHandle{
		Name:   name,
		ID:     "rec-1",
		Zone:   args.Zone,
		FQDN:   args.Domain,
		Target: args.Address.IP,
		Labels: maps.Clone(args.Labels),
	}, nil
}

func (r *RecordingComposers) CreateCertificate(_ context.Context, name string, args provisioning.CertificateArgs, scope provisioning.Scope) (provisioning.CertificateHandle, error) {
	if err := r.record(provisioning.KindCertificate, name, args, scope); err != nil {
		return provisioning.CertificateHandle{}, err
	}
	return provisioning.CertificateHandle{
		Name:       name,
		Namespace:  args.Namespace,
		Domain:     args.Record.FQDN,
		SecretName: name + "-tls",
		Labels:     maps.Clone(args.Labels),
	}, nil
}

// CreateHTTPProbe records the call under KindHTTPProbe.
func (r *RecordingComposers) CreateHTTPProbe(args provisioning.ProbeArgs) *corev1.Probe {
	r.Calls = append(r.Calls, Call{Kind: KindHTTPProbe, Args: args})
	return &corev1.Probe{ProbeHandler: corev1.ProbeHandler{
		HTTPGet: &corev1.HTTPGetAction{
			Path:        args.Path,
			Port:        intstr.FromInt32(args.Port),
			HTTPHeaders: []corev1.HTTPHeader{{Name: "Host", Value: args.Host}},
		},
	}}
}

func (r *RecordingComposers) CreateDeployment(_ context.Context, name string, args provisioning.DeploymentArgs, scope provisioning.Scope) (provisioning.DeploymentHandle, error) {
	if err := r.record(provisioning.KindDeployment, name, args, scope); err != nil {
		return provisioning.DeploymentHandle{}, err
	}
	h := provisioning.DeploymentHandle{Name: name, Namespace: args.Namespace, Labels: maps.Clone(args.Labels)}
	if p := args.Container.Port; p != nil {
		if *p < 1 || *p > 65535 {
			return provisioning.DeploymentHandle{}, fmt.Errorf("invalid container port %d", *p)
		}
		h.Port = provisioning.Some(*p)
	}
	return h, nil
}

func (r *RecordingComposers) CreatePodDisruptionBudget(_ context.Context, name string, args provisioning.DisruptionBudgetArgs, scope provisioning.Scope) (provisioning.DisruptionBudgetHandle, error) {
	if err := r.record(provisioning.KindDisruptionBudget, name, args, scope); err != nil {
		return provisioning.DisruptionBudgetHandle{}, err
	}
	return provisioning.DisruptionBudgetHandle{Name: name, Namespace: args.Namespace, Labels: maps.Clone(args.Labels)}, nil
}

func (r *RecordingComposers) CreateService(_ context.Context, name string, args provisioning.ServiceArgs, scope provisioning.Scope) (provisioning.ServiceHandle, error) {
	if err := r.record(provisioning.KindService, name, args, scope); err != nil {
		return provisioning.ServiceHandle{}, err
	}
	return provisioning.ServiceHandle{
		Name:       name,
		Namespace:  args.Namespace,
		Port:       args.Port,
		TargetPort: args.TargetPort,
		Labels:     maps.Clone(args.Labels),
	}, nil
}

func (r *RecordingComposers) CreateIngress(_ context.Context, name string, args provisioning.IngressArgs, scope provisioning.Scope) (provisioning.IngressHandle, error) {
	if err := r.record(provisioning.KindIngress, name, args, scope); err != nil {
		return provisioning.IngressHandle{}, err
	}
	return provisioning.IngressHandle{
		Name:      name,
		Namespace: args.Namespace,
		Host:      args.Domain,
		Address:   args.Address.IP,
		Labels:    maps.Clone(args.Labels),
	}, nil
}
