package k8s

import (
	"context"
	"maps"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/provisioning"
)

// Composer implements the cluster-side composers on top of an Applier.
type Composer struct {
	applier       Applier
	ingressClass  string
	clusterIssuer string
}

var (
	_ provisioning.NamespaceComposer        = (*Composer)(nil)
	_ provisioning.CertificateComposer      = (*Composer)(nil)
	_ provisioning.ProbeComposer            = (*Composer)(nil)
	_ provisioning.DeploymentComposer       = (*Composer)(nil)
	_ provisioning.DisruptionBudgetComposer = (*Composer)(nil)
	_ provisioning.ServiceComposer          = (*Composer)(nil)
	_ provisioning.IngressComposer          = (*Composer)(nil)
)

// NewComposer creates a Composer applying objects with applier.
func NewComposer(applier Applier, settings config.KubernetesSettings) *Composer {
	return &Composer{
		applier:       applier,
		ingressClass:  settings.IngressClass,
		clusterIssuer: settings.ClusterIssuer,
	}
}

func (c *Composer) apply(ctx context.Context, kind provisioning.Kind, obj runtime.Object) error {
	logr.FromContextOrDiscard(ctx).V(1).Info("applying object", "kind", string(kind))
	return c.applier.Apply(ctx, obj)
}

// CreateNamespace applies a stack-owned namespace.
func (c *Composer) CreateNamespace(ctx context.Context, name string, args provisioning.NamespaceArgs, scope provisioning.Scope) (provisioning.NamespaceHandle, error) {
	if err := c.apply(ctx, provisioning.KindNamespace, BuildNamespace(name, args, scope)); err != nil {
		return provisioning.NamespaceHandle{}, err
	}
	return provisioning.NamespaceHandle{Name: name, Labels: maps.Clone(args.Labels), Owned: true}, nil
}

// CreateCertificate requests a certificate from the configured ClusterIssuer.
// The key pair lands in the Secret named after the certificate.
func (c *Composer) CreateCertificate(ctx context.Context, name string, args provisioning.CertificateArgs, scope provisioning.Scope) (provisioning.CertificateHandle, error) {
	secretName := name + "-tls"
	if err := c.apply(ctx, provisioning.KindCertificate, BuildCertificate(name, secretName, c.clusterIssuer, args, scope)); err != nil {
		return provisioning.CertificateHandle{}, err
	}
	return provisioning.CertificateHandle{
		Name:       name,
		Namespace:  args.Namespace,
		Domain:     args.Record.FQDN,
		SecretName: secretName,
		Labels:     maps.Clone(args.Labels),
	}, nil
}

// CreateHTTPProbe builds an HTTP probe. No object is applied.
func (c *Composer) CreateHTTPProbe(args provisioning.ProbeArgs) *corev1.Probe {
	return HTTPProbe(args)
}

// CreateDeployment applies the workload.
func (c *Composer) CreateDeployment(ctx context.Context, name string, args provisioning.DeploymentArgs, scope provisioning.Scope) (provisioning.DeploymentHandle, error) {
	dep, err := BuildDeployment(name, args, scope)
	if err != nil {
		return provisioning.DeploymentHandle{}, err
	}
	if err := c.apply(ctx, provisioning.KindDeployment, dep); err != nil {
		return provisioning.DeploymentHandle{}, err
	}
	h := provisioning.DeploymentHandle{Name: name, Namespace: args.Namespace, Labels: maps.Clone(args.Labels)}
	if args.Container.Port != nil {
		h.Port = provisioning.Some(*args.Container.Port)
	}
	return h, nil
}

// CreatePodDisruptionBudget applies the workload's disruption budget.
func (c *Composer) CreatePodDisruptionBudget(ctx context.Context, name string, args provisioning.DisruptionBudgetArgs, scope provisioning.Scope) (provisioning.DisruptionBudgetHandle, error) {
	if err := c.apply(ctx, provisioning.KindDisruptionBudget, BuildPodDisruptionBudget(name, args, scope)); err != nil {
		return provisioning.DisruptionBudgetHandle{}, err
	}
	return provisioning.DisruptionBudgetHandle{Name: name, Namespace: args.Namespace, Labels: maps.Clone(args.Labels)}, nil
}

// CreateService applies the service in front of the workload.
func (c *Composer) CreateService(ctx context.Context, name string, args provisioning.ServiceArgs, scope provisioning.Scope) (provisioning.ServiceHandle, error) {
	if err := c.apply(ctx, provisioning.KindService, BuildService(name, args, scope)); err != nil {
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

// CreateIngress applies the TLS ingress for the domain.
func (c *Composer) CreateIngress(ctx context.Context, name string, args provisioning.IngressArgs, scope provisioning.Scope) (provisioning.IngressHandle, error) {
	if err := c.apply(ctx, provisioning.KindIngress, BuildIngress(name, c.ingressClass, args, scope)); err != nil {
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
