package orchestration

import (
	"context"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/k8s"
	"github.com/imamik/appstack/internal/provisioning"
)

// PlaceholderIP stands in for the reserved address during a render.
const PlaceholderIP = "0.0.0.0"

// NewRenderComposers builds composers that record Kubernetes objects in the
// returned Recorder. Address and DNS composers return placeholder handles
// without calling a provider.
func NewRenderComposers(settings config.KubernetesSettings) (provisioning.ComposerSet, *k8s.Recorder) {
	rec := k8s.NewRecorder()
	cluster := k8s.NewComposer(rec, settings)
	return provisioning.ComposerSet{
		NamespaceComposer:        cluster,
		AddressComposer:          placeholderAddress{},
		DNSRecordComposer:        placeholderDNS{},
		CertificateComposer:      cluster,
		ProbeComposer:            cluster,
		DeploymentComposer:       cluster,
		DisruptionBudgetComposer: cluster,
		ServiceComposer:          cluster,
		IngressComposer:          cluster,
	}, rec
}

type placeholderAddress struct{}

func (placeholderAddress) CreateAddress(_ context.Context, name string, args provisioning.AddressArgs, _ provisioning.Scope) (provisioning.AddressHandle, error) {
	return provisioning.AddressHandle{Name: name, IP: PlaceholderIP, Labels: args.Labels}, nil
}

type placeholderDNS struct{}

func (placeholderDNS) CreateDNSRecords(_ context.Context, name string, args provisioning.DNSRecordArgs, _ provisioning.Scope) (provisioning.DNSRecordHandle, error) {
	return provisioning.DNSRecordHandle{
		Name:   name,
		Zone:   args.Zone,
		FQDN:   args.Domain,
		Target: args.Address.IP,
		Labels: args.Labels,
	}, nil
}
