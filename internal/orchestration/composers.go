package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/k8s"
	"github.com/imamik/appstack/internal/platform/azuredns"
	"github.com/imamik/appstack/internal/platform/cloudflare"
	hcloud_internal "github.com/imamik/appstack/internal/platform/hcloud"
	"github.com/imamik/appstack/internal/provisioning"
	"github.com/imamik/appstack/internal/provisioning/infrastructure"
)

// Clients holds the provider clients a live composer set is built from.
// Nil fields are constructed from settings.
type Clients struct {
	Kubernetes k8s.Applier
	Addresses  hcloud_internal.AddressManager
	DNS        infrastructure.DNSBackend
}

// NewLiveComposers builds composers that act on the cluster and the cloud
// providers named by settings.
func NewLiveComposers(settings *config.Settings) (provisioning.ComposerSet, error) {
	return NewLiveComposersWith(settings, Clients{}, config.LoadTimeouts())
}

// NewLiveComposersWith is NewLiveComposers with preconstructed clients.
func NewLiveComposersWith(settings *config.Settings, clients Clients, timeouts *config.Timeouts) (provisioning.ComposerSet, error) {
	if clients.Kubernetes == nil {
		client, err := k8s.NewClient(settings.Kubernetes.Kubeconfig, settings.Kubernetes.FieldManager)
		if err != nil {
			return provisioning.ComposerSet{}, err
		}
		clients.Kubernetes = client
	}
	if clients.Addresses == nil {
		clients.Addresses = hcloud_internal.NewRealClient(settings.HCloud.Token, hcloud_internal.WithTimeouts(timeouts))
	}
	if clients.DNS == nil {
		backend, err := newDNSBackend(settings.DNS, timeouts)
		if err != nil {
			return provisioning.ComposerSet{}, err
		}
		clients.DNS = backend
	}

	cluster := k8s.NewComposer(k8s.WithTimeout(clients.Kubernetes, timeouts.KubernetesRequest), settings.Kubernetes)
	return provisioning.ComposerSet{
		NamespaceComposer:        cluster,
		AddressComposer:          infrastructure.NewAddressComposer(clients.Addresses, settings.HCloud.Location, infrastructure.WithServer(settings.HCloud.Server)),
		DNSRecordComposer:        infrastructure.NewDNSRecordComposer(clients.DNS),
		CertificateComposer:      cluster,
		ProbeComposer:            cluster,
		DeploymentComposer:       cluster,
		DisruptionBudgetComposer: cluster,
		ServiceComposer:          cluster,
		IngressComposer:          cluster,
	}, nil
}

func newDNSBackend(settings config.DNSSettings, timeouts *config.Timeouts) (infrastructure.DNSBackend, error) {
	switch settings.Provider {
	case config.DNSProviderCloudflare:
		return infrastructure.NewCloudflareBackend(cloudflare.NewClient(settings.CloudflareToken), settings, timeouts), nil
	case config.DNSProviderAzure:
		if len(settings.AzureZoneIDs) == 0 {
			// Settings.ValidateFor rejects public stacks without zones;
			// internal-only stacks never reach the backend.
			return unconfiguredDNS{provider: settings.Provider}, nil
		}
		cred, err := azuredns.NewDefaultCredential()
		if err != nil {
			return nil, err
		}
		client, err := azuredns.NewClient(settings.AzureZoneIDs, cred)
		if err != nil {
			return nil, err
		}
		return infrastructure.NewAzureBackend(client, settings.TTL), nil
	default:
		return nil, fmt.Errorf("unknown DNS provider %q", settings.Provider)
	}
}

type unconfiguredDNS struct {
	provider string
}

func (u unconfiguredDNS) UpsertA(context.Context, infrastructure.ARecord) (infrastructure.UpsertResult, error) {
	return infrastructure.UpsertResult{}, fmt.Errorf("DNS provider %s is not configured", u.provider)
}
