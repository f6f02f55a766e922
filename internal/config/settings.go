package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
)

// DNS provider names accepted in APPSTACK_DNS_PROVIDER.
const (
	DNSProviderCloudflare = "cloudflare"
	DNSProviderAzure      = "azure"
)

// Settings holds provider credentials and cluster-wide defaults. They apply to
// every stack and are read from the environment.
type Settings struct {
	HCloud     HCloudSettings
	DNS        DNSSettings
	Kubernetes KubernetesSettings
	Outputs    OutputSettings
}

// HCloudSettings configures the Hetzner Cloud address backend.
type HCloudSettings struct {
	Token    string `env:"HCLOUD_TOKEN"`
	Location string `env:"APPSTACK_LOCATION" envDefault:"nbg1"`
	// Server is the Hetzner server floating IPs are assigned to, normally the
	// node running the ingress controller. Empty leaves IPs unassigned.
	Server string `env:"APPSTACK_HCLOUD_SERVER"`
}

// DNSSettings configures the DNS record backend.
type DNSSettings struct {
	Provider string `env:"APPSTACK_DNS_PROVIDER" envDefault:"cloudflare"`

	CloudflareToken string `env:"CF_API_TOKEN"`
	Proxied         bool   `env:"APPSTACK_DNS_PROXIED" envDefault:"false"`
	// TTL of 1 means automatic on Cloudflare.
	TTL int `env:"APPSTACK_DNS_TTL" envDefault:"1"`

	// AzureZoneIDs lists Azure DNS zone resource IDs; the zone whose name
	// matches the stack's dnsZoneName is used.
	AzureZoneIDs []string `env:"AZURE_DNS_ZONE_RESOURCE_IDS" envSeparator:","`
}

// KubernetesSettings configures the cluster composers.
type KubernetesSettings struct {
	Kubeconfig    string `env:"KUBECONFIG"`
	ClusterIssuer string `env:"APPSTACK_CLUSTER_ISSUER" envDefault:"letsencrypt-cloudflare-production"`
	IngressClass  string `env:"APPSTACK_INGRESS_CLASS" envDefault:"nginx"`
	FieldManager  string `env:"APPSTACK_FIELD_MANAGER" envDefault:"appstack"`
}

// OutputSettings configures the optional S3 upload of the outputs report.
type OutputSettings struct {
	S3Endpoint  string `env:"APPSTACK_S3_ENDPOINT"`
	S3Region    string `env:"APPSTACK_S3_REGION" envDefault:"eu-central"`
	S3Bucket    string `env:"APPSTACK_S3_BUCKET"`
	S3AccessKey string `env:"APPSTACK_S3_ACCESS_KEY"`
	S3SecretKey string `env:"APPSTACK_S3_SECRET_KEY"`
}

// LoadSettings reads settings from the process environment.
func LoadSettings() (*Settings, error) {
	return loadSettings(env.Options{})
}

// LoadSettingsFrom reads settings from the given variables only.
func LoadSettingsFrom(vars map[string]string) (*Settings, error) {
	return loadSettings(env.Options{Environment: vars})
}

func loadSettings(opts env.Options) (*Settings, error) {
	s := &Settings{}

	if err := env.ParseWithOptions(&s.HCloud, opts); err != nil {
		return nil, fmt.Errorf("parsing hcloud settings: %w", err)
	}
	if err := env.ParseWithOptions(&s.DNS, opts); err != nil {
		return nil, fmt.Errorf("parsing dns settings: %w", err)
	}
	if err := env.ParseWithOptions(&s.Kubernetes, opts); err != nil {
		return nil, fmt.Errorf("parsing kubernetes settings: %w", err)
	}
	if err := env.ParseWithOptions(&s.Outputs, opts); err != nil {
		return nil, fmt.Errorf("parsing output settings: %w", err)
	}

	s.DNS.Provider = strings.ToLower(strings.TrimSpace(s.DNS.Provider))
	return s, nil
}

// ValidateFor checks that the credentials needed by stack are present. A stack
// that never reaches the public half needs no cloud credentials.
func (s *Settings) ValidateFor(stack *Stack) error {
	public := stack.Domain != "" && stack.DNSZoneName != "" && stack.Container.HasPort()
	if !public {
		return nil
	}
	if s.HCloud.Token == "" {
		return fmt.Errorf("HCLOUD_TOKEN is required to reserve an address for %s", stack.Domain)
	}
	switch s.DNS.Provider {
	case DNSProviderCloudflare:
		if s.DNS.CloudflareToken == "" {
			return fmt.Errorf("CF_API_TOKEN is required for the cloudflare DNS provider")
		}
	case DNSProviderAzure:
		if len(s.DNS.AzureZoneIDs) == 0 {
			return fmt.Errorf("AZURE_DNS_ZONE_RESOURCE_IDS is required for the azure DNS provider")
		}
	default:
		return fmt.Errorf("unknown DNS provider %q: must be %s or %s", s.DNS.Provider, DNSProviderCloudflare, DNSProviderAzure)
	}
	return nil
}

// UploadEnabled reports whether an S3 destination for outputs is configured.
func (o OutputSettings) UploadEnabled() bool {
	return o.S3Endpoint != "" && o.S3Bucket != ""
}
