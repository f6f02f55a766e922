package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/appstack/internal/util/ptr"
)

func TestLoadSettingsFrom_Defaults(t *testing.T) {
	t.Parallel()
	s, err := LoadSettingsFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "nbg1", s.HCloud.Location)
	assert.Equal(t, DNSProviderCloudflare, s.DNS.Provider)
	assert.Equal(t, 1, s.DNS.TTL)
	assert.Equal(t, "letsencrypt-cloudflare-production", s.Kubernetes.ClusterIssuer)
	assert.Equal(t, "nginx", s.Kubernetes.IngressClass)
	assert.False(t, s.Outputs.UploadEnabled())
}

func TestLoadSettingsFrom_Overrides(t *testing.T) {
	t.Parallel()
	s, err := LoadSettingsFrom(map[string]string{
		"HCLOUD_TOKEN":                "token",
		"APPSTACK_DNS_PROVIDER":       " Azure ",
		"AZURE_DNS_ZONE_RESOURCE_IDS": "/subscriptions/a/resourceGroups/rg/providers/Microsoft.Network/dnszones/example.com,/subscriptions/a/resourceGroups/rg/providers/Microsoft.Network/dnszones/example.org",
		"APPSTACK_DNS_TTL":            "300",
		"APPSTACK_S3_ENDPOINT":        "https://fsn1.your-objectstorage.com",
		"APPSTACK_S3_BUCKET":          "outputs",
	})
	require.NoError(t, err)

	assert.Equal(t, DNSProviderAzure, s.DNS.Provider)
	assert.Len(t, s.DNS.AzureZoneIDs, 2)
	assert.Equal(t, 300, s.DNS.TTL)
	assert.True(t, s.Outputs.UploadEnabled())
}

func TestLoadSettingsFrom_InvalidValue(t *testing.T) {
	t.Parallel()
	_, err := LoadSettingsFrom(map[string]string{"APPSTACK_DNS_TTL": "soon"})
	assert.Error(t, err)
}

func TestSettings_ValidateFor(t *testing.T) {
	t.Parallel()
	internal := &Stack{Name: "worker", Container: Container{Image: "x"}}
	public := &Stack{Name: "api", Domain: "api.example.com", DNSZoneName: "example.com", Container: Container{Image: "x", Port: ptr.Int32(8080)}}

	empty := &Settings{DNS: DNSSettings{Provider: DNSProviderCloudflare}}
	assert.NoError(t, empty.ValidateFor(internal), "internal stacks need no credentials")
	assert.ErrorContains(t, empty.ValidateFor(public), "HCLOUD_TOKEN")

	withHCloud := &Settings{HCloud: HCloudSettings{Token: "t"}, DNS: DNSSettings{Provider: DNSProviderCloudflare}}
	assert.ErrorContains(t, withHCloud.ValidateFor(public), "CF_API_TOKEN")

	withHCloud.DNS.CloudflareToken = "cf"
	assert.NoError(t, withHCloud.ValidateFor(public))

	withHCloud.DNS.Provider = "route53"
	assert.ErrorContains(t, withHCloud.ValidateFor(public), "unknown DNS provider")
}
