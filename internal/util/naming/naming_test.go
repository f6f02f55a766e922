package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	stack := "api"

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Namespace", Namespace(stack), "api-ns"},
		{"Address", Address(stack), "api-address"},
		{"DNSRecord", DNSRecord(stack), "api-dns"},
		{"Certificate", Certificate(stack), "api-cert"},
		{"CertificateSecret", CertificateSecret(stack), "api-cert-tls"},
		{"Deployment", Deployment(stack), "api-dep"},
		{"Container", Container(stack), "api-dep-cont"},
		{"DisruptionBudget", DisruptionBudget(stack), "api-pdb"},
		{"Service", Service(stack), "api-svc"},
		{"Ingress", Ingress(stack), "api-ing"},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, tt.got)
		}
	}
}

func TestRelativeRecordName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		domain, zone, want string
	}{
		{"example.com", "example.com", "@"},
		{"api.example.com", "example.com", "api"},
		{"a.b.example.com", "example.com", "a.b"},
		{"api.other.org", "example.com", "api.other.org"},
		{"notexample.com", "example.com", "notexample.com"},
		{"a.b.example.com.", "example.com", "a.b"},
		{"example.com", "example.com.", "@"},
		{"API.Example.com", "example.com", "API"},
	}
	for _, tt := range tests {
		if got := RelativeRecordName(tt.domain, tt.zone); got != tt.want {
			t.Errorf("RelativeRecordName(%q, %q) = %q, want %q", tt.domain, tt.zone, got, tt.want)
		}
	}
}
