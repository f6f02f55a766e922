package naming

import (
	"fmt"
	"strings"
)

func Namespace(stack string) string {
	return fmt.Sprintf("%s-ns", stack)
}

func Address(stack string) string {
	return fmt.Sprintf("%s-address", stack)
}

func DNSRecord(stack string) string {
	return fmt.Sprintf("%s-dns", stack)
}

func Certificate(stack string) string {
	return fmt.Sprintf("%s-cert", stack)
}

// CertificateSecret is the Secret cert-manager writes the key pair into.
func CertificateSecret(stack string) string {
	return fmt.Sprintf("%s-cert-tls", stack)
}

func Deployment(stack string) string {
	return fmt.Sprintf("%s-dep", stack)
}

// Container is the name of the main container inside the deployment's pod.
func Container(stack string) string {
	return fmt.Sprintf("%s-dep-cont", stack)
}

func DisruptionBudget(stack string) string {
	return fmt.Sprintf("%s-pdb", stack)
}

func Service(stack string) string {
	return fmt.Sprintf("%s-svc", stack)
}

func Ingress(stack string) string {
	return fmt.Sprintf("%s-ing", stack)
}

// RelativeRecordName returns the record name relative to its zone, or "@" for
// the zone apex. Trailing dots are ignored and the zone matches case-insensitively.
func RelativeRecordName(domain, zone string) string {
	domain = strings.TrimSuffix(domain, ".")
	zone = strings.TrimSuffix(zone, ".")
	if strings.EqualFold(domain, zone) {
		return "@"
	}
	suffix := "." + zone
	if len(domain) > len(suffix) && strings.EqualFold(domain[len(domain)-len(suffix):], suffix) {
		return domain[:len(domain)-len(suffix)]
	}
	return domain
}
