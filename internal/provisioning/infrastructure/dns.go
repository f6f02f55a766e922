package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/appstack/internal/provisioning"
)

// ARecord is the record a DNS backend upserts.
type ARecord struct {
	Zone    string
	FQDN    string
	IP      string
	Comment string
	Labels  map[string]string
}

// UpsertResult identifies the record a backend wrote.
type UpsertResult struct {
	ID   string
	FQDN string
}

// DNSBackend creates or updates A records in a provider zone.
type DNSBackend interface {
	UpsertA(ctx context.Context, record ARecord) (UpsertResult, error)
}

// DNSRecordComposer points the stack domain at its reserved address.
type DNSRecordComposer struct {
	backend DNSBackend
}

var _ provisioning.DNSRecordComposer = (*DNSRecordComposer)(nil)

// NewDNSRecordComposer creates records through backend.
func NewDNSRecordComposer(backend DNSBackend) *DNSRecordComposer {
	return &DNSRecordComposer{backend: backend}
}

// CreateDNSRecords upserts the A record for args.Domain in args.Zone.
func (c *DNSRecordComposer) CreateDNSRecords(ctx context.Context, name string, args provisioning.DNSRecordArgs, scope provisioning.Scope) (provisioning.DNSRecordHandle, error) {
	if args.Address.IP == "" {
		return provisioning.DNSRecordHandle{}, errors.New("address has no IP")
	}
	fqdn := strings.TrimSuffix(args.Domain, ".")

	res, err := c.backend.UpsertA(ctx, ARecord{
		Zone:    args.Zone,
		FQDN:    fqdn,
		IP:      args.Address.IP,
		Comment: "appstack " + scope.String(),
		Labels:  args.Labels,
	})
	if err != nil {
		return provisioning.DNSRecordHandle{}, fmt.Errorf("failed to upsert DNS record %s: %w", fqdn, err)
	}
	if res.FQDN != "" {
		fqdn = res.FQDN
	}

	logr.FromContextOrDiscard(ctx).V(1).Info("DNS record upserted", "name", name, "fqdn", fqdn, "target", args.Address.IP)
	return provisioning.DNSRecordHandle{
		Name:   name,
		ID:     res.ID,
		Zone:   args.Zone,
		FQDN:   fqdn,
		Target: args.Address.IP,
		Labels: args.Labels,
	}, nil
}
