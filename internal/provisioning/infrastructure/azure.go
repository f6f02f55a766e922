package infrastructure

import (
	"context"
	"fmt"

	"github.com/imamik/appstack/internal/platform/azuredns"
)

// AzureDNSAPI is the part of the Azure DNS client the backend uses.
type AzureDNSAPI interface {
	SelectZone(name string) (azuredns.Zone, error)
	UpsertARecord(ctx context.Context, zone azuredns.Zone, fqdn, ip string, ttl int64, metadata map[string]string) (*azuredns.Record, error)
}

// AzureBackend upserts A records in Azure DNS zones. The zone must be one of
// the configured zone resource IDs.
type AzureBackend struct {
	api AzureDNSAPI
	ttl int64
}

var _ DNSBackend = (*AzureBackend)(nil)

// NewAzureBackend creates a backend writing records with ttl seconds.
func NewAzureBackend(api AzureDNSAPI, ttl int) *AzureBackend {
	// A TTL of 1 is Cloudflare's automatic value; Azure gets its default.
	if ttl <= 1 {
		ttl = 0
	}
	return &AzureBackend{api: api, ttl: int64(ttl)}
}

// UpsertA implements DNSBackend. The comment is stored as metadata next to
// the labels.
func (b *AzureBackend) UpsertA(ctx context.Context, record ARecord) (UpsertResult, error) {
	zone, err := b.api.SelectZone(record.Zone)
	if err != nil {
		return UpsertResult{}, err
	}

	metadata := make(map[string]string, len(record.Labels)+1)
	for k, v := range record.Labels {
		metadata[k] = v
	}
	if record.Comment != "" {
		metadata["comment"] = record.Comment
	}

	rec, err := b.api.UpsertARecord(ctx, zone, record.FQDN, record.IP, b.ttl, metadata)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("zone %s: %w", zone.Name, err)
	}
	return UpsertResult{ID: rec.ID, FQDN: rec.FQDN}, nil
}
