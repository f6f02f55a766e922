package azuredns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/dns/armdns"

	"github.com/imamik/appstack/internal/util/naming"
)

// DefaultTTL is used when a record is upserted with a TTL below one second.
const DefaultTTL int64 = 300

// RecordSetsAPI is the subset of armdns.RecordSetsClient used here.
type RecordSetsAPI interface {
	CreateOrUpdate(ctx context.Context, resourceGroupName, zoneName, relativeRecordSetName string,
		recordType armdns.RecordType, parameters armdns.RecordSet,
		options *armdns.RecordSetsClientCreateOrUpdateOptions) (armdns.RecordSetsClientCreateOrUpdateResponse, error)
}

// RecordSetsFactory returns a record-set client for a subscription.
type RecordSetsFactory func(subscriptionID string) (RecordSetsAPI, error)

// Zone is a parsed Azure DNS zone resource ID.
type Zone struct {
	ResourceID     string
	SubscriptionID string
	ResourceGroup  string
	Name           string
}

// Record is the result of an upsert.
type Record struct {
	ID   string
	Name string
	FQDN string
	IP   string
}

// Client manages A records across the configured zones.
type Client struct {
	zones      []Zone
	recordSets RecordSetsFactory
}

// ParseZoneID parses /subscriptions/{sub}/resourceGroups/{rg}/providers/Microsoft.Network/dnszones/{zone}.
func ParseZoneID(resourceID string) (Zone, error) {
	rid, err := arm.ParseResourceID(resourceID)
	if err != nil {
		return Zone{}, fmt.Errorf("parse Azure DNS zone resource ID: %w", err)
	}
	if !strings.EqualFold(rid.ResourceType.Namespace, "Microsoft.Network") ||
		!strings.EqualFold(rid.ResourceType.Type, "dnszones") {
		return Zone{}, fmt.Errorf("invalid resource type for DNS zone: expected Microsoft.Network/dnszones, got %s/%s",
			rid.ResourceType.Namespace, rid.ResourceType.Type)
	}
	return Zone{
		ResourceID:     resourceID,
		SubscriptionID: rid.SubscriptionID,
		ResourceGroup:  rid.ResourceGroupName,
		Name:           strings.TrimSuffix(rid.Name, "."),
	}, nil
}

// NewClient creates a client authenticated with cred.
func NewClient(zoneIDs []string, cred azcore.TokenCredential) (*Client, error) {
	return NewClientWithRecordSets(zoneIDs, func(subscriptionID string) (RecordSetsAPI, error) {
		return armdns.NewRecordSetsClient(subscriptionID, cred, nil)
	})
}

// NewClientWithRecordSets creates a client whose record-set clients come
// from factory.
func NewClientWithRecordSets(zoneIDs []string, factory RecordSetsFactory) (*Client, error) {
	zones := make([]Zone, 0, len(zoneIDs))
	for _, id := range zoneIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		z, err := ParseZoneID(id)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	if len(zones) == 0 {
		return nil, errors.New("no Azure DNS zones configured")
	}
	return &Client{zones: zones, recordSets: factory}, nil
}

// NewDefaultCredential returns the azidentity default credential chain
// (environment, workload identity, managed identity, Azure CLI).
func NewDefaultCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure credential: %w", err)
	}
	return cred, nil
}

// SelectZone returns the configured zone named name.
func (c *Client) SelectZone(name string) (Zone, error) {
	name = strings.TrimSuffix(name, ".")
	for _, z := range c.zones {
		if strings.EqualFold(z.Name, name) {
			return z, nil
		}
	}
	return Zone{}, fmt.Errorf("DNS zone %s is not among the configured Azure zones", name)
}

// UpsertARecord creates or replaces the A record set for fqdn in zone with a
// single address. Metadata keys are reduced to the characters Azure accepts.
func (c *Client) UpsertARecord(ctx context.Context, zone Zone, fqdn, ip string, ttl int64, metadata map[string]string) (*Record, error) {
	client, err := c.recordSets(zone.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("create DNS record sets client: %w", err)
	}
	if ttl < 1 {
		ttl = DefaultTTL
	}

	relName := naming.RelativeRecordName(fqdn, zone.Name)
	params := armdns.RecordSet{
		Properties: &armdns.RecordSetProperties{
			TTL:      to.Ptr(ttl),
			ARecords: []*armdns.ARecord{{IPv4Address: to.Ptr(ip)}},
			Metadata: metadataFor(metadata),
		},
	}

	resp, err := client.CreateOrUpdate(ctx, zone.ResourceGroup, zone.Name, relName, armdns.RecordTypeA, params, nil)
	if err != nil {
		return nil, fmt.Errorf("create/update DNS record %s in %s: %w", relName, zone.Name, err)
	}

	rec := &Record{Name: relName, FQDN: strings.TrimSuffix(fqdn, "."), IP: ip}
	if resp.ID != nil {
		rec.ID = *resp.ID
	}
	if resp.Properties != nil && resp.Properties.Fqdn != nil {
		rec.FQDN = strings.TrimSuffix(*resp.Properties.Fqdn, ".")
	}
	return rec, nil
}

func metadataFor(labels map[string]string) map[string]*string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]*string, len(labels))
	for k, v := range labels {
		out[metadataKey(k)] = to.Ptr(v)
	}
	return out
}

func metadataKey(k string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, k)
}
