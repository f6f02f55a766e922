package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/platform/cloudflare"
	"github.com/imamik/appstack/internal/util/retry"
)

// CloudflareAPI is the part of the Cloudflare client the backend uses.
type CloudflareAPI interface {
	GetZoneID(ctx context.Context, zone string) (string, error)
	UpsertRecord(ctx context.Context, zoneID string, record cloudflare.Record) (cloudflare.Record, error)
}

// CloudflareBackend upserts A records through the Cloudflare API. Rate
// limits and server errors are retried with backoff.
type CloudflareBackend struct {
	api      CloudflareAPI
	ttl      int
	proxied  bool
	timeouts *config.Timeouts
}

var _ DNSBackend = (*CloudflareBackend)(nil)

// NewCloudflareBackend creates a backend with the TTL and proxy mode of
// settings.
func NewCloudflareBackend(api CloudflareAPI, settings config.DNSSettings, timeouts *config.Timeouts) *CloudflareBackend {
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}
	return &CloudflareBackend{
		api:      api,
		ttl:      settings.TTL,
		proxied:  settings.Proxied,
		timeouts: timeouts,
	}
}

// UpsertA implements DNSBackend.
func (b *CloudflareBackend) UpsertA(ctx context.Context, record ARecord) (UpsertResult, error) {
	var zoneID string
	err := b.withRetry(ctx, func(ctx context.Context) error {
		var err error
		zoneID, err = b.api.GetZoneID(ctx, record.Zone)
		return err
	})
	if err != nil {
		return UpsertResult{}, err
	}

	var saved cloudflare.Record
	err = b.withRetry(ctx, func(ctx context.Context) error {
		var err error
		saved, err = b.api.UpsertRecord(ctx, zoneID, cloudflare.Record{
			Type:    "A",
			Name:    record.FQDN,
			Content: record.IP,
			TTL:     b.ttl,
			Proxied: b.proxied,
			Comment: record.Comment,
		})
		return err
	})
	if err != nil {
		return UpsertResult{}, fmt.Errorf("zone %s: %w", record.Zone, err)
	}
	return UpsertResult{ID: saved.ID, FQDN: saved.Name}, nil
}

func (b *CloudflareBackend) withRetry(ctx context.Context, op func(context.Context) error) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, b.timeouts.DNSRequest)
		defer cancel()
		return op(reqCtx)
	},
		retry.WithMaxRetries(b.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(b.timeouts.RetryInitialDelay),
		retry.WithRetryIf(isRetryableCloudflare))
}

func isRetryableCloudflare(err error) bool {
	var apiErr *cloudflare.APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}
