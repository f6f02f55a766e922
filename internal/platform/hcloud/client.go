package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// AddressManager reserves floating IPs.
type AddressManager interface {
	// EnsureFloatingIP returns the floating IP called name, creating it in
	// homeLocation when it does not exist. Labels of an existing IP are
	// reconciled.
	EnsureFloatingIP(ctx context.Context, name, homeLocation, ipType string, labels map[string]string) (*hcloud.FloatingIP, error)
	// AssignFloatingIP routes fip to the server called serverName. An IP
	// already assigned to that server is left alone.
	AssignFloatingIP(ctx context.Context, fip *hcloud.FloatingIP, serverName string) error
}
