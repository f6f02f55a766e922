package hcloud

import (
	"context"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// MockClient is a mock implementation of AddressManager.
type MockClient struct {
	EnsureFloatingIPFunc func(ctx context.Context, name, homeLocation, ipType string, labels map[string]string) (*hcloud.FloatingIP, error)
	AssignFloatingIPFunc func(ctx context.Context, fip *hcloud.FloatingIP, serverName string) error
}

var _ AddressManager = (*MockClient)(nil)

// EnsureFloatingIP calls EnsureFloatingIPFunc or returns 203.0.113.1.
func (m *MockClient) EnsureFloatingIP(ctx context.Context, name, homeLocation, ipType string, labels map[string]string) (*hcloud.FloatingIP, error) {
	if m.EnsureFloatingIPFunc != nil {
		return m.EnsureFloatingIPFunc(ctx, name, homeLocation, ipType, labels)
	}
	return &hcloud.FloatingIP{ID: 1, Name: name, IP: net.ParseIP("203.0.113.1"), Labels: labels}, nil
}

// AssignFloatingIP calls AssignFloatingIPFunc or succeeds.
func (m *MockClient) AssignFloatingIP(ctx context.Context, fip *hcloud.FloatingIP, serverName string) error {
	if m.AssignFloatingIPFunc != nil {
		return m.AssignFloatingIPFunc(ctx, fip, serverName)
	}
	return nil
}
