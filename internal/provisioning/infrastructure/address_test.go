package infrastructure

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hcloud_internal "github.com/imamik/appstack/internal/platform/hcloud"
	"github.com/imamik/appstack/internal/provisioning"
)

var testScope = provisioning.Scope{Type: provisioning.ScopeType, Name: "api"}

func TestCreateAddress(t *testing.T) {
	t.Parallel()

	var gotName, gotLocation, gotType string
	var gotLabels map[string]string
	mock := &hcloud_internal.MockClient{
		EnsureFloatingIPFunc: func(_ context.Context, name, homeLocation, ipType string, labels map[string]string) (*hcloud.FloatingIP, error) {
			gotName, gotLocation, gotType, gotLabels = name, homeLocation, ipType, labels
			return &hcloud.FloatingIP{ID: 42, Name: name, IP: net.ParseIP("198.51.100.7")}, nil
		},
	}
	labels := map[string]string{"appstack.io/stack": "api"}

	h, err := NewAddressComposer(mock, "fsn1").CreateAddress(context.Background(), "api-address",
		provisioning.AddressArgs{Labels: labels}, testScope)
	require.NoError(t, err)

	assert.Equal(t, provisioning.AddressHandle{Name: "api-address", ID: "42", IP: "198.51.100.7", Labels: labels}, h)
	assert.Equal(t, "api-address", gotName)
	assert.Equal(t, "fsn1", gotLocation)
	assert.Equal(t, "ipv4", gotType)
	assert.Equal(t, labels, gotLabels)
}

func TestCreateAddress_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fip     *hcloud.FloatingIP
		err     error
		wantErr string
	}{
		{name: "provider error", err: errors.New("quota exceeded"), wantErr: "failed to reserve address api-address: quota exceeded"},
		{name: "no IP", fip: &hcloud.FloatingIP{ID: 1}, wantErr: "floating IP api-address has no address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := &hcloud_internal.MockClient{
				EnsureFloatingIPFunc: func(context.Context, string, string, string, map[string]string) (*hcloud.FloatingIP, error) {
					return tt.fip, tt.err
				},
			}
			_, err := NewAddressComposer(mock, "nbg1").CreateAddress(context.Background(), "api-address", provisioning.AddressArgs{}, testScope)
			assert.EqualError(t, err, tt.wantErr)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestCreateAddress_AssignsToServer(t *testing.T) {
	t.Parallel()

	var gotServer string
	var gotID int64
	mock := &hcloud_internal.MockClient{
		AssignFloatingIPFunc: func(_ context.Context, fip *hcloud.FloatingIP, serverName string) error {
			gotID, gotServer = fip.ID, serverName
			return nil
		},
	}

	_, err := NewAddressComposer(mock, "nbg1", WithServer("ingress-1")).CreateAddress(context.Background(), "api-address", provisioning.AddressArgs{}, testScope)
	require.NoError(t, err)
	assert.Equal(t, "ingress-1", gotServer)
	assert.Equal(t, int64(1), gotID)
}

func TestCreateAddress_AssignError(t *testing.T) {
	t.Parallel()

	boom := errors.New("server locked")
	mock := &hcloud_internal.MockClient{
		AssignFloatingIPFunc: func(context.Context, *hcloud.FloatingIP, string) error { return boom },
	}

	_, err := NewAddressComposer(mock, "nbg1", WithServer("ingress-1")).CreateAddress(context.Background(), "api-address", provisioning.AddressArgs{}, testScope)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to route address api-address")
}

func TestCreateAddress_NoServerLeavesUnassigned(t *testing.T) {
	t.Parallel()

	called := false
	mock := &hcloud_internal.MockClient{
		AssignFloatingIPFunc: func(context.Context, *hcloud.FloatingIP, string) error {
			called = true
			return nil
		},
	}

	_, err := NewAddressComposer(mock, "nbg1").CreateAddress(context.Background(), "api-address", provisioning.AddressArgs{}, testScope)
	require.NoError(t, err)
	assert.False(t, called)
}

func TestCreateAddress_DefaultMock(t *testing.T) {
	t.Parallel()

	h, err := NewAddressComposer(&hcloud_internal.MockClient{}, "nbg1").CreateAddress(context.Background(), "svc-address", provisioning.AddressArgs{}, testScope)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.1", h.IP)
	assert.Equal(t, "1", h.ID)
}
