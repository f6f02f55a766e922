package infrastructure

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-logr/logr"

	"github.com/imamik/appstack/internal/platform/hcloud"
	"github.com/imamik/appstack/internal/provisioning"
)

// AddressComposer reserves the public IPv4 of a stack as a floating IP and,
// when a server is configured, routes it to that server.
type AddressComposer struct {
	manager  hcloud.AddressManager
	location string
	server   string
}

var _ provisioning.AddressComposer = (*AddressComposer)(nil)

// AddressOption configures an AddressComposer.
type AddressOption func(*AddressComposer)

// WithServer assigns every reserved IP to the named server, normally the node
// running the ingress controller. Empty leaves IPs unassigned.
func WithServer(name string) AddressOption {
	return func(c *AddressComposer) {
		c.server = name
	}
}

// NewAddressComposer creates floating IPs in location through manager.
func NewAddressComposer(manager hcloud.AddressManager, location string, opts ...AddressOption) *AddressComposer {
	c := &AddressComposer{manager: manager, location: location}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateAddress ensures the floating IP called name exists and carries the
// stack labels.
func (c *AddressComposer) CreateAddress(ctx context.Context, name string, args provisioning.AddressArgs, _ provisioning.Scope) (provisioning.AddressHandle, error) {
	fip, err := c.manager.EnsureFloatingIP(ctx, name, c.location, "ipv4", args.Labels)
	if err != nil {
		return provisioning.AddressHandle{}, fmt.Errorf("failed to reserve address %s: %w", name, err)
	}
	if fip == nil || fip.IP == nil {
		return provisioning.AddressHandle{}, fmt.Errorf("floating IP %s has no address", name)
	}

	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("address reserved", "name", name, "ip", fip.IP.String(), "location", c.location)

	if c.server != "" {
		if err := c.manager.AssignFloatingIP(ctx, fip, c.server); err != nil {
			return provisioning.AddressHandle{}, fmt.Errorf("failed to route address %s: %w", name, err)
		}
		log.V(1).Info("address assigned", "name", name, "server", c.server)
	}
	return provisioning.AddressHandle{
		Name:   name,
		ID:     strconv.FormatInt(fip.ID, 10),
		IP:     fip.IP.String(),
		Labels: args.Labels,
	}, nil
}
