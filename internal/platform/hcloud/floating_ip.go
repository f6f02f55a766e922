package hcloud

import (
	"context"
	"fmt"
	"maps"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// floatingIPCreateParams holds parameters for creating a floating IP.
type floatingIPCreateParams struct {
	name         string
	homeLocation string
	ipType       string
	labels       map[string]string
}

// EnsureFloatingIP ensures that a floating IP exists with the given specifications.
func (c *RealClient) EnsureFloatingIP(ctx context.Context, name, homeLocation, ipType string, labels map[string]string) (*hcloud.FloatingIP, error) {
	params := floatingIPCreateParams{
		name:         name,
		homeLocation: homeLocation,
		ipType:       ipType,
		labels:       labels,
	}

	return (&EnsureOperation[*hcloud.FloatingIP, floatingIPCreateParams, hcloud.FloatingIPUpdateOpts]{
		Name:         name,
		ResourceType: "floating IP",
		Get:          c.client.FloatingIP.Get,
		Create:       c.createFloatingIPWithDeps,
		CreateOptsMapper: func() floatingIPCreateParams {
			return params
		},
		Validate: func(fip *hcloud.FloatingIP) error {
			if string(fip.Type) != ipType {
				return fmt.Errorf("floating IP %s exists with type %s, want %s", name, fip.Type, ipType)
			}
			return nil
		},
		Update: func(ctx context.Context, fip *hcloud.FloatingIP, opts hcloud.FloatingIPUpdateOpts) (*hcloud.FloatingIP, []*hcloud.Action, error) {
			updated, _, err := c.client.FloatingIP.Update(ctx, fip, opts)
			return updated, nil, err
		},
		UpdateOptsMapper: func(fip *hcloud.FloatingIP) (hcloud.FloatingIPUpdateOpts, bool) {
			if maps.Equal(fip.Labels, labels) {
				return hcloud.FloatingIPUpdateOpts{}, false
			}
			return hcloud.FloatingIPUpdateOpts{Labels: labels}, true
		},
	}).Execute(ctx, c)
}

// createFloatingIPWithDeps resolves dependencies and creates a floating IP.
func (c *RealClient) createFloatingIPWithDeps(ctx context.Context, params floatingIPCreateParams) (*CreateResult[*hcloud.FloatingIP], *hcloud.Response, error) {
	// Resolve location dependency (only when creating)
	loc, _, err := c.client.Location.Get(ctx, params.homeLocation)
	if err != nil {
		return nil, nil, err
	}
	if loc == nil {
		return nil, nil, fmt.Errorf("location %s not found", params.homeLocation)
	}

	opts := hcloud.FloatingIPCreateOpts{
		Name:         &params.name,
		Type:         hcloud.FloatingIPType(params.ipType),
		HomeLocation: loc,
		Labels:       params.labels,
	}

	res, resp, err := c.client.FloatingIP.Create(ctx, opts)
	if err != nil {
		return nil, resp, err
	}
	return &CreateResult[*hcloud.FloatingIP]{Resource: res.FloatingIP, Action: res.Action}, resp, nil
}

// AssignFloatingIP assigns fip to the server called serverName and waits for
// the assign action.
func (c *RealClient) AssignFloatingIP(ctx context.Context, fip *hcloud.FloatingIP, serverName string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.AddressCreate)
	defer cancel()

	server, _, err := c.client.Server.Get(ctx, serverName)
	if err != nil {
		return fmt.Errorf("failed to get server %s: %w", serverName, err)
	}
	if server == nil {
		return fmt.Errorf("server %s not found", serverName)
	}
	if fip.Server != nil && fip.Server.ID == server.ID {
		return nil
	}

	action, _, err := c.client.FloatingIP.Assign(ctx, fip, server)
	if err != nil {
		return fmt.Errorf("failed to assign floating IP %s to %s: %w", fip.Name, serverName, err)
	}
	if err := waitForActions(ctx, c.client, action); err != nil {
		return fmt.Errorf("failed to wait for floating IP %s assignment: %w", fip.Name, err)
	}
	return nil
}
