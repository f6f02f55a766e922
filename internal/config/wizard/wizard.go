package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Identity
	StackName string
	Namespace string // existing namespace to reuse, empty creates one

	// Container
	Image          string
	Port           string // empty for workers without a listening port
	ResourcePreset string

	// Exposure (only asked when Port is set)
	Expose      bool
	Domain      string
	DNSZoneName string

	// Availability
	Replicas     int
	Availability string
}

// RunWizard runs the interactive stack wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}

	if err := runContainerGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}

	if result.Port != "" {
		if err := runExposureGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("exposure: %w", err)
		}
	}

	if err := runAvailabilityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("availability: %w", err)
	}

	return result, nil
}
