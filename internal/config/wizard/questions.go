package wizard

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"k8s.io/apimachinery/pkg/util/validation"
)

// stackNameRegex leaves room for the longest child suffix within a DNS label.
var stackNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,50}[a-z0-9])?$`)

// runIdentityGroup prompts for the stack name and namespace.
func runIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Stack Name").
				Description("Lowercase alphanumeric characters or hyphens; every resource is named after it").
				Placeholder("api").
				Value(&result.StackName).
				Validate(validateStackName),
			huh.NewInput().
				Title("Existing Namespace (Optional)").
				Description("Leave empty to create <name>-ns owned by the stack").
				Value(&result.Namespace).
				Validate(validateOptionalNamespace),
		).Title("Stack Identity"),
	).RunWithContext(ctx)
}

// runContainerGroup prompts for the main container.
func runContainerGroup(ctx context.Context, result *WizardResult) error {
	result.ResourcePreset = PresetSmall // default

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Container Image").
				Placeholder("ghcr.io/acme/api:1.0.0").
				Value(&result.Image).
				Validate(validateImage),
			huh.NewInput().
				Title("Container Port (Optional)").
				Description("Leave empty for workers that do not listen; no service or ingress is created").
				Placeholder("8080").
				Value(&result.Port).
				Validate(validateOptionalPort),
			huh.NewSelect[string]().
				Title("Resources").
				Options(ResourcePresetsToOptions()...).
				Value(&result.ResourcePreset),
		).Title("Container"),
	).RunWithContext(ctx)
}

// runExposureGroup prompts for public exposure.
func runExposureGroup(ctx context.Context, result *WizardResult) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Expose Publicly?").
				Description("Reserves an address, creates a DNS record, a TLS certificate and an ingress").
				Value(&result.Expose),
		).Title("Exposure"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}

	if !result.Expose {
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("DNS Zone").
				Placeholder("example.com").
				Value(&result.DNSZoneName).
				Validate(validateDomain),
			huh.NewInput().
				Title("Domain").
				Placeholder("api.example.com").
				Value(&result.Domain).
				Validate(func(s string) error {
					if err := validateDomain(s); err != nil {
						return err
					}
					return validateInZone(s, result.DNSZoneName)
				}),
		).Title("Domain"),
	).RunWithContext(ctx)
}

// runAvailabilityGroup prompts for replicas and the disruption budget.
func runAvailabilityGroup(ctx context.Context, result *WizardResult) error {
	result.Replicas = 1
	result.Availability = AvailabilityNone

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Replicas").
				Options(ReplicaCountOptions...).
				Value(&result.Replicas),
			huh.NewSelect[string]().
				Title("Disruption Budget").
				Description("Limits voluntary evictions during node drains").
				Options(AvailabilityOptions...).
				Value(&result.Availability),
		).Title("Availability"),
	).RunWithContext(ctx)
}

func validateStackName(s string) error {
	if s == "" {
		return errStackNameRequired
	}
	if !stackNameRegex.MatchString(s) {
		return errStackNameInvalid
	}
	return nil
}

func validateOptionalNamespace(s string) error {
	if s == "" {
		return nil
	}
	if len(validation.IsDNS1123Label(s)) > 0 {
		return errNamespaceInvalid
	}
	return nil
}

func validateImage(s string) error {
	if strings.TrimSpace(s) == "" {
		return errImageRequired
	}
	return nil
}

func validateOptionalPort(s string) error {
	if s == "" {
		return nil
	}
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return errPortInvalid
	}
	return nil
}

func validateDomain(s string) error {
	if len(validation.IsDNS1123Subdomain(s)) > 0 {
		return errDomainInvalid
	}
	return nil
}

func validateInZone(domain, zone string) error {
	if domain == zone || strings.HasSuffix(domain, "."+zone) {
		return nil
	}
	return errZoneMismatch
}
