package wizard

import (
	"strconv"

	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/appstack/internal/config"
)

// BuildStack creates a Stack from the wizard result.
func BuildStack(result *WizardResult) *config.Stack {
	stack := &config.Stack{
		Name:      result.StackName,
		Namespace: result.Namespace,
		Container: config.Container{Image: result.Image},
	}

	if result.Port != "" {
		if p, err := strconv.ParseInt(result.Port, 10, 32); err == nil {
			port := int32(p)
			stack.Container.Port = &port
		}
	}

	if preset, ok := FindPreset(result.ResourcePreset); ok && preset.Value != PresetNone {
		stack.Container.CPU = &config.Allocation{Request: preset.CPURequest, Limit: preset.CPULimit}
		stack.Container.Memory = &config.Allocation{Request: preset.MemoryRequest, Limit: preset.MemoryLimit}
	}

	if result.Expose && stack.Container.Port != nil {
		stack.Domain = result.Domain
		stack.DNSZoneName = result.DNSZoneName
	}

	// Only write replicas when they differ from the default of one
	if result.Replicas > 1 {
		replicas := int32(result.Replicas)
		stack.Replicas = &replicas
	}

	one := intstr.FromInt32(1)
	switch result.Availability {
	case AvailabilityMinAvailable:
		stack.MinAvailable = &one
	case AvailabilityMaxUnavailable:
		stack.MaxUnavailable = &one
	}

	return stack
}
