package wizard

import "github.com/charmbracelet/huh"

// ResourcePreset is a named cpu/memory request and limit combination.
type ResourcePreset struct {
	Value         string
	Label         string
	CPURequest    string
	CPULimit      string
	MemoryRequest string
	MemoryLimit   string
}

// Resource preset keys.
const (
	PresetNone   = "none"
	PresetSmall  = "small"
	PresetMedium = "medium"
	PresetLarge  = "large"
)

// Availability choices.
const (
	AvailabilityNone           = "none"
	AvailabilityMinAvailable   = "min-available"
	AvailabilityMaxUnavailable = "max-unavailable"
)

// ResourcePresets contains the container sizes offered by the wizard.
var ResourcePresets = []ResourcePreset{
	{Value: PresetNone, Label: "No requests or limits"},
	{Value: PresetSmall, Label: "Small (100m / 128Mi)", CPURequest: "100m", CPULimit: "250m", MemoryRequest: "128Mi", MemoryLimit: "256Mi"},
	{Value: PresetMedium, Label: "Medium (250m / 256Mi)", CPURequest: "250m", CPULimit: "500m", MemoryRequest: "256Mi", MemoryLimit: "512Mi"},
	{Value: PresetLarge, Label: "Large (1 / 1Gi)", CPURequest: "1", CPULimit: "2", MemoryRequest: "1Gi", MemoryLimit: "2Gi"},
}

// ReplicaCountOptions contains replica count choices.
var ReplicaCountOptions = []huh.Option[int]{
	huh.NewOption("1", 1),
	huh.NewOption("2", 2),
	huh.NewOption("3 (recommended for HA)", 3),
	huh.NewOption("5", 5),
}

// AvailabilityOptions contains disruption budget choices.
var AvailabilityOptions = []huh.Option[string]{
	huh.NewOption("No disruption budget", AvailabilityNone),
	huh.NewOption("Keep at least one pod available", AvailabilityMinAvailable),
	huh.NewOption("Allow at most one pod unavailable", AvailabilityMaxUnavailable),
}

// ResourcePresetsToOptions converts presets to huh options.
func ResourcePresetsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(ResourcePresets))
	for i, p := range ResourcePresets {
		opts[i] = huh.NewOption(p.Label, p.Value)
	}
	return opts
}

// FindPreset returns the preset with the given key.
func FindPreset(value string) (ResourcePreset, bool) {
	for _, p := range ResourcePresets {
		if p.Value == value {
			return p, true
		}
	}
	return ResourcePreset{}, false
}
