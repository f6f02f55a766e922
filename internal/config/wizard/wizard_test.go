package wizard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/appstack/internal/config"
)

func TestBuildStack_PublicService(t *testing.T) {
	t.Parallel()
	result := &WizardResult{
		StackName:      "api",
		Image:          "ghcr.io/acme/api:1.0.0",
		Port:           "8080",
		ResourcePreset: PresetSmall,
		Expose:         true,
		Domain:         "api.example.com",
		DNSZoneName:    "example.com",
		Replicas:       3,
		Availability:   AvailabilityMinAvailable,
	}

	s := BuildStack(result)

	assert.Equal(t, "api", s.Name)
	require.NotNil(t, s.Container.Port)
	assert.Equal(t, int32(8080), *s.Container.Port)
	assert.Equal(t, "100m", s.Container.CPU.Request)
	assert.Equal(t, "256Mi", s.Container.Memory.Limit)
	assert.Equal(t, "api.example.com", s.Domain)
	require.NotNil(t, s.Replicas)
	assert.Equal(t, int32(3), *s.Replicas)
	require.NotNil(t, s.MinAvailable)
	assert.Equal(t, intstr.FromInt32(1), *s.MinAvailable)
	assert.Nil(t, s.MaxUnavailable)
	assert.NoError(t, s.Validate())
}

func TestBuildStack_Worker(t *testing.T) {
	t.Parallel()
	s := BuildStack(&WizardResult{
		StackName:      "worker",
		Image:          "x",
		ResourcePreset: PresetNone,
		Expose:         true, // ignored without a port
		Domain:         "worker.example.com",
		Replicas:       1,
		Availability:   AvailabilityNone,
	})

	assert.Nil(t, s.Container.Port)
	assert.Nil(t, s.Container.CPU)
	assert.Empty(t, s.Domain)
	assert.Nil(t, s.Replicas)
	assert.Nil(t, s.MinAvailable)
}

func TestWriteStack_RoundTripsThroughLoader(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "appstack.yaml")
	stack := BuildStack(&WizardResult{
		StackName:      "api",
		Image:          "x",
		Port:           "9000",
		ResourcePreset: PresetMedium,
		Replicas:       2,
		Availability:   AvailabilityMaxUnavailable,
	})

	require.NoError(t, WriteStack(stack, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# appstack stack file"))

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stack, loaded)
}

func TestValidators(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, validateStackName(""), errStackNameRequired)
	assert.ErrorIs(t, validateStackName("My_Stack"), errStackNameInvalid)
	assert.NoError(t, validateStackName("api-v2"))

	assert.NoError(t, validateOptionalPort(""))
	assert.NoError(t, validateOptionalPort("8080"))
	assert.ErrorIs(t, validateOptionalPort("0"), errPortInvalid)
	assert.ErrorIs(t, validateOptionalPort("http"), errPortInvalid)

	assert.ErrorIs(t, validateImage("  "), errImageRequired)
	assert.ErrorIs(t, validateDomain("not a domain"), errDomainInvalid)
	assert.NoError(t, validateInZone("api.example.com", "example.com"))
	assert.NoError(t, validateInZone("example.com", "example.com"))
	assert.ErrorIs(t, validateInZone("api.example.org", "example.com"), errZoneMismatch)
}

func TestConfirmOverwrite_Injected(t *testing.T) {
	orig := confirmOverwrite
	t.Cleanup(func() { confirmOverwrite = orig })
	confirmOverwrite = func(string) (bool, error) { return true, nil }

	ok, err := ConfirmOverwrite("appstack.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFindPreset(t *testing.T) {
	t.Parallel()
	p, ok := FindPreset(PresetLarge)
	require.True(t, ok)
	assert.Equal(t, "2Gi", p.MemoryLimit)

	_, ok = FindPreset("huge")
	assert.False(t, ok)
}
