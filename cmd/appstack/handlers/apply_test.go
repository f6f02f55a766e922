package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/orchestration"
	"github.com/imamik/appstack/internal/provisioning"
)

const (
	internalStackYAML = `name: worker
container:
  image: ghcr.io/acme/worker:1.0
`
	publicStackYAML = `name: api
domain: api.example.com
dnsZoneName: example.com
container:
  image: ghcr.io/acme/api:1.0
  port: 8080
minAvailable: 1
`
)

// saveAndRestoreFactories saves and restores all factory functions.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origFindConfigFile := findConfigFile
	origLoadStackFile := loadStackFile
	origLoadSettings := loadSettings
	origNewLiveComposers := newLiveComposers
	origNewUploader := newUploader
	origRunApplyTUI := runApplyTUI
	origIsTerminal := isTerminal
	origNewRunID := newRunID
	origWriteFile := writeFile
	origWriteTextfile := writeTextfile

	t.Cleanup(func() {
		findConfigFile = origFindConfigFile
		loadStackFile = origLoadStackFile
		loadSettings = origLoadSettings
		newLiveComposers = origNewLiveComposers
		newUploader = origNewUploader
		runApplyTUI = origRunApplyTUI
		isTerminal = origIsTerminal
		newRunID = origNewRunID
		writeFile = origWriteFile
		writeTextfile = origWriteTextfile
	})
}

// useOfflineProviders wires apply to the render composers and credentials
// that satisfy every settings check.
func useOfflineProviders(t *testing.T) {
	t.Helper()
	saveAndRestoreFactories(t)

	loadSettings = func() (*config.Settings, error) {
		return testSettings(), nil
	}
	newLiveComposers = func(s *config.Settings) (provisioning.ComposerSet, error) {
		composers, _ := orchestration.NewRenderComposers(s.Kubernetes)
		return composers, nil
	}
	isTerminal = func(*os.File) bool { return false }
	newRunID = func() string { return "run-1" }
}

func testSettings() *config.Settings {
	s, err := config.LoadSettingsFrom(map[string]string{
		"HCLOUD_TOKEN": "hcloud-token",
		"CF_API_TOKEN": "cf-token",
	})
	if err != nil {
		panic(err)
	}
	return s
}

func writeStackFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

type failingAddress struct {
	err error
}

func (f failingAddress) CreateAddress(context.Context, string, provisioning.AddressArgs, provisioning.Scope) (provisioning.AddressHandle, error) {
	return provisioning.AddressHandle{}, f.err
}

type fakeUploader struct {
	mu      sync.Mutex
	bucket  string
	keys    []string
	payload [][]byte
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, bucket, key, _ string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bucket = bucket
	f.keys = append(f.keys, key)
	f.payload = append(f.payload, data)
	return f.err
}

type recordingObserver struct {
	events []provisioning.Event
}

func (r *recordingObserver) Event(e provisioning.Event) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) WithFields(map[string]string) provisioning.Observer {
	return r
}

func TestApply_InternalStackPrintsYAML(t *testing.T) {
	useOfflineProviders(t)
	path := writeStackFile(t, "worker.yaml", internalStackYAML)

	var err error
	output := captureOutput(func() {
		err = Apply(context.Background(), ApplyOptions{ConfigPaths: []string{path}})
	})

	require.NoError(t, err)
	assert.Contains(t, output, "stack: worker")
	assert.Contains(t, output, "runId: run-1")
	assert.Contains(t, output, "kind: Deployment")
	assert.NotContains(t, output, "failed:")
}

func TestApply_DefaultConfigFile(t *testing.T) {
	useOfflineProviders(t)
	path := writeStackFile(t, "appstack.yaml", internalStackYAML)

	findConfigFile = func(p string) (string, error) {
		assert.Empty(t, p)
		return path, nil
	}

	var err error
	captureOutput(func() {
		err = Apply(context.Background(), ApplyOptions{})
	})
	require.NoError(t, err)
}

func TestApply_NoConfigFile(t *testing.T) {
	useOfflineProviders(t)
	findConfigFile = func(string) (string, error) {
		return "", errors.New("no config file given and appstack.yaml not found")
	}

	err := Apply(context.Background(), ApplyOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appstack.yaml not found")
}

func TestApply_MultipleStacksJSON(t *testing.T) {
	useOfflineProviders(t)
	api := writeStackFile(t, "api.yaml", publicStackYAML)
	worker := writeStackFile(t, "worker.yaml", internalStackYAML)

	var err error
	output := captureOutput(func() {
		err = Apply(context.Background(), ApplyOptions{ConfigPaths: []string{api, worker}, Output: FormatJSON})
	})

	require.NoError(t, err)
	assert.Contains(t, output, `"stack": "api"`)
	assert.Contains(t, output, `"stack": "worker"`)
	assert.Contains(t, output, `"kind": "Ingress"`)
}

func TestApply_DuplicateStackNames(t *testing.T) {
	useOfflineProviders(t)
	a := writeStackFile(t, "a.yaml", internalStackYAML)
	b := writeStackFile(t, "b.yaml", internalStackYAML)

	err := Apply(context.Background(), ApplyOptions{ConfigPaths: []string{a, b}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack worker is defined in both")
}

func TestApply_MissingCredentials(t *testing.T) {
	useOfflineProviders(t)
	loadSettings = func() (*config.Settings, error) {
		return config.LoadSettingsFrom(map[string]string{})
	}
	composersBuilt := false
	newLiveComposers = func(*config.Settings) (provisioning.ComposerSet, error) {
		composersBuilt = true
		return provisioning.ComposerSet{}, nil
	}
	path := writeStackFile(t, "api.yaml", publicStackYAML)

	err := Apply(context.Background(), ApplyOptions{ConfigPaths: []string{path}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HCLOUD_TOKEN")
	assert.False(t, composersBuilt)
}

func TestApply_UnknownFormatFailsBeforeProvisioning(t *testing.T) {
	useOfflineProviders(t)
	composersBuilt := false
	newLiveComposers = func(*config.Settings) (provisioning.ComposerSet, error) {
		composersBuilt = true
		return provisioning.ComposerSet{}, nil
	}
	path := writeStackFile(t, "worker.yaml", internalStackYAML)

	err := Apply(context.Background(), ApplyOptions{ConfigPaths: []string{path}, Output: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
	assert.False(t, composersBuilt)
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	for _, format := range []string{"", FormatTable, FormatYAML, FormatJSON} {
		assert.NoError(t, validateFormat(format), format)
	}
	assert.Error(t, validateFormat("xml"))
}

func TestApply_ComposerFailurePrintsPartialReport(t *testing.T) {
	useOfflineProviders(t)
	errQuota := errors.New("floating ip quota exceeded")
	newLiveComposers = func(s *config.Settings) (provisioning.ComposerSet, error) {
		composers, _ := orchestration.NewRenderComposers(s.Kubernetes)
		composers.AddressComposer = failingAddress{err: errQuota}
		return composers, nil
	}
	path := writeStackFile(t, "api.yaml", publicStackYAML)

	var err error
	output := captureOutput(func() {
		err = Apply(context.Background(), ApplyOptions{ConfigPaths: []string{path}})
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errQuota)
	assert.Contains(t, output, "failed: Address")
	assert.Contains(t, output, "kind: Namespace")
	assert.NotContains(t, output, "kind: Ingress")
}

func TestApply_MetricsTextfile(t *testing.T) {
	useOfflineProviders(t)
	path := writeStackFile(t, "worker.yaml", internalStackYAML)
	metricsPath := filepath.Join(t.TempDir(), "appstack.prom")

	var err error
	captureOutput(func() {
		err = Apply(context.Background(), ApplyOptions{ConfigPaths: []string{path}, MetricsTextfile: metricsPath})
	})
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "appstack_resolver_decisions_total")
	assert.Contains(t, string(data), `kind="Deployment"`)
}

func TestApply_UploadOutputs(t *testing.T) {
	useOfflineProviders(t)
	loadSettings = func() (*config.Settings, error) {
		s := testSettings()
		s.Outputs.S3Endpoint = "https://fsn1.your-objectstorage.com"
		s.Outputs.S3Bucket = "reports"
		return s, nil
	}
	uploader := &fakeUploader{}
	newUploader = func(config.OutputSettings) (reportUploader, error) {
		return uploader, nil
	}
	path := writeStackFile(t, "worker.yaml", internalStackYAML)

	var err error
	captureOutput(func() {
		err = Apply(context.Background(), ApplyOptions{ConfigPaths: []string{path}, UploadOutputs: true})
	})

	require.NoError(t, err)
	assert.Equal(t, "reports", uploader.bucket)
	assert.Equal(t, []string{"appstack/worker/run-1.json"}, uploader.keys)
	require.Len(t, uploader.payload, 1)
	assert.Contains(t, string(uploader.payload[0]), `"stack": "worker"`)
}

func TestApply_UploadRequiresDestination(t *testing.T) {
	useOfflineProviders(t)
	path := writeStackFile(t, "worker.yaml", internalStackYAML)

	err := Apply(context.Background(), ApplyOptions{ConfigPaths: []string{path}, UploadOutputs: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APPSTACK_S3_BUCKET")
}

func TestApply_TUI(t *testing.T) {
	t.Run("forwards the observer to the resolver", func(t *testing.T) {
		useOfflineProviders(t)
		isTerminal = func(*os.File) bool { return true }
		observer := &recordingObserver{}
		var gotStack string
		runApplyTUI = func(ctx context.Context, stack string, resolve func(context.Context, provisioning.Observer) error) error {
			gotStack = stack
			return resolve(ctx, observer)
		}
		path := writeStackFile(t, "worker.yaml", internalStackYAML)

		var err error
		output := captureOutput(func() {
			err = Apply(context.Background(), ApplyOptions{ConfigPaths: []string{path}, TUI: true})
		})

		require.NoError(t, err)
		assert.Equal(t, "worker", gotStack)
		assert.NotEmpty(t, observer.events)
		assert.Contains(t, output, "[OK]")
	})

	t.Run("rejects several stacks", func(t *testing.T) {
		useOfflineProviders(t)
		a := writeStackFile(t, "a.yaml", internalStackYAML)
		b := writeStackFile(t, "b.yaml", publicStackYAML)

		err := Apply(context.Background(), ApplyOptions{ConfigPaths: []string{a, b}, TUI: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single stack")
	})

	t.Run("requires a terminal", func(t *testing.T) {
		useOfflineProviders(t)
		path := writeStackFile(t, "worker.yaml", internalStackYAML)

		err := Apply(context.Background(), ApplyOptions{ConfigPaths: []string{path}, TUI: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interactive terminal")
	})
}

func TestResolveFormat(t *testing.T) {
	saveAndRestoreFactories(t)

	isTerminal = func(*os.File) bool { return true }
	assert.Equal(t, FormatTable, resolveFormat(""))
	assert.Equal(t, FormatJSON, resolveFormat(FormatJSON))

	isTerminal = func(*os.File) bool { return false }
	assert.Equal(t, FormatYAML, resolveFormat(""))
}

func TestEncodeOutputs_UnknownFormat(t *testing.T) {
	t.Parallel()
	_, err := encodeOutputs(&provisioning.Outputs{Stack: "api"}, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

// captureOutput captures stdout during function execution.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()

	_ = w.Close()
	os.Stdout = old
	return <-done
}
