package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/appstack/internal/provisioning"
)

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	out := RenderSummary(&provisioning.Outputs{
		RunID: "run-1",
		Stack: "api",
		Entities: []provisioning.EntityOutput{
			{Kind: provisioning.KindNamespace, Name: "api-ns", Present: true, Details: map[string]string{"owned": "true"}},
			{Kind: provisioning.KindAddress, Present: false, Reason: "domain not set"},
			{Kind: provisioning.KindService, Name: "api-svc", Present: true, Details: map[string]string{"targetPort": "8080", "port": "80"}},
		},
	})

	assert.Contains(t, out, "appstack: api")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "api-ns")
	assert.Contains(t, out, "owned=true")
	assert.Contains(t, out, "domain not set")
	assert.Contains(t, out, "port=80 targetPort=8080", "details are sorted by key")
	assert.NotContains(t, out, "aborted")
	assert.Equal(t, 2, strings.Count(out, markPresent))
	assert.Equal(t, 1, strings.Count(out, markAbsent))
}

func TestRenderSummary_Failed(t *testing.T) {
	t.Parallel()

	out := RenderSummary(&provisioning.Outputs{
		Stack:  "api",
		Failed: string(provisioning.KindAddress),
		Entities: []provisioning.EntityOutput{
			{Kind: provisioning.KindNamespace, Name: "api-ns", Present: true},
		},
	})

	assert.Contains(t, out, markFailed)
	assert.Contains(t, out, "aborted at Address")
}

func TestIsInteractiveTTY_File(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer f.Close()
	assert.False(t, IsInteractiveTTY(f))
}
