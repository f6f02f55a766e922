package provisioning

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

func TestBuildOutputs(t *testing.T) {
	t.Parallel()
	in := &Input{Name: "worker", Namespace: "shared"}
	state, err := Resolve(context.Background(), in, deploymentOnly{}, WithObserver(NewMockObserver()))
	require.NoError(t, err)

	out := BuildOutputs(in, state, "run-1")

	assert.Equal(t, "worker", out.Stack)
	assert.Equal(t, "appstack:k8s:stack/worker", out.Scope)
	assert.Equal(t, "run-1", out.RunID)
	require.Len(t, out.Entities, 10)
	assert.Equal(t, KindNamespace, out.Entities[0].Kind)
	assert.Equal(t, map[string]string{"owned": "false"}, out.Entities[0].Details)
	assert.False(t, out.Entities[1].Present)
	assert.Nil(t, out.Entities[1].Details)

	data, err := out.YAML()
	require.NoError(t, err)
	var decoded Outputs
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, *out, decoded)

	data, err = out.JSON()
	require.NoError(t, err)
	var fromJSON Outputs
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, *out, fromJSON)
}

func TestProbeDetails(t *testing.T) {
	t.Parallel()
	assert.Nil(t, probeDetails(nil))

	in := &Input{Name: "api", Domain: "api.example.com"}
	port := int32(8080)
	in.Container.Port = &port
	c := &Context{Input: in, State: NewState(), Composers: ComposerSet{ProbeComposer: staticProbe{}}}
	_, _, err := composeReadinessProbe(c)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"type": "httpGet", "path": "/p", "port": "8080"},
		details(KindReadinessProbe, c.State))
}

type staticProbe struct{}

func (staticProbe) CreateHTTPProbe(args ProbeArgs) *corev1.Probe {
	return &corev1.Probe{ProbeHandler: corev1.ProbeHandler{HTTPGet: &corev1.HTTPGetAction{
		Path: "/p",
		Port: intstr.FromInt32(args.Port),
	}}}
}
