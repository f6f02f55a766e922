package orchestration

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/k8s"
	hcloud_internal "github.com/imamik/appstack/internal/platform/hcloud"
	"github.com/imamik/appstack/internal/provisioning"
	"github.com/imamik/appstack/internal/provisioning/infrastructure"
	apptest "github.com/imamik/appstack/internal/testing"
	"github.com/imamik/appstack/internal/util/labels"
)

func kubernetesSettings() config.KubernetesSettings {
	return config.KubernetesSettings{ClusterIssuer: "letsencrypt", IngressClass: "nginx", FieldManager: "appstack"}
}

func publicStack() *config.Stack {
	return apptest.NewStackBuilder("api").
		WithImage("ghcr.io/acme/api:1.0").
		WithPort(8080).
		WithDomain("api.example.com", "example.com").
		Build()
}

type staticDNS struct {
	calls atomic.Int32
}

func (s *staticDNS) UpsertA(_ context.Context, r infrastructure.ARecord) (infrastructure.UpsertResult, error) {
	s.calls.Add(1)
	return infrastructure.UpsertResult{ID: "rec-1", FQDN: r.FQDN}, nil
}

func TestRender_PublicStack(t *testing.T) {
	t.Parallel()

	composers, rec := NewRenderComposers(kubernetesSettings())
	state, err := NewReconciler(composers, nil).Reconcile(apptest.TestContext(t), publicStack(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, PlaceholderIP, state.Address.MustGet().IP)
	assert.Equal(t, "api.example.com", state.DNSRecord.MustGet().FQDN)

	var kinds []string
	for _, obj := range rec.Objects() {
		kinds = append(kinds, obj.GetObjectKind().GroupVersionKind().Kind)
	}
	assert.Equal(t, []string{"Namespace", "Certificate", "Deployment", "Service", "Ingress"}, kinds)

	ing, ok := rec.Objects()[4].(*networkingv1.Ingress)
	require.True(t, ok)
	assert.Equal(t, PlaceholderIP, ing.Annotations[labels.AnnotationAddress])

	manifest, err := rec.Manifest()
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "kind: Ingress")
}

func TestRender_ObjectLabelsMatchStackLabels(t *testing.T) {
	t.Parallel()

	stack := apptest.NewStackBuilder("api").
		WithPort(8080).
		WithDomain("api.example.com", "example.com").
		WithLabel("team", "web").
		WithMinAvailable(intstr.FromInt32(1)).
		Build()
	want := provisioning.Normalize(stack).Labels

	composers, rec := NewRenderComposers(kubernetesSettings())
	_, err := NewReconciler(composers, nil).Reconcile(apptest.TestContext(t), stack, "run-1")
	require.NoError(t, err)
	require.Len(t, rec.Objects(), 6)

	for _, obj := range rec.Objects() {
		accessor, err := meta.Accessor(obj)
		require.NoError(t, err)
		assert.Equal(t, want, accessor.GetLabels(), "%T %s", obj, accessor.GetName())
	}
}

func TestRender_InternalStack(t *testing.T) {
	t.Parallel()

	composers, rec := NewRenderComposers(kubernetesSettings())
	stack := apptest.NewStackBuilder("worker").WithNamespace("shared").Build()

	state, err := NewReconciler(composers, nil).Reconcile(apptest.TestContext(t), stack, "run-1")
	require.NoError(t, err)

	assert.False(t, state.Address.IsPresent())
	assert.False(t, state.Service.IsPresent())
	require.Len(t, rec.Objects(), 1)
	dep, ok := rec.Objects()[0].(*appsv1.Deployment)
	require.True(t, ok)
	assert.Equal(t, "shared", dep.Namespace)
}

func TestLiveComposers(t *testing.T) {
	t.Parallel()
	ctx := apptest.TestContext(t)

	dynamicClient := apptest.NewApplyDynamicClient()
	dns := &staticDNS{}
	settings := &config.Settings{Kubernetes: kubernetesSettings(), HCloud: config.HCloudSettings{Location: "fsn1"}}

	composers, err := NewLiveComposersWith(settings, Clients{
		Kubernetes: k8s.NewClientFromClients(dynamicClient, apptest.StackRESTMapper(), "appstack"),
		Addresses:  &hcloud_internal.MockClient{},
		DNS:        dns,
	}, &config.Timeouts{})
	require.NoError(t, err)

	state, err := NewReconciler(composers, nil).Reconcile(ctx, publicStack(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, "203.0.113.1", state.Address.MustGet().IP)
	assert.EqualValues(t, 1, dns.calls.Load())

	obj, err := dynamicClient.Resource(apptest.IngressGVR).Namespace("api-ns").Get(ctx, "api-ing", metav1.GetOptions{})
	require.NoError(t, err)
	var ing networkingv1.Ingress
	require.NoError(t, runtime.DefaultUnstructuredConverter.FromUnstructured(obj.Object, &ing))
	assert.Equal(t, "api.example.com", ing.Spec.Rules[0].Host)
	assert.Equal(t, "203.0.113.1", ing.Annotations[labels.AnnotationAddress])

	_, err = dynamicClient.Resource(k8s.CertificateGVR).Namespace("api-ns").Get(ctx, "api-cert", metav1.GetOptions{})
	require.NoError(t, err)
}

func TestLiveComposers_PropagatesComposerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exceeded")
	settings := &config.Settings{Kubernetes: kubernetesSettings()}
	composers, err := NewLiveComposersWith(settings, Clients{
		Kubernetes: k8s.NewRecorder(),
		Addresses: &hcloud_internal.MockClient{
			EnsureFloatingIPFunc: func(context.Context, string, string, string, map[string]string) (*hcloud.FloatingIP, error) {
				return nil, boom
			},
		},
		DNS: &staticDNS{},
	}, &config.Timeouts{})
	require.NoError(t, err)

	state, err := NewReconciler(composers, nil).Reconcile(apptest.TestContext(t), publicStack(), "run-1")
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, state)
	assert.Equal(t, provisioning.KindAddress, state.Failed)
	assert.True(t, state.Namespace.IsPresent())
}

func TestNewDNSBackend(t *testing.T) {
	t.Parallel()

	backend, err := newDNSBackend(config.DNSSettings{Provider: config.DNSProviderCloudflare, CloudflareToken: "t"}, config.LoadTimeouts())
	require.NoError(t, err)
	assert.IsType(t, &infrastructure.CloudflareBackend{}, backend)

	backend, err = newDNSBackend(config.DNSSettings{Provider: config.DNSProviderAzure}, config.LoadTimeouts())
	require.NoError(t, err)
	_, err = backend.UpsertA(context.Background(), infrastructure.ARecord{})
	assert.EqualError(t, err, "DNS provider azure is not configured")

	_, err = newDNSBackend(config.DNSSettings{Provider: "route53"}, config.LoadTimeouts())
	assert.EqualError(t, err, `unknown DNS provider "route53"`)
}

func TestReconcileAll(t *testing.T) {
	t.Parallel()

	composers, rec := NewRenderComposers(kubernetesSettings())
	stacks := []*config.Stack{
		publicStack(),
		apptest.NewStackBuilder("worker").WithNamespace("shared").Build(),
		apptest.NewStackBuilder("svc").WithPort(9000).Build(),
	}

	results, err := NewReconciler(composers, nil).ReconcileAll(apptest.TestContext(t), stacks, "run-1")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Same(t, stacks[i], r.Stack)
		assert.NoError(t, r.Err)
		assert.NotNil(t, r.State)
	}
	// api: 5 objects, worker: 1, svc: namespace, deployment, service
	assert.Len(t, rec.Objects(), 9)
}

func TestReconcileAll_ReportsFirstFailure(t *testing.T) {
	t.Parallel()

	stack := &config.Stack{Name: "broken"}
	composers, _ := NewRenderComposers(kubernetesSettings())

	results, err := NewReconciler(composers, nil).ReconcileAll(apptest.TestContext(t), []*config.Stack{stack}, "run-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reconcile broken")
	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].State)
}

func TestRunParallel(t *testing.T) {
	t.Parallel()

	require.NoError(t, RunParallel(context.Background(), nil))

	var ran atomic.Int32
	err := RunParallel(context.Background(), []Task{
		{Name: "a", Func: func(context.Context) error { ran.Add(1); return nil }},
		{Name: "b", Func: func(context.Context) error { ran.Add(1); return errors.New("boom") }},
	})
	assert.EqualError(t, err, "failed to reconcile b: boom")
	assert.EqualValues(t, 2, ran.Load())
}
