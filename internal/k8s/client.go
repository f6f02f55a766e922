package k8s

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
)

// Applier writes one object. Implementations must be idempotent: applying an
// object that already exists updates it in place.
type Applier interface {
	Apply(ctx context.Context, obj runtime.Object) error
}

// CertificateGVR is the cert-manager Certificate resource.
var CertificateGVR = schema.GroupVersionResource{
	Group:    "cert-manager.io",
	Version:  "v1",
	Resource: "certificates",
}

// Client applies stack objects to a live cluster with Server-Side Apply.
// Only the fields appstack sets are owned by its field manager, so labels,
// annotations and defaults written by others survive a second apply.
type Client struct {
	dynamic      dynamic.Interface
	mapper       meta.RESTMapper
	fieldManager string
}

var _ Applier = (*Client)(nil)

// NewClient creates a Client from a kubeconfig path. An empty path falls back
// to the in-cluster config.
func NewClient(kubeconfigPath, fieldManager string) (*Client, error) {
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}
	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		return nil, fmt.Errorf("failed to get API group resources: %w", err)
	}

	return NewClientFromClients(dynamicClient, restmapper.NewDiscoveryRESTMapper(groupResources), fieldManager), nil
}

// NewClientFromClients creates a Client from pre-configured clients.
// This is useful for testing with fake clients.
func NewClientFromClients(dynamicClient dynamic.Interface, mapper meta.RESTMapper, fieldManager string) *Client {
	return &Client{
		dynamic:      dynamicClient,
		mapper:       mapper,
		fieldManager: fieldManager,
	}
}

// Apply converts obj to its unstructured form and applies it.
func (c *Client) Apply(ctx context.Context, obj runtime.Object) error {
	u, err := toUnstructured(obj)
	if err != nil {
		return err
	}
	if err := c.applyObject(ctx, u); err != nil {
		if u.GetNamespace() == "" {
			return fmt.Errorf("failed to apply %s %s: %w", u.GetKind(), u.GetName(), err)
		}
		return fmt.Errorf("failed to apply %s %s/%s: %w", u.GetKind(), u.GetNamespace(), u.GetName(), err)
	}
	return nil
}

// toUnstructured drops the status and the zero creation timestamp the
// converter emits for typed objects. Neither belongs in an apply patch.
func toUnstructured(obj runtime.Object) (*unstructured.Unstructured, error) {
	if u, ok := obj.(*unstructured.Unstructured); ok {
		return u.DeepCopy(), nil
	}
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %T: %w", obj, err)
	}
	unstructured.RemoveNestedField(content, "status")
	unstructured.RemoveNestedField(content, "metadata", "creationTimestamp")
	return &unstructured.Unstructured{Object: content}, nil
}

func (c *Client) applyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return fmt.Errorf("object has no kind set")
	}

	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}
	opts := metav1.PatchOptions{FieldManager: c.fieldManager}

	var resource dynamic.ResourceInterface = c.dynamic.Resource(mapping.Resource)
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		namespace := obj.GetNamespace()
		if namespace == "" {
			namespace = metav1.NamespaceDefault
		}
		resource = c.dynamic.Resource(mapping.Resource).Namespace(namespace)
	}

	if _, err := resource.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, opts); err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}
	return nil
}
