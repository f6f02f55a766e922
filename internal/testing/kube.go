package testing

import (
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8stesting "k8s.io/client-go/testing"
)

// Resources applied by the cluster composers.
var (
	NamespaceGVR   = schema.GroupVersionResource{Version: "v1", Resource: "namespaces"}
	ServiceGVR     = schema.GroupVersionResource{Version: "v1", Resource: "services"}
	DeploymentGVR  = schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"}
	BudgetGVR      = schema.GroupVersionResource{Group: "policy", Version: "v1", Resource: "poddisruptionbudgets"}
	IngressGVR     = schema.GroupVersionResource{Group: "networking.k8s.io", Version: "v1", Resource: "ingresses"}
	CertificateGVR = schema.GroupVersionResource{Group: "cert-manager.io", Version: "v1", Resource: "certificates"}
)

// StackRESTMapper maps every kind a stack produces to its resource.
func StackRESTMapper() meta.RESTMapper {
	mapper := meta.NewDefaultRESTMapper(nil)
	add := func(gvr schema.GroupVersionResource, kind string, scope meta.RESTScope) {
		mapper.AddSpecific(gvr.GroupVersion().WithKind(kind), gvr, gvr, scope)
	}
	add(NamespaceGVR, "Namespace", meta.RESTScopeRoot)
	add(ServiceGVR, "Service", meta.RESTScopeNamespace)
	add(DeploymentGVR, "Deployment", meta.RESTScopeNamespace)
	add(BudgetGVR, "PodDisruptionBudget", meta.RESTScopeNamespace)
	add(IngressGVR, "Ingress", meta.RESTScopeNamespace)
	add(CertificateGVR, "Certificate", meta.RESTScopeNamespace)
	return mapper
}

// NewApplyDynamicClient returns a fake dynamic client that treats an apply
// patch as create-or-replace. The stock fake only applies to objects that
// already exist.
func NewApplyDynamicClient() *dynamicfake.FakeDynamicClient {
	client := dynamicfake.NewSimpleDynamicClient(runtime.NewScheme())
	client.PrependReactor("patch", "*", func(action k8stesting.Action) (bool, runtime.Object, error) {
		patch, ok := action.(k8stesting.PatchAction)
		if !ok || patch.GetPatchType() != types.ApplyPatchType {
			return false, nil, nil
		}

		obj := &unstructured.Unstructured{}
		if err := obj.UnmarshalJSON(patch.GetPatch()); err != nil {
			return true, nil, err
		}
		gvr, ns := patch.GetResource(), patch.GetNamespace()

		tracker := client.Tracker()
		_, err := tracker.Get(gvr, ns, patch.GetName())
		switch {
		case apierrors.IsNotFound(err):
			err = tracker.Create(gvr, obj, ns)
		case err == nil:
			err = tracker.Update(gvr, obj, ns)
		}
		if err != nil {
			return true, nil, err
		}
		return true, obj, nil
	})
	return client
}
