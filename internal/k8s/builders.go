package k8s

import (
	"fmt"
	"maps"
	"slices"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	policyv1 "k8s.io/api/policy/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/appstack/internal/config"
	"github.com/imamik/appstack/internal/provisioning"
	"github.com/imamik/appstack/internal/util/labels"
	"github.com/imamik/appstack/internal/util/ptr"
)

// PortName is the name of the main container port and the matching service
// port.
const PortName = "http"

// objectMeta carries exactly the stack labels. Bookkeeping goes into
// annotations so label selectors and the pod template stay in sync.
func objectMeta(name, namespace string, lbls map[string]string, scope provisioning.Scope) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      name,
		Namespace: namespace,
		Labels:    maps.Clone(lbls),
		Annotations: map[string]string{
			labels.AnnotationManagedBy: labels.ManagedByAppstack,
			labels.AnnotationParent:    scope.String(),
		},
	}
}

// BuildNamespace builds a stack-owned namespace.
func BuildNamespace(name string, args provisioning.NamespaceArgs, scope provisioning.Scope) *corev1.Namespace {
	return &corev1.Namespace{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Namespace"},
		ObjectMeta: objectMeta(name, "", args.Labels, scope),
	}
}

// BuildCertificate builds a cert-manager Certificate for the record's domain,
// issued by issuer into the Secret secretName.
func BuildCertificate(name, secretName, issuer string, args provisioning.CertificateArgs, scope provisioning.Scope) *unstructured.Unstructured {
	meta := objectMeta(name, args.Namespace, args.Labels, scope)
	cert := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "cert-manager.io/v1",
		"kind":       "Certificate",
		"spec": map[string]any{
			"secretName": secretName,
			"dnsNames":   []any{args.Record.FQDN},
			"issuerRef": map[string]any{
				"name":  issuer,
				"kind":  "ClusterIssuer",
				"group": "cert-manager.io",
			},
		},
	}}
	cert.SetName(meta.Name)
	cert.SetNamespace(meta.Namespace)
	cert.SetLabels(meta.Labels)
	cert.SetAnnotations(meta.Annotations)
	return cert
}

// HTTPProbe builds an HTTP GET probe on port. A non-empty host is sent as
// the Host header so virtual-host routing in the container matches.
func HTTPProbe(args provisioning.ProbeArgs) *corev1.Probe {
	action := &corev1.HTTPGetAction{
		Path:   args.Path,
		Port:   intstr.FromInt32(args.Port),
		Scheme: corev1.URISchemeHTTP,
	}
	if args.Host != "" {
		action.HTTPHeaders = []corev1.HTTPHeader{{Name: "Host", Value: args.Host}}
	}
	return &corev1.Probe{ProbeHandler: corev1.ProbeHandler{HTTPGet: action}}
}

// ValidPort reports whether p is a usable TCP or UDP port number.
func ValidPort(p int32) bool {
	return p >= 1 && p <= 65535
}

// BuildDeployment builds the workload. It fails on a container port outside
// 1-65535 and on unparsable resource quantities.
func BuildDeployment(name string, args provisioning.DeploymentArgs, scope provisioning.Scope) (*appsv1.Deployment, error) {
	main, err := mainContainer(args)
	if err != nil {
		return nil, err
	}
	containers := []corev1.Container{main}
	for _, sc := range args.Sidecars {
		containers = append(containers, corev1.Container{
			Name:    sc.Name,
			Image:   sc.Image,
			Command: slices.Clone(sc.Command),
			Args:    slices.Clone(sc.Args),
			Env:     envVars(sc.Env),
			Ports:   slices.Clone(sc.Ports),
		})
	}

	dep := &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: objectMeta(name, args.Namespace, args.Labels, scope),
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.Int32(args.Replicas),
			Selector: &metav1.LabelSelector{MatchLabels: maps.Clone(args.Labels)},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: maps.Clone(args.Labels)},
				Spec:       corev1.PodSpec{Containers: containers},
			},
		},
	}
	if args.Strategy != nil {
		dep.Spec.Strategy = *args.Strategy.DeepCopy()
	}
	return dep, nil
}

func mainContainer(args provisioning.DeploymentArgs) (corev1.Container, error) {
	c := args.Container
	container := corev1.Container{
		Name:    args.ContainerName,
		Image:   c.Image,
		Command: slices.Clone(c.Command),
		Args:    slices.Clone(c.Args),
		Env:     envVars(c.Env),
	}

	if c.Port != nil {
		if !ValidPort(*c.Port) {
			return corev1.Container{}, fmt.Errorf("invalid container port %d: must be between 1 and 65535", *c.Port)
		}
		container.Ports = append(container.Ports, corev1.ContainerPort{
			Name:          PortName,
			ContainerPort: *c.Port,
			Protocol:      corev1.ProtocolTCP,
		})
	}
	for _, ep := range args.ExtraPorts {
		port, ok := extraContainerPort(ep)
		if ok {
			container.Ports = append(container.Ports, port)
		}
	}

	resources, err := resourceRequirements(c)
	if err != nil {
		return corev1.Container{}, err
	}
	container.Resources = resources

	if p, ok := args.ReadinessProbe.Get(); ok && p != nil {
		container.ReadinessProbe = p.DeepCopy()
	}
	if p, ok := args.LivenessProbe.Get(); ok && p != nil {
		container.LivenessProbe = p.DeepCopy()
	}
	return container, nil
}

// extraContainerPort maps a service port to the container port it targets.
// Named target ports refer to a port declared elsewhere and add nothing.
func extraContainerPort(ep config.ServicePort) (corev1.ContainerPort, bool) {
	target := ep.Port
	if ep.TargetPort != nil {
		if ep.TargetPort.Type == intstr.String {
			return corev1.ContainerPort{}, false
		}
		target = ep.TargetPort.IntVal
	}
	return corev1.ContainerPort{
		Name:          ep.Name,
		ContainerPort: target,
		Protocol:      protocolOrTCP(ep.Protocol),
	}, true
}

func protocolOrTCP(p corev1.Protocol) corev1.Protocol {
	if p == "" {
		return corev1.ProtocolTCP
	}
	return p
}

func envVars(env map[string]string) []corev1.EnvVar {
	if len(env) == 0 {
		return nil
	}
	out := make([]corev1.EnvVar, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, corev1.EnvVar{Name: k, Value: env[k]})
	}
	return out
}

func resourceRequirements(c config.Container) (corev1.ResourceRequirements, error) {
	var req corev1.ResourceRequirements
	set := func(list *corev1.ResourceList, name corev1.ResourceName, value string) error {
		if value == "" {
			return nil
		}
		q, err := resource.ParseQuantity(value)
		if err != nil {
			return fmt.Errorf("invalid %s quantity %q: %w", name, value, err)
		}
		if *list == nil {
			*list = corev1.ResourceList{}
		}
		(*list)[name] = q
		return nil
	}

	allocations := []struct {
		name  corev1.ResourceName
		alloc *config.Allocation
	}{
		{corev1.ResourceCPU, c.CPU},
		{corev1.ResourceMemory, c.Memory},
	}
	for _, a := range allocations {
		if a.alloc == nil {
			continue
		}
		if err := set(&req.Requests, a.name, a.alloc.Request); err != nil {
			return req, err
		}
		if err := set(&req.Limits, a.name, a.alloc.Limit); err != nil {
			return req, err
		}
	}
	return req, nil
}

// BuildPodDisruptionBudget builds a policy/v1 budget over the workload's pods.
func BuildPodDisruptionBudget(name string, args provisioning.DisruptionBudgetArgs, scope provisioning.Scope) *policyv1.PodDisruptionBudget {
	pdb := &policyv1.PodDisruptionBudget{
		TypeMeta:   metav1.TypeMeta{APIVersion: "policy/v1", Kind: "PodDisruptionBudget"},
		ObjectMeta: objectMeta(name, args.Namespace, args.Labels, scope),
		Spec: policyv1.PodDisruptionBudgetSpec{
			Selector: &metav1.LabelSelector{MatchLabels: maps.Clone(args.MatchLabels)},
		},
	}
	if args.MinAvailable != nil {
		v := *args.MinAvailable
		pdb.Spec.MinAvailable = &v
	}
	if args.MaxUnavailable != nil {
		v := *args.MaxUnavailable
		pdb.Spec.MaxUnavailable = &v
	}
	return pdb
}

// BuildService builds a ClusterIP service forwarding Port to TargetPort,
// followed by the extra ports.
func BuildService(name string, args provisioning.ServiceArgs, scope provisioning.Scope) *corev1.Service {
	ports := []corev1.ServicePort{{
		Name:       PortName,
		Port:       args.Port,
		TargetPort: intstr.FromInt32(args.TargetPort),
		Protocol:   corev1.ProtocolTCP,
	}}
	for _, ep := range args.ExtraPorts {
		target := intstr.FromInt32(ep.Port)
		if ep.TargetPort != nil {
			target = *ep.TargetPort
		}
		ports = append(ports, corev1.ServicePort{
			Name:       ep.Name,
			Port:       ep.Port,
			TargetPort: target,
			Protocol:   protocolOrTCP(ep.Protocol),
		})
	}

	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: objectMeta(name, args.Namespace, args.Labels, scope),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: maps.Clone(args.Selector),
			Ports:    ports,
		},
	}
}

// BuildIngress builds a TLS ingress routing the domain to the service.
func BuildIngress(name, ingressClass string, args provisioning.IngressArgs, scope provisioning.Scope) *networkingv1.Ingress {
	ing := &networkingv1.Ingress{
		TypeMeta:   metav1.TypeMeta{APIVersion: "networking.k8s.io/v1", Kind: "Ingress"},
		ObjectMeta: objectMeta(name, args.Namespace, args.Labels, scope),
		Spec: networkingv1.IngressSpec{
			TLS: []networkingv1.IngressTLS{{
				Hosts:      []string{args.Domain},
				SecretName: args.Certificate.SecretName,
			}},
			Rules: []networkingv1.IngressRule{{
				Host: args.Domain,
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{{
							Path:     "/",
							PathType: ptr.To(networkingv1.PathTypePrefix),
							Backend: networkingv1.IngressBackend{
								Service: &networkingv1.IngressServiceBackend{
									Name: args.Service.Name,
									Port: networkingv1.ServiceBackendPort{Number: args.Service.Port},
								},
							},
						}},
					},
				},
			}},
		},
	}
	if ingressClass != "" {
		ing.Spec.IngressClassName = ptr.String(ingressClass)
	}
	if args.Address.IP != "" {
		ing.Annotations[labels.AnnotationAddress] = args.Address.IP
	}
	return ing
}
