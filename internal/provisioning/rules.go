package provisioning

import (
	"fmt"
	"slices"

	"github.com/imamik/appstack/internal/util/dag"
	"github.com/imamik/appstack/internal/util/naming"
)

// Rule decides and composes one kind.
type Rule struct {
	Kind Kind

	// DependsOn lists the kinds whose handles this rule may read.
	DependsOn []Kind

	// Precondition reports whether the kind should exist given the state
	// resolved so far, with a human-readable reason either way.
	Precondition func(c *Context) (bool, string)

	// Compose builds the kind and stores its handle in c.State. composed is
	// false when the handle was taken as given and no composer was called.
	Compose func(c *Context) (name string, composed bool, err error)
}

// rules is checked once at package initialization. A table that is not a
// topological order of its DependsOn edges is a programming error.
var rules = mustCheckOrder(ruleTable())

// Rules returns the rule table in evaluation order.
func Rules() []Rule {
	return slices.Clone(rules)
}

func mustCheckOrder(table []Rule) []Rule {
	if err := checkOrder(table); err != nil {
		panic(fmt.Sprintf("provisioning: invalid rule table: %v", err))
	}
	return table
}

// checkOrder reports an error unless every kind is declared once and comes
// after all the kinds it depends on.
func checkOrder(table []Rule) error {
	g := dag.NewDirectedAcyclicGraph[Kind]()
	for i, r := range table {
		if err := g.AddVertex(r.Kind, i); err != nil {
			return err
		}
	}
	for _, r := range table {
		if err := g.AddDependencies(r.Kind, r.DependsOn); err != nil {
			return fmt.Errorf("dependencies of %s: %w", r.Kind, err)
		}
	}

	sorted, err := g.TopologicalSort()
	if err != nil {
		return err
	}
	for i, r := range table {
		if sorted[i] != r.Kind {
			return fmt.Errorf("%s at position %d is evaluated before one of its dependencies", r.Kind, i)
		}
	}
	return nil
}

func ruleTable() []Rule {
	return []Rule{
		{
			Kind:         KindNamespace,
			Precondition: needNamespace,
			Compose:      composeNamespace,
		},
		{
			Kind:         KindAddress,
			Precondition: needAddress,
			Compose:      composeAddress,
		},
		{
			Kind:         KindDNSRecord,
			DependsOn:    []Kind{KindAddress},
			Precondition: needDNSRecord,
			Compose:      composeDNSRecord,
		},
		{
			Kind:         KindCertificate,
			DependsOn:    []Kind{KindNamespace, KindDNSRecord},
			Precondition: needCertificate,
			Compose:      composeCertificate,
		},
		{
			Kind:         KindReadinessProbe,
			Precondition: needReadinessProbe,
			Compose:      composeReadinessProbe,
		},
		{
			Kind:         KindLivenessProbe,
			Precondition: needLivenessProbe,
			Compose:      composeLivenessProbe,
		},
		{
			Kind:         KindDeployment,
			DependsOn:    []Kind{KindNamespace, KindReadinessProbe, KindLivenessProbe},
			Precondition: always("the workload is always deployed"),
			Compose:      composeDeployment,
		},
		{
			Kind:         KindDisruptionBudget,
			DependsOn:    []Kind{KindNamespace},
			Precondition: needDisruptionBudget,
			Compose:      composeDisruptionBudget,
		},
		{
			Kind:         KindService,
			DependsOn:    []Kind{KindNamespace, KindDeployment},
			Precondition: needService,
			Compose:      composeService,
		},
		{
			Kind:         KindIngress,
			DependsOn:    []Kind{KindNamespace, KindService, KindCertificate, KindAddress},
			Precondition: needIngress,
			Compose:      composeIngress,
		},
	}
}

func always(reason string) func(*Context) (bool, string) {
	return func(*Context) (bool, string) { return true, reason }
}

// --- Namespace ---

func needNamespace(c *Context) (bool, string) {
	if c.Input.Namespace != "" {
		return true, "using caller-supplied namespace"
	}
	return true, "stack-owned namespace"
}

func composeNamespace(c *Context) (string, bool, error) {
	in := c.Input
	if in.Namespace != "" {
		c.State.Namespace = Some(NamespaceHandle{Name: in.Namespace, Owned: false})
		return in.Namespace, false, nil
	}
	name := naming.Namespace(in.Name)
	h, err := c.Composers.CreateNamespace(c.Context, name, NamespaceArgs{Labels: in.labelSet()}, in.Scope())
	if err != nil {
		return name, true, err
	}
	h.Owned = true
	c.State.Namespace = Some(h)
	return name, true, nil
}

// --- Address ---

func needAddress(c *Context) (bool, string) {
	in := c.Input
	switch {
	case !in.Container.HasPort():
		return false, "container declares no port"
	case in.DNSZoneName == "":
		return false, "dnsZoneName not set"
	case in.Domain == "":
		return false, "domain not set"
	}
	return true, "container port, domain and dnsZoneName set"
}

func composeAddress(c *Context) (string, bool, error) {
	in := c.Input
	name := naming.Address(in.Name)
	h, err := c.Composers.CreateAddress(c.Context, name, AddressArgs{Labels: in.labelSet()}, in.Scope())
	if err != nil {
		return name, true, err
	}
	c.State.Address = Some(h)
	return name, true, nil
}

// --- DnsRecord ---

func needDNSRecord(c *Context) (bool, string) {
	in := c.Input
	switch {
	case !c.State.Address.IsPresent():
		return false, "no address"
	case in.DNSZoneName == "" || in.Domain == "":
		return false, "domain or dnsZoneName not set"
	}
	return true, "address reserved"
}

func composeDNSRecord(c *Context) (string, bool, error) {
	in := c.Input
	name := naming.DNSRecord(in.Name)
	args := DNSRecordArgs{
		Zone:    in.DNSZoneName,
		Domain:  in.Domain,
		Address: c.State.Address.MustGet(),
		Labels:  in.labelSet(),
	}
	h, err := c.Composers.CreateDNSRecords(c.Context, name, args, in.Scope())
	if err != nil {
		return name, true, err
	}
	c.State.DNSRecord = Some(h)
	return name, true, nil
}

// --- Certificate ---

func needCertificate(c *Context) (bool, string) {
	if !c.State.DNSRecord.IsPresent() {
		return false, "no DNS record"
	}
	return true, "DNS record created"
}

func composeCertificate(c *Context) (string, bool, error) {
	in := c.Input
	name := naming.Certificate(in.Name)
	args := CertificateArgs{
		Namespace: c.State.Namespace.MustGet().Name,
		Record:    c.State.DNSRecord.MustGet(),
		Labels:    in.labelSet(),
	}
	h, err := c.Composers.CreateCertificate(c.Context, name, args, in.Scope())
	if err != nil {
		return name, true, err
	}
	c.State.Certificate = Some(h)
	return name, true, nil
}

// --- Probes ---

func needReadinessProbe(c *Context) (bool, string) {
	return needProbe(c, c.Input.ReadinessProbe != nil)
}

func needLivenessProbe(c *Context) (bool, string) {
	return needProbe(c, c.Input.LivenessProbe != nil)
}

func needProbe(c *Context, explicit bool) (bool, string) {
	in := c.Input
	switch {
	case explicit:
		return true, "explicit probe"
	case in.Domain == "":
		return false, "no explicit probe and domain not set"
	case !in.Container.HasPort():
		return false, "no explicit probe and container declares no port"
	}
	return true, "derived from domain and container port"
}

func composeReadinessProbe(c *Context) (string, bool, error) {
	in := c.Input
	if in.ReadinessProbe != nil {
		c.State.ReadinessProbe = Some(in.ReadinessProbe)
		return "", false, nil
	}
	c.State.ReadinessProbe = Some(c.Composers.CreateHTTPProbe(ProbeArgs{
		Path: in.ReadinessPath,
		Host: in.Domain,
		Port: *in.Container.Port,
	}))
	return "", true, nil
}

func composeLivenessProbe(c *Context) (string, bool, error) {
	in := c.Input
	if in.LivenessProbe != nil {
		c.State.LivenessProbe = Some(in.LivenessProbe)
		return "", false, nil
	}
	c.State.LivenessProbe = Some(c.Composers.CreateHTTPProbe(ProbeArgs{
		Path: in.LivenessPath,
		Host: in.Domain,
		Port: *in.Container.Port,
	}))
	return "", true, nil
}

// --- Deployment ---

func composeDeployment(c *Context) (string, bool, error) {
	in := c.Input
	name := naming.Deployment(in.Name)
	args := DeploymentArgs{
		Namespace:      c.State.Namespace.MustGet().Name,
		Labels:         in.labelSet(),
		Replicas:       in.Replicas,
		Strategy:       in.Strategy,
		ContainerName:  in.ContainerName,
		Container:      in.Container,
		Sidecars:       in.Sidecars,
		ExtraPorts:     in.ExtraPorts,
		LivenessProbe:  c.State.LivenessProbe,
		ReadinessProbe: c.State.ReadinessProbe,
	}
	h, err := c.Composers.CreateDeployment(c.Context, name, args, in.Scope())
	if err != nil {
		return name, true, err
	}
	c.State.Deployment = Some(h)
	return name, true, nil
}

// --- DisruptionBudget ---

func needDisruptionBudget(c *Context) (bool, string) {
	in := c.Input
	switch {
	case in.MinAvailable != nil:
		return true, "minAvailable set"
	case in.MaxUnavailable != nil:
		return true, "maxUnavailable set"
	}
	return false, "neither minAvailable nor maxUnavailable set"
}

func composeDisruptionBudget(c *Context) (string, bool, error) {
	in := c.Input
	name := naming.DisruptionBudget(in.Name)
	args := DisruptionBudgetArgs{
		Namespace:      c.State.Namespace.MustGet().Name,
		Labels:         in.labelSet(),
		MatchLabels:    in.labelSet(),
		MinAvailable:   in.MinAvailable,
		MaxUnavailable: in.MaxUnavailable,
	}
	h, err := c.Composers.CreatePodDisruptionBudget(c.Context, name, args, in.Scope())
	if err != nil {
		return name, true, err
	}
	c.State.DisruptionBudget = Some(h)
	return name, true, nil
}

// --- Service ---

func needService(c *Context) (bool, string) {
	dep, ok := c.State.Deployment.Get()
	if !ok {
		return false, "no deployment"
	}
	if !dep.Port.IsPresent() {
		return false, "deployment exposes no port"
	}
	return true, "deployment exposes a port"
}

func composeService(c *Context) (string, bool, error) {
	in := c.Input
	name := naming.Service(in.Name)
	dep := c.State.Deployment.MustGet()
	args := ServiceArgs{
		Namespace:  c.State.Namespace.MustGet().Name,
		Labels:     in.labelSet(),
		Selector:   in.labelSet(),
		Port:       in.ServicePort,
		TargetPort: dep.Port.MustGet(),
		ExtraPorts: in.ExtraPorts,
	}
	h, err := c.Composers.CreateService(c.Context, name, args, in.Scope())
	if err != nil {
		return name, true, err
	}
	c.State.Service = Some(h)
	return name, true, nil
}

// --- Ingress ---

func needIngress(c *Context) (bool, string) {
	in := c.Input
	switch {
	case !c.State.Service.IsPresent():
		return false, "no service"
	case !c.State.Certificate.IsPresent():
		return false, "no certificate"
	case !c.State.Address.IsPresent():
		return false, "no address"
	case in.Domain == "" || in.DNSZoneName == "":
		return false, "domain or dnsZoneName not set"
	}
	return true, "service, certificate and address present"
}

func composeIngress(c *Context) (string, bool, error) {
	in := c.Input
	name := naming.Ingress(in.Name)
	args := IngressArgs{
		Namespace:   c.State.Namespace.MustGet().Name,
		Labels:      in.labelSet(),
		Domain:      in.Domain,
		Service:     c.State.Service.MustGet(),
		Certificate: c.State.Certificate.MustGet(),
		Address:     c.State.Address.MustGet(),
	}
	h, err := c.Composers.CreateIngress(c.Context, name, args, in.Scope())
	if err != nil {
		return name, true, err
	}
	c.State.Ingress = Some(h)
	return name, true, nil
}
