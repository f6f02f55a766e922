// Package provisioning resolves and composes one application stack.
//
// A stack is a fixed graph of resource kinds:
//
//	Namespace -> Address -> DnsRecord -> Certificate -> Probes ->
//	Deployment -> DisruptionBudget -> Service -> Ingress
//
// # Core Types
//
// Input is the normalized stack configuration produced by Normalize.
// Rule pairs a precondition with a compose step for one Kind; Rules returns
// them in their fixed evaluation order. State accumulates one Optional handle
// per kind as the rules run, together with a Decision explaining why each
// kind is present or absent. Composers is the set of collaborators that turn
// composer arguments into provider handles; subpackages and internal/k8s
// implement it.
//
// Resolution is a single sequential pass. It never retries and never rolls
// back: a composer error aborts the pass and is returned to the caller as is.
package provisioning
