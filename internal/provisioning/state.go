package provisioning

import corev1 "k8s.io/api/core/v1"

// Decision records whether a kind is present in the stack and why.
type Decision struct {
	Kind    Kind   `json:"kind"`
	Name    string `json:"name,omitempty"`
	Present bool   `json:"present"`
	Reason  string `json:"reason"`
}

// State holds the handles resolved so far. It is populated one rule at a
// time and each field is written at most once per run.
type State struct {
	Namespace        Optional[NamespaceHandle]
	Address          Optional[AddressHandle]
	DNSRecord        Optional[DNSRecordHandle]
	Certificate      Optional[CertificateHandle]
	ReadinessProbe   Optional[*corev1.Probe]
	LivenessProbe    Optional[*corev1.Probe]
	Deployment       Optional[DeploymentHandle]
	DisruptionBudget Optional[DisruptionBudgetHandle]
	Service          Optional[ServiceHandle]
	Ingress          Optional[IngressHandle]

	// Decisions lists one entry per evaluated rule, in evaluation order.
	Decisions []Decision

	// Failed is the kind whose composer returned an error, if any.
	Failed Kind
}

// NewState creates an empty state with every kind absent.
func NewState() *State {
	return &State{}
}

// Decision returns the decision recorded for kind.
func (s *State) Decision(kind Kind) (Decision, bool) {
	for _, d := range s.Decisions {
		if d.Kind == kind {
			return d, true
		}
	}
	return Decision{}, false
}

// Present reports whether kind was resolved as present.
func (s *State) Present(kind Kind) bool {
	d, ok := s.Decision(kind)
	return ok && d.Present
}

// PresentKinds returns the present kinds in evaluation order.
func (s *State) PresentKinds() []Kind {
	var out []Kind
	for _, d := range s.Decisions {
		if d.Present {
			out = append(out, d.Kind)
		}
	}
	return out
}

func (s *State) record(d Decision) {
	s.Decisions = append(s.Decisions, d)
}
