package provisioning

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
)

// Outputs is the report of one resolution pass: every kind with its decision
// and the key fields of its handle.
type Outputs struct {
	RunID    string         `json:"runId,omitempty" yaml:"runId,omitempty"`
	Stack    string         `json:"stack" yaml:"stack"`
	Scope    string         `json:"scope" yaml:"scope"`
	Failed   string         `json:"failed,omitempty" yaml:"failed,omitempty"`
	Entities []EntityOutput `json:"entities" yaml:"entities"`
}

// EntityOutput describes one kind of the stack.
type EntityOutput struct {
	Kind    Kind              `json:"kind" yaml:"kind"`
	Name    string            `json:"name,omitempty" yaml:"name,omitempty"`
	Present bool              `json:"present" yaml:"present"`
	Reason  string            `json:"reason" yaml:"reason"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

// BuildOutputs summarizes state for in. Kinds not reached because of an
// earlier failure are omitted.
func BuildOutputs(in *Input, state *State, runID string) *Outputs {
	out := &Outputs{
		RunID:  runID,
		Stack:  in.Name,
		Scope:  in.Scope().String(),
		Failed: string(state.Failed),
	}
	for _, d := range state.Decisions {
		out.Entities = append(out.Entities, EntityOutput{
			Kind:    d.Kind,
			Name:    d.Name,
			Present: d.Present,
			Reason:  d.Reason,
			Details: details(d.Kind, state),
		})
	}
	return out
}

func details(kind Kind, s *State) map[string]string {
	switch kind {
	case KindNamespace:
		if h, ok := s.Namespace.Get(); ok {
			return map[string]string{"owned": strconv.FormatBool(h.Owned)}
		}
	case KindAddress:
		if h, ok := s.Address.Get(); ok {
			return map[string]string{"ip": h.IP, "id": h.ID}
		}
	case KindDNSRecord:
		if h, ok := s.DNSRecord.Get(); ok {
			return map[string]string{"fqdn": h.FQDN, "zone": h.Zone, "target": h.Target}
		}
	case KindCertificate:
		if h, ok := s.Certificate.Get(); ok {
			return map[string]string{"domain": h.Domain, "secret": h.SecretName}
		}
	case KindReadinessProbe:
		if p, ok := s.ReadinessProbe.Get(); ok {
			return probeDetails(p)
		}
	case KindLivenessProbe:
		if p, ok := s.LivenessProbe.Get(); ok {
			return probeDetails(p)
		}
	case KindDeployment:
		if h, ok := s.Deployment.Get(); ok {
			if port, ok := h.Port.Get(); ok {
				return map[string]string{"namespace": h.Namespace, "port": fmt.Sprint(port)}
			}
			return map[string]string{"namespace": h.Namespace}
		}
	case KindDisruptionBudget:
		if h, ok := s.DisruptionBudget.Get(); ok {
			return map[string]string{"namespace": h.Namespace}
		}
	case KindService:
		if h, ok := s.Service.Get(); ok {
			return map[string]string{"namespace": h.Namespace, "ports": fmt.Sprintf("%d->%d", h.Port, h.TargetPort)}
		}
	case KindIngress:
		if h, ok := s.Ingress.Get(); ok {
			return map[string]string{"host": h.Host, "address": h.Address}
		}
	}
	return nil
}

func probeDetails(p *corev1.Probe) map[string]string {
	switch {
	case p == nil:
		return nil
	case p.HTTPGet != nil:
		return map[string]string{"type": "httpGet", "path": p.HTTPGet.Path, "port": p.HTTPGet.Port.String()}
	case p.TCPSocket != nil:
		return map[string]string{"type": "tcpSocket", "port": p.TCPSocket.Port.String()}
	case p.GRPC != nil:
		return map[string]string{"type": "grpc", "port": fmt.Sprint(p.GRPC.Port)}
	case p.Exec != nil:
		return map[string]string{"type": "exec"}
	}
	return nil
}

// YAML renders the report as YAML.
func (o *Outputs) YAML() ([]byte, error) {
	data, err := yaml.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outputs: %w", err)
	}
	return data, nil
}

// JSON renders the report as indented JSON.
func (o *Outputs) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outputs: %w", err)
	}
	return data, nil
}
