package config

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/imamik/appstack/internal/util/naming"
)

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a stack validation error or warning.
type ValidationError struct {
	Field    string // Stack field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == SeverityError
}

// ValidationErrors is the error returned by Validate when at least one finding
// has error severity.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return fmt.Sprintf("stack validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

// Validate reports caller-input errors. It returns ValidationErrors when any
// error is found; warnings alone never fail validation.
func (s *Stack) Validate() error {
	var errs ValidationErrors
	for _, f := range s.Check() {
		if f.IsError() {
			errs = append(errs, f)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Warnings returns the findings with warning severity.
func (s *Stack) Warnings() []ValidationError {
	var out []ValidationError
	for _, f := range s.Check() {
		if !f.IsError() {
			out = append(out, f)
		}
	}
	return out
}

// Check runs all validation checks and returns every finding in field order.
func (s *Stack) Check() []ValidationError {
	var errs []ValidationError
	add := func(severity, field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: severity})
	}

	// --- Identity ---

	if s.Name == "" {
		add(SeverityError, "name", "stack name is required")
	} else if msgs := validation.IsDNS1123Label(naming.CertificateSecret(s.Name)); len(msgs) > 0 {
		add(SeverityError, "name", "stack name %q does not produce valid resource names: %s", s.Name, strings.Join(msgs, "; "))
	}

	if s.Namespace != "" {
		if msgs := validation.IsDNS1123Label(s.Namespace); len(msgs) > 0 {
			add(SeverityError, "namespace", "invalid namespace %q: %s", s.Namespace, strings.Join(msgs, "; "))
		}
	}

	for k, v := range s.Labels {
		if msgs := validation.IsQualifiedName(k); len(msgs) > 0 {
			add(SeverityError, "labels", "invalid label key %q: %s", k, strings.Join(msgs, "; "))
		}
		if msgs := validation.IsValidLabelValue(v); len(msgs) > 0 {
			add(SeverityError, "labels", "invalid value for label %q: %s", k, strings.Join(msgs, "; "))
		}
	}

	// --- Container ---

	if s.Container.Image == "" {
		add(SeverityError, "container.image", "container image is required")
	}
	checkAllocation(add, "container.cpu", s.Container.CPU)
	checkAllocation(add, "container.memory", s.Container.Memory)

	seen := make(map[string]bool)
	for i, sc := range s.Sidecars {
		field := fmt.Sprintf("sidecars[%d]", i)
		if sc.Name == "" {
			add(SeverityError, field+".name", "sidecar name is required")
		} else if seen[sc.Name] {
			add(SeverityError, field+".name", "duplicate sidecar name %q", sc.Name)
		}
		seen[sc.Name] = true
		if sc.Image == "" {
			add(SeverityError, field+".image", "sidecar image is required")
		}
	}

	// --- Scaling and availability ---

	if s.Replicas != nil && *s.Replicas < 0 {
		add(SeverityError, "replicas", "replicas must not be negative, got %d", *s.Replicas)
	}
	if s.MinAvailable != nil && s.MaxUnavailable != nil {
		add(SeverityError, "minAvailable", "minAvailable and maxUnavailable are mutually exclusive")
	}

	// --- Probes ---

	checkProbe(add, "livenessProbe", "livenessPath", s.LivenessProbe, s.LivenessPath)
	checkProbe(add, "readinessProbe", "readinessPath", s.ReadinessProbe, s.ReadinessPath)

	// --- Exposure ---

	if s.ServicePort != nil && !validPort(*s.ServicePort) {
		add(SeverityError, "servicePort", "service port %d out of range 1-65535", *s.ServicePort)
	}
	for i, p := range s.ExtraPorts {
		field := fmt.Sprintf("extraPorts[%d]", i)
		if p.Name == "" {
			add(SeverityError, field+".name", "extra port name is required")
		}
		if !validPort(p.Port) {
			add(SeverityError, field+".port", "port %d out of range 1-65535", p.Port)
		}
	}

	if s.Domain != "" {
		if msgs := validation.IsDNS1123Subdomain(s.Domain); len(msgs) > 0 {
			add(SeverityError, "domain", "invalid domain %q: %s", s.Domain, strings.Join(msgs, "; "))
		}
	}
	switch {
	case s.Domain != "" && s.DNSZoneName == "":
		add(SeverityWarning, "dnsZoneName", "domain is set without dnsZoneName; the stack will not be publicly exposed")
	case s.Domain == "" && s.DNSZoneName != "":
		add(SeverityWarning, "domain", "dnsZoneName is set without domain; the stack will not be publicly exposed")
	case s.Domain != "" && !s.Container.HasPort():
		add(SeverityWarning, "container.port", "domain is set but the container declares no port; the stack will not be publicly exposed")
	}

	return errs
}

func checkAllocation(add func(severity, field, format string, args ...any), field string, a *Allocation) {
	if a == nil {
		return
	}
	if a.Request != "" {
		if _, err := resource.ParseQuantity(a.Request); err != nil {
			add(SeverityError, field+".request", "invalid quantity %q: %v", a.Request, err)
		}
	}
	if a.Limit != "" {
		if _, err := resource.ParseQuantity(a.Limit); err != nil {
			add(SeverityError, field+".limit", "invalid quantity %q: %v", a.Limit, err)
		}
	}
}

func checkProbe(add func(severity, field, format string, args ...any), probeField, pathField string, probe *corev1.Probe, path *string) {
	if probe == nil {
		return
	}
	if path != nil {
		add(SeverityError, probeField, "%s and %s cannot both be set", probeField, pathField)
	}
	h := probe.ProbeHandler
	if h.HTTPGet == nil && h.TCPSocket == nil && h.Exec == nil && h.GRPC == nil {
		add(SeverityError, probeField, "probe must define one of httpGet, tcpSocket, exec or grpc")
	}
}

func validPort(p int32) bool {
	return p >= 1 && p <= 65535
}
