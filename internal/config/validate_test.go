package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/appstack/internal/util/ptr"
)

func validStack() *Stack {
	return &Stack{
		Name:      "api",
		Container: Container{Image: "x", Port: ptr.Int32(8080)},
	}
}

func httpProbe(path string) *corev1.Probe {
	return &corev1.Probe{ProbeHandler: corev1.ProbeHandler{
		HTTPGet: &corev1.HTTPGetAction{Path: path, Port: intstr.FromInt32(8080)},
	}}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(s *Stack)
		wantErr string
	}{
		{name: "valid", mutate: func(_ *Stack) {}},
		{name: "missing name", mutate: func(s *Stack) { s.Name = "" }, wantErr: "name"},
		{name: "uppercase name", mutate: func(s *Stack) { s.Name = "API" }, wantErr: "name"},
		{name: "missing image", mutate: func(s *Stack) { s.Container.Image = "" }, wantErr: "container.image"},
		{name: "bad cpu quantity", mutate: func(s *Stack) { s.Container.CPU = &Allocation{Request: "lots"} }, wantErr: "container.cpu.request"},
		{
			name: "both disruption bounds",
			mutate: func(s *Stack) {
				one := intstr.FromInt32(1)
				s.MinAvailable, s.MaxUnavailable = &one, &one
			},
			wantErr: "minAvailable",
		},
		{
			name:    "explicit probe with path override",
			mutate:  func(s *Stack) { s.ReadinessProbe, s.ReadinessPath = httpProbe("/ready"), ptr.String("/other") },
			wantErr: "readinessProbe",
		},
		{
			name:    "probe without handler",
			mutate:  func(s *Stack) { s.LivenessProbe = &corev1.Probe{PeriodSeconds: 5} },
			wantErr: "livenessProbe",
		},
		{name: "negative replicas", mutate: func(s *Stack) { s.Replicas = ptr.Int32(-1) }, wantErr: "replicas"},
		{name: "service port range", mutate: func(s *Stack) { s.ServicePort = ptr.Int32(70000) }, wantErr: "servicePort"},
		{name: "sidecar image", mutate: func(s *Stack) { s.Sidecars = []Sidecar{{Name: "proxy"}} }, wantErr: "sidecars[0].image"},
		{name: "label value", mutate: func(s *Stack) { s.Labels = map[string]string{"team": "not valid!"} }, wantErr: "labels"},
		{name: "invalid container port is left to the composer", mutate: func(s *Stack) { s.Container.Port = ptr.Int32(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validStack()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, 0, len(verrs))
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Contains(t, fields, tt.wantErr)
		})
	}
}

func TestWarnings_DoNotFail(t *testing.T) {
	t.Parallel()
	s := validStack()
	s.Domain = "api.example.com"

	require.NoError(t, s.Validate())
	warnings := s.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "dnsZoneName", warnings[0].Field)
	assert.False(t, warnings[0].IsError())
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()
	ve := ValidationError{Field: "name", Message: "stack name is required", Severity: SeverityError}
	assert.Equal(t, "[error] name: stack name is required", ve.Error())
	assert.Contains(t, ValidationErrors{ve}.Error(), "stack validation failed")
}
