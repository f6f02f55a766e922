package testing

import (
	"context"

	"github.com/stretchr/testify/mock"
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/appstack/internal/provisioning"
)

// MockComposers is a testify mock of provisioning.Composers.
type MockComposers struct {
	mock.Mock
}

var _ provisioning.Composers = (*MockComposers)(nil)

func (m *MockComposers) CreateNamespace(ctx context.Context, name string, args provisioning.NamespaceArgs, scope provisioning.Scope) (provisioning.NamespaceHandle, error) {
	ret := m.Called(ctx, name, args, scope)
	return ret.Get(0).(provisioning.NamespaceHandle), ret.Error(1)
}

func (m *MockComposers) CreateAddress(ctx context.Context, name string, args provisioning.AddressArgs, scope provisioning.Scope) (provisioning.AddressHandle, error) {
	ret := m.Called(ctx, name, args, scope)
	return ret.Get(0).(provisioning.AddressHandle), ret.Error(1)
}

func (m *MockComposers) CreateDNSRecords(ctx context.Context, name string, args provisioning.DNSRecordArgs, scope provisioning.Scope) (provisioning.DNSRecordHandle, error) {
	ret := m.Called(ctx, name, args, scope)
	return ret.Get(0).(provisioning.DNSRecordHandle), ret.Error(1)
}

func (m *MockComposers) CreateCertificate(ctx context.Context, name string, args provisioning.CertificateArgs, scope provisioning.Scope) (provisioning.CertificateHandle, error) {
	ret := m.Called(ctx, name, args, scope)
	return ret.Get(0).(provisioning.CertificateHandle), ret.Error(1)
}

func (m *MockComposers) CreateHTTPProbe(args provisioning.ProbeArgs) *corev1.Probe {
	ret := m.Called(args)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(*corev1.Probe)
}

func (m *MockComposers) CreateDeployment(ctx context.Context, name string, args provisioning.DeploymentArgs, scope provisioning.Scope) (provisioning.DeploymentHandle, error) {
	ret := m.Called(ctx, name, args, scope)
	return ret.Get(0).(provisioning.DeploymentHandle), ret.Error(1)
}

func (m *MockComposers) CreatePodDisruptionBudget(ctx context.Context, name string, args provisioning.DisruptionBudgetArgs, scope provisioning.Scope) (provisioning.DisruptionBudgetHandle, error) {
	ret := m.Called(ctx, name, args, scope)
	return ret.Get(0).(provisioning.DisruptionBudgetHandle), ret.Error(1)
}

func (m *MockComposers) CreateService(ctx context.Context, name string, args provisioning.ServiceArgs, scope provisioning.Scope) (provisioning.ServiceHandle, error) {
	ret := m.Called(ctx, name, args, scope)
	return ret.Get(0).(provisioning.ServiceHandle), ret.Error(1)
}

func (m *MockComposers) CreateIngress(ctx context.Context, name string, args provisioning.IngressArgs, scope provisioning.Scope) (provisioning.IngressHandle, error) {
	ret := m.Called(ctx, name, args, scope)
	return ret.Get(0).(provisioning.IngressHandle), ret.Error(1)
}
