package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsDecisions(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	in := &Input{Name: "worker", Namespace: "shared"}
	_, err = Resolve(context.Background(), in, deploymentOnly{}, WithMetrics(m), WithObserver(NewMockObserver()))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("Namespace", "present")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("Deployment", "present")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("Ingress", "absent")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.composeDuration), "only the deployment was composed")
}

func TestMetrics_RecordsErrors(t *testing.T) {
	t.Parallel()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	in := &Input{Name: "worker", Namespace: "shared"}
	_, err = Resolve(context.Background(), in, deploymentOnly{err: errors.New("boom")}, WithMetrics(m), WithObserver(NewMockObserver()))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.composeErrors.WithLabelValues("Deployment")))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	second.recordDecision(KindService, true)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.decisions.WithLabelValues("Service", "present")))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	t.Parallel()
	var m *Metrics
	assert.NotPanics(t, func() {
		m.recordDecision(KindService, true)
		m.observeCompose(KindService, 0, nil)
	})
}
