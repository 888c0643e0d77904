package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_countersRegistered(t *testing.T) {
	manager, registry := NewTestManagerAndRegistry()
	require.NotNil(t, manager)

	manager.CounterContentUpdates.Inc()
	manager.CounterImageUploads.Inc()
	manager.CounterImageUploads.Inc()
	manager.CounterContactMessages.Inc()
	manager.GaugeLifeSignal.Set(1)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)

	found := map[string]*dto.MetricFamily{}
	for _, mf := range metricFamilies {
		found[mf.GetName()] = mf
	}

	uploads, ok := found["backend_test_server_image_uploads"]
	require.True(t, ok)
	require.Len(t, uploads.GetMetric(), 1)
	assert.Equal(t, float64(2), uploads.GetMetric()[0].GetCounter().GetValue())

	updates, ok := found["backend_test_server_content_updates"]
	require.True(t, ok)
	assert.Equal(t, float64(1), updates.GetMetric()[0].GetCounter().GetValue())

	lifeSignal, ok := found["backend_test_server_life_signal"]
	require.True(t, ok)
	assert.Equal(t, float64(1), lifeSignal.GetMetric()[0].GetGauge().GetValue())
}
