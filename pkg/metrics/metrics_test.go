package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Tick(150 * time.Millisecond)
	m.Tick(10 * time.Millisecond)
	m.SensorFailure("unavailable")
	m.SensorFailure("unavailable")
	m.SensorFailure("read_invalid")
	m.SamplePersisted("1", 23.5)
	m.SamplePersisted("1", 24)
	m.ThresholdExceeded("2")
	m.SetRunning(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sensorFailures.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sensorFailures.WithLabelValues("read_invalid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.samplesPersisted))
	assert.Equal(t, 24.0, testutil.ToFloat64(m.lastTemperature.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.thresholdExceeded.WithLabelValues("2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pollingRunning))

	m.SetRunning(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.pollingRunning))

	m.ForgetSensor("1")
	assert.Equal(t, 0, testutil.CollectAndCount(m.lastTemperature))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Tick(time.Second)
		m.SensorFailure("other")
		m.SamplePersisted("1", 1)
		m.ThresholdExceeded("1")
		m.SetRunning(true)
		m.ForgetSensor("1")
	})
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SamplePersisted("3", 21.25)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `w1_sensor_temperature_celsius{sensor="3"} 21.25`)
	assert.Contains(t, string(body), "w1_samples_persisted_total 1")
}
