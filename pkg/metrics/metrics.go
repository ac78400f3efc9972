package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	ticks             prometheus.Counter
	tickDuration      prometheus.Histogram
	sensorFailures    *prometheus.CounterVec
	samplesPersisted  prometheus.Counter
	thresholdExceeded *prometheus.CounterVec
	pollingRunning    prometheus.Gauge
	lastTemperature   *prometheus.GaugeVec
	temperatures      prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers every collector on reg. A nil reg uses a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "w1_sampling_ticks_total",
			Help: "Total polling ticks executed.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "w1_sampling_tick_duration_seconds",
			Help:    "Histogram of polling tick durations.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		}),
		sensorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "w1_sensor_failures_total",
			Help: "Sensor read failures by kind.",
		}, []string{"kind"}),
		samplesPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "w1_samples_persisted_total",
			Help: "Samples written to storage.",
		}),
		thresholdExceeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "w1_threshold_exceeded_total",
			Help: "Samples above the configured maximum, by sensor id.",
		}, []string{"sensor"}),
		pollingRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "w1_polling_running",
			Help: "1 while background polling is active.",
		}),
		lastTemperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "w1_sensor_temperature_celsius",
			Help: "Last temperature read per sensor id.",
		}, []string{"sensor"}),
		temperatures: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "w1_temperature_distribution_celsius",
			Help:    "Distribution of temperature readings.",
			Buckets: []float64{-20, 0, 10, 20, 25, 30, 40, 60, 85},
		}),
	}

	reg.MustRegister(
		m.ticks,
		m.tickDuration,
		m.sensorFailures,
		m.samplesPersisted,
		m.thresholdExceeded,
		m.pollingRunning,
		m.lastTemperature,
		m.temperatures,
	)

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}

	return m
}

// Handler serves the registry the collectors were registered on.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Tick(duration time.Duration) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(duration.Seconds())
}

func (m *Metrics) SensorFailure(kind string) {
	if m == nil {
		return
	}
	m.sensorFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) SamplePersisted(sensor string, celsius float64) {
	if m == nil {
		return
	}
	m.samplesPersisted.Inc()
	m.lastTemperature.WithLabelValues(sensor).Set(celsius)
	m.temperatures.Observe(celsius)
}

func (m *Metrics) ThresholdExceeded(sensor string) {
	if m == nil {
		return
	}
	m.thresholdExceeded.WithLabelValues(sensor).Inc()
}

func (m *Metrics) SetRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.pollingRunning.Set(1)
	} else {
		m.pollingRunning.Set(0)
	}
}

// ForgetSensor drops the per-sensor series of a deleted sensor.
func (m *Metrics) ForgetSensor(sensor string) {
	if m == nil {
		return
	}
	m.lastTemperature.DeleteLabelValues(sensor)
	m.thresholdExceeded.DeleteLabelValues(sensor)
}
