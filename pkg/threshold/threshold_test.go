package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundary(t *testing.T) {
	m := NewMonitor(Config{Enabled: true, Max: 30.0})

	assert.Equal(t, Exceeded, m.Classify(30.1, Normal))
	assert.Equal(t, Normal, m.Classify(30.0, Normal))
	assert.Equal(t, Normal, m.Classify(-5, Normal))
	// without a band the previous status is irrelevant
	assert.Equal(t, Normal, m.Classify(30.0, Exceeded))
}

func TestClassifyHysteresis(t *testing.T) {
	m := NewMonitor(Config{Enabled: true, Max: 30.0, Hysteresis: 1.5})

	assert.Equal(t, Normal, m.Classify(29.5, Normal))
	assert.Equal(t, Exceeded, m.Classify(30.5, Normal))
	assert.Equal(t, Exceeded, m.Classify(29.0, Exceeded))
	assert.Equal(t, Normal, m.Classify(28.5, Exceeded))
}

func TestClassifyDisabled(t *testing.T) {
	m := NewMonitor(Config{Enabled: false, Max: 30.0})
	assert.Equal(t, Normal, m.Classify(1000, Normal))
}

func TestNegativeHysteresisIgnored(t *testing.T) {
	m := NewMonitor(Config{Enabled: true, Max: 10, Hysteresis: -3})
	assert.Equal(t, 0.0, m.Config().Hysteresis)
	assert.Equal(t, Normal, m.Classify(10, Exceeded))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "exceeded", Exceeded.String())
	assert.Equal(t, "status(7)", Status(7).String())
}
