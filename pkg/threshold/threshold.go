// Package threshold classifies converted samples against the deployment
// wide maximum.
package threshold

import "fmt"

type Status int

const (
	Normal Status = iota
	Exceeded
)

func (s Status) String() string {
	switch s {
	case Normal:
		return "normal"
	case Exceeded:
		return "exceeded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Config is read once at startup. Max and Hysteresis are in Celsius.
type Config struct {
	Enabled    bool
	Max        float64
	Hysteresis float64
}

type Monitor struct {
	cfg Config
}

func NewMonitor(cfg Config) *Monitor {
	if cfg.Hysteresis < 0 {
		cfg.Hysteresis = 0
	}
	return &Monitor{cfg: cfg}
}

func (m *Monitor) Config() Config {
	return m.cfg
}

// Classify compares value with the configured max. previous is the last
// status seen for the same sensor; it only matters when a hysteresis band
// is configured, in which case an exceeded sensor stays exceeded until it
// drops to max - hysteresis.
func (m *Monitor) Classify(value float64, previous Status) Status {
	if !m.cfg.Enabled {
		return Normal
	}
	limit := m.cfg.Max
	if previous == Exceeded {
		limit -= m.cfg.Hysteresis
	}
	if value > limit {
		return Exceeded
	}
	return Normal
}
