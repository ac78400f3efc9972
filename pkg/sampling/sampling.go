// Package sampling runs the background polling loop: every interval it
// reads each registered sensor, converts and classifies the value and
// stores the sample.
package sampling

//go:generate mockgen -source=sampling.go -destination=mocks/mock_sampling.go -package=mocks

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/iot"
	"liyu1981.xyz/w1-temperature-service/pkg/metrics"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
	"liyu1981.xyz/w1-temperature-service/pkg/notify"
	"liyu1981.xyz/w1-temperature-service/pkg/threshold"
	"liyu1981.xyz/w1-temperature-service/pkg/w1"
)

// Controller is what the REST and gRPC front ends drive.
type Controller interface {
	Start(intervalSeconds int) (PollingState, error)
	Stop() PollingState
	State() PollingState
	ReadNow(ctx context.Context, sensorID uint) (*Reading, error)
}

type PollingState struct {
	Running         bool          `json:"running"`
	Interval        time.Duration `json:"-"`
	IntervalSeconds int           `json:"interval_seconds"`
	StartedAt       time.Time     `json:"started_at"`
	LastTickTime    time.Time     `json:"last_tick_time"`
	Ticks           uint64        `json:"ticks"`
}

// Reading is a one-off measurement that is never persisted.
type Reading struct {
	Sensor     models.Sensor `json:"sensor"`
	Raw        int64         `json:"raw"`
	Celsius    float64       `json:"celsius"`
	Fahrenheit float64       `json:"fahrenheit"`
	Value      float64       `json:"value"`
	Unit       models.Unit   `json:"unit"`
	ReadAt     time.Time     `json:"read_at"`
}

// DefaultNotifyTimeout bounds one alert delivery when Options leaves it zero.
const DefaultNotifyTimeout = 5 * time.Second

type Options struct {
	Reader        w1.Reader
	Monitor       *threshold.Monitor
	Notifier      notify.Notifier
	Metrics       *metrics.Metrics
	NotifyTimeout time.Duration
}

type Scheduler struct {
	iot      *iot.IOT
	reader   w1.Reader
	monitor  *threshold.Monitor
	notifier notify.Notifier
	metrics  *metrics.Metrics

	notifyTimeout time.Duration

	// length of one interval step, a second outside tests
	unit time.Duration
	now  func() time.Time

	lifecycle sync.Mutex
	stop      chan struct{}
	done      chan struct{}

	stateMu sync.RWMutex
	state   PollingState

	// tickMu keeps ticks strictly sequential and guards the maps below.
	tickMu   sync.Mutex
	statuses map[uint]threshold.Status
	lastTS   map[uint]time.Time
}

func New(i *iot.IOT, opts Options) *Scheduler {
	s := &Scheduler{
		iot:           i,
		reader:        opts.Reader,
		monitor:       opts.Monitor,
		notifier:      opts.Notifier,
		metrics:       opts.Metrics,
		notifyTimeout: opts.NotifyTimeout,
		unit:          time.Second,
		now:           func() time.Time { return time.Now().UTC() },
		statuses:      make(map[uint]threshold.Status),
		lastTS:        make(map[uint]time.Time),
	}
	if s.reader == nil {
		s.reader = w1.NewDeviceReader(w1.DefaultBaseDir, w1.DefaultReadTimeout)
	}
	if s.monitor == nil {
		s.monitor = threshold.NewMonitor(threshold.Config{})
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.notifyTimeout <= 0 {
		s.notifyTimeout = DefaultNotifyTimeout
	}
	return s
}

// Start begins polling every intervalSeconds. Starting a running scheduler
// returns the current state unchanged.
func (s *Scheduler) Start(intervalSeconds int) (PollingState, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameSampling,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryState),
	)

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.stop != nil {
		logger.Info("Polling already running", zap.Int("requested_seconds", intervalSeconds))
		return s.State(), nil
	}
	if intervalSeconds <= 0 {
		return s.State(), &common.ConfigError{
			Field:  "interval",
			Value:  intervalSeconds,
			Reason: "must be a positive number of seconds",
		}
	}

	if int64(intervalSeconds) > math.MaxInt64/int64(s.unit) {
		return s.State(), &common.ConfigError{
			Field:  "interval",
			Value:  intervalSeconds,
			Reason: "too large",
		}
	}

	interval := time.Duration(intervalSeconds) * s.unit
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	s.stateMu.Lock()
	s.state.Running = true
	s.state.Interval = interval
	s.state.IntervalSeconds = intervalSeconds
	s.state.StartedAt = s.now()
	s.stateMu.Unlock()
	s.metrics.SetRunning(true)

	go s.loop(interval, s.stop, s.done)

	logger.Info("Polling started", zap.Int("interval_seconds", intervalSeconds))
	return s.State(), nil
}

// Stop signals the loop and waits for the tick in flight to finish.
func (s *Scheduler) Stop() PollingState {
	logger := common.GetLoggerWith(
		common.LoggerNameSampling,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryState),
	)

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.stop == nil {
		return s.State()
	}

	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil

	s.stateMu.Lock()
	s.state.Running = false
	s.state.Interval = 0
	s.state.IntervalSeconds = 0
	s.stateMu.Unlock()
	s.metrics.SetRunning(false)

	logger.Info("Polling stopped")
	return s.State()
}

func (s *Scheduler) State() PollingState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Scheduler) loop(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.tick(context.Background())

		select {
		case <-stop:
			return
		case <-ticker.C:
			// a stop that raced the ticker wins
			select {
			case <-stop:
				return
			default:
			}
		}
	}
}
