package sampling

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
	"liyu1981.xyz/w1-temperature-service/pkg/threshold"
	"liyu1981.xyz/w1-temperature-service/pkg/units"
	"liyu1981.xyz/w1-temperature-service/pkg/w1"
)

const failureKindPersistence = "persistence"

// TickReport summarizes one pass over the registered sensors.
type TickReport struct {
	StartedAt time.Time
	Duration  time.Duration
	Sensors   int
	Persisted int
	Failed    int
	Exceeded  int
	Alerts    int
	Err       error
}

func (s *Scheduler) tick(ctx context.Context) (report TickReport) {
	logger := common.GetLoggerWith(
		common.LoggerNameSampling,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTick),
	)

	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	began := time.Now()
	report.StartedAt = s.now()
	defer func() { s.finishTick(&report, time.Since(began)) }()

	sensors, err := s.iot.Sensor.ListSensors(ctx)
	if err != nil {
		logger.Error("Listing sensors failed, skipping tick", zap.Error(err))
		s.metrics.SensorFailure(failureKindPersistence)
		report.Err = err
		return report
	}
	report.Sensors = len(sensors)

	seen := make(map[uint]struct{}, len(sensors))
	for _, sensor := range sensors {
		seen[sensor.ID] = struct{}{}
		s.processSensor(ctx, sensor, &report)
	}
	s.forgetMissing(seen)

	return report
}

func (s *Scheduler) finishTick(report *TickReport, took time.Duration) {
	logger := common.GetLoggerWith(
		common.LoggerNameSampling,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTick),
	)

	report.Duration = took
	s.metrics.Tick(report.Duration)

	s.stateMu.Lock()
	s.state.LastTickTime = report.StartedAt
	s.state.Ticks++
	s.stateMu.Unlock()

	logger.Debug("Tick finished",
		zap.Int("sensors", report.Sensors),
		zap.Int("persisted", report.Persisted),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration),
	)
}

// processSensor runs read, convert, classify and persist for one sensor.
// Every failure stays local to the sensor.
func (s *Scheduler) processSensor(ctx context.Context, sensor models.Sensor, report *TickReport) {
	logger := common.GetLoggerWith(
		common.LoggerNameSampling,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySample),
		zap.Uint("sensor_id", sensor.ID),
		zap.String("folder", sensor.Folder),
	)
	label := strconv.FormatUint(uint64(sensor.ID), 10)

	raw, err := s.reader.Read(ctx, sensor.Folder)
	if err != nil {
		kind := w1.Kind(err)
		logger.Warn("Sensor read failed", zap.String("kind", kind), zap.Error(err))
		s.metrics.SensorFailure(kind)
		report.Failed++
		return
	}

	celsius := units.Convert(raw).Celsius
	previous := s.statuses[sensor.ID]
	status := s.monitor.Classify(celsius, previous)
	limit := s.monitor.Config().Max

	ts := s.now()
	if last, ok := s.lastTS[sensor.ID]; ok && ts.Before(last) {
		ts = last
	}

	comment := ""
	if status == threshold.Exceeded {
		comment = fmt.Sprintf("exceeded max %.2f", limit)
	}

	if _, err := s.iot.Sample.InsertSample(ctx, sensor.ID, celsius, ts, comment); err != nil {
		logger.Error("Storing sample failed, dropping it", zap.Float64("celsius", celsius), zap.Error(err))
		s.metrics.SensorFailure(failureKindPersistence)
		report.Failed++
		return
	}
	s.lastTS[sensor.ID] = ts
	s.statuses[sensor.ID] = status
	s.metrics.SamplePersisted(label, celsius)
	report.Persisted++

	if status != threshold.Exceeded {
		return
	}
	s.metrics.ThresholdExceeded(label)
	report.Exceeded++

	if previous == threshold.Exceeded {
		return
	}
	alert := models.Alert{
		SensorID:  sensor.ID,
		Timestamp: ts,
		Value:     celsius,
		Max:       limit,
		Message:   fmt.Sprintf("Temperature %.2f exceeded threshold %.2f", celsius, limit),
	}
	s.raiseAlert(ctx, alert)
	report.Alerts++
}

func (s *Scheduler) raiseAlert(ctx context.Context, alert models.Alert) {
	logger := common.GetLoggerWith(
		common.LoggerNameSampling,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
		zap.Uint("sensor_id", alert.SensorID),
	)

	if err := s.iot.Alert.StoreAlert(ctx, &alert); err != nil {
		logger.Error("Storing alert failed", zap.Error(err))
	}

	// a sink that never answers must not hold up the tick, or Stop behind it
	notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(notifyCtx, alert); err != nil {
		logger.Warn("Sending alert failed", zap.Error(err))
	}
}

// forgetMissing drops state kept for sensors that were deleted.
func (s *Scheduler) forgetMissing(seen map[uint]struct{}) {
	for id := range s.statuses {
		if _, ok := seen[id]; !ok {
			delete(s.statuses, id)
			delete(s.lastTS, id)
			s.metrics.ForgetSensor(strconv.FormatUint(uint64(id), 10))
		}
	}
}
