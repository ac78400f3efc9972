package sampling

import (
	"context"

	"go.uber.org/zap"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/units"
)

// ReadNow measures one sensor outside the loop without persisting anything.
func (s *Scheduler) ReadNow(ctx context.Context, sensorID uint) (*Reading, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameSampling,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySensor),
		zap.Uint("sensor_id", sensorID),
	)

	sensor, err := s.iot.Sensor.GetSensor(ctx, sensorID)
	if err != nil {
		return nil, err
	}

	raw, err := s.reader.Read(ctx, sensor.Folder)
	if err != nil {
		logger.Warn("Read now failed", zap.Error(err))
		return nil, err
	}

	c := units.Convert(raw)
	return &Reading{
		Sensor:     *sensor,
		Raw:        raw,
		Celsius:    c.Celsius,
		Fahrenheit: c.Fahrenheit,
		Value:      c.In(sensor.Unit),
		Unit:       sensor.Unit,
		ReadAt:     s.now(),
	}, nil
}
