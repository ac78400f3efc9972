package iot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
)

func (i *IOT) insertSample(ctx context.Context, sensorID uint, value float64, timestamp time.Time, comment string) (uint, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySample),
	)

	sample := models.TemperatureSample{
		SensorID:  sensorID,
		Value:     value,
		Timestamp: timestamp,
		Comment:   comment,
	}

	if err := i.Db.Do(ctx, "insert sample", func(tx *gorm.DB) error {
		return tx.Create(&sample).Error
	}); err != nil {
		return 0, err
	}

	logger.Debug("Sample stored", zap.Reflect("sample", sample))
	return sample.ID, nil
}

func (i *IOT) listSamples(ctx context.Context, query models.SampleQuery) ([]models.TemperatureSample, error) {
	var samples []models.TemperatureSample
	err := i.Db.Do(ctx, "list samples", func(tx *gorm.DB) error {
		if query.SensorID != 0 {
			tx = tx.Where("sensor_id = ?", query.SensorID)
		}
		if !query.From.IsZero() {
			tx = tx.Where("timestamp >= ?", query.From)
		}
		if !query.To.IsZero() {
			tx = tx.Where("timestamp <= ?", query.To)
		}
		if query.Limit > 0 {
			tx = tx.Limit(query.Limit)
		}
		return tx.Order("timestamp, id").Find(&samples).Error
	})
	return samples, err
}

func (i *IOT) deleteSample(ctx context.Context, id uint) error {
	return i.Db.Do(ctx, fmt.Sprintf("delete sample %d", id), func(tx *gorm.DB) error {
		res := tx.Delete(&models.TemperatureSample{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

type ISampleImpl struct {
	iot *IOT
}

func (is *ISampleImpl) InsertSample(ctx context.Context, sensorID uint, value float64, timestamp time.Time, comment string) (uint, error) {
	return is.iot.insertSample(ctx, sensorID, value, timestamp, comment)
}

func (is *ISampleImpl) ListSamples(ctx context.Context, query models.SampleQuery) ([]models.TemperatureSample, error) {
	return is.iot.listSamples(ctx, query)
}

func (is *ISampleImpl) DeleteSample(ctx context.Context, id uint) error {
	return is.iot.deleteSample(ctx, id)
}

func (i *IOT) GetISample() ISample {
	return &ISampleImpl{iot: i}
}
