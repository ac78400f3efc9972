package iot

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
)

func (i *IOT) storeAlert(ctx context.Context, alert *models.Alert) error {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)

	logger.Info("Alert found", zap.Reflect("alert", alert))

	if err := i.Db.Do(ctx, "store alert", func(tx *gorm.DB) error {
		return tx.Create(alert).Error
	}); err != nil {
		return err
	}

	logger.Info("Alert saved", zap.Reflect("alert", alert))
	return nil
}

// getSensorAlerts returns newest first; sensorID 0 means every sensor.
func (i *IOT) getSensorAlerts(ctx context.Context, sensorID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	err := i.Db.Do(ctx, "get alerts", func(tx *gorm.DB) error {
		if sensorID != 0 {
			tx = tx.Where("sensor_id = ?", sensorID)
		}
		return tx.Order("timestamp desc").Find(&alerts).Error
	})
	return alerts, err
}

type IAlertImpl struct {
	iot *IOT
}

func (ia *IAlertImpl) StoreAlert(ctx context.Context, alert *models.Alert) error {
	return ia.iot.storeAlert(ctx, alert)
}

func (ia *IAlertImpl) GetSensorAlerts(ctx context.Context, sensorID uint) ([]models.Alert, error) {
	return ia.iot.getSensorAlerts(ctx, sensorID)
}

func (i *IOT) GetIAlert() IAlert {
	return &IAlertImpl{iot: i}
}
