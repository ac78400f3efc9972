package iot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
	"liyu1981.xyz/w1-temperature-service/pkg/units"
)

func (i *IOT) registerSensor(ctx context.Context, input *models.Sensor) (*models.Sensor, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySensor),
	)

	unit, err := units.ParseUnit(string(input.Unit))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Folder) == "" {
		return nil, &common.ConfigError{Field: "folder", Value: input.Folder, Reason: "must not be empty"}
	}

	sensor := models.Sensor{
		Name:     input.Name,
		Folder:   input.Folder,
		Position: input.Position,
		Unit:     unit,
		Comment:  input.Comment,
	}

	logger.Info("Received sensor registration", zap.Reflect("sensor", sensor))

	if err := i.Db.Do(ctx, "register sensor", func(tx *gorm.DB) error {
		return tx.Create(&sensor).Error
	}); err != nil {
		return nil, err
	}

	logger.Info("Sensor registered", zap.Reflect("sensor", sensor))
	return &sensor, nil
}

func (i *IOT) listSensors(ctx context.Context) ([]models.Sensor, error) {
	var sensors []models.Sensor
	err := i.Db.Do(ctx, "list sensors", func(tx *gorm.DB) error {
		return tx.Order("id").Find(&sensors).Error
	})
	return sensors, err
}

func (i *IOT) getSensor(ctx context.Context, id uint) (*models.Sensor, error) {
	var sensor models.Sensor
	err := i.Db.Do(ctx, fmt.Sprintf("get sensor %d", id), func(tx *gorm.DB) error {
		return tx.First(&sensor, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &sensor, nil
}

// deleteSensor leaves the sensor's samples and alerts in place.
func (i *IOT) deleteSensor(ctx context.Context, id uint) error {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySensor),
	)

	err := i.Db.Do(ctx, fmt.Sprintf("delete sensor %d", id), func(tx *gorm.DB) error {
		res := tx.Delete(&models.Sensor{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == nil {
		logger.Info("Sensor deleted", zap.Uint("sensor_id", id))
	}
	return err
}

type ISensorImpl struct {
	iot *IOT
}

func (is *ISensorImpl) RegisterSensor(ctx context.Context, input *models.Sensor) (*models.Sensor, error) {
	return is.iot.registerSensor(ctx, input)
}

func (is *ISensorImpl) ListSensors(ctx context.Context) ([]models.Sensor, error) {
	return is.iot.listSensors(ctx)
}

func (is *ISensorImpl) GetSensor(ctx context.Context, id uint) (*models.Sensor, error) {
	return is.iot.getSensor(ctx, id)
}

func (is *ISensorImpl) DeleteSensor(ctx context.Context, id uint) error {
	return is.iot.deleteSensor(ctx, id)
}

func (i *IOT) GetISensor() ISensor {
	return &ISensorImpl{iot: i}
}
