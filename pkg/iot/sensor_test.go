package iot

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/db"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
	_ "liyu1981.xyz/w1-temperature-service/pkg/testing"
)

func TestRegisterSensor(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()
	ctx := context.Background()

	sensor, err := iotObj.Sensor.RegisterSensor(ctx, &models.Sensor{
		Name:     "kitchen",
		Folder:   "28-000005e2fdc3",
		Position: "north wall",
		Unit:     "fahrenheit",
	})
	require.NoError(t, err)
	assert.NotZero(t, sensor.ID)
	assert.Equal(t, models.UnitFahrenheit, sensor.Unit)
	assert.False(t, sensor.CreatedAt.IsZero())

	got, err := iotObj.Sensor.GetSensor(ctx, sensor.ID)
	require.NoError(t, err)
	assert.Equal(t, "kitchen", got.Name)
	assert.Equal(t, "28-000005e2fdc3", got.Folder)
	assert.Equal(t, models.UnitFahrenheit, got.Unit)
}

func TestRegisterSensorRejectsBadInput(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()
	ctx := context.Background()

	_, err := iotObj.Sensor.RegisterSensor(ctx, &models.Sensor{Folder: "28-1", Unit: "K"})
	var cfgErr *common.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "unit", cfgErr.Field)

	_, err = iotObj.Sensor.RegisterSensor(ctx, &models.Sensor{Folder: " ", Unit: "C"})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "folder", cfgErr.Field)

	sensors, err := iotObj.Sensor.ListSensors(ctx)
	require.NoError(t, err)
	assert.Empty(t, sensors)
}

func TestListAndDeleteSensor(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()
	ctx := context.Background()

	a, err := iotObj.Sensor.RegisterSensor(ctx, &models.Sensor{Name: "a", Folder: "28-a", Unit: "C"})
	require.NoError(t, err)
	b, err := iotObj.Sensor.RegisterSensor(ctx, &models.Sensor{Name: "b", Folder: "28-b", Unit: "c"})
	require.NoError(t, err)

	sensors, err := iotObj.Sensor.ListSensors(ctx)
	require.NoError(t, err)
	require.Len(t, sensors, 2)
	assert.Equal(t, a.ID, sensors[0].ID)
	assert.Equal(t, b.ID, sensors[1].ID)

	require.NoError(t, iotObj.Sensor.DeleteSensor(ctx, a.ID))

	_, err = iotObj.Sensor.GetSensor(ctx, a.ID)
	assert.True(t, errors.Is(err, db.ErrNotFound))

	err = iotObj.Sensor.DeleteSensor(ctx, a.ID)
	assert.True(t, errors.Is(err, db.ErrNotFound))

	sensors, err = iotObj.Sensor.ListSensors(ctx)
	require.NoError(t, err)
	require.Len(t, sensors, 1)
	assert.Equal(t, b.ID, sensors[0].ID)
}

func TestRegisterSensor_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	sensor, err := iotObj.Sensor.RegisterSensor(context.Background(), &models.Sensor{Name: "cellar", Folder: "28-c", Unit: "C"})
	require.NoError(t, err)

	logs := ParseLogs(buf)

	found := false
	for _, log := range logs {
		lobj := log.(map[string]any)
		if lobj["category"] == "sensor" &&
			lobj["logger"] == "iot_core" &&
			lobj["msg"] == "Sensor registered" &&
			lobj["sensor"].(map[string]any)["name"] == "cellar" &&
			lobj["sensor"].(map[string]any)["id"] == float64(sensor.ID) {
			found = true
		}
	}
	assert.True(t, found)
}
