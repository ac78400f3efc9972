package iot

//go:generate mockgen -source=iot.go -destination=mocks/mock_iot.go -package=mocks

import (
	"context"
	"time"

	"liyu1981.xyz/w1-temperature-service/pkg/db"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
)

type ISensor interface {
	RegisterSensor(ctx context.Context, input *models.Sensor) (*models.Sensor, error)
	ListSensors(ctx context.Context) ([]models.Sensor, error)
	GetSensor(ctx context.Context, id uint) (*models.Sensor, error)
	DeleteSensor(ctx context.Context, id uint) error
}

type ISample interface {
	InsertSample(ctx context.Context, sensorID uint, value float64, timestamp time.Time, comment string) (uint, error)
	ListSamples(ctx context.Context, query models.SampleQuery) ([]models.TemperatureSample, error)
	DeleteSample(ctx context.Context, id uint) error
}

type IAlert interface {
	StoreAlert(ctx context.Context, alert *models.Alert) error
	GetSensorAlerts(ctx context.Context, sensorID uint) ([]models.Alert, error)
}

type IOT struct {
	Db     db.DB
	Sensor ISensor
	Sample ISample
	Alert  IAlert
}

type ServiceOpts struct {
	Sensor ISensor
	Sample ISample
	Alert  IAlert
}

func (i *IOT) WithServices(opts ServiceOpts) *IOT {
	if opts.Sensor != nil {
		i.Sensor = opts.Sensor
	}
	if opts.Sample != nil {
		i.Sample = opts.Sample
	}
	if opts.Alert != nil {
		i.Alert = opts.Alert
	}
	return i
}

// New wires the database backed implementation of every service.
func New(database *db.DB) *IOT {
	i := &IOT{Db: *database}
	return i.WithServices(ServiceOpts{
		Sensor: i.GetISensor(),
		Sample: i.GetISample(),
		Alert:  i.GetIAlert(),
	})
}
