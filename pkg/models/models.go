package models

import "time"

type Unit string

const (
	UnitCelsius    Unit = "C"
	UnitFahrenheit Unit = "F"
)

type Sensor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Folder    string    `json:"folder"`
	Position  string    `json:"position"`
	Unit      Unit      `gorm:"type:varchar(1);check:unit IN ('C','F')" json:"unit"`
	CreatedAt time.Time `json:"created_at"`
	Comment   string    `json:"comment"`
}

// TemperatureSample values are always stored in Celsius; the owning
// sensor's unit is applied when the sample is reported.
type TemperatureSample struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SensorID  uint      `gorm:"index:idx_sample_sensor_time" json:"sensor_id"`
	Value     float64   `json:"value"`
	Timestamp time.Time `gorm:"index:idx_sample_sensor_time" json:"timestamp"`
	Comment   string    `json:"comment"`
}

type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SensorID  uint      `gorm:"index" json:"sensor_id"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Max       float64   `json:"max"`
	Message   string    `json:"message"`
}

// SampleQuery filters sample history. Zero values leave a bound open.
type SampleQuery struct {
	SensorID uint
	From     time.Time
	To       time.Time
	Limit    int
}
