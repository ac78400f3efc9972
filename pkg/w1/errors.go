package w1

import (
	"errors"
	"fmt"
)

var (
	// ErrSensorUnavailable means the device source could not be opened or read in time.
	ErrSensorUnavailable = errors.New("sensor unavailable")
	// ErrSensorReadInvalid means the bus answered but flagged the reading as bad.
	ErrSensorReadInvalid = errors.New("sensor read invalid")
	// ErrSensorFormat means the temperature line did not carry a t=<int> field.
	ErrSensorFormat = errors.New("sensor format error")
)

// SensorError ties a device failure to the folder it came from.
type SensorError struct {
	Folder string
	Err    error
}

func (e *SensorError) Error() string {
	return fmt.Sprintf("w1 sensor %s: %v", e.Folder, e.Err)
}

func (e *SensorError) Unwrap() error {
	return e.Err
}

// Kind names the failure class of err, suitable for log fields and metric labels.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrSensorUnavailable):
		return "unavailable"
	case errors.Is(err, ErrSensorReadInvalid):
		return "read_invalid"
	case errors.Is(err, ErrSensorFormat):
		return "format"
	default:
		return "other"
	}
}
