package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
)

// Notifier delivers an alert to an external system.
type Notifier interface {
	Notify(ctx context.Context, alert models.Alert) error
	Close() error
}

// Payload is the wire form of an alert on every sink.
type Payload struct {
	ID        uint      `json:"id"`
	SensorID  uint      `json:"sensor_id"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Max       float64   `json:"max"`
	Message   string    `json:"message"`
}

func encode(alert models.Alert) ([]byte, error) {
	return json.Marshal(Payload{
		ID:        alert.ID,
		SensorID:  alert.SensorID,
		Timestamp: alert.Timestamp,
		Value:     alert.Value,
		Max:       alert.Max,
		Message:   alert.Message,
	})
}

// boundedContext gives ctx a deadline when the caller set none. Some sinks
// refuse or block forever on a context without one.
func boundedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

type Nop struct{}

func (Nop) Notify(context.Context, models.Alert) error { return nil }
func (Nop) Close() error                               { return nil }

// Multi fans an alert out to every sink. A failing sink does not stop the
// others; the errors are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, alert models.Alert) error {
	logger := common.GetLoggerWith(
		common.LoggerNameNotify,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)

	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, alert); err != nil {
			logger.Warn("Alert delivery failed", zap.String("sink", fmt.Sprintf("%T", n)), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
