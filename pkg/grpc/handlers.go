package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	z "github.com/Oudwins/zog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/db"
	"liyu1981.xyz/w1-temperature-service/pkg/sampling"
	"liyu1981.xyz/w1-temperature-service/pkg/w1"
)

func toStatus(err error) error {
	var cfgErr *common.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, db.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, w1.ErrSensorUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, w1.ErrSensorReadInvalid), errors.Is(err, w1.ErrSensorFormat):
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func stateToStruct(state sampling.PollingState) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"running":          state.Running,
		"interval_seconds": state.IntervalSeconds,
		"started_at":       formatTime(state.StartedAt),
		"last_tick_time":   formatTime(state.LastTickTime),
		"ticks":            state.Ticks,
	})
}

func (s *SamplingServer) StartPolling(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	seconds := int(req.GetValue())
	if int64(seconds) != req.GetValue() {
		return nil, status.Error(codes.InvalidArgument, "interval out of range")
	}

	state, err := s.Sampler.Start(seconds)
	if err != nil {
		return nil, toStatus(err)
	}
	return stateToStruct(state)
}

func (s *SamplingServer) StopPolling(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return stateToStruct(s.Sampler.Stop())
}

func (s *SamplingServer) GetPollingState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return stateToStruct(s.Sampler.State())
}

var sensorIDValidator = z.Int().GT(0).Required()

func (s *SamplingServer) ReadSensorNow(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	id := int(req.GetValue())
	if issues := sensorIDValidator.Validate(&id); issues != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("validation error: %v", issues))
	}

	reading, err := s.Sampler.ReadNow(ctx, uint(req.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{
		"sensor_id":   uint64(reading.Sensor.ID),
		"name":        reading.Sensor.Name,
		"folder":      reading.Sensor.Folder,
		"unit":        string(reading.Unit),
		"temperature": reading.Value,
		"celsius":     reading.Celsius,
		"fahrenheit":  reading.Fahrenheit,
		"raw":         reading.Raw,
		"read_at":     formatTime(reading.ReadAt),
	})
}
