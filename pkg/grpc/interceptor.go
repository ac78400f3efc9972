package grpc

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
)

// CreateRateLimitInterceptor throttles requests of the target types that
// carry a sensor id.
func (s *SamplingServer) CreateRateLimitInterceptor(targetReqTypes []proto.Message) grpc.UnaryServerInterceptor {
	targetTypeMap := common.Reducer(targetReqTypes,
		func(m map[reflect.Type]bool, t proto.Message) map[reflect.Type]bool {
			m[reflect.TypeOf(t)] = true
			return m
		},
		map[reflect.Type]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetTypeMap[reflect.TypeOf(req)]; ok {
			if r, ok := req.(interface{ GetValue() uint64 }); ok {
				if !s.CheckSensorLimiter(uint(r.GetValue())) {
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}

func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		logger := common.GetLoggerWith(common.LoggerNameGrpcServer)
		start := time.Now()

		resp, err := handler(ctx, req)

		logger.Info("Call handled",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}

// NewServer builds a grpc.Server with the sampling service registered.
func NewServer(s *SamplingServer, opts ...grpc.ServerOption) *grpc.Server {
	ratedTypes := []proto.Message{&wrapperspb.UInt64Value{}}
	opts = append(opts, grpc.ChainUnaryInterceptor(
		LoggingInterceptor(),
		s.CreateRateLimitInterceptor(ratedTypes),
	))
	server := grpc.NewServer(opts...)
	RegisterSamplingServiceServer(server, s)
	return server
}
