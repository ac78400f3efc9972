package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The control service is built from well-known protobuf types only, so no
// generated code is needed on either side of the wire.

const (
	SamplingServiceName = "w1temp.v1.SamplingService"

	StartPollingFullMethodName    = "/" + SamplingServiceName + "/StartPolling"
	StopPollingFullMethodName     = "/" + SamplingServiceName + "/StopPolling"
	GetPollingStateFullMethodName = "/" + SamplingServiceName + "/GetPollingState"
	ReadSensorNowFullMethodName   = "/" + SamplingServiceName + "/ReadSensorNow"
)

type SamplingServiceServer interface {
	StartPolling(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	StopPolling(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetPollingState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ReadSensorNow(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
}

func RegisterSamplingServiceServer(s grpc.ServiceRegistrar, srv SamplingServiceServer) {
	s.RegisterService(&SamplingServiceDesc, srv)
}

func unaryHandler[Req any](
	fullMethod string,
	call func(srv SamplingServiceServer, ctx context.Context, req *Req) (*structpb.Struct, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SamplingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SamplingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var SamplingServiceDesc = grpc.ServiceDesc{
	ServiceName: SamplingServiceName,
	HandlerType: (*SamplingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StartPolling",
			Handler: unaryHandler(StartPollingFullMethodName, func(srv SamplingServiceServer, ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
				return srv.StartPolling(ctx, req)
			}),
		},
		{
			MethodName: "StopPolling",
			Handler: unaryHandler(StopPollingFullMethodName, func(srv SamplingServiceServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
				return srv.StopPolling(ctx, req)
			}),
		},
		{
			MethodName: "GetPollingState",
			Handler: unaryHandler(GetPollingStateFullMethodName, func(srv SamplingServiceServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
				return srv.GetPollingState(ctx, req)
			}),
		},
		{
			MethodName: "ReadSensorNow",
			Handler: unaryHandler(ReadSensorNowFullMethodName, func(srv SamplingServiceServer, ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
				return srv.ReadSensorNow(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "w1temp/v1/sampling.proto",
}

type SamplingServiceClient interface {
	StartPolling(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	StopPolling(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetPollingState(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ReadSensorNow(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type samplingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSamplingServiceClient(cc grpc.ClientConnInterface) SamplingServiceClient {
	return &samplingServiceClient{cc}
}

func (c *samplingServiceClient) invoke(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *samplingServiceClient) StartPolling(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, StartPollingFullMethodName, in, opts...)
}

func (c *samplingServiceClient) StopPolling(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, StopPollingFullMethodName, in, opts...)
}

func (c *samplingServiceClient) GetPollingState(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetPollingStateFullMethodName, in, opts...)
}

func (c *samplingServiceClient) ReadSensorNow(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReadSensorNowFullMethodName, in, opts...)
}
