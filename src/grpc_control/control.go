package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The control surface only carries well-known types, so the service descriptor is
// written out here instead of generated from a .proto file.

const (
	serviceName = "plugexplorer.ExplorerControl"

	GetSnapshotMethod = "/" + serviceName + "/GetSnapshot"
	GetStatusMethod   = "/" + serviceName + "/GetStatus"
	TranslateMethod   = "/" + serviceName + "/Translate"
)

// ExplorerControlServer is the server API for the ExplorerControl service.
type ExplorerControlServer interface {
	GetSnapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Translate(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// UnimplementedExplorerControlServer answers Unimplemented for every method.
type UnimplementedExplorerControlServer struct{}

func (UnimplementedExplorerControlServer) GetSnapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSnapshot not implemented")
}

func (UnimplementedExplorerControlServer) GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatus not implemented")
}

func (UnimplementedExplorerControlServer) Translate(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Translate not implemented")
}

// -----------------------------------------------------------------------------

func RegisterExplorerControlServer(s grpc.ServiceRegistrar, srv ExplorerControlServer) {
	s.RegisterService(&ExplorerControl_ServiceDesc, srv)
}

var ExplorerControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ExplorerControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSnapshot", Handler: getSnapshotHandler},
		{MethodName: "GetStatus", Handler: getStatusHandler},
		{MethodName: "Translate", Handler: translateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "explorer_control.proto",
}

// -----------------------------------------------------------------------------

func getSnapshotHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExplorerControlServer).GetSnapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetSnapshotMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExplorerControlServer).GetSnapshot(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getStatusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExplorerControlServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetStatusMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExplorerControlServer).GetStatus(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func translateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExplorerControlServer).Translate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TranslateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExplorerControlServer).Translate(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

type ExplorerControlClient struct {
	cc grpc.ClientConnInterface
}

func NewExplorerControlClient(cc grpc.ClientConnInterface) *ExplorerControlClient {
	return &ExplorerControlClient{cc: cc}
}

func (c *ExplorerControlClient) GetSnapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetSnapshotMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ExplorerControlClient) GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetStatusMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ExplorerControlClient) Translate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, TranslateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
