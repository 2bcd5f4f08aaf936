// Package rpc exposes the crack service over gRPC. Messages travel as
// google.protobuf.Struct so no generated code is required.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "oxcrack.v1.CrackService"

const (
	methodCrack       = "/" + ServiceName + "/Crack"
	methodDecrypt     = "/" + ServiceName + "/Decrypt"
	methodDetect      = "/" + ServiceName + "/Detect"
	methodListCiphers = "/" + ServiceName + "/ListCiphers"
)

// CrackServiceServer is implemented by Server.
type CrackServiceServer interface {
	Crack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Decrypt(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Detect(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCiphers(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes CrackService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CrackServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Crack", Handler: structHandler(methodCrack, CrackServiceServer.Crack)},
		{MethodName: "Decrypt", Handler: structHandler(methodDecrypt, CrackServiceServer.Decrypt)},
		{MethodName: "Detect", Handler: structHandler(methodDetect, CrackServiceServer.Detect)},
		{MethodName: "ListCiphers", Handler: listCiphersHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "oxcrack/v1/crack.proto",
}

// RegisterCrackServiceServer registers srv on s.
func RegisterCrackServiceServer(s grpc.ServiceRegistrar, srv CrackServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type structMethod func(CrackServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func structHandler(fullMethod string, call structMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CrackServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CrackServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func listCiphersHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CrackServiceServer).ListCiphers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodListCiphers}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CrackServiceServer).ListCiphers(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is a thin CrackService client.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Crack(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodCrack, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Decrypt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodDecrypt, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Detect(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodDetect, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCiphers(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodListCiphers, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
