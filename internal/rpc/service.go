// Package rpc exposes the capture resolver over gRPC.
//
// Messages are google.protobuf.Struct values, so the service needs no generated code:
//
//	request:  {device: string, catalog: <catalog document>, options: {...}}
//	response: {runId: string, settings: [{parameter, status, value, rationale, quirk}], report: [string], unresolved: [string]}
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName   = "capture.v1.Resolver"
	resolveMethod = "/" + ServiceName + "/Resolve"
)

// ResolverServer is the server API for the Resolver service.
type ResolverServer interface {
	Resolve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: resolveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "capture/v1/resolver.proto",
}

func RegisterResolverServer(s grpc.ServiceRegistrar, srv ResolverServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func resolveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResolverServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: resolveMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ResolverServer).Resolve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is the client API for the Resolver service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Resolve(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, resolveMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
