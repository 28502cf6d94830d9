package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "fintrack.v1.ProductService"

// ProductServiceServer is the server side of fintrack.v1.ProductService
// (fintrack/v1/product.proto).
// Payloads are google.protobuf.Struct values carrying the REST field names.
type ProductServiceServer interface {
	RegisterProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListPriceHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv ProductServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// ProductServiceDesc is registered on a *grpc.Server by RegisterProductServiceServer
var ProductServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterProduct",
			Handler:    unaryHandler("RegisterProduct", ProductServiceServer.RegisterProduct),
		},
		{
			MethodName: "GetProduct",
			Handler:    unaryHandler("GetProduct", ProductServiceServer.GetProduct),
		},
		{
			MethodName: "ListPriceHistory",
			Handler:    unaryHandler("ListPriceHistory", ProductServiceServer.ListPriceHistory),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fintrack/v1/product.proto",
}

// RegisterProductServiceServer binds srv to registrar
func RegisterProductServiceServer(registrar grpc.ServiceRegistrar, srv ProductServiceServer) {
	registrar.RegisterService(&ProductServiceDesc, srv)
}

func unaryHandler(method string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProductServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ProductServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ProductServiceClient is the client side of fintrack.v1.ProductService
type ProductServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewProductServiceClient wraps an established connection
func NewProductServiceClient(cc grpc.ClientConnInterface) *ProductServiceClient {
	return &ProductServiceClient{cc: cc}
}

func (c *ProductServiceClient) RegisterProduct(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "RegisterProduct", req, opts...)
}

func (c *ProductServiceClient) GetProduct(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetProduct", req, opts...)
}

func (c *ProductServiceClient) ListPriceHistory(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListPriceHistory", req, opts...)
}

func (c *ProductServiceClient) invoke(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
