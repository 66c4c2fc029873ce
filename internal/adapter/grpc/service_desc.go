package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the calculator service.
// Messages are google.protobuf.Struct documents carrying the JSON shapes of the
// HTTP API, so clients need no generated code.
const ServiceName = "stockwise.v1.CalculatorService"

// Full method names, as seen by interceptors
const (
	MethodCalculate     = "/" + ServiceName + "/Calculate"
	MethodGetSimulation = "/" + ServiceName + "/GetSimulation"
	MethodListPosts     = "/" + ServiceName + "/ListPosts"
	MethodGrade         = "/" + ServiceName + "/Grade"
)

// CalculatorServiceServer is the server API for the calculator service
type CalculatorServiceServer interface {
	Calculate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetSimulation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListPosts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Grade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CalculatorServiceDesc describes the calculator service for grpc.Server.RegisterService
var CalculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Calculate",
			Handler:    unaryHandler(MethodCalculate, CalculatorServiceServer.Calculate),
		},
		{
			MethodName: "GetSimulation",
			Handler:    unaryHandler(MethodGetSimulation, CalculatorServiceServer.GetSimulation),
		},
		{
			MethodName: "ListPosts",
			Handler:    unaryHandler(MethodListPosts, CalculatorServiceServer.ListPosts),
		},
		{
			MethodName: "Grade",
			Handler:    unaryHandler(MethodGrade, CalculatorServiceServer.Grade),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stockwise/v1/calculator.proto",
}

// RegisterCalculatorServiceServer registers srv with s
func RegisterCalculatorServiceServer(s grpc.ServiceRegistrar, srv CalculatorServiceServer) {
	s.RegisterService(&CalculatorServiceDesc, srv)
}

type unaryMethod func(CalculatorServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CalculatorServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CalculatorServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CalculatorClient calls the calculator service over a client connection
type CalculatorClient struct {
	cc grpc.ClientConnInterface
}

// NewCalculatorClient creates a client using cc
func NewCalculatorClient(cc grpc.ClientConnInterface) *CalculatorClient {
	return &CalculatorClient{cc: cc}
}

func (c *CalculatorClient) Calculate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCalculate, in, opts...)
}

func (c *CalculatorClient) GetSimulation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetSimulation, in, opts...)
}

func (c *CalculatorClient) ListPosts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListPosts, in, opts...)
}

func (c *CalculatorClient) Grade(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGrade, in, opts...)
}

func (c *CalculatorClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
