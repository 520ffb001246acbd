// Package rpc serves the pure demo engines over gRPC. Messages are
// google.protobuf.Struct documents shaped like the engines' JSON types.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "yusen.demos.v1.Engines"

const (
	methodScoreERS       = "ScoreERS"
	methodComputeAgents  = "ComputeAgents"
	methodRecommendDepth = "RecommendDepth"
	methodConsole        = "Console"
)

func fullMethod(m string) string { return "/" + ServiceName + "/" + m }

// #region server-interface
// EnginesServer is implemented by the engine service.
type EnginesServer interface {
	ScoreERS(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeAgents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecommendDepth(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Console(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(method string, call func(EnginesServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EnginesServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EnginesServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the Engines service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EnginesServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodScoreERS, Handler: unaryHandler(methodScoreERS, EnginesServer.ScoreERS)},
		{MethodName: methodComputeAgents, Handler: unaryHandler(methodComputeAgents, EnginesServer.ComputeAgents)},
		{MethodName: methodRecommendDepth, Handler: unaryHandler(methodRecommendDepth, EnginesServer.RecommendDepth)},
		{MethodName: methodConsole, Handler: unaryHandler(methodConsole, EnginesServer.Console)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "yusen/demos/v1/engines.proto",
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv EnginesServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// #endregion server-interface

// #region client-interface
// EnginesClient is the call surface of the Engines service.
type EnginesClient interface {
	ScoreERS(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ComputeAgents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RecommendDepth(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Console(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type enginesClient struct {
	cc grpc.ClientConnInterface
}

// NewEnginesClient binds the call surface to a connection.
func NewEnginesClient(cc grpc.ClientConnInterface) EnginesClient {
	return &enginesClient{cc: cc}
}

func (c *enginesClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *enginesClient) ScoreERS(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodScoreERS, in, opts)
}

func (c *enginesClient) ComputeAgents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodComputeAgents, in, opts)
}

func (c *enginesClient) RecommendDepth(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodRecommendDepth, in, opts)
}

func (c *enginesClient) Console(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodConsole, in, opts)
}

// #endregion client-interface

// #region convert
// toStruct converts a JSON-shaped value into a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("message is not an object: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return s, nil
}

// fromStruct decodes s into v through its JSON form.
func fromStruct(s *structpb.Struct, v any) error {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

// #endregion convert
