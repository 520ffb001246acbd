package rpc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/yusen/interactive-demos/internal/agents"
	"github.com/yusen/interactive-demos/internal/cooking"
	"github.com/yusen/interactive-demos/internal/ers"
)

// #region messages
// AgentsRequest carries agent dimensions and an optional round to apply.
type AgentsRequest struct {
	Agents map[string]agents.Dims `json:"agents"`
	Round  string                 `json:"round,omitempty"`
}

// AgentsReply is the calibration view, plus the round when one was applied.
type AgentsReply struct {
	agents.Result
	Agents map[string]agents.Dims `json:"agents"`
	Round  *agents.Round          `json:"round,omitempty"`
}

// DepthRequest carries an energy budget and optional goal text for the
// checklist preview.
type DepthRequest struct {
	EU          float64 `json:"eu"`
	Goal        string  `json:"goal,omitempty"`
	Constraints string  `json:"constraints,omitempty"`
}

// DepthReply is the budget tier plus today's checklist for the proposed steps.
type DepthReply struct {
	Recommend cooking.Recommendation  `json:"recommend"`
	Checklist []cooking.ChecklistItem `json:"checklist"`
}

// ConsoleRequest is a free-text console command.
type ConsoleRequest struct {
	Command string `json:"command"`
}

// ConsoleReply is the canned explanation.
type ConsoleReply struct {
	Reply string `json:"reply"`
}

// #endregion messages

// #region engines
// Engines implements EnginesServer over the pure engine functions. It keeps
// no session state.
type Engines struct{}

// NewEngines returns the engine service.
func NewEngines() *Engines {
	return &Engines{}
}

func (e *Engines) ScoreERS(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ers.Inputs
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return reply(ers.Score(req))
}

func (e *Engines) ComputeAgents(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req AgentsRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	for id := range req.Agents {
		if _, ok := agents.Lookup(id); !ok {
			return nil, status.Errorf(codes.NotFound, "%v: %q", agents.ErrUnknownAgent, id)
		}
	}

	dims := req.Agents
	var round *agents.Round
	if req.Round != "" {
		kind, err := agents.ParseRoundKind(req.Round)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		next, r, err := agents.ApplyRound(dims, kind)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		dims, round = next, &r
	}

	res := agents.Compute(dims)
	filled := make(map[string]agents.Dims, len(res.Rows))
	for _, row := range res.Rows {
		filled[row.ID] = row.Dims
	}
	return reply(AgentsReply{Result: res, Agents: filled, Round: round})
}

func (e *Engines) RecommendDepth(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DepthRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	res := cooking.Simulate(cooking.ProposeSteps(req.Goal, req.Constraints), req.EU)
	return reply(DepthReply{Recommend: res.Recommendation, Checklist: res.Checklist})
}

func (e *Engines) Console(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ConsoleRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return reply(ConsoleReply{Reply: ers.Console(req.Command)})
}

func reply(v any) (*structpb.Struct, error) {
	s, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

// #endregion engines

// #region server
// LoggingInterceptor logs every unary call with its latency and status code.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("latency", time.Since(start)),
			zap.String("code", status.Code(err).String()),
		}
		if err != nil && !isClientError(err) {
			logger.Error("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("rpc", fields...)
		}
		return resp, err
	}
}

func isClientError(err error) bool {
	switch status.Code(err) {
	case codes.InvalidArgument, codes.NotFound:
		return true
	}
	return errors.Is(err, context.Canceled)
}

// NewServer builds a grpc.Server with the logging interceptor and the
// Engines service registered.
func NewServer(logger *zap.Logger) *grpc.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	Register(s, NewEngines())
	return s
}

// #endregion server
