package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/yusen/interactive-demos/internal/agents"
	"github.com/yusen/interactive-demos/internal/ers"
)

// #region client-struct
// Client wraps a gRPC connection to the Engines service with typed calls.
type Client struct {
	conn   *grpc.ClientConn
	client EnginesClient
}

// #endregion client-struct

// #region constructor
// NewClient connects to the Engines service at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: NewEnginesClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service
// implementation. Close is a no-op on such clients.
func NewClientWithService(svc EnginesClient) *Client {
	return &Client{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region calls
// ScoreERS scores one input record remotely.
func (c *Client) ScoreERS(ctx context.Context, in ers.Inputs) (ers.Result, error) {
	req, err := toStruct(in)
	if err != nil {
		return ers.Result{}, err
	}
	resp, err := c.client.ScoreERS(ctx, req)
	if err != nil {
		return ers.Result{}, fmt.Errorf("score ers rpc: %w", err)
	}
	var out ers.Result
	if err := fromStruct(resp, &out); err != nil {
		return ers.Result{}, err
	}
	return out, nil
}

// ComputeAgents computes the calibration view, applying round first when
// it is non-empty.
func (c *Client) ComputeAgents(ctx context.Context, dims map[string]agents.Dims, round agents.RoundKind) (AgentsReply, error) {
	req, err := toStruct(AgentsRequest{Agents: dims, Round: string(round)})
	if err != nil {
		return AgentsReply{}, err
	}
	resp, err := c.client.ComputeAgents(ctx, req)
	if err != nil {
		return AgentsReply{}, fmt.Errorf("compute agents rpc: %w", err)
	}
	var out AgentsReply
	if err := fromStruct(resp, &out); err != nil {
		return AgentsReply{}, err
	}
	return out, nil
}

// RecommendDepth classifies eu and previews today's checklist for goal.
func (c *Client) RecommendDepth(ctx context.Context, req DepthRequest) (DepthReply, error) {
	in, err := toStruct(req)
	if err != nil {
		return DepthReply{}, err
	}
	resp, err := c.client.RecommendDepth(ctx, in)
	if err != nil {
		return DepthReply{}, fmt.Errorf("recommend depth rpc: %w", err)
	}
	var out DepthReply
	if err := fromStruct(resp, &out); err != nil {
		return DepthReply{}, err
	}
	return out, nil
}

// Console runs a console command remotely.
func (c *Client) Console(ctx context.Context, command string) (string, error) {
	in, err := toStruct(ConsoleRequest{Command: command})
	if err != nil {
		return "", err
	}
	resp, err := c.client.Console(ctx, in)
	if err != nil {
		return "", fmt.Errorf("console rpc: %w", err)
	}
	var out ConsoleReply
	if err := fromStruct(resp, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// #endregion calls
