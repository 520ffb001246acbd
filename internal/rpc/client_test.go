package rpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/yusen/interactive-demos/internal/ers"
)

// #region mock
type mockEngines struct {
	EnginesClient

	lastReq *structpb.Struct
	resp    *structpb.Struct
	err     error
}

func (m *mockEngines) ScoreERS(_ context.Context, in *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	m.lastReq = in
	return m.resp, m.err
}

func (m *mockEngines) Console(_ context.Context, in *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	m.lastReq = in
	return m.resp, m.err
}

// #endregion mock

// #region constructor-tests
func TestNewClientLazyDial(t *testing.T) {
	c, err := NewClient("localhost:0")
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewClientWithServiceCloseIsNoop(t *testing.T) {
	c := NewClientWithService(&mockEngines{})
	if c.client == nil {
		t.Fatal("expected non-nil internal client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// #endregion constructor-tests

// #region call-tests
func TestScoreERS_Success(t *testing.T) {
	resp, _ := structpb.NewStruct(map[string]any{
		"core": 62.5, "risk": 36.0, "stability": 58.75, "ers": 32.3875,
		"mode": "Recovery/Hole", "gate": "GREEN",
	})
	mock := &mockEngines{resp: resp}
	c := NewClientWithService(mock)

	got, err := c.ScoreERS(context.Background(), ers.Inputs{Cog: 80})
	if err != nil {
		t.Fatalf("ScoreERS: %v", err)
	}
	if got.Mode != ers.ModeRecovery || got.ERS != 32.3875 {
		t.Fatalf("unexpected result %+v", got)
	}
	if v := mock.lastReq.Fields["cog"].GetNumberValue(); v != 80 {
		t.Fatalf("request not forwarded, cog=%v", v)
	}
}

func TestScoreERS_Error(t *testing.T) {
	c := NewClientWithService(&mockEngines{err: errors.New("unavailable")})
	if _, err := c.ScoreERS(context.Background(), ers.Inputs{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestConsole_Success(t *testing.T) {
	resp, _ := structpb.NewStruct(map[string]any{"reply": "Unknown command."})
	mock := &mockEngines{resp: resp}
	got, err := NewClientWithService(mock).Console(context.Background(), "dance")
	if err != nil {
		t.Fatalf("Console: %v", err)
	}
	if got != "Unknown command." {
		t.Fatalf("unexpected reply %q", got)
	}
	if mock.lastReq.Fields["command"].GetStringValue() != "dance" {
		t.Fatalf("command not forwarded: %v", mock.lastReq)
	}
}

// #endregion call-tests
