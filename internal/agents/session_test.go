package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/yusen/interactive-demos/internal/state"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func TestRoundLogCappedAfter25Rounds(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	s := Open(ctx, b, nil).WithClock(fixedClock())

	for i := 0; i < 25; i++ {
		kind := RoundNegotiate
		if i%2 == 1 {
			kind = RoundStress
		}
		if _, err := s.RunRound(ctx, kind); err != nil {
			t.Fatalf("RunRound: %v", err)
		}
	}

	rounds := s.State().Rounds
	if len(rounds) != RoundLimit {
		t.Fatalf("expected %d rounds, got %d", RoundLimit, len(rounds))
	}
	if rounds[0].When != "2026-05-01T09:00:06.000Z" || rounds[0].Kind != RoundStress {
		t.Fatalf("unexpected oldest round %+v", rounds[0])
	}
	if rounds[RoundLimit-1].When != "2026-05-01T09:00:25.000Z" {
		t.Fatalf("unexpected newest round %+v", rounds[RoundLimit-1])
	}

	restored := Open(ctx, b, nil)
	if diff := cmp.Diff(s.State(), restored.State()); diff != "" {
		t.Fatalf("restore mismatch (-want +got):\n%s", diff)
	}
}

func TestRunRoundUnknownKindLeavesState(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	s := Open(ctx, b, nil)

	if _, err := s.RunRound(ctx, RoundKind("merge")); !errors.Is(err, ErrUnknownRound) {
		t.Fatalf("expected ErrUnknownRound, got %v", err)
	}
	if diff := cmp.Diff(DefaultState(), s.State()); diff != "" {
		t.Fatalf("state changed (-want +got):\n%s", diff)
	}
	if keys, _ := b.Keys(ctx); len(keys) != 0 {
		t.Fatalf("unknown round must not persist, found %v", keys)
	}
}

func TestSetDim(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	s := Open(ctx, b, nil)

	r, err := s.SetDim(ctx, "critic", "confidence", 140)
	if err != nil {
		t.Fatalf("SetDim: %v", err)
	}
	if r.Rows[2].Confidence != 100 {
		t.Fatalf("expected clamped confidence, got %+v", r.Rows[2])
	}
	if top, _ := r.TopConflict(); top.ID != "critic" {
		t.Fatalf("expected critic as top conflict, got %+v", top)
	}
	if _, err := s.SetDim(ctx, "intern", "cost", 1); !errors.Is(err, ErrUnknownAgent) {
		t.Fatalf("expected ErrUnknownAgent, got %v", err)
	}
	if _, err := s.SetDim(ctx, "critic", "mood", 1); !errors.Is(err, ErrUnknownDimension) {
		t.Fatalf("expected ErrUnknownDimension, got %v", err)
	}

	if got := Open(ctx, b, nil).State().Agents["critic"].Confidence; got != 100 {
		t.Fatalf("dimension not persisted, got %v", got)
	}
}

func TestOpenFillsMissingAgentsAndClamps(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	b.Put(ctx, StorageKey, []byte(`{"agents":{"critic":{"alignment":250,"confidence":-4,"latency":10,"cost":10},"ghost":{"alignment":1}}}`))

	st := Open(ctx, b, nil).State()
	if len(st.Agents) != len(Roster) {
		t.Fatalf("expected roster-sized map, got %v", st.Agents)
	}
	if _, ok := st.Agents["ghost"]; ok {
		t.Fatal("unknown agent ids should be dropped")
	}
	if st.Agents["planner"] != DefaultDims() {
		t.Fatalf("missing agent not defaulted: %+v", st.Agents["planner"])
	}
	if c := st.Agents["critic"]; c.Alignment != 100 || c.Confidence != 0 {
		t.Fatalf("critic not clamped: %+v", c)
	}
	if st.Rounds == nil || len(st.Rounds) != 0 {
		t.Fatalf("expected empty round log, got %v", st.Rounds)
	}
}

func TestOpenCorruptSlotFallsBack(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	b.Put(ctx, StorageKey, []byte(`[1,2`))

	if diff := cmp.Diff(DefaultState(), Open(ctx, b, nil).State()); diff != "" {
		t.Fatalf("expected default (-want +got):\n%s", diff)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	s := Open(ctx, b, nil)
	s.RunRound(ctx, RoundStress)
	s.SetDim(ctx, "builder", "cost", 90)

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if diff := cmp.Diff(DefaultState(), s.State()); diff != "" {
		t.Fatalf("expected default (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(DefaultState(), Open(ctx, b, nil).State()); diff != "" {
		t.Fatalf("reset not persisted (-want +got):\n%s", diff)
	}
}

func TestRoundLinesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, state.NewMemoryStore(), nil).WithClock(fixedClock())
	s.RunRound(ctx, RoundStress)
	s.RunRound(ctx, RoundNegotiate)

	lines := s.RoundLines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if !strings.HasPrefix(lines[0], "2026-05-01 09:00:02  [negotiate]") {
		t.Fatalf("unexpected newest line %q", lines[0])
	}
	want := "2026-05-01 09:00:01  [stress]  consensus 57→54  |  dispersion 0→0"
	if lines[1] != want {
		t.Fatalf("expected %q, got %q", want, lines[1])
	}
}

func TestSnapshotShape(t *testing.T) {
	s := Open(context.Background(), state.NewMemoryStore(), nil)
	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"when", "rows", "consensus", "dispersion", "conflicts", "state"} {
		if _, ok := doc[k]; !ok {
			t.Fatalf("export missing %q: %s", k, raw)
		}
	}
	rows := doc["rows"].([]any)
	first := rows[0].(map[string]any)
	for _, k := range []string{"id", "name", "role", "alignment", "score"} {
		if _, ok := first[k]; !ok {
			t.Fatalf("row missing %q: %v", k, first)
		}
	}
}
