package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yusen/interactive-demos/internal/agents"
	"github.com/yusen/interactive-demos/internal/config"
	"github.com/yusen/interactive-demos/internal/cooking"
	"github.com/yusen/interactive-demos/internal/ers"
	"github.com/yusen/interactive-demos/internal/logging"
	"github.com/yusen/interactive-demos/internal/state"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"cog=80", " calm = 12.5"})
	if err != nil {
		t.Fatalf("parseAssignments: %v", err)
	}
	if got["cog"] != 80 || got["calm"] != 12.5 {
		t.Fatalf("unexpected values: %v", got)
	}

	if _, err := parseAssignments([]string{"cog"}); err == nil {
		t.Fatal("expected error for missing '='")
	}
	if _, err := parseAssignments([]string{"cog=high"}); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestSummarizeSlot(t *testing.T) {
	cases := []struct {
		key, payload, page, want string
	}{
		{ers.StorageKey, `{"inputs":{},"history":[{"mode":"ATTACK","gate":"GO","ers":71.2}]}`, ers.Page, "history=1 last=ATTACK/GO ers=71"},
		{ers.StorageKey, `{"inputs":{},"history":[]}`, ers.Page, "history=0"},
		{agents.StorageKey, `{"agents":{"planner":{},"critic":{}},"rounds":[{},{},{}]}`, agents.Page, "agents=2 rounds=3"},
		{cooking.StorageKey, `{"goal":"Ship","eu":65,"steps":[{}],"log":[]}`, cooking.Page, `eu=65 steps=1 log=0 goal="Ship"`},
		{"other", `{}`, "", "unknown slot"},
		{ers.StorageKey, `{"inputs":`, ers.Page, "invalid json"},
	}
	for _, c := range cases {
		row := summarizeSlot(c.key, []byte(c.payload))
		if row.Page != c.page {
			t.Errorf("%s: page = %q, want %q", c.key, row.Page, c.page)
		}
		if row.Summary != c.want {
			t.Errorf("%s: summary = %q, want %q", c.key, row.Summary, c.want)
		}
		if row.Bytes != len(c.payload) {
			t.Errorf("%s: bytes = %d, want %d", c.key, row.Bytes, len(c.payload))
		}
	}
}

func TestSetERSInputs(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	s := ers.Open(ctx, b, nil)

	if _, err := setERSInputs(ctx, s, map[string]float64{"cog": 150}); err != nil {
		t.Fatalf("single assignment: %v", err)
	}
	if v, _ := ers.Open(ctx, b, nil).State().Inputs.Get("cog"); v != 100 {
		t.Fatalf("expected persisted clamped cog 100, got %v", v)
	}

	_, err := setERSInputs(ctx, s, map[string]float64{"calm": 5, "bogus": 1})
	if !errors.Is(err, ers.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if v, _ := ers.Open(ctx, b, nil).State().Inputs.Get("calm"); v == 5 {
		t.Fatal("rejected batch should not persist any assignment")
	}

	if _, err := setERSInputs(ctx, s, map[string]float64{"calm": 5, "sleep": 6}); err != nil {
		t.Fatalf("batch assignment: %v", err)
	}
	in := ers.Open(ctx, b, nil).State().Inputs
	if in.Calm != 5 || in.Sleep != 6 {
		t.Fatalf("batch not persisted: %+v", in)
	}
}

func TestSetAgentDims(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	s := agents.Open(ctx, b, nil)

	if _, err := setAgentDims(ctx, s, "critic", map[string]float64{"alignment": -10}); err != nil {
		t.Fatalf("single assignment: %v", err)
	}
	if got := agents.Open(ctx, b, nil).State().Agents["critic"].Alignment; got != 0 {
		t.Fatalf("expected persisted clamped alignment 0, got %v", got)
	}

	_, err := setAgentDims(ctx, s, "critic", map[string]float64{"cost": 90, "mood": 1})
	if !errors.Is(err, agents.ErrUnknownDimension) {
		t.Fatalf("expected ErrUnknownDimension, got %v", err)
	}
	if got := agents.Open(ctx, b, nil).State().Agents["critic"].Cost; got == 90 {
		t.Fatal("rejected batch should not persist any assignment")
	}

	if _, err := setAgentDims(ctx, s, "critic", map[string]float64{"cost": 90, "latency": 10}); err != nil {
		t.Fatalf("batch assignment: %v", err)
	}
	d := agents.Open(ctx, b, nil).State().Agents["critic"]
	if d.Cost != 90 || d.Latency != 10 {
		t.Fatalf("batch not persisted: %+v", d)
	}
}

func TestDropSlot(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	h := storeHandle{backend: b, recorder: logging.NopRecorder{}}

	if err := dropSlot(ctx, h, ers.StorageKey); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unwritten slot, got %v", err)
	}

	s := ers.Open(ctx, b, nil)
	if _, err := s.Calculate(ctx); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := dropSlot(ctx, h, ers.StorageKey); err != nil {
		t.Fatalf("dropSlot: %v", err)
	}
	if keys, _ := b.Keys(ctx); len(keys) != 0 {
		t.Fatalf("expected no slots after drop, got %v", keys)
	}
	if n := len(ers.Open(ctx, b, nil).State().History); n != 0 {
		t.Fatalf("dropped page should restart from defaults, history=%d", n)
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yusen.yaml")
	want := config.DefaultConfig()
	want.Storage.Backend = "memory"

	if err := initConfig(path, want, false); err != nil {
		t.Fatalf("initConfig: %v", err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Storage.Backend != "memory" || got.Server.HTTPAddr != want.Server.HTTPAddr {
		t.Fatalf("unexpected round trip: %+v", got)
	}

	if err := initConfig(path, config.DefaultConfig(), false); err == nil {
		t.Fatal("expected refusal to overwrite without force")
	}
	if err := initConfig(path, config.DefaultConfig(), true); err != nil {
		t.Fatalf("forced initConfig: %v", err)
	}
	if got, _ := config.Load(path); got.Storage.Backend != "sqlite" {
		t.Fatalf("forced write not applied: %+v", got.Storage)
	}
}
