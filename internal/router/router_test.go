package router

import (
	"context"
	"errors"
	"testing"

	"github.com/yusen/interactive-demos/internal/agents"
	"github.com/yusen/interactive-demos/internal/cooking"
	"github.com/yusen/interactive-demos/internal/ers"
	"github.com/yusen/interactive-demos/internal/state"
)

func TestResolve(t *testing.T) {
	cases := map[string]string{
		"#/ers":     ers.Page,
		"#/agents":  agents.Page,
		"#/cooking": cooking.Page,
		"#/COOKING": cooking.Page,
		"agents":    agents.Page,
		"":          ers.Page,
		"#/":        ers.Page,
		"#/nowhere": ers.Page,
	}
	for hash, want := range cases {
		if got := Resolve(hash).Page; got != want {
			t.Fatalf("Resolve(%q) = %s, want %s", hash, got, want)
		}
	}
}

func TestLookup(t *testing.T) {
	if r, err := Lookup("cooking"); err != nil || r.Hash != "#/cooking" {
		t.Fatalf("Lookup(cooking) = %+v, %v", r, err)
	}
	if _, err := Lookup("nowhere"); !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}
}

func TestMountAllIsolatesPages(t *testing.T) {
	ctx := context.Background()
	b := state.NewMemoryStore()
	ctrls := MountAll(ctx, b, nil)

	if len(ctrls) != 3 {
		t.Fatalf("expected 3 controllers, got %d", len(ctrls))
	}
	keys := map[string]bool{}
	for page, c := range ctrls {
		if c.Page() != page {
			t.Fatalf("controller for %s reports %s", page, c.Page())
		}
		keys[c.SlotKey()] = true
	}
	if len(keys) != 3 {
		t.Fatalf("pages must use distinct slots, got %v", keys)
	}

	if err := ctrls[agents.Page].Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	stored, _ := b.Keys(ctx)
	if len(stored) != 1 || stored[0] != agents.StorageKey {
		t.Fatalf("resetting one page touched other slots: %v", stored)
	}
}

func TestPages(t *testing.T) {
	got := Pages()
	if len(got) != 3 || got[0] != "ers" || got[1] != "agents" || got[2] != "cooking" {
		t.Fatalf("unexpected pages %v", got)
	}
}
