// Package router maps hash fragments to demo pages and mounts per-page
// controllers over a shared storage backend.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yusen/interactive-demos/internal/agents"
	"github.com/yusen/interactive-demos/internal/cooking"
	"github.com/yusen/interactive-demos/internal/ers"
	"github.com/yusen/interactive-demos/internal/state"
)

// ErrUnknownPage is returned by Lookup for names outside the route table.
var ErrUnknownPage = errors.New("unknown page")

// Controller is the surface every mounted page exposes to presentation
// layers.
type Controller interface {
	Page() string
	SlotKey() string
	View() any
	Reset(ctx context.Context) error
	Snapshot() any
}

// MountFunc restores a page's session and returns its controller.
type MountFunc func(ctx context.Context, backend state.Backend, logger *zap.Logger) Controller

// Route binds a hash fragment to a page.
type Route struct {
	Hash  string
	Page  string
	Title string
	Mount MountFunc
}

// #region routes
// Routes are listed in navigation order; the first is the default.
var Routes = []Route{
	{
		Hash: "#/ers", Page: ers.Page, Title: "ERS Risk/Stability",
		Mount: func(ctx context.Context, b state.Backend, l *zap.Logger) Controller { return ers.Open(ctx, b, l) },
	},
	{
		Hash: "#/agents", Page: agents.Page, Title: "Five-Agent Calibration",
		Mount: func(ctx context.Context, b state.Backend, l *zap.Logger) Controller { return agents.Open(ctx, b, l) },
	},
	{
		Hash: "#/cooking", Page: cooking.Page, Title: "Cooking Workflow",
		Mount: func(ctx context.Context, b state.Backend, l *zap.Logger) Controller { return cooking.Open(ctx, b, l) },
	},
}

// DefaultRoute is used for unrecognized fragments.
func DefaultRoute() Route { return Routes[0] }

// Resolve maps a hash fragment to its route, falling back to DefaultRoute.
// Leading "#" and "/" are optional and matching is case-insensitive.
func Resolve(hash string) Route {
	h := strings.ToLower(strings.TrimSpace(hash))
	h = strings.TrimPrefix(h, "#")
	h = strings.TrimPrefix(h, "/")
	for _, r := range Routes {
		if r.Page == h {
			return r
		}
	}
	return DefaultRoute()
}

// Lookup finds a route by page name without falling back.
func Lookup(page string) (Route, error) {
	for _, r := range Routes {
		if r.Page == page {
			return r, nil
		}
	}
	return Route{}, fmt.Errorf("%w: %q", ErrUnknownPage, page)
}

// Pages lists page names in navigation order.
func Pages() []string {
	out := make([]string, len(Routes))
	for i, r := range Routes {
		out[i] = r.Page
	}
	return out
}

// #endregion routes

// #region mount
// MountAll mounts every page over backend, keyed by page name.
func MountAll(ctx context.Context, backend state.Backend, logger *zap.Logger) map[string]Controller {
	out := make(map[string]Controller, len(Routes))
	for _, r := range Routes {
		out[r.Page] = r.Mount(ctx, backend, logger)
	}
	return out
}

// #endregion mount
