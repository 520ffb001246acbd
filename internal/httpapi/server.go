// Package httpapi exposes the demo pages over a gin JSON API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yusen/interactive-demos/internal/agents"
	"github.com/yusen/interactive-demos/internal/cooking"
	"github.com/yusen/interactive-demos/internal/ers"
	"github.com/yusen/interactive-demos/internal/export"
	"github.com/yusen/interactive-demos/internal/logging"
	"github.com/yusen/interactive-demos/internal/router"
	"github.com/yusen/interactive-demos/internal/state"
)

// #region types
// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// PageInfo describes one routable page.
type PageInfo struct {
	Page  string `json:"page"`
	Hash  string `json:"hash"`
	Title string `json:"title"`
	Slot  string `json:"slot"`
}

// Options configures a Server. Zero values fall back to no-op collaborators.
type Options struct {
	Logger   *zap.Logger
	Recorder logging.Recorder
	Sink     export.Sink
	Now      func() time.Time
}

// page serialises access to one mounted controller.
type page struct {
	mu   sync.Mutex
	ctrl router.Controller
}

// Server owns one mount of every page over a shared backend.
type Server struct {
	pages    map[string]*page
	logger   *zap.Logger
	recorder logging.Recorder
	sink     export.Sink
	now      func() time.Time
	engine   *gin.Engine
}

// #endregion types

// #region constructor
// New mounts every page over backend and builds the gin engine.
func New(ctx context.Context, backend state.Backend, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = logging.NopRecorder{}
	}
	if opts.Sink == nil {
		opts.Sink = export.NewMemorySink()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		pages:    make(map[string]*page),
		logger:   opts.Logger,
		recorder: opts.Recorder,
		sink:     opts.Sink,
		now:      opts.Now,
	}
	for name, ctrl := range router.MountAll(ctx, backend, opts.Logger) {
		s.pages[name] = &page{ctrl: ctrl}
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}

// #endregion constructor

// #region routes
func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), observe())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found", Code: "not_found"})
	})

	v1 := r.Group("/v1")
	v1.GET("/pages", s.listPages)
	for _, rt := range router.Routes {
		name := rt.Page
		v1.GET("/"+name, handle(s, name, "", func(_ *gin.Context, ctrl router.Controller) (any, error) {
			return ctrl.View(), nil
		}))
		v1.POST("/"+name+"/reset", handle(s, name, "reset", func(c *gin.Context, ctrl router.Controller) (any, error) {
			if err := ctrl.Reset(c.Request.Context()); err != nil {
				return nil, err
			}
			return ctrl.View(), nil
		}))
		v1.POST("/"+name+"/export", handle(s, name, "export", func(_ *gin.Context, ctrl router.Controller) (any, error) {
			fn, err := export.Export(s.sink, name, ctrl.Snapshot(), s.now())
			if err != nil {
				return nil, err
			}
			return gin.H{"filename": fn}, nil
		}))
	}

	e := v1.Group("/ers")
	e.PUT("/inputs", handle(s, ers.Page, "inputs", s.ersInputs))
	e.POST("/calculate", handle(s, ers.Page, "calculate", func(c *gin.Context, sess *ers.Session) (any, error) {
		return sess.Calculate(c.Request.Context())
	}))
	e.POST("/preset/:name", handle(s, ers.Page, "preset", func(c *gin.Context, sess *ers.Session) (any, error) {
		return sess.ApplyPreset(c.Request.Context(), c.Param("name"))
	}))
	e.POST("/console", s.ersConsole)

	a := v1.Group("/agents")
	a.PUT("/:id", handle(s, agents.Page, "dims", s.agentDims))
	a.POST("/rounds/:kind", handle(s, agents.Page, "round", func(c *gin.Context, sess *agents.Session) (any, error) {
		kind, err := agents.ParseRoundKind(c.Param("kind"))
		if err != nil {
			return nil, err
		}
		return sess.RunRound(c.Request.Context(), kind)
	}))

	k := v1.Group("/cooking")
	k.PUT("/inputs", handle(s, cooking.Page, "inputs", s.cookingInputs))
	k.POST("/generate", handle(s, cooking.Page, "generate", func(c *gin.Context, sess *cooking.Session) (any, error) {
		return sess.Generate(c.Request.Context())
	}))
	k.POST("/run", handle(s, cooking.Page, "run", func(c *gin.Context, sess *cooking.Session) (any, error) {
		return sess.Run(c.Request.Context())
	}))
	k.POST("/steps", handle(s, cooking.Page, "step_add", func(c *gin.Context, sess *cooking.Session) (any, error) {
		return sess.AddStep(c.Request.Context())
	}))
	k.PATCH("/steps/:id", handle(s, cooking.Page, "step_edit", s.cookingEditStep))
	k.DELETE("/steps/:id", handle(s, cooking.Page, "step_delete", func(c *gin.Context, sess *cooking.Session) (any, error) {
		if err := sess.DeleteStep(c.Request.Context(), c.Param("id")); err != nil {
			return nil, err
		}
		return gin.H{"deleted": c.Param("id")}, nil
	}))

	return r
}

// #endregion routes

// #region dispatch
// errBadRequest marks request body problems.
var errBadRequest = errors.New("bad request")

// handle locks the page, asserts its controller type and runs fn. A
// non-empty action is counted and recorded on success.
func handle[T any](s *Server, pageName, action string, fn func(*gin.Context, T) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := s.pages[pageName]
		if !ok {
			s.fail(c, fmt.Errorf("%w: %q", router.ErrUnknownPage, pageName))
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()

		ctrl, ok := p.ctrl.(T)
		if !ok {
			s.fail(c, fmt.Errorf("page %s: unexpected controller %T", pageName, p.ctrl))
			return
		}

		res, err := fn(c, ctrl)
		if action != "" {
			if err != nil {
				pageActionErrorsTotal.WithLabelValues(pageName, action).Inc()
			} else {
				pageActionsTotal.WithLabelValues(pageName, action).Inc()
			}
		}
		if err != nil {
			s.fail(c, err)
			return
		}
		if action != "" {
			if rerr := s.recorder.Record(c.Request.Context(), pageName, action, p.ctrl.SlotKey(), res); rerr != nil {
				s.logger.Warn("record action failed", zap.String("page", pageName), zap.String("action", action), zap.Error(rerr))
			}
		}
		c.JSON(http.StatusOK, res)
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, router.ErrUnknownPage),
		errors.Is(err, agents.ErrUnknownAgent),
		errors.Is(err, cooking.ErrStepNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errBadRequest),
		errors.Is(err, ers.ErrUnknownField),
		errors.Is(err, ers.ErrUnknownPreset),
		errors.Is(err, agents.ErrUnknownRound),
		errors.Is(err, agents.ErrUnknownDimension):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func bind(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// #endregion dispatch

// #region handlers
func (s *Server) listPages(c *gin.Context) {
	out := make([]PageInfo, 0, len(router.Routes))
	for _, rt := range router.Routes {
		info := PageInfo{Page: rt.Page, Hash: rt.Hash, Title: rt.Title}
		if p, ok := s.pages[rt.Page]; ok {
			info.Slot = p.ctrl.SlotKey()
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, out)
}

// ersInputs applies a partial name→value map. All names are validated
// before anything is persisted.
func (s *Server) ersInputs(c *gin.Context, sess *ers.Session) (any, error) {
	var body map[string]float64
	if err := bind(c, &body); err != nil {
		return nil, err
	}
	in := sess.State().Inputs
	for name, v := range body {
		if err := in.Set(name, v); err != nil {
			return nil, err
		}
	}
	if _, err := sess.ApplyInputs(c.Request.Context(), in); err != nil {
		return nil, err
	}
	return sess.View(), nil
}

type consoleRequest struct {
	Command string `json:"command"`
}

func (s *Server) ersConsole(c *gin.Context) {
	var req consoleRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": ers.Console(req.Command)})
}

func (s *Server) agentDims(c *gin.Context, sess *agents.Session) (any, error) {
	id := c.Param("id")
	if _, ok := agents.Lookup(id); !ok {
		return nil, fmt.Errorf("%w: %q", agents.ErrUnknownAgent, id)
	}
	var body map[string]float64
	if err := bind(c, &body); err != nil {
		return nil, err
	}
	d := sess.State().Agents[id]
	for name, v := range body {
		next, err := d.With(name, v)
		if err != nil {
			return nil, err
		}
		d = next
	}
	return sess.SetAgent(c.Request.Context(), id, d)
}

func (s *Server) cookingInputs(c *gin.Context, sess *cooking.Session) (any, error) {
	var in cooking.Inputs
	if err := bind(c, &in); err != nil {
		return nil, err
	}
	if err := sess.SetInputs(c.Request.Context(), in); err != nil {
		return nil, err
	}
	return sess.View(), nil
}

func (s *Server) cookingEditStep(c *gin.Context, sess *cooking.Session) (any, error) {
	var patch cooking.StepPatch
	if err := bind(c, &patch); err != nil {
		return nil, err
	}
	return sess.EditStep(c.Request.Context(), c.Param("id"), patch)
}

// #endregion handlers
