package ers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yusen/interactive-demos/internal/history"
	"github.com/yusen/interactive-demos/internal/numeric"
	"github.com/yusen/interactive-demos/internal/state"
)

const (
	Page               = "ers"
	StorageKey         = "yusen_demo_ers_v1"
	HistoryLimit       = 30
	ExportHistoryLimit = 50
)

// #region session
// Session owns one mounted ERS page's state. Every transition persists the
// whole document immediately. A Session is not safe for concurrent use.
type Session struct {
	slot   *state.Slot[SessionState]
	st     SessionState
	now    func() time.Time
	logger *zap.Logger
}

// Open restores the ERS session from backend, falling back to DefaultState.
func Open(ctx context.Context, backend state.Backend, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	slot := state.NewSlot(backend, StorageKey, DefaultState, logger)
	s := &Session{slot: slot, now: time.Now, logger: logger.With(zap.String("page", Page))}
	s.st = normalize(slot.Load(ctx))
	return s
}

// WithClock replaces the time source used for history timestamps.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

func normalize(st SessionState) SessionState {
	st.Inputs = st.Inputs.Clamped()
	if st.History == nil {
		st.History = []HistoryEntry{}
	}
	st.History = history.Truncate(st.History, HistoryLimit)
	return st
}

// #endregion session

// #region accessors
// Page returns the router key for this page.
func (s *Session) Page() string { return Page }

// SlotKey returns the storage key this session persists under.
func (s *Session) SlotKey() string { return s.slot.Key() }

// State returns a copy of the current session document.
func (s *Session) State() SessionState {
	out := s.st
	out.History = history.Tail(s.st.History, len(s.st.History))
	return out
}

// Results recomputes the assessment from the current inputs.
func (s *Session) Results() Result {
	return Score(s.st.Inputs)
}

// View is the page state together with its derived results.
type View struct {
	State   SessionState `json:"state"`
	Results Result       `json:"results"`
}

// View returns the current state and results.
func (s *Session) View() any {
	return View{State: s.State(), Results: s.Results()}
}

// #endregion accessors

// #region transitions
// SetInput assigns one named input (clamped) and persists.
func (s *Session) SetInput(ctx context.Context, name string, v float64) (Result, error) {
	if err := s.st.Inputs.Set(name, v); err != nil {
		return Result{}, err
	}
	return s.Results(), s.save(ctx)
}

// ApplyInputs replaces all inputs (clamped) and persists.
func (s *Session) ApplyInputs(ctx context.Context, in Inputs) (Result, error) {
	s.st.Inputs = in.Clamped()
	return s.Results(), s.save(ctx)
}

// ApplyPreset copies a named preset into the inputs and persists.
func (s *Session) ApplyPreset(ctx context.Context, name string) (Result, error) {
	p, ok := Presets[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return s.ApplyInputs(ctx, p)
}

// Calculate scores the inputs, appends a history entry, and persists.
func (s *Session) Calculate(ctx context.Context) (Result, error) {
	r := s.Results()
	s.st.History = history.Append(s.st.History, HistoryEntry{
		When:      numeric.ISO(s.now()),
		ERS:       r.ERS,
		Risk:      r.Risk,
		Stability: r.Stability,
		Mode:      r.Mode,
		Gate:      r.Gate,
	}, HistoryLimit)
	s.logger.Debug("calculated",
		zap.Float64("ers", r.ERS),
		zap.String("mode", string(r.Mode)),
		zap.String("gate", string(r.Gate)))
	return r, s.save(ctx)
}

// Reset discards inputs and history and persists the default.
func (s *Session) Reset(ctx context.Context) error {
	st, err := s.slot.Reset(ctx)
	s.st = st
	return err
}

func (s *Session) save(ctx context.Context) error {
	if err := s.slot.Save(ctx, s.st); err != nil {
		return fmt.Errorf("save ers session: %w", err)
	}
	return nil
}

// #endregion transitions

// #region export
// ExportSnapshot is the downloadable ERS document.
type ExportSnapshot struct {
	When string `json:"when"`
	Result
	Inputs  Inputs         `json:"inputs"`
	History []HistoryEntry `json:"history"`
}

// Snapshot builds the export document: results, inputs and the newest
// ExportHistoryLimit history rows.
func (s *Session) Snapshot() any {
	return ExportSnapshot{
		When:    numeric.ISO(s.now()),
		Result:  s.Results(),
		Inputs:  s.st.Inputs,
		History: history.Tail(s.st.History, ExportHistoryLimit),
	}
}

// #endregion export
