package cooking

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
	Page       = "cooking"
	StorageKey = "yusen_demo_cooking_v1"
	LogLimit   = 80
)

// #region session
// Session owns one mounted cooking page. A Session is not safe for
// concurrent use.
type Session struct {
	slot   *state.Slot[SessionState]
	st     SessionState
	now    func() time.Time
	logger *zap.Logger
}

// Open restores the cooking session. When the restored step list is empty,
// steps are proposed from the goal; that proposal is held in memory and
// persisted with the next transition.
func Open(ctx context.Context, backend state.Backend, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	slot := state.NewSlot(backend, StorageKey, DefaultState, logger)
	s := &Session{slot: slot, now: time.Now, logger: logger.With(zap.String("page", Page))}
	s.st = normalize(slot.Load(ctx))
	return s
}

// WithClock replaces the time source used for log timestamps.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

func normalize(st SessionState) SessionState {
	st.EU = numeric.Unit(st.EU)
	if len(st.Steps) == 0 {
		st.Steps = ProposeSteps(st.Goal, st.Constraints)
	}
	if st.Log == nil {
		st.Log = []LogEntry{}
	}
	st.Log = history.Truncate(st.Log, LogLimit)
	return st
}

// #endregion session

// #region accessors
func (s *Session) Page() string { return Page }

func (s *Session) SlotKey() string { return s.slot.Key() }

// State returns a copy of the current session document.
func (s *Session) State() SessionState {
	out := s.st
	out.Steps = history.Tail(s.st.Steps, len(s.st.Steps))
	out.Log = history.Tail(s.st.Log, len(s.st.Log))
	return out
}

// Recommendation classifies the current budget.
func (s *Session) Recommendation() Recommendation {
	return RecommendByEU(s.st.EU)
}

// View is the page state together with its budget recommendation.
type View struct {
	State     SessionState   `json:"state"`
	Recommend Recommendation `json:"recommend"`
}

func (s *Session) View() any {
	return View{State: s.State(), Recommend: s.Recommendation()}
}

// #endregion accessors

// #region transitions
// SetInputs updates goal, constraints and EU (clamped) and persists. Steps
// are not regenerated.
func (s *Session) SetInputs(ctx context.Context, in Inputs) error {
	in.apply(&s.st)
	return s.save(ctx)
}

// Generate overwrites the step list from the current goal, logs it and
// persists.
func (s *Session) Generate(ctx context.Context) ([]Step, error) {
	s.st.Steps = ProposeSteps(s.st.Goal, s.st.Constraints)
	s.appendLog(LogGenerate, fmt.Sprintf("Generated %d steps.", len(s.st.Steps)))
	return s.State().Steps, s.save(ctx)
}

// Run simulates today's plan: a run entry is logged, then one todo entry per
// checklist item. Display detail overrides are returned, not stored.
func (s *Session) Run(ctx context.Context) (RunResult, error) {
	res := Simulate(s.st.Steps, s.st.EU)
	s.appendLog(LogRun, RunMessage(s.st.EU, res.Recommendation.Depth))
	for _, it := range res.Checklist {
		s.appendLog(LogTodo, TodoMessage(it))
	}
	s.logger.Debug("run",
		zap.Float64("eu", s.st.EU),
		zap.String("depth", string(res.Recommendation.Depth)),
		zap.Int("checklist", len(res.Checklist)))
	return res, s.save(ctx)
}

// AddStep appends a blank Custom step and persists.
func (s *Session) AddStep(ctx context.Context) (Step, error) {
	st := Step{ID: NewID(), Stage: StageCustom, Name: "New Step", Detail: ""}
	s.st.Steps = append(s.st.Steps, st)
	return st, s.save(ctx)
}

// EditStep applies patch to the step with id and persists.
func (s *Session) EditStep(ctx context.Context, id string, patch StepPatch) (Step, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Step{}, fmt.Errorf("%w: %q", ErrStepNotFound, id)
	}
	if patch.Name != nil {
		s.st.Steps[i].Name = *patch.Name
	}
	if patch.Detail != nil {
		s.st.Steps[i].Detail = *patch.Detail
	}
	return s.st.Steps[i], s.save(ctx)
}

// DeleteStep removes the step with id and persists.
func (s *Session) DeleteStep(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrStepNotFound, id)
	}
	steps := make([]Step, 0, len(s.st.Steps)-1)
	steps = append(steps, s.st.Steps[:i]...)
	steps = append(steps, s.st.Steps[i+1:]...)
	s.st.Steps = steps
	return s.save(ctx)
}

// Reset restores the default document with freshly proposed steps and
// persists it.
func (s *Session) Reset(ctx context.Context) error {
	st := DefaultState()
	st.Steps = ProposeSteps(st.Goal, st.Constraints)
	s.st = st
	return s.save(ctx)
}

func (s *Session) indexOf(id string) int {
	for i, st := range s.st.Steps {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) appendLog(kind LogKind, msg string) {
	s.st.Log = history.Append(s.st.Log, LogEntry{
		When: numeric.ISO(s.now()),
		Kind: kind,
		Msg:  msg,
	}, LogLimit)
}

func (s *Session) save(ctx context.Context) error {
	if err := s.slot.Save(ctx, s.st); err != nil {
		return fmt.Errorf("save cooking session: %w", err)
	}
	return nil
}

// #endregion transitions

// #region render
// FormatLog renders one execution log line.
func FormatLog(e LogEntry) string {
	return fmt.Sprintf("%s  [%s]  %s", numeric.DisplayTime(e.When), e.Kind, e.Msg)
}

// LogLines renders the execution log newest first.
func (s *Session) LogLines() []string {
	lines := make([]string, 0, len(s.st.Log))
	for i := len(s.st.Log) - 1; i >= 0; i-- {
		lines = append(lines, FormatLog(s.st.Log[i]))
	}
	return lines
}

// #endregion render

// #region export
// ExportSnapshot is the downloadable cooking document.
type ExportSnapshot struct {
	When      string         `json:"when"`
	Recommend Recommendation `json:"recommend"`
	State     SessionState   `json:"state"`
}

func (s *Session) Snapshot() any {
	return ExportSnapshot{
		When:      numeric.ISO(s.now()),
		Recommend: s.Recommendation(),
		State:     s.State(),
	}
}

// #endregion export
