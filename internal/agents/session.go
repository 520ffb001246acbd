package agents

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
	Page       = "agents"
	StorageKey = "yusen_demo_agents_v1"
	RoundLimit = 20
)

// #region session
// Session owns one mounted agents page. A Session is not safe for
// concurrent use.
type Session struct {
	slot   *state.Slot[SessionState]
	st     SessionState
	now    func() time.Time
	logger *zap.Logger
}

// Open restores the agents session from backend, falling back to DefaultState.
func Open(ctx context.Context, backend state.Backend, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	slot := state.NewSlot(backend, StorageKey, DefaultState, logger)
	s := &Session{slot: slot, now: time.Now, logger: logger.With(zap.String("page", Page))}
	s.st = normalize(slot.Load(ctx))
	return s
}

// WithClock replaces the time source used for round timestamps.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// normalize fills missing roster agents with defaults, drops ids outside the
// roster, clamps every dimension and truncates the round log.
func normalize(st SessionState) SessionState {
	agents := make(map[string]Dims, len(Roster))
	for _, a := range Roster {
		d, ok := st.Agents[a.ID]
		if !ok {
			d = DefaultDims()
		}
		agents[a.ID] = d.Clamped()
	}
	st.Agents = agents
	if st.Rounds == nil {
		st.Rounds = []Round{}
	}
	st.Rounds = history.Truncate(st.Rounds, RoundLimit)
	return st
}

// #endregion session

// #region accessors
func (s *Session) Page() string { return Page }

func (s *Session) SlotKey() string { return s.slot.Key() }

// State returns a copy of the current session document.
func (s *Session) State() SessionState {
	agents := make(map[string]Dims, len(s.st.Agents))
	for k, v := range s.st.Agents {
		agents[k] = v
	}
	return SessionState{
		Agents: agents,
		Rounds: history.Tail(s.st.Rounds, len(s.st.Rounds)),
	}
}

// Results recomputes rows, consensus, dispersion and conflicts.
func (s *Session) Results() Result {
	return Compute(s.st.Agents)
}

// View is the page state together with its derived results.
type View struct {
	State   SessionState `json:"state"`
	Results Result       `json:"results"`
}

func (s *Session) View() any {
	return View{State: s.State(), Results: s.Results()}
}

// #endregion accessors

// #region transitions
// SetDim assigns one agent dimension (clamped) and persists.
func (s *Session) SetDim(ctx context.Context, id, dim string, v float64) (Result, error) {
	if _, ok := Lookup(id); !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAgent, id)
	}
	d, err := s.st.Agents[id].With(dim, v)
	if err != nil {
		return Result{}, err
	}
	s.st.Agents[id] = d
	return s.Results(), s.save(ctx)
}

// SetAgent replaces all four dimensions of one agent (clamped) and persists.
func (s *Session) SetAgent(ctx context.Context, id string, d Dims) (Result, error) {
	if _, ok := Lookup(id); !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAgent, id)
	}
	s.st.Agents[id] = d.Clamped()
	return s.Results(), s.save(ctx)
}

// RunRound applies one round, appends its log entry and persists. Unknown
// kinds leave the state untouched.
func (s *Session) RunRound(ctx context.Context, kind RoundKind) (Round, error) {
	next, round, err := ApplyRound(s.st.Agents, kind)
	if err != nil {
		return Round{}, err
	}
	round.When = numeric.ISO(s.now())
	s.st.Agents = next
	s.st.Rounds = history.Append(s.st.Rounds, round, RoundLimit)
	s.logger.Debug("round",
		zap.String("kind", string(kind)),
		zap.Float64("consensus", round.After.Consensus),
		zap.Float64("dispersion", round.After.Dispersion))
	return round, s.save(ctx)
}

// Reset restores every agent to DefaultDims, clears rounds and persists.
func (s *Session) Reset(ctx context.Context) error {
	st, err := s.slot.Reset(ctx)
	s.st = normalize(st)
	return err
}

func (s *Session) save(ctx context.Context) error {
	if err := s.slot.Save(ctx, s.st); err != nil {
		return fmt.Errorf("save agents session: %w", err)
	}
	return nil
}

// #endregion transitions

// #region render
// FormatRound renders a round log line with rounded aggregates.
func FormatRound(r Round) string {
	return fmt.Sprintf("%s  [%s]  consensus %d→%d  |  dispersion %d→%d",
		numeric.DisplayTime(r.When), r.Kind,
		numeric.Round(r.Before.Consensus), numeric.Round(r.After.Consensus),
		numeric.Round(r.Before.Dispersion), numeric.Round(r.After.Dispersion))
}

// RoundLines renders the round log newest first.
func (s *Session) RoundLines() []string {
	lines := make([]string, 0, len(s.st.Rounds))
	for i := len(s.st.Rounds) - 1; i >= 0; i-- {
		lines = append(lines, FormatRound(s.st.Rounds[i]))
	}
	return lines
}

// #endregion render

// #region export
// ExportSnapshot is the downloadable agents document.
type ExportSnapshot struct {
	When string `json:"when"`
	Result
	State SessionState `json:"state"`
}

func (s *Session) Snapshot() any {
	return ExportSnapshot{
		When:   numeric.ISO(s.now()),
		Result: s.Results(),
		State:  s.State(),
	}
}

// #endregion export
