package cooking

import (
	"errors"

	"github.com/yusen/interactive-demos/internal/numeric"
)

// ErrStepNotFound is returned when a step id is not in the list.
var ErrStepNotFound = errors.New("step not found")

// #region stages
// Stage tags a workflow step.
type Stage string

const (
	StageAbstract  Stage = "Abstract"
	StageStructure Stage = "Structure"
	StagePath      Stage = "Path"
	StageEU        Stage = "EU"
	StageExec      Stage = "Exec"
	StageCustom    Stage = "Custom"
)

// Checklist-only stages used by the tier items.
const (
	StageOps      Stage = "Ops"
	StagePrep     Stage = "Prep"
	StageRecovery Stage = "Recovery"
)

// #endregion stages

// #region records
// Step is one editable workflow step. ID is assigned at creation and stable
// until the step is deleted.
type Step struct {
	ID     string `json:"id"`
	Stage  Stage  `json:"stage"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// StepPatch carries optional name/detail edits.
type StepPatch struct {
	Name   *string `json:"name,omitempty"`
	Detail *string `json:"detail,omitempty"`
}

// Depth is a budget tier name.
type Depth string

const (
	DepthHigh     Depth = "High"
	DepthMid      Depth = "Mid"
	DepthLow      Depth = "Low"
	DepthRecovery Depth = "Recovery"
)

// Recommendation is the budget classifier output.
type Recommendation struct {
	Depth Depth  `json:"depth"`
	Note  string `json:"note"`
}

// ChecklistItem is one entry of today's action list.
type ChecklistItem struct {
	Stage Stage  `json:"stage"`
	Item  string `json:"item"`
}

// LogKind names a workflow log entry type.
type LogKind string

const (
	LogGenerate LogKind = "generate"
	LogRun      LogKind = "run"
	LogTodo     LogKind = "todo"
)

// LogEntry is one execution log line.
type LogEntry struct {
	When string  `json:"when"`
	Kind LogKind `json:"kind"`
	Msg  string  `json:"msg"`
}

// #endregion records

// #region session-state
const (
	DefaultGoal        = "Deploy 3 interactive demos to GitHub Pages"
	DefaultConstraints = "Timebox: today; prefer Vite + vanilla JS; keep UX consistent"
	DefaultEU          = 65
)

// SessionState is the persisted cooking page document.
type SessionState struct {
	Goal        string     `json:"goal"`
	Constraints string     `json:"constraints"`
	EU          float64    `json:"eu"`
	Steps       []Step     `json:"steps"`
	Log         []LogEntry `json:"log"`
}

// DefaultState returns the hard-coded default with no steps. Steps are
// proposed when a session is opened or reset.
func DefaultState() SessionState {
	return SessionState{
		Goal:        DefaultGoal,
		Constraints: DefaultConstraints,
		EU:          DefaultEU,
		Steps:       []Step{},
		Log:         []LogEntry{},
	}
}

// Inputs are the editable scalar fields.
type Inputs struct {
	Goal        *string  `json:"goal,omitempty"`
	Constraints *string  `json:"constraints,omitempty"`
	EU          *float64 `json:"eu,omitempty"`
}

func (in Inputs) apply(st *SessionState) {
	if in.Goal != nil {
		st.Goal = *in.Goal
	}
	if in.Constraints != nil {
		st.Constraints = *in.Constraints
	}
	if in.EU != nil {
		st.EU = numeric.Unit(*in.EU)
	}
}

// #endregion session-state
