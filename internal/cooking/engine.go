// Package cooking plans a multi-step workflow: step proposal, energy budget
// tiers, today's checklist and the run simulation.
package cooking

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yusen/interactive-demos/internal/numeric"
)

// ChecklistLimit bounds BuildTodayChecklist.
const ChecklistLimit = 18

// #region propose
// NewID returns a fresh step identity token.
func NewID() string {
	return uuid.NewString()
}

// proposalSpace namespaces the name-based ids of proposed steps.
var proposalSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:yusen:cooking:step"))

// proposedID derives a step id from the proposal inputs, so every mount of
// the same unsaved proposal hands out the same ids.
func proposedID(goal, constraints string, stage Stage) string {
	name := goal + "\x00" + constraints + "\x00" + string(stage)
	return uuid.NewSHA1(proposalSpace, []byte(name)).String()
}

// ProposeSteps returns the five-stage skeleton for goal. A blank goal is
// rendered as "Untitled Goal". Ids are deterministic in goal and
// constraints.
func ProposeSteps(goal, constraints string) []Step {
	g := strings.TrimSpace(goal)
	if g == "" {
		g = "Untitled Goal"
	}
	c := strings.TrimSpace(constraints)
	structure := "Split into 3-5 modules; clarify I/O, dependencies and interfaces."
	if c != "" {
		structure += " Constraints: " + c
	}
	id := func(stage Stage) string { return proposedID(g, c, stage) }
	return []Step{
		{ID: id(StageAbstract), Stage: StageAbstract, Name: "Abstract the problem",
			Detail: "Restate the goal as a verifiable output: " + g},
		{ID: id(StageStructure), Stage: StageStructure, Name: "Build the skeleton", Detail: structure},
		{ID: id(StagePath), Stage: StagePath, Name: "Generate candidate paths",
			Detail: "Offer paths A/B/C (fast/stable/extensible), each with its risks and rollback point."},
		{ID: id(StageEU), Stage: StageEU, Name: "Align with EU load",
			Detail: "Size steps to EU: high EU allows irreversible output; low EU only tidying and reversible actions."},
		{ID: id(StageExec), Stage: StageExec, Name: "Produce the executable plan",
			Detail: "Output: today's action list, a definition of done and a minimal verification demo."},
	}
}

// #endregion propose

// #region tiers
// tier bundles everything keyed by a budget threshold.
type tier struct {
	min   float64
	rec   Recommendation
	items []ChecklistItem
}

// tiers are evaluated in order; the first whose min is <= eu wins.
var tiers = []tier{
	{
		min: 80,
		rec: Recommendation{Depth: DepthHigh, Note: "Cooking 3.0: multi-variable breakdown and path rollout; push toward a publishable version."},
		items: []ChecklistItem{
			{StageExec, "Finish a publishable demo (with Export / Reset / Presets)"},
			{StageOps, "Push, run GitHub Actions, deploy to Pages; confirm /dist loads"},
		},
	},
	{
		min: 60,
		rec: Recommendation{Depth: DepthMid, Note: "Cooking 2.0: confirm intent, skeleton, steps, then check load; good for finishing an MVP."},
		items: []ChecklistItem{
			{StageExec, "Finish the MVP: at least one full interactive loop (input, compute, viz/log)"},
			{StageOps, "Get the deploy pipeline through; add copy and screenshots after"},
		},
	},
	{
		min: 40,
		rec: Recommendation{Depth: DepthLow, Note: "Skeleton and reversible actions only: tidy, document, split tasks; no high-risk commitments."},
		items: []ChecklistItem{
			{StagePrep, "Sort out requirements, interfaces and data structures; leave room in the state schema"},
			{StagePrep, "Ship the UI skeleton first (an empty shell must still work)"},
		},
	},
}

var recoveryTier = tier{
	rec: Recommendation{Depth: DepthRecovery, Note: "Pause major decisions: recover, reduce load, maintain only."},
	items: []ChecklistItem{
		{StageRecovery, "Low-cost tidying only: README, TODO, back up and compare existing HTML"},
		{StageRecovery, "Stop and rest; pick the work back up when EU recovers"},
	},
}

func tierFor(eu float64) tier {
	eu = numeric.Unit(eu)
	for _, t := range tiers {
		if eu >= t.min {
			return t
		}
	}
	return recoveryTier
}

// RecommendByEU classifies an energy budget. Thresholds are inclusive on the
// lower bound, so 80 is High.
func RecommendByEU(eu float64) Recommendation {
	return tierFor(eu).rec
}

// #endregion tiers

// #region checklist
// BuildTodayChecklist returns the two tier items followed by one trace item
// per step, truncated to ChecklistLimit. Tier items always survive.
func BuildTodayChecklist(steps []Step, eu float64) []ChecklistItem {
	t := tierFor(eu)
	items := make([]ChecklistItem, 0, ChecklistLimit)
	items = append(items, t.items...)
	for _, s := range steps {
		if len(items) == ChecklistLimit {
			break
		}
		items = append(items, ChecklistItem{Stage: s.Stage, Item: "Step ready: " + s.Name})
	}
	return items
}

// #endregion checklist

// #region run
const (
	detailDeferred   = "Low EU: deferred. Keep only the title and a minimal note for this step."
	detailSinglePath = "Mid-low EU: keep a single path; avoid expanding too many candidates."
	detailAlignOnce  = "Mid EU: align EU once; make today's load ceiling and rollback point explicit."
)

// DisplaySteps returns copies of steps with detail overridden for the budget.
// The input slice is not modified.
func DisplaySteps(steps []Step, eu float64) []Step {
	eu = numeric.Unit(eu)
	out := make([]Step, len(steps))
	for i, s := range steps {
		switch {
		case eu < 40 && s.Stage != StageExec:
			s.Detail = detailDeferred
		case eu < 60 && s.Stage == StagePath:
			s.Detail = detailSinglePath
		case eu < 80 && s.Stage == StageEU:
			s.Detail = detailAlignOnce
		}
		out[i] = s
	}
	return out
}

// RunResult is the output of one run simulation.
type RunResult struct {
	Recommendation Recommendation  `json:"recommend"`
	Steps          []Step          `json:"steps"`
	Checklist      []ChecklistItem `json:"checklist"`
}

// Simulate runs the budget gating over steps without touching any state.
func Simulate(steps []Step, eu float64) RunResult {
	display := DisplaySteps(steps, eu)
	return RunResult{
		Recommendation: RecommendByEU(eu),
		Steps:          display,
		Checklist:      BuildTodayChecklist(display, eu),
	}
}

// RunMessage is the log line for a run at eu.
func RunMessage(eu float64, depth Depth) string {
	return fmt.Sprintf("Run simulation @EU=%d (%s)", numeric.Round(eu), depth)
}

// TodoMessage is the log line for one checklist item.
func TodoMessage(it ChecklistItem) string {
	return fmt.Sprintf("[%s] %s", it.Stage, it.Item)
}

// #endregion run
