// Package ers scores the eleven-signal energy/risk/stability panel and owns
// its session lifecycle.
package ers

import "github.com/yusen/interactive-demos/internal/numeric"

// #region rules
// modeRule pairs a predicate over the scored triple with its outcome.
type modeRule struct {
	mode   Mode
	action string
	match  func(ers, risk, stability float64) bool
}

// modeRules are evaluated in order; the first match wins.
var modeRules = []modeRule{
	{
		mode:   ModeSniper,
		action: "Lock onto one key objective and concentrate resources; avoid spreading out.",
		match:  func(ers, risk, _ float64) bool { return ers >= 80 && risk <= 55 },
	},
	{
		mode:   Mode3MOR,
		action: "Structured breakdown with medium-intensity output; keep the iteration rhythm.",
		match:  func(ers, risk, _ float64) bool { return ers >= 65 && risk <= 70 },
	},
	{
		mode:   ModeFreezing,
		action: "Halt major decisions; keep only maintenance and safety actions until stability recovers.",
		match:  func(_, risk, stability float64) bool { return risk >= 80 || stability <= 35 },
	},
	{
		mode:   ModeRecovery,
		action: "Low load: recover, tidy up, release pressure; avoid irreversible decisions.",
		match:  func(ers, _, _ float64) bool { return ers <= 35 },
	},
}

var fallbackMode = modeRule{
	mode:   ModeSentinel,
	action: "Monitor and probe in small steps; gather information and lower risk first.",
}

// gateRule maps risk strictly below a bound to a gate.
type gateRule struct {
	below float64
	gate  Gate
	hint  string
}

var gateRules = []gateRule{
	{below: 40, gate: GateGreen, hint: "Low risk: act normally."},
	{below: 65, gate: GateYellow, hint: "Medium risk: stay alert and keep actions reversible."},
	{below: 80, gate: GateOrange, hint: "High risk: probe in small steps and avoid commitments."},
}

var fallbackGate = gateRule{gate: GateRed, hint: "Extreme risk: pause major actions."}

// #endregion rules

// #region score
// Score is a pure function of the inputs. Inputs are clamped before use and
// every sub-score is clamped to [0,100]; ers is clamped last.
func Score(raw Inputs) Result {
	x := raw.Clamped()

	core := numeric.Unit(numeric.Mean(x.Cog, x.Phy, x.Sta, x.Foc))
	risk := numeric.Unit(0.35*x.Uncertainty + 0.25*x.Adversary + 0.20*x.Time + 0.20*x.Stakes)
	stability := numeric.Unit(0.30*x.Sleep + 0.25*x.Calm + 0.20*x.Resilience + 0.25*x.Sta)
	ers := numeric.Unit(core*(0.6+stability/250) - risk*0.55)

	mode := classifyMode(ers, risk, stability)
	gate := classifyGate(risk)

	return Result{
		Core:      core,
		Risk:      risk,
		Stability: stability,
		ERS:       ers,
		Mode:      mode.mode,
		Action:    mode.action,
		Gate:      gate.gate,
		GateHint:  gate.hint,
	}
}

func classifyMode(ers, risk, stability float64) modeRule {
	for _, r := range modeRules {
		if r.match(ers, risk, stability) {
			return r
		}
	}
	return fallbackMode
}

func classifyGate(risk float64) gateRule {
	for _, r := range gateRules {
		if risk < r.below {
			return r
		}
	}
	return fallbackGate
}

// GateFor returns the gate for a risk value on its own.
func GateFor(risk float64) Gate {
	return classifyGate(numeric.Unit(risk)).gate
}

// #endregion score
