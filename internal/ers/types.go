package ers

import (
	"errors"
	"fmt"

	"github.com/yusen/interactive-demos/internal/numeric"
)

var (
	// ErrUnknownField is returned when an input name is not one of FieldNames.
	ErrUnknownField = errors.New("unknown ers input")
	// ErrUnknownPreset is returned for preset names outside Presets.
	ErrUnknownPreset = errors.New("unknown ers preset")
)

// #region inputs
// Inputs holds the eleven 0-100 signals the ERS index is built from.
type Inputs struct {
	// core energy
	Cog float64 `json:"cog"`
	Phy float64 `json:"phy"`
	Sta float64 `json:"sta"`
	Foc float64 `json:"foc"`

	// risk factors
	Uncertainty float64 `json:"uncertainty"`
	Adversary   float64 `json:"adversary"`
	Time        float64 `json:"time"`
	Stakes      float64 `json:"stakes"`

	// stability support
	Sleep      float64 `json:"sleep"`
	Calm       float64 `json:"calm"`
	Resilience float64 `json:"resilience"`
}

// FieldNames lists input names in display order.
var FieldNames = []string{
	"cog", "phy", "sta", "foc",
	"uncertainty", "adversary", "time", "stakes",
	"sleep", "calm", "resilience",
}

func (in *Inputs) field(name string) (*float64, error) {
	switch name {
	case "cog":
		return &in.Cog, nil
	case "phy":
		return &in.Phy, nil
	case "sta":
		return &in.Sta, nil
	case "foc":
		return &in.Foc, nil
	case "uncertainty":
		return &in.Uncertainty, nil
	case "adversary":
		return &in.Adversary, nil
	case "time":
		return &in.Time, nil
	case "stakes":
		return &in.Stakes, nil
	case "sleep":
		return &in.Sleep, nil
	case "calm":
		return &in.Calm, nil
	case "resilience":
		return &in.Resilience, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Set assigns a clamped value to the named input.
func (in *Inputs) Set(name string, v float64) error {
	p, err := in.field(name)
	if err != nil {
		return err
	}
	*p = numeric.Unit(v)
	return nil
}

// Get returns the named input.
func (in Inputs) Get(name string) (float64, error) {
	p, err := in.field(name)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// Clamped returns a copy with every field bounded to [0,100].
func (in Inputs) Clamped() Inputs {
	out := in
	for _, name := range FieldNames {
		p, _ := out.field(name)
		*p = numeric.Unit(*p)
	}
	return out
}

// #endregion inputs

// #region mode-gate
// Mode is the recommended operating mode.
type Mode string

const (
	ModeSniper   Mode = "Sniper"
	Mode3MOR     Mode = "3MOR"
	ModeFreezing Mode = "Freezing"
	ModeRecovery Mode = "Recovery/Hole"
	ModeSentinel Mode = "Sentinel"
)

// Gate is the four-level traffic light over the risk sub-score.
type Gate string

const (
	GateGreen  Gate = "GREEN"
	GateYellow Gate = "YELLOW"
	GateOrange Gate = "ORANGE"
	GateRed    Gate = "RED"
)

// #endregion mode-gate

// #region result
// Result is the derived assessment. Every score is in [0,100]. Mode and Gate
// are derived independently and may disagree (e.g. Sentinel with ORANGE).
type Result struct {
	Core      float64 `json:"core"`
	Risk      float64 `json:"risk"`
	Stability float64 `json:"stability"`
	ERS       float64 `json:"ers"`
	Mode      Mode    `json:"mode"`
	Action    string  `json:"action"`
	Gate      Gate    `json:"gate"`
	GateHint  string  `json:"gateHint"`
}

// #endregion result

// #region session-state
// HistoryEntry is one Calculate snapshot.
type HistoryEntry struct {
	When      string  `json:"when"`
	ERS       float64 `json:"ers"`
	Risk      float64 `json:"risk"`
	Stability float64 `json:"stability"`
	Mode      Mode    `json:"mode"`
	Gate      Gate    `json:"gate"`
}

// SessionState is the persisted ERS page document.
type SessionState struct {
	Inputs  Inputs         `json:"inputs"`
	History []HistoryEntry `json:"history"`
}

// DefaultState returns the balanced starting inputs with an empty history.
func DefaultState() SessionState {
	return SessionState{
		Inputs:  Presets["balanced"],
		History: []HistoryEntry{},
	}
}

// #endregion session-state

// #region presets
// Presets are the canned input sets offered next to the sliders.
var Presets = map[string]Inputs{
	"high": {
		Cog: 85, Phy: 70, Sta: 75, Foc: 80,
		Uncertainty: 35, Adversary: 25, Time: 45, Stakes: 55,
		Sleep: 70, Calm: 60, Resilience: 70,
	},
	"balanced": {
		Cog: 70, Phy: 55, Sta: 60, Foc: 65,
		Uncertainty: 40, Adversary: 20, Time: 35, Stakes: 50,
		Sleep: 60, Calm: 55, Resilience: 60,
	},
	"freezing": {
		Cog: 55, Phy: 45, Sta: 35, Foc: 50,
		Uncertainty: 75, Adversary: 70, Time: 80, Stakes: 85,
		Sleep: 40, Calm: 35, Resilience: 40,
	},
}

// PresetNames lists preset names in button order.
var PresetNames = []string{"high", "balanced", "freezing"}

// #endregion presets
