// Package agents simulates five-agent collaboration calibration: per-agent
// scores, consensus, dispersion, conflict ranking and round transitions.
package agents

import (
	"fmt"
	"sort"

	"github.com/yusen/interactive-demos/internal/numeric"
)

// #region score
// LocalScore is one agent's calibration score: alignment and confidence
// count for, latency and cost count against.
func LocalScore(d Dims) float64 {
	d = d.Clamped()
	return numeric.Unit(0.45*d.Alignment + 0.45*d.Confidence - 0.05*d.Latency - 0.05*d.Cost)
}

// ConflictValue is the high-confidence/low-alignment proxy.
func ConflictValue(d Dims) float64 {
	d = d.Clamped()
	return numeric.Unit((d.Confidence - d.Alignment + 100) / 2)
}

// Compute derives the calibration view. Agents missing from the map score
// as DefaultDims.
func Compute(agents map[string]Dims) Result {
	rows := make([]Row, len(Roster))
	scores := make([]float64, len(Roster))
	for i, a := range Roster {
		d, ok := agents[a.ID]
		if !ok {
			d = DefaultDims()
		}
		d = d.Clamped()
		s := LocalScore(d)
		rows[i] = Row{Agent: a, Dims: d, Score: s}
		scores[i] = s
	}

	consensus := numeric.Unit(numeric.Mean(scores...))
	dispersion := numeric.PopStdDev(scores, consensus)

	conflicts := make([]Conflict, len(rows))
	for i, r := range rows {
		conflicts[i] = Conflict{ID: r.ID, Name: r.Name, Value: ConflictValue(r.Dims)}
	}
	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].Value > conflicts[j].Value
	})

	return Result{
		Rows:       rows,
		Consensus:  consensus,
		Dispersion: dispersion,
		Conflicts:  conflicts,
	}
}

// #endregion score

// #region rounds
// Negotiate pulls every agent's alignment toward the pre-round consensus and
// damps confidence that runs far ahead of alignment. It returns a new map.
func Negotiate(agents map[string]Dims) map[string]Dims {
	c := Compute(agents).Consensus
	out := make(map[string]Dims, len(Roster))
	for _, a := range Roster {
		d, ok := agents[a.ID]
		if !ok {
			d = DefaultDims()
		}
		d = d.Clamped()
		local := LocalScore(d)
		delta := numeric.Clamp((c-local)*0.08, -6, 6)
		d.Alignment = numeric.Unit(d.Alignment + delta)
		if d.Confidence-d.Alignment > 20 {
			d.Confidence = numeric.Unit(d.Confidence - 2)
		}
		out[a.ID] = d
	}
	return out
}

// Stress raises cost and latency and erodes confidence and alignment for
// every agent. It returns a new map.
func Stress(agents map[string]Dims) map[string]Dims {
	out := make(map[string]Dims, len(Roster))
	for _, a := range Roster {
		d, ok := agents[a.ID]
		if !ok {
			d = DefaultDims()
		}
		out[a.ID] = Dims{
			Alignment:  numeric.Unit(d.Alignment - 2),
			Confidence: numeric.Unit(d.Confidence - 4),
			Latency:    numeric.Unit(d.Latency + 6),
			Cost:       numeric.Unit(d.Cost + 6),
		}
	}
	return out
}

// ApplyRound runs one round of kind over agents and returns the new
// dimensions plus the log entry (without a timestamp).
func ApplyRound(agents map[string]Dims, kind RoundKind) (map[string]Dims, Round, error) {
	before := Compute(agents)

	var next map[string]Dims
	switch kind {
	case RoundNegotiate:
		next = Negotiate(agents)
	case RoundStress:
		next = Stress(agents)
	default:
		return agents, Round{}, fmt.Errorf("%w: %q", ErrUnknownRound, kind)
	}

	after := Compute(next)
	return next, Round{
		Kind:   kind,
		Before: Aggregate{Consensus: before.Consensus, Dispersion: before.Dispersion},
		After:  Aggregate{Consensus: after.Consensus, Dispersion: after.Dispersion},
	}, nil
}

// #endregion rounds
