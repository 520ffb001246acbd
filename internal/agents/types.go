package agents

import (
	"errors"
	"fmt"

	"github.com/yusen/interactive-demos/internal/numeric"
)

var (
	// ErrUnknownRound is returned for round kinds other than negotiate/stress.
	ErrUnknownRound = errors.New("unknown round kind")
	// ErrUnknownAgent is returned for agent ids outside the roster.
	ErrUnknownAgent = errors.New("unknown agent")
	// ErrUnknownDimension is returned for dimension names outside DimensionNames.
	ErrUnknownDimension = errors.New("unknown agent dimension")
)

// #region roster
// Agent is a fixed participant identity.
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Roster is the fixed five-agent set in declaration order. Conflict ranking
// ties are broken by this order.
var Roster = []Agent{
	{ID: "planner", Name: "Planner", Role: "Goal decomposition / constraints"},
	{ID: "builder", Name: "Builder", Role: "Implementation plan / tooling"},
	{ID: "critic", Name: "Critic", Role: "Failure modes / risk"},
	{ID: "researcher", Name: "Researcher", Role: "Assumptions / evidence"},
	{ID: "operator", Name: "Operator", Role: "Execution / rollback"},
}

// Lookup returns the roster entry for id.
func Lookup(id string) (Agent, bool) {
	for _, a := range Roster {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

// #endregion roster

// #region dims
// Dims are one agent's four 0-100 calibration dimensions.
type Dims struct {
	Alignment  float64 `json:"alignment"`
	Confidence float64 `json:"confidence"`
	Latency    float64 `json:"latency"`
	Cost       float64 `json:"cost"`
}

// DimensionNames lists dimension names in slider order.
var DimensionNames = []string{"alignment", "confidence", "latency", "cost"}

// DefaultDims is every agent's starting point.
func DefaultDims() Dims {
	return Dims{Alignment: 70, Confidence: 65, Latency: 40, Cost: 35}
}

// Clamped returns a copy with every dimension bounded to [0,100].
func (d Dims) Clamped() Dims {
	return Dims{
		Alignment:  numeric.Unit(d.Alignment),
		Confidence: numeric.Unit(d.Confidence),
		Latency:    numeric.Unit(d.Latency),
		Cost:       numeric.Unit(d.Cost),
	}
}

// With returns a copy with the named dimension set (clamped).
func (d Dims) With(name string, v float64) (Dims, error) {
	v = numeric.Unit(v)
	switch name {
	case "alignment":
		d.Alignment = v
	case "confidence":
		d.Confidence = v
	case "latency":
		d.Latency = v
	case "cost":
		d.Cost = v
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownDimension, name)
	}
	return d, nil
}

// #endregion dims

// #region results
// Row is one agent with its dimensions and calibration score.
type Row struct {
	Agent
	Dims
	Score float64 `json:"score"`
}

// Conflict is one agent's conflict proxy (high confidence, low alignment).
type Conflict struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"v"`
}

// Result is the derived calibration view. Consensus is clamped to [0,100];
// Dispersion is a population standard deviation and is not clamped.
type Result struct {
	Rows       []Row      `json:"rows"`
	Consensus  float64    `json:"consensus"`
	Dispersion float64    `json:"dispersion"`
	Conflicts  []Conflict `json:"conflicts"`
}

// TopConflict returns the highest-ranked conflict.
func (r Result) TopConflict() (Conflict, bool) {
	if len(r.Conflicts) == 0 {
		return Conflict{}, false
	}
	return r.Conflicts[0], true
}

// #endregion results

// #region rounds
// RoundKind names a round transition.
type RoundKind string

const (
	RoundNegotiate RoundKind = "negotiate"
	RoundStress    RoundKind = "stress"
)

// ParseRoundKind validates a round kind name.
func ParseRoundKind(s string) (RoundKind, error) {
	switch RoundKind(s) {
	case RoundNegotiate, RoundStress:
		return RoundKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRound, s)
}

// Aggregate is the consensus/dispersion pair recorded around a round.
type Aggregate struct {
	Consensus  float64 `json:"consensus"`
	Dispersion float64 `json:"dispersion"`
}

// Round is one round log entry.
type Round struct {
	When   string    `json:"when"`
	Kind   RoundKind `json:"kind"`
	Before Aggregate `json:"before"`
	After  Aggregate `json:"after"`
}

// #endregion rounds

// #region session-state
// SessionState is the persisted agents page document.
type SessionState struct {
	Agents map[string]Dims `json:"agents"`
	Rounds []Round         `json:"rounds"`
}

// DefaultState gives every roster agent DefaultDims and an empty round log.
func DefaultState() SessionState {
	a := make(map[string]Dims, len(Roster))
	for _, ag := range Roster {
		a[ag.ID] = DefaultDims()
	}
	return SessionState{Agents: a, Rounds: []Round{}}
}

// #endregion session-state
