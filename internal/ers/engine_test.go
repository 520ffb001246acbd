package ers

import (
	"math"
	"math/rand"
	"testing"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s: expected %v, got %v", name, want, got)
	}
}

func uniform(core, risk, support float64) Inputs {
	return Inputs{
		Cog: core, Phy: core, Sta: core, Foc: core,
		Uncertainty: risk, Adversary: risk, Time: risk, Stakes: risk,
		Sleep: support, Calm: support, Resilience: support,
	}
}

func TestScoreBoundary(t *testing.T) {
	r := Score(uniform(100, 0, 100))

	approx(t, "core", r.Core, 100)
	approx(t, "risk", r.Risk, 0)
	approx(t, "stability", r.Stability, 100)
	approx(t, "ers", r.ERS, 100)
	if r.Mode != ModeSniper {
		t.Fatalf("expected Sniper, got %s", r.Mode)
	}
	if r.Gate != GateGreen {
		t.Fatalf("expected GREEN, got %s", r.Gate)
	}
	if r.Action == "" || r.GateHint == "" {
		t.Fatal("expected action and gate hint text")
	}
}

func TestScoreBalancedDefault(t *testing.T) {
	r := Score(DefaultState().Inputs)

	approx(t, "core", r.Core, 62.5)
	approx(t, "risk", r.Risk, 36)
	approx(t, "stability", r.Stability, 58.75)
	approx(t, "ers", r.ERS, 32.3875)
	if r.Mode != ModeRecovery {
		t.Fatalf("expected Recovery/Hole, got %s", r.Mode)
	}
	if r.Gate != GateGreen {
		t.Fatalf("expected GREEN, got %s", r.Gate)
	}
}

func TestScoreFreezingOnHighRisk(t *testing.T) {
	for _, core := range []float64{0, 50, 100} {
		for _, support := range []float64{0, 50, 100} {
			r := Score(uniform(core, 100, support))
			if r.Risk < 80 {
				t.Fatalf("expected risk >= 80, got %v", r.Risk)
			}
			if r.Mode != ModeFreezing {
				t.Fatalf("core=%v support=%v: expected Freezing, got %s (ers=%v)", core, support, r.Mode, r.ERS)
			}
			if r.Gate != GateRed {
				t.Fatalf("expected RED, got %s", r.Gate)
			}
		}
	}
}

func TestScoreRuleOrderPrefers3MOROverLowStability(t *testing.T) {
	// stability 25 would trigger Freezing, but rule 2 is evaluated first.
	r := Score(Inputs{Cog: 100, Phy: 100, Sta: 100, Foc: 100})
	approx(t, "stability", r.Stability, 25)
	approx(t, "ers", r.ERS, 70)
	if r.Mode != Mode3MOR {
		t.Fatalf("expected 3MOR, got %s", r.Mode)
	}
}

func TestScoreModeAndGateAreIndependent(t *testing.T) {
	r := Score(uniform(100, 70, 100))
	approx(t, "risk", r.Risk, 70)
	approx(t, "ers", r.ERS, 61.5)
	if r.Mode != ModeSentinel || r.Gate != GateOrange {
		t.Fatalf("expected Sentinel/ORANGE, got %s/%s", r.Mode, r.Gate)
	}
}

func TestScoreAllZeroIsFreezing(t *testing.T) {
	r := Score(Inputs{})
	if r.Mode != ModeFreezing || r.Gate != GateGreen {
		t.Fatalf("expected Freezing/GREEN, got %s/%s", r.Mode, r.Gate)
	}
}

func TestGateBoundaries(t *testing.T) {
	cases := []struct {
		risk float64
		want Gate
	}{
		{0, GateGreen},
		{39.999, GateGreen},
		{40, GateYellow},
		{64.999, GateYellow},
		{65, GateOrange},
		{79.999, GateOrange},
		{80, GateRed},
		{100, GateRed},
		{140, GateRed},
	}
	for _, c := range cases {
		if got := GateFor(c.risk); got != c.want {
			t.Fatalf("GateFor(%v) = %s, want %s", c.risk, got, c.want)
		}
	}
}

func TestScoreClampsOutOfRangeInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		in := Inputs{}
		for _, name := range FieldNames {
			p, _ := in.field(name)
			*p = rng.Float64()*600 - 250
		}
		r := Score(in)
		for name, v := range map[string]float64{
			"core": r.Core, "risk": r.Risk, "stability": r.Stability, "ers": r.ERS,
		} {
			if v < 0 || v > 100 {
				t.Fatalf("%s out of range: %v for %+v", name, v, in)
			}
		}
	}

	over := Score(uniform(500, -300, 900))
	exact := Score(uniform(100, 0, 100))
	if over != exact {
		t.Fatalf("clamped inputs should score like their bounds: %+v vs %+v", over, exact)
	}
}

func TestScoreDeterministic(t *testing.T) {
	in := Presets["high"]
	r1 := Score(in)
	for i := 0; i < 10; i++ {
		if r := Score(in); r != r1 {
			t.Fatalf("non-deterministic result: %+v vs %+v", r, r1)
		}
	}
}

func TestInputsSetGet(t *testing.T) {
	var in Inputs
	if err := in.Set("calm", 140); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := in.Get("calm"); v != 100 {
		t.Fatalf("expected clamped 100, got %v", v)
	}
	if err := in.Set("mood", 1); err == nil {
		t.Fatal("expected unknown field error")
	}
	if _, err := in.Get("mood"); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestPresetsMatchNames(t *testing.T) {
	if len(Presets) != len(PresetNames) {
		t.Fatalf("preset table/name mismatch")
	}
	for _, n := range PresetNames {
		if _, ok := Presets[n]; !ok {
			t.Fatalf("missing preset %s", n)
		}
	}
	if r := Score(Presets["freezing"]); r.Gate != GateOrange {
		t.Fatalf("freezing preset: expected ORANGE, got %s", r.Gate)
	}
}
