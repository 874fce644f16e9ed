package market

import "testing"

func TestCyclePhaseOrder(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCycle(cfg)

	want := []Phase{PhaseGrowth, PhaseBubble, PhasePeak, PhaseCrash, PhaseRecovery}
	seen := []Phase{c.Phase()}

	totalTicks := 0
	for _, d := range cfg.PhaseDurations {
		totalTicks += d
	}

	for i := 0; i < totalTicks; i++ {
		rep := c.Advance()
		if c.Progress() < 0 || c.Progress() > 1 {
			t.Fatalf("progress out of range: %f", c.Progress())
		}
		if rep.PhaseChanged {
			seen = append(seen, rep.NewPhase)
		}
	}

	// One full cycle: the five phases then back to growth.
	if len(seen) != len(want)+1 {
		t.Fatalf("expected %d phases, saw %d (%v)", len(want)+1, len(seen), seen)
	}
	for i, p := range want {
		if seen[i] != p {
			t.Errorf("phase %d: expected %s, got %s", i, p, seen[i])
		}
	}
	if seen[len(seen)-1] != PhaseGrowth {
		t.Errorf("expected wrap to growth, got %s", seen[len(seen)-1])
	}
	if c.State().TotalCycles != 1 {
		t.Errorf("expected 1 completed cycle, got %d", c.State().TotalCycles)
	}
}

func TestCycleRecoveryCompletionIncrementsCounter(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCycle(cfg)
	c.ForcePhase(PhaseRecovery)

	var rep AdvanceReport
	for i := 0; i < cfg.PhaseDurations[PhaseRecovery]; i++ {
		rep = c.Advance()
	}

	if !rep.PhaseChanged {
		t.Fatal("expected phase change after recovery completes")
	}
	if !rep.CycleCompleted {
		t.Error("expected cycle completion on recovery->growth")
	}
	if rep.NewPhase != PhaseGrowth {
		t.Errorf("expected growth, got %s", rep.NewPhase)
	}
	if c.State().TotalCycles != 1 {
		t.Errorf("expected cycle counter 1, got %d", c.State().TotalCycles)
	}
	if c.Progress() != 0 {
		t.Errorf("expected progress reset to 0, got %f", c.Progress())
	}
}

func TestCycleIntensityRanges(t *testing.T) {
	tests := []struct {
		phase    Phase
		progress float64
		want     float64
	}{
		{PhaseGrowth, 0, 0.3},
		{PhaseGrowth, 1, 0.7},
		{PhaseBubble, 0, 0.7},
		{PhaseBubble, 1, 1.0},
		{PhasePeak, 0.5, 1.0},
		{PhaseCrash, 0, 1.0},
		{PhaseCrash, 1, 0.3},
		{PhaseRecovery, 0, 0.3},
		{PhaseRecovery, 1, 0.5},
	}

	for _, tt := range tests {
		got := intensityFor(tt.phase, tt.progress)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("intensity(%s, %.1f) = %f, want %f", tt.phase, tt.progress, got, tt.want)
		}
	}
}

func TestCycleResumeClampsState(t *testing.T) {
	c := NewCycle(DefaultConfig())
	c.Resume(CycleState{Phase: PhaseCrash, Progress: 1.7, Duration: -3, TotalCycles: 2})

	state := c.State()
	if state.Phase != PhaseCrash {
		t.Errorf("expected crash, got %s", state.Phase)
	}
	if state.Progress != 1 {
		t.Errorf("expected progress clamped to 1, got %f", state.Progress)
	}
	if state.Duration != 0 {
		t.Errorf("expected duration clamped to 0, got %d", state.Duration)
	}
	if state.TotalCycles != 2 {
		t.Errorf("expected cycles preserved, got %d", state.TotalCycles)
	}
}

func TestPhaseNextWraps(t *testing.T) {
	if PhaseRecovery.Next() != PhaseGrowth {
		t.Error("recovery should wrap to growth")
	}
	if PhaseGrowth.Next() != PhaseBubble {
		t.Error("growth should advance to bubble")
	}
}
