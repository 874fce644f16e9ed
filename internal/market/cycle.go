package market

// Cycle is the market-cycle state machine. It is deterministic and
// has no goroutines, channels, or time calls; the engine drives it
// one Advance per tick.
type Cycle struct {
	cfg   Config
	state CycleState
}

// AdvanceReport describes what a single cycle tick did.
type AdvanceReport struct {
	PhaseChanged   bool
	OldPhase       Phase
	NewPhase       Phase
	CycleCompleted bool
}

// NewCycle creates a cycle in the growth phase.
func NewCycle(cfg Config) *Cycle {
	c := &Cycle{cfg: cfg}
	c.state.Phase = PhaseGrowth
	c.state.Intensity = intensityFor(PhaseGrowth, 0)
	return c
}

// Resume restores a persisted cycle state, clamping out-of-range values.
func (c *Cycle) Resume(state CycleState) {
	if state.Phase >= numPhases {
		state.Phase = PhaseGrowth
	}
	state.Progress = clamp01(state.Progress)
	if state.Duration < 0 {
		state.Duration = 0
	}
	if state.TotalCycles < 0 {
		state.TotalCycles = 0
	}
	state.Intensity = intensityFor(state.Phase, state.Progress)
	c.state = state
}

// State returns the current cycle state.
func (c *Cycle) State() CycleState {
	return c.state
}

// Phase returns the current phase.
func (c *Cycle) Phase() Phase {
	return c.state.Phase
}

// Progress returns the progress through the current phase in [0, 1].
func (c *Cycle) Progress() float64 {
	return c.state.Progress
}

// Advance moves the cycle one tick forward, transitioning to the next
// phase when the current one completes. Completing recovery increments
// the total-cycle counter.
func (c *Cycle) Advance() AdvanceReport {
	rep := AdvanceReport{OldPhase: c.state.Phase, NewPhase: c.state.Phase}

	c.state.Duration++
	total := c.cfg.PhaseDurations[c.state.Phase]
	if total <= 0 {
		total = 1
	}
	c.state.Progress = clamp01(float64(c.state.Duration) / float64(total))

	if c.state.Progress >= 1 {
		next := c.state.Phase.Next()
		if c.state.Phase == PhaseRecovery {
			c.state.TotalCycles++
			rep.CycleCompleted = true
		}
		c.state.Phase = next
		c.state.Progress = 0
		c.state.Duration = 0
		rep.PhaseChanged = true
		rep.NewPhase = next
	}

	c.state.Intensity = intensityFor(c.state.Phase, c.state.Progress)
	return rep
}

// ForcePhase jumps the cycle to a phase, resetting phase progress.
// Used by the forced crash and early-recovery transitions.
func (c *Cycle) ForcePhase(p Phase) AdvanceReport {
	rep := AdvanceReport{
		PhaseChanged: p != c.state.Phase,
		OldPhase:     c.state.Phase,
		NewPhase:     p,
	}
	c.state.Phase = p
	c.state.Progress = 0
	c.state.Duration = 0
	c.state.Intensity = intensityFor(p, 0)
	return rep
}

// intensityFor maps (phase, progress) to cycle intensity. Ramps are
// continuous at phase boundaries: growth 0.3->0.7, bubble 0.7->1.0,
// peak flat 1.0, crash 1.0->0.3, recovery 0.3->0.5.
func intensityFor(p Phase, progress float64) float64 {
	switch p {
	case PhaseGrowth:
		return 0.3 + progress*0.4
	case PhaseBubble:
		return 0.7 + progress*0.3
	case PhasePeak:
		return 1.0
	case PhaseCrash:
		return 1.0 - progress*0.7
	case PhaseRecovery:
		return 0.3 + progress*0.2
	default:
		return 0.5
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
