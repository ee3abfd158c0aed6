package core

// Animation frame ranges per status clip. The asset pipeline bakes these;
// the engine only consumes frame indices.
const (
	ClipFrames = 8
	ClipFPS    = 8.0

	// Celebrate plays three loops, error plays one, then both revert to
	// idle on their own. Everything else loops until told otherwise.
	celebrateLoops = 3
	errorLoops     = 1
)

// Animator is the unit-level animation state machine. Transitions are driven
// externally through Start, except that celebrating and error clips are
// self-terminating: after their loop count they revert to the idle clip.
// Advance is dt-driven so the machine is testable without a real clock.
type Animator struct {
	Clip  UnitStatus
	Frame int

	timer float64
	loops int

	// Reverted is set for one Advance call when a self-terminating clip
	// finished; the scene uses it to fold the revert back into unit status.
	Reverted bool
}

// NewAnimator returns an animator on the idle clip.
func NewAnimator() Animator {
	return Animator{Clip: UnitIdle}
}

// Start switches to the clip for a status and rewinds it.
func (a *Animator) Start(s UnitStatus) {
	a.Clip = s
	a.Frame = 0
	a.timer = 0
	a.loops = 0
	a.Reverted = false
}

// Advance progresses the clip by dt seconds.
func (a *Animator) Advance(dt float64) {
	a.Reverted = false
	a.timer += dt
	frameDur := 1.0 / ClipFPS
	for a.timer >= frameDur {
		a.timer -= frameDur
		a.Frame++
		if a.Frame < ClipFrames {
			continue
		}
		a.Frame = 0
		a.loops++
		if limit, terminal := loopLimit(a.Clip); terminal && a.loops >= limit {
			a.Clip = UnitIdle
			a.loops = 0
			a.Reverted = true
		}
	}
}

func loopLimit(s UnitStatus) (int, bool) {
	switch s {
	case UnitCelebrating:
		return celebrateLoops, true
	case UnitError:
		return errorLoops, true
	}
	return 0, false
}
