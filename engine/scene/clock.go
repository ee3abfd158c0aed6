package scene

import "time"

// Clock runs the scene at a fixed timestep regardless of render frame rate.
// The frame loop drives animation only; game-logic ticks are fixed-step so
// movement speed is frame-rate independent.
type Clock struct {
	TickRate    float64 // ticks per second
	accumulator float64
	lastTime    time.Time
	started     bool
}

// NewClock creates a clock at the given tick rate.
func NewClock(tickRate float64) *Clock {
	return &Clock{TickRate: tickRate}
}

// Step should be called every render frame. It invokes tick with a fixed dt
// zero or more times and returns the interpolation alpha for rendering.
func (c *Clock) Step(tick func(dt float64)) float64 {
	now := time.Now()
	if !c.started {
		c.lastTime = now
		c.started = true
	}
	frameTime := now.Sub(c.lastTime).Seconds()
	c.lastTime = now

	// Cap frame time to avoid spiral of death.
	if frameTime > 0.25 {
		frameTime = 0.25
	}

	dt := 1.0 / c.TickRate
	c.accumulator += frameTime
	for c.accumulator >= dt {
		tick(dt)
		c.accumulator -= dt
	}
	return c.accumulator / dt
}
