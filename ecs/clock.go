package ecs

import "time"

// Clock tracks frame count and delta time for a running World. It never
// reads the system clock itself; callers advance it explicitly with Tick,
// which keeps frame timing deterministic for tests and for the headless
// stress driver alike.
type Clock struct {
	frame     uint64
	deltaTime float64
	elapsed   float64
}

// NewClock creates a Clock at frame zero.
func NewClock() *Clock {
	return &Clock{}
}

// Tick advances the clock by one frame with the given delta time in
// seconds.
func (c *Clock) Tick(dt time.Duration) {
	c.frame++
	c.deltaTime = dt.Seconds()
	c.elapsed += c.deltaTime
}

// Frame returns the current frame number, starting at zero before the
// first Tick.
func (c *Clock) Frame() uint64 {
	return c.frame
}

// DeltaTime returns the delta time in seconds passed to the most recent
// Tick.
func (c *Clock) DeltaTime() float64 {
	return c.deltaTime
}

// Elapsed returns the total simulated time in seconds across all ticks.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}
