package core

import "math"

// Clock accumulates elapsed animation time in seconds.
type Clock struct {
	elapsed float64
}

// Advance adds dt seconds. Negative, NaN or infinite deltas are ignored so
// elapsed time never runs backwards.
func (c *Clock) Advance(dt float64) float64 {
	if dt > 0 && !math.IsInf(dt, 1) {
		c.elapsed += dt
	}
	return c.elapsed
}

func (c *Clock) Elapsed() float64 {
	return c.elapsed
}
