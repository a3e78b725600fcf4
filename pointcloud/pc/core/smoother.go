package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SmoothingFactor is the per-frame blend toward the raw signal.
const SmoothingFactor = 0.1

// Smoother low-pass filters the raw openness signal. The blend is applied once
// per rendered frame, not per unit of time.
type Smoother struct {
	value float32
}

// Update blends raw into the smoothed value and returns the result. Raw values
// outside [0,1] are clamped; NaN leaves the value unchanged.
func (s *Smoother) Update(raw float32) float32 {
	if math32.IsNaN(raw) {
		return s.value
	}
	raw = mgl32.Clamp(raw, 0, 1)
	s.value += SmoothingFactor * (raw - s.value)
	return s.value
}

func (s *Smoother) Value() float32 {
	return s.value
}

func (s *Smoother) Reset() {
	s.value = 0
}
