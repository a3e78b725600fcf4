package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultOpacity = 0.8

	expansionRange = 5.0
	pulseBase      = 15.0
	pulseAmplitude = 5.0
	pulseRate      = 2.0
	jitterAmount   = 0.2
	jitterRate     = 2.0
	jitterPhase    = 0.5
	rotationRate   = 0.15
)

// Uniforms is everything the point shader needs for one frame.
type Uniforms struct {
	Time      float32
	Expansion float32 // smoothed openness in [0,1]
	Size      float32 // pulsing base point size
	Color     Color
	Opacity   float32
	// Stillness slows a layer's jitter and spin: 0 moves like the main
	// field, 1 holds it fixed.
	Stillness float32
}

// DeriveUniforms computes the per-frame uniforms from the clock and smoother state.
func DeriveUniforms(elapsed float64, smoothed float32, color Color, opacity float32) Uniforms {
	t := float32(elapsed)
	return Uniforms{
		Time:      t,
		Expansion: mgl32.Clamp(smoothed, 0, 1),
		Size:      PulseSize(t),
		Color:     color,
		Opacity:   opacity,
	}
}

// ExpansionFactor maps smoothed openness [0,1] onto a scale of [1,6].
func (u Uniforms) ExpansionFactor() float32 {
	return 1 + u.Expansion*expansionRange
}

func (u Uniforms) Jitter(dist float32) float32 {
	m := u.motion()
	return m * Jitter(u.Time*m, dist)
}

func (u Uniforms) RotationAngle() float32 {
	return RotationAngle(u.Time * u.motion())
}

func (u Uniforms) motion() float32 {
	return 1 - mgl32.Clamp(u.Stillness, 0, 1)
}

func PulseSize(t float32) float32 {
	return pulseBase + pulseAmplitude*math32.Sin(pulseRate*t)
}

// Jitter is the radial vibration offset for a point at distance dist from the
// origin. The phase follows the distance, so shells move together.
func Jitter(t, dist float32) float32 {
	return jitterAmount * math32.Sin(jitterRate*t+jitterPhase*dist)
}

func RotationAngle(t float32) float32 {
	return rotationRate * t
}
