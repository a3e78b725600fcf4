package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_Advance(t *testing.T) {
	var c Clock
	c.Advance(0.5)
	c.Advance(-1)
	c.Advance(math.NaN())
	c.Advance(math.Inf(1))
	c.Advance(0.25)
	assert.Equal(t, 0.75, c.Elapsed())
}

func TestDeriveUniforms(t *testing.T) {
	u := DeriveUniforms(0, 0, DefaultColor, DefaultOpacity)
	assert.Equal(t, float32(1), u.ExpansionFactor())
	assert.Equal(t, float32(15), u.Size)
	assert.Equal(t, float32(0), u.RotationAngle())

	u = DeriveUniforms(math.Pi/4, 1, DefaultColor, DefaultOpacity)
	assert.Equal(t, float32(6), u.ExpansionFactor())
	assert.InDelta(t, 20, u.Size, 1e-5)
	assert.InDelta(t, 0.15*math.Pi/4, u.RotationAngle(), 1e-6)

	// expansion is kept in range even if the caller passes garbage
	u = DeriveUniforms(1, 3, DefaultColor, DefaultOpacity)
	assert.Equal(t, float32(6), u.ExpansionFactor())
}

func TestJitter(t *testing.T) {
	assert.Equal(t, float32(0), Jitter(0, 0))
	assert.InDelta(t, 0.2*math.Sin(0.5), Jitter(0, 1), 1e-6)
	assert.InDelta(t, 0.2*math.Sin(2*1.5+0.5*4), Jitter(1.5, 4), 1e-6)
	for _, d := range []float32{0, 1, 3, 10} {
		assert.LessOrEqual(t, math.Abs(float64(Jitter(2.7, d))), 0.2+1e-6)
	}
}

func TestPulseSizeStaysPositive(t *testing.T) {
	for i := 0; i < 1000; i++ {
		s := PulseSize(float32(i) * 0.037)
		assert.True(t, s >= 10-1e-4 && s <= 20+1e-4, "size %f", s)
	}
}

func TestUniforms_Stillness(t *testing.T) {
	u := DeriveUniforms(8, 0, DefaultColor, DefaultOpacity)
	assert.Equal(t, RotationAngle(8), u.RotationAngle())
	assert.Equal(t, Jitter(8, 2), u.Jitter(2))

	u.Stillness = 0.5
	assert.InDelta(t, RotationAngle(4), u.RotationAngle(), 1e-6)
	assert.InDelta(t, 0.5*Jitter(4, 2), u.Jitter(2), 1e-6)

	// out of range values clamp
	u.Stillness = 3
	assert.Zero(t, u.RotationAngle())
	assert.Zero(t, u.Jitter(2))
	u.Stillness = -1
	assert.Equal(t, RotationAngle(8), u.RotationAngle())
}
