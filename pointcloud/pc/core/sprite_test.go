package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecInDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "axis %d: want %v got %v", i, want, got)
	}
}

func TestRotateCompound_PlaneOrder(t *testing.T) {
	angle := float32(math.Pi / 2)
	assertVecInDelta(t, mgl32.Vec3{0, 0, -1}, RotateCompound(mgl32.Vec3{1, 0, 0}, angle), 1e-6)
	assertVecInDelta(t, mgl32.Vec3{1, 0, 0}, RotateCompound(mgl32.Vec3{0, 1, 0}, angle), 1e-6)
	assertVecInDelta(t, mgl32.Vec3{0, -1, 0}, RotateCompound(mgl32.Vec3{0, 0, 1}, angle), 1e-6)

	p := mgl32.Vec3{1.5, -2, 0.25}
	assert.InDelta(t, p.Len(), RotateCompound(p, 0.7).Len(), 1e-5)
	assert.Equal(t, p, RotateCompound(p, 0))
}

func TestTransformPoint(t *testing.T) {
	u := DeriveUniforms(0, 0, DefaultColor, DefaultOpacity)

	got := TransformPoint(mgl32.Vec3{1, 0, 0}, u)
	assertVecInDelta(t, mgl32.Vec3{1 + 0.2*float32(math.Sin(0.5)), 0, 0}, got, 1e-6)

	// origin has no direction, so it must stay put rather than go NaN
	assert.Equal(t, mgl32.Vec3{}, TransformPoint(mgl32.Vec3{}, u))

	u = DeriveUniforms(0, 1, DefaultColor, DefaultOpacity)
	got = TransformPoint(mgl32.Vec3{0, 2, 0}, u)
	assertVecInDelta(t, mgl32.Vec3{0, 12 + 0.2*float32(math.Sin(1)), 0}, got, 1e-5)
}

func TestProjectSprite(t *testing.T) {
	cam := NewCamera()
	cam.AutoRotate = false
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(1)

	sp, ok := ProjectSprite(mgl32.Vec3{}, 15, view, proj, 200, 200)
	require.True(t, ok)
	assert.InDelta(t, 100, sp.X, 1e-3)
	assert.InDelta(t, 100, sp.Y, 1e-3)
	assert.InDelta(t, 12, sp.Depth, 1e-4)
	assert.InDelta(t, 15*20.0/12.0, sp.Size, 1e-4)

	// nearer points are bigger
	near, ok := ProjectSprite(mgl32.Vec3{0, 0, 6}, 15, view, proj, 200, 200)
	require.True(t, ok)
	assert.Greater(t, near.Size, sp.Size)

	// +y is up on screen
	up, ok := ProjectSprite(mgl32.Vec3{0, 1, 0}, 15, view, proj, 200, 200)
	require.True(t, ok)
	assert.Less(t, up.Y, sp.Y)

	_, ok = ProjectSprite(mgl32.Vec3{0, 0, 12}, 15, view, proj, 200, 200)
	assert.False(t, ok, "point at the camera must not render")
	_, ok = ProjectSprite(mgl32.Vec3{0, 0, 20}, 15, view, proj, 200, 200)
	assert.False(t, ok, "point behind the camera must not render")
}

func TestShadeFragment(t *testing.T) {
	u := DeriveUniforms(0, 0, Color{R: 0, G: 0.5, B: 1}, DefaultOpacity)

	rgb, alpha, ok := ShadeFragment(0, u)
	require.True(t, ok)
	assert.InDelta(t, 0.5, rgb[0], 1e-6)
	assert.InDelta(t, 0.75, rgb[1], 1e-6)
	assert.InDelta(t, 1, rgb[2], 1e-6)
	assert.InDelta(t, 0.8, alpha, 1e-6)

	rgb, alpha, ok = ShadeFragment(0.25, u)
	require.True(t, ok)
	strength := math.Pow(0.5, 1.5)
	assert.InDelta(t, 0.8*strength, alpha, 1e-6)
	assert.InDelta(t, 0.5*strength, rgb[0], 1e-6)

	_, alpha, ok = ShadeFragment(0.5, u)
	assert.True(t, ok)
	assert.Equal(t, float32(0), alpha)

	_, _, ok = ShadeFragment(0.51, u)
	assert.False(t, ok)
	_, _, ok = ShadeFragment(float32(math.NaN()), u)
	assert.False(t, ok)
}
