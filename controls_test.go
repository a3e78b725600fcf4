package zenparticles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
)

func TestControls_ShapeSlotKeepsLatest(t *testing.T) {
	c := NewControls()
	_, ok := c.TakeShape()
	assert.False(t, ok)

	require.NoError(t, c.RequestShape(core.ShapeSaturn))
	require.NoError(t, c.RequestShapeName("spiral"))

	s, ok := c.TakeShape()
	assert.True(t, ok)
	assert.Equal(t, core.ShapeSpiral, s)

	_, ok = c.TakeShape()
	assert.False(t, ok, "take clears the slot")
}

func TestControls_RejectsInvalid(t *testing.T) {
	c := NewControls()
	assert.ErrorIs(t, c.RequestShape(core.Shape(42)), core.ErrUnknownShape)
	assert.ErrorIs(t, c.RequestShapeName("cube"), core.ErrUnknownShape)
	assert.ErrorIs(t, c.RequestColorHex("#12"), core.ErrInvalidColor)

	_, ok := c.TakeShape()
	assert.False(t, ok)
	_, ok = c.TakeColor()
	assert.False(t, ok)
}

func TestControls_Color(t *testing.T) {
	c := NewControls()
	require.NoError(t, c.RequestColorHex("#ff0000"))
	col, ok := c.TakeColor()
	require.True(t, ok)
	assert.Equal(t, core.Color{R: 1}, col)
}

func TestControls_ZoomCompounds(t *testing.T) {
	c := NewControls()
	f, ok := c.TakeZoom()
	assert.False(t, ok)
	assert.Equal(t, float32(1), f)

	c.RequestZoom(2)
	c.RequestZoom(0.25)
	f, ok = c.TakeZoom()
	assert.True(t, ok)
	assert.InDelta(t, 0.5, f, 1e-6)
}

func TestApplyHotkeys(t *testing.T) {
	c := NewControls()
	in := &Input{}

	in.JustPressed[Key3] = true
	applyHotkeys(in, c)
	s, ok := c.TakeShape()
	require.True(t, ok)
	assert.Equal(t, core.ShapeSaturn, s)

	in = &Input{}
	in.JustPressed[KeyC] = true
	applyHotkeys(in, c)
	applyHotkeys(in, c)
	col, ok := c.TakeColor()
	require.True(t, ok)
	assert.Equal(t, core.MustParseColor(Palette[2]), col)

	in = &Input{ScrollY: -1}
	in.JustPressed[KeyMinus] = true
	applyHotkeys(in, c)
	f, ok := c.TakeZoom()
	require.True(t, ok)
	assert.InDelta(t, zoomStep*zoomStep, f, 1e-5)
}

func TestControls_OrbitAccumulates(t *testing.T) {
	c := NewControls()
	_, _, ok := c.TakeOrbit()
	assert.False(t, ok)

	c.RequestOrbit(0.5, -0.25)
	c.RequestOrbit(0.25, 0.5)
	dAz, dEl, ok := c.TakeOrbit()
	require.True(t, ok)
	assert.InDelta(t, 0.75, dAz, 1e-6)
	assert.InDelta(t, 0.25, dEl, 1e-6)

	_, _, ok = c.TakeOrbit()
	assert.False(t, ok)
}

func TestApplyHotkeys_Drag(t *testing.T) {
	c := NewControls()

	// dragging right by the window height spins the camera a full turn back
	applyHotkeys(&Input{DragX: 300, WindowHeight: 300}, c)
	dAz, dEl, ok := c.TakeOrbit()
	require.True(t, ok)
	assert.InDelta(t, -2*math.Pi, dAz, 1e-5)
	assert.Zero(t, dEl)

	// dragging down tilts the camera up
	applyHotkeys(&Input{DragY: 30, WindowHeight: 300}, c)
	_, dEl, ok = c.TakeOrbit()
	require.True(t, ok)
	assert.InDelta(t, 2*math.Pi/10, dEl, 1e-5)

	// no window height yet, nothing to scale by
	applyHotkeys(&Input{DragX: 10}, c)
	_, _, ok = c.TakeOrbit()
	assert.False(t, ok)
}
