package zenparticles

import (
	"sync/atomic"

	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
)

// Palette is the color cycle bound to the palette hotkey.
var Palette = []string{"#00aaff", "#ff3366", "#ffaa00", "#66ff99", "#aa66ff", "#ffffff"}

const noShape = -1

// Controls carries shape and color requests from the gesture boundary, the
// config watcher and the keyboard into the frame loop. Each slot holds only
// the latest request; the frame loop takes and clears it.
type Controls struct {
	shape atomic.Int64
	color atomic.Pointer[core.Color]
	zoom  atomic.Pointer[float32]
	orbit atomic.Pointer[[2]float32]
}

func NewControls() *Controls {
	c := &Controls{}
	c.shape.Store(noShape)
	return c
}

func (c *Controls) RequestShape(s core.Shape) error {
	if !s.Valid() {
		return core.ErrUnknownShape
	}
	c.shape.Store(int64(s))
	return nil
}

func (c *Controls) RequestShapeName(name string) error {
	s, err := core.ParseShape(name)
	if err != nil {
		return err
	}
	return c.RequestShape(s)
}

func (c *Controls) RequestColor(col core.Color) {
	c.color.Store(&col)
}

func (c *Controls) RequestColorHex(s string) error {
	col, err := core.ParseColor(s)
	if err != nil {
		return err
	}
	c.RequestColor(col)
	return nil
}

// RequestZoom multiplies the camera distance by factor on the next frame.
// Requests made within one frame compound.
func (c *Controls) RequestZoom(factor float32) {
	for {
		old := c.zoom.Load()
		next := factor
		if old != nil {
			next *= *old
		}
		if c.zoom.CompareAndSwap(old, &next) {
			return
		}
	}
}

// RequestOrbit turns the camera by dAz and tilts it by dEl radians on the
// next frame. Requests made within one frame add up.
func (c *Controls) RequestOrbit(dAz, dEl float32) {
	for {
		old := c.orbit.Load()
		next := [2]float32{dAz, dEl}
		if old != nil {
			next[0] += old[0]
			next[1] += old[1]
		}
		if c.orbit.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (c *Controls) TakeShape() (core.Shape, bool) {
	v := c.shape.Swap(noShape)
	if v == noShape {
		return 0, false
	}
	return core.Shape(v), true
}

func (c *Controls) TakeColor() (core.Color, bool) {
	p := c.color.Swap(nil)
	if p == nil {
		return core.Color{}, false
	}
	return *p, true
}

func (c *Controls) TakeZoom() (float32, bool) {
	p := c.zoom.Swap(nil)
	if p == nil {
		return 1, false
	}
	return *p, true
}

func (c *Controls) TakeOrbit() (dAz, dEl float32, ok bool) {
	p := c.orbit.Swap(nil)
	if p == nil {
		return 0, 0, false
	}
	return p[0], p[1], true
}
