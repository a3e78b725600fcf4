package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxElevation keeps the orbit just short of the poles, where the up vector
// would flip.
const MaxElevation = math.Pi/2 - 1e-3

// Camera orbits a target on a Y-up sphere with a slow automatic spin and
// clamped zoom. There is no panning.
type Camera struct {
	Target    mgl32.Vec3
	Distance  float32
	Azimuth   float32 // radians around +Y, 0 looks down -Z from +Z
	Elevation float32 // radians above the XZ plane

	FovDegrees float32
	Near       float32
	Far        float32

	AutoRotate      bool
	AutoRotateSpeed float32

	MinDistance float32
	MaxDistance float32
}

func NewCamera() *Camera {
	return &Camera{
		Distance:        12,
		FovDegrees:      60,
		Near:            0.1,
		Far:             1000,
		AutoRotate:      true,
		AutoRotateSpeed: 0.5,
		MinDistance:     2,
		MaxDistance:     30,
	}
}

func (c *Camera) Position() mgl32.Vec3 {
	cosEl := float32(math.Cos(float64(c.Elevation)))
	offset := mgl32.Vec3{
		c.Distance * cosEl * float32(math.Sin(float64(c.Azimuth))),
		c.Distance * float32(math.Sin(float64(c.Elevation))),
		c.Distance * cosEl * float32(math.Cos(float64(c.Azimuth))),
	}
	return c.Target.Add(offset)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovDegrees), aspect, c.Near, c.Far)
}

// Update spins the camera when auto-rotate is on. A speed of 1 is one full
// orbit per minute.
func (c *Camera) Update(dt float64) {
	if !c.AutoRotate || dt <= 0 {
		return
	}
	step := 2 * math.Pi / 60 * float64(c.AutoRotateSpeed) * dt
	c.Azimuth = float32(math.Mod(float64(c.Azimuth)+step, 2*math.Pi))
}

// Zoom multiplies the orbit distance by factor, clamped to [MinDistance, MaxDistance].
func (c *Camera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	d := c.Distance * factor
	if c.MinDistance > 0 && d < c.MinDistance {
		d = c.MinDistance
	}
	if c.MaxDistance > 0 && d > c.MaxDistance {
		d = c.MaxDistance
	}
	c.Distance = d
}

// Orbit turns the camera by dAz around the target and tilts it by dEl,
// clamping the tilt to MaxElevation either way.
func (c *Camera) Orbit(dAz, dEl float32) {
	az := math.Mod(float64(c.Azimuth+dAz), 2*math.Pi)
	if az < 0 {
		az += 2 * math.Pi
	}
	c.Azimuth = float32(az)
	c.Elevation = mgl32.Clamp(c.Elevation+dEl, -MaxElevation, MaxElevation)
}
