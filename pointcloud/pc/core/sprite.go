package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CPU mirror of points.wgsl. Keep the two in sync.

const (
	// MinViewDepth is the closest view-space depth a point may have. Anything
	// nearer, or behind the camera, is not drawn.
	MinViewDepth = 1e-3
	// MaxPointSize caps sprite size in pixels.
	MaxPointSize = 256.0

	sizeAttenuation = 20.0
	glowRadius      = 0.5
	glowFalloff     = 1.5
	hotCenterMix    = 0.5
)

// TransformPoint applies expansion, radial jitter and the compound rotation
// to a resting position.
func TransformPoint(p mgl32.Vec3, u Uniforms) mgl32.Vec3 {
	dist := p.Len()
	var dir mgl32.Vec3
	if dist > 0 {
		dir = p.Mul(1 / dist)
	}
	final := p.Mul(u.ExpansionFactor()).Add(dir.Mul(u.Jitter(dist)))
	return RotateCompound(final, u.RotationAngle())
}

// RotateCompound rotates in the xz plane and then in the xy plane by the same
// angle. The order matters.
func RotateCompound(p mgl32.Vec3, angle float32) mgl32.Vec3 {
	s, c := math32.Sin(angle), math32.Cos(angle)
	x, y, z := p[0], p[1], p[2]

	x, z = c*x+s*z, -s*x+c*z
	x, y = c*x+s*y, -s*x+c*y

	return mgl32.Vec3{x, y, z}
}

// Sprite is a projected point in pixel coordinates (origin top-left).
type Sprite struct {
	X, Y  float32
	Size  float32
	Depth float32 // view-space distance in front of the camera
}

// ProjectSprite projects a transformed world position. It reports false for
// points behind or too close to the camera, or beyond the far plane.
func ProjectSprite(world mgl32.Vec3, baseSize float32, view, proj mgl32.Mat4, width, height int) (Sprite, bool) {
	mv := view.Mul4x1(world.Vec4(1))
	depth := -mv.Z()
	if depth < MinViewDepth {
		return Sprite{}, false
	}
	clip := proj.Mul4x1(mv)
	if clip.W() <= 0 {
		return Sprite{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() > 1 {
		return Sprite{}, false
	}

	size := baseSize * (sizeAttenuation / depth)
	size = mgl32.Clamp(size, 1, MaxPointSize)

	return Sprite{
		X:     (ndc.X()*0.5 + 0.5) * float32(width),
		Y:     (1 - (ndc.Y()*0.5 + 0.5)) * float32(height),
		Size:  size,
		Depth: depth,
	}, true
}

// ShadeFragment returns the color and alpha of a sprite fragment at distance r
// from the sprite center (sprite UV space, edge at 0.5). ok is false when the
// fragment is discarded.
func ShadeFragment(r float32, u Uniforms) (rgb [3]float32, alpha float32, ok bool) {
	if r > glowRadius || math32.IsNaN(r) {
		return rgb, 0, false
	}
	strength := GlowStrength(r)
	t := strength * hotCenterMix
	base := u.Color.Array()
	for i := range rgb {
		rgb[i] = base[i] + (1-base[i])*t
	}
	return rgb, u.Opacity * strength, true
}

// GlowStrength is (1 - 2r)^1.5 for r in [0, 0.5], zero outside.
func GlowStrength(r float32) float32 {
	v := 1 - 2*r
	if v <= 0 {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return math32.Pow(v, glowFalloff)
}
