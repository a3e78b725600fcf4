package core

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ShapeAmbient tags fields that decorate the scene instead of showing a
// selectable shape.
const ShapeAmbient Shape = -1

// Backdrop and sparkle parameters.
const (
	StarCount   = 5000
	StarRadius  = 100.0
	StarDepth   = 50.0
	StarSize    = 15.0
	StarOpacity = 0.9

	SparkleCount   = 500
	SparkleScale   = 20.0
	SparkleSize    = 2.0
	SparkleOpacity = 0.5
	SparkleSpeed   = 0.4
)

var starColor = Color{R: 1, G: 1, B: 1}

// Layer is a field drawn with its own uniforms.
type Layer struct {
	Field    *Field
	Uniforms Uniforms
}

// GenerateStars scatters count points uniformly over directions, at radii
// between radius and radius+depth.
func GenerateStars(rng Rand, count int, radius, depth float32) (*Field, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if rng == nil {
		rng = globalRand{}
	}
	positions := make([]mgl32.Vec3, count)
	for i := range positions {
		r := radius + depth*rng.Float32()
		theta := 2 * math32.Pi * rng.Float32()
		phi := unitAcos(2*rng.Float32() - 1)
		positions[i] = sphericalToCartesian(r, theta, phi)
	}
	return newField(ShapeAmbient, positions), nil
}

// GenerateSparkles fills a cube of edge scale centered on the origin.
func GenerateSparkles(rng Rand, count int, scale float32) (*Field, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if rng == nil {
		rng = globalRand{}
	}
	half := scale / 2
	positions := make([]mgl32.Vec3, count)
	for i := range positions {
		positions[i] = mgl32.Vec3{
			uniform(rng, -half, half),
			uniform(rng, -half, half),
			uniform(rng, -half, half),
		}
	}
	return newField(ShapeAmbient, positions), nil
}

// StarUniforms draws the backdrop white and motionless; only the camera orbit
// moves it.
func StarUniforms(elapsed float64) Uniforms {
	return Uniforms{
		Time:      float32(elapsed),
		Size:      StarSize,
		Color:     starColor,
		Opacity:   StarOpacity,
		Stillness: 1,
	}
}

// SparkleUniforms follows the particle color and drifts at SparkleSpeed.
func SparkleUniforms(elapsed float64, color Color) Uniforms {
	return Uniforms{
		Time:      float32(elapsed),
		Size:      SparkleSize,
		Color:     color,
		Opacity:   SparkleOpacity,
		Stillness: 1 - SparkleSpeed,
	}
}
