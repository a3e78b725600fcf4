package core

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCount is the number of points in a field unless configured otherwise.
const DefaultCount = 3000

var ErrInvalidCount = errors.New("point count must be positive")

// Rand is the random source used by the generators. *rand.Rand satisfies it,
// so tests can pass a seeded source for reproducible fields.
type Rand interface {
	Float32() float32
}

type globalRand struct{}

func (globalRand) Float32() float32 { return rand.Float32() }

// Generate builds a new field for shape using the process-wide random source.
// Two calls with the same arguments produce statistically identical but
// different clouds.
func Generate(shape Shape, count int) (*Field, error) {
	return GenerateWith(globalRand{}, shape, count)
}

// GenerateWith is Generate with an explicit random source.
func GenerateWith(rng Rand, shape Shape, count int) (*Field, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(shape))
	}
	if rng == nil {
		rng = globalRand{}
	}

	positions := make([]mgl32.Vec3, count)
	for i := range positions {
		switch shape {
		case ShapeHeart:
			positions[i] = heartPoint(rng)
		case ShapeFlower:
			positions[i] = flowerPoint(rng)
		case ShapeSaturn:
			positions[i] = saturnPoint(rng)
		case ShapeZen:
			positions[i] = zenPoint(rng)
		case ShapeFireworks:
			positions[i] = fireworksPoint(rng)
		case ShapeSpiral:
			positions[i] = spiralPoint(rng, i)
		}
	}
	return newField(shape, positions), nil
}

func uniform(rng Rand, lo, hi float32) float32 {
	return lo + (hi-lo)*rng.Float32()
}

// unitAcos clamps into acos' domain so float error never yields NaN.
func unitAcos(v float32) float32 {
	return math32.Acos(mgl32.Clamp(v, -1, 1))
}

func heartPoint(rng Rand) mgl32.Vec3 {
	t := rng.Float32() * 2 * math32.Pi
	// r^0.3 pushes mass out toward the curve
	r := math32.Pow(rng.Float32(), 0.3)

	s := math32.Sin(t)
	x := 16 * s * s * s
	y := 13*math32.Cos(t) - 5*math32.Cos(2*t) - 2*math32.Cos(3*t) - math32.Cos(4*t)
	z := uniform(rng, -2.5, 2.5)

	return mgl32.Vec3{x * 0.1 * r, y * 0.1 * r, z * r}
}

func flowerPoint(rng Rand) mgl32.Vec3 {
	const petals = 4
	theta := rng.Float32() * 2 * math32.Pi
	phi := rng.Float32() * math32.Pi
	r := math32.Cos(petals*theta) + 2
	depth := rng.Float32() * 2

	sinPhi := math32.Sin(phi)
	return mgl32.Vec3{
		r * math32.Cos(theta) * sinPhi * depth,
		r * math32.Sin(theta) * sinPhi * depth,
		r * math32.Cos(phi) * depth * 0.5,
	}
}

const (
	saturnRingShare  = 0.6
	saturnBodyRadius = 1.5
)

func saturnPoint(rng Rand) mgl32.Vec3 {
	if rng.Float32() < saturnRingShare {
		angle := rng.Float32() * 2 * math32.Pi
		radius := uniform(rng, 3, 5)
		return mgl32.Vec3{
			math32.Cos(angle) * radius,
			uniform(rng, -0.1, 0.1),
			math32.Sin(angle) * radius,
		}
	}
	theta := 2 * math32.Pi * rng.Float32()
	phi := unitAcos(2*rng.Float32() - 1)
	return sphericalToCartesian(saturnBodyRadius, theta, phi)
}

func zenPoint(rng Rand) mgl32.Vec3 {
	r := rng.Float32()
	theta := rng.Float32() * 2 * math32.Pi
	section := rng.Float32()
	cosT, sinT := math32.Cos(theta), math32.Sin(theta)

	switch {
	case section < 0.4:
		// crossed legs: wide, flattened in z
		rad := 2.5 * math32.Sqrt(r)
		return mgl32.Vec3{rad * cosT, uniform(rng, -2, -1), rad * sinT * 0.6}
	case section < 0.8:
		// torso tapers to zero width at the shoulders
		rad := 1.5 * math32.Sqrt(r) * (1 - (section-0.4)*2)
		return mgl32.Vec3{rad * cosT, -1 + (section-0.4)*5, rad * sinT}
	default:
		rad := 0.6 * math32.Sqrt(r)
		return mgl32.Vec3{rad * cosT, uniform(rng, 1.2, 2.0), rad * sinT}
	}
}

const fireworksRadius = 3

func fireworksPoint(rng Rand) mgl32.Vec3 {
	theta := rng.Float32() * 2 * math32.Pi
	phi := unitAcos(rng.Float32()*2 - 1)
	// cube root keeps the density uniform over the volume
	r := math32.Pow(rng.Float32(), 1.0/3.0) * fireworksRadius
	return sphericalToCartesian(r, theta, phi)
}

// spiralPoint is positioned by index; y is the only random component.
// Evaluated in float64 so large indices keep their precision.
func spiralPoint(rng Rand, i int) mgl32.Vec3 {
	angle := float64(i) * 0.1
	radius := angle * 0.02
	return mgl32.Vec3{
		float32(radius * math.Cos(angle)),
		uniform(rng, -1, 1),
		float32(radius * math.Sin(angle)),
	}
}

func sphericalToCartesian(r, theta, phi float32) mgl32.Vec3 {
	sinPhi := math32.Sin(phi)
	return mgl32.Vec3{
		r * sinPhi * math32.Cos(theta),
		r * sinPhi * math32.Sin(theta),
		r * math32.Cos(phi),
	}
}
