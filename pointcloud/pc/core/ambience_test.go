package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStars_Shell(t *testing.T) {
	field, err := GenerateStars(rand.New(rand.NewSource(5)), StarCount, StarRadius, StarDepth)
	require.NoError(t, err)
	require.Equal(t, StarCount, field.Len())
	assert.Equal(t, ShapeAmbient, field.Shape)
	assert.NoError(t, field.Validate())
	for _, p := range field.Positions {
		d := p.Len()
		assert.True(t, d >= StarRadius-1e-3 && d <= StarRadius+StarDepth+1e-3, "d=%f", d)
	}
}

func TestGenerateSparkles_Cube(t *testing.T) {
	field, err := GenerateSparkles(rand.New(rand.NewSource(6)), SparkleCount, SparkleScale)
	require.NoError(t, err)
	require.Equal(t, SparkleCount, field.Len())
	for _, p := range field.Positions {
		for axis := 0; axis < 3; axis++ {
			assert.LessOrEqual(t, math.Abs(float64(p[axis])), SparkleScale/2+1e-5)
		}
	}
}

func TestGenerateAmbience_InvalidCount(t *testing.T) {
	_, err := GenerateStars(nil, 0, StarRadius, StarDepth)
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = GenerateSparkles(nil, -3, SparkleScale)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestShapeAmbient_NotSelectable(t *testing.T) {
	assert.False(t, ShapeAmbient.Valid())
	assert.Equal(t, "Ambient", ShapeAmbient.String())
	_, err := ParseShape("ambient")
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestStarUniforms_Still(t *testing.T) {
	u := StarUniforms(37.5)
	assert.Equal(t, float32(0), u.RotationAngle())
	assert.Equal(t, float32(0), u.Jitter(120))
	assert.Equal(t, float32(1), u.ExpansionFactor())

	p := mgl32.Vec3{10, 20, 100}
	assert.Equal(t, p, TransformPoint(p, u))
}

func TestSparkleUniforms_FollowColorAndDrift(t *testing.T) {
	red := MustParseColor("#ff0000")
	u := SparkleUniforms(10, red)
	assert.Equal(t, red, u.Color)
	assert.InDelta(t, SparkleOpacity, u.Opacity, 1e-6)
	assert.InDelta(t, 0.15*10*SparkleSpeed, u.RotationAngle(), 1e-5)
	assert.InDelta(t, SparkleSpeed*0.2*math.Sin(2*10*SparkleSpeed+0.5*3), u.Jitter(3), 1e-5)
}

func TestRasterizer_LayersAdd(t *testing.T) {
	cam := NewCamera()
	cam.AutoRotate = false
	r := NewRasterizer(64, 64)
	r.Supersample = 1
	u := DeriveUniforms(0, 0, MustParseColor("#202020"), 0.3)
	field := newField(ShapeHeart, []mgl32.Vec3{{0, 0, 0}})

	one := r.RenderLayers([]Layer{{Field: field, Uniforms: u}}, cam)
	two := r.RenderLayers([]Layer{{Field: field, Uniforms: u}, {Field: nil}, {Field: field, Uniforms: u}}, cam)

	assert.Greater(t, luminance(two.At(32, 32)), luminance(one.At(32, 32)))
	assert.Equal(t, one.Pix, r.Render(field, u, cam).Pix)
}
