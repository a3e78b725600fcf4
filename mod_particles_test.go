package zenparticles

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
	"github.com/gekko3d/zenparticles/pointcloud/pc/gesture"
)

const testDt = time.Second / 50

func newParticlesApp(t *testing.T, extra ...Module) *App {
	t.Helper()
	modules := append([]Module{
		TimeModule{FixedDt: testDt},
		ParticlesModule{
			Count: 200,
			Shape: core.ShapeFlower,
			Rand:  rand.New(rand.NewSource(7)),
		},
	}, extra...)
	return NewAppBuilder().UseModule(modules...).Build()
}

func mustResource[T any](t *testing.T, app *App) *T {
	t.Helper()
	r, ok := Resource[T](app)
	require.True(t, ok, "missing resource")
	return r
}

func TestParticlesModule_InstallDefaults(t *testing.T) {
	app := newParticlesApp(t)
	state := mustResource[ParticleState](t, app)

	field := state.Store.Load()
	require.NotNil(t, field)
	assert.Equal(t, 200, field.Len())
	assert.Equal(t, core.ShapeFlower, field.Shape)
	assert.Equal(t, core.DefaultColor, state.Color)
	assert.InDelta(t, core.DefaultOpacity, state.Opacity, 1e-6)

	mustResource[Controls](t, app)
	mustResource[gesture.Mailbox](t, app)
	mustResource[core.Camera](t, app)
}

func TestParticlesModule_InvalidShapePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewAppBuilder().UseModule(ParticlesModule{Count: 10, Shape: core.Shape(99)}).Build()
	})
}

func TestParticlesModule_FrameOrder(t *testing.T) {
	app := newParticlesApp(t)
	state := mustResource[ParticleState](t, app)
	mb := mustResource[gesture.Mailbox](t, app)

	// no sample yet: openness stays closed
	app.Step()
	assert.Equal(t, float32(0), state.Uniforms.Expansion)

	mb.Publish(1)
	const frames = 10
	for i := 0; i < frames; i++ {
		app.Step()
	}

	want := 1 - math.Pow(0.9, frames)
	assert.InDelta(t, want, state.Uniforms.Expansion, 1e-5)
	assert.InDelta(t, float64(frames+1)*testDt.Seconds(), float64(state.Uniforms.Time), 1e-4)
	assert.Equal(t, core.PulseSize(state.Uniforms.Time), state.Uniforms.Size)
	assert.Equal(t, uint64(frames+1), state.Frames)
}

func TestParticlesModule_ControlsApplied(t *testing.T) {
	app := newParticlesApp(t)
	state := mustResource[ParticleState](t, app)
	controls := mustResource[Controls](t, app)
	cam := mustResource[core.Camera](t, app)
	before := state.Store.Load()
	dist := cam.Distance

	require.NoError(t, controls.RequestShape(core.ShapeSpiral))
	require.NoError(t, controls.RequestColorHex("#ff0000"))
	controls.RequestZoom(0.5)
	app.Step()

	after := state.Store.Load()
	assert.Equal(t, core.ShapeSpiral, after.Shape)
	assert.NotEqual(t, before.ID, after.ID)
	assert.Equal(t, before.Len(), after.Len())
	assert.Equal(t, core.ShapeSpiral, state.Shape)
	assert.Equal(t, core.Color{R: 1}, state.Uniforms.Color)
	assert.InDelta(t, dist*0.5, cam.Distance, 1e-5)

	// same shape again does not regenerate
	require.NoError(t, controls.RequestShape(core.ShapeSpiral))
	app.Step()
	assert.Equal(t, after.ID, state.Store.Load().ID)
}

func TestParticlesModule_CameraAutoRotates(t *testing.T) {
	app := newParticlesApp(t)
	cam := mustResource[core.Camera](t, app)
	start := cam.Azimuth
	app.Step()
	assert.Greater(t, cam.Azimuth, start)
}

func TestSnapshotModule(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	app := newParticlesApp(t, SnapshotModule{Width: 64, Height: 48, Frames: 3, Output: out})
	mustResource[gesture.Mailbox](t, app).Publish(0.5)

	app.Run()

	snap := mustResource[SnapshotState](t, app)
	require.NoError(t, snap.Err)
	require.NotNil(t, snap.Image)
	assert.Equal(t, 64, snap.Image.Bounds().Dx())
	assert.Equal(t, uint64(3), mustResource[ParticleState](t, app).Frames)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSnapshotModule_SingleRenderer(t *testing.T) {
	assert.Panics(t, func() {
		newParticlesApp(t,
			SnapshotModule{Width: 8, Height: 8},
			&fakeRenderer{name: string(RendererPointCloud)},
		)
	})
}

type fakeRenderer struct{ name string }

func (f *fakeRenderer) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, f.name)
}

func TestGestureModule_DemoStartsRunning(t *testing.T) {
	app := NewAppBuilder().
		UseStates(StateWaiting, StateExit).
		UseModule(
			TimeModule{FixedDt: testDt},
			ParticlesModule{Count: 50, Shape: core.ShapeZen},
			GestureModule{Demo: true},
		).
		Build()
	defer app.Shutdown()

	require.Eventually(t, func() bool {
		app.Step()
		return app.State() == StateRunning
	}, 2*time.Second, 5*time.Millisecond)

	_, ok := mustResource[gesture.Mailbox](t, app).Latest()
	assert.True(t, ok)
}

func TestApplyRemoteControl(t *testing.T) {
	controls := NewControls()
	applyRemoteControl(NewNopLogger(), controls, "saturn", "nope-not-a-color")

	s, ok := controls.TakeShape()
	require.True(t, ok)
	assert.Equal(t, core.ShapeSaturn, s)
	_, ok = controls.TakeColor()
	assert.False(t, ok)
}

func TestParticlesModule_CountZeroUsesDefault(t *testing.T) {
	app := NewAppBuilder().UseModule(ParticlesModule{Shape: core.ShapeZen, NoAmbience: true}).Build()
	state := mustResource[ParticleState](t, app)
	assert.Equal(t, core.DefaultCount, state.Store.Load().Len())

	assert.Panics(t, func() {
		NewAppBuilder().UseModule(ParticlesModule{Count: -5, Shape: core.ShapeZen}).Build()
	})
}

func TestParticlesModule_Layers(t *testing.T) {
	app := newParticlesApp(t)
	state := mustResource[ParticleState](t, app)

	layers := state.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, core.StarCount, layers[0].Field.Len())
	assert.Same(t, state.Store.Load(), layers[1].Field)
	assert.Equal(t, core.SparkleCount, layers[2].Field.Len())
	assert.Equal(t, float32(1), layers[0].Uniforms.Stillness)
	assert.Equal(t, core.Color{R: 1, G: 1, B: 1}, layers[0].Uniforms.Color)

	bare := NewAppBuilder().UseModule(ParticlesModule{Count: 20, Shape: core.ShapeZen, NoAmbience: true}).Build()
	layers = mustResource[ParticleState](t, bare).Layers()
	require.Len(t, layers, 1)
	assert.Equal(t, 20, layers[0].Field.Len())
}

func TestParticlesModule_SparklesFollowColor(t *testing.T) {
	app := newParticlesApp(t)
	state := mustResource[ParticleState](t, app)
	controls := mustResource[Controls](t, app)
	assert.Equal(t, core.DefaultColor, state.SparkleUniforms.Color)

	require.NoError(t, controls.RequestColorHex("#ff0000"))
	app.Step()

	assert.Equal(t, core.Color{R: 1}, state.SparkleUniforms.Color)
	assert.Equal(t, core.Color{R: 1, G: 1, B: 1}, state.StarUniforms.Color, "stars stay white")
	assert.Equal(t, state.Uniforms.Time, state.SparkleUniforms.Time)
	assert.InDelta(t, core.SparkleOpacity, state.SparkleUniforms.Opacity, 1e-6)
}

func TestParticlesModule_DragOrbits(t *testing.T) {
	cam := core.NewCamera()
	cam.AutoRotate = false
	app := NewAppBuilder().UseModule(
		TimeModule{FixedDt: testDt},
		ParticlesModule{Count: 20, Shape: core.ShapeZen, Camera: cam, NoAmbience: true},
	).Build()
	controls := mustResource[Controls](t, app)

	// a quarter of the window height to the left, an eighth down
	input := &Input{DragX: -100, DragY: 50, WindowHeight: 400}
	applyHotkeys(input, controls)
	app.Step()

	assert.InDelta(t, math.Pi/2, cam.Azimuth, 1e-5)
	assert.InDelta(t, math.Pi/4, cam.Elevation, 1e-5)

	// no drag, no orbit
	applyHotkeys(&Input{WindowHeight: 400}, controls)
	app.Step()
	assert.InDelta(t, math.Pi/2, cam.Azimuth, 1e-5)
}

func TestApp_UseRendererSnapshot(t *testing.T) {
	app := newParticlesApp(t)
	app.UseRenderer(RendererSnapshot, SnapshotModule{Width: 16, Height: 16, Frames: 2})
	app.Run()

	snap := mustResource[SnapshotState](t, app)
	require.NotNil(t, snap.Image)
	assert.Equal(t, string(RendererSnapshot), mustResource[RendererTag](t, app).Name)

	assert.Panics(t, func() {
		app.UseRenderer(RendererPointCloud, &fakeRenderer{name: string(RendererPointCloud)})
	})
}
