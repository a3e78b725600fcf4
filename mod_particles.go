package zenparticles

import (
	"math"

	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
	"github.com/gekko3d/zenparticles/pointcloud/pc/gesture"
)

// ParticlesModule owns the point field, the openness smoother, the animation
// clock and the orbit camera. Every frame it derives the uniforms that the
// renderers draw with.
type ParticlesModule struct {
	// Count is the number of points per field. Zero means core.DefaultCount;
	// a negative count fails Install.
	Count   int
	Shape   core.Shape
	Color   core.Color
	Opacity float32
	Camera  *core.Camera
	// Rand seeds shape generation; nil uses the process-wide source.
	Rand core.Rand
	// NoAmbience leaves out the star backdrop and the sparkles.
	NoAmbience bool
}

// ParticleState is the per-frame animation state shared by the renderers.
type ParticleState struct {
	Store    *core.FieldStore
	Smoother core.Smoother
	Clock    core.Clock
	Shape    core.Shape
	Color    core.Color
	Opacity  float32
	Uniforms core.Uniforms
	Frames   uint64

	// Stars and Sparkles are nil when ambience is off.
	Stars           *core.Field
	Sparkles        *core.Field
	StarUniforms    core.Uniforms
	SparkleUniforms core.Uniforms

	log         Logger
	lastPercent int
}

func (m ParticlesModule) Install(app *App, cmd *Commands) {
	count := m.Count
	if count == 0 {
		count = core.DefaultCount
	}
	opacity := m.Opacity
	if opacity <= 0 {
		opacity = core.DefaultOpacity
	}
	col := m.Color
	if col == (core.Color{}) {
		col = core.DefaultColor
	}
	cam := m.Camera
	if cam == nil {
		cam = core.NewCamera()
	}

	store := core.NewFieldStore(count)
	if m.Rand != nil {
		store = core.NewFieldStoreWith(m.Rand, count)
	}
	field, err := store.Regenerate(m.Shape)
	if err != nil {
		app.Logger().Errorf("particles: initial %s field: %v", m.Shape, err)
		panic(err)
	}

	state := &ParticleState{
		Store:       store,
		Shape:       m.Shape,
		Color:       col,
		Opacity:     opacity,
		log:         app.Logger(),
		lastPercent: -1,
	}
	if !m.NoAmbience {
		if state.Stars, err = core.GenerateStars(m.Rand, core.StarCount, core.StarRadius, core.StarDepth); err != nil {
			panic(err)
		}
		if state.Sparkles, err = core.GenerateSparkles(m.Rand, core.SparkleCount, core.SparkleScale); err != nil {
			panic(err)
		}
	}
	state.deriveUniforms(0, 0)
	app.Logger().Infof("particles: %d points, shape %s, color %s", field.Len(), m.Shape, col.Hex())

	cmd.AddResources(state, cam)
	ensureResource(app, NewControls)
	ensureResource(app, func() *gesture.Mailbox { return &gesture.Mailbox{} })

	app.UseSystem(
		System(particleControlsSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(particleFrameSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

// particleControlsSystem applies pending shape, color, zoom and orbit requests.
// A failed regeneration keeps the current field on screen.
func particleControlsSystem(state *ParticleState, controls *Controls, cam *core.Camera) {
	if shape, ok := controls.TakeShape(); ok && shape != state.Shape {
		if _, err := state.Store.Regenerate(shape); err != nil {
			state.log.Warnf("particles: regenerate %s: %v", shape, err)
		} else {
			state.Shape = shape
			state.log.Infof("particles: shape %s", shape)
		}
	}
	if col, ok := controls.TakeColor(); ok {
		state.Color = col
		state.log.Debugf("particles: color %s", col.Hex())
	}
	if factor, ok := controls.TakeZoom(); ok {
		cam.Zoom(factor)
	}
	if dAz, dEl, ok := controls.TakeOrbit(); ok {
		cam.Orbit(dAz, dEl)
	}
}

// particleFrameSystem runs smoother, clock and uniform derivation, in that
// order, once per frame.
func particleFrameSystem(t *Time, state *ParticleState, mb *gesture.Mailbox, cam *core.Camera) {
	state.advance(mb, t.Dt.Seconds())
	cam.Update(t.Dt.Seconds())
}

func (s *ParticleState) advance(mb *gesture.Mailbox, dt float64) {
	raw, ok := mb.Latest()
	if !ok {
		raw = float32(math.NaN())
	}
	smoothed := s.Smoother.Update(raw)
	elapsed := s.Clock.Advance(dt)
	s.deriveUniforms(elapsed, smoothed)
	s.Frames++

	if pct := int(math.Round(float64(smoothed) * 100)); pct != s.lastPercent {
		s.lastPercent = pct
		s.log.Debugf("particles: openness %d%%", pct)
	}
}

func (s *ParticleState) deriveUniforms(elapsed float64, smoothed float32) {
	s.Uniforms = core.DeriveUniforms(elapsed, smoothed, s.Color, s.Opacity)
	s.StarUniforms = core.StarUniforms(elapsed)
	s.SparkleUniforms = core.SparkleUniforms(elapsed, s.Color)
}

// Layers lists what the renderers draw this frame: the backdrop, the
// particle field and the sparkles. Ambient layers are omitted when off.
func (s *ParticleState) Layers() []core.Layer {
	layers := make([]core.Layer, 0, 3)
	if s.Stars != nil {
		layers = append(layers, core.Layer{Field: s.Stars, Uniforms: s.StarUniforms})
	}
	layers = append(layers, core.Layer{Field: s.Store.Load(), Uniforms: s.Uniforms})
	if s.Sparkles != nil {
		layers = append(layers, core.Layer{Field: s.Sparkles, Uniforms: s.SparkleUniforms})
	}
	return layers
}
