package zenparticles

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
)

const (
	Key1 int = iota
	Key2
	Key3
	Key4
	Key5
	Key6
	KeyC
	KeyEscape
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	keyCount
)

// zoom step per key press
const zoomStep = 1.1

type InputModule struct{}

type Input struct {
	Pressed     [keyCount]bool
	JustPressed [keyCount]bool

	ScrollY float64

	// Cursor position in window coordinates, and how far it moved this
	// frame while the left button stayed down.
	MouseX, MouseY float64
	DragX, DragY   float64
	MouseLeft      bool
	WindowHeight   int

	paletteIdx int
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	ws := ensureWindowResource(app, 0, 0, "")
	input := &Input{}
	ws.windowGlfw.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		input.ScrollY += yoff
	})

	cmd.AddResources(input)
	ensureResource(app, NewControls)
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(hotkeySystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func inputSystem(s *WindowState, input *Input) {
	input.ScrollY = 0
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		action := s.windowGlfw.GetKey(glfwKey)

		input.JustPressed[key] = false

		if glfw.Press == action {
			if !input.Pressed[key] {
				input.JustPressed[key] = true
			}
			input.Pressed[key] = true
		} else if glfw.Release == action {
			input.Pressed[key] = false
		}
	}

	x, y := s.windowGlfw.GetCursorPos()
	down := s.windowGlfw.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	input.DragX, input.DragY = 0, 0
	if down && input.MouseLeft {
		input.DragX, input.DragY = x-input.MouseX, y-input.MouseY
	}
	input.MouseX, input.MouseY, input.MouseLeft = x, y, down
	_, input.WindowHeight = s.windowGlfw.GetSize()
}

// hotkeySystem maps number keys to shapes, C to the next palette color,
// +/- and the scroll wheel to zoom, left drag to orbit and Escape to exit.
func hotkeySystem(s *WindowState, input *Input, controls *Controls) {
	applyHotkeys(input, controls)
	if input.JustPressed[KeyEscape] {
		s.Close()
	}
}

func applyHotkeys(input *Input, controls *Controls) {
	shapes := core.Shapes()
	for i := Key1; i <= Key6; i++ {
		if input.JustPressed[i] && i-Key1 < len(shapes) {
			_ = controls.RequestShape(shapes[i-Key1])
		}
	}

	if input.JustPressed[KeyC] {
		input.paletteIdx = (input.paletteIdx + 1) % len(Palette)
		_ = controls.RequestColorHex(Palette[input.paletteIdx])
	}

	if input.JustPressed[KeyEqual] || input.JustPressed[KeyKPPlus] {
		controls.RequestZoom(1 / zoomStep)
	}
	if input.JustPressed[KeyMinus] || input.JustPressed[KeyKPMinus] {
		controls.RequestZoom(zoomStep)
	}
	if input.ScrollY > 0 {
		controls.RequestZoom(1 / zoomStep)
	} else if input.ScrollY < 0 {
		controls.RequestZoom(zoomStep)
	}

	// a drag across the full window height is one full turn
	if (input.DragX != 0 || input.DragY != 0) && input.WindowHeight > 0 {
		h := float64(input.WindowHeight)
		controls.RequestOrbit(
			float32(-2*math.Pi*input.DragX/h),
			float32(2*math.Pi*input.DragY/h),
		)
	}
}

var keyToGlfw = map[int]glfw.Key{
	Key1:       glfw.Key1,
	Key2:       glfw.Key2,
	Key3:       glfw.Key3,
	Key4:       glfw.Key4,
	Key5:       glfw.Key5,
	Key6:       glfw.Key6,
	KeyC:       glfw.KeyC,
	KeyEscape:  glfw.KeyEscape,
	KeyMinus:   glfw.KeyMinus,
	KeyEqual:   glfw.KeyEqual,
	KeyKPPlus:  glfw.KeyKPAdd,
	KeyKPMinus: glfw.KeyKPSubtract,
}
