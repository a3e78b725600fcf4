package zenparticles

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// RendererName identifies a concrete renderer module.
// Keep names aligned with ensureSingleRenderer tags.
type RendererName string

const (
	RendererPointCloud RendererName = "pointcloud"
	RendererSnapshot   RendererName = "snapshot"
)

const (
	defaultWindowWidth  = 1280
	defaultWindowHeight = 720
	defaultWindowTitle  = "Zen Particles"
)

// ensureWindowResource guarantees a single shared WindowState resource exists.
// If missing, it creates one with provided overrides or sensible defaults.
// The window is destroyed and GLFW terminated on app shutdown.
func ensureWindowResource(app *App, width, height int, title string) *WindowState {
	if ws, ok := Resource[WindowState](app); ok {
		return ws
	}
	if width <= 0 {
		width = defaultWindowWidth
	}
	if height <= 0 {
		height = defaultWindowHeight
	}
	if title == "" {
		title = defaultWindowTitle
	}
	ws := createWindowState(width, height, title)
	app.addResources(ws)
	app.UseSystem(System(windowCloseSystem).InStage(PostRender).RunAlways())
	app.OnShutdown(func() {
		ws.windowGlfw.Destroy()
		glfw.Terminate()
	})
	app.Logger().Infof("Created shared window (%dx%d) '%s'", width, height, title)
	return ws
}

// UseRenderer installs exactly one renderer module, enforcing exclusivity via ensureSingleRenderer.
func (app *App) UseRenderer(name RendererName, mod Module) *App {
	ensureSingleRenderer(app, string(name))
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}
