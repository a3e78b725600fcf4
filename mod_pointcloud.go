package zenparticles

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	pcapp "github.com/gekko3d/zenparticles/pointcloud/pc/app"
	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
)

// PointCloudModule draws the particle field into the shared window with
// WebGPU. It needs ParticlesModule installed first.
type PointCloudModule struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
	DebugMode    bool
}

type PointCloudState struct {
	RtApp *pcapp.App

	log     Logger
	lastErr string
}

func (m PointCloudModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, string(RendererPointCloud))
	ws := ensureWindowResource(app, m.WindowWidth, m.WindowHeight, m.WindowTitle)

	rtApp := pcapp.NewApp(ws.windowGlfw)
	if cam, ok := Resource[core.Camera](app); ok {
		rtApp.Camera = cam
	}
	rtApp.DebugMode = m.DebugMode
	if err := rtApp.Init(); err != nil {
		app.Logger().Errorf("pointcloud: init: %v", err)
		panic(err)
	}
	app.OnShutdown(rtApp.Release)

	ws.windowGlfw.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		ws.WindowWidth, ws.WindowHeight = width, height
		rtApp.Resize(width, height)
	})

	cmd.AddResources(&PointCloudState{RtApp: rtApp, log: app.Logger()})
	app.UseSystem(
		System(pointCloudRenderSystem).
			InStage(Render).
			RunAlways(),
	)
	app.UseSystem(
		System(pointCloudStatsSystem).
			InStage(PostRender).
			RunAlways(),
	)
}

// pointCloudRenderSystem uploads and draws every layer. Upload failures keep
// the previous buffers on screen and are retried next frame.
func pointCloudRenderSystem(state *PointCloudState, particles *ParticleState) {
	state.report(state.RtApp.Update(particles.Layers()))
	state.RtApp.Render()
}

// report logs a GPU upload error once, and the recovery after it.
func (s *PointCloudState) report(err error) {
	if err == nil {
		if s.lastErr != "" {
			s.log.Infof("pointcloud: buffers recovered")
			s.lastErr = ""
		}
		return
	}
	if msg := err.Error(); msg != s.lastErr {
		s.lastErr = msg
		s.log.Errorf("pointcloud: upload: %v", err)
	}
}

// pointCloudStatsSystem puts the frame rate in the title in debug mode.
func pointCloudStatsSystem(state *PointCloudState, ws *WindowState, particles *ParticleState) {
	rt := state.RtApp
	if !rt.DebugMode || particles.Frames%60 != 0 {
		return
	}
	ws.windowGlfw.SetTitle(fmt.Sprintf("%s | %.0f fps | %s %d%%",
		ws.Title(), rt.FPS, particles.Shape, int(particles.Smoother.Value()*100+0.5)))
}
