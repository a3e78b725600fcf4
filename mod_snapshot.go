package zenparticles

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
)

// SnapshotModule renders the scene on the CPU after a fixed number of frames
// and exits. It needs no window or GPU.
type SnapshotModule struct {
	Width  int
	Height int
	Frames uint64
	// Output is the PNG path; empty keeps the image in memory only.
	Output string
}

type SnapshotState struct {
	Raster *core.Rasterizer
	Frames uint64
	Output string

	Image *image.RGBA
	Err   error
}

func (m SnapshotModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, string(RendererSnapshot))
	w, h := m.Width, m.Height
	if w <= 0 {
		w = defaultWindowWidth
	}
	if h <= 0 {
		h = defaultWindowHeight
	}
	frames := m.Frames
	if frames == 0 {
		frames = 1
	}
	cmd.AddResources(&SnapshotState{
		Raster: core.NewRasterizer(w, h),
		Frames: frames,
		Output: m.Output,
	})
	app.UseSystem(
		System(snapshotSystem).
			InStage(Render).
			RunAlways(),
	)
}

func snapshotSystem(snap *SnapshotState, particles *ParticleState, cam *core.Camera, cmd *Commands) {
	if snap.Image != nil || particles.Frames < snap.Frames {
		return
	}
	snap.Image = snap.Raster.RenderLayers(particles.Layers(), cam)
	if snap.Output != "" {
		snap.Err = writePNG(snap.Output, snap.Image)
		if snap.Err == nil {
			particles.log.Infof("snapshot: wrote %s (%dx%d, %d frames)",
				snap.Output, snap.Raster.Width, snap.Raster.Height, particles.Frames)
		}
	}
	cmd.Exit()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
