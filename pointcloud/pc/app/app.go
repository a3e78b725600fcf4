package app

import (
	"errors"
	"fmt"

	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
	"github.com/gekko3d/zenparticles/pointcloud/pc/gpu"
	"github.com/gekko3d/zenparticles/pointcloud/pc/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	PointsPipeline *wgpu.RenderPipeline
	// Layers holds one buffer manager per drawn field, in draw order.
	Layers []*gpu.PointBufferManager
	Camera *core.Camera

	ClearColor wgpu.Color

	LastRenderTime float64
	DebugMode      bool

	FrameCount int
	FPS        float64
	FPSTime    float64
}

func NewApp(window *glfw.Window) *App {
	return &App{
		Window:     window,
		Camera:     core.NewCamera(),
		ClearColor: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)

	surface := a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))
	a.Surface = surface

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, a.Device, a.Config)

	if err := a.createPointsPipeline(format); err != nil {
		return err
	}

	a.LastRenderTime = glfw.GetTime()
	return nil
}

// createPointsPipeline builds the additive, depthless sprite pipeline.
func (a *App) createPointsPipeline(format wgpu.TextureFormat) error {
	module, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Points VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PointsWGSL},
	})
	if err != nil {
		return fmt.Errorf("points shader: %w", err)
	}
	defer module.Release()

	a.PointsPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Points Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(core.PointVertexSize),
				StepMode:    wgpu.VertexStepModeInstance,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				// additive: overlapping points brighten instead of occluding
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		// no depth attachment: points never hide each other
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("points pipeline: %w", err)
	}
	return nil
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
	}
}

// Update uploads any new fields and writes this frame's uniforms for every
// layer. A layer that fails keeps its previous contents and is retried on
// the next call. The camera is advanced by its owner, not here.
func (a *App) Update(layers []core.Layer) error {
	for len(a.Layers) < len(layers) {
		label := fmt.Sprintf("Layer%d", len(a.Layers))
		a.Layers = append(a.Layers, gpu.NewPointBufferManager(a.Device, a.Queue, label))
	}

	aspect := float32(1)
	if a.Config.Height > 0 {
		aspect = float32(a.Config.Width) / float32(a.Config.Height)
	}
	view := a.Camera.ViewMatrix()
	proj := a.Camera.ProjectionMatrix(aspect)

	var errs []error
	for i, layer := range layers {
		bm := a.Layers[i]
		recreated, err := bm.UploadField(layer.Field)
		if err != nil {
			errs = append(errs, err)
		} else if recreated && a.DebugMode {
			fmt.Printf("DEBUG: %s buffer reallocated for %d points\n", bm.Label, layer.Field.Len())
		}
		if err := bm.UpdateFrame(layer.Uniforms, view, proj, a.Config.Width, a.Config.Height); err != nil {
			errs = append(errs, err)
			continue
		}
		if bm.BindGroup0 == nil {
			if err := bm.CreateBindGroups(a.PointsPipeline); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (a *App) Render() {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		fmt.Printf("ERROR: GetCurrentTexture failed: %v\n", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		fmt.Printf("ERROR: CreateView failed: %v\n", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		fmt.Printf("ERROR: CreateCommandEncoder failed: %v\n", err)
		return
	}

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: a.ClearColor,
		}},
	})

	rPass.SetPipeline(a.PointsPipeline)
	for _, bm := range a.Layers {
		if !bm.Ready() {
			continue
		}
		rPass.SetBindGroup(0, bm.BindGroup0, nil)
		rPass.SetVertexBuffer(0, bm.PositionBuf, 0, uint64(bm.PointCount)*uint64(core.PointVertexSize))
		rPass.Draw(6, bm.PointCount, 0, 0)
	}

	err = rPass.End()
	if err != nil {
		fmt.Printf("ERROR: Render pass End failed: %v\n", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		fmt.Printf("ERROR: Encoder Finish failed: %v\n", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

func (a *App) Release() {
	for _, bm := range a.Layers {
		bm.Release()
	}
	a.Layers = nil
	if a.PointsPipeline != nil {
		a.PointsPipeline.Release()
	}
	if a.Queue != nil {
		a.Queue.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}
