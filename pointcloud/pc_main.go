package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	zp "github.com/gekko3d/zenparticles"
	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
	"github.com/gekko3d/zenparticles/pointcloud/pc/gesture"
)

func init() {
	runtime.LockOSThread()
}

type options struct {
	configPath string
	watch      bool
	shape      string
	color      string
	count      int
	listen     string
	demo       bool
	debug      bool
	width      int
	height     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "zenparticles",
		Short:        "Gesture-driven 3D particle visualizer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			runWindow(opts, cfg)
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "TOML or YAML config file")
	f.StringVar(&opts.shape, "shape", "", "initial shape (heart, flower, saturn, zen, fireworks, spiral)")
	f.StringVar(&opts.color, "color", "", "particle color, #rrggbb or a color name")
	f.IntVar(&opts.count, "count", 0, "number of particles")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	f.IntVar(&opts.width, "width", 0, "window or image width")
	f.IntVar(&opts.height, "height", 0, "window or image height")
	root.Flags().BoolVar(&opts.watch, "watch", false, "reload the config file when it changes")
	root.Flags().StringVar(&opts.listen, "listen", "", "gesture websocket address")
	root.Flags().BoolVar(&opts.demo, "demo", false, "drive openness with a synthetic signal")

	root.AddCommand(newSnapshotCmd(opts), newShapesCmd(), newConfigCmd())
	return root
}

// load reads the config file and applies flags the user set explicitly.
func (o *options) load(cmd *cobra.Command) (*zp.Config, error) {
	cfg, err := zp.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("shape") {
		cfg.Particles.Shape = o.shape
	}
	if flags.Changed("color") {
		cfg.Particles.Color = o.color
	}
	if flags.Changed("count") {
		cfg.Particles.Count = o.count
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	if flags.Changed("width") {
		cfg.Window.Width = o.width
	}
	if flags.Changed("height") {
		cfg.Window.Height = o.height
	}
	if flags.Lookup("listen") != nil && flags.Changed("listen") {
		cfg.Gesture.Listen = o.listen
	}
	if flags.Lookup("demo") != nil && flags.Changed("demo") {
		cfg.Gesture.Demo = o.demo
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func particlesModule(cfg *zp.Config) zp.ParticlesModule {
	return zp.ParticlesModule{
		Count:   cfg.Particles.Count,
		Shape:   cfg.ShapeValue(),
		Color:   cfg.ColorValue(),
		Opacity: cfg.Particles.Opacity,
		Camera:  cfg.NewCamera(),

		NoAmbience: !cfg.Particles.Ambience,
	}
}

func runWindow(opts *options, cfg *zp.Config) {
	app := zp.NewAppBuilder().
		UseStates(zp.StateWaiting, zp.StateExit).
		UseModule(
			zp.LoggingModule{Prefix: "zen", Debug: cfg.Debug},
			zp.ConfigModule{Path: opts.configPath, Watch: opts.watch, Config: cfg},
			zp.TimeModule{},
			particlesModule(cfg),
			zp.PlatformWindowModule{Width: cfg.Window.Width, Height: cfg.Window.Height, Title: cfg.Window.Title},
			zp.InputModule{},
			zp.GestureModule{Listen: cfg.Gesture.Listen, Demo: cfg.Gesture.Demo},
		).
		Build()
	app.UseRenderer(zp.RendererPointCloud, zp.PointCloudModule{
		WindowWidth:  cfg.Window.Width,
		WindowHeight: cfg.Window.Height,
		WindowTitle:  cfg.Window.Title,
		DebugMode:    cfg.Debug,
	})
	app.Run()
}

func newSnapshotCmd(opts *options) *cobra.Command {
	var (
		out      string
		frames   uint64
		openness float32
		fps      int
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame to a PNG without a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if fps <= 0 {
				return fmt.Errorf("fps must be positive, got %d", fps)
			}

			app := zp.NewAppBuilder().
				UseModule(
					zp.LoggingModule{Prefix: "zen", Debug: cfg.Debug},
					zp.TimeModule{FixedDt: time.Second / time.Duration(fps)},
					particlesModule(cfg),
				).
				Build()
			app.UseRenderer(zp.RendererSnapshot, zp.SnapshotModule{
				Width:  cfg.Window.Width,
				Height: cfg.Window.Height,
				Frames: frames,
				Output: out,
			})
			if mb, ok := zp.Resource[gesture.Mailbox](app); ok {
				mb.Publish(openness)
			}
			app.Run()

			snap, _ := zp.Resource[zp.SnapshotState](app)
			return snap.Err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "snapshot.png", "output PNG path")
	cmd.Flags().Uint64Var(&frames, "frames", 120, "frames to simulate before rendering")
	cmd.Flags().Float32Var(&openness, "openness", 0, "constant hand openness in [0,1]")
	cmd.Flags().IntVar(&fps, "fps", 60, "simulated frame rate")
	return cmd
}

func newShapesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the available shapes",
		Run: func(cmd *cobra.Command, args []string) {
			for i, s := range core.Shapes() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", i+1, s)
			}
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config <path>",
		Short: "Write the default config as TOML or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return zp.SaveConfig(args[0], zp.DefaultConfig())
		},
	}
}
