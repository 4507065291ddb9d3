package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/pleimann/stampcam/internal/config"
	"github.com/pleimann/stampcam/internal/display"
	"github.com/pleimann/stampcam/internal/source"
	"github.com/pleimann/stampcam/internal/ui"
	"github.com/pleimann/stampcam/internal/watermark"
)

type previewOptions struct {
	addr   string
	frames string
	image  string
	facing string
}

func newPreviewCmd(root *rootOptions) *cobra.Command {
	opts := previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the live watermarked preview and capture endpoint",
		Long: `Renders the watermark over the background continuously and serves it over HTTP.
Camera frames are read from a watched directory or uploaded to POST /frame.
The config file is watched and reloaded while running.`,
		Example: ui.Examples(
			ui.Example{Cmd: "preview", Desc: "Serve with config.yaml"},
			ui.Example{Cmd: "preview --frames ./frames", Desc: "Follow the newest image in ./frames"},
			ui.Example{Cmd: "preview --image photo.jpg", Desc: "Preview a gallery image"},
			ui.Example{Cmd: "preview --facing user --addr :9000", Desc: "Mirrored selfie camera on port 9000"},
		),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			override := opts.apply

			var watcher *config.Watcher
			var cfg *config.Config
			if config.Exists(root.configPath) {
				w, err := config.NewWatcher(root.configPath, logger)
				if err != nil {
					return fail("Failed to load config", err)
				}
				watcher = w
				loaded := *w.Get()
				cfg = &loaded
			} else {
				ui.PrintWarning(fmt.Sprintf("%s not found, using defaults", root.configPath))
				cfg = config.Default()
			}
			override(cfg)

			app, err := newApp(cfg, watcher, override, logger)
			if err != nil {
				if watcher != nil {
					watcher.Stop()
				}
				return fail("Failed to initialize preview", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.PrintServing(cfg.Server.Addr, app.preview.Size())
			if err := app.Run(ctx); err != nil {
				return fail("Preview stopped", err)
			}
			logger.Info("shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&opts.frames, "frames", "", "directory of camera frames to follow (overrides source.frames_dir)")
	cmd.Flags().StringVar(&opts.image, "image", "", "preview a still image in gallery mode")
	cmd.Flags().StringVar(&opts.facing, "facing", "", "camera facing: user or environment")

	return cmd
}

// apply writes the command line overrides into cfg
func (o previewOptions) apply(cfg *config.Config) {
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.frames != "" {
		cfg.Source.Mode = config.ModeCamera
		cfg.Source.FramesDir = o.frames
	}
	if o.image != "" {
		cfg.Source.Mode = config.ModeGallery
		cfg.Source.Image = o.image
	}
	if o.facing != "" {
		cfg.Source.Facing = o.facing
	}
}

type captureOptions struct {
	image       string
	outDir      string
	corner      string
	interactive bool
}

func newCaptureCmd(root *rootOptions) *cobra.Command {
	opts := captureOptions{}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Render one watermarked photo at capture resolution",
		Long: `Composes the background and watermark once at the capture resolution and writes a JPEG.
The background is --image, the gallery image, or the newest frame in source.frames_dir.`,
		Example: ui.Examples(
			ui.Example{Cmd: "capture", Desc: "Capture the newest camera frame"},
			ui.Example{Cmd: "capture --image photo.jpg", Desc: "Watermark an existing photo"},
			ui.Example{Cmd: "capture -i", Desc: "Pick the corner first"},
			ui.Example{Cmd: "capture --corner top-right -o out", Desc: "Top right block, saved to ./out"},
		),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.image, "image", "", "background image (gallery mode)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (overrides capture.output_dir)")
	cmd.Flags().StringVar(&opts.corner, "corner", "", "watermark corner (overrides watermark.corner)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose the corner interactively")

	return cmd
}

func runCapture(cmd *cobra.Command, root *rootOptions, opts captureOptions) error {
	logger := loggerFromContext(cmd.Context())
	start := time.Now()

	cfg, err := loadConfig(root.configPath, logger)
	if err != nil {
		return fail("Failed to load config", err)
	}
	if opts.outDir != "" {
		cfg.Capture.OutputDir = opts.outDir
	}
	if opts.corner != "" {
		corner, err := watermark.ParseCorner(opts.corner)
		if err != nil {
			return fail("Invalid corner", err)
		}
		cfg.Watermark.Corner = corner.String()
	}
	if opts.interactive {
		corner, err := ui.SelectCorner(cfg.Watermark.ParsedCorner())
		if err != nil {
			return fail("Corner selection failed", err)
		}
		if corner == nil {
			fmt.Println(ui.Muted("No corner selected"))
			return nil
		}
		cfg.Watermark.Corner = corner.String()
	}

	src, mirror, err := captureSource(cfg, opts.image)
	if err != nil {
		return fail("No background to capture", err)
	}

	clock, err := newClock(cfg.Watermark)
	if err != nil {
		return fail("Invalid watermark format", err)
	}
	now := time.Now()
	snap, err := snapshotFor(cfg, clock, now)
	if err != nil {
		return fail("Failed to load watermark", err)
	}

	engine, err := newEngine(cfg, draw.CatmullRom)
	if err != nil {
		return fail("Failed to initialize renderer", err)
	}
	capturer := display.NewCapturer(cfg.Capture, engine, logger)
	if !capturer.CheckAspect(display.BackingSize(cfg.Preview.Width, cfg.Preview.Height, cfg.Preview.DevicePixelRatio)) {
		ui.PrintWarning("Preview and capture aspect ratios differ, the photo will be framed differently")
	}
	size := capturer.Size()
	ui.PrintProgress(fmt.Sprintf("Rendering %dx%d", size.X, size.Y))

	img, err := capturer.Capture(src, mirror, snap)
	if err != nil {
		return fail("Capture failed", err)
	}

	exporter, err := display.NewExporter(cfg.Capture)
	if err != nil {
		return fail("Invalid filename pattern", err)
	}
	ui.PrintProgress("Saving to " + cfg.Capture.OutputDir)
	path, err := exporter.Export(img, now)
	if err != nil {
		return fail("Failed to save photo", err)
	}

	ui.PrintCaptureSaved(path, size, snap.Corner, time.Since(start))
	return nil
}

// captureSource picks the background for a one-shot capture. Only a user-facing camera frame
// is mirrored.
func captureSource(cfg *config.Config, image string) (watermark.Source, bool, error) {
	if image != "" {
		still, err := source.LoadStill(image)
		return still, false, err
	}

	switch cfg.Source.Mode {
	case config.ModeGallery:
		still, err := source.LoadStill(cfg.Source.Image)
		return still, false, err
	default:
		if cfg.Source.FramesDir == "" {
			return nil, false, errors.New("camera mode needs source.frames_dir or --image")
		}
		still, err := source.LoadLatest(cfg.Source.FramesDir)
		return still, cfg.Mirror(), err
	}
}

func newCornerCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "corner [top-left|top-right|bottom-left|bottom-right]",
		Short: "Set the watermark corner in the config file",
		Long: `Updates watermark.corner in the config file, creating the file if needed.
Without an argument a corner is chosen interactively.`,
		Example: ui.Examples(
			ui.Example{Cmd: "corner", Desc: "Interactive selection"},
			ui.Example{Cmd: "corner bottom-right", Desc: "Set the corner directly"},
			ui.Example{Cmd: "corner top-left -c my.yaml", Desc: "Use different config"},
		),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: cornerNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var corner watermark.Corner
			if len(args) == 1 {
				c, err := watermark.ParseCorner(args[0])
				if err != nil {
					return fail("Invalid corner", err)
				}
				corner = c
			} else {
				current := watermark.BottomLeft
				if cfg, err := config.Load(root.configPath); err == nil {
					current = cfg.Watermark.ParsedCorner()
				}
				c, err := ui.SelectCorner(current)
				if err != nil {
					return fail("Corner selection failed", err)
				}
				if c == nil {
					fmt.Println(ui.Muted("No corner selected"))
					return nil
				}
				corner = *c
			}

			if config.Exists(root.configPath) {
				if err := config.UpdateCorner(root.configPath, corner); err != nil {
					return fail("Failed to update config", err)
				}
				ui.PrintCornerUpdated(root.configPath, corner)
				return nil
			}

			if err := config.CreateDefaultConfig(root.configPath, corner); err != nil {
				return fail("Failed to create config", err)
			}
			ui.PrintConfigCreated(root.configPath, corner)
			return nil
		},
	}
}

func newInitCmd(root *rootOptions) *cobra.Command {
	var force bool
	var cornerName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Example: ui.Examples(
			ui.Example{Cmd: "init", Desc: "Create config.yaml"},
			ui.Example{Cmd: "init --corner top-right --force", Desc: "Overwrite with a top right block"},
		),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Exists(root.configPath) && !force {
				return fail("Config already exists", fmt.Errorf("%s exists; use --force to overwrite", root.configPath))
			}

			corner, err := watermark.ParseCorner(cornerName)
			if err != nil {
				return fail("Invalid corner", err)
			}

			if err := config.CreateDefaultConfig(root.configPath, corner); err != nil {
				return fail("Failed to create config", err)
			}
			ui.PrintConfigCreated(root.configPath, corner)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&cornerName, "corner", config.DefaultCorner, "watermark corner")

	return cmd
}

func cornerNames() []string {
	corners := watermark.Corners()
	names := make([]string, len(corners))
	for i, c := range corners {
		names[i] = c.String()
	}
	return names
}
