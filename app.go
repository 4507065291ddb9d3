package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/pleimann/stampcam/internal/config"
	"github.com/pleimann/stampcam/internal/content"
	"github.com/pleimann/stampcam/internal/display"
	"github.com/pleimann/stampcam/internal/server"
	"github.com/pleimann/stampcam/internal/source"
	"github.com/pleimann/stampcam/internal/ui"
	"github.com/pleimann/stampcam/internal/watermark"
)

const (
	// clockInterval is how often the time, date and day fields are refreshed
	clockInterval = time.Second

	// previewJPEGQuality is the quality of frames served to preview clients
	previewJPEGQuality = 80
)

// App runs the live preview: clock, frame feed, render loop and HTTP server
type App struct {
	config   *config.Config
	logger   *log.Logger
	watcher  *config.Watcher
	override func(*config.Config)

	store    *content.Store
	clock    *content.Clock
	live     *source.Live
	frames   *display.FrameBuffer
	preview  *display.Manager
	capturer *display.Capturer
	server   *server.Server

	source config.SourceConfig
}

// newApp wires the preview components for cfg. watcher may be nil; override is applied to
// every reloaded config.
func newApp(cfg *config.Config, watcher *config.Watcher, override func(*config.Config), logger *log.Logger) (*App, error) {
	clock, err := newClock(cfg.Watermark)
	if err != nil {
		return nil, err
	}

	snap, err := snapshotFor(cfg, clock, time.Now())
	if err != nil {
		return nil, err
	}

	// Preview and capture never share an engine
	previewEngine, err := newEngine(cfg, draw.ApproxBiLinear)
	if err != nil {
		return nil, err
	}
	captureEngine, err := newEngine(cfg, draw.CatmullRom)
	if err != nil {
		return nil, err
	}

	exporter, err := display.NewExporter(cfg.Capture)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:   cfg,
		logger:   logger,
		watcher:  watcher,
		override: override,
		store:    content.NewStore(snap),
		clock:    clock,
		live:     source.NewLive(),
		frames:   display.NewFrameBuffer(previewJPEGQuality),
	}

	app.preview = display.NewManager(cfg.Preview, previewEngine, app.store, app.frames, logger)
	app.capturer = display.NewCapturer(cfg.Capture, captureEngine, logger)
	app.capturer.CheckAspect(app.preview.Size())

	if err := app.useSource(cfg.Source, cfg.Mirror()); err != nil {
		return nil, err
	}

	app.server = server.New(server.Deps{
		Preview:  app.preview,
		Frames:   app.frames,
		Capturer: app.capturer,
		Exporter: exporter,
		Store:    app.store,
		Live:     app.live,
		Clock:    clock,
	}, logger)

	return app, nil
}

// Run serves the preview until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// a.config belongs to the reload handler once the watcher starts
	addr := a.config.Server.Addr
	mode := a.config.Source.Mode

	go a.clock.Run(ctx, a.store, clockInterval)

	if dir := a.config.Source.FramesDir; dir != "" {
		go func() {
			if err := source.WatchDir(ctx, dir, a.live, a.logger); err != nil && ctx.Err() == nil {
				a.logger.Error("frame watcher stopped", "dir", dir, "err", err)
			}
		}()
	}

	if a.watcher != nil {
		a.watcher.OnReload(a.reload)
		a.watcher.Start()
	}

	a.preview.Start(ctx)
	a.logger.Info("preview started",
		"surface", a.preview.Size(),
		"capture", a.capturer.Size(),
		"source", mode,
	)

	err := a.server.Run(ctx, addr)
	a.shutdown()
	return err
}

// reload applies a changed config file to the running preview
func (a *App) reload(cfg *config.Config) {
	if a.override != nil {
		a.override(cfg)
	}

	a.clock.SetFixed(fixedFields(cfg.Watermark))

	logo, logoErr := content.LoadLogo(cfg.Watermark.Logo)
	if logoErr != nil {
		a.logger.Warn("keeping previous logo", "path", cfg.Watermark.Logo, "err", logoErr)
	}

	snap := a.store.Update(func(s *content.Snapshot) {
		s.Content.Address = cfg.Watermark.Address
		s.Corner = cfg.Watermark.ParsedCorner()
		if logoErr == nil {
			s.Content.Logo = logo
		}
		a.clock.Apply(s, time.Now())
	})
	a.logger.Debug("watermark updated", "corner", snap.Corner, "time", snap.Content.Time)

	if cfg.Source != a.source {
		if err := a.useSource(cfg.Source, cfg.Mirror()); err != nil {
			a.logger.Error("keeping previous source", "err", err)
		}
	}

	if cfg.Watermark.AccentColor != a.config.Watermark.AccentColor {
		if err := a.useAccent(cfg); err != nil {
			a.logger.Error("keeping previous accent color", "err", err)
		}
	}

	size := a.preview.Configure(cfg.Preview)
	a.capturer.CheckAspect(size)

	if fields := restartFields(a.config, cfg); len(fields) > 0 {
		a.logger.Warn("restart to apply config changes", "fields", strings.Join(fields, ", "))
	}
	a.config = cfg
}

// useAccent rebuilds both engines with cfg's divider bar color
func (a *App) useAccent(cfg *config.Config) error {
	previewEngine, err := newEngine(cfg, draw.ApproxBiLinear)
	if err != nil {
		return err
	}
	captureEngine, err := newEngine(cfg, draw.CatmullRom)
	if err != nil {
		return err
	}
	a.preview.SetEngine(previewEngine)
	a.capturer.SetEngine(captureEngine)
	a.logger.Debug("accent color changed", "color", cfg.Watermark.AccentColor)
	return nil
}

// restartFields lists the settings that changed between old and cfg but are only read at startup
func restartFields(old, cfg *config.Config) []string {
	var fields []string
	check := func(name string, changed bool) {
		if changed {
			fields = append(fields, name)
		}
	}
	check("preview.frame_interval_ms", old.Preview.FrameIntervalMs != cfg.Preview.FrameIntervalMs)
	check("capture", old.Capture != cfg.Capture)
	check("source.frames_dir", old.Source.FramesDir != cfg.Source.FramesDir)
	check("watermark.time_format", old.Watermark.TimeFormat != cfg.Watermark.TimeFormat)
	check("watermark.date_format", old.Watermark.DateFormat != cfg.Watermark.DateFormat)
	check("watermark.day_format", old.Watermark.DayFormat != cfg.Watermark.DayFormat)
	check("server.addr", old.Server.Addr != cfg.Server.Addr)
	return fields
}

// useSource points the preview at the still image or the live feed
func (a *App) useSource(sc config.SourceConfig, mirror bool) error {
	switch sc.Mode {
	case config.ModeGallery:
		still, err := source.LoadStill(sc.Image)
		if err != nil {
			return err
		}
		a.preview.SetSource(still, mirror)
	default:
		a.preview.SetSource(a.live, mirror)
	}
	a.source = sc
	a.logger.Debug("source selected", "mode", sc.Mode, "facing", sc.Facing, "mirror", mirror)
	return nil
}

func (a *App) shutdown() {
	a.logger.Debug("shutting down")
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.preview.Stop()
}

// loadConfig reads path, or returns the defaults when it does not exist
func loadConfig(path string, logger *log.Logger) (*config.Config, error) {
	if !config.Exists(path) {
		logger.Debug("config file not found, using defaults", "path", path)
		ui.PrintWarning(fmt.Sprintf("%s not found, using defaults", path))
		return config.Default(), nil
	}
	return config.Load(path)
}

func fixedFields(w config.WatermarkConfig) content.Fields {
	return content.Fields{Time: w.Time, Date: w.Date, Day: w.Day}
}

// newClock compiles the configured patterns and applies the fixed fields
func newClock(w config.WatermarkConfig) (*content.Clock, error) {
	clock, err := content.NewClock(w.TimeFormat, w.DateFormat, w.DayFormat)
	if err != nil {
		return nil, fmt.Errorf("watermark formats: %w", err)
	}
	clock.SetFixed(fixedFields(w))
	return clock, nil
}

// snapshotFor builds the watermark content and corner for cfg at now
func snapshotFor(cfg *config.Config, clock *content.Clock, now time.Time) (content.Snapshot, error) {
	logo, err := content.LoadLogo(cfg.Watermark.Logo)
	if err != nil {
		return content.Snapshot{}, err
	}

	snap := content.Snapshot{
		Content: watermark.Content{
			Address: cfg.Watermark.Address,
			Logo:    logo,
		},
		Corner: cfg.Watermark.ParsedCorner(),
	}
	clock.Apply(&snap, now)
	return snap, nil
}

// newEngine creates an engine with its own font set
func newEngine(cfg *config.Config, quality draw.Interpolator) (*watermark.Engine, error) {
	fonts, err := watermark.NewFontSet()
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}
	return watermark.NewEngine(fonts, cfg.Watermark.Accent(), quality), nil
}
