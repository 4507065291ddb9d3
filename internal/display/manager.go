// Package display drives the two render paths: a continuously repainted preview and a
// one-shot offscreen capture at the fixed target resolution.
package display

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pleimann/stampcam/internal/config"
	"github.com/pleimann/stampcam/internal/content"
	"github.com/pleimann/stampcam/internal/watermark"
)

// FrameSink receives every finished preview frame. img is reused by the next tick, so a
// sink that keeps it must copy it.
type FrameSink interface {
	WriteFrame(img *image.RGBA, res watermark.Result) error
}

// Clearer is implemented by sinks that blank their output when the preview stops
type Clearer interface {
	Clear()
}

// Manager runs the preview loop: every tick it loads the latest content snapshot and
// repaints background and watermark into the backing buffer
type Manager struct {
	store  *content.Store
	sink   FrameSink
	logger *log.Logger

	mu      sync.Mutex
	config  config.PreviewConfig
	engine  *watermark.Engine
	source  watermark.Source
	mirror  bool
	surface *image.RGBA
	pending image.Point
	frames  uint64

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewManager creates a preview manager with a backing buffer sized from cfg
func NewManager(cfg config.PreviewConfig, engine *watermark.Engine, store *content.Store, sink FrameSink, logger *log.Logger) *Manager {
	return &Manager{
		config:  cfg,
		engine:  engine,
		store:   store,
		sink:    sink,
		logger:  logger,
		pending: BackingSize(cfg.Width, cfg.Height, cfg.DevicePixelRatio),
	}
}

// BackingSize converts a display size in CSS pixels to buffer pixels: max(2, floor(css*dpr))
func BackingSize(cssWidth, cssHeight int, dpr float64) image.Point {
	if dpr <= 0 {
		dpr = 1
	}
	scale := func(v int) int {
		return max(2, int(math.Floor(float64(v)*dpr)))
	}
	return image.Pt(scale(cssWidth), scale(cssHeight))
}

// Start starts the preview loop
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	m.done = make(chan struct{})
	done := m.done
	interval := time.Duration(m.config.FrameIntervalMs) * time.Millisecond
	m.mu.Unlock()

	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.tick()
			}
		}
	}()
}

// Stop stops the preview loop and waits for an in-flight frame to finish. No frame is
// delivered to the sink after Stop returns.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	done := m.done
	m.mu.Unlock()

	<-done

	// Send clear command
	if c, ok := m.sink.(Clearer); ok {
		c.Clear()
	}
}

// Running reports whether the loop is active
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Resize sets the display size in CSS pixels. The buffer is reallocated before the next
// frame, and only if the backing size actually changed.
func (m *Manager) Resize(cssWidth, cssHeight int) image.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = BackingSize(cssWidth, cssHeight, m.config.DevicePixelRatio)
	return m.pending
}

// Configure applies a new display size and device pixel ratio before the next frame.
// The frame interval only changes when the loop is restarted.
func (m *Manager) Configure(cfg config.PreviewConfig) image.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
	m.pending = BackingSize(cfg.Width, cfg.Height, cfg.DevicePixelRatio)
	return m.pending
}

// SetEngine replaces the engine from the next frame on
func (m *Manager) SetEngine(engine *watermark.Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine = engine
}

// Size returns the backing size the next frame is drawn at
func (m *Manager) Size() image.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// SetSource switches the background. mirror flips it horizontally.
func (m *Manager) SetSource(src watermark.Source, mirror bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = src
	m.mirror = mirror
}

// Source returns the current background and whether it is mirrored
func (m *Manager) Source() (watermark.Source, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source, m.mirror
}

// Frames counts the frames rendered so far
func (m *Manager) Frames() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// RenderOnce renders a single preview frame outside the loop
func (m *Manager) RenderOnce() (watermark.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.render()
}

// tick performs a display update cycle. A failing frame is logged and the loop carries on.
func (m *Manager) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("preview frame panicked", "panic", r)
		}
	}()

	if _, err := m.render(); err != nil {
		m.logger.Warn("preview frame failed", "err", err)
	}
}

// render must be called with m.mu held
func (m *Manager) render() (watermark.Result, error) {
	if m.surface == nil || m.surface.Bounds().Size() != m.pending {
		m.surface = image.NewRGBA(image.Rectangle{Max: m.pending})
		m.logger.Debug("preview buffer resized", "size", m.pending)
	}

	snap := m.store.Load()
	res := m.engine.Compose(m.surface, watermark.Pass{
		Source:  m.source,
		Mirror:  m.mirror,
		Content: snap.Content,
		Corner:  snap.Corner,
	})
	m.frames++

	if m.sink == nil {
		return res, nil
	}
	if err := m.sink.WriteFrame(m.surface, res); err != nil {
		return res, fmt.Errorf("failed to deliver frame: %w", err)
	}
	return res, nil
}
