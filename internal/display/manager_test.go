package display

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/pleimann/stampcam/internal/config"
	"github.com/pleimann/stampcam/internal/content"
	"github.com/pleimann/stampcam/internal/watermark"
)

func previewConfig() config.PreviewConfig {
	return config.PreviewConfig{Width: 300, Height: 400, DevicePixelRatio: 1, FrameIntervalMs: 5}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestBackingSize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		dpr  float64
		want image.Point
	}{
		{"unit ratio", 300, 400, 1, image.Pt(300, 400)},
		{"retina", 300, 400, 2, image.Pt(600, 800)},
		{"fractional floors", 301, 401, 1.5, image.Pt(451, 601)},
		{"zero ratio means one", 300, 400, 0, image.Pt(300, 400)},
		{"minimum of two", 0, 1, 1, image.Pt(2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BackingSize(tt.w, tt.h, tt.dpr); got != tt.want {
				t.Errorf("BackingSize(%d, %d, %v) = %v, want %v", tt.w, tt.h, tt.dpr, got, tt.want)
			}
		})
	}
}

func TestManagerRenderOnce(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager(previewConfig(), newEngine(t), testStore(), sink, quietLogger())
	m.SetSource(solidSource(30, 40, color.RGBA{20, 20, 20, 255}), false)

	res, err := m.RenderOnce()
	if err != nil {
		t.Fatalf("RenderOnce() error = %v", err)
	}
	if !res.Background {
		t.Error("Background = false, want true")
	}
	if res.TextColor != watermark.Light {
		t.Errorf("TextColor = %s, want light", res.TextColor)
	}
	if res.Layout.Corner != watermark.BottomRight {
		t.Errorf("Corner = %s, want bottom-right", res.Layout.Corner)
	}
	if size, _ := sink.last(); size != image.Pt(300, 400) {
		t.Errorf("frame size = %v, want (300,400)", size)
	}
}

func TestManagerNotReadySourceStillRenders(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager(previewConfig(), newEngine(t), testStore(), sink, quietLogger())

	res, err := m.RenderOnce()
	if err != nil {
		t.Fatalf("RenderOnce() error = %v", err)
	}
	if res.Background {
		t.Error("Background = true without a source")
	}
	if sink.count() != 1 {
		t.Errorf("frames = %d, want 1", sink.count())
	}
}

func TestManagerResize(t *testing.T) {
	sink := &recordingSink{}
	cfg := previewConfig()
	cfg.DevicePixelRatio = 2
	m := NewManager(cfg, newEngine(t), testStore(), sink, quietLogger())

	if got := m.Size(); got != image.Pt(600, 800) {
		t.Fatalf("initial Size() = %v, want (600,800)", got)
	}

	if got := m.Resize(150, 200); got != image.Pt(300, 400) {
		t.Errorf("Resize() = %v, want (300,400)", got)
	}
	if _, err := m.RenderOnce(); err != nil {
		t.Fatalf("RenderOnce() error = %v", err)
	}
	size, res := sink.last()
	if size != image.Pt(300, 400) {
		t.Errorf("frame size = %v, want (300,400)", size)
	}
	if res.Layout.Surface != image.Pt(300, 400) {
		t.Errorf("layout surface = %v, want (300,400)", res.Layout.Surface)
	}
}

func TestManagerConfigureChangesPixelRatio(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager(previewConfig(), newEngine(t), testStore(), sink, quietLogger())

	cfg := previewConfig()
	cfg.DevicePixelRatio = 2
	if got := m.Configure(cfg); got != image.Pt(600, 800) {
		t.Errorf("Configure() = %v, want (600,800)", got)
	}

	// later resizes keep the new ratio
	if got := m.Resize(100, 100); got != image.Pt(200, 200) {
		t.Errorf("Resize() = %v, want (200,200)", got)
	}
	if _, err := m.RenderOnce(); err != nil {
		t.Fatalf("RenderOnce() error = %v", err)
	}
	if size, _ := sink.last(); size != image.Pt(200, 200) {
		t.Errorf("frame size = %v, want (200,200)", size)
	}
}

func TestManagerSetEngine(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager(previewConfig(), newEngine(t), testStore(), sink, quietLogger())
	m.SetSource(solidSource(30, 40, color.RGBA{20, 20, 20, 255}), false)

	fonts, err := watermark.NewFontSet()
	if err != nil {
		t.Fatal(err)
	}
	blue := color.RGBA{0, 0, 255, 255}
	m.SetEngine(watermark.NewEngine(fonts, blue, nil))

	m.mu.Lock()
	res, err := m.render()
	surface := m.surface
	m.mu.Unlock()
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	bar := res.Layout.Bar.Image()
	mid := image.Pt((bar.Min.X+bar.Max.X)/2, (bar.Min.Y+bar.Max.Y)/2)
	if got := surface.RGBAAt(mid.X, mid.Y); got != blue {
		t.Errorf("bar pixel = %v, want the new accent %v", got, blue)
	}
}

func TestManagerPicksUpContentChanges(t *testing.T) {
	sink := &recordingSink{}
	store := testStore()
	m := NewManager(previewConfig(), newEngine(t), store, sink, quietLogger())

	if _, err := m.RenderOnce(); err != nil {
		t.Fatalf("RenderOnce() error = %v", err)
	}
	store.Update(func(s *content.Snapshot) {
		s.Corner = watermark.TopLeft
		s.Content.Time = "23:59"
	})
	if _, err := m.RenderOnce(); err != nil {
		t.Fatalf("RenderOnce() error = %v", err)
	}

	_, res := sink.last()
	if res.Layout.Corner != watermark.TopLeft || res.Layout.TimeText != "23:59" {
		t.Errorf("layout = %s %q, want top-left 23:59", res.Layout.Corner, res.Layout.TimeText)
	}
}

func TestManagerStartStop(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager(previewConfig(), newEngine(t), testStore(), sink, quietLogger())
	m.SetSource(solidSource(30, 40, color.RGBA{200, 200, 200, 255}), true)

	m.Start(context.Background())
	if !m.Running() {
		t.Error("Running() = false after Start")
	}
	waitFor(t, "frames", func() bool { return sink.count() >= 3 })

	m.Stop()
	if m.Running() {
		t.Error("Running() = true after Stop")
	}
	stopped := sink.count()
	time.Sleep(30 * time.Millisecond)
	if got := sink.count(); got != stopped {
		t.Errorf("frames after Stop = %d, want %d", got, stopped)
	}
	if !sink.cleared {
		t.Error("sink was not cleared on Stop")
	}

	// Stop is idempotent
	m.Stop()
}

func TestManagerStopsOnContextCancel(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager(previewConfig(), newEngine(t), testStore(), sink, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	waitFor(t, "first frame", func() bool { return sink.count() >= 1 })
	cancel()

	time.Sleep(20 * time.Millisecond)
	n := sink.count()
	time.Sleep(30 * time.Millisecond)
	if sink.count() != n {
		t.Error("frames still delivered after the context was cancelled")
	}
	m.Stop()
}

func TestManagerRecoversPanickingFrame(t *testing.T) {
	sink := &recordingSink{panicN: 2}
	m := NewManager(previewConfig(), newEngine(t), testStore(), sink, quietLogger())

	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, "frames after panics", func() bool { return sink.count() >= 2 })
}
