package display

import (
	"errors"
	"image"
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/pleimann/stampcam/internal/config"
	"github.com/pleimann/stampcam/internal/content"
	"github.com/pleimann/stampcam/internal/watermark"
)

// ErrSourceNotReady is returned by Capture when the background has no frame yet
var ErrSourceNotReady = errors.New("background source not ready")

// aspectTolerance is the relative aspect ratio difference tolerated between preview and capture
const aspectTolerance = 0.01

// Capturer renders single frames offscreen at the capture resolution. It owns its engine
// and never touches the preview buffer. Captures are serialized: the engine's font faces
// are not safe for concurrent use.
type Capturer struct {
	size   image.Point
	logger *log.Logger

	mu     sync.Mutex
	engine *watermark.Engine
}

// NewCapturer creates a capturer for cfg's target resolution
func NewCapturer(cfg config.CaptureConfig, engine *watermark.Engine, logger *log.Logger) *Capturer {
	return &Capturer{
		engine: engine,
		size:   image.Pt(cfg.Width, cfg.Height),
		logger: logger,
	}
}

// Size returns the capture resolution
func (c *Capturer) Size() image.Point {
	return c.size
}

// SetEngine replaces the engine used by later captures
func (c *Capturer) SetEngine(engine *watermark.Engine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = engine
}

// Capture composes background and watermark once from snap. The returned image is new for
// every call. Concurrent calls run one at a time.
func (c *Capturer) Capture(src watermark.Source, mirror bool, snap content.Snapshot) (*image.RGBA, error) {
	if src == nil || !src.Ready() {
		return nil, ErrSourceNotReady
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dst := image.NewRGBA(image.Rectangle{Max: c.size})
	res := c.engine.Compose(dst, watermark.Pass{
		Source:  src,
		Mirror:  mirror,
		Content: snap.Content,
		Corner:  snap.Corner,
	})

	c.logger.Debug("captured",
		"size", c.size,
		"corner", snap.Corner,
		"luminance", math.Round(res.Luminance),
		"text", res.TextColor,
		"address_lines", len(res.Layout.AddressLines),
	)
	return dst, nil
}

// CheckAspect logs a warning when preview and capture aspect ratios differ by more than 1%.
// It reports whether they match.
func (c *Capturer) CheckAspect(preview image.Point) bool {
	if AspectMatches(preview, c.size) {
		return true
	}
	c.logger.Warn("preview and capture aspect ratios differ",
		"preview", preview,
		"capture", c.size,
	)
	return false
}

// AspectMatches reports whether a and b have the same aspect ratio within 1%
func AspectMatches(a, b image.Point) bool {
	if a.X <= 0 || a.Y <= 0 || b.X <= 0 || b.Y <= 0 {
		return false
	}
	ra := float64(a.X) / float64(a.Y)
	rb := float64(b.X) / float64(b.Y)
	return math.Abs(ra-rb)/rb <= aspectTolerance
}
