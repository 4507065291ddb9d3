package display

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lestrrat-go/strftime"

	"github.com/pleimann/stampcam/internal/config"
)

// Exporter encodes finished captures as JPEG and names them by capture time
type Exporter struct {
	dir     string
	quality int
	pattern *strftime.Strftime
}

// NewExporter creates an exporter. An empty filename pattern names files <unix-ms>.jpg;
// otherwise the pattern is strftime with %L for milliseconds and %s for unix seconds.
func NewExporter(cfg config.CaptureConfig) (*Exporter, error) {
	e := &Exporter{
		dir:     cfg.OutputDir,
		quality: cfg.JPEGQuality,
	}
	if e.quality <= 0 {
		e.quality = 95
	}
	if cfg.FilenamePattern != "" {
		p, err := strftime.New(cfg.FilenamePattern,
			strftime.WithMilliseconds('L'),
			strftime.WithUnixSeconds('s'),
		)
		if err != nil {
			return nil, fmt.Errorf("invalid filename pattern: %w", err)
		}
		e.pattern = p
	}
	return e, nil
}

// Filename returns the file name for a capture taken at now
func (e *Exporter) Filename(now time.Time) string {
	if e.pattern == nil {
		return strconv.FormatInt(now.UnixMilli(), 10) + ".jpg"
	}
	name := e.pattern.FormatString(now)
	if filepath.Ext(name) == "" {
		name += ".jpg"
	}
	return name
}

// Encode writes img as JPEG at the configured quality
func (e *Exporter) Encode(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(e.quality)); err != nil {
		return fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return nil
}

// Export writes img into the output directory and returns the file's path
func (e *Exporter) Export(img image.Image, now time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(e.dir, e.Filename(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := e.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
