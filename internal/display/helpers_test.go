package display

import (
	"image"
	"image/color"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/pleimann/stampcam/internal/content"
	"github.com/pleimann/stampcam/internal/source"
	"github.com/pleimann/stampcam/internal/watermark"
)

func newEngine(t *testing.T) *watermark.Engine {
	t.Helper()
	fonts, err := watermark.NewFontSet()
	if err != nil {
		t.Fatalf("NewFontSet() error = %v", err)
	}
	return watermark.NewEngine(fonts, nil, draw.NearestNeighbor)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func solidSource(w, h int, c color.Color) *source.Still {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return source.NewStill(img)
}

func testStore() *content.Store {
	return content.NewStore(content.Snapshot{
		Content: watermark.Content{
			Time:    "14:05",
			Date:    "12/05/2024",
			Day:     "Minggu",
			Address: "Jl. Contoh No. 1, Kota Y",
		},
		Corner: watermark.BottomRight,
	})
}

// recordingSink remembers the size of every frame it receives
type recordingSink struct {
	mu      sync.Mutex
	sizes   []image.Point
	results []watermark.Result
	cleared bool
	panicN  int
}

func (s *recordingSink) WriteFrame(img *image.RGBA, res watermark.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicN > 0 {
		s.panicN--
		panic("sink exploded")
	}
	s.sizes = append(s.sizes, img.Bounds().Size())
	s.results = append(s.results, res)
	return nil
}

func (s *recordingSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = true
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sizes)
}

func (s *recordingSink) last() (image.Point, watermark.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sizes) == 0 {
		return image.Point{}, watermark.Result{}
	}
	return s.sizes[len(s.sizes)-1], s.results[len(s.results)-1]
}
