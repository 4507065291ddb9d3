package watermark

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight picks one face of the embedded family: Regular for the address, Medium for
// date and day, Bold for the time
type Weight int

const (
	Regular Weight = iota
	Medium
	Bold
)

// TextStyle is a weight at a pixel size
type TextStyle struct {
	Weight Weight
	Size   float64
}

// Measurer reports the advance width of a string in surface pixels
type Measurer interface {
	MeasureWidth(text string, style TextStyle) float64
}

// FaceSource hands out drawable faces. FontSet implements both FaceSource and Measurer.
type FaceSource interface {
	Face(style TextStyle) font.Face
}

// maxCachedFaces bounds the face cache; preview resizes produce new sizes continuously
const maxCachedFaces = 64

// FontSet holds the parsed Go font family and caches faces per style.
// Cached faces keep glyph buffers, so each render path (preview, capture) owns its own set.
type FontSet struct {
	fonts map[Weight]*opentype.Font

	mu    sync.Mutex
	faces map[TextStyle]font.Face
}

// NewFontSet parses the embedded regular, medium and bold Go fonts
func NewFontSet() (*FontSet, error) {
	sources := map[Weight][]byte{
		Regular: goregular.TTF,
		Medium:  gomedium.TTF,
		Bold:    gobold.TTF,
	}

	fs := &FontSet{
		fonts: make(map[Weight]*opentype.Font, len(sources)),
		faces: make(map[TextStyle]font.Face),
	}
	for w, data := range sources {
		parsed, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		fs.fonts[w] = parsed
	}
	return fs, nil
}

// Face returns a face for style, creating and caching it on first use
func (fs *FontSet) Face(style TextStyle) font.Face {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if face, ok := fs.faces[style]; ok {
		return face
	}

	parsed, ok := fs.fonts[style.Weight]
	if !ok {
		parsed = fs.fonts[Regular]
	}
	size := style.Size
	if size <= 0 {
		size = 1
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// NewFace only fails on invalid options, which are fixed above
		panic(fmt.Sprintf("failed to create font face: %v", err))
	}

	if len(fs.faces) >= maxCachedFaces {
		fs.faces = make(map[TextStyle]font.Face)
	}
	fs.faces[style] = face
	return face
}

// MeasureWidth implements Measurer
func (fs *FontSet) MeasureWidth(text string, style TextStyle) float64 {
	if text == "" {
		return 0
	}
	adv := font.MeasureString(fs.Face(style), text)
	return float64(adv) / 64
}

// Wrap breaks text into lines no wider than maxWidth by greedy word accumulation.
// A word wider than maxWidth stays whole on its own line. Blank text yields no lines.
func Wrap(m Measurer, text string, style TextStyle, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if m.MeasureWidth(candidate, style) <= maxWidth {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}

	return lines
}
