// Package watermark lays out and paints the timestamp block (logo, time, date/day, address)
// over a background frame. Every geometric quantity derives from the smaller surface edge so a
// small preview and a large capture produce the same composition at different scales.
package watermark

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Corner selects where the block is anchored on the surface
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// IsRight reports whether the block hugs the right edge
func (c Corner) IsRight() bool {
	return c == TopRight || c == BottomRight
}

// IsBottom reports whether the block hugs the bottom edge
func (c Corner) IsBottom() bool {
	return c == BottomLeft || c == BottomRight
}

// ParseCorner accepts "top-left", "top-right", "bottom-left" and "bottom-right"
// (underscores and case are tolerated)
func ParseCorner(s string) (Corner, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, c := range Corners() {
		if c.String() == norm {
			return c, nil
		}
	}
	return TopLeft, fmt.Errorf("unknown corner %q", s)
}

// Corners lists every corner in declaration order
func Corners() []Corner {
	return []Corner{TopLeft, TopRight, BottomLeft, BottomRight}
}

// MarshalText implements encoding.TextMarshaler
func (c Corner) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Corner) UnmarshalText(text []byte) error {
	parsed, err := ParseCorner(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Content is a read-only snapshot of what the block shows. Logo may be nil.
type Content struct {
	Time    string
	Date    string
	Day     string
	Address string
	Logo    image.Image
}

// Point is a position in surface pixels
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned area in surface pixels
type Rect struct {
	X, Y, W, H float64
}

// Image converts r to integer pixel bounds, rounding each edge
func (r Rect) Image() image.Rectangle {
	return image.Rect(round(r.X), round(r.Y), round(r.X+r.W), round(r.Y+r.H))
}

// TextColor is the binary contrast choice made from the sampled background
type TextColor int

const (
	Dark TextColor = iota
	Light
)

func (t TextColor) String() string {
	if t == Light {
		return "light"
	}
	return "dark"
}

// RGBA returns white for Light and black for Dark
func (t TextColor) RGBA() color.RGBA {
	if t == Light {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{0, 0, 0, 255}
}

// DefaultAccent is the divider bar color
var DefaultAccent = color.RGBA{0xF5, 0xB7, 0x00, 0xFF}

func round(v float64) int {
	if v < 0 {
		return -int(-v + 0.5)
	}
	return int(v + 0.5)
}
