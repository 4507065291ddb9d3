// Package source provides the two background variants the compositor draws from: a decoded
// still image and the latest frame of a live feed.
package source

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/pleimann/stampcam/internal/watermark"
)

var (
	_ watermark.Source = (*Still)(nil)
	_ watermark.Source = (*Live)(nil)
)

// Still is a fully decoded image. It is ready as soon as it holds a non-empty image.
type Still struct {
	img image.Image
}

// NewStill wraps an already decoded image
func NewStill(img image.Image) *Still {
	return &Still{img: img}
}

// LoadStill decodes an image file, applying its EXIF orientation
func LoadStill(path string) (*Still, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return NewStill(img), nil
}

func (s *Still) Ready() bool {
	return s != nil && s.img != nil && !s.img.Bounds().Empty()
}

func (s *Still) Size() image.Point {
	if !s.Ready() {
		return image.Point{}
	}
	return s.img.Bounds().Size()
}

func (s *Still) Frame() image.Image {
	if s == nil {
		return nil
	}
	return s.img
}

// Live holds the most recent frame of a camera feed. It is not ready until the first
// non-empty frame is pushed.
type Live struct {
	mu     sync.RWMutex
	frame  image.Image
	frames uint64
}

// NewLive creates a feed with no frame yet
func NewLive() *Live {
	return &Live{}
}

// Push replaces the current frame. Pushing nil drops back to not ready.
func (l *Live) Push(img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frame = img
	if img != nil {
		l.frames++
	}
}

// Frames counts the frames pushed so far
func (l *Live) Frames() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frames
}

func (l *Live) Ready() bool {
	if l == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frame != nil && !l.frame.Bounds().Empty()
}

func (l *Live) Size() image.Point {
	if l == nil {
		return image.Point{}
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.frame == nil {
		return image.Point{}
	}
	return l.frame.Bounds().Size()
}

func (l *Live) Frame() image.Image {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frame
}
