package display

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/pleimann/stampcam/internal/watermark"
)

// FrameBuffer keeps the latest preview frame, both raw and JPEG encoded, and wakes
// subscribers when a new one arrives
type FrameBuffer struct {
	quality int

	mu     sync.RWMutex
	img    *image.RGBA
	jpeg   []byte
	result watermark.Result
	seq    uint64
	subs   map[chan struct{}]struct{}
}

// NewFrameBuffer creates an empty buffer encoding frames at the given JPEG quality
func NewFrameBuffer(quality int) *FrameBuffer {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &FrameBuffer{
		quality: quality,
		subs:    make(map[chan struct{}]struct{}),
	}
}

// WriteFrame copies img and encodes it
func (b *FrameBuffer) WriteFrame(img *image.RGBA, res watermark.Result) error {
	cp := image.NewRGBA(img.Bounds())
	draw.Draw(cp, cp.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cp, imaging.JPEG, imaging.JPEGQuality(b.quality)); err != nil {
		return fmt.Errorf("failed to encode preview frame: %w", err)
	}

	b.mu.Lock()
	b.img = cp
	b.jpeg = buf.Bytes()
	b.result = res
	b.seq++
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
	return nil
}

// JPEG returns the latest encoded frame and its sequence number; nil before the first frame
func (b *FrameBuffer) JPEG() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.seq
}

// Image returns the latest frame
func (b *FrameBuffer) Image() *image.RGBA {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.img
}

// Result returns the render result of the latest frame
func (b *FrameBuffer) Result() watermark.Result {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.result
}

// Subscribe returns a channel signalled after each new frame and a function that
// unsubscribes it
func (b *FrameBuffer) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
}

// Clear drops the latest frame
func (b *FrameBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.img = nil
	b.jpeg = nil
	b.result = watermark.Result{}
}
