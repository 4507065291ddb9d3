package display

import (
	"bytes"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/pleimann/stampcam/internal/watermark"
)

func TestFrameBuffer(t *testing.T) {
	b := NewFrameBuffer(80)
	if data, seq := b.JPEG(); data != nil || seq != 0 {
		t.Fatalf("empty buffer JPEG() = %d bytes, seq %d", len(data), seq)
	}

	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	img.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
	if err := b.WriteFrame(img, watermark.Result{TextColor: watermark.Light}); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}

	// the buffer keeps a copy
	img.SetRGBA(1, 1, color.RGBA{0, 255, 0, 255})
	if got := b.Image().RGBAAt(1, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("stored pixel = %v, want red", got)
	}

	data, seq := b.JPEG()
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}
	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Bounds().Size() != image.Pt(16, 12) {
		t.Errorf("decoded size = %v", decoded.Bounds().Size())
	}
	if b.Result().TextColor != watermark.Light {
		t.Errorf("Result() = %+v", b.Result())
	}

	b.Clear()
	if data, _ := b.JPEG(); data != nil || b.Image() != nil {
		t.Error("Clear() kept the frame")
	}
}

func TestFrameBufferSubscribe(t *testing.T) {
	b := NewFrameBuffer(80)
	ch, cancel := b.Subscribe()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := b.WriteFrame(img, watermark.Result{}); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	// a slow subscriber does not block the writer
	if err := b.WriteFrame(img, watermark.Result{}); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("subscriber was not signalled")
	}

	cancel()
	if err := b.WriteFrame(img, watermark.Result{}); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	select {
	case <-ch:
		t.Error("signalled after unsubscribing")
	default:
	}
}
