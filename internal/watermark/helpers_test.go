package watermark

import (
	"image"
	"image/color"
	"unicode/utf8"

	"golang.org/x/image/draw"
)

// fixedMeasurer gives every rune an advance of half the font size
type fixedMeasurer struct{}

func (fixedMeasurer) MeasureWidth(text string, style TextStyle) float64 {
	return float64(utf8.RuneCountInString(text)) * style.Size * 0.5
}

// imageSource is a background that is always ready
type imageSource struct {
	img image.Image
}

func (s imageSource) Ready() bool        { return s.img != nil }
func (s imageSource) Size() image.Point  { return s.img.Bounds().Size() }
func (s imageSource) Frame() image.Image { return s.img }

// sizedSource reports size regardless of the frame it returns
type sizedSource struct {
	img  image.Image
	size image.Point
}

func (s sizedSource) Ready() bool        { return true }
func (s sizedSource) Size() image.Point  { return s.size }
func (s sizedSource) Frame() image.Image { return s.img }

// notReady never has a frame
type notReady struct{}

func (notReady) Ready() bool        { return false }
func (notReady) Size() image.Point  { return image.Point{} }
func (notReady) Frame() image.Image { return nil }

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func sameRGBA(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
