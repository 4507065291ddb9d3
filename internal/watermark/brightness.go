package watermark

import (
	"errors"
	"image"
)

const (
	// sampleStride reads every 10th pixel of the area, row-major
	sampleStride = 10
	// lightTextThreshold: luminance strictly below this gets light text
	lightTextThreshold = 128
	// brightFallback is reported when the pixels cannot be read
	brightFallback = 255
)

// ErrUnreadable reports a sampling area that is empty or not inside the surface
var ErrUnreadable = errors.New("pixel data unreadable")

// SampleBrightness returns the mean luma (0.299R + 0.587G + 0.114B) of every 10th pixel in r.
// It must run after the background is painted and before any watermark pixel is. Any read
// failure yields 255, so the caller falls back to dark text.
func SampleBrightness(surface image.Image, r Rect) float64 {
	lum, err := readLuminance(surface, r.Image())
	if err != nil {
		return brightFallback
	}
	return lum
}

// ChooseTextColor picks light text on a dark background and dark text otherwise
func ChooseTextColor(luminance float64) TextColor {
	if luminance < lightTextThreshold {
		return Light
	}
	return Dark
}

func readLuminance(surface image.Image, area image.Rectangle) (float64, error) {
	if surface == nil || area.Empty() || !area.In(surface.Bounds()) {
		return 0, ErrUnreadable
	}

	w := area.Dx()
	n := w * area.Dy()

	var total float64
	var count int
	if rgba, ok := surface.(*image.RGBA); ok {
		for p := 0; p < n; p += sampleStride {
			off := rgba.PixOffset(area.Min.X+p%w, area.Min.Y+p/w)
			px := rgba.Pix[off : off+3 : off+3]
			total += luma(float64(px[0]), float64(px[1]), float64(px[2]))
			count++
		}
	} else {
		for p := 0; p < n; p += sampleStride {
			r, g, b, _ := surface.At(area.Min.X+p%w, area.Min.Y+p/w).RGBA()
			total += luma(float64(r>>8), float64(g>>8), float64(b>>8))
			count++
		}
	}

	return total / float64(count), nil
}

func luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}
