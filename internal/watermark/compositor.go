package watermark

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Source is a background that may not have a displayable frame yet. A live camera feed and a
// decoded still image are the two variants.
type Source interface {
	// Ready reports whether Frame currently returns a drawable, non-empty image
	Ready() bool
	// Size is the current natural size of the frame
	Size() image.Point
	// Frame returns the latest frame
	Frame() image.Image
}

// CoverFit scales src to fully cover dst while keeping its aspect ratio, centred, with the
// overflow cropped evenly from both sides. Dimensions are floored.
func CoverFit(src, dst image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 {
		return image.Rectangle{}
	}
	s := math.Max(float64(dst.X)/float64(src.X), float64(dst.Y)/float64(src.Y))
	dw := int(math.Floor(float64(src.X) * s))
	dh := int(math.Floor(float64(src.Y) * s))
	dx := int(math.Floor(float64(dst.X-dw) / 2))
	dy := int(math.Floor(float64(dst.Y-dh) / 2))
	return image.Rect(dx, dy, dx+dw, dy+dh)
}

// DrawBackground paints the source cover-fitted onto dst, flipped about dst's vertical centre
// line when mirror is set. The fit is computed from the source's reported size. It returns
// false, painting nothing, if the source is not ready or reports an empty size.
func DrawBackground(dst draw.Image, src Source, mirror bool, q draw.Interpolator) bool {
	if src == nil || !src.Ready() {
		return false
	}
	size := src.Size()
	frame := src.Frame()
	if frame == nil || size.X <= 0 || size.Y <= 0 {
		return false
	}
	sb := frame.Bounds()
	if sb.Empty() {
		return false
	}
	// A live feed can advance between Size and Frame; the frame in hand is what gets drawn
	if sb.Size() != size {
		size = sb.Size()
	}
	if q == nil {
		q = draw.ApproxBiLinear
	}

	db := dst.Bounds()
	cover := CoverFit(size, db.Size())
	if cover.Empty() {
		return false
	}

	sx := float64(cover.Dx()) / float64(sb.Dx())
	sy := float64(cover.Dy()) / float64(sb.Dy())

	// Maps source pixel coordinates to destination coordinates
	s2d := f64.Aff3{
		sx, 0, float64(db.Min.X+cover.Min.X) - sx*float64(sb.Min.X),
		0, sy, float64(db.Min.Y+cover.Min.Y) - sy*float64(sb.Min.Y),
	}
	if mirror {
		s2d[0] = -sx
		s2d[2] = float64(db.Min.X+db.Dx()-cover.Min.X) + sx*float64(sb.Min.X)
	}

	q.Transform(dst, s2d, frame, sb, draw.Src, nil)
	return true
}
