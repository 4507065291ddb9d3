package watermark

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Renderer paints a computed layout onto a surface
type Renderer struct {
	faces  FaceSource
	accent color.Color
}

// NewRenderer creates a renderer drawing glyphs from faces; a nil accent uses DefaultAccent
func NewRenderer(faces FaceSource, accent color.Color) *Renderer {
	if accent == nil {
		accent = DefaultAccent
	}
	return &Renderer{
		faces:  faces,
		accent: accent,
	}
}

// Paint draws, in order: the circular logo, the time, the accent bar, date and day, then the
// address lines. Everything except the bar uses tc. A nil logo leaves its circle empty.
func (r *Renderer) Paint(dst draw.Image, l Layout, tc TextColor, logo image.Image) {
	if logo != nil {
		r.drawLogo(dst, l.Logo, logo)
	}

	ink := image.NewUniform(tc.RGBA())
	m := l.Metrics

	r.drawString(dst, l.TimeText, l.Time, timeStyle(m), ink)

	draw.Draw(dst, l.Bar.Image(), image.NewUniform(r.accent), image.Point{}, draw.Over)

	r.drawString(dst, l.DateText, l.Date, metaStyle(m), ink)
	r.drawString(dst, l.DayText, l.Day, metaStyle(m), ink)

	for i, line := range l.AddressLines {
		r.drawString(dst, line, l.Address[i], addressStyle(m), ink)
	}
}

// drawLogo cover-fits the logo into the square and clips it to the inscribed circle
func (r *Renderer) drawLogo(dst draw.Image, area Rect, logo image.Image) {
	d := round(area.W)
	if d <= 0 || logo.Bounds().Empty() {
		return
	}

	filled := imaging.Fill(logo, d, d, imaging.Center, imaging.Lanczos)

	dc := gg.NewContext(d, d)
	radius := float64(d) / 2
	dc.DrawCircle(radius, radius, radius)
	dc.Clip()
	dc.DrawImage(filled, 0, 0)

	origin := image.Pt(round(area.X), round(area.Y))
	target := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(d, d))}
	draw.Draw(dst, target, dc.Image(), image.Point{}, draw.Over)
}

// drawString draws text with the top of its em box at pos
func (r *Renderer) drawString(dst draw.Image, text string, pos Point, style TextStyle, src image.Image) {
	if text == "" {
		return
	}
	face := r.faces.Face(style)
	d := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(pos.X * 64),
			Y: fixed.Int26_6(pos.Y*64) + face.Metrics().Ascent,
		},
	}
	d.DrawString(text)
}
