package watermark

import (
	"image"
	"math"
)

// Layout is the fully placed block for one render pass
type Layout struct {
	Metrics Metrics
	Corner  Corner
	Surface image.Point

	TimeText string
	DateText string
	DayText  string

	TimeWidth        float64
	RightColumnWidth float64
	TopRowWidth      float64
	TopRowHeight     float64
	AddressLines     []string
	AddressHeight    float64

	BlockWidth  float64
	BlockHeight float64

	// Anchor is the top-left corner of the block
	Anchor Point

	// Logo is the square bounding the logo circle; it is reserved even without a logo
	Logo Rect

	// Text positions are the top edge of each line's em box
	Time    Point
	Bar     Rect
	Date    Point
	Day     Point
	Address []Point
}

// Bounds returns the block's bounding rectangle
func (l Layout) Bounds() Rect {
	return Rect{X: l.Anchor.X, Y: l.Anchor.Y, W: l.BlockWidth, H: l.BlockHeight}
}

// Styles used for each text element
func timeStyle(m Metrics) TextStyle    { return TextStyle{Weight: Bold, Size: m.TimeFont} }
func metaStyle(m Metrics) TextStyle    { return TextStyle{Weight: Medium, Size: m.MetaFont} }
func addressStyle(m Metrics) TextStyle { return TextStyle{Weight: Regular, Size: m.AddressFont} }

// ComputeLayout measures the content and places the block in the chosen corner.
// A surface smaller than the block plus padding lets the block overflow; nothing is clamped.
func ComputeLayout(mes Measurer, c Content, m Metrics, surface image.Point, corner Corner) Layout {
	l := Layout{
		Metrics: m,
		Corner:  corner,
		Surface: surface,

		TimeText: c.Time,
		DateText: c.Date,
		DayText:  c.Day,
	}

	l.TimeWidth = mes.MeasureWidth(c.Time, timeStyle(m))
	l.RightColumnWidth = math.Max(
		mes.MeasureWidth(c.Date, metaStyle(m)),
		mes.MeasureWidth(c.Day, metaStyle(m)),
	)
	l.TopRowWidth = l.TimeWidth + m.Gap + m.BarWidth + m.Gap + l.RightColumnWidth
	l.TopRowHeight = m.TimeFont

	l.AddressLines = Wrap(mes, c.Address, addressStyle(m), math.Max(l.TopRowWidth, m.LogoDiameter))
	if n := float64(len(l.AddressLines)); n > 0 {
		l.AddressHeight = n*m.AddressFont + (n-1)*m.AddressLineGap
	}

	l.BlockWidth = math.Max(m.LogoDiameter, l.TopRowWidth)
	l.BlockHeight = m.LogoDiameter + m.Gap + l.TopRowHeight + m.Gap + l.AddressHeight

	x, y := m.OuterPad, m.OuterPad
	if corner.IsRight() {
		x = float64(surface.X) - m.OuterPad - l.BlockWidth
	}
	if corner.IsBottom() {
		y = float64(surface.Y) - m.OuterPad - l.BlockHeight
	}
	l.Anchor = Point{X: x, Y: y}

	l.Logo = Rect{X: x, Y: y, W: m.LogoDiameter, H: m.LogoDiameter}

	rowY := y + m.LogoDiameter + m.Gap
	l.Time = Point{X: x, Y: rowY}
	barX := x + l.TimeWidth + m.Gap
	l.Bar = Rect{X: barX, Y: rowY, W: m.BarWidth, H: l.TopRowHeight}
	metaX := barX + m.BarWidth + m.Gap
	l.Date = Point{X: metaX, Y: rowY}
	l.Day = Point{X: metaX, Y: rowY + m.MetaFont + m.MetaLineGap}

	addrY := rowY + l.TopRowHeight + m.Gap
	l.Address = make([]Point, len(l.AddressLines))
	for i := range l.AddressLines {
		l.Address[i] = Point{X: x, Y: addrY + float64(i)*(m.AddressFont+m.AddressLineGap)}
	}

	return l
}
