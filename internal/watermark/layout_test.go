package watermark

import (
	"image"
	"math"
	"testing"
)

var sampleContent = Content{
	Time:    "14:05",
	Date:    "12/05/2024",
	Day:     "Minggu",
	Address: "Jl. Contoh No. 1, Kota Y",
}

func TestComputeLayoutInvariants(t *testing.T) {
	surface := image.Pt(900, 1200)
	m := MetricsFor(surface.X, surface.Y)
	l := ComputeLayout(fixedMeasurer{}, sampleContent, m, surface, TopLeft)

	// 5 runes at 45px, 10 runes at 18px
	if l.TimeWidth != 5*m.TimeFont/2 {
		t.Errorf("TimeWidth = %v, want %v", l.TimeWidth, 5*m.TimeFont/2)
	}
	if l.RightColumnWidth != 10*m.MetaFont/2 {
		t.Errorf("RightColumnWidth = %v, want %v", l.RightColumnWidth, 10*m.MetaFont/2)
	}
	wantTop := l.TimeWidth + m.Gap + m.BarWidth + m.Gap + l.RightColumnWidth
	if l.TopRowWidth != wantTop {
		t.Errorf("TopRowWidth = %v, want %v", l.TopRowWidth, wantTop)
	}
	if l.BlockWidth != math.Max(m.LogoDiameter, l.TopRowWidth) {
		t.Errorf("BlockWidth = %v, want max(logo, top row)", l.BlockWidth)
	}
	n := float64(len(l.AddressLines))
	wantAddr := n*m.AddressFont + (n-1)*m.AddressLineGap
	if l.AddressHeight != wantAddr {
		t.Errorf("AddressHeight = %v, want %v", l.AddressHeight, wantAddr)
	}
	wantH := m.LogoDiameter + m.Gap + m.TimeFont + m.Gap + l.AddressHeight
	if l.BlockHeight != wantH {
		t.Errorf("BlockHeight = %v, want %v", l.BlockHeight, wantH)
	}
	if l.Anchor != (Point{X: m.OuterPad, Y: m.OuterPad}) {
		t.Errorf("Anchor = %+v, want (%v, %v)", l.Anchor, m.OuterPad, m.OuterPad)
	}
}

func TestComputeLayoutElementPositions(t *testing.T) {
	surface := image.Pt(900, 1200)
	m := MetricsFor(surface.X, surface.Y)
	c := sampleContent
	c.Address = "one two three four five six seven eight nine ten eleven twelve thirteen"
	l := ComputeLayout(fixedMeasurer{}, c, m, surface, TopLeft)

	rowY := l.Anchor.Y + m.LogoDiameter + m.Gap
	if l.Time != (Point{X: l.Anchor.X, Y: rowY}) {
		t.Errorf("Time = %+v, want (%v, %v)", l.Time, l.Anchor.X, rowY)
	}
	if l.Bar.X != l.Anchor.X+l.TimeWidth+m.Gap || l.Bar.W != m.BarWidth || l.Bar.H != m.TimeFont {
		t.Errorf("Bar = %+v", l.Bar)
	}
	if l.Date.X != l.Bar.X+m.BarWidth+m.Gap || l.Date.Y != rowY {
		t.Errorf("Date = %+v", l.Date)
	}
	if l.Day.X != l.Date.X || l.Day.Y != rowY+m.MetaFont+m.MetaLineGap {
		t.Errorf("Day = %+v", l.Day)
	}
	if len(l.AddressLines) < 2 {
		t.Fatalf("len(AddressLines) = %d, want wrapping", len(l.AddressLines))
	}
	for i, p := range l.Address {
		want := rowY + m.TimeFont + m.Gap + float64(i)*(m.AddressFont+m.AddressLineGap)
		if p.X != l.Anchor.X || p.Y != want {
			t.Errorf("Address[%d] = %+v, want (%v, %v)", i, p, l.Anchor.X, want)
		}
	}
	last := l.Address[len(l.Address)-1].Y + m.AddressFont
	if math.Abs(last-(l.Anchor.Y+l.BlockHeight)) > 1e-9 {
		t.Errorf("last address line ends at %v, block ends at %v", last, l.Anchor.Y+l.BlockHeight)
	}
}

func TestComputeLayoutCorners(t *testing.T) {
	surface := image.Pt(900, 1200)
	m := MetricsFor(surface.X, surface.Y)

	for _, corner := range Corners() {
		t.Run(corner.String(), func(t *testing.T) {
			l := ComputeLayout(fixedMeasurer{}, sampleContent, m, surface, corner)

			wantX := m.OuterPad
			if corner.IsRight() {
				wantX = 900 - m.OuterPad - l.BlockWidth
			}
			wantY := m.OuterPad
			if corner.IsBottom() {
				wantY = 1200 - m.OuterPad - l.BlockHeight
			}
			if l.Anchor.X != wantX || l.Anchor.Y != wantY {
				t.Errorf("Anchor = %+v, want (%v, %v)", l.Anchor, wantX, wantY)
			}
			if l.Anchor.X < 0 || l.Anchor.Y < 0 {
				t.Errorf("Anchor = %+v, want non-negative", l.Anchor)
			}
		})
	}
}

func TestComputeLayoutNoOverflowIsNonNegative(t *testing.T) {
	sizes := []image.Point{{240, 320}, {300, 400}, {640, 480}, {1080, 1920}, {3000, 4000}}

	for _, size := range sizes {
		m := MetricsFor(size.X, size.Y)
		for _, corner := range Corners() {
			l := ComputeLayout(fixedMeasurer{}, sampleContent, m, size, corner)
			fitsX := l.BlockWidth+2*m.OuterPad <= float64(size.X)
			fitsY := l.BlockHeight+2*m.OuterPad <= float64(size.Y)
			if fitsX && l.Anchor.X < 0 {
				t.Errorf("%v %s: x = %v, want >= 0", size, corner, l.Anchor.X)
			}
			if fitsY && l.Anchor.Y < 0 {
				t.Errorf("%v %s: y = %v, want >= 0", size, corner, l.Anchor.Y)
			}
		}
	}
}

func TestComputeLayoutOverflowIsNotClamped(t *testing.T) {
	surface := image.Pt(100, 100)
	m := MetricsFor(surface.X, surface.Y)
	l := ComputeLayout(fixedMeasurer{}, sampleContent, m, surface, BottomRight)

	if l.Anchor.X >= 0 || l.Anchor.Y >= 0 {
		t.Errorf("Anchor = %+v, want negative coordinates for an oversized block", l.Anchor)
	}
}

func TestComputeLayoutEmptyContent(t *testing.T) {
	surface := image.Pt(900, 1200)
	m := MetricsFor(surface.X, surface.Y)
	l := ComputeLayout(fixedMeasurer{}, Content{}, m, surface, BottomLeft)

	if len(l.AddressLines) != 0 || l.AddressHeight != 0 {
		t.Errorf("address = %q (%v), want none", l.AddressLines, l.AddressHeight)
	}
	if l.TimeWidth != 0 || l.RightColumnWidth != 0 {
		t.Errorf("text widths = %v, %v, want 0", l.TimeWidth, l.RightColumnWidth)
	}
	if l.BlockWidth != m.LogoDiameter {
		t.Errorf("BlockWidth = %v, want logo diameter %v", l.BlockWidth, m.LogoDiameter)
	}
	wantH := m.LogoDiameter + m.Gap + m.TimeFont + m.Gap
	if l.BlockHeight != wantH {
		t.Errorf("BlockHeight = %v, want %v", l.BlockHeight, wantH)
	}
}

func TestComputeLayoutBottomRightScenario(t *testing.T) {
	fonts := mustFontSet(t)
	surface := image.Pt(900, 1200)
	m := MetricsFor(surface.X, surface.Y)
	l := ComputeLayout(fonts, sampleContent, m, surface, BottomRight)

	if got, want := l.Anchor.X, 900-m.OuterPad-l.BlockWidth; got != want {
		t.Errorf("x = %v, want %v", got, want)
	}
	if got, want := l.Anchor.Y, 1200-m.OuterPad-l.BlockHeight; got != want {
		t.Errorf("y = %v, want %v", got, want)
	}
	if len(l.AddressLines) == 0 {
		t.Error("address produced no lines")
	}
}

func TestComputeLayoutScaleConsistency(t *testing.T) {
	// No floor binds above base 834, and at multiples of base 500/3 the floored address
	// line gap is exact, so these layouts are similar
	tests := []struct {
		name  string
		small image.Point
		k     int
	}{
		{"3x", image.Pt(1000, 1250), 3},
		{"2x landscape", image.Pt(1500, 1000), 2},
		{"4x square", image.Pt(1000, 1000), 4},
	}

	content := sampleContent
	content.Address = "Yayasan Widya Dharma, Sukasada, Kabupaten Buleleng, Bali, 81161"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			large := tt.small.Mul(tt.k)
			for _, corner := range Corners() {
				a := ComputeLayout(fixedMeasurer{}, content, MetricsFor(tt.small.X, tt.small.Y), tt.small, corner)
				b := ComputeLayout(fixedMeasurer{}, content, MetricsFor(large.X, large.Y), large, corner)

				if len(a.AddressLines) != len(b.AddressLines) {
					t.Fatalf("%s: line counts %d vs %d", corner, len(a.AddressLines), len(b.AddressLines))
				}
				assertClose(t, "blockWidth/W", a.BlockWidth/float64(tt.small.X), b.BlockWidth/float64(large.X))
				assertClose(t, "blockHeight/H", a.BlockHeight/float64(tt.small.Y), b.BlockHeight/float64(large.Y))
				assertClose(t, "x/W", a.Anchor.X/float64(tt.small.X), b.Anchor.X/float64(large.X))
				assertClose(t, "y/H", a.Anchor.Y/float64(tt.small.Y), b.Anchor.Y/float64(large.Y))
			}
		})
	}
}

func TestComputeLayoutPreviewAndCaptureLineCount(t *testing.T) {
	fonts := mustFontSet(t)
	preview := image.Pt(300, 400)
	capture := image.Pt(3000, 4000)

	for _, corner := range Corners() {
		a := ComputeLayout(fonts, sampleContent, MetricsFor(preview.X, preview.Y), preview, corner)
		b := ComputeLayout(fonts, sampleContent, MetricsFor(capture.X, capture.Y), capture, corner)
		if len(a.AddressLines) != len(b.AddressLines) {
			t.Errorf("%s: preview has %d address lines, capture %d", corner, len(a.AddressLines), len(b.AddressLines))
		}
	}
}

func assertClose(t *testing.T, name string, a, b float64) {
	t.Helper()
	if math.Abs(a-b) > 1e-6 {
		t.Errorf("%s: %v vs %v", name, a, b)
	}
}
