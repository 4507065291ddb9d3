package watermark

import "math"

// Ratio of the base dimension and absolute floor for each derived size
const (
	outerPadRatio = 0.05
	outerPadFloor = 40

	gapRatio = 0.012
	gapFloor = 10

	logoRatio = 0.15
	logoFloor = 85

	timeFontRatio = 0.10
	timeFontFloor = 50

	metaFontRatio = 0.04
	metaFontFloor = 16

	addressFontRatio = 0.03
	addressFontFloor = 12

	barWidthRatio = 0.01
	barWidthFloor = 6

	addressLineGapRatio = 0.2
	metaLineGapRatio    = 0.25
)

// Metrics holds every size the layout needs, in surface pixels
type Metrics struct {
	OuterPad       float64
	Gap            float64
	LogoDiameter   float64
	TimeFont       float64
	MetaFont       float64
	AddressFont    float64
	BarWidth       float64
	AddressLineGap float64

	// MetaLineGap separates the date line from the day line
	MetaLineGap float64
}

// DeriveMetrics scales every size from base (the smaller surface edge), clamping each to
// its floor. The address line gap is floor(addressFont*0.2).
func DeriveMetrics(base float64) Metrics {
	if math.IsNaN(base) || base < 0 {
		base = 0
	}
	m := Metrics{
		OuterPad:     scaled(base, outerPadRatio, outerPadFloor),
		Gap:          scaled(base, gapRatio, gapFloor),
		LogoDiameter: scaled(base, logoRatio, logoFloor),
		TimeFont:     scaled(base, timeFontRatio, timeFontFloor),
		MetaFont:     scaled(base, metaFontRatio, metaFontFloor),
		AddressFont:  scaled(base, addressFontRatio, addressFontFloor),
		BarWidth:     scaled(base, barWidthRatio, barWidthFloor),
	}
	m.AddressLineGap = math.Floor(m.AddressFont * addressLineGapRatio)
	m.MetaLineGap = m.MetaFont * metaLineGapRatio
	return m
}

// MetricsFor derives metrics for a surface of the given size
func MetricsFor(width, height int) Metrics {
	return DeriveMetrics(float64(min(width, height)))
}

func scaled(base, ratio, floor float64) float64 {
	return math.Max(base*ratio, floor)
}
