package watermark

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Pass is everything one render call reads. It is a snapshot; the engine keeps no state
// between passes.
type Pass struct {
	Source  Source
	Mirror  bool
	Content Content
	Corner  Corner
}

// Result describes what a pass produced
type Result struct {
	Layout     Layout
	Background bool
	Luminance  float64
	TextColor  TextColor
}

// Engine runs complete render passes. Preview and capture each hold their own engine so they
// never share a FontSet.
type Engine struct {
	fonts    *FontSet
	renderer *Renderer
	quality  draw.Interpolator
}

// NewEngine creates an engine scaling backgrounds with quality (nil means ApproxBiLinear)
func NewEngine(fonts *FontSet, accent color.Color, quality draw.Interpolator) *Engine {
	if quality == nil {
		quality = draw.ApproxBiLinear
	}
	return &Engine{
		fonts:    fonts,
		renderer: NewRenderer(fonts, accent),
		quality:  quality,
	}
}

// Compose clears dst, draws the background if it is ready, lays the block out for dst's size,
// samples the background under it and paints the watermark. dst must start at the origin.
func (e *Engine) Compose(dst *image.RGBA, p Pass) Result {
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)

	res := Result{
		Background: DrawBackground(dst, p.Source, p.Mirror, e.quality),
	}

	size := dst.Bounds().Size()
	res.Layout = ComputeLayout(e.fonts, p.Content, MetricsFor(size.X, size.Y), size, p.Corner)
	res.Luminance = SampleBrightness(dst, res.Layout.Bounds())
	res.TextColor = ChooseTextColor(res.Luminance)

	e.renderer.Paint(dst, res.Layout, res.TextColor, p.Content.Logo)
	return res
}

// Measurer exposes the engine's text measurement
func (e *Engine) Measurer() Measurer {
	return e.fonts
}
