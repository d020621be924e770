package viz

import (
	"github.com/guptarohit/asciigraph"
	"golang.org/x/exp/constraints"

	"github.com/san-kum/oscsim/internal/analysis"
)

const (
	DefaultPlotWidth  = 80
	DefaultPlotHeight = 10
)

// Series renders one named series as a terminal line plot.
func Series(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(DefaultPlotHeight),
		asciigraph.Width(DefaultPlotWidth),
		asciigraph.Caption(caption),
	)
}

// Spectrum renders the lower quarter of a power spectrum, where the
// oscillator response lives. Spectra too short to quarter are plotted whole.
func Spectrum(ps []float64, caption string) string {
	if len(ps) == 0 {
		return ""
	}
	quarter := ps[:len(ps)/4]
	if len(quarter) == 0 {
		quarter = ps
	}
	return asciigraph.Plot(quarter,
		asciigraph.Height(15),
		asciigraph.Width(DefaultPlotWidth),
		asciigraph.Caption(caption),
	)
}

// Portrait renders a phase portrait on a Braille canvas.
func Portrait(p *analysis.PhasePortrait, width, height int) *Canvas {
	canvas := NewCanvas(width, height)
	if p == nil || len(p.Points) == 0 {
		return canvas
	}

	minX, maxX, minY, maxY := p.Bounds()
	rangeX := maxX - minX
	rangeY := maxY - minY

	subW := width * 2
	subH := height * 4

	prevX, prevY := -1, -1
	for _, pt := range p.Points {
		px := clamp(int((pt.X-minX)/rangeX*float64(subW-1)), 0, subW-1)
		py := clamp(subH-1-int((pt.Y-minY)/rangeY*float64(subH-1)), 0, subH-1)
		if prevX >= 0 {
			canvas.DrawLine(prevX, prevY, px, py)
		} else {
			canvas.Set(px, py)
		}
		prevX, prevY = px, py
	}

	return canvas
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
