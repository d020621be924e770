package export

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/oscsim/internal/analysis"
	"github.com/san-kum/oscsim/internal/viz"
)

func circlePortrait(n int) *analysis.PhasePortrait {
	p := &analysis.PhasePortrait{
		Points: make([]struct{ X, Y float64 }, n),
	}
	for i := range p.Points {
		theta := 2 * math.Pi * float64(i) / float64(n)
		p.Points[i].X = math.Cos(theta)
		p.Points[i].Y = math.Sin(theta)
	}
	return p
}

func TestPortraitToSVG(t *testing.T) {
	svg := PortraitToSVG(circlePortrait(64), 400, 300, "#00ff00")

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(svg, "<polyline") {
		t.Error("missing polyline element")
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color not applied")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("SVG not closed")
	}
}

func TestPortraitToSVG_Degenerate(t *testing.T) {
	if PortraitToSVG(nil, 100, 100, "#fff") != "" {
		t.Error("expected empty output for nil portrait")
	}
	if PortraitToSVG(circlePortrait(1), 100, 100, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
}

func TestCanvasToSVG(t *testing.T) {
	canvas := viz.Portrait(circlePortrait(64), 40, 12)
	svg := CanvasToSVG(canvas, 4)

	if !strings.Contains(svg, "<svg") {
		t.Error("missing svg element")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("expected at least one dot for a non-empty canvas")
	}
	if CanvasToSVG(nil, 4) != "" {
		t.Error("expected empty output for nil canvas")
	}
}
