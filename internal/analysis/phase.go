package analysis

import "github.com/san-kum/oscsim/internal/series"

// PhasePortrait holds the (Q, V) points of a trajectory for phase-space
// rendering.
type PhasePortrait struct {
	Points []struct{ X, Y float64 }
}

// Portrait extracts displacement/velocity pairs from a trajectory.
func Portrait(tr series.Trajectory) *PhasePortrait {
	p := &PhasePortrait{
		Points: make([]struct{ X, Y float64 }, tr.Len()),
	}
	for i := 0; i < tr.Len(); i++ {
		p.Points[i].X = tr.Q[i]
		p.Points[i].Y = tr.V[i]
	}
	return p
}

// Bounds returns the bounding box of the portrait with 10% padding.
func (p *PhasePortrait) Bounds() (minX, maxX, minY, maxY float64) {
	if len(p.Points) == 0 {
		return 0, 1, 0, 1
	}

	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	return
}
