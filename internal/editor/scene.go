package editor

import (
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/shapes"
	"github.com/xkilldash9x/shapes-cli/internal/surface"
)

// scene turns the page space geometry into drawing primitives. Vertex
// handles are hidden while free transform is on.
func (e *Editor) scene() surface.Scene {
	s := surface.Scene{PointRadius: e.opts.pointRadius, Transforming: e.transforming}
	switch g := e.geometry.(type) {
	case *shapes.Polygon:
		s.Path = make([]layout.Point, len(g.Vertices))
		for i, v := range g.Vertices {
			s.Path[i] = vertexPoint(v)
		}
		if !e.transforming {
			s.Handles = s.Path
		}
	case *shapes.Circle:
		s.Ellipse = &surface.Ellipse{Center: layout.Point{X: g.CX.Px, Y: g.CY.Px}, RX: g.R.Px, RY: g.R.Px}
	case *shapes.Ellipse:
		s.Ellipse = &surface.Ellipse{Center: layout.Point{X: g.CX.Px, Y: g.CY.Px}, RX: g.RX.Px, RY: g.RY.Px}
	case *shapes.Rectangle:
		r := &surface.RoundRect{Rect: layout.Rect{X: g.X.Px, Y: g.Y.Px, Width: g.W.Px, Height: g.H.Px}}
		if g.RX != nil {
			r.RX = g.RX.Px
		}
		if g.RY != nil {
			r.RY = g.RY.Px
		}
		s.Rect = r
	}
	return s
}
