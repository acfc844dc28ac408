package editor

import (
	"math"

	"go.uber.org/zap"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/shapes"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// Pointer gestures only apply to polygons, and only while free transform
// is off. Each returns whether it changed anything; a miss is not an error.

// PointerDown grabs the vertex under p. Off a vertex, a press close to an
// edge inserts a vertex there and grabs it instead.
func (e *Editor) PointerDown(p layout.Point) bool {
	return locked(e, func() bool {
		poly, ok := e.editablePolygon()
		if !ok {
			return false
		}
		if i, hit := e.opts.surface.HitVertex(p, e.opts.pointRadius); hit && i < len(poly.Vertices) {
			e.active = i
			return true
		}

		edge, foot, ok := e.edgeAt(poly, p)
		if !ok {
			return false
		}
		start := poly.Vertices[edge]
		v := shapes.Vertex{
			X: shapes.Coord{Px: units.Round20(foot.X), Unit: start.X.Unit},
			Y: shapes.Coord{Px: units.Round20(foot.Y), Unit: start.Y.Unit},
		}
		poly.InsertVertex(edge+1, v)
		e.active = edge + 1
		e.logger.Debug("Inserted vertex on edge.", zap.Int("edge", edge), zap.Int("index", e.active))
		e.draw()
		return true
	})
}

// PointerMove drags the grabbed vertex to p.
func (e *Editor) PointerMove(p layout.Point) bool {
	return locked(e, func() bool {
		poly, ok := e.editablePolygon()
		if !ok || e.active < 0 || e.active >= len(poly.Vertices) {
			return false
		}
		poly.Vertices[e.active].X.Px = p.X
		poly.Vertices[e.active].Y.Px = p.Y
		e.draw()
		return true
	})
}

// PointerUp releases the grabbed vertex.
func (e *Editor) PointerUp() bool {
	return locked(e, func() bool {
		released := e.active >= 0
		e.active = -1
		return released
	})
}

// DoubleClick deletes the vertex under p.
func (e *Editor) DoubleClick(p layout.Point) bool {
	return locked(e, func() bool {
		poly, ok := e.editablePolygon()
		if !ok {
			return false
		}
		i, hit := e.opts.surface.HitVertex(p, e.opts.pointRadius)
		if !hit || i >= len(poly.Vertices) {
			return false
		}
		if e.opts.minVertices > 0 && len(poly.Vertices) <= e.opts.minVertices {
			e.logger.Debug("Vertex kept, polygon at its minimum.", zap.Int("vertices", len(poly.Vertices)))
			return false
		}
		poly.RemoveVertex(i)
		e.active = -1
		e.draw()
		return true
	})
}

func (e *Editor) editablePolygon() (*shapes.Polygon, bool) {
	if e.removed || e.transforming {
		return nil, false
	}
	poly, ok := e.geometry.(*shapes.Polygon)
	return poly, ok
}

// edgeAt finds the edge that p projects onto within the point radius. The
// foot of the projection must fall inside the segment.
func (e *Editor) edgeAt(poly *shapes.Polygon, p layout.Point) (int, layout.Point, bool) {
	threshold := e.opts.pointRadius * e.opts.pointRadius
	n := len(poly.Vertices)

	best, bestDist := -1, math.Inf(1)
	var bestFoot layout.Point
	for i := 0; i < n; i++ {
		a := vertexPoint(poly.Vertices[i])
		b := vertexPoint(poly.Vertices[(i+1)%n])
		foot, u, ok := p.ProjectOntoSegment(a, b)
		if !ok || u < 0 || u > 1 {
			continue
		}
		d := p.DistSq(foot)
		if d >= threshold {
			continue
		}
		if e.opts.tieBreak == TieBreakClosest && d >= bestDist {
			continue
		}
		best, bestDist, bestFoot = i, d, foot
	}
	return best, bestFoot, best >= 0
}

func vertexPoint(v shapes.Vertex) layout.Point {
	return layout.Point{X: v.X.Px, Y: v.Y.Px}
}
