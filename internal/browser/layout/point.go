// internal/browser/layout/point.go
package layout

import "math"

// Point is a position or displacement in page pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns the vector sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector difference of p and q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by the scalar factor.
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Dot is the scalar product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// MagSq calculates the squared magnitude of the vector.
func (p Point) MagSq() float64 {
	return p.X*p.X + p.Y*p.Y
}

// DistSq is the squared Euclidean distance between p and q.
func (p Point) DistSq(q Point) float64 {
	return p.Sub(q).MagSq()
}

// Dist calculates the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	// Use math.Hypot for numerical stability.
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// ProjectOntoSegment returns the perpendicular foot of p on the line through
// a and b, and the segment parameter u of that foot. The foot lies on the
// segment when u is in [0, 1]. A zero-length segment reports ok=false.
func (p Point) ProjectOntoSegment(a, b Point) (foot Point, u float64, ok bool) {
	ab := b.Sub(a)
	lenSq := ab.MagSq()
	if lenSq == 0 {
		return Point{}, 0, false
	}
	u = p.Sub(a).Dot(ab) / lenSq
	return a.Add(ab.Mul(u)), u, true
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}
