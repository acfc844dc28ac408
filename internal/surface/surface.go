// Package surface holds the drawing targets an editor renders its shape
// onto. Memory keeps the last frame and answers vertex picking; SVG renders
// that frame as an SVG document.
package surface

import (
	"sync"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
)

// Ellipse is an axis aligned ellipse. Circles have RX == RY.
type Ellipse struct {
	Center layout.Point `json:"center"`
	RX     float64      `json:"rx"`
	RY     float64      `json:"ry"`
}

// RoundRect is a rectangle with optional corner radii.
type RoundRect struct {
	layout.Rect
	RX float64 `json:"rx,omitempty"`
	RY float64 `json:"ry,omitempty"`
}

// Scene is one frame of primitives, in page coordinates.
type Scene struct {
	// Path is the closed polygon outline.
	Path []layout.Point `json:"path,omitempty"`
	// Handles are the draggable vertex markers, in vertex order.
	Handles     []layout.Point `json:"handles,omitempty"`
	PointRadius float64        `json:"point_radius,omitempty"`
	Ellipse     *Ellipse       `json:"ellipse,omitempty"`
	Rect        *RoundRect     `json:"rect,omitempty"`
	// Transforming is set while a free transform is active.
	Transforming bool `json:"transforming,omitempty"`
}

// Memory is a surface that only remembers what it was asked to draw.
type Memory struct {
	mu      sync.Mutex
	scene   Scene
	frames  int
	cleared bool
}

// NewMemory returns an empty in-memory surface.
func NewMemory() *Memory {
	return &Memory{}
}

// Render replaces the current frame.
func (m *Memory) Render(scene Scene) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scene = clone(scene)
	m.frames++
	m.cleared = false
	return nil
}

// HitVertex returns the index of the vertex handle under p. Handles drawn
// later sit on top, so the highest matching index wins.
func (m *Memory) HitVertex(p layout.Point, radius float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r2 := radius * radius
	for i := len(m.scene.Handles) - 1; i >= 0; i-- {
		if p.DistSq(m.scene.Handles[i]) <= r2 {
			return i, true
		}
	}
	return -1, false
}

// Clear drops the current frame.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scene = Scene{}
	m.cleared = true
}

// Scene returns a copy of the current frame.
func (m *Memory) Scene() Scene {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.scene)
}

// Frames counts the Render calls so far.
func (m *Memory) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Cleared reports whether Clear was the last call.
func (m *Memory) Cleared() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleared
}

func clone(s Scene) Scene {
	c := s
	c.Path = append([]layout.Point(nil), s.Path...)
	c.Handles = append([]layout.Point(nil), s.Handles...)
	if s.Ellipse != nil {
		e := *s.Ellipse
		c.Ellipse = &e
	}
	if s.Rect != nil {
		r := *s.Rect
		c.Rect = &r
	}
	return c
}
