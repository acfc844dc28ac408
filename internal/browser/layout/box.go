// internal/browser/layout/box.go
package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidBoxType is returned for a reference box keyword outside the four CSS boxes.
	ErrInvalidBoxType = errors.New("invalid reference box type")
	// ErrInvalidTarget is returned when no element was supplied.
	ErrInvalidTarget = errors.New("invalid target element")
)

// -- Core Structures: Box Model --

// Axis selects which dimension of a box a length is measured against.
type Axis int

const (
	// Horizontal resolves percentages against the box width.
	Horizontal Axis = iota
	// Vertical resolves percentages against the box height.
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Rect is an axis-aligned rectangle in CSS pixels.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ExpandedBy returns a new rectangle expanded by the edge sizes.
func (r Rect) ExpandedBy(e Edges) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// InsetBy returns a new rectangle shrunk by the edge sizes.
func (r Rect) InsetBy(e Edges) Rect {
	return r.ExpandedBy(Edges{Top: -e.Top, Right: -e.Right, Bottom: -e.Bottom, Left: -e.Left})
}

// Edges holds per-side widths for border, padding or margin.
type Edges struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// Add sums two edge sets side by side.
func (e Edges) Add(o Edges) Edges {
	return Edges{Top: e.Top + o.Top, Right: e.Right + o.Right, Bottom: e.Bottom + o.Bottom, Left: e.Left + o.Left}
}

// BoxMetrics locates a reference box relative to the element's own border box.
type BoxMetrics struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size returns the box dimension along an axis.
func (b BoxMetrics) Size(axis Axis) float64 {
	if axis == Vertical {
		return b.Height
	}
	return b.Width
}

func (b BoxMetrics) rect() Rect {
	return Rect{X: b.Left, Y: b.Top, Width: b.Width, Height: b.Height}
}

func metricsOf(r Rect) BoxMetrics {
	return BoxMetrics{Top: r.Y, Left: r.X, Width: r.Width, Height: r.Height}
}

// ReferenceBox names one of the four CSS box-model rectangles.
type ReferenceBox string

const (
	MarginBox  ReferenceBox = "margin-box"
	BorderBox  ReferenceBox = "border-box"
	PaddingBox ReferenceBox = "padding-box"
	ContentBox ReferenceBox = "content-box"
)

// DefaultReferenceBox is used when neither the value nor the editor names one.
const DefaultReferenceBox = MarginBox

// ParseReferenceBox validates a reference box keyword.
func ParseReferenceBox(s string) (ReferenceBox, error) {
	switch b := ReferenceBox(strings.ToLower(strings.TrimSpace(s))); b {
	case MarginBox, BorderBox, PaddingBox, ContentBox:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBoxType, s)
}

// -- Target Element Capability --

// ComputedStyle carries the resolved box-model widths of an element, in pixels.
type ComputedStyle struct {
	Border       Edges
	Padding      Edges
	Margin       Edges
	FontSize     float64
	RootFontSize float64
}

// Element is anything that can report its own layout, whether a live page node,
// a parsed document node, or a recorded snapshot.
type Element interface {
	// BoundingClientRect is the border box in viewport coordinates.
	BoundingClientRect() Rect
	ComputedStyle() ComputedStyle
	// ScrollOffset is the document scroll position.
	ScrollOffset() (x, y float64)
	// Viewport is the size of the window the element is rendered in.
	Viewport() (width, height float64)
}

// GetBox computes the metrics of the requested reference box relative to the
// element's border box. Negative margins produce a smaller margin box.
func GetBox(el Element, kind ReferenceBox) (BoxMetrics, error) {
	if el == nil {
		return BoxMetrics{}, ErrInvalidTarget
	}
	rect := el.BoundingClientRect()
	cs := el.ComputedStyle()
	border := Rect{Width: rect.Width, Height: rect.Height}

	switch kind {
	case BorderBox:
		return metricsOf(border), nil
	case PaddingBox:
		return metricsOf(border.InsetBy(cs.Border)), nil
	case ContentBox:
		return metricsOf(border.InsetBy(cs.Border.Add(cs.Padding))), nil
	case MarginBox:
		return metricsOf(border.ExpandedBy(cs.Margin)), nil
	}
	return BoxMetrics{}, fmt.Errorf("%w: %q", ErrInvalidBoxType, string(kind))
}

// PageOffset returns the page-absolute position of the reference box origin:
// the client rect origin, plus document scroll, plus the box origin.
func PageOffset(el Element, kind ReferenceBox) (x, y float64, err error) {
	box, err := GetBox(el, kind)
	if err != nil {
		return 0, 0, err
	}
	rect := el.BoundingClientRect()
	sx, sy := el.ScrollOffset()
	return rect.X + sx + box.Left, rect.Y + sy + box.Top, nil
}
