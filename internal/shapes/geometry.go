// Package shapes parses CSS basic shape values into editable geometry and
// serializes that geometry back into CSS text.
//
// Geometry is held in pixels. Each coordinate remembers the unit it was
// written in so that serialization can reproduce it.
package shapes

import (
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// Kind names a shape function.
type Kind string

const (
	KindPolygon   Kind = "polygon"
	KindCircle    Kind = "circle"
	KindEllipse   Kind = "ellipse"
	KindRectangle Kind = "rectangle"
)

// Coord is a pixel value together with the unit it is written in.
type Coord struct {
	Px   float64    `json:"px"`
	Unit units.Unit `json:"unit"`
}

func coordOf(conv units.Converter, l units.Length, axis layout.Axis, isRadius bool) Coord {
	return Coord{Px: conv.ToPixels(l, axis, isRadius), Unit: l.Unit}
}

func pxCoord(v float64) Coord { return Coord{Px: v, Unit: units.Px} }

// css renders the coordinate in its own unit, or in override when set.
func (c Coord) css(conv units.Converter, axis layout.Axis, isRadius bool, override *units.Unit) string {
	u := c.Unit
	if override != nil {
		u = *override
	}
	return conv.FromPixels(c.Px, u, axis, isRadius).String()
}

// Reference records the box a shape is measured against and whether that box
// was written in the value.
type Reference struct {
	Box      layout.ReferenceBox `json:"box"`
	Explicit bool                `json:"explicit"`
}

// RefBox returns the resolved reference box and whether it was explicit.
func (r Reference) RefBox() (layout.ReferenceBox, bool) { return r.Box, r.Explicit }

func (r Reference) suffix() string {
	if !r.Explicit {
		return ""
	}
	return " " + string(r.Box)
}

// Geometry is the operation set shared by every shape kind.
type Geometry interface {
	Kind() Kind
	RefBox() (layout.ReferenceBox, bool)
	// Translate shifts every position, leaving sizes untouched.
	Translate(dx, dy float64)
	// Transform maps the geometry through an affine matrix in place.
	Transform(m layout.TransformMatrix)
	// Serialize writes the value using each coordinate's remembered unit.
	Serialize(conv units.Converter) string
	// SerializeIn writes the value with every coordinate in unit u.
	SerializeIn(conv units.Converter, u units.Unit) string
	// ConvertUnits re-stamps every coordinate with unit u.
	ConvertUnits(u units.Unit)
	Clone() Geometry
}

// Environment is what parsing needs besides the value itself.
type Environment struct {
	Element layout.Element
	// DefaultRefBox applies when the value names no reference box.
	DefaultRefBox layout.ReferenceBox
}

func (env Environment) defaultBox() layout.ReferenceBox {
	if b, err := layout.ParseReferenceBox(string(env.DefaultRefBox)); err == nil {
		return b
	}
	return layout.DefaultReferenceBox
}

// resolve picks the reference box and builds a converter for it.
func (env Environment) resolve(explicit layout.ReferenceBox) (Reference, units.Converter, error) {
	if env.Element == nil {
		return Reference{}, units.Converter{}, ErrInvalidTarget
	}
	ref := Reference{Box: env.defaultBox()}
	if explicit != "" {
		ref = Reference{Box: explicit, Explicit: true}
	}
	conv, err := ConverterFor(env.Element, ref.Box)
	return ref, conv, err
}

// ConverterFor builds a unit converter for the given box of an element.
func ConverterFor(el layout.Element, box layout.ReferenceBox) (units.Converter, error) {
	if el == nil {
		return units.Converter{}, ErrInvalidTarget
	}
	metrics, err := layout.GetBox(el, box)
	if err != nil {
		return units.Converter{}, err
	}
	return units.NewConverter(metrics, units.ContextOf(el)), nil
}

// contentRect returns the element's content box expressed in the coordinates
// of the reference box.
func contentRect(el layout.Element, ref layout.ReferenceBox) (layout.Rect, error) {
	content, err := layout.GetBox(el, layout.ContentBox)
	if err != nil {
		return layout.Rect{}, err
	}
	base, err := layout.GetBox(el, ref)
	if err != nil {
		return layout.Rect{}, err
	}
	return layout.Rect{
		X:      content.Left - base.Left,
		Y:      content.Top - base.Top,
		Width:  content.Width,
		Height: content.Height,
	}, nil
}

// applyPoint maps (x, y) through m and rounds to the 1/20 px grid.
func applyPoint(m layout.TransformMatrix, x, y *Coord) {
	nx, ny := m.Apply(x.Px, y.Px)
	x.Px, y.Px = units.Round20(nx), units.Round20(ny)
}
