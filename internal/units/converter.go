package units

import (
	"math"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
)

// Context holds the non-box inputs of relative units.
type Context struct {
	FontSize       float64 `json:"font_size" yaml:"font_size"`
	RootFontSize   float64 `json:"root_font_size" yaml:"root_font_size"`
	ViewportWidth  float64 `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height" yaml:"viewport_height"`
}

// ContextOf reads font sizes and the viewport from an element.
func ContextOf(el layout.Element) Context {
	cs := el.ComputedStyle()
	vw, vh := el.Viewport()
	return Context{FontSize: cs.FontSize, RootFontSize: cs.RootFontSize, ViewportWidth: vw, ViewportHeight: vh}
}

// Converter resolves lengths against one reference box.
type Converter struct {
	Box layout.BoxMetrics
	Context
}

// NewConverter builds a converter for a box and context.
func NewConverter(box layout.BoxMetrics, ctx Context) Converter {
	return Converter{Box: box, Context: ctx}
}

// diagonal is the CSS reference length for circle radius percentages.
func (c Converter) diagonal() float64 {
	w, h := c.Box.Width, c.Box.Height
	return math.Sqrt(w*w+h*h) / math.Sqrt2
}

// factor returns how many pixels one unit of u is worth along axis. Zero
// means the unit has no usable reference.
func (c Converter) factor(u Unit, axis layout.Axis, isRadius bool) float64 {
	switch u {
	case Px, None:
		return 1
	case In:
		return PxPerIn
	case Cm:
		return 1 / CmPerPx
	case Mm:
		return 1 / MmPerPx
	case Pt:
		return 1 / PtPerPx
	case Pc:
		return 1 / PcPerPx
	case Em:
		return c.FontSize
	case Rem:
		return c.RootFontSize
	case Vw:
		return c.ViewportWidth / 100
	case Vh:
		return c.ViewportHeight / 100
	case Percent:
		if isRadius {
			return c.diagonal() / 100
		}
		return c.Box.Size(axis) / 100
	}
	return 1
}

// ToPixels resolves l along axis. isRadius selects the circle radius rule
// for percentages, whose result is rounded to a whole pixel.
func (c Converter) ToPixels(l Length, axis layout.Axis, isRadius bool) float64 {
	px := l.Value * c.factor(l.Unit, axis, isRadius)
	if l.Unit == Percent && isRadius {
		px = jsRound(px)
	}
	return Round20(px)
}

// FromPixels expresses px in unit u along axis. A unit whose reference is
// zero (an empty box, a missing font size) yields zero. Circle radius
// percentages round to a whole percent.
func (c Converter) FromPixels(px float64, u Unit, axis layout.Axis, isRadius bool) Length {
	if _, ok := ParseUnit(string(u)); !ok {
		u = Px
	}
	f := c.factor(u, axis, isRadius)
	if f == 0 || math.IsNaN(f) {
		return Length{Unit: u}
	}
	v := px / f
	if u == Percent && isRadius {
		v = jsRound(v)
	}
	return Length{Value: Round20(v), Unit: u}
}

// Convert re-expresses l in unit u.
func (c Converter) Convert(l Length, u Unit, axis layout.Axis, isRadius bool) Length {
	return c.FromPixels(c.ToPixels(l, axis, isRadius), u, axis, isRadius)
}
