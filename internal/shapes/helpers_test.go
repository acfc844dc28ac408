package shapes

import (
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// testElement is an Element with fixed geometry and no page offset.
type testElement struct {
	width, height float64
	style         layout.ComputedStyle
}

func (e testElement) BoundingClientRect() layout.Rect {
	return layout.Rect{Width: e.width, Height: e.height}
}
func (e testElement) ComputedStyle() layout.ComputedStyle { return e.style }
func (e testElement) ScrollOffset() (float64, float64)    { return 0, 0 }
func (e testElement) Viewport() (float64, float64)        { return 1000, 500 }

func plainEnv(w, h float64) Environment {
	return Environment{Element: testElement{width: w, height: h, style: layout.ComputedStyle{FontSize: 16, RootFontSize: 16}}}
}

func paddedEnv(w, h, padding float64) Environment {
	env := plainEnv(w, h)
	el := env.Element.(testElement)
	el.style.Padding = layout.Edges{Top: padding, Right: padding, Bottom: padding, Left: padding}
	env.Element = el
	return env
}

// serialize writes g back against the box it was parsed for.
func serialize(env Environment, g Geometry) string {
	box, _ := g.RefBox()
	conv, err := ConverterFor(env.Element, box)
	if err != nil {
		panic(err)
	}
	return g.Serialize(conv)
}

func serializeIn(env Environment, g Geometry, u units.Unit) string {
	box, _ := g.RefBox()
	conv, err := ConverterFor(env.Element, box)
	if err != nil {
		panic(err)
	}
	return g.SerializeIn(conv, u)
}
