package shapes

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// Rectangle is an origin, a size and optional corner radii.
type Rectangle struct {
	Reference
	X  Coord  `json:"x"`
	Y  Coord  `json:"y"`
	W  Coord  `json:"w"`
	H  Coord  `json:"h"`
	RX *Coord `json:"rx,omitempty"`
	RY *Coord `json:"ry,omitempty"`
	// ExplicitRY records that ry was written separately from rx.
	ExplicitRY bool `json:"explicit_ry,omitempty"`
	Inferred   bool `json:"inferred,omitempty"`
}

// ParseRectangle parses `rectangle(x, y, w, h [, rx [, ry]]) [box]?`. Fewer than
// four arguments infer the rectangle from the element's content box.
func ParseRectangle(value string, env Environment) (*Rectangle, error) {
	c, err := parseCall(value, KindRectangle)
	if err != nil {
		return nil, err
	}
	ref, conv, err := env.resolve(c.refBox)
	if err != nil {
		return nil, err
	}
	r := &Rectangle{Reference: ref}

	var args []units.Length
	if !c.empty() {
		for _, g := range c.groups {
			if len(g) != 1 || !g[0].isNumeric() {
				return nil, fmt.Errorf("%w: rectangle() arguments are single lengths", ErrNotAShapeFunction)
			}
			args = append(args, g[0].length())
		}
	}

	switch {
	case len(args) < 4:
		box, err := contentRect(env.Element, ref.Box)
		if err != nil {
			return nil, err
		}
		if box.Width == 0 || box.Height == 0 {
			return nil, fmt.Errorf("%w: cannot infer a rectangle from a %gx%g content box", ErrDegenerateBox, box.Width, box.Height)
		}
		r.X, r.Y, r.W, r.H = pxCoord(box.X), pxCoord(box.Y), pxCoord(box.Width), pxCoord(box.Height)
		r.Inferred = true
		return r, nil
	case len(args) > 6:
		return nil, fmt.Errorf("%w: rectangle() takes at most six arguments", ErrNotAShapeFunction)
	}

	r.X = coordOf(conv, args[0], layout.Horizontal, false)
	r.Y = coordOf(conv, args[1], layout.Vertical, false)
	r.W = coordOf(conv, args[2], layout.Horizontal, false)
	r.H = coordOf(conv, args[3], layout.Vertical, false)

	if len(args) >= 5 {
		for _, l := range args[4:] {
			if l.Value < 0 {
				return nil, fmt.Errorf("%w: %s", ErrInvalidRadius, l)
			}
		}
		rx := coordOf(conv, args[4], layout.Horizontal, false)
		ry := coordOf(conv, args[4], layout.Vertical, false)
		if len(args) == 6 {
			ry = coordOf(conv, args[5], layout.Vertical, false)
			r.ExplicitRY = true
		}
		r.RX, r.RY = &rx, &ry
	}
	return r, nil
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) Translate(dx, dy float64) {
	r.X.Px += dx
	r.Y.Px += dy
}

// Transform moves the origin through m and scales width and height by the
// matrix's axis scale factors. Corner radii are left as written.
func (r *Rectangle) Transform(m layout.TransformMatrix) {
	applyPoint(m, &r.X, &r.Y)
	sx, sy := m.ScaleFactors()
	r.W.Px = units.Round20(r.W.Px * sx)
	r.H.Px = units.Round20(r.H.Px * sy)
}

func (r *Rectangle) Serialize(conv units.Converter) string { return r.serialize(conv, nil) }

func (r *Rectangle) SerializeIn(conv units.Converter, u units.Unit) string {
	return r.serialize(conv, &u)
}

func (r *Rectangle) serialize(conv units.Converter, override *units.Unit) string {
	args := []string{
		r.X.css(conv, layout.Horizontal, false, override),
		r.Y.css(conv, layout.Vertical, false, override),
		r.W.css(conv, layout.Horizontal, false, override),
		r.H.css(conv, layout.Vertical, false, override),
	}
	if r.RX != nil {
		rx := r.RX.css(conv, layout.Horizontal, false, override)
		args = append(args, rx)
		// A single radius stays single while it reads the same on both axes.
		if r.RY != nil {
			if ry := r.RY.css(conv, layout.Vertical, false, override); r.ExplicitRY || ry != rx {
				args = append(args, ry)
			}
		}
	}
	return "rectangle(" + strings.Join(args, ", ") + ")" + r.suffix()
}

func (r *Rectangle) ConvertUnits(u units.Unit) {
	r.X.Unit, r.Y.Unit, r.W.Unit, r.H.Unit = u, u, u, u
	if r.RX != nil {
		r.RX.Unit = u
	}
	if r.RY != nil {
		r.RY.Unit = u
	}
}

func (r *Rectangle) Clone() Geometry {
	cp := *r
	if r.RX != nil {
		rx := *r.RX
		cp.RX = &rx
	}
	if r.RY != nil {
		ry := *r.RY
		cp.RY = &ry
	}
	return &cp
}
