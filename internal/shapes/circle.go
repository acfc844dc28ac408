package shapes

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/css"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// Radius keywords.
const (
	ClosestSide  = "closest-side"
	FarthestSide = "farthest-side"
)

// Circle is a center and a radius.
type Circle struct {
	Reference
	CX Coord `json:"cx"`
	CY Coord `json:"cy"`
	R  Coord `json:"r"`
	// RKeyword is the radius keyword as written. It is echoed back while R
	// still holds the value the keyword resolved to.
	RKeyword string `json:"r_keyword,omitempty"`

	keywordR float64
	center   positionKeyword
}

// sideRadius resolves closest-side or farthest-side for an ellipse or
// circle assumed to sit at the box center.
func sideRadius(keyword string, a, b float64) float64 {
	if keyword == FarthestSide {
		return math.Max(a, b) / 2
	}
	return math.Min(a, b) / 2
}

func isRadiusKeyword(t token) bool { return t.isIdent(ClosestSide) || t.isIdent(FarthestSide) }

// radiusCoord parses a numeric radius, rejecting negatives.
func radiusCoord(conv units.Converter, t token, axis layout.Axis, isRadius bool) (Coord, error) {
	if !t.isNumeric() {
		return Coord{}, fmt.Errorf("%w: bad radius %q", ErrNotAShapeFunction, t.text)
	}
	l := t.length()
	if l.Value < 0 {
		return Coord{}, fmt.Errorf("%w: %s", ErrInvalidRadius, t.text)
	}
	return coordOf(conv, l, axis, isRadius), nil
}

// ParseCircle parses `circle([<r> | closest-side | farthest-side]? [at <pos>]?) [box]?`.
// The legacy comma form is rejected.
func ParseCircle(value string, env Environment) (*Circle, error) {
	c, err := parseCall(value, KindCircle)
	if err != nil {
		return nil, err
	}
	radii, center, hasCenter, err := radiusAndCenter(c)
	if err != nil {
		return nil, err
	}
	if len(radii) > 1 {
		return nil, fmt.Errorf("%w: circle() takes one radius", ErrNotAShapeFunction)
	}
	ref, conv, err := env.resolve(c.refBox)
	if err != nil {
		return nil, err
	}
	circle := &Circle{Reference: ref}

	switch {
	case len(radii) == 0:
		circle.R = pxCoord(sideRadius(ClosestSide, conv.Box.Width, conv.Box.Height))
	case radii[0].tt == css.IdentToken:
		if !isRadiusKeyword(radii[0]) {
			return nil, fmt.Errorf("%w: bad radius %q", ErrNotAShapeFunction, radii[0].text)
		}
		circle.RKeyword = strings.ToLower(radii[0].text)
		circle.R = pxCoord(sideRadius(circle.RKeyword, conv.Box.Width, conv.Box.Height))
		circle.keywordR = circle.R.Px
	default:
		if circle.R, err = radiusCoord(conv, radii[0], layout.Horizontal, true); err != nil {
			return nil, err
		}
	}

	if circle.CX, circle.CY, circle.center, err = centerOf(conv, center, hasCenter); err != nil {
		return nil, err
	}
	return circle, nil
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Translate(dx, dy float64) {
	c.CX.Px += dx
	c.CY.Px += dy
}

// Transform moves the center through m and scales the radius by the
// matrix's horizontal scale factor.
func (c *Circle) Transform(m layout.TransformMatrix) {
	applyPoint(m, &c.CX, &c.CY)
	sx, _ := m.ScaleFactors()
	c.R.Px = units.Round20(c.R.Px * sx)
}

func (c *Circle) Serialize(conv units.Converter) string { return c.serialize(conv, nil) }

func (c *Circle) SerializeIn(conv units.Converter, u units.Unit) string {
	return c.serialize(conv, &u)
}

func (c *Circle) serialize(conv units.Converter, override *units.Unit) string {
	r := c.R.css(conv, layout.Horizontal, true, override)
	if c.RKeyword != "" && override == nil && c.R.Px == c.keywordR {
		r = c.RKeyword
	}
	at, ok := c.center.echo(c.CX, c.CY, override)
	if !ok {
		at = c.CX.css(conv, layout.Horizontal, false, override) + " " + c.CY.css(conv, layout.Vertical, false, override)
	}
	return "circle(" + r + " at " + at + ")" + c.suffix()
}

func (c *Circle) ConvertUnits(u units.Unit) {
	c.CX.Unit, c.CY.Unit, c.R.Unit = u, u, u
	c.RKeyword = ""
	c.center = positionKeyword{}
}

func (c *Circle) Clone() Geometry {
	cp := *c
	return &cp
}
