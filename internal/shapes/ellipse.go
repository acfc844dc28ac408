package shapes

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/css"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// Ellipse is a center with independent horizontal and vertical radii.
type Ellipse struct {
	Reference
	CX        Coord  `json:"cx"`
	CY        Coord  `json:"cy"`
	RX        Coord  `json:"rx"`
	RY        Coord  `json:"ry"`
	RXKeyword string `json:"rx_keyword,omitempty"`
	RYKeyword string `json:"ry_keyword,omitempty"`

	keywordRX, keywordRY float64
	center               positionKeyword
}

// ParseEllipse parses `ellipse([<rx> <ry>?]? [at <pos>]?) [box]?`. A missing
// radius, or a side keyword, resolves to half the box size on its axis.
func ParseEllipse(value string, env Environment) (*Ellipse, error) {
	c, err := parseCall(value, KindEllipse)
	if err != nil {
		return nil, err
	}
	radii, center, hasCenter, err := radiusAndCenter(c)
	if err != nil {
		return nil, err
	}
	if len(radii) > 2 {
		return nil, fmt.Errorf("%w: ellipse() takes at most two radii", ErrNotAShapeFunction)
	}
	ref, conv, err := env.resolve(c.refBox)
	if err != nil {
		return nil, err
	}
	e := &Ellipse{Reference: ref}

	resolveOne := func(i int, axis layout.Axis) (Coord, string, error) {
		half := pxCoord(conv.Box.Size(axis) / 2)
		if i >= len(radii) {
			return half, "", nil
		}
		t := radii[i]
		if t.tt == css.IdentToken {
			if !isRadiusKeyword(t) {
				return Coord{}, "", fmt.Errorf("%w: bad radius %q", ErrNotAShapeFunction, t.text)
			}
			return half, strings.ToLower(t.text), nil
		}
		coord, err := radiusCoord(conv, t, axis, false)
		return coord, "", err
	}

	if e.RX, e.RXKeyword, err = resolveOne(0, layout.Horizontal); err != nil {
		return nil, err
	}
	if e.RY, e.RYKeyword, err = resolveOne(1, layout.Vertical); err != nil {
		return nil, err
	}
	e.keywordRX, e.keywordRY = e.RX.Px, e.RY.Px

	if e.CX, e.CY, e.center, err = centerOf(conv, center, hasCenter); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Ellipse) Kind() Kind { return KindEllipse }

func (e *Ellipse) Translate(dx, dy float64) {
	e.CX.Px += dx
	e.CY.Px += dy
}

// Transform moves the center through m and scales each radius by the
// matching axis scale factor.
func (e *Ellipse) Transform(m layout.TransformMatrix) {
	applyPoint(m, &e.CX, &e.CY)
	sx, sy := m.ScaleFactors()
	e.RX.Px = units.Round20(e.RX.Px * sx)
	e.RY.Px = units.Round20(e.RY.Px * sy)
}

func (e *Ellipse) Serialize(conv units.Converter) string { return e.serialize(conv, nil) }

func (e *Ellipse) SerializeIn(conv units.Converter, u units.Unit) string {
	return e.serialize(conv, &u)
}

func (e *Ellipse) serialize(conv units.Converter, override *units.Unit) string {
	rx := e.RX.css(conv, layout.Horizontal, false, override)
	if e.RXKeyword != "" && override == nil && e.RX.Px == e.keywordRX {
		rx = e.RXKeyword
	}
	ry := e.RY.css(conv, layout.Vertical, false, override)
	if e.RYKeyword != "" && override == nil && e.RY.Px == e.keywordRY {
		ry = e.RYKeyword
	}
	at, ok := e.center.echo(e.CX, e.CY, override)
	if !ok {
		at = e.CX.css(conv, layout.Horizontal, false, override) + " " + e.CY.css(conv, layout.Vertical, false, override)
	}
	return "ellipse(" + rx + " " + ry + " at " + at + ")" + e.suffix()
}

func (e *Ellipse) ConvertUnits(u units.Unit) {
	e.CX.Unit, e.CY.Unit, e.RX.Unit, e.RY.Unit = u, u, u, u
	e.RXKeyword, e.RYKeyword = "", ""
	e.center = positionKeyword{}
}

func (e *Ellipse) Clone() Geometry {
	cp := *e
	return &cp
}
