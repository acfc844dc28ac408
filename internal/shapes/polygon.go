package shapes

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/css"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// FillRule is the polygon winding rule. The zero value means none was written.
type FillRule string

const (
	FillNone    FillRule = ""
	FillNonzero FillRule = "nonzero"
	FillEvenodd FillRule = "evenodd"
)

// Vertex is one polygon corner.
type Vertex struct {
	X Coord `json:"x"`
	Y Coord `json:"y"`
}

// Polygon is an ordered vertex list with an optional fill rule.
type Polygon struct {
	Reference
	FillRule FillRule `json:"fill_rule,omitempty"`
	Vertices []Vertex `json:"vertices"`
	// Inferred is set when the vertices came from the element box.
	Inferred bool `json:"inferred,omitempty"`
}

// ParsePolygon parses `polygon([fill-rule,]? x y, ...) [box]?`. Fewer than three
// points make the polygon fall back to the element's content box.
func ParsePolygon(value string, env Environment) (*Polygon, error) {
	c, err := parseCall(value, KindPolygon)
	if err != nil {
		return nil, err
	}
	ref, conv, err := env.resolve(c.refBox)
	if err != nil {
		return nil, err
	}
	p := &Polygon{Reference: ref}

	groups := c.groups
	if c.empty() {
		groups = nil
	} else if c.hasEmptyGroup() {
		return nil, fmt.Errorf("%w: empty coordinate pair in %q", ErrNotAShapeFunction, value)
	}

	if len(groups) > 0 && len(groups[0]) == 1 && groups[0][0].tt == css.IdentToken {
		switch rule := FillRule(strings.ToLower(groups[0][0].text)); rule {
		case FillNonzero, FillEvenodd:
			p.FillRule = rule
			groups = groups[1:]
		default:
			return nil, fmt.Errorf("%w: unknown fill rule %q", ErrNotAShapeFunction, groups[0][0].text)
		}
	}

	for _, g := range groups {
		if len(g) != 2 {
			return nil, fmt.Errorf("%w: coordinate pair with %d values", ErrNotAShapeFunction, len(g))
		}
		for _, t := range g {
			if !t.isNumeric() {
				return nil, fmt.Errorf("%w: bad coordinate %q", ErrNotAShapeFunction, t.text)
			}
		}
		p.Vertices = append(p.Vertices, Vertex{
			X: coordOf(conv, g[0].length(), layout.Horizontal, false),
			Y: coordOf(conv, g[1].length(), layout.Vertical, false),
		})
	}

	if len(p.Vertices) < 3 {
		r, err := contentRect(env.Element, ref.Box)
		if err != nil {
			return nil, err
		}
		p.Vertices = rectVertices(r)
		p.FillRule = FillNonzero
		p.Inferred = true
	}
	return p, nil
}

// rectVertices lists the corners of r clockwise from the top left.
func rectVertices(r layout.Rect) []Vertex {
	return []Vertex{
		{X: pxCoord(r.X), Y: pxCoord(r.Y)},
		{X: pxCoord(r.X + r.Width), Y: pxCoord(r.Y)},
		{X: pxCoord(r.X + r.Width), Y: pxCoord(r.Y + r.Height)},
		{X: pxCoord(r.X), Y: pxCoord(r.Y + r.Height)},
	}
}

func (p *Polygon) Kind() Kind { return KindPolygon }

func (p *Polygon) Translate(dx, dy float64) {
	for i := range p.Vertices {
		p.Vertices[i].X.Px += dx
		p.Vertices[i].Y.Px += dy
	}
}

func (p *Polygon) Transform(m layout.TransformMatrix) {
	for i := range p.Vertices {
		applyPoint(m, &p.Vertices[i].X, &p.Vertices[i].Y)
	}
}

func (p *Polygon) Serialize(conv units.Converter) string { return p.serialize(conv, nil) }

func (p *Polygon) SerializeIn(conv units.Converter, u units.Unit) string {
	return p.serialize(conv, &u)
}

func (p *Polygon) serialize(conv units.Converter, override *units.Unit) string {
	args := make([]string, 0, len(p.Vertices)+1)
	if p.FillRule != FillNone {
		args = append(args, string(p.FillRule))
	}
	for _, v := range p.Vertices {
		args = append(args, v.X.css(conv, layout.Horizontal, false, override)+" "+v.Y.css(conv, layout.Vertical, false, override))
	}
	return "polygon(" + strings.Join(args, ", ") + ")" + p.suffix()
}

func (p *Polygon) ConvertUnits(u units.Unit) {
	for i := range p.Vertices {
		p.Vertices[i].X.Unit = u
		p.Vertices[i].Y.Unit = u
	}
}

func (p *Polygon) Clone() Geometry {
	c := *p
	c.Vertices = append([]Vertex(nil), p.Vertices...)
	return &c
}

// InsertVertex places v at index i, shifting later vertices.
func (p *Polygon) InsertVertex(i int, v Vertex) {
	p.Vertices = append(p.Vertices, Vertex{})
	copy(p.Vertices[i+1:], p.Vertices[i:])
	p.Vertices[i] = v
}

// RemoveVertex deletes the vertex at index i.
func (p *Polygon) RemoveVertex(i int) {
	p.Vertices = append(p.Vertices[:i], p.Vertices[i+1:]...)
}
