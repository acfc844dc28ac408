package shapes

import (
	"fmt"

	"github.com/xkilldash9x/shapes-cli/api/schemas"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

func coordinate(name string, c Coord) schemas.Coordinate {
	return schemas.Coordinate{Name: name, Px: c.Px, Unit: string(c.Unit)}
}

// Report describes g for JSON output. conv renders the serialized value.
func Report(g Geometry, conv units.Converter) schemas.GeometryReport {
	box, explicit := g.RefBox()
	r := schemas.GeometryReport{
		Kind:           string(g.Kind()),
		Value:          g.Serialize(conv),
		RefBox:         string(box),
		ExplicitRefBox: explicit,
	}

	switch s := g.(type) {
	case *Polygon:
		r.FillRule = string(s.FillRule)
		r.Inferred = s.Inferred
		for i, v := range s.Vertices {
			r.Coordinates = append(r.Coordinates,
				coordinate(fmt.Sprintf("x%d", i), v.X),
				coordinate(fmt.Sprintf("y%d", i), v.Y),
			)
		}
	case *Circle:
		r.Coordinates = []schemas.Coordinate{coordinate("cx", s.CX), coordinate("cy", s.CY), coordinate("r", s.R)}
	case *Ellipse:
		r.Coordinates = []schemas.Coordinate{
			coordinate("cx", s.CX), coordinate("cy", s.CY),
			coordinate("rx", s.RX), coordinate("ry", s.RY),
		}
	case *Rectangle:
		r.Inferred = s.Inferred
		r.Coordinates = []schemas.Coordinate{
			coordinate("x", s.X), coordinate("y", s.Y),
			coordinate("w", s.W), coordinate("h", s.H),
		}
		if s.RX != nil {
			r.Coordinates = append(r.Coordinates, coordinate("rx", *s.RX))
		}
		if s.RY != nil {
			r.Coordinates = append(r.Coordinates, coordinate("ry", *s.RY))
		}
	}
	return r
}
