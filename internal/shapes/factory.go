package shapes

import (
	"fmt"
	"strings"
)

// None is the CSS keyword that removes a shape.
const None = "none"

// KindOf reads the function name in front of the first parenthesis.
func KindOf(value string) (Kind, error) {
	i := strings.IndexByte(value, '(')
	if i < 0 {
		return "", fmt.Errorf("%w: %q has no function notation", ErrNotAShapeFunction, value)
	}
	switch k := Kind(strings.ToLower(strings.TrimSpace(value[:i]))); k {
	case KindPolygon, KindCircle, KindEllipse, KindRectangle:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown shape %q", ErrNotAShapeFunction, strings.TrimSpace(value[:i]))
}

// Parse dispatches value to the parser for its shape function.
func Parse(value string, env Environment) (Geometry, error) {
	kind, err := KindOf(value)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindPolygon:
		return geometry(ParsePolygon(value, env))
	case KindCircle:
		return geometry(ParseCircle(value, env))
	case KindEllipse:
		return geometry(ParseEllipse(value, env))
	default:
		return geometry(ParseRectangle(value, env))
	}
}

// geometry keeps a typed nil pointer from escaping as a non-nil interface.
func geometry[T Geometry](g T, err error) (Geometry, error) {
	if err != nil {
		return nil, err
	}
	return g, nil
}
