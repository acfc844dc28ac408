package shapes

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// Position is a resolved x/y pair, still in CSS units.
type Position struct {
	X units.Length `json:"x"`
	Y units.Length `json:"y"`
}

func (p Position) String() string { return p.X.String() + " " + p.Y.String() }

var (
	centerPos = units.Pct(50)
	posMap    = map[string]units.Length{
		"left":   units.Pct(0),
		"right":  units.Pct(100),
		"top":    units.Pct(0),
		"bottom": units.Pct(100),
		"center": centerPos,
	}
)

func isXKeyword(s string) bool { return s == "left" || s == "right" }
func isYKeyword(s string) bool { return s == "top" || s == "bottom" }

// lengthOrKeyword maps a keyword to its percentage, or parses a length.
func lengthOrKeyword(s string) units.Length {
	if l, ok := posMap[s]; ok {
		return l
	}
	return units.ParseLength(s)
}

// ResolveOrigin decodes a one or two token CSS position. Keywords may come in
// either order; each is placed on the axis it belongs to.
func ResolveOrigin(s string) (Position, error) {
	parts := strings.Fields(strings.ToLower(s))

	switch len(parts) {
	case 1:
		p := parts[0]
		switch {
		case isXKeyword(p):
			return Position{X: posMap[p], Y: centerPos}, nil
		case isYKeyword(p):
			return Position{X: centerPos, Y: posMap[p]}, nil
		case p == "center":
			return Position{X: centerPos, Y: centerPos}, nil
		}
		return Position{X: units.ParseLength(p), Y: centerPos}, nil

	case 2:
		a, b := parts[0], parts[1]
		if (isXKeyword(a) && isXKeyword(b)) ||
			(isYKeyword(a) && isYKeyword(b)) ||
			(isYKeyword(a) && !isXKeyword(b) && b != "center") ||
			(isXKeyword(b) && !isYKeyword(a) && a != "center") {
			return Position{}, fmt.Errorf("%w: %q", ErrAmbiguousOrigin, s)
		}
		switch {
		case isXKeyword(a):
			return Position{X: posMap[a], Y: lengthOrKeyword(b)}, nil
		case isYKeyword(a):
			return Position{X: lengthOrKeyword(b), Y: posMap[a]}, nil
		case isYKeyword(b):
			return Position{X: lengthOrKeyword(a), Y: posMap[b]}, nil
		case a == "center":
			return Position{X: centerPos, Y: lengthOrKeyword(b)}, nil
		case b == "center":
			return Position{X: lengthOrKeyword(a), Y: centerPos}, nil
		}
		return Position{X: units.ParseLength(a), Y: units.ParseLength(b)}, nil
	}
	return Position{}, fmt.Errorf("%w: expected one or two tokens, got %q", ErrAmbiguousOrigin, s)
}
