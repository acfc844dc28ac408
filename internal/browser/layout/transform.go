// internal/browser/layout/transform.go
package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// -- CSS Transforms (2D) --

// TransformMatrix represents a 2D affine transformation matrix (3x3).
// [ a c e ]
// [ b d f ]
// [ 0 0 1 ]
type TransformMatrix struct {
	A, B, C, D, E, F float64
}

// IdentityMatrix returns the identity matrix (no transformation).
func IdentityMatrix() TransformMatrix {
	return TransformMatrix{A: 1, D: 1}
}

// IsIdentity reports whether m leaves every point unchanged.
func (m TransformMatrix) IsIdentity() bool {
	return m == IdentityMatrix()
}

// Multiply combines two matrices (m1 * m2). Order matters: m2 is applied first.
func (m1 TransformMatrix) Multiply(m2 TransformMatrix) TransformMatrix {
	return TransformMatrix{
		A: m1.A*m2.A + m1.C*m2.B,
		B: m1.B*m2.A + m1.D*m2.B,
		C: m1.A*m2.C + m1.C*m2.D,
		D: m1.B*m2.C + m1.D*m2.D,
		E: m1.A*m2.E + m1.C*m2.F + m1.E,
		F: m1.B*m2.E + m1.D*m2.F + m1.F,
	}
}

// Apply transforms a point (x, y).
func (m TransformMatrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Inverse calculates the inverse of the transformation matrix.
// A singular matrix (zero determinant) returns an error.
func (m TransformMatrix) Inverse() (TransformMatrix, error) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return TransformMatrix{}, fmt.Errorf("matrix is not invertible")
	}
	invDet := 1.0 / det
	return TransformMatrix{
		A: m.D * invDet,
		B: -m.B * invDet,
		C: -m.C * invDet,
		D: m.A * invDet,
		E: (m.C*m.F - m.D*m.E) * invDet,
		F: (m.B*m.E - m.A*m.F) * invDet,
	}, nil
}

// Around re-anchors m so that it is applied about the point (ox, oy)
// instead of the coordinate origin, the way transform-origin works.
func (m TransformMatrix) Around(ox, oy float64) TransformMatrix {
	return TranslateMatrix(ox, oy).Multiply(m).Multiply(TranslateMatrix(-ox, -oy))
}

// ScaleFactors extracts the length each unit axis vector has after the
// linear part of m is applied. Rotation does not change them.
func (m TransformMatrix) ScaleFactors() (sx, sy float64) {
	return math.Hypot(m.A, m.B), math.Hypot(m.C, m.D)
}

// String renders m as a CSS matrix() function.
func (m TransformMatrix) String() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return "matrix(" + strings.Join([]string{f(m.A), f(m.B), f(m.C), f(m.D), f(m.E), f(m.F)}, ", ") + ")"
}

// TranslateMatrix creates a translation matrix.
func TranslateMatrix(tx, ty float64) TransformMatrix {
	return TransformMatrix{A: 1, D: 1, E: tx, F: ty}
}

// ScaleMatrix creates a scaling matrix.
func ScaleMatrix(sx, sy float64) TransformMatrix {
	return TransformMatrix{A: sx, D: sy}
}

// RotateMatrix creates a rotation matrix. Angle is in radians.
func RotateMatrix(angle float64) TransformMatrix {
	cosA := math.Cos(angle)
	sinA := math.Sin(angle)
	return TransformMatrix{A: cosA, B: sinA, C: -sinA, D: cosA}
}

// SkewMatrix creates a skewing matrix. Angles are in radians.
func SkewMatrix(ax, ay float64) TransformMatrix {
	return TransformMatrix{A: 1, C: math.Tan(ax), B: math.Tan(ay), D: 1}
}

// LengthResolver turns a CSS length token into pixels along an axis.
type LengthResolver func(value string, axis Axis) float64

// ParseTransform parses a CSS `transform` list into a single matrix. Unknown
// functions are ignored. A nil resolver accepts plain pixel numbers only.
func ParseTransform(value string, resolve LengthResolver) (TransformMatrix, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return IdentityMatrix(), nil
	}
	if resolve == nil {
		resolve = func(v string, _ Axis) float64 {
			n, _ := parseNumber(strings.TrimSuffix(v, "px"))
			return n
		}
	}

	finalMatrix := IdentityMatrix()
	for _, f := range strings.Split(value, ")") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		parts := strings.SplitN(f, "(", 2)
		if len(parts) != 2 {
			return TransformMatrix{}, fmt.Errorf("malformed transform function %q", f)
		}
		funcName := strings.TrimSpace(parts[0])
		args := strings.Fields(strings.ReplaceAll(parts[1], ",", " "))
		current := IdentityMatrix()

		num := func(i int) float64 {
			n, _ := parseNumber(args[i])
			return n
		}

		switch funcName {
		case "matrix":
			if len(args) != 6 {
				return TransformMatrix{}, fmt.Errorf("matrix() takes 6 arguments, got %d", len(args))
			}
			current = TransformMatrix{A: num(0), B: num(1), C: num(2), D: num(3), E: num(4), F: num(5)}
		case "translate":
			if len(args) >= 1 {
				ty := 0.0
				if len(args) > 1 {
					ty = resolve(args[1], Vertical)
				}
				current = TranslateMatrix(resolve(args[0], Horizontal), ty)
			}
		case "translateX":
			if len(args) == 1 {
				current = TranslateMatrix(resolve(args[0], Horizontal), 0)
			}
		case "translateY":
			if len(args) == 1 {
				current = TranslateMatrix(0, resolve(args[0], Vertical))
			}
		case "scale":
			if len(args) >= 1 {
				sx := num(0)
				sy := sx
				if len(args) > 1 {
					sy = num(1)
				}
				current = ScaleMatrix(sx, sy)
			}
		case "scaleX":
			if len(args) == 1 {
				current = ScaleMatrix(num(0), 1)
			}
		case "scaleY":
			if len(args) == 1 {
				current = ScaleMatrix(1, num(0))
			}
		case "rotate":
			if len(args) == 1 {
				current = RotateMatrix(parseAngle(args[0]))
			}
		case "skew":
			if len(args) >= 1 {
				ay := 0.0
				if len(args) > 1 {
					ay = parseAngle(args[1])
				}
				current = SkewMatrix(parseAngle(args[0]), ay)
			}
		case "skewX":
			if len(args) == 1 {
				current = SkewMatrix(parseAngle(args[0]), 0)
			}
		case "skewY":
			if len(args) == 1 {
				current = SkewMatrix(0, parseAngle(args[0]))
			}
		}
		finalMatrix = finalMatrix.Multiply(current)
	}
	return finalMatrix, nil
}

// parseAngle converts an angle token to radians. Bare numbers are degrees.
func parseAngle(s string) float64 {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "deg"):
		v, _ := parseNumber(strings.TrimSuffix(s, "deg"))
		return v * math.Pi / 180.0
	case strings.HasSuffix(s, "grad"):
		v, _ := parseNumber(strings.TrimSuffix(s, "grad"))
		return v * math.Pi / 200.0
	case strings.HasSuffix(s, "rad"):
		v, _ := parseNumber(strings.TrimSuffix(s, "rad"))
		return v
	case strings.HasSuffix(s, "turn"):
		v, _ := parseNumber(strings.TrimSuffix(s, "turn"))
		return v * 2 * math.Pi
	}
	v, _ := parseNumber(s)
	return v * math.Pi / 180.0
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
