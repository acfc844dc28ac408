// Package units converts CSS lengths between pixels and the other CSS units,
// resolving relative units against an element's reference box, its font
// sizes and the viewport.
package units

import (
	"math"
	"strconv"
	"strings"
)

// Unit is a CSS length unit.
type Unit string

const (
	Px      Unit = "px"
	In      Unit = "in"
	Cm      Unit = "cm"
	Mm      Unit = "mm"
	Pt      Unit = "pt"
	Pc      Unit = "pc"
	Em      Unit = "em"
	Rem     Unit = "rem"
	Vw      Unit = "vw"
	Vh      Unit = "vh"
	Percent Unit = "%"
	// None marks a unit-less number. It computes like px.
	None Unit = ""
)

// Physical unit ratios, in CSS pixels.
const (
	PxPerIn = 96.0
	CmPerPx = 0.02645833333
	MmPerPx = 0.26458333333
	PtPerPx = 0.75
	PcPerPx = 0.0625
)

// All lists every supported unit except None, in display order.
var All = []Unit{Px, Percent, Em, Rem, Vw, Vh, In, Cm, Mm, Pt, Pc}

// ParseUnit looks up a unit suffix. The second result is false for unknown units.
func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if u == None {
		return None, true
	}
	for _, known := range All {
		if u == known {
			return u, true
		}
	}
	return Px, false
}

// Length is a number with a unit, as written in CSS.
type Length struct {
	Value float64
	Unit  Unit
}

// Pixels is shorthand for a px length.
func Pixels(v float64) Length { return Length{Value: v, Unit: Px} }

// Pct is shorthand for a percentage length.
func Pct(v float64) Length { return Length{Value: v, Unit: Percent} }

// String formats the length as CSS text. A unit-less zero stays bare; any
// other unit-less value is written in px.
func (l Length) String() string {
	if l.Unit == None {
		if l.Value == 0 {
			return "0"
		}
		return FormatNumber(l.Value) + string(Px)
	}
	return FormatNumber(l.Value) + string(l.Unit)
}

// FormatNumber prints a float the shortest way, normalizing negative zero.
func FormatNumber(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseLength splits a CSS length token into its number and unit.
//
// Unknown unit suffixes keep the number and fall back to px. Tokens with no
// leading number yield a zero px length.
func ParseLength(token string) Length {
	token = strings.TrimSpace(token)
	end := numericPrefix(token)
	if end == 0 {
		return Length{Unit: Px}
	}
	v, err := strconv.ParseFloat(token[:end], 64)
	if err != nil {
		return Length{Unit: Px}
	}
	u, _ := ParseUnit(token[end:])
	return Length{Value: v, Unit: u}
}

// numericPrefix returns the byte length of the leading CSS number in s.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			frac++
		}
		if frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '-' || s[j] == '+') {
			j++
		}
		exp := j
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > exp {
			i = j
		}
	}
	return i
}

// jsRound rounds half toward positive infinity.
func jsRound(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Round20 rounds to the nearest 1/20 px, which keeps repeated conversions
// from drifting.
func Round20(x float64) float64 {
	r := jsRound(x*20) / 20
	if r == 0 {
		return 0
	}
	return r
}
