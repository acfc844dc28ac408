package units

// Cycle is an immutable ordered list of units with a cursor. Advancing
// returns a new Cycle and leaves the receiver untouched.
type Cycle struct {
	units []Unit
	index int
}

// DefaultCycle is the order the "convert units" action steps through.
var DefaultCycle = []Unit{Px, Percent, Em, Rem, Vw, Vh, In, Cm, Mm, Pt, Pc}

// NewCycle copies us into a cycle positioned on its first element. Unknown
// units are dropped; an empty list falls back to DefaultCycle.
func NewCycle(us []Unit) Cycle {
	var list []Unit
	for _, u := range us {
		if parsed, ok := ParseUnit(string(u)); ok && parsed != None {
			list = append(list, parsed)
		}
	}
	if len(list) == 0 {
		list = append(list, DefaultCycle...)
	}
	return Cycle{units: list}
}

// Current is the unit under the cursor.
func (c Cycle) Current() Unit {
	if len(c.units) == 0 {
		return Px
	}
	return c.units[c.index]
}

// Next returns the cycle advanced by one, wrapping at the end.
func (c Cycle) Next() Cycle {
	if len(c.units) == 0 {
		return c
	}
	return Cycle{units: c.units, index: (c.index + 1) % len(c.units)}
}

// Len is the number of units in the cycle.
func (c Cycle) Len() int { return len(c.units) }
