package schemas

import "time"

// -- Shape Schemas --

// ShapeEvent is one shape change as forwarded to a style sink.
type ShapeEvent struct {
	EditorID  string    `json:"editor_id"`
	Type      string    `json:"type"`
	Kind      string    `json:"kind"`
	Property  string    `json:"property"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Coordinate is one named shape parameter: its resolved pixel value and
// the unit it is written in. An empty unit marks a bare number.
type Coordinate struct {
	Name string  `json:"name"`
	Px   float64 `json:"px"`
	Unit string  `json:"unit"`
}

// GeometryReport describes a parsed shape for JSON output.
type GeometryReport struct {
	Kind           string       `json:"kind"`
	Value          string       `json:"value"`
	RefBox         string       `json:"ref_box"`
	ExplicitRefBox bool         `json:"explicit_ref_box"`
	FillRule       string       `json:"fill_rule,omitempty"`
	Inferred       bool         `json:"inferred,omitempty"`
	Coordinates    []Coordinate `json:"coordinates"`
}

// OriginReport is a resolved transform-origin.
type OriginReport struct {
	Input string `json:"input"`
	X     string `json:"x"`
	Y     string `json:"y"`
}
