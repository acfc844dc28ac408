package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLengthWithUnits(t *testing.T) {
	parentFontSize, rootFontSize, refDim, vw, vh := 20.0, 16.0, 100.0, 1000.0, 800.0

	tests := []struct {
		input    string
		expected float64
	}{
		{"10px", 10.0},
		{"12", 12.0},      // unit-less counts as px
		{"1.5em", 30.0},   // 1.5 * 20
		{"2rem", 32.0},    // 2 * 16
		{"50%", 50.0},     // 0.5 * 100
		{"10vw", 100.0},   // 0.1 * 1000
		{"5vh", 40.0},     // 0.05 * 800
		{"5vmin", 40.0},   // min(1000, 800) * 0.05
		{"10vmax", 100.0}, // max(1000, 800) * 0.1
		{"1in", 96.0},
		{"-4px", -4.0},
		{"auto", 0.0},
		{"abc", 0.0},
		{"", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			actual := ParseLengthWithUnits(tt.input, parentFontSize, rootFontSize, refDim, vw, vh)
			assert.InDelta(t, tt.expected, actual, 0.001)
		})
	}
}

func TestParseAbsoluteLength(t *testing.T) {
	assert.Equal(t, 7.5, ParseAbsoluteLength("7.5px"))
	// Relative units have nothing to resolve against.
	assert.Equal(t, 0.0, ParseAbsoluteLength("3em"))
}
