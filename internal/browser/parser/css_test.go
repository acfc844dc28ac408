// internal/browser/parser/css_test.go
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper functions to build expected structures concisely
func d(prop, val string, important bool) Declaration {
	return Declaration{Property: Property(prop), Value: Value(val), Important: important}
}

func s(tag, id string, classes ...string) SimpleSelector {
	return SimpleSelector{TagName: tag, ID: id, Classes: classes}
}

func cs(selectors ...SimpleSelectorWithCombinator) ComplexSelector {
	return ComplexSelector{Selectors: selectors}
}

func sc(c Combinator, sel SimpleSelector) SimpleSelectorWithCombinator {
	return SimpleSelectorWithCombinator{Combinator: c, SimpleSelector: sel}
}

func TestParseSimpleSelectors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SimpleSelector
	}{
		{"Tag", "div", s("div", "")},
		{"Tag Is Lowercased", "DIV", s("div", "")},
		{"ID", "#main", s("", "main")},
		{"Class", ".button", s("", "", "button")},
		{"Multiple Classes", ".btn.primary", s("", "", "btn", "primary")},
		{"Combined", "input#username.required", s("input", "username", "required")},
		{"Universal", "*", s("*", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := ParseSelector(tt.input)
			require.NoError(t, err)
			require.Len(t, group, 1)
			require.Len(t, group[0].Selectors, 1)
			assert.Equal(t, tt.expected, group[0].Selectors[0].SimpleSelector)
		})
	}
}

func TestParseCombinators(t *testing.T) {
	group, err := ParseSelector(`
		div p,
		article > section,
		article>section,
		.container .item > span
	`)
	require.NoError(t, err)

	expected := SelectorGroup{
		cs(sc(CombinatorNone, s("div", "")), sc(CombinatorDescendant, s("p", ""))),
		cs(sc(CombinatorNone, s("article", "")), sc(CombinatorChild, s("section", ""))),
		cs(sc(CombinatorNone, s("article", "")), sc(CombinatorChild, s("section", ""))),
		cs(
			sc(CombinatorNone, s("", "", "container")),
			sc(CombinatorDescendant, s("", "", "item")),
			sc(CombinatorChild, s("span", "")),
		),
	}
	assert.Equal(t, expected, group)
}

func TestParseSelectorErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"a, , b", ErrEmptySelector},
		{"a,", ErrEmptySelector},
		{"a:hover", ErrUnsupportedSelector},
		{"[type=text]", ErrUnsupportedSelector},
		{"h1 + h2", ErrUnsupportedSelector},
		{"> p", ErrUnsupportedSelector},
		{"div >", ErrUnsupportedSelector},
		{"div.", ErrUnsupportedSelector},
		{".a div", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseSelector(tt.input)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseDeclarations(t *testing.T) {
	got := ParseDeclarations(`
		color: red;
		font-size: 16px !important;
		margin: 10px   20px;
		WIDTH: calc(100% - 2px);
		/* Comment between declarations */
		padding: 0
	`)

	expected := []Declaration{
		d("color", "red", false),
		d("font-size", "16px", true),
		d("margin", "10px 20px", false),
		d("width", "calc(100% - 2px)", false),
		d("padding", "0", false),
	}
	assert.Equal(t, expected, got)
}

func TestCalculateSpecificity(t *testing.T) {
	tests := []struct {
		input   string
		a, b, c int
	}{
		{"*", 0, 0, 0},
		{"li", 0, 0, 1},
		{"ul li", 0, 0, 2},
		{".class", 0, 1, 0},
		{".a.b", 0, 2, 0},
		{"#id", 1, 0, 0},
		{"div#id.class", 1, 1, 1},
		{"#header .nav li.active", 1, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			group, err := ParseSelector(tt.input)
			require.NoError(t, err)
			a, b, c := group[0].CalculateSpecificity()
			assert.Equal(t, tt.a, a)
			assert.Equal(t, tt.b, b)
			assert.Equal(t, tt.c, c)
		})
	}
}

func TestParseStyleSheet(t *testing.T) {
	sheet, err := NewParser(`
		#box, .card { width: 200px; margin: 0 auto !important }
		div p { padding: 4px; }
	`).Parse()
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 2)

	first := sheet.Rules[0]
	assert.Equal(t, SelectorGroup{
		cs(sc(CombinatorNone, s("", "box"))),
		cs(sc(CombinatorNone, s("", "", "card"))),
	}, first.Selectors)
	assert.Equal(t, []Declaration{d("width", "200px", false), d("margin", "0 auto", true)}, first.Declarations)

	assert.Equal(t, []Declaration{d("padding", "4px", false)}, sheet.Rules[1].Declarations)
}

func TestEdgeCasesAndSkipping(t *testing.T) {
	t.Run("Skip Comments", func(t *testing.T) {
		sheet, err := NewParser(`/* Start */ body { margin: 0; } /* End */`).Parse()
		require.NoError(t, err)
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, Property("margin"), sheet.Rules[0].Declarations[0].Property)
	})

	t.Run("Skip At-Rules", func(t *testing.T) {
		input := `@media screen and (min-width: 900px) { div { display: none; } } p { color: blue; } @import "style.css";`
		sheet, err := NewParser(input).Parse()
		require.NoError(t, err)
		// Only the top-level 'p' rule survives.
		if assert.Len(t, sheet.Rules, 1) {
			assert.Equal(t, "p", sheet.Rules[0].Selectors[0].Selectors[0].SimpleSelector.TagName)
		}
	})

	t.Run("Skip Unsupported Selectors", func(t *testing.T) {
		sheet, err := NewParser(`a:hover { color: red } p { }`).Parse()
		require.NoError(t, err)
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, "p", sheet.Rules[0].Selectors[0].Selectors[0].SimpleSelector.TagName)
		assert.Empty(t, sheet.Rules[0].Declarations)
	})

	t.Run("Malformed Declarations Recovery", func(t *testing.T) {
		decls := ParseDeclarations(`color: ; font-size: 12px; border`)
		// Only the valid declaration (font-size) survives.
		require.Len(t, decls, 1)
		assert.Equal(t, Property("font-size"), decls[0].Property)
	})

	t.Run("Unterminated Block", func(t *testing.T) {
		sheet, err := NewParser(`div { width: 10px`).Parse()
		require.NoError(t, err)
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []Declaration{d("width", "10px", false)}, sheet.Rules[0].Declarations)
	})
}
