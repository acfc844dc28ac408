package shapes

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

type token struct {
	tt   css.TokenType
	text string
}

func (t token) isNumeric() bool {
	return t.tt == css.NumberToken || t.tt == css.PercentageToken || t.tt == css.DimensionToken
}

func (t token) isIdent(name string) bool {
	return t.tt == css.IdentToken && strings.EqualFold(t.text, name)
}

func (t token) length() units.Length { return units.ParseLength(t.text) }

// call is a shape function split into its comma separated argument groups
// plus the optional reference box that follows the closing parenthesis.
type call struct {
	name   string
	groups [][]token
	refBox layout.ReferenceBox
}

// empty reports whether the function was written with no arguments at all.
func (c call) empty() bool {
	return len(c.groups) == 1 && len(c.groups[0]) == 0
}

// hasEmptyGroup reports a dangling or doubled comma.
func (c call) hasEmptyGroup() bool {
	for _, g := range c.groups {
		if len(g) == 0 {
			return true
		}
	}
	return false
}

// lex tokenizes a CSS value, dropping whitespace and comments.
func lex(value string) ([]token, error) {
	l := css.NewLexer(parse.NewInputString(value))
	var toks []token
	for {
		tt, text := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, err
			}
			return toks, nil
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		toks = append(toks, token{tt: tt, text: string(text)})
	}
}

// parseCall tokenizes value and checks that it is a call of the named function.
func parseCall(value string, name Kind) (call, error) {
	toks, err := lex(strings.TrimSpace(value))
	if err != nil {
		return call{}, fmt.Errorf("%w: %v", ErrNotAShapeFunction, err)
	}
	if len(toks) == 0 || toks[0].tt != css.FunctionToken || !strings.EqualFold(toks[0].text, string(name)+"(") {
		return call{}, fmt.Errorf("%w: no %s() function in %q", ErrNotAShapeFunction, name, value)
	}

	c := call{name: string(name), groups: [][]token{nil}}
	closeAt := -1
scan:
	for i := 1; i < len(toks); i++ {
		switch t := toks[i]; t.tt {
		case css.RightParenthesisToken:
			closeAt = i
			break scan
		case css.CommaToken:
			c.groups = append(c.groups, nil)
		case css.FunctionToken, css.LeftParenthesisToken:
			return call{}, fmt.Errorf("%w: nested function in %q", ErrNotAShapeFunction, value)
		default:
			last := len(c.groups) - 1
			c.groups[last] = append(c.groups[last], t)
		}
	}
	if closeAt < 0 {
		return call{}, fmt.Errorf("%w: unterminated %s() in %q", ErrNotAShapeFunction, name, value)
	}

	rest := toks[closeAt+1:]
	if len(rest) > 0 && rest[len(rest)-1].tt == css.SemicolonToken {
		rest = rest[:len(rest)-1]
	}
	switch {
	case len(rest) == 0:
	case len(rest) == 1 && rest[0].tt == css.IdentToken:
		box, err := layout.ParseReferenceBox(rest[0].text)
		if err != nil {
			return call{}, err
		}
		c.refBox = box
	default:
		return call{}, fmt.Errorf("%w: unexpected trailing input in %q", ErrNotAShapeFunction, value)
	}
	return c, nil
}

// radiusAndCenter splits circle or ellipse arguments into the radius tokens
// that precede `at` and the position tokens that follow it.
func radiusAndCenter(c call) (radii []token, center string, hasCenter bool, err error) {
	if len(c.groups) > 1 {
		return nil, "", false, fmt.Errorf("%w: %s() does not take commas", ErrNotAShapeFunction, c.name)
	}
	toks := c.groups[0]
	for i, t := range toks {
		if !t.isIdent("at") {
			continue
		}
		pos := toks[i+1:]
		if len(pos) == 0 {
			return nil, "", false, fmt.Errorf("%w: missing position after 'at'", ErrNotAShapeFunction)
		}
		texts := make([]string, 0, len(pos))
		for _, p := range pos {
			if !p.isNumeric() && p.tt != css.IdentToken {
				return nil, "", false, fmt.Errorf("%w: bad position token %q", ErrNotAShapeFunction, p.text)
			}
			texts = append(texts, p.text)
		}
		return toks[:i], strings.Join(texts, " "), true, nil
	}
	return toks, "", false, nil
}

// centerOf resolves the `at` part of a circle or ellipse.
func centerOf(conv units.Converter, center string, hasCenter bool) (cx, cy Coord, kw positionKeyword, err error) {
	pos := Position{X: centerPos, Y: centerPos}
	if hasCenter {
		if pos, err = ResolveOrigin(center); err != nil {
			return Coord{}, Coord{}, positionKeyword{}, err
		}
	}
	cx = coordOf(conv, pos.X, layout.Horizontal, false)
	cy = coordOf(conv, pos.Y, layout.Vertical, false)
	if hasCenter && hasPositionKeyword(center) {
		kw = positionKeyword{text: strings.ToLower(center), x: cx.Px, y: cy.Px}
	}
	return cx, cy, kw, nil
}

// positionKeyword is a center written with position keywords. It is echoed
// back while the center still sits where the keywords put it.
type positionKeyword struct {
	text string
	x, y float64
}

func hasPositionKeyword(s string) bool {
	for _, f := range strings.Fields(strings.ToLower(s)) {
		if _, ok := posMap[f]; ok {
			return true
		}
	}
	return false
}

// echo returns the written keywords when the center has not moved and no
// unit override applies.
func (k positionKeyword) echo(cx, cy Coord, override *units.Unit) (string, bool) {
	if k.text == "" || override != nil {
		return "", false
	}
	if math.Abs(cx.Px-k.x) > keywordEpsilon || math.Abs(cy.Px-k.y) > keywordEpsilon {
		return "", false
	}
	return k.text, true
}

// keywordEpsilon absorbs float drift from applying and removing page offsets.
const keywordEpsilon = 1e-9
