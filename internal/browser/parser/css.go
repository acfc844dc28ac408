// internal/browser/parser/css.go
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

var (
	// ErrEmptySelector is returned for a selector list with a missing part, like "a, , b".
	ErrEmptySelector = errors.New("parser: empty selector")
	// ErrUnsupportedSelector is returned for selector syntax the matcher cannot evaluate.
	ErrUnsupportedSelector = errors.New("parser: unsupported selector")
)

// Property represents a CSS property (e.g., "width").
type Property string

// Value represents a CSS value (e.g., "10px").
type Value string

// Declaration is a key-value pair (e.g., width: 10px).
type Declaration struct {
	Property  Property
	Value     Value
	Important bool
}

// RuleSet represents a set of declarations applied by a selector list.
type RuleSet struct {
	Selectors    SelectorGroup
	Declarations []Declaration
}

// StyleSheet is the top-level structure representing the parsed CSSOM.
type StyleSheet struct {
	Rules []RuleSet
}

// SelectorGroup represents a comma-separated list of selectors (e.g., "h1, div .title").
type SelectorGroup []ComplexSelector

// ComplexSelector represents a sequence of compound selectors joined by combinators (e.g., "div > p").
type ComplexSelector struct {
	Selectors []SimpleSelectorWithCombinator
}

// SimpleSelectorWithCombinator pairs a compound selector with its preceding combinator.
type SimpleSelectorWithCombinator struct {
	Combinator     Combinator
	SimpleSelector SimpleSelector
}

// SimpleSelector is a compound of an optional tag, an optional ID and any number of classes.
type SimpleSelector struct {
	TagName string
	ID      string
	Classes []string
}

// Combinator defines the relationship between compound selectors.
type Combinator int

const (
	CombinatorNone       Combinator = iota // first selector
	CombinatorDescendant                   // whitespace
	CombinatorChild                        // >
)

// CalculateSpecificity sums the specificity of every compound in the selector.
func (cs ComplexSelector) CalculateSpecificity() (int, int, int) {
	a, b, c := 0, 0, 0
	for _, s := range cs.Selectors {
		sa, sb, sc := s.SimpleSelector.CalculateSpecificity()
		a += sa
		b += sb
		c += sc
	}
	return a, b, c
}

// CalculateSpecificity calculates for a simple selector.
func (s SimpleSelector) CalculateSpecificity() (a, b, c int) {
	if s.ID != "" {
		a = 1
	}
	b = len(s.Classes)
	if s.TagName != "" && s.TagName != "*" {
		c = 1
	}
	return a, b, c
}

// IsValid checks if the selector has at least one component.
func (s SimpleSelector) IsValid() bool {
	return s.TagName != "" || s.ID != "" || len(s.Classes) > 0
}

type token struct {
	tt   css.TokenType
	text string
}

// tokenize lexes input keeping whitespace, which separates both selector
// compounds and multi-part values. Comments are dropped.
func tokenize(input string) ([]token, error) {
	l := css.NewLexer(parse.NewInputString(input))
	var toks []token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return toks, err
			}
			return toks, nil
		case css.CommentToken, css.CDOToken, css.CDCToken:
			continue
		case css.WhitespaceToken:
			if n := len(toks); n > 0 && toks[n-1].tt == css.WhitespaceToken {
				continue
			}
			data = []byte(" ")
		}
		toks = append(toks, token{tt: tt, text: string(data)})
	}
}

// Parser holds the state of the CSS parser.
type Parser struct {
	input string
	toks  []token
	pos   int
}

func NewParser(input string) *Parser {
	return &Parser{input: input}
}

// Parse builds a StyleSheet. At-rules and rules whose selector cannot be
// matched are skipped; a lexer error ends the sheet early and is returned
// alongside the rules read so far.
func (p *Parser) Parse() (StyleSheet, error) {
	toks, lexErr := tokenize(p.input)
	p.toks, p.pos = toks, 0

	var sheet StyleSheet
	for {
		p.skipWhitespace()
		if p.eof() {
			break
		}
		if p.peek().tt == css.AtKeywordToken {
			p.skipAtRule()
			continue
		}

		prelude := p.collectUntil(css.LeftBraceToken)
		if p.eof() {
			break
		}
		p.pos++ // {
		block := p.collectBlock()

		group, err := ParseSelector(joinTokens(prelude))
		if err != nil {
			continue
		}
		sheet.Rules = append(sheet.Rules, RuleSet{
			Selectors:    group,
			Declarations: parseDeclarations(block),
		})
	}
	return sheet, lexErr
}

// ParseDeclarations reads the body of a style attribute.
func ParseDeclarations(input string) []Declaration {
	toks, _ := tokenize(input)
	return parseDeclarations(toks)
}

func (p *Parser) eof() bool { return p.pos >= len(p.toks) }

func (p *Parser) peek() token { return p.toks[p.pos] }

func (p *Parser) skipWhitespace() {
	for !p.eof() && p.peek().tt == css.WhitespaceToken {
		p.pos++
	}
}

// collectUntil returns the tokens before the first stop token outside any
// nesting. The stop token itself is left unconsumed.
func (p *Parser) collectUntil(stop css.TokenType) []token {
	start, depth := p.pos, 0
	for ; !p.eof(); p.pos++ {
		tt := p.peek().tt
		if depth == 0 && tt == stop {
			break
		}
		depth += nesting(tt)
	}
	return p.toks[start:p.pos]
}

// collectBlock consumes through the brace closing the current block and
// returns its contents.
func (p *Parser) collectBlock() []token {
	start, depth := p.pos, 0
	for ; !p.eof(); p.pos++ {
		tt := p.peek().tt
		if tt == css.RightBraceToken && depth == 0 {
			body := p.toks[start:p.pos]
			p.pos++
			return body
		}
		depth += nesting(tt)
	}
	return p.toks[start:]
}

// skipAtRule consumes a statement at-rule up to its semicolon or a block
// at-rule through its closing brace, nested rules included.
func (p *Parser) skipAtRule() {
	p.pos++
	for ; !p.eof(); p.pos++ {
		switch p.peek().tt {
		case css.SemicolonToken:
			p.pos++
			return
		case css.LeftBraceToken:
			p.pos++
			p.collectBlock()
			return
		}
	}
}

func nesting(tt css.TokenType) int {
	switch tt {
	case css.LeftBraceToken, css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
		return 1
	case css.RightBraceToken, css.RightParenthesisToken, css.RightBracketToken:
		return -1
	}
	return 0
}

// splitTopLevel splits toks on sep outside of any nesting.
func splitTopLevel(toks []token, sep css.TokenType) [][]token {
	var parts [][]token
	start, depth := 0, 0
	for i, t := range toks {
		if depth == 0 && t.tt == sep {
			parts = append(parts, toks[start:i])
			start = i + 1
			continue
		}
		depth += nesting(t.tt)
	}
	return append(parts, toks[start:])
}

func parseDeclarations(toks []token) []Declaration {
	var decls []Declaration
	for _, part := range splitTopLevel(toks, css.SemicolonToken) {
		if d, ok := parseDeclaration(trimWhitespace(part)); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

func parseDeclaration(toks []token) (Declaration, bool) {
	if len(toks) < 2 || (toks[0].tt != css.IdentToken && toks[0].tt != css.CustomPropertyNameToken) {
		return Declaration{}, false
	}
	rest := trimWhitespace(toks[1:])
	if len(rest) == 0 || rest[0].tt != css.ColonToken {
		return Declaration{}, false
	}
	value := trimWhitespace(rest[1:])

	important := false
	if n := len(value); n >= 2 &&
		value[n-1].tt == css.IdentToken && strings.EqualFold(value[n-1].text, "important") {
		bang := trimWhitespace(value[:n-1])
		if m := len(bang); m > 0 && bang[m-1].tt == css.DelimToken && bang[m-1].text == "!" {
			important = true
			value = trimWhitespace(bang[:m-1])
		}
	}
	if len(value) == 0 {
		return Declaration{}, false
	}
	return Declaration{
		Property:  Property(strings.ToLower(toks[0].text)),
		Value:     Value(joinTokens(value)),
		Important: important,
	}, true
}

func trimWhitespace(toks []token) []token {
	for len(toks) > 0 && toks[0].tt == css.WhitespaceToken {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].tt == css.WhitespaceToken {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func joinTokens(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.text)
	}
	return strings.TrimSpace(b.String())
}

// ParseSelector parses a selector list such as "div.card, #main p".
func ParseSelector(input string) (SelectorGroup, error) {
	toks, err := tokenize(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSelector, err)
	}
	var group SelectorGroup
	for _, part := range splitTopLevel(toks, css.CommaToken) {
		part = trimWhitespace(part)
		if len(part) == 0 {
			return nil, fmt.Errorf("%w in %q", ErrEmptySelector, input)
		}
		complexSel, err := parseComplexSelector(part)
		if err != nil {
			return nil, fmt.Errorf("%w in %q", err, input)
		}
		group = append(group, complexSel)
	}
	return group, nil
}

func parseComplexSelector(toks []token) (ComplexSelector, error) {
	var (
		out     ComplexSelector
		current SimpleSelector
		pending = CombinatorNone
		started bool
	)
	flush := func() error {
		if !current.IsValid() {
			return ErrEmptySelector
		}
		out.Selectors = append(out.Selectors, SimpleSelectorWithCombinator{Combinator: pending, SimpleSelector: current})
		current, started = SimpleSelector{}, false
		return nil
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.tt == css.WhitespaceToken:
			if started {
				if err := flush(); err != nil {
					return out, err
				}
				pending = CombinatorDescendant
			}
		case t.tt == css.DelimToken && t.text == ">":
			if started {
				if err := flush(); err != nil {
					return out, err
				}
			}
			if len(out.Selectors) == 0 {
				return out, fmt.Errorf("%w: leading combinator", ErrUnsupportedSelector)
			}
			pending = CombinatorChild
		case t.tt == css.IdentToken:
			if started {
				return out, fmt.Errorf("%w: misplaced type selector %q", ErrUnsupportedSelector, t.text)
			}
			current.TagName = strings.ToLower(t.text)
			started = true
		case t.tt == css.DelimToken && t.text == "*":
			if started {
				return out, fmt.Errorf("%w: misplaced universal selector", ErrUnsupportedSelector)
			}
			current.TagName = "*"
			started = true
		case t.tt == css.HashToken:
			current.ID = strings.TrimPrefix(t.text, "#")
			started = true
		case t.tt == css.DelimToken && t.text == ".":
			if i+1 >= len(toks) || toks[i+1].tt != css.IdentToken {
				return out, fmt.Errorf("%w: dangling class selector", ErrUnsupportedSelector)
			}
			i++
			current.Classes = append(current.Classes, toks[i].text)
			started = true
		default:
			return out, fmt.Errorf("%w: %q", ErrUnsupportedSelector, t.text)
		}
	}
	if !started {
		return out, fmt.Errorf("%w: trailing combinator", ErrUnsupportedSelector)
	}
	return out, flush()
}
