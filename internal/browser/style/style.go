// internal/browser/style/style.go
package style

import (
	"sort"
	"strings"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/browser/parser"
	"github.com/xkilldash9x/shapes-cli/internal/observability"
	"github.com/xkilldash9x/shapes-cli/internal/units"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// -- Constants and Configuration --

const (
	BaseFontSize = 16.0 // Default root font size.
)

// Border width keywords, in pixels.
var borderWidthKeywords = map[string]float64{
	"thin":   1,
	"medium": 3,
	"thick":  5,
}

// DefaultUserAgentCSS is a minimal stylesheet covering the box-model
// defaults that move an element or change its size.
const DefaultUserAgentCSS = `
body { margin: 8px; }
p, ul, ol { margin-top: 1em; margin-bottom: 1em; }
h1 { font-size: 2em; margin-top: 0.67em; margin-bottom: 0.67em; }
h2 { font-size: 1.5em; margin-top: 0.83em; margin-bottom: 0.83em; }
h3 { font-size: 1.17em; margin-top: 1em; margin-bottom: 1em; }
ul, ol { padding-left: 40px; }
button { border: 2px outset; padding: 1px 6px; }
input, textarea, select { border: 2px inset; padding: 1px 2px; }
small { font-size: smaller; }
`

// -- Style Engine --

// Engine runs the cascade and font-size inheritance over a parsed document.
type Engine struct {
	userAgentSheets []parser.StyleSheet
	authorSheets    []parser.StyleSheet
	viewportWidth   float64
	viewportHeight  float64
	rootFontSize    float64
	logger          *zap.Logger
}

// NewEngine creates a styling engine seeded with the user agent sheet.
func NewEngine() *Engine {
	uaSheet, _ := parser.NewParser(DefaultUserAgentCSS).Parse()
	return &Engine{
		userAgentSheets: []parser.StyleSheet{uaSheet},
		rootFontSize:    BaseFontSize,
		logger:          observability.Component("style"),
	}
}

// AddAuthorSheet adds a stylesheet provided by the webpage author.
func (se *Engine) AddAuthorSheet(sheet parser.StyleSheet) {
	se.authorSheets = append(se.authorSheets, sheet)
}

// AddAuthorCSS parses css and adds it as an author sheet. Rules read before
// a lexer error are kept.
func (se *Engine) AddAuthorCSS(css string) {
	sheet, err := parser.NewParser(css).Parse()
	if err != nil {
		se.logger.Warn("Stylesheet truncated by a syntax error.", zap.Int("rules", len(sheet.Rules)), zap.Error(err))
	}
	se.AddAuthorSheet(sheet)
}

// SetViewport sets the dimensions used for viewport-relative units.
func (se *Engine) SetViewport(width, height float64) {
	se.viewportWidth = width
	se.viewportHeight = height
}

// SetRootFontSize sets the font size of the root element when the document
// does not declare one. Non-positive sizes are ignored.
func (se *Engine) SetRootFontSize(px float64) {
	if px > 0 {
		se.rootFontSize = px
	}
}

// -- Canonical Data Structures --

// StyledNode represents an element combined with its computed styles.
type StyledNode struct {
	Node           *html.Node
	ComputedStyles map[parser.Property]parser.Value
	Parent         *StyledNode
	Children       []*StyledNode
	// Context holds the resolved font sizes and the viewport.
	Context units.Context
}

// -- Style Tree Construction (The Cascade and Inheritance) --

// BuildTree styles every element under root. Text and comment nodes are not
// part of the tree.
func (se *Engine) BuildTree(root *html.Node) *StyledNode {
	base := units.Context{
		FontSize:       se.rootFontSize,
		RootFontSize:   se.rootFontSize,
		ViewportWidth:  se.viewportWidth,
		ViewportHeight: se.viewportHeight,
	}
	return se.buildTreeRecursive(root, nil, base)
}

func (se *Engine) buildTreeRecursive(node *html.Node, parent *StyledNode, inherited units.Context) *StyledNode {
	if node.Type != html.ElementNode && node.Type != html.DocumentNode {
		return nil
	}

	computedStyles := make(map[parser.Property]parser.Value)
	if node.Type == html.ElementNode {
		computedStyles = se.CalculateStyles(node)
	}

	styledNode := &StyledNode{
		Node:           node,
		ComputedStyles: computedStyles,
		Parent:         parent,
		Context:        inherited,
	}
	if parent != nil {
		inheritStyles(styledNode, parent)
	}
	styledNode.resolveFontSize(inherited)

	// The first element styled sets the rem base for everything below it.
	if node.Type == html.ElementNode && (parent == nil || parent.Node.Type == html.DocumentNode) {
		styledNode.Context.RootFontSize = styledNode.Context.FontSize
	}

	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if child := se.buildTreeRecursive(c, styledNode, styledNode.Context); child != nil {
			styledNode.Children = append(styledNode.Children, child)
		}
	}
	return styledNode
}

var inheritableProperties = map[parser.Property]bool{
	"color": true, "font-family": true, "font-size": true, "font-weight": true,
	"line-height": true, "text-align": true, "visibility": true, "cursor": true,
}

func inheritStyles(child, parent *StyledNode) {
	for prop, val := range child.ComputedStyles {
		if val == "inherit" {
			if parentVal, parentHas := parent.ComputedStyles[prop]; parentHas {
				child.ComputedStyles[prop] = parentVal
			} else {
				delete(child.ComputedStyles, prop)
			}
		}
	}

	for prop := range inheritableProperties {
		if _, exists := child.ComputedStyles[prop]; !exists {
			if val, parentHas := parent.ComputedStyles[prop]; parentHas {
				child.ComputedStyles[prop] = val
			}
		}
	}
}

// resolveFontSize turns the declared font-size into pixels. em and % refer
// to the parent's size; the resolved value is written back as px so that
// children inherit the computed size, not the relative expression.
func (sn *StyledNode) resolveFontSize(parent units.Context) {
	declared, ok := sn.ComputedStyles["font-size"]
	if !ok {
		return
	}
	var px float64
	switch v := strings.TrimSpace(string(declared)); v {
	case "smaller":
		px = parent.FontSize / 1.2
	case "larger":
		px = parent.FontSize * 1.2
	default:
		px = ParseLengthWithUnits(v, parent.FontSize, parent.RootFontSize, parent.FontSize, parent.ViewportWidth, parent.ViewportHeight)
	}
	if px <= 0 {
		px = parent.FontSize
	}
	sn.Context.FontSize = px
	sn.ComputedStyles["font-size"] = parser.Value(units.Pixels(px).String())
}

// StyleOrigin ranks where a declaration came from.
type StyleOrigin int

const (
	OriginUserAgent StyleOrigin = iota
	OriginAuthor
	OriginInline
)

type DeclarationWithContext struct {
	Declaration parser.Declaration
	Specificity struct{ A, B, C int }
	Origin      StyleOrigin
	Order       int
}

// CalculateStyles runs the cascade for one element. Shorthands are expanded
// before sorting so a later longhand still overrides an earlier shorthand.
func (se *Engine) CalculateStyles(node *html.Node) map[parser.Property]parser.Value {
	var declarations []DeclarationWithContext
	order := 0

	add := func(decl parser.Declaration, specificity struct{ A, B, C int }, origin StyleOrigin) {
		for _, expanded := range expandShorthand(decl) {
			declarations = append(declarations, DeclarationWithContext{
				Declaration: expanded,
				Specificity: specificity,
				Origin:      origin,
				Order:       order,
			})
			order++
		}
	}

	processSheets := func(sheets []parser.StyleSheet, origin StyleOrigin) {
		for _, sheet := range sheets {
			for _, rule := range sheet.Rules {
				matching, ok := Matches(node, rule.Selectors)
				if !ok {
					continue
				}
				a, b, c := matching.CalculateSpecificity()
				for _, decl := range rule.Declarations {
					add(decl, struct{ A, B, C int }{a, b, c}, origin)
				}
			}
		}
	}

	processSheets(se.userAgentSheets, OriginUserAgent)
	processSheets(se.authorSheets, OriginAuthor)

	for _, attr := range node.Attr {
		if attr.Key == "style" {
			for _, decl := range parser.ParseDeclarations(attr.Val) {
				add(decl, struct{ A, B, C int }{1, 0, 0}, OriginInline)
			}
		}
	}

	sort.Slice(declarations, func(i, j int) bool {
		d1, d2 := declarations[i], declarations[j]
		p1, p2 := calculateCascadePriority(d1), calculateCascadePriority(d2)
		if p1 != p2 {
			return p1 < p2
		}
		s1, s2 := d1.Specificity, d2.Specificity
		if s1.A != s2.A {
			return s1.A < s2.A
		}
		if s1.B != s2.B {
			return s1.B < s2.B
		}
		if s1.C != s2.C {
			return s1.C < s2.C
		}
		return d1.Order < d2.Order
	})

	styles := make(map[parser.Property]parser.Value)
	for _, declCtx := range declarations {
		styles[declCtx.Declaration.Property] = declCtx.Declaration.Value
	}
	return styles
}

var sides = [4]string{"top", "right", "bottom", "left"}

// expandShorthand returns the longhands a declaration sets, or the
// declaration itself when it is not a supported shorthand.
func expandShorthand(decl parser.Declaration) []parser.Declaration {
	switch decl.Property {
	case "margin", "padding":
		return expand1To4Shorthand(decl, string(decl.Property)+"-%s")
	case "border-width":
		return expand1To4Shorthand(decl, "border-%s-width")
	case "border-style":
		return expand1To4Shorthand(decl, "border-%s-style")
	case "border":
		return expandBorder(decl)
	}
	return []parser.Declaration{decl}
}

func longhand(pattern, side string) parser.Property {
	return parser.Property(strings.Replace(pattern, "%s", side, 1))
}

func expand1To4Shorthand(decl parser.Declaration, pattern string) []parser.Declaration {
	parts := strings.Fields(string(decl.Value))
	var values [4]string
	switch len(parts) {
	case 1:
		values = [4]string{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		values = [4]string{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		values = [4]string{parts[0], parts[1], parts[2], parts[1]}
	case 4:
		values = [4]string{parts[0], parts[1], parts[2], parts[3]}
	default:
		return nil
	}
	out := make([]parser.Declaration, 0, 4)
	for i, side := range sides {
		out = append(out, parser.Declaration{
			Property:  longhand(pattern, side),
			Value:     parser.Value(values[i]),
			Important: decl.Important,
		})
	}
	return out
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "solid": true, "dashed": true, "dotted": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

func isLengthLike(part string) bool {
	if _, ok := borderWidthKeywords[part]; ok {
		return true
	}
	return len(part) > 0 && (part[0] >= '0' && part[0] <= '9' || part[0] == '.')
}

// expandBorder splits "border: <width> <style> <color>" in any order. The
// missing parts reset to their initial values.
func expandBorder(decl parser.Declaration) []parser.Declaration {
	width, styleVal := "medium", "none"
	foundWidth, foundStyle := false, false
	for _, part := range strings.Fields(string(decl.Value)) {
		switch {
		case !foundWidth && isLengthLike(part):
			width, foundWidth = part, true
		case !foundStyle && borderStyles[part]:
			styleVal, foundStyle = part, true
		}
	}
	out := make([]parser.Declaration, 0, 8)
	for _, side := range sides {
		out = append(out,
			parser.Declaration{Property: longhand("border-%s-width", side), Value: parser.Value(width), Important: decl.Important},
			parser.Declaration{Property: longhand("border-%s-style", side), Value: parser.Value(styleVal), Important: decl.Important},
		)
	}
	return out
}

func calculateCascadePriority(d DeclarationWithContext) int {
	isImportant := d.Declaration.Important
	switch d.Origin {
	case OriginUserAgent:
		if isImportant {
			return 5
		}
		return 1
	case OriginAuthor:
		if isImportant {
			return 4
		}
		return 2
	case OriginInline:
		if isImportant {
			return 4
		}
		return 3
	}
	return 0
}

// -- Lookups --

func (sn *StyledNode) Lookup(property, fallback string) string {
	if val, ok := sn.ComputedStyles[parser.Property(property)]; ok {
		return string(val)
	}
	return fallback
}

// FontSize is the computed font size in pixels.
func (sn *StyledNode) FontSize() float64 {
	if sn == nil || sn.Context.FontSize <= 0 {
		return BaseFontSize
	}
	return sn.Context.FontSize
}

type BoxSizingType int

const (
	ContentBox BoxSizingType = iota
	BorderBox
)

func (sn *StyledNode) BoxSizing() BoxSizingType {
	if sn.Lookup("box-sizing", "content-box") == "border-box" {
		return BorderBox
	}
	return ContentBox
}

// Length resolves a length property in pixels. Percentages refer to
// reference. The second result is false when the property is unset or auto.
func (sn *StyledNode) Length(property string, reference float64) (float64, bool) {
	v := strings.TrimSpace(sn.Lookup(property, ""))
	if v == "" || v == "auto" {
		return 0, false
	}
	return sn.resolve(v, reference), true
}

func (sn *StyledNode) resolve(v string, reference float64) float64 {
	c := sn.Context
	return ParseLengthWithUnits(v, c.FontSize, c.RootFontSize, reference, c.ViewportWidth, c.ViewportHeight)
}

// Edges resolves the four sides of margin, padding or border. Percentages
// refer to reference, which CSS defines as the containing block's width for
// every side. A border side whose style is none or hidden has zero width.
func (sn *StyledNode) Edges(box string, reference float64) layout.Edges {
	var e [4]float64
	for i, side := range sides {
		prop := box + "-" + side
		if box == "border" {
			if s := sn.Lookup("border-"+side+"-style", "none"); s == "none" || s == "hidden" {
				continue
			}
			prop += "-width"
		}
		v := sn.Lookup(prop, "")
		if px, ok := borderWidthKeywords[v]; ok && box == "border" {
			e[i] = px
			continue
		}
		e[i] = sn.resolve(v, reference)
	}
	return layout.Edges{Top: e[0], Right: e[1], Bottom: e[2], Left: e[3]}
}

// ParseLengthWithUnits resolves a CSS length to pixels. Unit-less numbers
// count as px; unparseable values and auto resolve to zero.
func ParseLengthWithUnits(value string, parentFontSize, rootFontSize, referenceDimension, viewportWidth, viewportHeight float64) float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "auto" || value == "normal" {
		return 0.0
	}

	// vmin and vmax have no unit of their own in the converter.
	switch {
	case strings.HasSuffix(value, "vmin"):
		l := units.ParseLength(strings.TrimSuffix(value, "vmin"))
		return min(viewportWidth, viewportHeight) * l.Value / 100
	case strings.HasSuffix(value, "vmax"):
		l := units.ParseLength(strings.TrimSuffix(value, "vmax"))
		return max(viewportWidth, viewportHeight) * l.Value / 100
	}

	conv := units.NewConverter(
		layout.BoxMetrics{Width: referenceDimension, Height: referenceDimension},
		units.Context{
			FontSize:       parentFontSize,
			RootFontSize:   rootFontSize,
			ViewportWidth:  viewportWidth,
			ViewportHeight: viewportHeight,
		},
	)
	return conv.ToPixels(units.ParseLength(value), layout.Horizontal, false)
}

func ParseAbsoluteLength(value string) float64 {
	return ParseLengthWithUnits(value, 0, 0, 0, 0, 0)
}
