// browser/dom/document.go
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/browser/parser"
	"github.com/xkilldash9x/shapes-cli/internal/browser/style"
	"github.com/xkilldash9x/shapes-cli/internal/config"
	"golang.org/x/net/html"
)

var (
	// ErrNoMatch is returned when a selector matches no element.
	ErrNoMatch = errors.New("dom: no element matches the selector")
	// ErrInvalidSelector is returned for an expression that is neither XPath nor a supported CSS selector.
	ErrInvalidSelector = errors.New("dom: invalid selector")
)

// Document is a parsed HTML page with styles applied. Elements are placed
// without flow layout: each sits at its parent's content origin, moved by
// its own left/top offsets and margins. Auto widths fill the containing
// block and auto heights collapse to the border and padding.
type Document struct {
	root           *html.Node
	tree           *style.StyledNode
	index          map[*html.Node]*style.StyledNode
	mu             sync.Mutex
	boxes          map[*style.StyledNode]placed
	viewportWidth  float64
	viewportHeight float64
}

// placed is the resolved layout of one element, in page coordinates.
type placed struct {
	border  layout.Rect
	content layout.Rect
	style   layout.ComputedStyle
}

// Parse reads an HTML document. Inline <style> elements are applied as
// author sheets.
func Parse(r io.Reader, cfg config.DocumentConfig) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	vw, vh := cfg.ViewportWidth, cfg.ViewportHeight
	if vw <= 0 {
		vw = DefaultViewportWidth
	}
	if vh <= 0 {
		vh = DefaultViewportHeight
	}

	engine := style.NewEngine()
	engine.SetViewport(vw, vh)
	engine.SetRootFontSize(cfg.RootFontSize)
	for _, n := range htmlquery.Find(root, "//style") {
		engine.AddAuthorCSS(htmlquery.InnerText(n))
	}

	d := &Document{
		root:           root,
		tree:           engine.BuildTree(root),
		index:          make(map[*html.Node]*style.StyledNode),
		boxes:          make(map[*style.StyledNode]placed),
		viewportWidth:  vw,
		viewportHeight: vh,
	}
	d.indexTree(d.tree)
	return d, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string, cfg config.DocumentConfig) (*Document, error) {
	return Parse(strings.NewReader(s), cfg)
}

func (d *Document) indexTree(sn *style.StyledNode) {
	d.index[sn.Node] = sn
	for _, c := range sn.Children {
		d.indexTree(c)
	}
}

// isXPath reports whether expr is written as an XPath expression rather
// than a CSS selector.
func isXPath(expr string) bool {
	return strings.HasPrefix(expr, "/") || strings.HasPrefix(expr, "(") || strings.HasPrefix(expr, "./")
}

// Select returns the first element matching expr in document order. expr
// is XPath when it starts with "/" or "(", otherwise a CSS selector.
func (d *Document) Select(expr string) (*Element, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidSelector)
	}

	var node *html.Node
	if isXPath(expr) {
		found, err := htmlquery.Query(d.root, expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
		}
		node = found
	} else {
		group, err := parser.ParseSelector(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
		}
		node = d.findFirst(d.tree, group)
	}

	sn, ok := d.index[node]
	if node == nil || !ok || node.Type != html.ElementNode {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, expr)
	}
	return &Element{doc: d, node: sn}, nil
}

func (d *Document) findFirst(sn *style.StyledNode, group parser.SelectorGroup) *html.Node {
	if _, ok := style.Matches(sn.Node, group); ok {
		return sn.Node
	}
	for _, c := range sn.Children {
		if found := d.findFirst(c, group); found != nil {
			return found
		}
	}
	return nil
}

func (d *Document) layoutOf(sn *style.StyledNode) placed {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.place(sn)
}

// place lays out sn and its ancestors, memoized per element. d.mu is held.
func (d *Document) place(sn *style.StyledNode) placed {
	if p, ok := d.boxes[sn]; ok {
		return p
	}

	// The document node, and so the root element's containing block, is
	// the viewport.
	if sn.Parent == nil {
		p := placed{
			border:  layout.Rect{Width: d.viewportWidth, Height: d.viewportHeight},
			content: layout.Rect{Width: d.viewportWidth, Height: d.viewportHeight},
		}
		d.boxes[sn] = p
		return p
	}
	container := d.place(sn.Parent).content

	cs := layout.ComputedStyle{
		Margin:       sn.Edges("margin", container.Width),
		Border:       sn.Edges("border", container.Width),
		Padding:      sn.Edges("padding", container.Width),
		FontSize:     sn.FontSize(),
		RootFontSize: sn.Context.RootFontSize,
	}
	frameX := cs.Border.Left + cs.Border.Right + cs.Padding.Left + cs.Padding.Right
	frameY := cs.Border.Top + cs.Border.Bottom + cs.Padding.Top + cs.Padding.Bottom

	width, ok := sn.Length("width", container.Width)
	switch {
	case !ok:
		width = max(container.Width-cs.Margin.Left-cs.Margin.Right, frameX)
	case sn.BoxSizing() == style.BorderBox:
		width = max(width, frameX)
	default:
		width += frameX
	}

	height, ok := sn.Length("height", container.Height)
	switch {
	case !ok:
		height = frameY
	case sn.BoxSizing() == style.BorderBox:
		height = max(height, frameY)
	default:
		height += frameY
	}

	left, _ := sn.Length("left", container.Width)
	top, _ := sn.Length("top", container.Height)

	border := layout.Rect{
		X:      container.X + left + cs.Margin.Left,
		Y:      container.Y + top + cs.Margin.Top,
		Width:  width,
		Height: height,
	}
	p := placed{
		border:  border,
		content: border.InsetBy(cs.Border.Add(cs.Padding)),
		style:   cs,
	}
	d.boxes[sn] = p
	return p
}

// Element is one styled element of a Document.
type Element struct {
	doc  *Document
	node *style.StyledNode
}

// Node is the underlying HTML node.
func (e *Element) Node() *html.Node { return e.node.Node }

// XPath is a unique path back to this element.
func (e *Element) XPath() string { return GenerateUniqueXPath(e.node.Node) }

// BoundingClientRect is the border box. A static document never scrolls,
// so page and viewport coordinates coincide.
func (e *Element) BoundingClientRect() layout.Rect { return e.doc.layoutOf(e.node).border }

func (e *Element) ComputedStyle() layout.ComputedStyle { return e.doc.layoutOf(e.node).style }

func (e *Element) ScrollOffset() (x, y float64) { return 0, 0 }

func (e *Element) Viewport() (width, height float64) {
	return e.doc.viewportWidth, e.doc.viewportHeight
}

// Snapshot records the element's layout.
func (e *Element) Snapshot() *Snapshot {
	p := e.doc.layoutOf(e.node)
	return &Snapshot{
		Rect:           p.border,
		Border:         p.style.Border,
		Padding:        p.style.Padding,
		Margin:         p.style.Margin,
		FontSize:       p.style.FontSize,
		RootFontSize:   p.style.RootFontSize,
		ViewportWidth:  e.doc.viewportWidth,
		ViewportHeight: e.doc.viewportHeight,
	}
}

var _ layout.Element = (*Element)(nil)
