package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/browser/parser"
	"golang.org/x/net/html"
)

// Helper to set up the style engine with specific CSS.
func setupEngine(css string) *Engine {
	engine := NewEngine()
	engine.AddAuthorCSS(css)
	return engine
}

// Helper to find a StyledNode by ID in the built tree.
func findStyledNodeByID(n *StyledNode, id string) *StyledNode {
	if n == nil {
		return nil
	}
	if n.Node.Type == html.ElementNode {
		for _, attr := range n.Node.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for _, child := range n.Children {
		if found := findStyledNodeByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func buildTree(t *testing.T, engine *Engine, htmlInput string) *StyledNode {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(htmlInput))
	require.NoError(t, err)
	return engine.BuildTree(doc)
}

// --- Tests for The Cascade Algorithm ---

func TestCSSCascade(t *testing.T) {
	htmlInput := `<p id="target" class="highlight" style="color: inline;">Test</p>`
	targetNode := parseHTMLAndFind(htmlInput, "target")
	require.NotNil(t, targetNode)

	t.Run("Specificity Ordering", func(t *testing.T) {
		engine := setupEngine(`
			#target { color: id; } /* 1,0,0 - Wins over class/tag */
			p.highlight { color: class; } /* 0,1,1 */
			p { color: tag; } /* 0,0,1 */
		`)

		// Drop the style attribute to test specificity in isolation.
		originalAttrs := targetNode.Attr
		targetNode.Attr = []html.Attribute{{Key: "id", Val: "target"}, {Key: "class", Val: "highlight"}}
		defer func() { targetNode.Attr = originalAttrs }()

		styles := engine.CalculateStyles(targetNode)
		assert.Equal(t, "id", string(styles["color"]))
	})

	t.Run("Source Order Breaks Ties", func(t *testing.T) {
		engine := setupEngine(`p { width: 1px; } p { width: 2px; }`)
		styles := engine.CalculateStyles(targetNode)
		assert.Equal(t, "2px", string(styles["width"]))
	})

	t.Run("!important Precedence", func(t *testing.T) {
		engine := setupEngine(`
			p { color: tag !important; } /* Wins because it's !important */
			#target { color: id; }
		`)
		styles := engine.CalculateStyles(targetNode)
		assert.Equal(t, "tag", string(styles["color"]))
	})

	t.Run("Inline vs Author", func(t *testing.T) {
		engine := setupEngine(`#target { color: id; }`)
		styles := engine.CalculateStyles(targetNode)
		assert.Equal(t, "inline", string(styles["color"]))
	})

	t.Run("Author !important vs Inline", func(t *testing.T) {
		engine := setupEngine(`#target { color: id !important; }`)
		styles := engine.CalculateStyles(targetNode)
		assert.Equal(t, "id", string(styles["color"]))
	})

	t.Run("Author Overrides User Agent", func(t *testing.T) {
		engine := setupEngine(`p { margin-top: 0; }`)
		styles := engine.CalculateStyles(targetNode)
		assert.Equal(t, "0", string(styles["margin-top"]))
		assert.Equal(t, "1em", string(styles["margin-bottom"]))
	})
}

// --- Tests for Shorthand Expansion ---

func TestShorthandExpansion(t *testing.T) {
	targetNode := parseHTMLAndFind(`<div id="target"></div>`, "target")
	require.NotNil(t, targetNode)

	t.Run("Margin/Padding (1-4 values)", func(t *testing.T) {
		engine := setupEngine(`div {
			margin: 10px;               /* 10 10 10 10 */
			padding: 5px 20px;          /* 5 20 5 20 */
			border-width: 1px 2px 3px;  /* 1 2 3 2 */
		}`)
		styles := engine.CalculateStyles(targetNode)

		assert.Equal(t, "10px", string(styles["margin-top"]))
		assert.Equal(t, "10px", string(styles["margin-left"]))

		assert.Equal(t, "5px", string(styles["padding-top"]))
		assert.Equal(t, "20px", string(styles["padding-right"]))

		assert.Equal(t, "1px", string(styles["border-top-width"]))
		assert.Equal(t, "3px", string(styles["border-bottom-width"]))
		assert.Equal(t, "2px", string(styles["border-left-width"])) // Left mirrors Right (3 values)
		assert.NotContains(t, styles, parser.Property("margin"))
	})

	t.Run("Border Shorthand", func(t *testing.T) {
		engine := setupEngine(`div { border: red dashed 2px; }`)
		styles := engine.CalculateStyles(targetNode)
		assert.Equal(t, "2px", string(styles["border-top-width"]))
		assert.Equal(t, "dashed", string(styles["border-right-style"]))
	})

	t.Run("Later Longhand Wins", func(t *testing.T) {
		engine := setupEngine(`div { margin: 10px; margin-left: 3px; }`)
		styles := engine.CalculateStyles(targetNode)
		assert.Equal(t, "3px", string(styles["margin-left"]))
		assert.Equal(t, "10px", string(styles["margin-right"]))
	})

	t.Run("Later Shorthand Wins", func(t *testing.T) {
		engine := setupEngine(`div { margin-left: 3px; margin: 10px; }`)
		styles := engine.CalculateStyles(targetNode)
		assert.Equal(t, "10px", string(styles["margin-left"]))
	})

	t.Run("Too Many Values", func(t *testing.T) {
		engine := setupEngine(`div { padding: 1px 2px 3px 4px 5px; }`)
		styles := engine.CalculateStyles(targetNode)
		assert.NotContains(t, styles, parser.Property("padding-top"))
	})
}

// --- Tests for Inheritance and Value Resolution (BuildTree) ---

func TestInheritanceAndResolution(t *testing.T) {
	htmlInput := `
		<div id="parent" style="font-size: 20px; color: blue; border: 1px solid black;">
			<p id="child" style="font-size: 1.5em;">
				<span id="rem" style="font-size: 2rem;"></span>
				<span id="plain"></span>
			</p>
			<span id="percent" style="font-size: 50%;"></span>
			<span id="inherit-child" style="color: inherit;"></span>
		</div>
	`
	engine := setupEngine("") // Inline styles only
	engine.SetViewport(1000, 800)
	styleTree := buildTree(t, engine, htmlInput)

	parent := findStyledNodeByID(styleTree, "parent")
	child := findStyledNodeByID(styleTree, "child")
	require.NotNil(t, parent)
	require.NotNil(t, child)

	t.Run("Default Inheritance", func(t *testing.T) {
		// Color should inherit.
		assert.Equal(t, "blue", child.Lookup("color", ""))
		// Border should not inherit.
		assert.Equal(t, "", child.Lookup("border-top-width", ""))
	})

	t.Run("Explicit Inherit", func(t *testing.T) {
		assert.Equal(t, "blue", findStyledNodeByID(styleTree, "inherit-child").Lookup("color", ""))
	})

	t.Run("Relative Unit Resolution", func(t *testing.T) {
		assert.Equal(t, "20px", parent.Lookup("font-size", ""))
		// Child: 1.5em * 20px = 30px
		assert.Equal(t, "30px", child.Lookup("font-size", ""))
		assert.Equal(t, 30.0, child.FontSize())
		// The computed size is inherited, not the em expression.
		assert.Equal(t, 30.0, findStyledNodeByID(styleTree, "plain").FontSize())
		assert.Equal(t, 10.0, findStyledNodeByID(styleTree, "percent").FontSize())
		assert.Equal(t, 32.0, findStyledNodeByID(styleTree, "rem").FontSize())
	})

	t.Run("Viewport Is Carried", func(t *testing.T) {
		assert.Equal(t, 1000.0, child.Context.ViewportWidth)
		assert.Equal(t, 800.0, child.Context.ViewportHeight)
		assert.Same(t, parent, child.Parent)
	})
}

func TestRootFontSize(t *testing.T) {
	t.Run("Engine Default", func(t *testing.T) {
		engine := setupEngine("")
		engine.SetRootFontSize(10)
		engine.SetRootFontSize(-1) // ignored
		tree := buildTree(t, engine, `<div id="box" style="font-size: 2rem"></div>`)
		assert.Equal(t, 20.0, findStyledNodeByID(tree, "box").FontSize())
	})

	t.Run("Declared On The Root Element", func(t *testing.T) {
		engine := setupEngine(`html { font-size: 12px; }`)
		tree := buildTree(t, engine, `<div id="box" style="font-size: 2rem"></div>`)
		box := findStyledNodeByID(tree, "box")
		assert.Equal(t, 12.0, box.Context.RootFontSize)
		assert.Equal(t, 24.0, box.FontSize())
	})
}

func TestBoxLengths(t *testing.T) {
	engine := setupEngine(`
		#box {
			width: 50%; height: 10em; box-sizing: border-box;
			margin: 0 5%; border: 2px solid; padding: 1px 2px;
		}
		#nostyle { border-width: 4px; }
		#thick { border: thick solid; }
	`)
	tree := buildTree(t, engine, `<div id="box"></div><div id="nostyle"></div><div id="thick"></div>`)
	box := findStyledNodeByID(tree, "box")
	require.NotNil(t, box)

	w, ok := box.Length("width", 400)
	assert.True(t, ok)
	assert.Equal(t, 200.0, w)

	h, ok := box.Length("height", 400)
	assert.True(t, ok)
	assert.Equal(t, 160.0, h)

	_, ok = box.Length("left", 400)
	assert.False(t, ok)

	assert.Equal(t, BorderBox, box.BoxSizing())
	assert.Equal(t, layout.Edges{Top: 0, Right: 20, Bottom: 0, Left: 20}, box.Edges("margin", 400))
	assert.Equal(t, layout.Edges{Top: 2, Right: 2, Bottom: 2, Left: 2}, box.Edges("border", 400))
	assert.Equal(t, layout.Edges{Top: 1, Right: 2, Bottom: 1, Left: 2}, box.Edges("padding", 400))

	// Without a border style the width computes to zero.
	assert.Equal(t, layout.Edges{}, findStyledNodeByID(tree, "nostyle").Edges("border", 400))
	assert.Equal(t, layout.Edges{Top: 5, Right: 5, Bottom: 5, Left: 5}, findStyledNodeByID(tree, "thick").Edges("border", 400))
	assert.Equal(t, ContentBox, findStyledNodeByID(tree, "thick").BoxSizing())
}
