// browser/dom/xpath.go
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// GenerateUniqueXPath builds an XPath that selects exactly node. The walk up
// the tree stops at the nearest ancestor with an id, which anchors the path.
func GenerateUniqueXPath(node *html.Node) string {
	if node == nil {
		return ""
	}

	var steps []string
	anchored := false
	for n := node; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		if n.Type != html.ElementNode || n.Data == "" {
			continue
		}
		if id := htmlquery.SelectAttr(n, "id"); id != "" {
			steps = append(steps, "//*[@id="+quoteXPath(id)+"]")
			anchored = true
			break
		}
		tag := strings.ToLower(n.Data)
		steps = append(steps, fmt.Sprintf("%s[%d]", tag, siblingIndex(n, tag)))
	}
	if len(steps) == 0 {
		return "/"
	}

	var b strings.Builder
	if !anchored {
		b.WriteByte('/')
	}
	for i := len(steps) - 1; i >= 0; i-- {
		b.WriteString(steps[i])
		if i > 0 {
			b.WriteByte('/')
		}
	}
	return b.String()
}

// siblingIndex is the 1-based position of n among its same-tag siblings.
func siblingIndex(n *html.Node, tag string) int {
	index := 1
	for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if prev.Type == html.ElementNode && strings.ToLower(prev.Data) == tag {
			index++
		}
	}
	return index
}

// quoteXPath quotes s as an XPath 1.0 string literal. XPath has no escapes,
// so a value holding both quote kinds is spliced with concat().
func quoteXPath(s string) string {
	switch {
	case !strings.Contains(s, "'"):
		return "'" + s + "'"
	case !strings.Contains(s, `"`):
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	for i, p := range parts {
		parts[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(parts, `, "'", `) + ")"
}
