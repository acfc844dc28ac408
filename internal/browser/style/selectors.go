// internal/browser/style/selectors.go
package style

import (
	"strings"

	"github.com/xkilldash9x/shapes-cli/internal/browser/parser"
	"golang.org/x/net/html"
)

// Matches reports whether node matches any selector of the group and
// returns the most specific one that does.
func Matches(node *html.Node, group parser.SelectorGroup) (*parser.ComplexSelector, bool) {
	if node == nil || node.Type != html.ElementNode {
		return nil, false
	}
	var best *parser.ComplexSelector
	ba, bb, bc := -1, -1, -1
	for i := range group {
		complexSelector := &group[i]
		if len(complexSelector.Selectors) == 0 {
			continue
		}
		if !recursiveMatch(node, complexSelector, len(complexSelector.Selectors)-1) {
			continue
		}
		a, b, c := complexSelector.CalculateSpecificity()
		if a > ba || a == ba && (b > bb || b == bb && c > bc) {
			best, ba, bb, bc = complexSelector, a, b, c
		}
	}
	return best, best != nil
}

func recursiveMatch(node *html.Node, complexSelector *parser.ComplexSelector, index int) bool {
	if node == nil || index < 0 || node.Type != html.ElementNode {
		return false
	}
	current := complexSelector.Selectors[index]
	if !matchesSimple(node, current.SimpleSelector) {
		return false
	}
	if index == 0 {
		return true
	}
	switch current.Combinator {
	case parser.CombinatorDescendant:
		for parent := node.Parent; parent != nil; parent = parent.Parent {
			if recursiveMatch(parent, complexSelector, index-1) {
				return true
			}
		}
		return false
	case parser.CombinatorChild:
		return recursiveMatch(node.Parent, complexSelector, index-1)
	}
	return false
}

func attr(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func matchesSimple(node *html.Node, selector parser.SimpleSelector) bool {
	if selector.TagName != "" && selector.TagName != "*" && strings.ToLower(node.Data) != selector.TagName {
		return false
	}
	if selector.ID != "" {
		if id, ok := attr(node, "id"); !ok || id != selector.ID {
			return false
		}
	}
	if len(selector.Classes) > 0 {
		classAttr, _ := attr(node, "class")
		nodeClasses := strings.Fields(classAttr)
		for _, requiredClass := range selector.Classes {
			found := false
			for _, nodeClass := range nodeClasses {
				if nodeClass == requiredClass {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
