package extract

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Attrs selects elements by attribute. A "class" entry matches when the
// element's class list contains the value; other entries match exactly.
type Attrs map[string]string

// Node is the traversal capability the extractor needs from a parsed fragment.
type Node interface {
	// Find returns the first descendant with the given tag and attributes.
	Find(tag string, attrs Attrs) (Node, bool)
	// FindAll returns every descendant with the given tag and attributes.
	FindAll(tag string, attrs Attrs) []Node
	Text() string
	Attr(name string) (string, bool)
}

// goqueryNode adapts a single-element goquery selection to Node.
type goqueryNode struct {
	sel *goquery.Selection
}

var _ Node = goqueryNode{}

func (n goqueryNode) Find(tag string, attrs Attrs) (Node, bool) {
	match := n.match(tag, attrs).First()
	if match.Length() == 0 {
		return nil, false
	}
	return goqueryNode{sel: match}, true
}

func (n goqueryNode) FindAll(tag string, attrs Attrs) []Node {
	var nodes []Node
	n.match(tag, attrs).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, goqueryNode{sel: s})
	})
	return nodes
}

func (n goqueryNode) Text() string {
	return n.sel.Text()
}

func (n goqueryNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n goqueryNode) match(tag string, attrs Attrs) *goquery.Selection {
	return n.sel.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hasAttrs(s, attrs)
	})
}

func hasAttrs(s *goquery.Selection, attrs Attrs) bool {
	for name, want := range attrs {
		got, ok := s.Attr(name)
		if !ok {
			return false
		}
		if name == "class" {
			if !slices.Contains(strings.Fields(got), want) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}
