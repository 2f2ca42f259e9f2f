package xmltree

import (
	"strings"

	"github.com/antchfx/xpath"
)

// NodeNavigator implements xpath.NodeNavigator over an Element tree,
// so that compiled XPath expressions can be evaluated against a
// parsed document. Only element and attribute nodes are exposed;
// the Value of an element is its trimmed character content when it
// has no children.
type NodeNavigator struct {
	doc  *Element
	curr *Element // nil is the document node
	attr int
}

// CreateXPathNavigator returns a navigator positioned on the document
// node above top.
func CreateXPathNavigator(top *Element) *NodeNavigator {
	return &NodeNavigator{doc: top.Root(), attr: -1}
}

// QueryAll evaluates expr against the document that contains top and
// returns the matching elements in the order the expression yields
// them. Matched attributes are reported through their owning element.
func QueryAll(top *Element, expr *xpath.Expr) []*Element {
	var (
		result []*Element
		seen   = make(map[*Element]bool)
	)
	it := expr.Select(CreateXPathNavigator(top))
	for it.MoveNext() {
		nav, ok := it.Current().(*NodeNavigator)
		if !ok || nav.curr == nil || seen[nav.curr] {
			continue
		}
		seen[nav.curr] = true
		result = append(result, nav.curr)
	}
	return result
}

// Current returns the element under the navigator, or nil when it is
// positioned on the document node.
func (n *NodeNavigator) Current() *Element { return n.curr }

func (n *NodeNavigator) NodeType() xpath.NodeType {
	switch {
	case n.curr == nil:
		return xpath.RootNode
	case n.attr >= 0:
		return xpath.AttributeNode
	}
	return xpath.ElementNode
}

func (n *NodeNavigator) LocalName() string {
	switch {
	case n.curr == nil:
		return ""
	case n.attr >= 0:
		return n.curr.StartElement.Attr[n.attr].Name.Local
	}
	return n.curr.Name.Local
}

func (n *NodeNavigator) Prefix() string {
	switch {
	case n.curr == nil:
		return ""
	case n.attr >= 0:
		return n.curr.prefixOf(n.curr.StartElement.Attr[n.attr].Name.Space)
	}
	return n.curr.prefixOf(n.curr.Name.Space)
}

func (n *NodeNavigator) NamespaceURL() string {
	switch {
	case n.curr == nil:
		return ""
	case n.attr >= 0:
		return n.curr.StartElement.Attr[n.attr].Name.Space
	}
	return n.curr.Name.Space
}

func (n *NodeNavigator) Value() string {
	switch {
	case n.curr == nil:
		return ""
	case n.attr >= 0:
		return n.curr.StartElement.Attr[n.attr].Value
	case len(n.curr.Children) == 0:
		return strings.TrimSpace(string(n.curr.Content))
	}
	return ""
}

func (n *NodeNavigator) Copy() xpath.NodeNavigator {
	c := *n
	return &c
}

func (n *NodeNavigator) MoveToRoot() {
	n.curr = nil
	n.attr = -1
}

func (n *NodeNavigator) MoveToParent() bool {
	switch {
	case n.attr >= 0:
		n.attr = -1
		return true
	case n.curr == nil:
		return false
	}
	// the parent of the top element is the document node
	n.curr = n.curr.parent
	return true
}

func (n *NodeNavigator) MoveToNextAttribute() bool {
	if n.curr == nil {
		return false
	}
	for i := n.attr + 1; i < len(n.curr.StartElement.Attr); i++ {
		if isNamespaceDecl(n.curr.StartElement.Attr[i].Name.Space, n.curr.StartElement.Attr[i].Name.Local) {
			continue
		}
		n.attr = i
		return true
	}
	return false
}

func (n *NodeNavigator) MoveToChild() bool {
	switch {
	case n.attr >= 0:
		return false
	case n.curr == nil:
		n.curr = n.doc
		return true
	case len(n.curr.Children) == 0:
		return false
	}
	n.curr = &n.curr.Children[0]
	return true
}

func (n *NodeNavigator) MoveToFirst() bool {
	if n.attr >= 0 || n.curr == nil || n.curr.parent == nil {
		return false
	}
	first := &n.curr.parent.Children[0]
	if first == n.curr {
		return false
	}
	n.curr = first
	return true
}

func (n *NodeNavigator) MoveToNext() bool {
	if n.attr >= 0 || n.curr == nil || n.curr.parent == nil {
		return false
	}
	siblings := n.curr.parent.Children
	if i := n.index(); i >= 0 && i+1 < len(siblings) {
		n.curr = &siblings[i+1]
		return true
	}
	return false
}

func (n *NodeNavigator) MoveToPrevious() bool {
	if n.attr >= 0 || n.curr == nil || n.curr.parent == nil {
		return false
	}
	siblings := n.curr.parent.Children
	if i := n.index(); i > 0 {
		n.curr = &siblings[i-1]
		return true
	}
	return false
}

func (n *NodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*NodeNavigator)
	if !ok || o.doc != n.doc {
		return false
	}
	n.curr = o.curr
	n.attr = o.attr
	return true
}

func (n *NodeNavigator) index() int {
	siblings := n.curr.parent.Children
	for i := range siblings {
		if &siblings[i] == n.curr {
			return i
		}
	}
	return -1
}

func isNamespaceDecl(space, local string) bool {
	return space == "xmlns" || (space == "" && local == "xmlns")
}
