package xsd

import (
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"

	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// A Predicate selects nodes of a schema document.
type Predicate func(el *xmltree.Element) bool

// And matches nodes matched by every one of fns.
func And(fns ...Predicate) Predicate {
	return func(el *xmltree.Element) bool {
		for _, f := range fns {
			if !f(el) {
				return false
			}
		}
		return true
	}
}

// Or matches nodes matched by at least one of fns.
func Or(fns ...Predicate) Predicate {
	return func(el *xmltree.Element) bool {
		for _, f := range fns {
			if f(el) {
				return true
			}
		}
		return false
	}
}

// HasChild matches nodes with a direct child matched by fn.
func HasChild(fn Predicate) Predicate {
	return func(el *xmltree.Element) bool {
		for i := range el.Children {
			if fn(&el.Children[i]) {
				return true
			}
		}
		return false
	}
}

// IsElem matches nodes with the given tag. An empty space matches
// any namespace.
func IsElem(space, local string) Predicate {
	return func(el *xmltree.Element) bool {
		if el.Name.Local != local {
			return false
		}
		return space == "" || el.Name.Space == space
	}
}

// HasAttr matches nodes carrying a non-empty attribute.
func HasAttr(space, local string) Predicate {
	return func(el *xmltree.Element) bool {
		return el.Attr(space, local) != ""
	}
}

// HasAttrValue matches nodes whose attribute has the given value.
func HasAttrValue(space, local, value string) Predicate {
	return func(el *xmltree.Element) bool {
		return el.Attr(space, local) == value
	}
}

// IsTopLevel matches the direct children of the schema element.
func IsTopLevel(el *xmltree.Element) bool {
	p := el.Parent()
	return p != nil && p.Parent() == nil
}

// Named matches declarations of the given kind, such as "element" or
// "complexType", whose name attribute is name.
func Named(kind, name string) Predicate {
	return And(IsElem(schemaNS, kind), HasAttrValue("", "name", name))
}

func topLevel(kind, name string) Predicate {
	return And(IsTopLevel, Named(kind, name))
}

var (
	isType      = Or(IsElem(schemaNS, "complexType"), IsElem(schemaNS, "simpleType"))
	isNamedType = And(IsTopLevel, isType, HasAttr("", "name"))
)

// A Query finds nodes in a schema document. Results are in document
// order unless the query defines another order.
type Query interface {
	Find(root *xmltree.Element) []*xmltree.Element
}

type predicateQuery Predicate

func (q predicateQuery) Find(root *xmltree.Element) []*xmltree.Element {
	return root.SearchFunc(q)
}

// Match returns a Query selecting every descendant of the schema
// element matched by pred.
func Match(pred Predicate) Query {
	return predicateQuery(pred)
}

type xpathQuery struct {
	expr *xpath.Expr
}

func (q xpathQuery) Find(root *xmltree.Element) []*xmltree.Element {
	return xmltree.QueryAll(root, q.expr)
}

// XPath compiles an XPath 1.0 expression into a Query. Name tests use
// the prefixes declared in each queried document, so an expression such
// as //xsd:element[@name='Order'] only matches documents binding the
// xsd prefix; local-name() tests match regardless of prefix. A match on
// an attribute selects the element carrying it.
func XPath(expr string) (Query, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compile xpath %q", expr)
	}
	return xpathQuery{expr: compiled}, nil
}
