// Package xmltree converts XML documents as a tree of Go structs.
//
// The xmltree package provides routines for accessing an XML schema
// document as a tree: descendant search, child lookup by tag, attribute
// access, parent links and resolution of namespace-prefixed strings at any
// point in the tree. A parsed tree is read-only; element addresses are
// stable for the lifetime of the tree, so they may be used as map keys.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
)

const recursionLimit = 3000

var errDeepXML = errors.New("xmltree: xml document too deeply nested")

// An Element represents a single element in an XML document. Elements
// may have zero or more children. The byte array used by the Content
// field is shared among all elements in the document, and should not
// be modified. An Element also captures xml namespace prefixes, so
// that arbitrary QNames in attribute values can be resolved.
type Element struct {
	xml.StartElement
	Content  []byte
	Children []Element
	// A list of defined XML namespace prefixes, from least specific to
	// most specific. The Space field is the canonical xml namespace,
	// and the Local field is the prefix.
	Scope []xml.Name

	parent *Element
}

// Attr gets the value of the first attribute whose name matches the
// space and local arguments. If space is the empty string, only
// attributes' local names are considered when looking for a match.
// If an attribute could not be found, the empty string is returned.
func (el *Element) Attr(space, local string) string {
	v, _ := el.LookupAttr(space, local)
	return v
}

// LookupAttr is like Attr, but reports whether the attribute is present,
// so that an empty value can be told apart from a missing one.
func (el *Element) LookupAttr(space, local string) (string, bool) {
	for _, v := range el.StartElement.Attr {
		if v.Name.Local != local {
			continue
		}
		if space == "" || space == v.Name.Space {
			return v.Value, true
		}
	}
	return "", false
}

// Parent returns the element that contains el, or nil for the root
// element of a document.
func (el *Element) Parent() *Element {
	return el.parent
}

// Root returns the top-level element of the document el belongs to.
func (el *Element) Root() *Element {
	for el.parent != nil {
		el = el.parent
	}
	return el
}

// ChildrenNamed returns the direct children of el with an xml tag
// matching the name and xml namespace, in document order. If space
// is the empty string, any namespace is matched.
func (el *Element) ChildrenNamed(space, local string) []*Element {
	var result []*Element
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Local == local && (space == "" || c.Name.Space == space) {
			result = append(result, c)
		}
	}
	return result
}

// FirstChild returns the first direct child of el matching space and
// local, as ChildrenNamed does.
func (el *Element) FirstChild(space, local string) (*Element, bool) {
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name.Local == local && (space == "" || c.Name.Space == space) {
			return c, true
		}
	}
	return nil, false
}

// TagName returns the tag of el as it is written in the document, for
// example "xsd:element". If the namespace of el is the default namespace
// or cannot be mapped back to a prefix, only the local name is returned.
func (el *Element) TagName() string {
	if prefix := el.prefixOf(el.Name.Space); prefix != "" {
		return prefix + ":" + el.Name.Local
	}
	return el.Name.Local
}

func (el *Element) prefixOf(space string) string {
	if space == "" {
		return ""
	}
	for i := len(el.Scope) - 1; i >= 0; i-- {
		if el.Scope[i].Space == space {
			return el.Scope[i].Local
		}
	}
	// encoding/xml leaves undeclared prefixes in the Space field.
	if !strings.Contains(space, ":") && !strings.Contains(space, "/") {
		return space
	}
	return ""
}

// Resolve translates an XML QName (namespace-prefixed string) to an
// xml.Name with a canonicalized namespace in its Space field.  This can
// be used when working with XSD documents, which put QNames in attribute
// values. If qname does not have a prefix, the default namespace is used.
// If a namespace prefix cannot be resolved, the returned value's Space
// field will be the unresolved prefix. Use the ResolveNS function to
// detect when a namespace prefix cannot be resolved.
func (el *Element) Resolve(qname string) xml.Name {
	name, _ := el.ResolveNS(qname)
	return name
}

// The ResolveNS method is like Resolve, but returns false for its second
// return value if a namespace prefix cannot be resolved.
func (el *Element) ResolveNS(qname string) (xml.Name, bool) {
	var prefix, local string
	parts := strings.SplitN(qname, ":", 2)
	if len(parts) == 2 {
		prefix, local = parts[0], parts[1]
	} else {
		prefix, local = "", parts[0]
	}
	for i := len(el.Scope) - 1; i >= 0; i-- {
		if el.Scope[i].Local == prefix {
			return xml.Name{Space: el.Scope[i].Space, Local: local}, true
		}
	}
	return xml.Name{Space: prefix, Local: local}, prefix == ""
}

// Prefix is the inverse of Resolve. It uses the closest prefix
// defined for a namespace to create a string of the form
// prefix:local. If the namespace cannot be found, an empty string
// is returned.
func (el *Element) Prefix(name xml.Name) (qname string) {
	for i := len(el.Scope) - 1; i >= 0; i-- {
		if el.Scope[i].Space == name.Space {
			if el.Scope[i].Local == "" {
				return name.Local
			}
			return el.Scope[i].Local + ":" + name.Local
		}
	}
	return ""
}

func (el *Element) pushNS(tag xml.StartElement) {
	var scope []xml.Name
	for _, attr := range tag.Attr {
		if attr.Name.Space == "xmlns" {
			scope = append(scope, xml.Name{Space: attr.Value, Local: attr.Name.Local})
		} else if attr.Name.Local == "xmlns" {
			scope = append(scope, xml.Name{Space: attr.Value})
		}
	}
	if len(scope) > 0 {
		el.Scope = append(el.Scope, scope...)
		// Ensure that future additions to the scope create
		// a new backing array. This prevents the scope from
		// being clobbered during parsing.
		el.Scope = el.Scope[:len(el.Scope):len(el.Scope)]
	}
}

// Save some typing when scanning xml
type scanner struct {
	*xml.Decoder
	tok xml.Token
	err error
}

func (s *scanner) scan() bool {
	if s.err != nil {
		return false
	}
	s.tok, s.err = s.Token()
	return s.err == nil
}

// Parse builds a tree of Elements by reading an XML document.  The
// byte slice passed to Parse is expected to be a valid XML document
// with a single root element. Documents declaring a non-UTF-8 encoding
// are decoded with the charset named in their XML declaration.
func Parse(doc []byte) (*Element, error) {
	d := xml.NewDecoder(bytes.NewReader(doc))
	d.CharsetReader = charset.NewReaderLabel
	scanner := scanner{Decoder: d}
	root := new(Element)

	for scanner.scan() {
		if start, ok := scanner.tok.(xml.StartElement); ok {
			root.StartElement = start.Copy()
			break
		}
	}
	if scanner.err != nil {
		return nil, scanner.err
	}
	if err := root.parse(&scanner, doc, 0); err != nil {
		return nil, err
	}
	root.link()
	return root, nil
}

func (el *Element) parse(scanner *scanner, data []byte, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	el.pushNS(el.StartElement)

	begin := scanner.InputOffset()
	end := begin
walk:
	for scanner.scan() {
		switch tok := scanner.tok.(type) {
		case xml.StartElement:
			child := Element{StartElement: tok.Copy(), Scope: el.Scope}
			if err := child.parse(scanner, data, depth+1); err != nil {
				return err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			if tok.Name != el.Name {
				return fmt.Errorf("Expecting </%s>, got </%s>", el.TagName(), tok.Name.Local)
			}
			if int(end) <= len(data) {
				el.Content = data[int(begin):int(end)]
			}
			break walk
		}
		end = scanner.InputOffset()
	}
	return scanner.err
}

// Parent links are set once the whole tree is built; children are
// stored by value, so their addresses only settle after parsing.
func (el *Element) link() {
	for i := range el.Children {
		el.Children[i].parent = el
		el.Children[i].link()
	}
}

// SearchFunc traverses the Element tree in depth-first order and returns
// a slice of Elements for which the function fn returns true. The root
// element itself is not tested. Results are in document order; the
// children of matching Elements are searched as well.
func (root *Element) SearchFunc(fn func(*Element) bool) []*Element {
	var results []*Element
	var search func(el *Element)

	search = func(el *Element) {
		if fn(el) {
			results = append(results, el)
		}
		for i := range el.Children {
			search(&el.Children[i])
		}
	}
	for i := range root.Children {
		search(&root.Children[i])
	}
	return results
}

// Search searches the Element tree for Elements with an xml tag
// matching the name and xml namespace. If space is the empty string,
// any namespace is matched.
func (root *Element) Search(space, local string) []*Element {
	return root.SearchFunc(func(el *Element) bool {
		if local != el.Name.Local {
			return false
		}
		return space == "" || space == el.Name.Space
	})
}

// Walk calls fn for el and every descendant of el in document order.
// If fn returns false for an element, its children are skipped.
func (el *Element) Walk(fn func(*Element) bool) {
	if !fn(el) {
		return
	}
	for i := range el.Children {
		el.Children[i].Walk(fn)
	}
}
