package xsd

import (
	"encoding/xml"

	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// A journal records how to undo the cache inserts made by the
// outermost resolution in progress. A failed resolution rolls back
// everything it inserted, including the components it did resolve,
// so the caches never hold a partially built value.
type journal struct {
	depth int
	undo  []func()
}

func (j *journal) begin() { j.depth++ }

func (j *journal) record(fn func()) {
	if j.depth > 0 {
		j.undo = append(j.undo, fn)
	}
}

func (j *journal) end(failed bool) {
	j.depth--
	if j.depth > 0 {
		return
	}
	if failed {
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
	}
	j.undo = j.undo[:0]
}

// atomically runs fn as one resolution: either all of its cache
// inserts are kept, or none are.
func (r *Resolver) atomically(fn func() error) (err error) {
	r.journal.begin()
	defer func() { r.journal.end(err != nil) }()
	return fn()
}

// cacheType binds name to t unless name is already bound.
func (r *Resolver) cacheType(name xml.Name, t Type) {
	if _, ok := r.types[name]; ok {
		return
	}
	r.types[name] = t
	r.typeOrder = append(r.typeOrder, t)
	r.journal.record(func() {
		delete(r.types, name)
		r.typeOrder = r.typeOrder[:len(r.typeOrder)-1]
	})
}

// registerElement records a resolved element: as a reference target
// when it is declared at the top level, and in the element registry
// unless an element of the same name is already there.
func (r *Resolver) registerElement(el *Element) {
	if el.Name == "" {
		return
	}
	if el.Global {
		if _, ok := r.globals[el.Name]; !ok {
			r.globals[el.Name] = el
			r.journal.record(func() { delete(r.globals, el.Name) })
		}
	}
	if _, ok := r.registry[el.Name]; !ok {
		r.registry[el.Name] = el
		r.elementOrder = append(r.elementOrder, el)
		r.journal.record(func() {
			delete(r.registry, el.Name)
			r.elementOrder = r.elementOrder[:len(r.elementOrder)-1]
		})
	}
}

func (r *Resolver) rememberElement(node *xmltree.Element, el *Element) {
	r.elementsByNode[node] = el
	r.journal.record(func() { delete(r.elementsByNode, node) })
}

func (r *Resolver) rememberType(node *xmltree.Element, t Type) {
	r.typesByNode[node] = t
	r.journal.record(func() { delete(r.typesByNode, node) })
}

func (r *Resolver) rememberAttribute(node *xmltree.Element, a *Attribute) {
	r.attributesByNode[node] = a
	r.journal.record(func() { delete(r.attributesByNode, node) })
}

func (r *Resolver) rememberRestriction(node *xmltree.Element, res *Restriction) {
	r.restrictions[node] = res
	r.journal.record(func() { delete(r.restrictions, node) })
}

// The memo lookups below consult this resolver first, then the other
// resolvers of the session in the order they were loaded. A node of a
// shared document is thus resolved once per session, and included
// schemas, resolved before the schemas including them, have their
// components reused. Lookups never write to another resolver.

func (r *Resolver) memoElement(node *xmltree.Element) (*Element, bool) {
	if el, ok := r.elementsByNode[node]; ok {
		return el, true
	}
	for _, o := range r.s.order {
		if el, ok := o.elementsByNode[node]; ok {
			return el, true
		}
	}
	return nil, false
}

func (r *Resolver) memoType(node *xmltree.Element) (Type, bool) {
	if t, ok := r.typesByNode[node]; ok {
		return t, true
	}
	for _, o := range r.s.order {
		if t, ok := o.typesByNode[node]; ok {
			return t, true
		}
	}
	return nil, false
}

func (r *Resolver) memoAttribute(node *xmltree.Element) (*Attribute, bool) {
	if a, ok := r.attributesByNode[node]; ok {
		return a, true
	}
	for _, o := range r.s.order {
		if a, ok := o.attributesByNode[node]; ok {
			return a, true
		}
	}
	return nil, false
}

func (r *Resolver) memoRestriction(node *xmltree.Element) (*Restriction, bool) {
	if res, ok := r.restrictions[node]; ok {
		return res, true
	}
	for _, o := range r.s.order {
		if res, ok := o.restrictions[node]; ok {
			return res, true
		}
	}
	return nil, false
}
