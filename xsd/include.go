package xsd

import (
	"context"
	"encoding/xml"

	"github.com/CognitoIQ/xsdmodel/internal/loader"
	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// An Include is a schema pulled in by an <include> directive.
type Include struct {
	// Location of the included schema, resolved against the location
	// of the including one.
	Location string
	Resolver *Resolver
}

// DiscoverIncludes loads and resolves every schema named by an
// <include> directive of the document, in document order, and merges
// their resolved elements, types and diagnostics into r. A name already
// bound in r keeps its binding. A schema included from several places
// is loaded and resolved once. An include that closes a cycle is
// recorded in Diagnostics and its schema is searched but not merged.
//
// DiscoverIncludes runs once; later calls return the same includes.
func (r *Resolver) DiscoverIncludes(ctx context.Context) (map[string]*Include, error) {
	if r.discovered {
		return r.includeMap(), nil
	}
	r.discovered = true
	r.includeIndex = make(map[string]*Include)

	for _, node := range r.doc.ChildrenNamed(schemaNS, "include") {
		loc, ok := node.LookupAttr("", "schemaLocation")
		if !ok || loc == "" {
			r.diag.unhandled.Add(tagPath(node))
			continue
		}
		target := loader.Locate(r.location, loc)
		if _, ok := r.includeIndex[target]; ok {
			continue
		}
		cycle := target == r.location || r.s.graph.Reaches(target, r.location)
		r.s.graph.Add(r.location, target)

		child, ok := r.s.resolvers[target]
		if !ok {
			var err error
			if child, err = r.s.open(ctx, target); err != nil {
				return nil, err
			}
		}
		inc := &Include{Location: target, Resolver: child}
		r.includes = append(r.includes, inc)
		r.includeIndex[target] = inc

		if cycle {
			r.diag.cycles.Add(r.location + " -> " + target)
			r.s.cfg.logf("%s: include cycle through %s", r.location, target)
			continue
		}
		if err := child.Parse(ctx); err != nil {
			return nil, err
		}
		r.merge(child)
	}
	return r.includeMap(), nil
}

func (r *Resolver) includeMap() map[string]*Include {
	m := make(map[string]*Include, len(r.includes))
	for _, inc := range r.includes {
		m[inc.Location] = inc
	}
	return m
}

// Includes returns the directly included schemas in discovery order.
func (r *Resolver) Includes() []*Include {
	return append([]*Include(nil), r.includes...)
}

// merge adds the resolved components of an included schema to r.
// Existing bindings win.
func (r *Resolver) merge(child *Resolver) {
	for _, t := range child.typeOrder {
		r.cacheType(xml.Name{Local: t.TypeName()}, t)
	}
	for _, el := range child.elementOrder {
		if _, ok := r.registry[el.Name]; !ok {
			r.registry[el.Name] = el
			r.elementOrder = append(r.elementOrder, el)
		}
	}
	for name, el := range child.globals {
		if _, ok := r.globals[name]; !ok {
			r.globals[name] = el
		}
	}
	r.diag.merge(&child.diag)
}

// A Found is a node located by QueryAcrossSchemas.
type Found struct {
	Node *xmltree.Element
	// Location of the schema containing Node.
	Location string
}

// QueryAcrossSchemas returns the first node matched by q in the
// schema's own document or, failing that, in the included schemas,
// searched depth first in discovery order. Each schema is searched
// once. The second return value is false if no schema has a match.
func (r *Resolver) QueryAcrossSchemas(q Query) (Found, bool) {
	return r.query(q, make(map[*Resolver]bool))
}

func (r *Resolver) query(q Query, visited map[*Resolver]bool) (Found, bool) {
	if visited[r] {
		return Found{}, false
	}
	visited[r] = true
	if found := q.Find(r.doc); len(found) > 0 {
		return Found{Node: found[0], Location: r.location}, true
	}
	for _, inc := range r.includes {
		if m, ok := inc.Resolver.query(q, visited); ok {
			return m, true
		}
	}
	return Found{}, false
}
