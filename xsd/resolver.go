package xsd

import (
	"context"
	"encoding/xml"

	"github.com/pkg/errors"

	"github.com/CognitoIQ/xsdmodel/internal/dependency"
	"github.com/CognitoIQ/xsdmodel/internal/loader"
	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// A session is shared by a root Resolver and the resolvers of every
// schema it includes, directly or not. It guarantees that each schema
// location is loaded and resolved once.
type session struct {
	cfg       *Config
	loader    Loader
	resolvers map[string]*Resolver
	order     []*Resolver
	locations map[*xmltree.Element]string
	graph     dependency.Graph
}

func (s *session) open(ctx context.Context, location string) (*Resolver, error) {
	doc, err := s.loader.Load(ctx, location)
	if err != nil {
		return nil, errors.WithStack(&SchemaLoadError{Location: location, Err: err})
	}
	r := &Resolver{
		location:         location,
		doc:              doc,
		s:                s,
		types:            newTypeCache(),
		globals:          make(map[string]*Element),
		registry:         make(map[string]*Element),
		elementsByNode:   make(map[*xmltree.Element]*Element),
		typesByNode:      make(map[*xmltree.Element]Type),
		attributesByNode: make(map[*xmltree.Element]*Attribute),
		restrictions:     make(map[*xmltree.Element]*Restriction),
		building:         make(map[*ComplexType]bool),
		inProgress:       make(map[*xmltree.Element]bool),
	}
	s.resolvers[location] = r
	s.order = append(s.order, r)
	s.locations[doc] = location
	s.cfg.debugf("loaded %s", location)
	return r, nil
}

type parseState int

const (
	idle parseState = iota
	parsing
	done
)

// A Resolver resolves the declarations of one schema document. It owns
// the caches of resolved components for that document; the components
// of included schemas are merged into them by DiscoverIncludes, earlier
// bindings taking precedence.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	location string
	doc      *xmltree.Element
	s        *session

	discovered   bool
	includes     []*Include
	includeIndex map[string]*Include
	state        parseState

	// Named types; built-ins are keyed in the XML Schema namespace,
	// schema types by local name.
	types     map[xml.Name]Type
	typeOrder []Type
	// Top-level element declarations, the targets of ref attributes.
	globals map[string]*Element
	// Every resolved named element by name, first one wins.
	registry     map[string]*Element
	elementOrder []*Element

	elementsByNode   map[*xmltree.Element]*Element
	typesByNode      map[*xmltree.Element]Type
	attributesByNode map[*xmltree.Element]*Attribute
	restrictions     map[*xmltree.Element]*Restriction

	building   map[*ComplexType]bool
	inProgress map[*xmltree.Element]bool

	journal journal
	diag    collector
}

// Load reads the schema document at location and returns a Resolver
// for it. Locations are file paths or any URL understood by the
// configured filesystem. Load fails with a *SchemaLoadError when the
// document cannot be read or is not well-formed. Call Parse to resolve
// the schema.
func Load(ctx context.Context, location string, opts ...Option) (*Resolver, error) {
	cfg := new(Config)
	cfg.Option(opts...)
	l := cfg.loader
	if l == nil {
		dl, err := loader.New(cfg.fs, cfg.cacheSize)
		if err != nil {
			return nil, err
		}
		l = dl
	}
	s := &session{
		cfg:       cfg,
		loader:    l,
		resolvers: make(map[string]*Resolver),
		locations: make(map[*xmltree.Element]string),
	}
	return s.open(ctx, location)
}

// Parse resolves the schema. It first resolves every included schema,
// then walks the document in order, resolving each element declaration
// along with the types it depends on. Constructs outside the supported
// subset are recorded in Diagnostics. Parse returns the first
// resolution error, unless the ContinueOnError option is set. Calling
// Parse again has no effect.
func (r *Resolver) Parse(ctx context.Context) error {
	if r.state != idle {
		return nil
	}
	r.state = parsing
	defer func() { r.state = done }()

	if _, err := r.DiscoverIncludes(ctx); err != nil {
		return err
	}
	r.s.cfg.logf("resolving %s", r.location)

	var err error
	r.doc.Walk(func(el *xmltree.Element) bool {
		if err != nil {
			return false
		}
		if err = ctx.Err(); err != nil {
			return false
		}
		if el.Name.Space != schemaNS {
			return false
		}
		r.noteBuiltins(el)
		switch {
		case el.Name.Local == "element":
			if _, rerr := r.ResolveElement(el); rerr != nil {
				err = r.fail(rerr)
			}
		case !handledTags[el.Name.Local]:
			path := tagPath(el)
			if r.diag.unhandled.Add(path) {
				r.s.cfg.logf("%s: unhandled tag %s", r.location, path)
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	r.findUnreferenced()
	return nil
}

// fail decides whether err stops the resolution. Under ContinueOnError
// it is recorded and nil is returned.
func (r *Resolver) fail(err error) error {
	if !r.s.cfg.continueOnError {
		return err
	}
	if r.diag.addError(err) {
		r.s.cfg.errorf("%v", err)
	}
	return nil
}

func (r *Resolver) noteBuiltins(el *xmltree.Element) {
	for _, attr := range []string{"type", "base"} {
		qname, ok := el.LookupAttr("", attr)
		if !ok {
			continue
		}
		if IsBuiltin(el.Resolve(qname)) {
			r.diag.builtins.Add(qname)
		}
	}
}

// findUnreferenced records the named top-level types of this schema and
// the schemas it includes that were never resolved.
func (r *Resolver) findUnreferenced() {
	visited := make(map[*Resolver]bool)
	var visit func(sr *Resolver)
	visit = func(sr *Resolver) {
		if visited[sr] {
			return
		}
		visited[sr] = true
		for _, node := range sr.doc.SearchFunc(isNamedType) {
			if _, ok := r.types[xml.Name{Local: node.Attr("", "name")}]; !ok {
				r.diag.unreferenced.Add(node.Attr("", "name"))
			}
		}
		for _, inc := range sr.includes {
			visit(inc.Resolver)
		}
	}
	visit(r)
}

// sourceOf returns the location of the document containing node.
func (r *Resolver) sourceOf(node *xmltree.Element) string {
	if loc, ok := r.s.locations[node.Root()]; ok {
		return loc
	}
	return r.location
}

// typeKey returns the type cache key for a type reference written as
// qname on node.
func (r *Resolver) typeKey(node *xmltree.Element, qname string) xml.Name {
	name := node.Resolve(qname)
	if IsBuiltin(name) {
		return name
	}
	return xml.Name{Local: name.Local}
}

// Location returns the location the schema was loaded from.
func (r *Resolver) Location() string { return r.location }

// Document returns the parsed schema document.
func (r *Resolver) Document() *xmltree.Element { return r.doc }

// Element returns the resolved element declared with the given name.
func (r *Resolver) Element(name string) (*Element, bool) {
	el, ok := r.registry[name]
	return el, ok
}

// Elements returns the resolved named elements, of this schema and the
// schemas it includes, in the order they were first resolved. Local
// elements sharing a name are listed once.
func (r *Resolver) Elements() []*Element {
	return append([]*Element(nil), r.elementOrder...)
}

// Type returns the resolved schema type with the given name. Built-in
// types are returned for names in the XML Schema namespace.
func (r *Resolver) Type(name xml.Name) (Type, bool) {
	if name.Space != schemaNS {
		name.Space = ""
	}
	t, ok := r.types[name]
	return t, ok
}

// Types returns the resolved named schema types, of this schema and the
// schemas it includes, in the order they were first resolved. Built-in
// types are not included.
func (r *Resolver) Types() []Type {
	return append([]Type(nil), r.typeOrder...)
}

// Diagnostics returns what was observed while resolving the schema and
// the schemas it includes.
func (r *Resolver) Diagnostics() Diagnostics {
	return r.diag.snapshot()
}

// Schemas returns the locations of this schema and of every schema it
// includes, directly or not. Included schemas are listed before the
// schemas that include them.
func (r *Resolver) Schemas() []string {
	closure := map[string]bool{r.location: true}
	pending := []string{r.location}
	for len(pending) > 0 {
		loc := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, dep := range r.s.graph.Dependencies(loc) {
			if !closure[dep] {
				closure[dep] = true
				pending = append(pending, dep)
			}
		}
	}

	var result []string
	r.s.graph.Flatten(func(loc string) {
		if closure[loc] {
			delete(closure, loc)
			result = append(result, loc)
		}
	})
	if closure[r.location] {
		result = append(result, r.location)
	}
	return result
}
