package xsd

import (
	"encoding/xml"
	"strings"

	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// ResolveElement resolves an <element> declaration of the schema or of
// a schema it includes. An element with a ref attribute resolves to the
// referenced top-level declaration. Resolving the same node twice
// returns the same *Element.
func (r *Resolver) ResolveElement(node *xmltree.Element) (el *Element, err error) {
	err = r.atomically(func() error {
		el, err = r.resolveElement(node)
		return err
	})
	if err != nil {
		return nil, err
	}
	return el, nil
}

// ResolveComplexType resolves a <complexType> definition.
func (r *Resolver) ResolveComplexType(node *xmltree.Element) (t *ComplexType, err error) {
	err = r.atomically(func() error {
		t, err = r.resolveComplexType(node)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ResolveSimpleType resolves a <simpleType> definition.
func (r *Resolver) ResolveSimpleType(node *xmltree.Element) (t *SimpleType, err error) {
	err = r.atomically(func() error {
		t, err = r.resolveSimpleType(node)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ResolveRestriction resolves a <restriction> of a simple type.
func (r *Resolver) ResolveRestriction(node *xmltree.Element) (res *Restriction, err error) {
	err = r.atomically(func() error {
		res, err = r.resolveRestriction(node)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ResolveAttribute resolves an <attribute> declaration.
func (r *Resolver) ResolveAttribute(node *xmltree.Element) (a *Attribute, err error) {
	err = r.atomically(func() error {
		a, err = r.resolveAttribute(node)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Resolver) resolveElement(node *xmltree.Element) (*Element, error) {
	if el, ok := r.memoElement(node); ok {
		return el, nil
	}
	if ref, ok := node.LookupAttr("", "ref"); ok {
		return r.resolveElementRef(node, ref)
	}
	name := node.Attr("", "name")
	el := &Element{
		Name:         name,
		SourceSchema: r.sourceOf(node),
		Global:       IsTopLevel(node),
	}
	// Cached before the type is resolved, so that a type containing
	// this element terminates.
	r.rememberElement(node, el)
	r.registerElement(el)

	var (
		t   Type
		err error
	)
	if typeName, ok := node.LookupAttr("", "type"); ok {
		el.TypeName = typeName
		var found bool
		t, found, err = r.resolveTypeName(node, typeName, false)
		if err == nil && !found {
			err = resolutionError(el.SourceSchema, node, "no type named %s for element %s", typeName, name)
		}
	} else if ct, ok := node.FirstChild(schemaNS, "complexType"); ok {
		t, err = r.resolveComplexType(ct)
	} else if st, ok := node.FirstChild(schemaNS, "simpleType"); ok {
		t, err = r.resolveSimpleType(st)
	} else {
		err = resolutionError(el.SourceSchema, node, "element %s has no type", name)
	}
	if err != nil {
		return nil, err
	}
	el.Type = t
	r.s.cfg.debugf("%s: element %s", el.SourceSchema, name)
	return el, nil
}

func (r *Resolver) resolveElementRef(node *xmltree.Element, ref string) (*Element, error) {
	name := node.Resolve(ref).Local
	if el, ok := r.globals[name]; ok {
		r.rememberElement(node, el)
		return el, nil
	}
	if r.inProgress[node] {
		return nil, cycleError(r.sourceOf(node), node)
	}
	r.inProgress[node] = true
	defer delete(r.inProgress, node)

	m, ok := r.QueryAcrossSchemas(Match(topLevel("element", name)))
	if !ok {
		return nil, resolutionError(r.sourceOf(node), node, "no element named %s", ref)
	}
	el, err := r.resolveElement(m.Node)
	if err != nil {
		return nil, err
	}
	r.rememberElement(node, el)
	return el, nil
}

// resolveTypeName finds the type referenced as qname from node: a
// cached or built-in type, else a complexType of that name, else a
// simpleType of that name, in this schema or the schemas it includes.
// Complex types are not considered when simpleOnly is set. The second
// return value is false if no type has that name.
func (r *Resolver) resolveTypeName(node *xmltree.Element, qname string, simpleOnly bool) (Type, bool, error) {
	key := r.typeKey(node, qname)
	if t, ok := r.types[key]; ok {
		return t, true, nil
	}
	if key.Space != "" {
		return nil, false, nil
	}
	if !simpleOnly {
		if m, ok := r.QueryAcrossSchemas(Match(topLevel("complexType", key.Local))); ok {
			t, err := r.resolveComplexType(m.Node)
			if err != nil {
				return nil, true, err
			}
			return t, true, nil
		}
	}
	if m, ok := r.QueryAcrossSchemas(Match(topLevel("simpleType", key.Local))); ok {
		t, err := r.resolveSimpleType(m.Node)
		if err != nil {
			return nil, true, err
		}
		return t, true, nil
	}
	return nil, false, nil
}

func (r *Resolver) resolveComplexType(node *xmltree.Element) (*ComplexType, error) {
	if t, ok := r.memoType(node); ok {
		if ct, ok := t.(*ComplexType); ok {
			return ct, nil
		}
	}
	name := node.Attr("", "name")
	if name != "" {
		if ct, ok := r.types[xml.Name{Local: name}].(*ComplexType); ok {
			r.rememberType(node, ct)
			return ct, nil
		}
	}
	ct := &ComplexType{Name: name, SourceSchema: r.sourceOf(node)}
	r.rememberType(node, ct)
	if name != "" {
		r.cacheType(xml.Name{Local: name}, ct)
	}
	r.building[ct] = true
	defer delete(r.building, ct)

	if sc, ok := node.FirstChild(schemaNS, "simpleContent"); ok {
		if ext, ok := sc.FirstChild(schemaNS, "extension"); ok {
			if err := r.extend(ct, ext); err != nil {
				return nil, err
			}
		}
	}
	for i := range node.Children {
		child := &node.Children[i]
		if child.Name.Space != schemaNS {
			continue
		}
		switch child.Name.Local {
		case "sequence", "choice":
			p, err := r.resolveParticle(child)
			if err != nil {
				return nil, err
			}
			if ct.Content == nil {
				ct.Content = p
			}
			if p.Kind == ChoiceParticle {
				ct.Choice = append(ct.Choice, directElements(p)...)
				break
			}
			for _, sub := range p.Particles {
				switch sub.Kind {
				case ElementParticle:
					ct.Sequence = append(ct.Sequence, sub.Element)
				case ChoiceParticle:
					ct.Sequence = append(ct.Sequence, directElements(sub)...)
				}
			}
		case "attribute":
			a, err := r.resolveAttribute(child)
			if err != nil {
				return nil, err
			}
			ct.Attributes = append(ct.Attributes, a)
		}
	}
	return ct, nil
}

func directElements(p *Particle) []*Element {
	var result []*Element
	for _, sub := range p.Particles {
		if sub.Kind == ElementParticle {
			result = append(result, sub.Element)
		}
	}
	return result
}

// extend makes ct a copy of the base of a simpleContent extension,
// followed by the attributes the extension declares.
func (r *Resolver) extend(ct *ComplexType, ext *xmltree.Element) error {
	src := r.sourceOf(ext)
	baseName, ok := ext.LookupAttr("", "base")
	if !ok {
		return resolutionError(src, ext, "extension has no base type")
	}
	base, found, err := r.resolveTypeName(ext, baseName, false)
	if err != nil {
		return err
	}
	if !found {
		return resolutionError(src, ext, "no base type %s", baseName)
	}
	if bt, ok := base.(*ComplexType); ok {
		if r.building[bt] {
			return cycleError(src, ext.Parent().Parent())
		}
		ct.Sequence = append([]*Element(nil), bt.Sequence...)
		ct.Choice = append([]*Element(nil), bt.Choice...)
		ct.Content = bt.Content
		ct.Attributes = append([]*Attribute(nil), bt.Attributes...)
	}
	ct.Datatype = base.datatype().clone()
	ct.Extends = base

	for _, node := range ext.ChildrenNamed(schemaNS, "attribute") {
		a, err := r.resolveAttribute(node)
		if err != nil {
			return err
		}
		ct.Attributes = append(ct.Attributes, a)
	}
	return nil
}

// resolveParticle resolves a sequence, a choice or an element of a
// content model.
func (r *Resolver) resolveParticle(node *xmltree.Element) (*Particle, error) {
	p := &Particle{
		MinOccurs: node.Attr("", "minOccurs"),
		MaxOccurs: node.Attr("", "maxOccurs"),
	}
	switch node.Name.Local {
	case "element":
		el, err := r.resolveElement(node)
		if err != nil {
			return nil, err
		}
		p.Kind, p.Element = ElementParticle, el
		return p, nil
	case "choice":
		p.Kind = ChoiceParticle
	default:
		p.Kind = SequenceParticle
	}
	for i := range node.Children {
		child := &node.Children[i]
		if child.Name.Space != schemaNS {
			continue
		}
		switch child.Name.Local {
		case "element", "sequence", "choice":
			sub, err := r.resolveParticle(child)
			if err != nil {
				return nil, err
			}
			p.Particles = append(p.Particles, sub)
		}
	}
	return p, nil
}

func (r *Resolver) resolveSimpleType(node *xmltree.Element) (*SimpleType, error) {
	if t, ok := r.memoType(node); ok {
		if st, ok := t.(*SimpleType); ok {
			return st, nil
		}
	}
	name := node.Attr("", "name")
	if name != "" {
		if st, ok := r.types[xml.Name{Local: name}].(*SimpleType); ok {
			r.rememberType(node, st)
			return st, nil
		}
	}
	if r.inProgress[node] {
		return nil, cycleError(r.sourceOf(node), node)
	}
	r.inProgress[node] = true
	defer delete(r.inProgress, node)

	st := &SimpleType{Name: name, SourceSchema: r.sourceOf(node)}
	// list and union derivations are left Unspecified.
	if rn, ok := node.FirstChild(schemaNS, "restriction"); ok {
		res, err := r.resolveRestriction(rn)
		if err != nil {
			return nil, err
		}
		st.Restriction = res
		st.Datatype = res.Datatype.clone()
	}
	r.rememberType(node, st)
	if name != "" {
		r.cacheType(xml.Name{Local: name}, st)
	}
	return st, nil
}

func (r *Resolver) resolveRestriction(node *xmltree.Element) (*Restriction, error) {
	if res, ok := r.memoRestriction(node); ok {
		return res, nil
	}
	res := &Restriction{SourceSchema: r.sourceOf(node)}
	var (
		base Type
		err  error
	)
	if baseName, ok := node.LookupAttr("", "base"); ok {
		res.BaseName = baseName
		var found bool
		base, found, err = r.resolveTypeName(node, baseName, false)
		if err == nil && !found {
			err = resolutionError(res.SourceSchema, node, "no base type %s", baseName)
		}
	} else if inline, ok := node.FirstChild(schemaNS, "simpleType"); ok {
		base, err = r.resolveSimpleType(inline)
	} else {
		err = resolutionError(res.SourceSchema, node, "restriction has no base type")
	}
	if err != nil {
		return nil, err
	}
	if bt, ok := base.(*ComplexType); ok && r.building[bt] {
		return nil, cycleError(res.SourceSchema, node)
	}
	res.Base = base
	res.Datatype = base.datatype().clone()
	overlayFacets(&res.Datatype, node)
	r.rememberRestriction(node, res)
	return res, nil
}

// overlayFacets replaces the facets of dt with those declared as
// children of a restriction. Facets the restriction does not declare
// are left as inherited.
func overlayFacets(dt *Datatype, node *xmltree.Element) {
	var enum, patterns []string
	for i := range node.Children {
		facet := &node.Children[i]
		if facet.Name.Space != schemaNS {
			continue
		}
		v := facet.Attr("", "value")
		switch facet.Name.Local {
		case "enumeration":
			enum = append(enum, v)
		case "pattern":
			patterns = append(patterns, v)
		case "length":
			dt.Length = v
		case "minLength":
			dt.MinLength = v
		case "maxLength":
			dt.MaxLength = v
		case "totalDigits":
			dt.TotalDigits = v
		case "fractionDigits":
			dt.FractionDigits = v
		case "minExclusive":
			dt.MinExclusive = v
		case "minInclusive":
			dt.MinInclusive = v
		case "maxExclusive":
			dt.MaxExclusive = v
		case "maxInclusive":
			dt.MaxInclusive = v
		}
	}
	if enum != nil {
		dt.Enumeration = enum
	}
	if patterns != nil {
		dt.Pattern = strings.Join(patterns, "|")
	}
}

func (r *Resolver) resolveAttribute(node *xmltree.Element) (*Attribute, error) {
	if a, ok := r.memoAttribute(node); ok {
		return a, nil
	}
	if ref, ok := node.LookupAttr("", "ref"); ok {
		return r.resolveAttributeRef(node, ref)
	}
	a := &Attribute{
		Name:         node.Attr("", "name"),
		Use:          node.Attr("", "use"),
		SourceSchema: r.sourceOf(node),
	}
	if typeName, ok := node.LookupAttr("", "type"); ok {
		a.TypeName = typeName
		t, found, err := r.resolveTypeName(node, typeName, true)
		if err != nil {
			return nil, err
		}
		st, ok := t.(*SimpleType)
		if !found || !ok {
			return nil, resolutionError(a.SourceSchema, node, "no simple type named %s for attribute %s", typeName, a.Name)
		}
		a.Type = st
	} else if inline, ok := node.FirstChild(schemaNS, "simpleType"); ok {
		st, err := r.resolveSimpleType(inline)
		if err != nil {
			return nil, err
		}
		a.Type = st
	} else {
		return nil, resolutionError(a.SourceSchema, node, "attribute %s has no type", a.Name)
	}
	r.rememberAttribute(node, a)
	return a, nil
}

// resolveAttributeRef resolves an attribute declared by reference to a
// top-level attribute. The use of the referencing node applies.
func (r *Resolver) resolveAttributeRef(node *xmltree.Element, ref string) (*Attribute, error) {
	if r.inProgress[node] {
		return nil, cycleError(r.sourceOf(node), node)
	}
	r.inProgress[node] = true
	defer delete(r.inProgress, node)

	m, ok := r.QueryAcrossSchemas(Match(topLevel("attribute", node.Resolve(ref).Local)))
	if !ok {
		return nil, resolutionError(r.sourceOf(node), node, "no attribute named %s", ref)
	}
	target, err := r.resolveAttribute(m.Node)
	if err != nil {
		return nil, err
	}
	a := *target
	if use, ok := node.LookupAttr("", "use"); ok {
		a.Use = use
	}
	r.rememberAttribute(node, &a)
	return &a, nil
}
