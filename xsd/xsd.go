// Package xsd resolves type declarations in XML Schema documents.
//
// The xsd package implements a resolver for a subset of the XML Schema
// standard: element, simpleType, complexType, simpleContent extension,
// sequence, choice, restriction with the standard facets, and attribute.
// Given a root schema location, a Resolver loads the schema and every
// schema it includes, and builds a self-contained model of each named
// element and type, where references, base types and content models are
// expanded into Go values. The xsd package does not validate documents
// against the resolved model.
//
// Resolution is lazy and driven by document order: walking the schema
// resolves each element as it is met, along with everything it depends
// on. Resolved values are cached by name and by node, so that resolving
// the same declaration twice yields the same pointer and self-referential
// schemas terminate. Constructs outside the supported subset are recorded
// in the resolver's Diagnostics rather than rejected.
package xsd

import "fmt"

const schemaNS = "http://www.w3.org/2001/XMLSchema"

// DataType is the scalar kind of a simple type.
type DataType int

const (
	// Unspecified means the data type is unknown or inherited.
	Unspecified DataType = iota
	String
	NormalizedString
	Integer
	Float
	Boolean
	Date
	DateTime
)

func (d DataType) String() string {
	switch d {
	case Unspecified:
		return ""
	case String:
		return "STRING"
	case NormalizedString:
		return "NORMALIZED_STRING"
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case Boolean:
		return "BOOLEAN"
	case Date:
		return "DATE"
	case DateTime:
		return "DATE_TIME"
	}
	return fmt.Sprintf("DataType(%d)", int(d))
}

// Facets are the constraining facets of a simple type. Values are the
// literals declared in the schema; an empty string, or a nil
// Enumeration, means the facet is not constrained.
//
// http://www.w3.org/TR/2004/REC-xmlschema-2-20041028/datatypes.html#rf-facets
type Facets struct {
	// If len(Enumeration) > 0, values must be one of its members.
	Enumeration []string
	// Regular expression values must match. Several pattern facets
	// in one restriction are joined with "|".
	Pattern                                                string
	Length, MinLength, MaxLength                           string
	MinInclusive, MinExclusive, MaxInclusive, MaxExclusive string
	TotalDigits, FractionDigits                            string
}

// A Datatype describes the values of a simple type: their kind and the
// facets constraining them.
type Datatype struct {
	DataType DataType
	Facets
}

func (d Datatype) clone() Datatype {
	if d.Enumeration != nil {
		d.Enumeration = append([]string(nil), d.Enumeration...)
	}
	return d
}

// Types in XML Schema Documents are derived from one of the built-in
// types, by restricting or extending the range of values a type may
// contain. A Type is one of *SimpleType or *ComplexType.
type Type interface {
	Component
	// TypeName returns the declared name of the type, or the empty
	// string for an anonymous type.
	TypeName() string
	// Schema returns the location of the schema that declared the type.
	Schema() string
	datatype() Datatype
}

// A Component is any resolved schema component: *Element, *Attribute,
// *SimpleType, *ComplexType or *Restriction.
type Component interface {
	isComponent()
}

// A SimpleType describes character data without elements or attributes.
// Built-in types are SimpleTypes with Builtin set.
//
// http://www.w3.org/TR/2004/REC-xmlschema-2-20041028/datatypes.html#element-simpleType
type SimpleType struct {
	// Name of the type; empty for anonymous types.
	Name string
	Datatype
	// Set when the type is derived by restriction. The Datatype of
	// the SimpleType is the Datatype of the Restriction.
	Restriction *Restriction
	// True for the types of the built-in datatype table.
	Builtin bool
	// Location of the schema that declared the type.
	SourceSchema string
}

func (*SimpleType) isComponent()         {}
func (t *SimpleType) TypeName() string   { return t.Name }
func (t *SimpleType) Schema() string     { return t.SourceSchema }
func (t *SimpleType) datatype() Datatype { return t.Datatype }

// A Restriction narrows a base type through facets. Its Datatype is the
// base's Datatype with every locally declared facet replacing the
// inherited one.
//
// http://www.w3.org/TR/2004/REC-xmlschema-2-20041028/datatypes.html#element-restriction
type Restriction struct {
	Datatype
	// The type being restricted.
	Base Type
	// The base attribute as declared; empty for an inline base type.
	BaseName     string
	SourceSchema string
}

func (*Restriction) isComponent() {}

// A ComplexType describes an element that may contain attributes and
// elements in its content.
//
// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#element-complexType
type ComplexType struct {
	// Name of the type; empty for anonymous types.
	Name string
	// For simple content, the Datatype of the character data.
	Datatype
	// Elements of the type's <sequence>, in document order. Elements of
	// a <choice> nested in the sequence are appended as well.
	Sequence []*Element
	// Elements of the type's top-level <choice>.
	Choice []*Element
	// Content preserves the sequence/choice structure that Sequence
	// flattens. It is nil for types without element content.
	Content *Particle
	// The type extended through <simpleContent><extension>.
	Extends Type
	// Attributes, inherited ones first.
	Attributes   []*Attribute
	SourceSchema string
}

func (*ComplexType) isComponent()         {}
func (t *ComplexType) TypeName() string   { return t.Name }
func (t *ComplexType) Schema() string     { return t.SourceSchema }
func (t *ComplexType) datatype() Datatype { return t.Datatype }

// ParticleKind tells the variants of a Particle apart.
type ParticleKind int

const (
	SequenceParticle ParticleKind = iota
	ChoiceParticle
	ElementParticle
)

// A Particle is a node of a complex type's content model: a sequence or
// choice of nested particles, or a single element.
type Particle struct {
	Kind ParticleKind
	// Set for ElementParticle.
	Element *Element
	// Set for SequenceParticle and ChoiceParticle.
	Particles []*Particle
	// Occurrence constraints as declared; empty when omitted.
	MinOccurs, MaxOccurs string
}

// Elements returns every element of the content model in document order,
// descending into nested groups.
func (p *Particle) Elements() []*Element {
	if p == nil {
		return nil
	}
	if p.Kind == ElementParticle {
		return []*Element{p.Element}
	}
	var result []*Element
	for _, c := range p.Particles {
		result = append(result, c.Elements()...)
	}
	return result
}

// An Element describes an XML element: its name and resolved type. An
// element declared through a ref resolves to the referenced declaration.
//
// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#element-element
type Element struct {
	Name string
	// The type attribute as declared; empty for inline types.
	TypeName string
	// Never nil for a resolved element.
	Type Type
	// Location of the schema that declared the element.
	SourceSchema string
	// True for top-level declarations, which may be referenced.
	Global bool
}

func (*Element) isComponent() {}

// An Attribute describes a key=value pair of an element's opening tag.
// The Type of an Attribute is always a *SimpleType.
//
// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#element-attribute
type Attribute struct {
	Name string
	// The use attribute as declared: "required", "optional",
	// "prohibited" or empty.
	Use          string
	TypeName     string
	Type         *SimpleType
	SourceSchema string
}

func (*Attribute) isComponent() {}
