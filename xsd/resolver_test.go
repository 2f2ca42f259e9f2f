package xsd

import (
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/CognitoIQ/xsdmodel/internal/loader"
	"github.com/CognitoIQ/xsdmodel/internal/testutil"
	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// fixture seeds files into memory storage and returns a Resolver for
// the one named root, along with the URL of every file.
func fixture(t *testing.T, root string, files map[string]string, opts ...Option) (*Resolver, map[string]string) {
	t.Helper()
	fs := afs.New()
	urls := testutil.Seed(t, fs, testutil.MemURL(t), files)
	r, err := Load(context.Background(), urls[root], append([]Option{Filesystem(fs)}, opts...)...)
	require.NoError(t, err)
	return r, urls
}

func parsed(t *testing.T, body string, opts ...Option) *Resolver {
	t.Helper()
	r, _ := fixture(t, "schema.xsd", map[string]string{"schema.xsd": testutil.Schema(body)}, opts...)
	require.NoError(t, r.Parse(context.Background()))
	return r
}

func element(t *testing.T, r *Resolver, name string) *Element {
	t.Helper()
	el, ok := r.Element(name)
	require.True(t, ok, "element %s not resolved", name)
	require.NotNil(t, el.Type, "element %s has no type", name)
	return el
}

func userType(t *testing.T, r *Resolver, name string) Type {
	t.Helper()
	typ, ok := r.Type(xml.Name{Local: name})
	require.True(t, ok, "type %s not resolved", name)
	return typ
}

func names(elements []*Element) []string {
	var result []string
	for _, el := range elements {
		result = append(result, el.Name)
	}
	return result
}

func attrNames(attrs []*Attribute) []string {
	var result []string
	for _, a := range attrs {
		result = append(result, a.Name)
	}
	return result
}

func TestResolveTwiceReturnsSameInstance(t *testing.T) {
	r := parsed(t, `
	  <xsd:complexType name="Address">
	    <xsd:sequence>
	      <xsd:element name="street" type="xsd:string"/>
	    </xsd:sequence>
	  </xsd:complexType>
	  <xsd:element name="Shipping" type="Address"/>
	  <xsd:element name="Billing" type="Address"/>`)

	shipping := element(t, r, "Shipping")
	billing := element(t, r, "Billing")
	assert.Same(t, shipping.Type, billing.Type)
	assert.Same(t, userType(t, r, "Address"), shipping.Type)

	node := r.Document().SearchFunc(topLevel("element", "Shipping"))[0]
	again, err := r.ResolveElement(node)
	require.NoError(t, err)
	assert.Same(t, shipping, again)

	typeNode := r.Document().SearchFunc(topLevel("complexType", "Address"))[0]
	ct, err := r.ResolveComplexType(typeNode)
	require.NoError(t, err)
	assert.Same(t, shipping.Type, ct)
}

func TestEnumerationOverlayReplaces(t *testing.T) {
	r := parsed(t, `
	  <xsd:simpleType name="Base">
	    <xsd:restriction base="xsd:string">
	      <xsd:enumeration value="a"/>
	      <xsd:enumeration value="b"/>
	      <xsd:maxLength value="1"/>
	    </xsd:restriction>
	  </xsd:simpleType>
	  <xsd:simpleType name="Derived">
	    <xsd:restriction base="Base">
	      <xsd:enumeration value="b"/>
	      <xsd:enumeration value="c"/>
	    </xsd:restriction>
	  </xsd:simpleType>
	  <xsd:element name="Code" type="Derived"/>`)

	derived := element(t, r, "Code").Type.(*SimpleType)
	assert.Equal(t, []string{"b", "c"}, derived.Enumeration)
	assert.Equal(t, "1", derived.MaxLength, "facets not redeclared are inherited")
	assert.Equal(t, String, derived.DataType)
	require.NotNil(t, derived.Restriction)
	assert.Equal(t, "Base", derived.Restriction.BaseName)

	base := userType(t, r, "Base").(*SimpleType)
	assert.Same(t, base, derived.Restriction.Base)
	assert.Equal(t, []string{"a", "b"}, base.Enumeration, "base is not modified")
}

func TestRestrictionFacets(t *testing.T) {
	r := parsed(t, `
	  <xsd:simpleType name="Amount">
	    <xsd:restriction base="xsd:decimal">
	      <xsd:totalDigits value="10"/>
	      <xsd:fractionDigits value="2"/>
	      <xsd:minExclusive value="0"/>
	      <xsd:maxInclusive value="99999999.99"/>
	    </xsd:restriction>
	  </xsd:simpleType>
	  <xsd:simpleType name="Sku">
	    <xsd:restriction base="xsd:token">
	      <xsd:pattern value="[A-Z]{3}"/>
	      <xsd:pattern value="[0-9]{6}"/>
	      <xsd:minLength value="3"/>
	      <xsd:length value="6"/>
	    </xsd:restriction>
	  </xsd:simpleType>
	  <xsd:element name="Price" type="Amount"/>
	  <xsd:element name="Item" type="Sku"/>`)

	amount := element(t, r, "Price").Type.(*SimpleType)
	assert.Equal(t, Float, amount.DataType)
	assert.Equal(t, Facets{
		TotalDigits:    "10",
		FractionDigits: "2",
		MinExclusive:   "0",
		MaxInclusive:   "99999999.99",
	}, amount.Facets)

	sku := element(t, r, "Item").Type.(*SimpleType)
	assert.Equal(t, NormalizedString, sku.DataType)
	assert.Equal(t, "[A-Z]{3}|[0-9]{6}", sku.Pattern)
	assert.Equal(t, "3", sku.MinLength)
	assert.Equal(t, "6", sku.Length)
}

func TestInlineRestrictionBase(t *testing.T) {
	r := parsed(t, `
	  <xsd:element name="Size">
	    <xsd:simpleType>
	      <xsd:restriction>
	        <xsd:simpleType>
	          <xsd:restriction base="xsd:integer">
	            <xsd:minInclusive value="1"/>
	          </xsd:restriction>
	        </xsd:simpleType>
	        <xsd:maxInclusive value="10"/>
	      </xsd:restriction>
	    </xsd:simpleType>
	  </xsd:element>`)

	size := element(t, r, "Size").Type.(*SimpleType)
	assert.Equal(t, Integer, size.DataType)
	assert.Equal(t, "1", size.MinInclusive)
	assert.Equal(t, "10", size.MaxInclusive)
	assert.Equal(t, "", size.Restriction.BaseName)
	assert.Empty(t, size.Name)
}

func TestExtensionAppendsAttributes(t *testing.T) {
	r := parsed(t, `
	  <xsd:complexType name="Measure">
	    <xsd:simpleContent>
	      <xsd:extension base="xsd:decimal">
	        <xsd:attribute name="x" type="xsd:string"/>
	      </xsd:extension>
	    </xsd:simpleContent>
	  </xsd:complexType>
	  <xsd:complexType name="Weight">
	    <xsd:simpleContent>
	      <xsd:extension base="Measure">
	        <xsd:attribute name="y" type="xsd:string" use="required"/>
	      </xsd:extension>
	    </xsd:simpleContent>
	  </xsd:complexType>
	  <xsd:element name="Gross" type="Weight"/>`)

	weight := element(t, r, "Gross").Type.(*ComplexType)
	assert.Equal(t, []string{"x", "y"}, attrNames(weight.Attributes))
	assert.Equal(t, "required", weight.Attributes[1].Use)
	assert.Equal(t, Float, weight.DataType)

	measure := userType(t, r, "Measure").(*ComplexType)
	assert.Same(t, measure, weight.Extends)
	assert.Equal(t, []string{"x"}, attrNames(measure.Attributes), "base is not modified")
	assert.Same(t, measure.Attributes[0], weight.Attributes[0])

	builtin, ok := r.Type(xml.Name{Space: schemaNS, Local: "decimal"})
	require.True(t, ok)
	assert.Same(t, builtin, measure.Extends)
}

func TestComplexTypeDirectAttributes(t *testing.T) {
	r := parsed(t, `
	  <xsd:attribute name="lang" type="xsd:language"/>
	  <xsd:element name="Note">
	    <xsd:complexType>
	      <xsd:sequence>
	        <xsd:element name="text" type="xsd:string"/>
	      </xsd:sequence>
	      <xsd:attribute name="id" type="xsd:ID" use="required"/>
	      <xsd:attribute ref="lang" use="optional"/>
	      <xsd:attribute name="level">
	        <xsd:simpleType>
	          <xsd:restriction base="xsd:int">
	            <xsd:maxInclusive value="5"/>
	          </xsd:restriction>
	        </xsd:simpleType>
	      </xsd:attribute>
	    </xsd:complexType>
	  </xsd:element>`)

	note := element(t, r, "Note").Type.(*ComplexType)
	require.Equal(t, []string{"id", "lang", "level"}, attrNames(note.Attributes))
	assert.Equal(t, "required", note.Attributes[0].Use)
	assert.Equal(t, "optional", note.Attributes[1].Use)
	assert.Equal(t, NormalizedString, note.Attributes[1].Type.DataType)
	assert.Equal(t, "-2147483648", note.Attributes[2].Type.MinInclusive)
	assert.Equal(t, "5", note.Attributes[2].Type.MaxInclusive)
}

func TestBuiltinTypeReference(t *testing.T) {
	r := parsed(t, `
	  <xsd:element name="Quantity" type="xsd:positiveInteger"/>
	  <xsd:simpleType name="Large">
	    <xsd:restriction base="xsd:positiveInteger">
	      <xsd:minInclusive value="1000"/>
	    </xsd:restriction>
	  </xsd:simpleType>
	  <xsd:element name="Bulk" type="Large"/>`)

	quantity := element(t, r, "Quantity").Type.(*SimpleType)
	assert.True(t, quantity.Builtin)
	assert.Equal(t, Integer, quantity.DataType)
	assert.Equal(t, "1", quantity.MinInclusive)
	assert.Equal(t, "1000", element(t, r, "Bulk").Type.(*SimpleType).MinInclusive)
	assert.Equal(t, "1", quantity.MinInclusive, "restricting a built-in leaves it unchanged")
	assert.Equal(t, "1", builtinTable["positiveInteger"].MinInclusive)

	assert.Equal(t, []string{"xsd:positiveInteger"}, r.Diagnostics().Builtins)
}

func TestBuiltinsAreNotShared(t *testing.T) {
	a := newTypeCache()
	b := newTypeCache()
	name := xml.Name{Space: schemaNS, Local: "string"}
	assert.NotSame(t, a[name], b[name])
	a[name].(*SimpleType).Enumeration = []string{"x"}
	assert.Nil(t, b[name].(*SimpleType).Enumeration)
	assert.Nil(t, builtinTable["string"].Enumeration)
}

func TestDefaultNamespaceBuiltins(t *testing.T) {
	r, _ := fixture(t, "schema.xsd", map[string]string{
		"schema.xsd": `<schema xmlns="http://www.w3.org/2001/XMLSchema">
		  <element name="Flag" type="boolean"/>
		  <element name="When" type="dateTime"/>
		</schema>`,
	})
	require.NoError(t, r.Parse(context.Background()))
	assert.Equal(t, Boolean, element(t, r, "Flag").Type.(*SimpleType).DataType)
	assert.Equal(t, DateTime, element(t, r, "When").Type.(*SimpleType).DataType)
	assert.Equal(t, []string{"boolean", "dateTime"}, r.Diagnostics().Builtins)
}

func TestMutuallyRecursiveTypes(t *testing.T) {
	r := parsed(t, `
	  <xsd:complexType name="A">
	    <xsd:sequence>
	      <xsd:element name="b" type="B" minOccurs="0"/>
	    </xsd:sequence>
	  </xsd:complexType>
	  <xsd:complexType name="B">
	    <xsd:sequence>
	      <xsd:element name="a" type="A" minOccurs="0"/>
	    </xsd:sequence>
	  </xsd:complexType>
	  <xsd:element name="Root" type="A"/>`)

	a := userType(t, r, "A").(*ComplexType)
	b := userType(t, r, "B").(*ComplexType)
	require.Len(t, a.Sequence, 1)
	require.Len(t, b.Sequence, 1)
	assert.Same(t, b, a.Sequence[0].Type)
	assert.Same(t, a, b.Sequence[0].Type)
	assert.Same(t, a, element(t, r, "Root").Type)
}

func TestSelfReferenceThroughRef(t *testing.T) {
	r := parsed(t, `
	  <xsd:element name="Part">
	    <xsd:complexType>
	      <xsd:sequence>
	        <xsd:element name="name" type="xsd:string"/>
	        <xsd:element ref="Part" minOccurs="0" maxOccurs="unbounded"/>
	      </xsd:sequence>
	    </xsd:complexType>
	  </xsd:element>`)

	part := element(t, r, "Part")
	ct := part.Type.(*ComplexType)
	require.Len(t, ct.Sequence, 2)
	assert.Same(t, part, ct.Sequence[1])
	assert.Equal(t, "unbounded", ct.Content.Particles[1].MaxOccurs)
	assert.True(t, part.Global)
	assert.False(t, ct.Sequence[0].Global)
}

func TestChoiceContent(t *testing.T) {
	r := parsed(t, `
	  <xsd:complexType name="Payment">
	    <xsd:choice>
	      <xsd:element name="card" type="xsd:string"/>
	      <xsd:element name="iban" type="xsd:string"/>
	    </xsd:choice>
	  </xsd:complexType>
	  <xsd:complexType name="Contact">
	    <xsd:sequence>
	      <xsd:element name="name" type="xsd:string"/>
	      <xsd:choice>
	        <xsd:element name="phone" type="xsd:string"/>
	        <xsd:element name="email" type="xsd:string"/>
	      </xsd:choice>
	      <xsd:element name="note" type="xsd:string" minOccurs="0"/>
	    </xsd:sequence>
	  </xsd:complexType>
	  <xsd:element name="Pay" type="Payment"/>
	  <xsd:element name="Who" type="Contact"/>`)

	payment := element(t, r, "Pay").Type.(*ComplexType)
	assert.Equal(t, []string{"card", "iban"}, names(payment.Choice))
	assert.Empty(t, payment.Sequence)
	assert.Equal(t, ChoiceParticle, payment.Content.Kind)

	contact := element(t, r, "Who").Type.(*ComplexType)
	assert.Equal(t, []string{"name", "phone", "email", "note"}, names(contact.Sequence))
	assert.Empty(t, contact.Choice)

	content := contact.Content
	require.Equal(t, SequenceParticle, content.Kind)
	require.Len(t, content.Particles, 3)
	assert.Equal(t, ElementParticle, content.Particles[0].Kind)
	assert.Equal(t, ChoiceParticle, content.Particles[1].Kind)
	assert.Equal(t, []string{"phone", "email"}, names(content.Particles[1].Elements()))
	assert.Equal(t, "0", content.Particles[2].MinOccurs)
	assert.Equal(t, names(contact.Sequence), names(content.Elements()))
}

func TestResolutionErrors(t *testing.T) {
	for _, tc := range []struct {
		name, body string
		kind, msg  string
	}{
		{
			name: "untyped element",
			body: `<xsd:element name="Empty"/>`,
			kind: "element",
			msg:  "element Empty has no type",
		},
		{
			name: "unknown element type",
			body: `<xsd:element name="E" type="Nowhere"/>`,
			kind: "element",
			msg:  "no type named Nowhere for element E",
		},
		{
			name: "unknown restriction base",
			body: `
			  <xsd:simpleType name="Bad">
			    <xsd:restriction base="Missing"/>
			  </xsd:simpleType>
			  <xsd:element name="E" type="Bad"/>`,
			kind: "restriction",
			msg:  "no base type Missing",
		},
		{
			name: "unknown ref",
			body: `
			  <xsd:element name="E">
			    <xsd:complexType>
			      <xsd:sequence><xsd:element ref="Ghost"/></xsd:sequence>
			    </xsd:complexType>
			  </xsd:element>`,
			kind: "element",
			msg:  "no element named Ghost",
		},
		{
			name: "complex attribute type",
			body: `
			  <xsd:complexType name="C"/>
			  <xsd:element name="E">
			    <xsd:complexType>
			      <xsd:attribute name="a" type="C"/>
			    </xsd:complexType>
			  </xsd:element>`,
			kind: "attribute",
			msg:  "no simple type named C for attribute a",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, urls := fixture(t, "schema.xsd", map[string]string{"schema.xsd": testutil.Schema(tc.body)})
			err := r.Parse(context.Background())
			require.Error(t, err)

			var rerr *ResolutionError
			require.True(t, errors.As(err, &rerr), "got %T: %v", err, err)
			assert.Equal(t, tc.kind, rerr.Kind)
			assert.Equal(t, tc.msg, rerr.Msg)
			assert.Equal(t, urls["schema.xsd"], rerr.Schema)
			assert.True(t, strings.HasPrefix(rerr.Path, "schema>"), rerr.Path)
			assert.Contains(t, err.Error(), tc.msg)
			assert.Contains(t, fmt.Sprintf("%+v", err), "resolve.go", "errors carry the stack where they were raised")
		})
	}
}

func TestCycleErrors(t *testing.T) {
	for _, tc := range []struct {
		name, body string
	}{
		{
			name: "self restriction",
			body: `
			  <xsd:simpleType name="A"><xsd:restriction base="A"/></xsd:simpleType>
			  <xsd:element name="E" type="A"/>`,
		},
		{
			name: "mutual restriction",
			body: `
			  <xsd:simpleType name="A"><xsd:restriction base="B"/></xsd:simpleType>
			  <xsd:simpleType name="B"><xsd:restriction base="A"/></xsd:simpleType>
			  <xsd:element name="E" type="A"/>`,
		},
		{
			name: "self extension",
			body: `
			  <xsd:complexType name="A">
			    <xsd:simpleContent><xsd:extension base="A"/></xsd:simpleContent>
			  </xsd:complexType>
			  <xsd:element name="E" type="A"/>`,
		},
		{
			name: "mutual extension",
			body: `
			  <xsd:complexType name="A">
			    <xsd:simpleContent><xsd:extension base="B"/></xsd:simpleContent>
			  </xsd:complexType>
			  <xsd:complexType name="B">
			    <xsd:simpleContent><xsd:extension base="A"/></xsd:simpleContent>
			  </xsd:complexType>
			  <xsd:element name="E" type="A"/>`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := fixture(t, "schema.xsd", map[string]string{"schema.xsd": testutil.Schema(tc.body)})
			err := r.Parse(context.Background())
			var cerr *CycleError
			require.True(t, errors.As(err, &cerr), "got %T: %v", err, err)
			assert.Contains(t, err.Error(), "depends on itself")
			assert.Contains(t, fmt.Sprintf("%+v", err), "resolve.go")
		})
	}
}

func TestFailedResolutionIsRolledBack(t *testing.T) {
	r, _ := fixture(t, "schema.xsd", map[string]string{"schema.xsd": testutil.Schema(`
	  <xsd:complexType name="Good">
	    <xsd:sequence><xsd:element name="ok" type="xsd:string"/></xsd:sequence>
	  </xsd:complexType>
	  <xsd:complexType name="Holder">
	    <xsd:sequence>
	      <xsd:element name="good" type="Good"/>
	      <xsd:element name="bad" type="Missing"/>
	    </xsd:sequence>
	  </xsd:complexType>
	  <xsd:element name="Top" type="Holder"/>`)})

	top := r.Document().SearchFunc(topLevel("element", "Top"))[0]
	for i := 0; i < 2; i++ {
		_, err := r.ResolveElement(top)
		require.Error(t, err, "attempt %d", i)

		for _, name := range []string{"Top", "good", "ok", "bad"} {
			_, ok := r.Element(name)
			assert.False(t, ok, "element %s cached after failure", name)
		}
		for _, name := range []string{"Holder", "Good"} {
			_, ok := r.Type(xml.Name{Local: name})
			assert.False(t, ok, "type %s cached after failure", name)
		}
		assert.Empty(t, r.Elements())
		assert.Empty(t, r.Types())
		assert.Empty(t, r.elementsByNode)
		assert.Empty(t, r.typesByNode)
	}

	good := r.Document().SearchFunc(topLevel("complexType", "Good"))[0]
	ct, err := r.ResolveComplexType(good)
	require.NoError(t, err)
	assert.Equal(t, []Type{ct}, r.Types())
}

func TestContinueOnError(t *testing.T) {
	r := parsed(t, `
	  <xsd:element name="First" type="xsd:string"/>
	  <xsd:element name="Broken" type="Missing"/>
	  <xsd:element name="Last" type="xsd:int"/>`, ContinueOnError(true))

	assert.Equal(t, []string{"First", "Last"}, names(r.Elements()))
	errs := r.Diagnostics().Errors
	require.Len(t, errs, 1)
	var rerr *ResolutionError
	require.True(t, errors.As(errs[0], &rerr))
	assert.Equal(t, "Broken", rerr.Name)
}

func TestNestedFailureReportedOnce(t *testing.T) {
	var log recorder
	r := parsed(t, `
	  <xsd:element name="Outer">
	    <xsd:complexType>
	      <xsd:sequence>
	        <xsd:element name="bad" type="Missing"/>
	      </xsd:sequence>
	    </xsd:complexType>
	  </xsd:element>`, ContinueOnError(true), LogOutput(&log))

	errs := r.Diagnostics().Errors
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no type named Missing for element bad")
	assert.Len(t, log.lines, 1)
	_, ok := r.Element("Outer")
	assert.False(t, ok, "a failed element is rolled back")
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	urls := testutil.Seed(t, fs, testutil.MemURL(t), map[string]string{
		"broken.xsd":  `<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"><xsd:element>`,
		"include.xsd": testutil.Schema(`<xsd:include schemaLocation="absent.xsd"/>`),
	})

	for _, location := range []string{urls["broken.xsd"], testutil.MemURL(t) + "/absent.xsd"} {
		_, err := Load(ctx, location, Filesystem(fs))
		var lerr *SchemaLoadError
		require.True(t, errors.As(err, &lerr), "got %T: %v", err, err)
		assert.Equal(t, location, lerr.Location)
	}

	r, err := Load(ctx, urls["include.xsd"], Filesystem(fs))
	require.NoError(t, err)
	err = r.Parse(ctx)
	var lerr *SchemaLoadError
	require.True(t, errors.As(err, &lerr), "got %T: %v", err, err)
	assert.True(t, strings.HasSuffix(lerr.Location, "/absent.xsd"), lerr.Location)
}

func TestSharedLoader(t *testing.T) {
	fs := afs.New()
	urls := testutil.Seed(t, fs, testutil.MemURL(t), map[string]string{
		"schema.xsd": testutil.Schema(`<xsd:element name="E" type="xsd:string"/>`),
	})
	l, err := loader.New(fs, 4)
	require.NoError(t, err)

	ctx := context.Background()
	a, err := Load(ctx, urls["schema.xsd"], WithLoader(l))
	require.NoError(t, err)
	b, err := Load(ctx, urls["schema.xsd"], WithLoader(l))
	require.NoError(t, err)
	assert.Same(t, a.Document(), b.Document())

	require.NoError(t, a.Parse(ctx))
	require.NoError(t, b.Parse(ctx))
	assert.NotSame(t, element(t, a, "E"), element(t, b, "E"), "sessions do not share caches")
}

// staticLoader serves documents from memory without afs.
type staticLoader map[string]string

func (l staticLoader) Load(ctx context.Context, location string) (*xmltree.Element, error) {
	doc, ok := l[location]
	if !ok {
		return nil, errors.Errorf("no document at %s", location)
	}
	return xmltree.Parse([]byte(doc))
}

func TestCustomLoader(t *testing.T) {
	ctx := context.Background()
	docs := staticLoader{
		"mem://localhost/static/root.xsd": testutil.Schema(`
		  <xsd:include schemaLocation="common.xsd"/>
		  <xsd:element name="Total" type="Money"/>`),
		"mem://localhost/static/common.xsd": testutil.Schema(`
		  <xsd:simpleType name="Money">
		    <xsd:restriction base="xsd:decimal"/>
		  </xsd:simpleType>`),
	}
	r, err := Load(ctx, "mem://localhost/static/root.xsd", WithLoader(docs))
	require.NoError(t, err)
	require.NoError(t, r.Parse(ctx))
	assert.Equal(t, "mem://localhost/static/common.xsd", userType(t, r, "Money").(*SimpleType).SourceSchema)

	_, err = Load(ctx, "mem://localhost/static/absent.xsd", WithLoader(docs))
	var lerr *SchemaLoadError
	assert.True(t, errors.As(err, &lerr))
}

func TestOnDiskInclude(t *testing.T) {
	location, err := filepath.Abs(filepath.Join("testdata", "order.xsd"))
	require.NoError(t, err)
	ctx := context.Background()
	r, err := Load(ctx, location)
	require.NoError(t, err)
	require.NoError(t, r.Parse(ctx))

	order := element(t, r, "Order").Type.(*ComplexType)
	require.Equal(t, []string{"id", "customer", "line"}, names(order.Sequence))
	customer := order.Sequence[1]
	assert.True(t, strings.HasSuffix(customer.SourceSchema, "common.xsd"), customer.SourceSchema)
	assert.True(t, strings.HasSuffix(customer.Type.Schema(), "common.xsd"), customer.Type.Schema())

	currency := element(t, r, "Amount").Type.(*ComplexType)
	assert.Equal(t, []string{"currency"}, attrNames(currency.Attributes))
	assert.Equal(t, []string{"EUR", "USD"}, currency.Attributes[0].Type.Enumeration)

	schemas := r.Schemas()
	require.Len(t, schemas, 2)
	assert.True(t, strings.HasSuffix(schemas[0], "common.xsd"), schemas[0])
	assert.True(t, strings.HasSuffix(schemas[1], "order.xsd"), schemas[1])
}

type recorder struct {
	lines []string
}

func (l *recorder) Printf(format string, v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestLogging(t *testing.T) {
	var quiet, verbose recorder
	body := `<xsd:group name="G"/><xsd:element name="E" type="xsd:string"/>`
	parsed(t, body, LogOutput(&quiet))
	parsed(t, body, LogOutput(&verbose), LogLevel(5))

	assert.Empty(t, quiet.lines)
	assert.NotEmpty(t, verbose.lines)
	var unhandled bool
	for _, line := range verbose.lines {
		if strings.Contains(line, "unhandled tag xsd:group,xsd:schema") {
			unhandled = true
		}
	}
	assert.True(t, unhandled, "%q", verbose.lines)
}

func TestOptionRevert(t *testing.T) {
	var cfg Config
	cfg.Option(LogLevel(2))
	prev := cfg.Option(LogLevel(5), ContinueOnError(true))
	assert.Equal(t, 5, cfg.loglevel)
	cfg.Option(prev)
	assert.False(t, cfg.continueOnError)
	undo := cfg.Option(LogLevel(4))
	cfg.Option(undo)
	assert.Equal(t, 5, cfg.loglevel)
}

func TestElementNodeMemo(t *testing.T) {
	r := parsed(t, `
	  <xsd:element name="id" type="xsd:string"/>
	  <xsd:element name="A">
	    <xsd:complexType>
	      <xsd:sequence><xsd:element name="id" type="xsd:int"/></xsd:sequence>
	    </xsd:complexType>
	  </xsd:element>`)

	global := element(t, r, "id")
	assert.Equal(t, String, global.Type.(*SimpleType).DataType, "first declaration wins the registry")
	local := element(t, r, "A").Type.(*ComplexType).Sequence[0]
	assert.NotSame(t, global, local)
	assert.Equal(t, Integer, local.Type.(*SimpleType).DataType)
	assert.Equal(t, []string{"id", "A"}, names(r.Elements()))
}
