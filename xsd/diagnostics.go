package xsd

import (
	"strings"

	"github.com/CognitoIQ/xsdmodel/internal/ordered"
	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// Diagnostics lists observations made while resolving a schema and the
// schemas it includes. Every list is in the order entries were first
// seen and holds no duplicates.
type Diagnostics struct {
	// Tag paths of constructs outside the supported subset, such as
	// "xsd:group,xsd:sequence,xsd:complexType,xsd:element". A path runs
	// from the unsupported node up to the nearest enclosing element
	// declaration, or to the schema element.
	Unhandled []string
	// Built-in types named by type or base attributes, as written.
	Builtins []string
	// Top-level named types that no element or attribute uses.
	Unreferenced []string
	// Include edges that close a cycle, as "from -> to".
	IncludeCycles []string
	// Resolution failures skipped under ContinueOnError.
	Errors []error
}

type collector struct {
	unhandled    ordered.Set
	builtins     ordered.Set
	unreferenced ordered.Set
	cycles       ordered.Set
	errors       []error
}

// merge folds the diagnostics of an included schema into c. Unreferenced
// types are left out; they are computed over the whole include closure
// by the resolver that owns c.
func (c *collector) merge(other *collector) {
	c.unhandled.Merge(&other.unhandled)
	c.builtins.Merge(&other.builtins)
	c.cycles.Merge(&other.cycles)
	for _, err := range other.errors {
		c.addError(err)
	}
}

// addError records err unless an error with the same message is
// already recorded. A declaration nested in one that failed is walked
// again and fails the same way.
func (c *collector) addError(err error) bool {
	for _, v := range c.errors {
		if v == err || v.Error() == err.Error() {
			return false
		}
	}
	c.errors = append(c.errors, err)
	return true
}

func (c *collector) snapshot() Diagnostics {
	return Diagnostics{
		Unhandled:     c.unhandled.Items(),
		Builtins:      c.builtins.Items(),
		Unreferenced:  c.unreferenced.Items(),
		IncludeCycles: c.cycles.Items(),
		Errors:        append([]error(nil), c.errors...),
	}
}

// Tags consumed by resolution of their parent; the walk passes over
// them without a diagnostic.
var handledTags = map[string]bool{
	"schema":        true,
	"include":       true,
	"element":       true,
	"simpleType":    true,
	"complexType":   true,
	"sequence":      true,
	"choice":        true,
	"simpleContent": true,
	"extension":     true,
	"restriction":   true,
	"attribute":     true,

	"enumeration":    true,
	"pattern":        true,
	"length":         true,
	"minLength":      true,
	"maxLength":      true,
	"minInclusive":   true,
	"minExclusive":   true,
	"maxInclusive":   true,
	"maxExclusive":   true,
	"totalDigits":    true,
	"fractionDigits": true,
}

// tagPath joins the tag names of node and its ancestors, stopping at
// the first element declaration.
func tagPath(node *xmltree.Element) string {
	var tags []string
	for el := node; el != nil; el = el.Parent() {
		tags = append(tags, el.TagName())
		if el != node && el.Name.Space == schemaNS && el.Name.Local == "element" {
			break
		}
	}
	return strings.Join(tags, ",")
}
