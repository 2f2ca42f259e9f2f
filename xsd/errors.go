package xsd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// A SchemaLoadError is returned when a schema document cannot be read
// or is not well-formed XML. It aborts the whole resolution.
type SchemaLoadError struct {
	Location string
	Err      error
}

func (err *SchemaLoadError) Error() string {
	return fmt.Sprintf("load schema %s: %v", err.Location, err.Err)
}

func (err *SchemaLoadError) Unwrap() error { return err.Err }

// A ResolutionError is returned when a referenced type, base type or
// element cannot be found in a schema or any schema it includes.
type ResolutionError struct {
	// Kind of the component being resolved: "element", "attribute",
	// "complexType", "simpleType" or "restriction".
	Kind string
	// Name of the component being resolved, if it has one.
	Name string
	// Location of the schema declaring the component.
	Schema string
	// Breadcrumbs from the schema root to the offending node, in the
	// form schema>complexType(A)>sequence>element(b).
	Path string
	Msg  string
}

func (err *ResolutionError) Error() string {
	var buf strings.Builder
	buf.WriteString(err.Schema)
	if err.Path != "" {
		buf.WriteString(": error at ")
		buf.WriteString(err.Path)
	}
	buf.WriteString(": ")
	buf.WriteString(err.Msg)
	return buf.String()
}

// A CycleError is returned when a definition depends on itself in a way
// that cannot be broken by caching, such as a simple type restricting
// itself or a complex type extending itself.
type CycleError struct {
	Kind   string
	Name   string
	Schema string
	Path   string
}

func (err *CycleError) Error() string {
	return fmt.Sprintf("%s: error at %s: %s %q depends on itself", err.Schema, err.Path, err.Kind, err.Name)
}

func resolutionError(schema string, node *xmltree.Element, format string, v ...interface{}) error {
	return errors.WithStack(&ResolutionError{
		Kind:   node.Name.Local,
		Name:   node.Attr("", "name"),
		Schema: schema,
		Path:   breadcrumbs(node),
		Msg:    fmt.Sprintf(format, v...),
	})
}

func cycleError(schema string, node *xmltree.Element) error {
	return errors.WithStack(&CycleError{
		Kind:   node.Name.Local,
		Name:   node.Attr("", "name"),
		Schema: schema,
		Path:   breadcrumbs(node),
	})
}

// breadcrumbs renders the ancestry of node, root first, naming each
// named ancestor.
func breadcrumbs(node *xmltree.Element) string {
	var path []string
	for el := node; el != nil; el = el.Parent() {
		piece := el.Name.Local
		if name := el.Attr("", "name"); name != "" {
			piece = fmt.Sprintf("%s(%s)", piece, name)
		} else if ref := el.Attr("", "ref"); ref != "" {
			piece = fmt.Sprintf("%s(ref=%s)", piece, ref)
		}
		path = append(path, piece)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return strings.Join(path, ">")
}
