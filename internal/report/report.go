// Package report writes the resolved model of a schema as plain text
// files: one line per resolved element or type, and one line per
// diagnostic.
package report

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/CognitoIQ/xsdmodel/xsd"
)

// Names of the files written by Write.
const (
	ElementsFile     = "elements.tsv"
	TypesFile        = "types.tsv"
	UnhandledFile    = "notHandledTags.txt"
	BuiltinsFile     = "baseTypes.txt"
	UnreferencedFile = "unreferencedTypes.txt"
	SchemasFile      = "schemas.txt"
)

// Write stores the report of r under dir, any location fs can upload
// to. Existing files are replaced.
func Write(ctx context.Context, fs afs.Service, dir string, r *xsd.Resolver) error {
	diag := r.Diagnostics()
	for _, f := range []struct {
		name    string
		content string
	}{
		{ElementsFile, tsv([]string{"Name", "Type", "SourceSchema"}, elementRows(r.Elements()))},
		{TypesFile, tsv([]string{"Name", "SourceSchema"}, typeRows(r.Types()))},
		{UnhandledFile, lines(diag.Unhandled)},
		{BuiltinsFile, lines(diag.Builtins)},
		{UnreferencedFile, lines(diag.Unreferenced)},
		{SchemasFile, lines(r.Schemas())},
	} {
		URL := url.Join(dir, f.name)
		if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(f.content)); err != nil {
			return errors.Wrapf(err, "write %s", URL)
		}
	}
	return nil
}

func elementRows(elements []*xsd.Element) [][]string {
	rows := make([][]string, 0, len(elements))
	for _, el := range elements {
		typeName := el.TypeName
		if typeName == "" && el.Type != nil {
			typeName = el.Type.TypeName()
		}
		rows = append(rows, []string{el.Name, typeName, el.SourceSchema})
	}
	return rows
}

func typeRows(types []xsd.Type) [][]string {
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{t.TypeName(), t.Schema()})
	}
	return rows
}

func tsv(header []string, rows [][]string) string {
	out := make([]string, 0, len(rows)+1)
	out = append(out, strings.Join(header, "\t"))
	for _, row := range rows {
		out = append(out, strings.Join(row, "\t"))
	}
	return lines(out)
}

func lines(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "\n") + "\n"
}
