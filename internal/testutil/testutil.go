// Package testutil contains common utility functions for unit tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Schema wraps the body of an XML Schema document in an <xsd:schema>
// element declaring the xsd prefix.
func Schema(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema">` + body + `</xsd:schema>`
}

// Seed uploads files, keyed by name relative to baseURL, to fs. The
// base URL is usually a mem:// location unique to the test. Seed returns
// the URL of every file keyed by its name.
func Seed(t testing.TB, fs afs.Service, baseURL string, files map[string]string) map[string]string {
	t.Helper()
	ctx := context.Background()
	urls := make(map[string]string, len(files))
	for name, content := range files {
		URL := url.Join(baseURL, name)
		if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(content)); err != nil {
			t.Fatalf("seed %s: %v", URL, err)
		}
		urls[name] = URL
	}
	return urls
}

// MemURL returns a mem:// base location unique to the running test.
func MemURL(t testing.TB) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return "mem://localhost/xsdmodel/" + name
}
