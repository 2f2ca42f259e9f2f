// Package loader fetches and parses schema documents.
//
// Schema locations are URLs understood by github.com/viant/afs; plain
// file paths are accepted as well. Parsed documents are kept in an LRU
// cache keyed by location, so a document shared by several schemas is
// read and parsed once.
package loader

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// DefaultCacheSize is the number of parsed documents a Loader keeps
// when no size is given.
const DefaultCacheSize = 256

// A Loader downloads schema documents and parses them into trees.
// A Loader is safe for concurrent use.
type Loader struct {
	fs    afs.Service
	cache *lru.Cache[string, *xmltree.Element]
}

// New creates a Loader reading through fs. A nil fs selects afs.New().
// A size below one selects DefaultCacheSize.
func New(fs afs.Service, size int) (*Loader, error) {
	if fs == nil {
		fs = afs.New()
	}
	if size < 1 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *xmltree.Element](size)
	if err != nil {
		return nil, err
	}
	return &Loader{fs: fs, cache: cache}, nil
}

// Filesystem returns the storage service documents are read from.
func (l *Loader) Filesystem() afs.Service { return l.fs }

// Load returns the parsed document stored at location. A document is
// downloaded and parsed at most once while it stays in the cache.
func (l *Loader) Load(ctx context.Context, location string) (*xmltree.Element, error) {
	if doc, ok := l.cache.Get(location); ok {
		return doc, nil
	}
	data, err := l.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", location)
	}
	doc, err := xmltree.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", location)
	}
	l.cache.Add(location, doc)
	return doc, nil
}

// Locate resolves a schemaLocation found in the document at base.
// Relative locations are taken relative to the directory of base;
// absolute paths and URLs are returned as they are.
func Locate(base, location string) string {
	if !url.IsRelative(location) {
		return location
	}
	parent, _ := url.Split(base, file.Scheme)
	return url.Join(parent, location)
}
