// Package adapters implements the source-adapter contract and its three
// projections: filesystem, RSS/Atom, and RDF.
package adapters

import (
	"context"

	"github.com/jackfish212/gopherengine/store"
	"github.com/jackfish212/gopherengine/types"
)

// Adapter is the minimal interface every source adapter implements: it
// owns a namespace and knows how to populate/refresh it.
type Adapter interface {
	Namespace() string
	Sync(ctx context.Context, s *store.Store) error
}

// Searchable is implemented by adapters that can answer a search query
// natively. Returning (nil, false) delegates to the router's generic
// case-insensitive filter over browse results.
type Searchable interface {
	Search(ctx context.Context, selector, query string) ([]types.MenuItem, bool)
}

// Writable is implemented by adapters whose namespace accepts publish
// and delete. Adapters that do not implement Writable are treated as
// read-only regardless of what Sync populates.
type Writable interface {
	Publish(ctx context.Context, s *store.Store, selector, content string) (created bool, err error)
	Delete(ctx context.Context, s *store.Store, selector string) error
}

// IsWritable reports whether a registered adapter accepts writes.
func IsWritable(a Adapter) bool {
	if f, ok := a.(*FS); ok {
		return f.writable
	}
	_, ok := a.(Writable)
	return ok
}
