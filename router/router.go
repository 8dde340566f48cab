// Package router implements the content router: it parses
// namespace/selector paths and dispatches browse, fetch, search, publish,
// delete, and dump to the local store, a registered adapter, or a remote
// Gopher host.
package router

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jackfish212/gopherengine/adapters"
	"github.com/jackfish212/gopherengine/gopher"
	"github.com/jackfish212/gopherengine/store"
	"github.com/jackfish212/gopherengine/types"
)

const defaultMaxDepth = 3

// Router is the single entry point for every content-engine operation.
// A Router is safe for concurrent use; the store and the Gopher client it
// wraps already serialise their own state.
type Router struct {
	store      *store.Store
	client     *gopher.Client
	adaptersMu sync.RWMutex
	adapters   map[string]adapters.Adapter
}

// New creates a Router over an already-seeded store.
func New(s *store.Store) *Router {
	return &Router{
		store:    s,
		client:   gopher.NewClient(),
		adapters: make(map[string]adapters.Adapter),
	}
}

// RegisterAdapter syncs a into the store and remembers it under its
// namespace so later Search/Publish/Delete calls can reach its native
// capabilities.
func (r *Router) RegisterAdapter(ctx context.Context, a adapters.Adapter) error {
	if err := a.Sync(ctx, r.store); err != nil {
		return err
	}
	r.adaptersMu.Lock()
	r.adapters[a.Namespace()] = a
	r.adaptersMu.Unlock()
	return nil
}

// Resync re-runs sync for the adapter owning namespace. It is a no-op,
// not an error, when namespace has no registered adapter (the local
// synthetic namespace, for instance).
func (r *Router) Resync(ctx context.Context, namespace string) error {
	a, ok := r.adapter(namespace)
	if !ok {
		return nil
	}
	return a.Sync(ctx, r.store)
}

func (r *Router) adapter(namespace string) (adapters.Adapter, bool) {
	r.adaptersMu.RLock()
	defer r.adaptersMu.RUnlock()
	a, ok := r.adapters[namespace]
	return a, ok
}

func (r *Router) isLocal(namespace string) bool {
	return r.store.HasNamespace(namespace)
}

// Browse lists the items at path. An empty path lists registered
// namespaces.
func (r *Router) Browse(ctx context.Context, p string) ([]types.MenuItem, error) {
	namespace, selector := types.SplitPath(p)
	if namespace == "" {
		return r.namespaceListing(), nil
	}

	if r.isLocal(namespace) {
		node, ok := r.store.Get(namespace, selector)
		if !ok {
			return nil, fmt.Errorf("%w: %s%s", types.ErrNotFound, namespace, selector)
		}
		if node.Kind != types.NodeMenu {
			return nil, fmt.Errorf("%w: %s%s is a document, not a menu", types.ErrTypeMismatch, namespace, selector)
		}
		return node.Items, nil
	}

	items, err := r.client.FetchMenu(ctx, namespace, 70, selector)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Router) namespaceListing() []types.MenuItem {
	names := r.store.Namespaces()
	items := make([]types.MenuItem, 0, len(names))
	for _, name := range names {
		items = append(items, types.MenuItem{Type: types.Menu, Display: name, Selector: "", Host: name})
	}
	return items
}

// FetchResult is the outcome of Fetch.
type FetchResult struct {
	Path    string
	Content string
	MIME    string
}

// Fetch retrieves the document at path.
func (r *Router) Fetch(ctx context.Context, p string) (FetchResult, error) {
	namespace, selector := types.SplitPath(p)
	if namespace == "" {
		return FetchResult{}, fmt.Errorf("%w: empty path", types.ErrInvalidPath)
	}

	if r.isLocal(namespace) {
		node, ok := r.store.Get(namespace, selector)
		if !ok {
			return FetchResult{}, fmt.Errorf("%w: %s%s", types.ErrNotFound, namespace, selector)
		}
		if node.Kind != types.NodeDocument {
			return FetchResult{}, fmt.Errorf("%w: %s%s is a menu, not a document", types.ErrTypeMismatch, namespace, selector)
		}
		mime := node.MIME
		if mime == "" {
			mime = "text/plain"
		}
		return FetchResult{Path: p, Content: node.Text, MIME: mime}, nil
	}

	content, err := r.client.FetchText(ctx, namespace, 70, selector)
	if err != nil {
		return FetchResult{}, err
	}
	return FetchResult{Path: p, Content: content, MIME: "text/plain"}, nil
}

// Search runs query against path. A native adapter search is preferred;
// otherwise the result is a case-insensitive filter of Browse(path).
func (r *Router) Search(ctx context.Context, p, query string) ([]types.MenuItem, error) {
	namespace, selector := types.SplitPath(p)

	if r.isLocal(namespace) {
		if a, ok := r.adapter(namespace); ok {
			if s, ok := a.(adapters.Searchable); ok {
				if items, claimed := s.Search(ctx, selector, query); claimed {
					return items, nil
				}
			}
		}
		items, err := r.Browse(ctx, p)
		if err != nil {
			return nil, err
		}
		return filterByDisplay(items, query), nil
	}

	items, err := r.client.Search(ctx, namespace, 70, selector, query)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func filterByDisplay(items []types.MenuItem, query string) []types.MenuItem {
	q := strings.ToLower(query)
	var out []types.MenuItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Display), q) {
			out = append(out, item)
		}
	}
	return out
}

// PublishResult is the outcome of Publish.
type PublishResult struct {
	Path   string
	Action string
}

// Publish writes content to path. The owning namespace must be
// registered, adapter-backed, and writable.
func (r *Router) Publish(ctx context.Context, p, content string) (PublishResult, error) {
	namespace, selector := types.SplitPath(p)

	a, ok := r.adapter(namespace)
	if !ok {
		return PublishResult{}, fmt.Errorf("%w: namespace %q has no writable adapter", types.ErrNotWritable, namespace)
	}
	w, ok := a.(adapters.Writable)
	if !ok {
		return PublishResult{}, fmt.Errorf("%w: namespace %q is read-only", types.ErrNotWritable, namespace)
	}

	created, err := w.Publish(ctx, r.store, selector, content)
	if err != nil {
		return PublishResult{}, err
	}
	action := "updated"
	if created {
		action = "published"
	}
	return PublishResult{Path: p, Action: action}, nil
}

// DeleteResult is the outcome of Delete.
type DeleteResult struct {
	Path   string
	Action string
}

// Delete removes the node at path, recursively for a menu path. The
// owning namespace must be registered, adapter-backed, and writable.
func (r *Router) Delete(ctx context.Context, p string) (DeleteResult, error) {
	namespace, selector := types.SplitPath(p)

	a, ok := r.adapter(namespace)
	if !ok {
		return DeleteResult{}, fmt.Errorf("%w: namespace %q has no writable adapter", types.ErrNotWritable, namespace)
	}
	w, ok := a.(adapters.Writable)
	if !ok {
		return DeleteResult{}, fmt.Errorf("%w: namespace %q is read-only", types.ErrNotWritable, namespace)
	}

	if err := w.Delete(ctx, r.store, selector); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Path: p, Action: "deleted"}, nil
}

// DumpResult is the outcome of Dump. JobID correlates this run across
// JSON-RPC calls and CLI log lines; it has no meaning beyond that.
type DumpResult struct {
	JobID       string
	Source      string
	Destination string
	Published   int
	Skipped     int
}

type dumpNode struct {
	selector string
	depth    int
}

// Dump walks source breadth-first up to maxDepth menu levels, fetching
// every document it finds and republishing it under destination at a
// selector that preserves the relative hierarchy. Individual fetch or
// publish failures are counted as skips; an unwritable destination fails
// the whole operation before any work is attempted.
func (r *Router) Dump(ctx context.Context, source, destination string, maxDepth int) (DumpResult, error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	destNamespace, destBase := types.SplitPath(destination)
	if !r.store.IsWritable(destNamespace) {
		return DumpResult{}, fmt.Errorf("%w: destination namespace %q is not writable", types.ErrNotWritable, destNamespace)
	}

	sourceNamespace, sourceSelector := types.SplitPath(source)

	result := DumpResult{JobID: uuid.New().String(), Source: source, Destination: destination}
	queue := []dumpNode{{selector: sourceSelector, depth: 0}}
	visited := map[string]bool{sourceSelector: true}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		items, err := r.Browse(ctx, types.JoinPath(sourceNamespace, n.selector))
		if err != nil {
			result.Skipped++
			continue
		}

		for _, item := range items {
			if item.Type == types.Info || item.Selector == "" {
				continue
			}
			relative := strings.TrimPrefix(item.Selector, sourceSelector)
			targetSelector := path.Join(destBase, sanitizeDumpSegment(relative))

			switch item.Type {
			case types.Menu:
				if n.depth >= maxDepth || visited[item.Selector] {
					continue
				}
				visited[item.Selector] = true
				queue = append(queue, dumpNode{selector: item.Selector, depth: n.depth + 1})
			case types.TextFile:
				fetched, err := r.Fetch(ctx, types.JoinPath(sourceNamespace, item.Selector))
				if err != nil {
					result.Skipped++
					continue
				}
				if _, err := r.Publish(ctx, types.JoinPath(destNamespace, targetSelector), fetched.Content); err != nil {
					result.Skipped++
					continue
				}
				result.Published++
			default:
				result.Skipped++
			}
		}
	}

	return result, nil
}

func sanitizeDumpSegment(selector string) string {
	selector = strings.TrimPrefix(selector, "/")
	parts := strings.Split(selector, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
				return r
			default:
				return '_'
			}
		}, p)
		// A segment that is only dots ("", ".", "..") would otherwise
		// navigate relative to destBase once path.Join cleans it.
		if p == "" || strings.Trim(p, ".") == "" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}
