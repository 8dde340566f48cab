// Package store implements the local content store: a two-level mapping
// of namespace to selector to ContentNode, with per-namespace locking so
// a sync or publish into one namespace never blocks readers of another.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jackfish212/gopherengine/types"
)

type namespaceStore struct {
	mu       sync.RWMutex
	writable bool
	nodes    map[string]types.ContentNode
}

// Store is the process-wide local content store.
type Store struct {
	mu         sync.RWMutex
	namespaces map[string]*namespaceStore
}

// New creates an empty Store.
func New() *Store {
	return &Store{namespaces: make(map[string]*namespaceStore)}
}

// RegisterNamespace creates the namespace if it does not already exist.
// Re-registering an existing namespace is a no-op and does not change
// its writability.
func (s *Store) RegisterNamespace(namespace string, writable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.namespaces[namespace]; !ok {
		s.namespaces[namespace] = &namespaceStore{writable: writable, nodes: make(map[string]types.ContentNode)}
	}
}

func (s *Store) namespace(namespace string) (*namespaceStore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns, ok := s.namespaces[namespace]
	return ns, ok
}

// HasNamespace reports whether namespace is registered.
func (s *Store) HasNamespace(namespace string) bool {
	_, ok := s.namespace(namespace)
	return ok
}

// IsWritable reports whether namespace is registered and writable.
func (s *Store) IsWritable(namespace string) bool {
	ns, ok := s.namespace(namespace)
	if !ok {
		return false
	}
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.writable
}

// Namespaces returns all registered namespace names, sorted.
func (s *Store) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.namespaces))
	for name := range s.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the node at namespace/selector, or ok=false if absent.
func (s *Store) Get(namespace, selector string) (types.ContentNode, bool) {
	ns, ok := s.namespace(namespace)
	if !ok {
		return types.ContentNode{}, false
	}
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	node, ok := ns.nodes[selector]
	return node, ok
}

// PutMenu stores a menu node at namespace/selector. The namespace must
// already be registered.
func (s *Store) PutMenu(namespace, selector string, items []types.MenuItem) error {
	return s.put(namespace, selector, types.MenuNode(items))
}

// PutDocument stores a document node at namespace/selector. The
// namespace must already be registered.
func (s *Store) PutDocument(namespace, selector, text, mime string) error {
	return s.put(namespace, selector, types.DocumentNode(text, mime))
}

func (s *Store) put(namespace, selector string, node types.ContentNode) error {
	ns, ok := s.namespace(namespace)
	if !ok {
		return fmt.Errorf("%w: namespace %q not registered", types.ErrInternal, namespace)
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.nodes[selector] = node
	return nil
}

// Remove deletes the node at namespace/selector. It is not an error to
// remove an absent selector.
func (s *Store) Remove(namespace, selector string) {
	ns, ok := s.namespace(namespace)
	if !ok {
		return
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	delete(ns.nodes, selector)
}

// SelectorsWithPrefix returns every selector in namespace that starts
// with prefix, used by writable adapters to clear a subtree on delete.
func (s *Store) SelectorsWithPrefix(namespace, prefix string) []string {
	ns, ok := s.namespace(namespace)
	if !ok {
		return nil
	}
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	var out []string
	for sel := range ns.nodes {
		if strings.HasPrefix(sel, prefix) {
			out = append(out, sel)
		}
	}
	return out
}

// ReplaceNamespace atomically swaps the full node set of namespace with
// replacement, implementing sync's totality invariant: selectors absent
// from replacement disappear, and a reader never observes a half-applied
// sync. The namespace must already be registered; writability is
// preserved.
func (s *Store) ReplaceNamespace(namespace string, replacement map[string]types.ContentNode) error {
	ns, ok := s.namespace(namespace)
	if !ok {
		return fmt.Errorf("%w: namespace %q not registered", types.ErrInternal, namespace)
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.nodes = replacement
	return nil
}

// SeedLocal populates the synthetic "local" namespace with a welcome
// document and a small submenu, mirroring the example content shipped
// with the original prototype. The local namespace is not adapter-owned
// and is read-only unless the caller explicitly registers it writable.
func (s *Store) SeedLocal() {
	s.RegisterNamespace("local", false)

	root := []types.MenuItem{
		{Type: types.TextFile, Display: "Welcome to gopher-mcp", Selector: "/welcome", Host: "local"},
		{Type: types.Info, Display: "-----------------------"},
		{Type: types.Menu, Display: "Submenu Example", Selector: "/sub", Host: "local"},
	}
	s.PutMenu("local", "", root)
	s.PutDocument("local", "/welcome",
		"This is a local document served by gopher-mcp.\nContent here is served directly from the local store.", "text/plain")

	sub := []types.MenuItem{
		{Type: types.TextFile, Display: "Back to root", Selector: "", Host: "local"},
		{Type: types.TextFile, Display: "Deep document", Selector: "/sub/deep", Host: "local"},
	}
	s.PutMenu("local", "/sub", sub)
	s.PutDocument("local", "/sub/deep", "This is a document deep in the local hierarchy.", "text/plain")
}
