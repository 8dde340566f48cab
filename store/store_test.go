package store

import (
	"testing"

	"github.com/jackfish212/gopherengine/types"
)

func TestStoreRegisterAndGet(t *testing.T) {
	s := New()
	s.RegisterNamespace("vault", true)

	if err := s.PutDocument("vault", "/a.md", "hello", "text/plain"); err != nil {
		t.Fatalf("PutDocument: %v", err)
	}

	node, ok := s.Get("vault", "/a.md")
	if !ok {
		t.Fatal("Get returned ok=false")
	}
	if node.Kind != types.NodeDocument || node.Text != "hello" {
		t.Errorf("node = %+v", node)
	}
}

func TestStoreGetMissingNamespace(t *testing.T) {
	s := New()
	if _, ok := s.Get("nope", "/x"); ok {
		t.Error("expected ok=false for unregistered namespace")
	}
}

func TestStoreWritabilityGuard(t *testing.T) {
	s := New()
	s.RegisterNamespace("ro", false)
	if s.IsWritable("ro") {
		t.Error("namespace registered read-only reported writable")
	}
}

func TestStoreReplaceNamespaceTotality(t *testing.T) {
	s := New()
	s.RegisterNamespace("feed", false)
	s.PutDocument("feed", "/entry/0", "old", "text/plain")
	s.PutDocument("feed", "/entry/1", "old", "text/plain")

	replacement := map[string]types.ContentNode{
		"/entry/0": types.DocumentNode("new", "text/plain"),
	}
	if err := s.ReplaceNamespace("feed", replacement); err != nil {
		t.Fatalf("ReplaceNamespace: %v", err)
	}

	if _, ok := s.Get("feed", "/entry/1"); ok {
		t.Error("selector absent from the replacement should disappear after sync")
	}
	node, ok := s.Get("feed", "/entry/0")
	if !ok || node.Text != "new" {
		t.Errorf("node = %+v, ok = %v", node, ok)
	}
}

func TestStoreSelectorsWithPrefix(t *testing.T) {
	s := New()
	s.RegisterNamespace("vault", true)
	s.PutDocument("vault", "/dir/a", "a", "text/plain")
	s.PutDocument("vault", "/dir/b", "b", "text/plain")
	s.PutDocument("vault", "/other", "c", "text/plain")

	sels := s.SelectorsWithPrefix("vault", "/dir/")
	if len(sels) != 2 {
		t.Errorf("got %d selectors, want 2: %v", len(sels), sels)
	}
}

func TestSeedLocal(t *testing.T) {
	s := New()
	s.SeedLocal()

	if !s.HasNamespace("local") {
		t.Fatal("SeedLocal did not register the local namespace")
	}
	node, ok := s.Get("local", "/welcome")
	if !ok || node.Kind != types.NodeDocument || node.Text == "" {
		t.Errorf("welcome document missing or empty: %+v, ok=%v", node, ok)
	}
	root, ok := s.Get("local", "")
	if !ok || root.Kind != types.NodeMenu {
		t.Errorf("root menu missing: %+v, ok=%v", root, ok)
	}
}
