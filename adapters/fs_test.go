package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackfish212/gopherengine/store"
	"github.com/jackfish212/gopherengine/types"
)

func TestFSSyncAndPublishFetch(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, err := NewFS("vault", dir, nil, true)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	s := store.New()
	if err := fs.Sync(context.Background(), s); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	root, ok := s.Get("vault", "")
	if !ok || root.Kind != types.NodeMenu || len(root.Items) != 1 {
		t.Fatalf("root menu = %+v, ok=%v", root, ok)
	}

	created, err := fs.Publish(context.Background(), s, "/notes/b.md", "hello")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !created {
		t.Error("Publish on new file should report created=true")
	}

	node, ok := s.Get("vault", "/notes/b.md")
	if !ok || node.Text != "hello" {
		t.Fatalf("published document missing: %+v, ok=%v", node, ok)
	}

	created, err = fs.Publish(context.Background(), s, "/notes/b.md", "hello again")
	if err != nil {
		t.Fatalf("second Publish: %v", err)
	}
	if created {
		t.Error("second Publish on existing file should report created=false")
	}
}

func TestFSSelectorToPathRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFS("vault", dir, nil, true)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	if _, err := fs.selectorToPath("/../../etc/passwd"); err == nil {
		t.Error("expected traversal rejection")
	}
}

func TestFSDeleteNonWritable(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFS("ro", dir, nil, false)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	s := store.New()
	fs.Sync(context.Background(), s)

	if err := fs.Delete(context.Background(), s, "/a"); err == nil {
		t.Error("expected NotWritable error on read-only adapter")
	}
}

func TestParseGophermap(t *testing.T) {
	content := "# comment\n\n1About\t/about\thost\t70\niHello\n"
	items := parseGophermap(content)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[0].Selector != "/about" || items[1].Display != "Hello" {
		t.Errorf("items = %+v", items)
	}
}
