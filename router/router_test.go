package router

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackfish212/gopherengine/adapters"
	"github.com/jackfish212/gopherengine/store"
	"github.com/jackfish212/gopherengine/types"
)

func TestBrowseEmptyPathListsNamespaces(t *testing.T) {
	s := store.New()
	s.SeedLocal()
	r := New(s)

	items, err := r.Browse(context.Background(), "")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	var sawLocal bool
	for _, item := range items {
		if item.Display == "local" {
			sawLocal = true
		}
	}
	if !sawLocal {
		t.Errorf("namespace listing = %+v, expected to include local", items)
	}
}

func TestPublishFetchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := adapters.NewFS("vault", dir, nil, true)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	s := store.New()
	r := New(s)
	if err := r.RegisterAdapter(context.Background(), fs); err != nil {
		t.Fatalf("RegisterAdapter: %v", err)
	}

	res, err := r.Publish(context.Background(), "vault/notes/a.md", "hello")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Action != "published" {
		t.Errorf("action = %q, want %q", res.Action, "published")
	}

	fetched, err := r.Fetch(context.Background(), "vault/notes/a.md")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if fetched.Content != "hello" {
		t.Errorf("content = %q, want %q", fetched.Content, "hello")
	}

	res, err = r.Publish(context.Background(), "vault/notes/a.md", "hello again")
	if err != nil {
		t.Fatalf("second Publish: %v", err)
	}
	if res.Action != "updated" {
		t.Errorf("action = %q, want %q", res.Action, "updated")
	}

	items, err := r.Browse(context.Background(), "vault/notes/")
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if len(items) != 1 || items[0].Display != "a.md" {
		t.Errorf("items = %+v", items)
	}
}

func TestDumpShallow(t *testing.T) {
	srcDir := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		if err := os.WriteFile(filepath.Join(srcDir, name), []byte("content-"+name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	dstDir := t.TempDir()

	srcFS, err := adapters.NewFS("src", srcDir, nil, false)
	if err != nil {
		t.Fatalf("NewFS src: %v", err)
	}
	dstFS, err := adapters.NewFS("vault", dstDir, nil, true)
	if err != nil {
		t.Fatalf("NewFS dst: %v", err)
	}

	s := store.New()
	r := New(s)
	if err := r.RegisterAdapter(context.Background(), srcFS); err != nil {
		t.Fatalf("register src: %v", err)
	}
	if err := r.RegisterAdapter(context.Background(), dstFS); err != nil {
		t.Fatalf("register dst: %v", err)
	}

	result, err := r.Dump(context.Background(), "src", "vault/m", 3)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if result.Published != 3 || result.Skipped != 0 {
		t.Fatalf("result = %+v, want published=3 skipped=0", result)
	}

	items, err := r.Browse(context.Background(), "vault/m/")
	if err != nil {
		t.Fatalf("Browse vault/m: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("items = %+v, want 3 entries", items)
	}
}

func TestBrowseRemoteConnectionRefused(t *testing.T) {
	s := store.New()
	r := New(s)

	_, err := r.Browse(context.Background(), "127.0.0.1/")
	if err == nil {
		t.Fatal("expected a network error when nothing listens on port 70")
	}
	if !errors.Is(err, types.ErrNetwork) {
		t.Errorf("err = %v, want wrapping types.ErrNetwork", err)
	}
}

func TestSearchFallsBackToFilter(t *testing.T) {
	s := store.New()
	s.SeedLocal()
	r := New(s)

	items, err := r.Search(context.Background(), "local/", "welcome")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 || items[0].Display != "Welcome to gopher-mcp" {
		t.Errorf("items = %+v", items)
	}
}

func TestPublishOnReadOnlyNamespaceFails(t *testing.T) {
	dir := t.TempDir()
	fs, err := adapters.NewFS("ro", dir, nil, false)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	s := store.New()
	r := New(s)
	if err := r.RegisterAdapter(context.Background(), fs); err != nil {
		t.Fatalf("RegisterAdapter: %v", err)
	}

	if _, err := r.Publish(context.Background(), "ro/x", "y"); err == nil {
		t.Error("expected NotWritable error")
	}
}

func TestSanitizeDumpSegmentRejectsTraversal(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd": "etc/passwd",
		"a/../b":           "a/b",
		"./x":              "x",
		"..":               "",
		"a//b":             "a/b",
	}
	for in, want := range cases {
		if got := sanitizeDumpSegment(in); got != want {
			t.Errorf("sanitizeDumpSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
