package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndCreateAdapters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[[adapter]]
type = "fs"
namespace = "vault"
root = "` + dir + `"
writable = true

[[adapter]]
type = "rss"
namespace = "news"
url = "http://example.com/feed.xml"

[[adapter]]
type = "rdf"
namespace = "graph"
sparql_endpoint = "http://example.com/sparql"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Adapters) != 3 {
		t.Fatalf("got %d adapters, want 3", len(cfg.Adapters))
	}

	created, err := cfg.CreateAdapters()
	if err != nil {
		t.Fatalf("CreateAdapters: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("got %d created adapters, want 3", len(created))
	}
	if created[0].Namespace() != "vault" {
		t.Errorf("namespace = %q", created[0].Namespace())
	}
}

func TestCreateAdapterMissingFields(t *testing.T) {
	if _, err := createAdapter(AdapterConfig{Type: "fs", Namespace: "vault"}); err == nil {
		t.Error("expected error for fs adapter with no root")
	}
	if _, err := createAdapter(AdapterConfig{Type: "rss", Namespace: "news"}); err == nil {
		t.Error("expected error for rss adapter with no url")
	}
	if _, err := createAdapter(AdapterConfig{Type: "bogus", Namespace: "x"}); err == nil {
		t.Error("expected error for unknown adapter type")
	}
}
