package feed

import (
	"os"
	"path/filepath"
	"testing"

	"cofounder-radar/internal/config"
)

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := "sources:\n" +
		"  - name: Hacker News\n" +
		"    url: https://hnrss.org/frontpage\n" +
		"  - name: ' Crunchbase News '\n" +
		"    url: https://news.crunchbase.com/feed/\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources error: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Crunchbase News" {
		t.Fatalf("unexpected sources %+v", got)
	}
}

func TestLoadSourcesRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	if err := os.WriteFile(path, []byte("sources:\n  - name: only-name\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadSources(path); err == nil {
		t.Fatal("expected error for entry without url")
	}
}

func TestRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	b, err := MarshalSources([]Source{{Name: "file", URL: "http://f"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Registry(config.RefreshConfig{
		Sources:     []config.FeedSource{{Name: "inline", URL: "http://i"}},
		SourcesFile: path,
	})
	if err != nil {
		t.Fatalf("Registry error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "inline" || got[1].Name != "file" {
		t.Fatalf("unexpected registry %+v", got)
	}
	if _, err := Registry(config.RefreshConfig{}); err == nil {
		t.Fatal("expected error for empty registry")
	}
}
