package themepack

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifestCreatesEmptyWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	mgr, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(mgr.List()) != 0 {
		t.Fatalf("expected empty manifest, got %d entries", len(mgr.List()))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected manifest file to be created: %v", err)
	}
}

func TestManifestPutGetRemove(t *testing.T) {
	dir := t.TempDir()
	mgr, err := LoadManifest(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	mgr.Put(Entry{Name: "breeze-dark", Version: "v1.0.0"})
	entry, ok := mgr.Get("breeze-dark")
	if !ok {
		t.Fatalf("expected entry to be found")
	}
	if entry.Version != "v1.0.0" {
		t.Fatalf("Version = %q", entry.Version)
	}

	mgr.Remove("breeze-dark")
	if _, ok := mgr.Get("breeze-dark"); ok {
		t.Fatalf("expected entry to be removed")
	}
}

func TestManifestSaveSkipsWhenClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	mgr, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	mtime := info.ModTime()

	if err := mgr.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info2, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info2.ModTime().Equal(mtime) {
		t.Fatalf("expected no rewrite on a clean Save")
	}
}

func TestManifestListSortedByName(t *testing.T) {
	dir := t.TempDir()
	mgr, err := LoadManifest(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	mgr.Put(Entry{Name: "zeta"})
	mgr.Put(Entry{Name: "alpha"})
	mgr.Put(Entry{Name: "mu"})

	list := mgr.List()
	if len(list) != 3 {
		t.Fatalf("len(list) = %d", len(list))
	}
	if list[0].Name != "alpha" || list[1].Name != "mu" || list[2].Name != "zeta" {
		t.Fatalf("unexpected order: %v", list)
	}
}

func TestLoadManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	mgr, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	mgr.Put(Entry{Name: "breeze", SourceRepo: "kde/breeze", Version: "v2.0.0", ThemeDir: "/themes/breeze"})
	if err := mgr.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("reload LoadManifest: %v", err)
	}
	entry, ok := reloaded.Get("breeze")
	if !ok {
		t.Fatalf("expected reloaded entry")
	}
	if entry.SourceRepo != "kde/breeze" || entry.ThemeDir != "/themes/breeze" {
		t.Fatalf("entry = %+v", entry)
	}
}
