package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("<svg/>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestResolveProbesSelectorsBeforeBarePath(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "desktoptheme", "breeze", "hidpi", "widgets", "button.svg")
	writeAsset(t, root, "desktoptheme", "breeze", "widgets", "button.svg")

	r := New("desktoptheme", []string{root})
	r.SetTheme("breeze", ThemeInfo{Selectors: []string{"hidpi"}})

	got := r.Resolve("breeze", filepath.Join("widgets", "button.svg"))
	want := filepath.Join(root, "desktoptheme", "breeze", "hidpi", "widgets", "button.svg")
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveFallsThroughSelectorsToBarePath(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "desktoptheme", "breeze", "widgets", "button.svg")

	r := New("desktoptheme", []string{root})
	r.SetTheme("breeze", ThemeInfo{Selectors: []string{"hidpi"}})

	got := r.Resolve("breeze", filepath.Join("widgets", "button.svg"))
	want := filepath.Join(root, "desktoptheme", "breeze", "widgets", "button.svg")
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveWalksFallbackChain(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "desktoptheme", "default", "widgets", "button.svg")

	r := New("desktoptheme", []string{root})
	r.SetTheme("breeze", ThemeInfo{Fallback: []string{"default"}})
	r.SetTheme("default", ThemeInfo{})

	got := r.Resolve("breeze", filepath.Join("widgets", "button.svg"))
	want := filepath.Join(root, "desktoptheme", "default", "widgets", "button.svg")
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveMissReturnsEmptyAndIsMemoized(t *testing.T) {
	root := t.TempDir()
	r := New("desktoptheme", []string{root})
	r.SetTheme("breeze", ThemeInfo{})

	if got := r.Resolve("breeze", "nope.svg"); got != "" {
		t.Fatalf("Resolve = %q, want empty", got)
	}

	writeAsset(t, root, "desktoptheme", "breeze", "nope.svg")
	if got := r.Resolve("breeze", "nope.svg"); got != "" {
		t.Fatalf("expected memoized miss to stay empty, got %q", got)
	}

	r.Invalidate("breeze")
	want := filepath.Join(root, "desktoptheme", "breeze", "nope.svg")
	if got := r.Resolve("breeze", "nope.svg"); got != want {
		t.Fatalf("Resolve after invalidate = %q, want %q", got, want)
	}
}

func TestResolveGuardsAgainstCyclicalFallback(t *testing.T) {
	root := t.TempDir()
	r := New("desktoptheme", []string{root})
	r.SetTheme("a", ThemeInfo{Fallback: []string{"b"}})
	r.SetTheme("b", ThemeInfo{Fallback: []string{"a"}})

	if got := r.Resolve("a", "missing.svg"); got != "" {
		t.Fatalf("Resolve = %q, want empty (no infinite loop)", got)
	}
}

func TestTrimSelectorMarker(t *testing.T) {
	if got := trimSelectorMarker("+locale"); got != "locale" {
		t.Fatalf("trimSelectorMarker(+locale) = %q", got)
	}
	if got := trimSelectorMarker("locale"); got != "locale" {
		t.Fatalf("trimSelectorMarker(locale) = %q", got)
	}
}

func TestListThemesDedupesAcrossDataDirs(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeAsset(t, rootA, "desktoptheme", "breeze", "widgets", "button.svg")
	writeAsset(t, rootA, "desktoptheme", "oxygen", "widgets", "button.svg")
	writeAsset(t, rootB, "desktoptheme", "breeze", "widgets", "button.svg")
	writeAsset(t, rootB, "desktoptheme", "adapta", "widgets", "button.svg")

	names := ListThemes([]string{rootA, rootB}, "desktoptheme")
	if len(names) != 3 {
		t.Fatalf("ListThemes = %v, want 3 unique names", names)
	}
}

func TestListThemesMissingBaseDirIsIgnored(t *testing.T) {
	root := t.TempDir()
	names := ListThemes([]string{root}, "desktoptheme")
	if len(names) != 0 {
		t.Fatalf("ListThemes = %v, want empty", names)
	}
}
