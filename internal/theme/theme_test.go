package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeThemeMetadata(t *testing.T, root, name, apiVersion, fallback string) string {
	t.Helper()
	dir := filepath.Join(root, "desktoptheme", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := fmt.Sprintf(`{"KPlugin":{"Name":%q},"X-Plasma-API":%q,"X-Plasma-API-FallbackTheme":%q}`, name, apiVersion, fallback)
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	return dir
}

func TestParseVersion(t *testing.T) {
	v := ParseVersion("5.2.1")
	if v.Major != 5 || v.Minor != 2 || v.Patch != 1 {
		t.Fatalf("ParseVersion = %+v", v)
	}
	if ParseVersion("5").Major != 5 {
		t.Fatalf("expected partial version to parse major only")
	}
}

func TestSetThemeLoadsMetadataAndFallsBackChain(t *testing.T) {
	root := t.TempDir()
	writeThemeMetadata(t, root, "default", "5.0", "")
	writeThemeMetadata(t, root, "breeze", "5.1", "default")

	e, err := New("desktoptheme", []string{root}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.SetTheme("breeze"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	current := e.Current()
	if current.Name != "breeze" {
		t.Fatalf("Current().Name = %q", current.Name)
	}
	if len(current.FallbackChain) == 0 || current.FallbackChain[len(current.FallbackChain)-1] != "default" {
		t.Fatalf("FallbackChain = %v", current.FallbackChain)
	}
}

func TestSetThemeFallsBackToDefaultOnMissingTheme(t *testing.T) {
	root := t.TempDir()
	writeThemeMetadata(t, root, "default", "5.0", "")

	e, err := New("desktoptheme", []string{root}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.SetTheme("nonexistent"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if e.Current().Name != "default" {
		t.Fatalf("Current().Name = %q, want default", e.Current().Name)
	}
}

func TestSetThemeReturnsErrorWhenDefaultAlsoMissing(t *testing.T) {
	root := t.TempDir()
	e, err := New("desktoptheme", []string{root}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.SetTheme("nonexistent"); err == nil {
		t.Fatalf("expected error when default theme is also missing")
	}
	if e.Current() != nil {
		t.Fatalf("expected Current() to remain nil after failed SetTheme")
	}
}

func TestResolveGroupRemapsForOldAPIVersion(t *testing.T) {
	th := &Theme{Metadata: Metadata{APIVersion: Version{Major: 4}}}
	if got := th.ResolveGroup("View"); got != "Button" {
		t.Fatalf("ResolveGroup(View) with major<5 = %q, want Button", got)
	}
	if got := th.ResolveGroup("Normal"); got != "Normal" {
		t.Fatalf("ResolveGroup(Normal) should never remap, got %q", got)
	}

	modern := &Theme{Metadata: Metadata{APIVersion: Version{Major: 5}}}
	if got := modern.ResolveGroup("View"); got != "View" {
		t.Fatalf("ResolveGroup(View) with major>=5 = %q, want View", got)
	}
}

func TestInternalSystemColorsSkipsResolution(t *testing.T) {
	e, err := New("desktoptheme", []string{t.TempDir()}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.SetTheme(InternalSystemColors); err != nil {
		t.Fatalf("SetTheme(InternalSystemColors): %v", err)
	}
	if e.Current().BasePath != "" {
		t.Fatalf("expected empty BasePath for synthetic theme")
	}
}

func TestKcacheFilename(t *testing.T) {
	got := kcacheFilename("breeze", Version{Major: 5, Minor: 2, Patch: 0})
	want := "plasma_theme_breeze_v5.2.0.kcache"
	if got != want {
		t.Fatalf("kcacheFilename = %q, want %q", got, want)
	}
}
