package colorscheme

import (
	"os"
	"path/filepath"
	"testing"
)

func writeColorsFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "colors")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write colors file: %v", err)
	}
	return path
}

func TestLoadFromINIResolvesGroupsAndFallsBackToNormal(t *testing.T) {
	path := writeColorsFile(t, `
[General]
Name=Breeze

[Colors:Window]
BackgroundNormal=239,240,241
ForegroundNormal=35,38,41
DecorationFocus=61,174,233
ForegroundLink=41,128,185

[Colors:Button]
BackgroundNormal=252,252,252
ForegroundNormal=35,38,41
`)

	scheme, err := LoadFromINI(path)
	if err != nil {
		t.Fatalf("LoadFromINI: %v", err)
	}
	if scheme.Name() != "Breeze" {
		t.Fatalf("Name() = %q", scheme.Name())
	}

	bg := scheme.Get(Normal, Background)
	if bg != Opaque(239, 240, 241) {
		t.Fatalf("Normal/Background = %+v", bg)
	}

	buttonBg := scheme.Get(Button, Background)
	if buttonBg != Opaque(252, 252, 252) {
		t.Fatalf("Button/Background = %+v", buttonBg)
	}

	// Button never specifies Link, so it falls back to Normal's value.
	buttonLink := scheme.Get(Button, Link)
	if buttonLink != Opaque(41, 128, 185) {
		t.Fatalf("Button/Link fallback = %+v", buttonLink)
	}

	// View is absent entirely, so every role falls back through Normal.
	viewText := scheme.Get(View, Text)
	if viewText != Opaque(35, 38, 41) {
		t.Fatalf("View/Text fallback = %+v", viewText)
	}
}

func TestGetFallsBackToBuiltinDefaultWhenSchemeIsNil(t *testing.T) {
	var scheme *ColorScheme
	c := scheme.Get(Normal, NegativeText)
	if c != builtinDefault(NegativeText) {
		t.Fatalf("expected builtin default, got %+v", c)
	}
}

func TestLoadFromINIMissingFile(t *testing.T) {
	if _, err := LoadFromINI(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
