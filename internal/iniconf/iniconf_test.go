package iniconf

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "colors")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestParseSections(t *testing.T) {
	content := `
[General]
Name=MyTheme

[Colors:Button]
BackgroundNormal=239,240,241
ForegroundNormal=35,38,41
`
	path := writeTemp(t, content)

	doc, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	name, ok := doc.Get("General", "Name")
	if !ok || name != "MyTheme" {
		t.Fatalf("General.Name = %q, %v", name, ok)
	}

	bg, ok := doc.Get("Colors:Button", "BackgroundNormal")
	if !ok || bg != "239,240,241" {
		t.Fatalf("Colors:Button.BackgroundNormal = %q, %v", bg, ok)
	}

	if _, ok := doc.Get("Colors:Button", "missing"); ok {
		t.Fatalf("expected missing key to report ok=false")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRGB(t *testing.T) {
	r, g, b, err := RGB("239, 240 ,241")
	if err != nil {
		t.Fatalf("RGB: %v", err)
	}
	if r != 239 || g != 240 || b != 241 {
		t.Fatalf("RGB = %d,%d,%d", r, g, b)
	}

	if _, _, _, err := RGB("1,2"); err == nil {
		t.Fatalf("expected error for short triple")
	}
	if _, _, _, err := RGB("1,2,300"); err == nil {
		t.Fatalf("expected error for out-of-range component")
	}
}
