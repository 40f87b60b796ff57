package renderer

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testSVG = `<svg width="10" height="10" xmlns="http://www.w3.org/2000/svg">
  <defs><style id="current-color-scheme"></style></defs>
  <rect id="bg" class="ColorScheme-Text" x="0" y="0" width="10" height="10"/>
</svg>`

func writeSVG(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestAcquireDedupsSharedRenderer(t *testing.T) {
	path := writeSVG(t, "test.svg", testSVG)
	p := New(nil)

	a, err := p.Acquire("breeze", path, ".ColorScheme-Text { color: #000; }")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	b, err := p.Acquire("breeze", path, ".ColorScheme-Text { color: #000; }")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical SharedRenderer for identical key")
	}
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
}

func TestAcquireDifferentStyleSheetsGetDistinctEntries(t *testing.T) {
	path := writeSVG(t, "test.svg", testSVG)
	p := New(nil)

	if _, err := p.Acquire("breeze", path, ".ColorScheme-Text { color: #000; }"); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := p.Acquire("breeze", path, ".ColorScheme-Text { color: #fff; }"); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
}

func TestReleaseEvictsOnLastReference(t *testing.T) {
	path := writeSVG(t, "test.svg", testSVG)
	p := New(nil)
	css := ".ColorScheme-Text { color: #000; }"

	sr, err := p.Acquire("breeze", path, css)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := p.Acquire("breeze", path, css); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	p.Release("breeze", path, css, sr)
	if p.Len() != 1 {
		t.Fatalf("Len() after first release = %d, want 1", p.Len())
	}
	p.Release("breeze", path, css, sr)
	if p.Len() != 0 {
		t.Fatalf("Len() after second release = %d, want 0", p.Len())
	}
}

func TestAcquireSubstitutesCurrentColorScheme(t *testing.T) {
	path := writeSVG(t, "test.svg", testSVG)
	p := New(nil)

	sr, err := p.Acquire("breeze", path, ".ColorScheme-Text { color: #112233; }")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !sr.Document.HasElement("bg") {
		t.Fatalf("expected bg element to survive substitution")
	}
}

func TestAcquireTransparentlyDecompressesSvgz(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.svgz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gw := gzip.NewWriter(f)
	if _, err := gw.Write([]byte(testSVG)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	p := New(nil)
	sr, err := p.Acquire("breeze", path, "")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if sr.Document.NaturalW != 10 {
		t.Fatalf("NaturalW = %v", sr.Document.NaturalW)
	}
}

func TestAcquireMissingFileReturnsAssetNotFound(t *testing.T) {
	p := New(nil)
	_, err := p.Acquire("breeze", filepath.Join(t.TempDir(), "nope.svg"), "")
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRenderUsesInProcessBackendByDefault(t *testing.T) {
	path := writeSVG(t, "test.svg", testSVG)
	p := New(nil)
	sr, err := p.Acquire("breeze", path, "")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	img, err := p.Render(context.Background(), sr, "", 10, 10)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Fatalf("Render size = %v", img.Bounds())
	}
}

func TestSubstituteColorSchemeInsertsCDATA(t *testing.T) {
	out, err := substituteColorScheme([]byte(testSVG), ".Foo{color:#fff;}")
	if err != nil {
		t.Fatalf("substituteColorScheme: %v", err)
	}
	if !bytes.Contains(out, []byte("CDATA")) {
		t.Fatalf("expected CDATA section in output:\n%s", out)
	}
	if !bytes.Contains(out, []byte(".Foo{color:#fff;}")) {
		t.Fatalf("expected generated CSS in output:\n%s", out)
	}
}
