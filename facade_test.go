package plasmasvg

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kdeframe/plasmasvg/internal/renderer"
	"github.com/kdeframe/plasmasvg/internal/theme"
)

const facadeTestSVG = `<svg width="20" height="10" xmlns="http://www.w3.org/2000/svg">
  <rect id="bg" x="0" y="0" width="20" height="10" fill="#ff0000"/>
</svg>`

func writeFacadeSVG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.svg")
	if err := os.WriteFile(path, []byte(facadeTestSVG), 0o644); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	return path
}

func TestSetImagePathAbsoluteBecomesValid(t *testing.T) {
	path := writeFacadeSVG(t)
	svg := New(nil, renderer.New(nil))

	if !svg.SetImagePath(AbsolutePath(path)) {
		t.Fatalf("expected first SetImagePath to return true")
	}
	if !svg.IsValid() {
		t.Fatalf("expected facade to be valid after absolute path resolves")
	}
	if svg.State() != ValidAbsolute {
		t.Fatalf("State() = %v, want ValidAbsolute", svg.State())
	}

	w, h := svg.NaturalSize()
	if w != 20 || h != 10 {
		t.Fatalf("NaturalSize() = %v,%v, want 20,10", w, h)
	}
}

func TestSetImagePathIdempotent(t *testing.T) {
	path := writeFacadeSVG(t)
	svg := New(nil, renderer.New(nil))

	svg.SetImagePath(AbsolutePath(path))
	if svg.SetImagePath(AbsolutePath(path)) {
		t.Fatalf("expected second identical SetImagePath to return false")
	}
}

func TestSetImagePathMissingFileIsInvalid(t *testing.T) {
	svg := New(nil, renderer.New(nil))
	svg.SetImagePath(AbsolutePath(filepath.Join(t.TempDir(), "nope.svg")))
	if svg.IsValid() {
		t.Fatalf("expected invalid facade for missing file")
	}
	if svg.State() != Invalid {
		t.Fatalf("State() = %v, want Invalid", svg.State())
	}
}

func TestPixmapRendersAtNaturalSizeByDefault(t *testing.T) {
	path := writeFacadeSVG(t)
	svg := New(nil, renderer.New(nil))
	svg.SetImagePath(AbsolutePath(path))

	img, err := svg.Pixmap("")
	if err != nil {
		t.Fatalf("Pixmap: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Fatalf("Pixmap size = %v", img.Bounds())
	}
}

func TestPixmapOnInvalidFacadeReturnsError(t *testing.T) {
	svg := New(nil, renderer.New(nil))
	svg.SetImagePath(AbsolutePath(filepath.Join(t.TempDir(), "nope.svg")))
	if _, err := svg.Pixmap(""); err == nil {
		t.Fatalf("expected error for invalid facade")
	}
}

func TestHasElement(t *testing.T) {
	path := writeFacadeSVG(t)
	svg := New(nil, renderer.New(nil))
	svg.SetImagePath(AbsolutePath(path))

	if !svg.HasElement("bg") {
		t.Fatalf("expected bg element to be found")
	}
	if svg.HasElement("nonexistent") {
		t.Fatalf("expected nonexistent element to be absent")
	}
}

func TestResizeToNaturalRestoresDefaultSize(t *testing.T) {
	path := writeFacadeSVG(t)
	svg := New(nil, renderer.New(nil))
	svg.SetImagePath(AbsolutePath(path))

	svg.Resize(100, 50)
	img, err := svg.Pixmap("")
	if err != nil {
		t.Fatalf("Pixmap: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Fatalf("Pixmap size after Resize = %v", img.Bounds())
	}

	svg.Resize(0, 0)
	img, err = svg.Pixmap("")
	if err != nil {
		t.Fatalf("Pixmap: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Fatalf("Pixmap size after restoring natural size = %v", img.Bounds())
	}
}

func writeThemedSVG(t *testing.T, root, themeName string, color string) {
	t.Helper()
	dir := filepath.Join(root, "desktoptheme", themeName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	meta := fmt.Sprintf(`{"KPlugin":{"Name":%q},"X-Plasma-API":"5.0"}`, themeName)
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(meta), 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	svg := fmt.Sprintf(`<svg width="%[1]d" height="%[1]d" xmlns="http://www.w3.org/2000/svg">
  <rect id="bg" x="0" y="0" width="%[1]d" height="%[1]d" fill="%s"/>
</svg>`, 20, color)
	if err := os.WriteFile(filepath.Join(dir, "widget.svg"), []byte(svg), 0o644); err != nil {
		t.Fatalf("write widget.svg: %v", err)
	}
}

// TestThemedFacadeReResolvesOnThemeChange exercises the Subscribe wiring
// added to New: a themed Facade re-resolves its path and notifies its
// repaintNeeded listeners once the Theme Engine broadcasts a switch,
// without the caller rebuilding the Facade.
func TestThemedFacadeReResolvesOnThemeChange(t *testing.T) {
	root := t.TempDir()
	writeThemedSVG(t, root, "default", "#ff0000")
	writeThemedSVG(t, root, "breeze", "#00ff00")

	engine, err := theme.New("desktoptheme", []string{root}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("theme.New: %v", err)
	}
	if err := engine.SetTheme("default"); err != nil {
		t.Fatalf("SetTheme(default): %v", err)
	}

	svg := New(engine, nil)
	svg.SetImagePath(ThemedPath("widget"))
	if svg.State() != ValidThemed {
		t.Fatalf("State() = %v, want ValidThemed", svg.State())
	}
	before := svg.ImagePath()
	var repaints int32
	svg.OnRepaintNeeded(func() { atomic.AddInt32(&repaints, 1) })

	if err := engine.SetTheme("breeze"); err != nil {
		t.Fatalf("SetTheme(breeze): %v", err)
	}
	// SetTheme's broadcast is debounced; wait past the coalescing window.
	time.Sleep(150 * time.Millisecond)

	if atomic.LoadInt32(&repaints) == 0 {
		t.Fatalf("expected at least one repaintNeeded notification after theme switch")
	}
	after := svg.ImagePath()
	if !before.equal(after) {
		t.Fatalf("logical ImagePath should be unchanged by a theme switch: before=%v after=%v", before, after)
	}
	if svg.State() != ValidThemed {
		t.Fatalf("State() after theme switch = %v, want ValidThemed", svg.State())
	}
}
