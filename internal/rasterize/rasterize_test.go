package rasterize

import (
	"bytes"
	"compress/gzip"
	"image"
	"image/color"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const sampleSVG = `<?xml version="1.0"?>
<svg width="100" height="50" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <style id="current-color-scheme">
      .ColorScheme-Text { color: #232829; }
    </style>
  </defs>
  <rect id="background" class="ColorScheme-Text" x="0" y="0" width="100" height="50"/>
  <g id="icon" transform="translate(10,10)">
    <circle cx="5" cy="5" r="5" fill="#ff0000"/>
  </g>
</svg>`

func TestParseNaturalSizeAndHints(t *testing.T) {
	doc, err := Parse([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.NaturalW != 100 || doc.NaturalH != 50 {
		t.Fatalf("NaturalW/H = %v/%v", doc.NaturalW, doc.NaturalH)
	}
	if !doc.UsesColorScheme() {
		t.Fatalf("expected UsesColorScheme true")
	}
	if doc.AppliesColorHint() {
		t.Fatalf("expected AppliesColorHint false")
	}
}

func TestParseElementsAndRects(t *testing.T) {
	doc, err := Parse([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !doc.HasElement("background") {
		t.Fatalf("expected background element")
	}
	if !doc.HasElement("icon") {
		t.Fatalf("expected icon element")
	}
	if doc.HasElement("nonexistent") {
		t.Fatalf("expected nonexistent element to be absent")
	}

	bg := doc.ElementRect("background")
	if !bg.Valid || bg.W != 100 || bg.H != 50 {
		t.Fatalf("background rect = %+v", bg)
	}

	missing := doc.ElementRect("nonexistent")
	if missing.Valid {
		t.Fatalf("expected invalid rect for missing element")
	}
}

func TestParseAutoDecompressHandlesSvgz(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(sampleSVG)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	doc, err := ParseAutoDecompress(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseAutoDecompress: %v", err)
	}
	if doc.NaturalW != 100 {
		t.Fatalf("NaturalW = %v", doc.NaturalW)
	}
}

func TestRenderWholeProducesRequestedSize(t *testing.T) {
	doc, err := Parse([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	img := RenderWhole(doc, 40, 20)
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Fatalf("rendered size = %v", img.Bounds())
	}
}

func TestRenderElementUsesElementBounds(t *testing.T) {
	doc, err := Parse([]byte(sampleSVG))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	img := RenderElement(doc, "icon", 16, 16)
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("rendered element size = %v", img.Bounds())
	}
}

func TestParseColorFormats(t *testing.T) {
	cases := map[string]bool{
		"#fff":              true,
		"#ffffff":           true,
		"#ffffffff":         true,
		"rgb(255, 0, 0)":    true,
		"rgba(0, 0, 0, .5)": true,
		"none":              false,
		"currentColor":      false,
		"":                  false,
	}
	for v, wantOK := range cases {
		_, ok := parseColor(v)
		if ok != wantOK {
			t.Errorf("parseColor(%q) ok = %v, want %v", v, ok, wantOK)
		}
	}
}

func TestMakeUniformSnapsToPixelBoundary(t *testing.T) {
	x, y, w, h := MakeUniform(Rect{X: 1.2, Y: 1.8, W: 10.3, H: 5.1, Valid: true}, 1.0)
	if x != 1 || y != 1 {
		t.Fatalf("origin = %d,%d", x, y)
	}
	if w < 10 || h < 6 {
		t.Fatalf("size = %d,%d", w, h)
	}
}

func TestTintPreservesLightnessAndTransparency(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 50, G: 50, B: 50, A: 255}) // dark gray, opaque
	// leave (1,0) fully transparent

	tint := color.RGBA{R: 0, G: 0, B: 255, A: 255} // blue
	out := Tint(src, tint)

	if out.RGBAAt(1, 0).A != 0 {
		t.Fatalf("expected transparent pixel to remain transparent")
	}

	got := out.RGBAAt(0, 0)
	if got.A != 255 {
		t.Fatalf("expected opaque pixel to remain opaque, got alpha %d", got.A)
	}
	gotColor, _ := colorful.MakeColor(got)
	gotHue, _, gotLight := gotColor.Hsl()
	tintHue, _, _ := colorful.MakeColor(tint).Hsl()
	srcColor, _ := colorful.MakeColor(src.RGBAAt(0, 0))
	_, _, srcLight := srcColor.Hsl()

	if diff := gotHue - tintHue; diff > 1 || diff < -1 {
		t.Fatalf("tinted hue = %v, want close to tint hue %v", gotHue, tintHue)
	}
	if diff := gotLight - srcLight; diff > 0.05 || diff < -0.05 {
		t.Fatalf("tinted lightness = %v, want close to source lightness %v", gotLight, srcLight)
	}
}

func TestParsePathDataBasicCommands(t *testing.T) {
	subs := parsePathData("M0,0 L10,0 L10,10 L0,10 Z")
	if len(subs) != 1 {
		t.Fatalf("expected 1 subpath, got %d", len(subs))
	}
	if !subs[0].closed {
		t.Fatalf("expected closed subpath")
	}
	if len(subs[0].points) < 4 {
		t.Fatalf("expected at least 4 points, got %d", len(subs[0].points))
	}
}
