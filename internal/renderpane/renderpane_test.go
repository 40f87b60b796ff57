package renderpane

import (
	"context"
	"testing"
)

const renderpaneTestSVG = `<svg width="4" height="4" xmlns="http://www.w3.org/2000/svg">
  <rect id="bg" x="0" y="0" width="4" height="4" fill="#ff0000"/>
</svg>`

func TestInProcessRenderWhole(t *testing.T) {
	b := InProcess{}
	resp, err := b.Render(context.Background(), RenderRequest{
		Document: []byte(renderpaneTestSVG),
		Width:    4,
		Height:   4,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if resp.Width != 4 || resp.Height != 4 {
		t.Fatalf("Render size = %d x %d", resp.Width, resp.Height)
	}
	if len(resp.Pix) != 4*4*4 {
		t.Fatalf("Pix length = %d, want %d", len(resp.Pix), 4*4*4)
	}
}

func TestInProcessRenderElement(t *testing.T) {
	b := InProcess{}
	resp, err := b.Render(context.Background(), RenderRequest{
		Document: []byte(renderpaneTestSVG),
		Element:  "bg",
		Width:    2,
		Height:   2,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if resp.Width != 2 || resp.Height != 2 {
		t.Fatalf("Render size = %d x %d", resp.Width, resp.Height)
	}
}

func TestInProcessRenderInvalidDocument(t *testing.T) {
	b := InProcess{}
	if _, err := b.Render(context.Background(), RenderRequest{Document: []byte("not xml"), Width: 1, Height: 1}); err == nil {
		t.Fatalf("expected parse error for invalid document")
	}
}

func TestParseVersionRoundTrip(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	if v.String() != "1.2.3" {
		t.Fatalf("String() = %q", v.String())
	}
}

func TestIsCompatibleRejectsDifferentMajor(t *testing.T) {
	if ok, _ := IsCompatible("2.0.0"); ok {
		t.Fatalf("expected major-version mismatch to be incompatible")
	}
}

func TestIsCompatibleAcceptsCurrentVersion(t *testing.T) {
	ok, err := IsCompatible(ProtocolVersion)
	if err != nil || !ok {
		t.Fatalf("IsCompatible(%q) = %v, %v", ProtocolVersion, ok, err)
	}
}
