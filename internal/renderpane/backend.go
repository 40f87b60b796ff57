package renderpane

import (
	"context"
	"fmt"
	"image"

	"github.com/kdeframe/plasmasvg/internal/rasterize"
)

// Backend rasterizes a resolved SVG document into RGBA pixels. The
// Renderer Pool uses InProcess by default; a Backend wrapping an
// Executor lets an out-of-process plugin (e.g. a GPU or resvg-backed
// rasterizer) take over instead, matching spec.md §9's description of
// the Renderer Pool as swappable behind an "external collaborator"
// boundary.
type Backend interface {
	Render(ctx context.Context, req RenderRequest) (RenderResponse, error)
}

// InProcess is the default Backend: it re-parses the already
// color-substituted document bytes and rasterizes with
// internal/rasterize, exactly what the Renderer Pool did before
// renderpane existed.
type InProcess struct{}

func (InProcess) Render(_ context.Context, req RenderRequest) (RenderResponse, error) {
	doc, err := rasterize.Parse(req.Document)
	if err != nil {
		return RenderResponse{}, fmt.Errorf("in-process renderpane parse: %w", err)
	}

	var img *image.RGBA
	if req.Element == "" {
		img = rasterize.RenderWhole(doc, req.Width, req.Height)
	} else {
		img = rasterize.RenderElement(doc, req.Element, req.Width, req.Height)
	}
	return RenderResponse{Width: req.Width, Height: req.Height, Pix: img.Pix}, nil
}

// External wraps an Executor, dispatching Render calls to the
// subprocess and restarting the connection transparently on crash
// (Executor.Render already reconnects once per call if the previous
// client exited).
type External struct {
	Executor *Executor
}

func (b External) Render(ctx context.Context, req RenderRequest) (RenderResponse, error) {
	return b.Executor.Render(ctx, req)
}
