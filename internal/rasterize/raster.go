package rasterize

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"
)

// RenderWhole rasterizes the entire document into a width x height
// image.RGBA, scaling from natural coordinates to the target size.
func RenderWhole(doc *Document, width, height int) *image.RGBA {
	return renderShapes(doc.root, doc.NaturalW, doc.NaturalH, width, height, 0, 0)
}

// RenderElement rasterizes only the named element's shapes: the
// element's own bounding box, not the whole document, maps onto
// (width, height). An unknown id yields a blank width x height image.
func RenderElement(doc *Document, id string, width, height int) *image.RGBA {
	el, ok := doc.elements[id]
	if !ok {
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return renderShapesInBox(el.shapes, el.X, el.Y, el.W, el.H, width, height)
}

// renderShapes scales document-space shapes spanning [0,naturalW] x
// [0,naturalH] onto a width x height canvas.
func renderShapes(shapes []shape, naturalW, naturalH float64, width, height int, offsetX, offsetY float64) *image.RGBA {
	return renderShapesInBox(shapes, offsetX, offsetY, naturalW, naturalH, width, height)
}

// renderShapesInBox scales shapes whose document-space bounding box is
// [boxX,boxX+boxW] x [boxY,boxY+boxH] onto a width x height canvas, then
// draws each shape's resolved fill color into it in document order.
func renderShapesInBox(shapes []shape, boxX, boxY, boxW, boxH float64, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if boxW <= 0 || boxH <= 0 || width <= 0 || height <= 0 {
		return dst
	}
	sx := float64(width) / boxW
	sy := float64(height) / boxH

	r := vector.NewRasterizer(width, height)
	for _, sh := range shapes {
		col, ok := parseColor(sh.fill)
		if !ok {
			continue
		}
		r.Reset(width, height)
		for _, sp := range sh.subpaths {
			if len(sp.points) == 0 {
				continue
			}
			p0 := sp.points[0]
			r.MoveTo(float32((p0.X-boxX)*sx), float32((p0.Y-boxY)*sy))
			for _, p := range sp.points[1:] {
				r.LineTo(float32((p.X-boxX)*sx), float32((p.Y-boxY)*sy))
			}
			r.ClosePath()
		}
		r.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
	}
	return dst
}

// Tint recolors every non-transparent pixel of src to tint's hue and
// saturation while preserving each pixel's own HSL lightness, for the
// hint-apply-color-scheme post-raster recoloring path (spec.md §4.3/§9).
// This mirrors KIconEffect::colorize's grayscale-preserving colorize
// rather than a flat per-channel multiply, so shading and anti-aliasing
// in the source art survive the tint.
func Tint(src *image.RGBA, tint color.RGBA) *image.RGBA {
	tintHue, tintSat, _ := colorful.MakeColor(tint).Hsl()

	out := image.NewRGBA(src.Bounds())
	for y := src.Bounds().Min.Y; y < src.Bounds().Max.Y; y++ {
		for x := src.Bounds().Min.X; x < src.Bounds().Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			srcColor, ok := colorful.MakeColor(color.RGBA{
				R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8),
			})
			if !ok {
				continue
			}
			_, _, lightness := srcColor.Hsl()
			tinted := colorful.Hsl(tintHue, tintSat, lightness)
			cr, cg, cb := tinted.RGB255()
			out.Set(x, y, color.RGBA{R: cr, G: cg, B: cb, A: uint8(a >> 8)})
		}
	}
	return out
}
