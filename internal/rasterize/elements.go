package rasterize

import (
	"image/color"
	"strconv"
	"strings"
)

// shapeFromElement builds a shape (and its document-space bounding box)
// from one of the basic SVG shape elements. ok is false for elements
// this subset does not draw directly (e.g. <g>, <svg>, <defs>).
func shapeFromElement(tag string, attrs map[string]string, xf matrix) (shape, Rect, bool) {
	var sp subpath
	switch tag {
	case "rect":
		x, y := num(attrs["x"]), num(attrs["y"])
		w, h := num(attrs["width"]), num(attrs["height"])
		if w == 0 || h == 0 {
			return shape{}, Rect{}, false
		}
		sp = flattenRect(x, y, w, h)
	case "circle":
		cx, cy, r := num(attrs["cx"]), num(attrs["cy"]), num(attrs["r"])
		if r == 0 {
			return shape{}, Rect{}, false
		}
		sp = flattenEllipse(cx, cy, r, r)
	case "ellipse":
		cx, cy := num(attrs["cx"]), num(attrs["cy"])
		rx, ry := num(attrs["rx"]), num(attrs["ry"])
		if rx == 0 || ry == 0 {
			return shape{}, Rect{}, false
		}
		sp = flattenEllipse(cx, cy, rx, ry)
	case "path":
		subs := parsePathData(attrs["d"])
		if len(subs) == 0 {
			return shape{}, Rect{}, false
		}
		return buildShape(subs, attrs, xf)
	case "line":
		x1, y1 := num(attrs["x1"]), num(attrs["y1"])
		x2, y2 := num(attrs["x2"]), num(attrs["y2"])
		sp = subpath{points: []point{{X: x1, Y: y1}, {X: x2, Y: y2}}}
	case "polygon", "polyline":
		pts := parsePointList(attrs["points"])
		if len(pts) < 2 {
			return shape{}, Rect{}, false
		}
		sp = subpath{points: pts, closed: tag == "polygon"}
	default:
		return shape{}, Rect{}, false
	}
	return buildShape([]subpath{sp}, attrs, xf)
}

func buildShape(subs []subpath, attrs map[string]string, xf matrix) (shape, Rect, bool) {
	transformed := make([]subpath, len(subs))
	minX, minY := maxFloat, maxFloat
	maxX, maxY := -maxFloat, -maxFloat
	for i, sp := range subs {
		pts := make([]point, len(sp.points))
		for j, p := range sp.points {
			x, y := xf.apply(p.X, p.Y)
			pts[j] = point{X: x, Y: y}
			minX, maxX = minF(minX, x), maxF(maxX, x)
			minY, maxY = minF(minY, y), maxF(maxY, y)
		}
		transformed[i] = subpath{points: pts, closed: sp.closed}
	}
	sh := shape{
		subpaths: transformed,
		class:    attrs["class"],
		fill:     fillValue(attrs),
		id:       attrs["id"],
	}
	return sh, Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY, Valid: true}, true
}

const maxFloat = 1e18

func fillValue(attrs map[string]string) string {
	if style, ok := attrs["style"]; ok {
		for _, decl := range strings.Split(style, ";") {
			k, v, ok := strings.Cut(decl, ":")
			if ok && strings.TrimSpace(k) == "fill" {
				return strings.TrimSpace(v)
			}
		}
	}
	if v, ok := attrs["fill"]; ok {
		return v
	}
	return ""
}

func num(v string) float64 {
	v = strings.TrimSpace(v)
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

func parsePointList(v string) []point {
	nums := parseFloats(v)
	pts := make([]point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, point{X: nums[i], Y: nums[i+1]})
	}
	return pts
}

// parseStyleRules scans a <style> element's CSS text for simple
// `.ClassName { fill: #rrggbb; }` or `.ClassName { color: #rrggbb; }`
// rules (the generated color-scheme style sheets use `color`) and records
// the first fill or color value of each class into rules, keyed by the
// class name without its leading dot.
func parseStyleRules(css string, rules map[string]string) {
	for len(css) > 0 {
		open := strings.IndexByte(css, '{')
		if open < 0 {
			break
		}
		selector := strings.TrimSpace(css[:open])
		close := strings.IndexByte(css[open:], '}')
		if close < 0 {
			break
		}
		body := css[open+1 : open+close]
		css = css[open+close+1:]

		if !strings.HasPrefix(selector, ".") {
			continue
		}
		class := strings.TrimPrefix(selector, ".")
		for _, decl := range strings.Split(body, ";") {
			k, v, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			prop := strings.TrimSpace(k)
			if prop == "fill" || prop == "color" {
				rules[class] = strings.TrimSpace(v)
				break
			}
		}
	}
}

// resolveClassFills walks every shape in the parsed document, filling
// in shape.fill from the class-keyed style rules wherever the shape did
// not specify a direct fill of its own.
func resolveClassFills(doc *Document, rules map[string]string) {
	apply := func(sh *shape) {
		if sh.fill != "" || sh.class == "" {
			return
		}
		if v, ok := rules[sh.class]; ok {
			sh.fill = v
		}
	}
	for i := range doc.root {
		apply(&doc.root[i])
	}
	for _, el := range doc.elements {
		for i := range el.shapes {
			apply(&el.shapes[i])
		}
	}
}

// parseColor resolves an SVG/CSS color string to a color.RGBA. Supports
// #rgb, #rrggbb, #rrggbbaa, rgb()/rgba(), and the handful of named
// colors desktop icon sets actually use. Unparseable or "none" values
// return ok=false so callers can skip painting the shape.
func parseColor(v string) (color.RGBA, bool) {
	v = strings.TrimSpace(v)
	switch v {
	case "", "none", "transparent":
		return color.RGBA{}, false
	case "currentColor":
		return color.RGBA{}, false
	}
	if named, ok := namedColors[v]; ok {
		return named, true
	}
	if strings.HasPrefix(v, "#") {
		return parseHexColor(v)
	}
	if strings.HasPrefix(v, "rgb") {
		return parseRGBFunc(v)
	}
	return color.RGBA{}, false
}

func parseHexColor(v string) (color.RGBA, bool) {
	h := strings.TrimPrefix(v, "#")
	expand := func(c byte) byte {
		n, err := strconv.ParseUint(string([]byte{c, c}), 16, 8)
		if err != nil {
			return 0
		}
		return byte(n)
	}
	byteOf := func(h string) byte {
		n, err := strconv.ParseUint(h, 16, 8)
		if err != nil {
			return 0
		}
		return byte(n)
	}
	switch len(h) {
	case 3:
		return color.RGBA{R: expand(h[0]), G: expand(h[1]), B: expand(h[2]), A: 255}, true
	case 4:
		return color.RGBA{R: expand(h[0]), G: expand(h[1]), B: expand(h[2]), A: expand(h[3])}, true
	case 6:
		return color.RGBA{R: byteOf(h[0:2]), G: byteOf(h[2:4]), B: byteOf(h[4:6]), A: 255}, true
	case 8:
		return color.RGBA{R: byteOf(h[0:2]), G: byteOf(h[2:4]), B: byteOf(h[4:6]), A: byteOf(h[6:8])}, true
	}
	return color.RGBA{}, false
}

func parseRGBFunc(v string) (color.RGBA, bool) {
	open := strings.IndexByte(v, '(')
	close := strings.IndexByte(v, ')')
	if open < 0 || close < 0 || close < open {
		return color.RGBA{}, false
	}
	parts := strings.Split(v[open+1:close], ",")
	if len(parts) < 3 {
		return color.RGBA{}, false
	}
	get := func(i int) byte {
		n, _ := strconv.Atoi(strings.TrimSpace(parts[i]))
		if n < 0 {
			n = 0
		}
		if n > 255 {
			n = 255
		}
		return byte(n)
	}
	a := byte(255)
	if len(parts) > 3 {
		f, _ := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		a = byte(f * 255)
	}
	return color.RGBA{R: get(0), G: get(1), B: get(2), A: a}, true
}

var namedColors = map[string]color.RGBA{
	"black": {A: 255},
	"white": {R: 255, G: 255, B: 255, A: 255},
	"red":   {R: 255, A: 255},
	"green": {G: 128, A: 255},
	"blue":  {B: 255, A: 255},
}
