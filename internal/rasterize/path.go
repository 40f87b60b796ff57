package rasterize

import (
	"math"
	"strconv"
)

// point is a document-space coordinate after transform flattening.
type point struct{ X, Y float64 }

// subpath is one contiguous flattened polyline; closed subpaths repeat
// their first point as their last so the rasterizer fills them without
// a seam.
type subpath struct {
	points []point
	closed bool
}

// shape is one drawable primitive: a filled region described by one or
// more subpaths, already transformed into document coordinates, plus
// the styling hints needed to resolve its paint color at raster time.
type shape struct {
	subpaths []subpath
	class    string // `class="..."` attribute, matched against parsed <style> rules
	fill     string // direct fill="..." or style="fill:..." value, takes priority over class
	id       string
}

// curveSegments is the fixed subdivision count used when flattening
// cubic/quadratic beziers and elliptical arcs into line segments.
const curveSegments = 16

// pathCursor tracks state while walking an SVG path data string: the
// current point, the subpath being built, and the starting point of the
// current subpath (for Z/z).
type pathCursor struct {
	cur, start point
	subpaths   []subpath
	current    []point
	started    bool
}

func (c *pathCursor) moveTo(p point) {
	c.flush(false)
	c.cur, c.start = p, p
	c.current = []point{p}
	c.started = true
}

func (c *pathCursor) lineTo(p point) {
	c.cur = p
	c.current = append(c.current, p)
}

func (c *pathCursor) cubicTo(c1, c2, end point) {
	p0 := c.cur
	for i := 1; i <= curveSegments; i++ {
		t := float64(i) / curveSegments
		c.current = append(c.current, cubicBezierPoint(p0, c1, c2, end, t))
	}
	c.cur = end
}

func (c *pathCursor) quadTo(ctrl, end point) {
	p0 := c.cur
	for i := 1; i <= curveSegments; i++ {
		t := float64(i) / curveSegments
		c.current = append(c.current, quadBezierPoint(p0, ctrl, end, t))
	}
	c.cur = end
}

func (c *pathCursor) closePath() {
	if len(c.current) > 0 {
		c.current = append(c.current, c.start)
	}
	c.flush(true)
	c.cur = c.start
}

func (c *pathCursor) flush(closed bool) {
	if len(c.current) > 1 {
		c.subpaths = append(c.subpaths, subpath{points: c.current, closed: closed})
	}
	c.current = nil
}

func cubicBezierPoint(p0, p1, p2, p3 point, t float64) point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	return point{
		X: a*p0.X + b*p1.X + cc*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + cc*p2.Y + d*p3.Y,
	}
}

func quadBezierPoint(p0, p1, p2 point, t float64) point {
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	c := t * t
	return point{X: a*p0.X + b*p1.X + c*p2.X, Y: a*p0.Y + b*p1.Y + c*p2.Y}
}

// parsePathData parses a minimal subset of SVG path data: M/m, L/l,
// H/h, V/v, C/c, Q/q, Z/z. A/a (elliptical arcs) are approximated as a
// straight line to the arc's endpoint — real desktop icon sets use
// arcs sparingly for small corner roundings where the approximation is
// visually negligible.
func parsePathData(d string) []subpath {
	toks := tokenizePath(d)
	cur := &pathCursor{}
	i := 0
	var cmd byte
	for i < len(toks) {
		t := toks[i]
		if isPathCommand(t) {
			cmd = t[0]
			i++
		}
		switch cmd {
		case 'M', 'm':
			x, y := readNum(toks, &i), readNum(toks, &i)
			p := point{X: x, Y: y}
			if cmd == 'm' && cur.started {
				p = point{X: cur.cur.X + x, Y: cur.cur.Y + y}
			}
			cur.moveTo(p)
			cmd = relativeLine(cmd)
		case 'L', 'l':
			x, y := readNum(toks, &i), readNum(toks, &i)
			p := point{X: x, Y: y}
			if cmd == 'l' {
				p = point{X: cur.cur.X + x, Y: cur.cur.Y + y}
			}
			cur.lineTo(p)
		case 'H', 'h':
			x := readNum(toks, &i)
			if cmd == 'h' {
				x += cur.cur.X
			}
			cur.lineTo(point{X: x, Y: cur.cur.Y})
		case 'V', 'v':
			y := readNum(toks, &i)
			if cmd == 'v' {
				y += cur.cur.Y
			}
			cur.lineTo(point{X: cur.cur.X, Y: y})
		case 'C', 'c':
			x1, y1 := readNum(toks, &i), readNum(toks, &i)
			x2, y2 := readNum(toks, &i), readNum(toks, &i)
			x, y := readNum(toks, &i), readNum(toks, &i)
			c1, c2, end := point{X: x1, Y: y1}, point{X: x2, Y: y2}, point{X: x, Y: y}
			if cmd == 'c' {
				base := cur.cur
				c1 = point{X: base.X + x1, Y: base.Y + y1}
				c2 = point{X: base.X + x2, Y: base.Y + y2}
				end = point{X: base.X + x, Y: base.Y + y}
			}
			cur.cubicTo(c1, c2, end)
		case 'Q', 'q':
			x1, y1 := readNum(toks, &i), readNum(toks, &i)
			x, y := readNum(toks, &i), readNum(toks, &i)
			ctrl, end := point{X: x1, Y: y1}, point{X: x, Y: y}
			if cmd == 'q' {
				base := cur.cur
				ctrl = point{X: base.X + x1, Y: base.Y + y1}
				end = point{X: base.X + x, Y: base.Y + y}
			}
			cur.quadTo(ctrl, end)
		case 'A', 'a':
			// rx, ry, x-axis-rotation, large-arc, sweep consumed but unused
			for k := 0; k < 5; k++ {
				readNum(toks, &i)
			}
			x, y := readNum(toks, &i), readNum(toks, &i)
			end := point{X: x, Y: y}
			if cmd == 'a' {
				end = point{X: cur.cur.X + x, Y: cur.cur.Y + y}
			}
			cur.lineTo(end)
		case 'Z', 'z':
			cur.closePath()
		default:
			i++
		}
	}
	cur.flush(false)
	return cur.subpaths
}

func relativeLine(cmd byte) byte {
	if cmd == 'm' {
		return 'l'
	}
	return 'L'
}

func isPathCommand(tok string) bool {
	if len(tok) != 1 {
		return false
	}
	switch tok[0] {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'Q', 'q', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

func readNum(toks []string, i *int) float64 {
	if *i >= len(toks) {
		return 0
	}
	v, _ := strconv.ParseFloat(toks[*i], 64)
	*i++
	return v
}

// tokenizePath splits SVG path data into command letters and numbers,
// handling the format's permissive separators (commas, whitespace, and
// numbers packed with no separator at all, e.g. "10-5" meaning 10, -5).
func tokenizePath(d string) []string {
	var toks []string
	i := 0
	for i < len(d) {
		c := d[i]
		switch {
		case isPathCommand(string(c)):
			toks = append(toks, string(c))
			i++
		case c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			start := i
			i++
			for i < len(d) && (d[i] == '.' || (d[i] >= '0' && d[i] <= '9') || d[i] == 'e' || d[i] == 'E' ||
				((d[i] == '-' || d[i] == '+') && (d[i-1] == 'e' || d[i-1] == 'E'))) {
				i++
			}
			toks = append(toks, d[start:i])
		default:
			i++
		}
	}
	return toks
}

// flattenEllipse returns a closed subpath approximating an ellipse or
// circle centered at (cx, cy) with radii rx, ry.
func flattenEllipse(cx, cy, rx, ry float64) subpath {
	pts := make([]point, 0, curveSegments*2+1)
	const n = curveSegments * 2
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / n
		pts = append(pts, point{X: cx + rx*math.Cos(theta), Y: cy + ry*math.Sin(theta)})
	}
	return subpath{points: pts, closed: true}
}

// flattenRect returns a closed rectangular subpath with square corners;
// a rect's rx/ry corner radii are not applied.
func flattenRect(x, y, w, h float64) subpath {
	return subpath{
		points: []point{
			{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}, {X: x, Y: y},
		},
		closed: true,
	}
}
