package rasterize

import (
	"math"
	"strconv"
	"strings"
)

// matrix is a 2D affine transform [a c e; b d f; 0 0 1], the same layout
// SVG's transform="matrix(a,b,c,d,e,f)" uses.
type matrix struct {
	a, b, c, d, e, f float64
}

func identity() matrix { return matrix{a: 1, d: 1} }

func (m matrix) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

// multiply returns the transform that applies m first, then other.
func (m matrix) multiply(other matrix) matrix {
	return matrix{
		a: other.a*m.a + other.c*m.b,
		b: other.b*m.a + other.d*m.b,
		c: other.a*m.c + other.c*m.d,
		d: other.b*m.c + other.d*m.d,
		e: other.a*m.e + other.c*m.f + other.e,
		f: other.b*m.e + other.d*m.f + other.f,
	}
}

// parseTransform parses a (possibly chained) SVG transform attribute.
// Supported functions: translate, scale, matrix, rotate (degrees about
// the origin). Unrecognized functions are skipped, leaving the running
// transform unaffected rather than aborting the whole parse.
func parseTransform(value string) matrix {
	m := identity()
	value = strings.TrimSpace(value)
	for len(value) > 0 {
		open := strings.IndexByte(value, '(')
		if open < 0 {
			break
		}
		name := strings.TrimSpace(value[:open])
		close := strings.IndexByte(value[open:], ')')
		if close < 0 {
			break
		}
		argsStr := value[open+1 : open+close]
		args := parseFloats(argsStr)
		value = strings.TrimSpace(value[open+close+1:])

		switch name {
		case "translate":
			tx, ty := arg(args, 0), arg(args, 1)
			m = m.multiply(matrix{a: 1, d: 1, e: tx, f: ty})
		case "scale":
			sx := arg(args, 0)
			sy := sx
			if len(args) > 1 {
				sy = args[1]
			}
			m = m.multiply(matrix{a: sx, d: sy})
		case "matrix":
			if len(args) == 6 {
				m = m.multiply(matrix{a: args[0], b: args[1], c: args[2], d: args[3], e: args[4], f: args[5]})
			}
		case "rotate":
			rad := arg(args, 0) * math.Pi / 180
			cos, sin := math.Cos(rad), math.Sin(rad)
			m = m.multiply(matrix{a: cos, b: sin, c: -sin, d: cos})
		}
	}
	return m
}

func arg(args []float64, i int) float64 {
	if i < len(args) {
		return args[i]
	}
	return 0
}

func parseFloats(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err == nil {
			out = append(out, v)
		}
	}
	return out
}
