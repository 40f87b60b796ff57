package rasterize

import (
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse parses raw SVG bytes into a Document. Callers that may be
// handed a gzip-compressed .svgz file should use ParseAutoDecompress
// instead.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	p := &docParser{
		dec:      dec,
		elements: map[string]*Element{},
		styles:   map[string]string{},
	}
	if err := p.run(); err != nil {
		return nil, fmt.Errorf("parsing SVG: %w", err)
	}
	doc := &Document{
		NaturalW:          p.naturalW,
		NaturalH:          p.naturalH,
		root:              p.rootShapes,
		elements:          p.elements,
		order:             p.order,
		hasCurrentScheme:  p.hasCurrentScheme,
		hasApplyColorHint: p.hasApplyColorHint,
	}
	resolveClassFills(doc, p.styles)
	return doc, nil
}

// ParseAutoDecompress transparently decompresses a gzip-wrapped .svgz
// payload (detected by magic number) before parsing, the same
// transparent handling spec.md §4.3 requires of the Renderer Pool.
func ParseAutoDecompress(data []byte) (*Document, error) {
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("opening svgz: %w", err)
		}
		defer gr.Close()
		raw, err := io.ReadAll(gr)
		if err != nil {
			return nil, fmt.Errorf("decompressing svgz: %w", err)
		}
		return Parse(raw)
	}
	return Parse(data)
}

// docParser walks the XML token stream once, accumulating flattened
// shapes, named elements, natural size, and any <style> rule text.
type docParser struct {
	dec      *xml.Decoder
	naturalW float64
	naturalH float64

	rootShapes []shape
	elements   map[string]*Element
	order      []string
	styles     map[string]string // class name without its dot (e.g. "ColorScheme-Text") -> fill color

	hasCurrentScheme  bool
	hasApplyColorHint bool

	transformStack []matrix
}

func (p *docParser) run() error {
	p.transformStack = []matrix{identity()}
	var elementStack []*Element

	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			local := t.Name.Local
			attrs := attrMap(t.Attr)
			id := attrs["id"]

			switch local {
			case "svg":
				p.naturalW, p.naturalH = parseDimension(attrs["width"]), parseDimension(attrs["height"])
				if vb, ok := attrs["viewBox"]; ok {
					if w, h, ok := viewBoxSize(vb); ok {
						if p.naturalW == 0 {
							p.naturalW = w
						}
						if p.naturalH == 0 {
							p.naturalH = h
						}
					}
				}
			case "style":
				text, err := p.readCharData()
				if err != nil {
					return err
				}
				if id == HintCurrentColorScheme {
					p.hasCurrentScheme = true
				}
				parseStyleRules(text, p.styles)
				continue
			}

			top := p.transformStack[len(p.transformStack)-1]
			if tr, ok := attrs["transform"]; ok {
				top = top.multiply(parseTransform(tr))
			}
			p.transformStack = append(p.transformStack, top)

			if id == HintApplyColorScheme {
				p.hasApplyColorHint = true
			}

			var el *Element
			if local != "svg" && local != "defs" && local != "style" {
				// Every element gets a stack entry, named or not, so shapes
				// and bounds of unnamed descendants still reach a named
				// ancestor; a group-like element (e.g. <g>) with no direct
				// geometry of its own accumulates its bounds from them.
				el = &Element{ID: id, Tag: local}
				if sh, bounds, ok := shapeFromElement(local, attrs, top); ok {
					p.rootShapes = append(p.rootShapes, sh)
					el.X, el.Y, el.W, el.H = bounds.X, bounds.Y, bounds.W, bounds.H
					el.shapes = append(el.shapes, sh)
				}
			}
			if el != nil && el.ID != "" {
				if _, exists := p.elements[el.ID]; !exists {
					p.order = append(p.order, el.ID)
				}
				p.elements[el.ID] = el
			}
			elementStack = append(elementStack, el)

		case xml.EndElement:
			if len(p.transformStack) > 1 {
				p.transformStack = p.transformStack[:len(p.transformStack)-1]
			}
			if len(elementStack) > 0 {
				closing := elementStack[len(elementStack)-1]
				elementStack = elementStack[:len(elementStack)-1]
				if closing != nil && len(elementStack) > 0 {
					propagateBounds(elementStack[len(elementStack)-1], closing)
				}
			}
		}
	}
	return nil
}

func propagateBounds(parent, child *Element) {
	if parent == nil || child == nil {
		return
	}
	parent.shapes = append(parent.shapes, child.shapes...)
	if child.W == 0 && child.H == 0 {
		return
	}
	if parent.W == 0 && parent.H == 0 {
		parent.X, parent.Y, parent.W, parent.H = child.X, child.Y, child.W, child.H
		return
	}
	x0 := minF(parent.X, child.X)
	y0 := minF(parent.Y, child.Y)
	x1 := maxF(parent.X+parent.W, child.X+child.W)
	y1 := maxF(parent.Y+parent.H, child.Y+child.H)
	parent.X, parent.Y, parent.W, parent.H = x0, y0, x1-x0, y1-y0
}

func (p *docParser) readCharData() (string, error) {
	var b strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

func parseDimension(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

func viewBoxSize(v string) (w, h float64, ok bool) {
	parts := parseFloats(v)
	if len(parts) != 4 {
		return 0, 0, false
	}
	return parts[2], parts[3], true
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
