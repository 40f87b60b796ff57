// Package renderer implements the SVG Renderer Pool of spec.md §4.3: it
// deduplicates parsed SVG documents across every consumer sharing a
// (theme, path, style sheet) triple, applying `current-color-scheme`
// style substitution at load time and reference-counting the result.
//
// The refcounted acquire/release shape is grounded on the teacher's
// plugin executor lifecycle (internal/plugin/executor.Executor, which
// is itself a pooled, reference-managed out-of-process resource);
// structured logging follows the teacher's hclog usage throughout
// internal/plugin.
package renderer

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"hash/crc32"
	"image"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/kdeframe/plasmasvg/internal/engineerr"
	"github.com/kdeframe/plasmasvg/internal/rasterize"
	"github.com/kdeframe/plasmasvg/internal/renderpane"
)

// SharedRenderer is a parsed, style-applied SVG document shared by every
// consumer requesting the same (theme, path, style sheet). It is
// immutable after construction; callers must not mutate its Document or
// Raw.
type SharedRenderer struct {
	Document *rasterize.Document
	Raw      []byte // color-substituted document bytes, kept for the renderpane Backend
	Path     string
	refs     int
}

// poolKey is the Renderer Pool's cache key. Per spec.md §9 Open
// Question (a), the source engine keys only on the style-sheet
// checksum, which can collide across two themes that happen to share a
// palette; this implementation additionally tags the key with the
// theme name to avoid that collision defensively.
type poolKey struct {
	theme    string
	checksum uint32
	path     string
}

// Pool deduplicates SharedRenderer construction across consumers. Not
// safe for concurrent use without external synchronization, matching
// spec.md §8's single-owner policy for in-process pools.
type Pool struct {
	logger  hclog.Logger
	entries map[poolKey]*SharedRenderer
	backend renderpane.Backend
}

// New builds an empty Renderer Pool using the in-process rasterizer.
func New(logger hclog.Logger) *Pool {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Pool{
		logger:  logger.Named("renderer-pool"),
		entries: map[poolKey]*SharedRenderer{},
		backend: renderpane.InProcess{},
	}
}

// SetBackend swaps the rasterization backend, e.g. to an
// renderpane.External wrapping an out-of-process plugin. Passing nil
// restores the in-process default.
func (p *Pool) SetBackend(b renderpane.Backend) {
	if b == nil {
		b = renderpane.InProcess{}
	}
	p.backend = b
}

// Render rasterizes elementID (or the whole document if empty) from
// sr at the given pixel size, via the pool's configured Backend.
func (p *Pool) Render(ctx context.Context, sr *SharedRenderer, elementID string, width, height int) (*image.RGBA, error) {
	resp, err := p.backend.Render(ctx, renderpane.RenderRequest{
		Document: sr.Raw,
		Element:  elementID,
		Width:    width,
		Height:   height,
	})
	if err != nil {
		return nil, engineerr.New(engineerr.KindParseFailure, sr.Path, err)
	}
	img := image.NewRGBA(image.Rect(0, 0, resp.Width, resp.Height))
	copy(img.Pix, resp.Pix)
	return img, nil
}

// Acquire returns the SharedRenderer for (theme, path, styleSheetCSS),
// parsing and loading it on first request and incrementing its
// reference count on every call, including this one. Callers must call
// Release exactly once per successful Acquire.
func (p *Pool) Acquire(theme, path, styleSheetCSS string) (*SharedRenderer, error) {
	checksum := crc32.ChecksumIEEE([]byte(styleSheetCSS))
	key := poolKey{theme: theme, checksum: checksum, path: path}

	if sr, ok := p.entries[key]; ok {
		sr.refs++
		return sr, nil
	}

	doc, raw, err := load(path, styleSheetCSS)
	if err != nil {
		p.logger.Warn("discarding renderer after parse failure", "path", path, "error", err)
		return nil, err
	}

	sr := &SharedRenderer{Document: doc, Raw: raw, Path: path, refs: 1}
	p.entries[key] = sr
	p.logger.Debug("loaded renderer", "path", path, "theme", theme, "checksum", checksum)
	return sr, nil
}

// Release drops one reference to sr. When the last reference is
// dropped, the entry is removed from the pool.
func (p *Pool) Release(theme, path, styleSheetCSS string, sr *SharedRenderer) {
	if sr == nil {
		return
	}
	checksum := crc32.ChecksumIEEE([]byte(styleSheetCSS))
	key := poolKey{theme: theme, checksum: checksum, path: path}

	sr.refs--
	if sr.refs <= 0 {
		delete(p.entries, key)
		p.logger.Debug("evicted renderer", "path", path)
	}
}

// Len reports the number of distinct (theme, path, style sheet) entries
// currently held, used by invariant checks and tests (spec.md §9
// invariant 2: at most one entry per (checksum, path)).
func (p *Pool) Len() int { return len(p.entries) }

// load reads path (transparently decompressing a .svgz), substitutes
// the `current-color-scheme` style element's text with styleSheetCSS
// when the sentinel id is present, and parses the result.
func load(path, styleSheetCSS string) (*rasterize.Document, []byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path resolved by the Path Resolver against configured theme trees
	if err != nil {
		return nil, nil, engineerr.New(engineerr.KindAssetNotFound, path, err)
	}

	raw, err := decompressIfGzip(data)
	if err != nil {
		return nil, nil, engineerr.New(engineerr.KindParseFailure, path, err)
	}

	if bytes.Contains(raw, []byte(rasterize.HintCurrentColorScheme)) {
		substituted, err := substituteColorScheme(raw, styleSheetCSS)
		if err != nil {
			return nil, nil, engineerr.New(engineerr.KindParseFailure, path, err)
		}
		raw = substituted
	}

	doc, err := rasterize.Parse(raw)
	if err != nil {
		return nil, nil, engineerr.New(engineerr.KindParseFailure, path, err)
	}
	return doc, raw, nil
}

// substituteColorScheme locates `<style id="current-color-scheme">`
// within raw and replaces its text content with a CDATA section
// containing css, matching spec.md §4.3's load procedure exactly.
func substituteColorScheme(raw []byte, css string) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var out bytes.Buffer
	enc := xml.NewEncoder(&out)

	inTarget := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "style" {
				for _, a := range t.Attr {
					if a.Name.Local == "id" && a.Value == rasterize.HintCurrentColorScheme {
						inTarget = true
					}
				}
			}
			if err := enc.EncodeToken(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if inTarget {
				continue // dropped; replaced by the CDATA directive below
			}
			if err := enc.EncodeToken(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == "style" && inTarget {
				if err := enc.EncodeToken(xml.Directive("[CDATA[" + css + "]]")); err != nil {
					return nil, err
				}
				inTarget = false
			}
			if err := enc.EncodeToken(t); err != nil {
				return nil, err
			}
		default:
			if err := enc.EncodeToken(t); err != nil {
				return nil, err
			}
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("re-encoding substituted style sheet: %w", err)
	}
	return out.Bytes(), nil
}
