// Package plasmasvg implements the themed SVG rendering and caching
// engine's public surface: the SVG Facade of spec.md §4.7, wired atop
// the Theme Engine, Renderer Pool, Pixmap Cache, and Rects Cache
// implemented under internal/.
package plasmasvg

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync"
	"time"

	"github.com/kdeframe/plasmasvg/internal/colorscheme"
	"github.com/kdeframe/plasmasvg/internal/engineerr"
	"github.com/kdeframe/plasmasvg/internal/pixmapcache"
	"github.com/kdeframe/plasmasvg/internal/rasterize"
	"github.com/kdeframe/plasmasvg/internal/rectscache"
	"github.com/kdeframe/plasmasvg/internal/renderer"
	"github.com/kdeframe/plasmasvg/internal/theme"
)

// PathKind discriminates an ImagePath's two forms (spec.md §3).
type PathKind int

const (
	Absolute PathKind = iota
	Themed
)

// ImagePath is a Facade's target image: either a filesystem path used
// verbatim, or a theme-relative logical name resolved dynamically
// against the current theme.
type ImagePath struct {
	Kind  PathKind
	Value string
}

func AbsolutePath(path string) ImagePath { return ImagePath{Kind: Absolute, Value: path} }
func ThemedPath(name string) ImagePath   { return ImagePath{Kind: Themed, Value: name} }

func (p ImagePath) equal(other ImagePath) bool { return p.Kind == other.Kind && p.Value == other.Value }

// State is the Facade's lifecycle state machine (spec.md §4.7).
type State int

const (
	Unset State = iota
	ValidThemed
	ValidAbsolute
	Invalid
)

func (s State) String() string {
	switch s {
	case Unset:
		return "Unset"
	case ValidThemed:
		return "ValidThemed"
	case ValidAbsolute:
		return "ValidAbsolute"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// colorHint is the result of querying a document's palette-subscription
// contract, exactly one of three states (spec.md §4.7 Color Hints).
type colorHint int

const (
	hintNeither colorHint = iota
	hintAppliesColors
	hintUsesColors
)

// Svg is a per-consumer SVG Facade. The zero value is not usable; build
// one with New.
type Svg struct {
	engine *theme.Engine
	pool   *renderer.Pool

	mu           sync.Mutex
	path         ImagePath
	state        State
	resolvedPath string
	sourceMtime  time.Time

	targetW, targetH float64 // 0,0 means "natural size"
	multiImages      bool

	naturalW, naturalH float64
	hint               colorHint

	localRects *rectscache.LocalCache

	held       *renderer.SharedRenderer
	heldTheme  string
	heldStyle  string

	repaintListeners []func()
}

// New builds a Facade bound to engine's current (global, by default)
// theme and pool, subscribing to engine's theme-change/palette/metadata
// signals so a themed Facade re-resolves and repaints without the
// caller having to wire that up itself (spec.md §2's file watcher ->
// Theme -> invalidate caches -> broadcast change -> Facade re-resolves
// -> repaint control flow). Callers override the theme by constructing
// their own *theme.Engine and passing it here.
func New(engine *theme.Engine, pool *renderer.Pool) *Svg {
	s := &Svg{engine: engine, pool: pool, localRects: rectscache.NewLocal()}
	if engine != nil {
		engine.Subscribe(s.onEngineEvent)
	}
	return s
}

// OnRepaintNeeded registers fn to be called whenever this Facade's
// resolved document or active color hints may have changed underneath
// it, mirroring the repaintNeeded signal of spec.md §6.
func (s *Svg) OnRepaintNeeded(fn func()) {
	s.mu.Lock()
	s.repaintListeners = append(s.repaintListeners, fn)
	s.mu.Unlock()
}

func (s *Svg) notifyRepaint() {
	s.mu.Lock()
	listeners := make([]func(), len(s.repaintListeners))
	copy(listeners, s.repaintListeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// onEngineEvent reacts to a Theme Engine broadcast: it always drops the
// held SharedRenderer (its style sheet may be stale) and, for a themed
// path on a theme switch, re-resolves against the new theme before
// notifying repaintNeeded subscribers.
func (s *Svg) onEngineEvent(ev theme.Event) {
	s.mu.Lock()
	kind := s.path.Kind
	s.releaseHeldLocked()
	s.mu.Unlock()

	if kind == Themed && ev.Kind == theme.ThemeChanged {
		s.resolveAndLoad()
	}
	s.notifyRepaint()
}

// IsValid reports whether the Facade currently resolves to a loadable
// document.
func (s *Svg) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == ValidThemed || s.state == ValidAbsolute
}

// State returns the Facade's current lifecycle state.
func (s *Svg) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetImagePath updates the Facade's target. Returns false without any
// side effect if p is identical (same discriminant and value) to the
// current path (spec.md §4.7 idempotence, invariant 7).
func (s *Svg) SetImagePath(p ImagePath) bool {
	s.mu.Lock()
	if s.path.equal(p) {
		s.mu.Unlock()
		return false
	}
	s.path = p
	s.localRects.Clear()
	s.releaseHeldLocked()
	s.mu.Unlock()

	s.resolveAndLoad()
	return true
}

// ImagePath returns the Facade's current logical path (unresolved: the
// themed name, not the file it resolves to — spec.md S6).
func (s *Svg) ImagePath() ImagePath {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Resize sets the Facade's target render size. Calling it with (0, 0)
// restores the natural (unscaled) size.
func (s *Svg) Resize(width, height float64) {
	s.mu.Lock()
	s.targetW, s.targetH = width, height
	s.localRects.Clear()
	s.mu.Unlock()
}

// SetContainsMultipleImages toggles multi-image mode: when set and a
// target size has been given with Resize, Pixmap and Paint render at the
// Facade's target size instead of an element's intrinsic size (spec.md
// §4.7). ElementSize and ElementRect still report the element's natural
// rectangle.
func (s *Svg) SetContainsMultipleImages(v bool) {
	s.mu.Lock()
	s.multiImages = v
	s.mu.Unlock()
}

// NaturalSize returns the document's unscaled default size.
func (s *Svg) NaturalSize() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.naturalW, s.naturalH
}

// HasElement reports whether id names a sub-element of the current
// document.
func (s *Svg) HasElement(id string) bool {
	r := s.ElementRect(id)
	return r.Valid
}

// ElementSize returns the width/height of the named element's natural
// bounding rectangle.
func (s *Svg) ElementSize(id string) (float64, float64) {
	r := s.ElementRect(id)
	return r.W, r.H
}

// ElementRect resolves id's natural bounding rectangle, consulting the
// local cache, then the persistent Rects Cache, then forcing a renderer
// load on a full miss (spec.md §4.7).
func (s *Svg) ElementRect(id string) rectscache.Rect {
	s.mu.Lock()
	path := s.resolvedPath
	state := s.state
	s.mu.Unlock()
	if state != ValidThemed && state != ValidAbsolute {
		return rectscache.Rect{}
	}

	if r, ok := s.localRects.Get(id, 0, 0); ok {
		return r
	}
	if s.engine != nil {
		if r, ok := s.engine.Rects().Find(path, id, 0, 0); ok {
			s.localRects.Put(id, 0, 0, r)
			return r
		}
	}

	sr, _, err := s.acquireRenderer()
	if err != nil || sr == nil {
		return rectscache.Rect{}
	}
	rr := sr.Document.ElementRect(id)
	if !rr.Valid {
		return rectscache.Rect{}
	}
	out := rectscache.Rect{X: rr.X, Y: rr.Y, W: rr.W, H: rr.H, Valid: true}
	s.localRects.Put(id, 0, 0, out)
	if s.engine != nil {
		_ = s.engine.Rects().Insert(path, id, 0, 0, out)
	}
	return out
}

// Pixmap renders elementID (or the whole document if empty) at the
// Facade's current target size, consulting the Pixmap Cache first.
func (s *Svg) Pixmap(elementID string) (*image.RGBA, error) {
	s.mu.Lock()
	state := s.state
	path := s.resolvedPath
	mtime := s.sourceMtime
	multi := s.multiImages
	targetW, targetH := s.targetW, s.targetH
	hint := s.hint
	s.mu.Unlock()

	if state != ValidThemed && state != ValidAbsolute {
		return nil, engineerr.New(engineerr.KindAssetNotFound, path, fmt.Errorf("facade is not valid"))
	}

	sr, th, err := s.acquireRenderer()
	if err != nil {
		return nil, err
	}

	width, height := s.renderSize(sr, elementID, multi, targetW, targetH)
	checksum := s.styleChecksum(th)
	key := pixmapcache.Key{Path: path, Width: width, Height: height, Element: elementID, StyleSheetChecksum: checksum}

	if s.engine != nil {
		if entry, ok := s.engine.Pixmaps().Find(key, mtime); ok {
			return entry.Image, nil
		}
	}

	img, err := s.pool.Render(context.Background(), sr, elementID, width, height)
	if err != nil {
		return nil, err
	}

	if hint == hintAppliesColors && th != nil && th.Colors != nil {
		img = rasterize.Tint(img, toColor(th.Colors.Get(colorscheme.Normal, colorscheme.Background)))
	}

	if s.engine != nil {
		s.engine.Pixmaps().Insert(key, pixmapcache.Entry{Image: img, SourceMtime: mtime})
	}
	return img, nil
}

// Paint draws the Facade's current pixmap for elementID into dst at
// target. A no-op (leaving dst unchanged) when Invalid or Unset.
func (s *Svg) Paint(dst draw.Image, target image.Rectangle, elementID string) error {
	if !s.IsValid() {
		return nil
	}
	img, err := s.Pixmap(elementID)
	if err != nil {
		return nil // paint is a no-op on failure, per spec.md §7
	}
	draw.Draw(dst, target, img, image.Point{}, draw.Over)
	return nil
}

// Close releases this Facade's held SharedRenderer reference. Safe to
// call multiple times.
func (s *Svg) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseHeldLocked()
}

func (s *Svg) releaseHeldLocked() {
	if s.held == nil || s.pool == nil {
		s.held = nil
		return
	}
	s.pool.Release(s.heldTheme, s.resolvedPath, s.heldStyle, s.held)
	s.held = nil
}

// resolveAndLoad resolves the current path (absolute verbatim, themed
// via the Theme Engine's Path Resolver), classifies the state, captures
// the source mtime, and probes color hints + natural size.
func (s *Svg) resolveAndLoad() {
	s.mu.Lock()
	p := s.path
	s.mu.Unlock()

	var resolved string
	var nextState State
	switch p.Kind {
	case Absolute:
		resolved = p.Value
		nextState = ValidAbsolute
	case Themed:
		if s.engine != nil {
			current := s.engine.Current()
			themeName := ""
			if current != nil {
				themeName = current.Name
			}
			resolved = s.engine.Resolver().Resolve(themeName, p.Value+".svg")
			if resolved == "" {
				resolved = s.engine.Resolver().Resolve(themeName, p.Value+".svgz")
			}
		}
		nextState = ValidThemed
	}

	if resolved == "" {
		s.mu.Lock()
		s.state, s.resolvedPath = Invalid, ""
		s.mu.Unlock()
		return
	}

	info, err := os.Stat(resolved)
	if err != nil {
		s.mu.Lock()
		s.state, s.resolvedPath = Invalid, ""
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.state = nextState
	s.resolvedPath = resolved
	s.sourceMtime = info.ModTime()
	s.mu.Unlock()

	sr, _, err := s.acquireRenderer()
	if err != nil || sr == nil {
		return
	}
	s.mu.Lock()
	s.naturalW, s.naturalH = sr.Document.NaturalW, sr.Document.NaturalH
	switch {
	case sr.Document.AppliesColorHint():
		s.hint = hintAppliesColors
	case sr.Document.UsesColorScheme():
		s.hint = hintUsesColors
	default:
		s.hint = hintNeither
	}
	s.mu.Unlock()
}

// acquireRenderer acquires (or reuses) this Facade's SharedRenderer for
// its current resolved path and the active theme's current style
// sheet, releasing any previously held renderer whose style has since
// gone stale.
func (s *Svg) acquireRenderer() (*renderer.SharedRenderer, *theme.Theme, error) {
	s.mu.Lock()
	path := s.resolvedPath
	s.mu.Unlock()
	if path == "" {
		return nil, nil, engineerr.New(engineerr.KindAssetNotFound, path, fmt.Errorf("no resolved path"))
	}

	var th *theme.Theme
	themeName := theme.InternalSystemColors
	var css string
	if s.engine != nil {
		th = s.engine.Current()
		if th != nil {
			themeName = th.Name
			if th.Styles != nil {
				css = th.Styles.Get(colorscheme.Normal, colorscheme.StatusNormal, colorscheme.FontToken{}).CSS
			}
		}
	}

	s.mu.Lock()
	if s.held != nil && s.heldTheme == themeName && s.heldStyle == css {
		sr := s.held
		s.mu.Unlock()
		return sr, th, nil
	}
	prevHeld, prevTheme, prevStyle, prevPath := s.held, s.heldTheme, s.heldStyle, path
	s.mu.Unlock()

	if s.pool == nil {
		return nil, th, engineerr.New(engineerr.KindCacheUnavailable, path, fmt.Errorf("no renderer pool configured"))
	}
	sr, err := s.pool.Acquire(themeName, path, css)
	if err != nil {
		return nil, th, err
	}

	if prevHeld != nil {
		s.pool.Release(prevTheme, prevPath, prevStyle, prevHeld)
	}

	s.mu.Lock()
	s.held, s.heldTheme, s.heldStyle = sr, themeName, css
	s.mu.Unlock()
	return sr, th, nil
}

// renderSize computes the pixel size a render should target: the
// caller's target size in multi-image mode, else the element's (or
// whole document's) intrinsic size scaled to the Facade's target.
func (s *Svg) renderSize(sr *renderer.SharedRenderer, elementID string, multi bool, targetW, targetH float64) (int, int) {
	if multi && targetW > 0 && targetH > 0 {
		return int(targetW), int(targetH)
	}
	if elementID == "" {
		w, h := targetW, targetH
		if w == 0 || h == 0 {
			w, h = sr.Document.NaturalW, sr.Document.NaturalH
		}
		return int(w), int(h)
	}
	rect := sr.Document.ElementRect(elementID)
	if !rect.Valid {
		return 0, 0
	}
	scale := 1.0
	if sr.Document.NaturalW > 0 && targetW > 0 {
		scale = targetW / sr.Document.NaturalW
	}
	_, _, w, h := rasterize.MakeUniform(rect, scale)
	return w, h
}

func (s *Svg) styleChecksum(th *theme.Theme) uint32 {
	if th == nil || th.Styles == nil {
		return 0
	}
	return th.Styles.Get(colorscheme.Normal, colorscheme.StatusNormal, colorscheme.FontToken{}).Checksum()
}

func toColor(c colorscheme.RGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
