package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kdeframe/plasmasvg/internal/colorscheme"
	"github.com/kdeframe/plasmasvg/internal/engineerr"
	"github.com/kdeframe/plasmasvg/internal/pixmapcache"
	"github.com/kdeframe/plasmasvg/internal/rectscache"
	"github.com/kdeframe/plasmasvg/internal/resolver"
)

// EventKind identifies which of the Theme Engine's four signals fired
// (spec.md §4.6 / §6 "Signals / API surface").
type EventKind int

const (
	ThemeChanged EventKind = iota
	ApplicationPaletteChange
	IconThemePathChanged
	MetadataChanged
)

// Event is broadcast to every Engine listener on a state change.
type Event struct {
	Kind  EventKind
	Theme string
}

// Engine owns the current theme, the Path Resolver, and the shared
// Pixmap/Rects caches, and debounces the themeChanged signal as
// spec.md §4.6/§5 require.
type Engine struct {
	base       string
	dataDirs   []string
	cacheDir   string
	logger     hclog.Logger
	resolver   *resolver.Resolver
	pixmaps    *pixmapcache.Cache
	rects      *rectscache.Cache

	mu        sync.Mutex
	current   *Theme
	listeners []func(Event)
	debounce  *time.Timer
}

// debounceDelay is the themeChanged signal's coalescing window
// (spec.md §4.6/§5: ≈100ms, single-shot, reset on re-arming).
const debounceDelay = 100 * time.Millisecond

// New builds an Engine rooted at base (e.g. "desktoptheme") across
// dataDirs, with its Pixmap Cache persisted under cacheDir.
func New(base string, dataDirs []string, cacheDir string, logger hclog.Logger) (*Engine, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	rects, err := rectscache.New(filepath.Join(cacheDir, "rects"))
	if err != nil {
		return nil, err
	}
	return &Engine{
		base:     base,
		dataDirs: dataDirs,
		cacheDir: cacheDir,
		logger:   logger.Named("theme-engine"),
		resolver: resolver.New(base, dataDirs),
		rects:    rects,
	}, nil
}

// Subscribe registers fn to be called on every Engine event.
func (e *Engine) Subscribe(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Current returns the active theme, or nil if SetTheme has never
// succeeded.
func (e *Engine) Current() *Theme {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Resolver exposes the Path Resolver backing this engine, for the SVG
// Facade's path resolution.
func (e *Engine) Resolver() *resolver.Resolver { return e.resolver }

// Pixmaps returns the Pixmap Cache bound to the current theme. SetTheme
// opens it anew on every successful theme switch (and therefore kcache
// file change); before the first successful SetTheme it returns nil.
func (e *Engine) Pixmaps() *pixmapcache.Cache {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pixmaps
}

// Rects returns the process-shared Rects Cache.
func (e *Engine) Rects() *rectscache.Cache { return e.rects }

// SetTheme validates and switches to theme name. On missing metadata it
// falls back to "default"; if that also fails, the engine's current
// theme is left unchanged and an error is returned (spec.md §4.6).
func (e *Engine) SetTheme(name string) error {
	theme, err := e.build(name)
	if err != nil {
		e.logger.Warn("theme not found, falling back to default", "requested", name, "error", err)
		theme, err = e.build("default")
		if err != nil {
			return engineerr.New(engineerr.KindThemeNotFound, name, err)
		}
	}

	if err := e.bindCache(theme); err != nil {
		return err
	}

	e.mu.Lock()
	e.current = theme
	e.mu.Unlock()

	e.resolver.SetTheme(theme.Name, resolver.ThemeInfo{Fallback: theme.FallbackChain})

	e.scheduleThemeChanged(theme.Name)
	return nil
}

// build resolves one theme's metadata, fallback chain, and colors
// without touching the engine's current state, so a failed fallback
// attempt never leaves e.current partially mutated.
func (e *Engine) build(name string) (*Theme, error) {
	if name == InternalSystemColors {
		return &Theme{Name: name, Styles: colorscheme.NewCache(nil)}, nil
	}

	themeDir, err := e.findThemeDir(name)
	if err != nil {
		return nil, err
	}
	meta, err := loadMetadata(themeDir, name)
	if err != nil {
		return nil, err
	}
	colors, err := loadColors(themeDir)
	if err != nil {
		e.logger.Warn("ignoring unparseable colors file", "theme", name, "error", err)
		colors = nil
	}
	chain := buildFallbackChain(func(n string) (Metadata, error) {
		dir, err := e.findThemeDir(n)
		if err != nil {
			return Metadata{}, err
		}
		return loadMetadata(dir, n)
	}, name)

	return &Theme{
		Name:          name,
		BasePath:      themeDir,
		FallbackChain: chain,
		Metadata:      meta,
		Colors:        colors,
		Styles:        colorscheme.NewCache(colors),
	}, nil
}

func (e *Engine) findThemeDir(name string) (string, error) {
	for _, dir := range e.dataDirs {
		candidate := filepath.Join(dir, e.base, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("theme %q not found under any data directory", name)
}

// kcacheFilename builds the on-disk cache filename for a theme,
// embedding its name and API version (spec.md §6).
func kcacheFilename(name string, version Version) string {
	return fmt.Sprintf("plasma_theme_%s_v%s.kcache", name, version)
}

// bindCache opens (or reopens) the Pixmap Cache for theme, deleting any
// stale kcache file left by a previous version of the same theme.
func (e *Engine) bindCache(t *Theme) error {
	version := t.Metadata.APIVersion
	target := kcacheFilename(t.Name, version)

	matches, _ := filepath.Glob(filepath.Join(e.cacheDir, fmt.Sprintf("plasma_theme_%s*.kcache", t.Name)))
	for _, m := range matches {
		if filepath.Base(m) != target {
			_ = os.RemoveAll(m)
		}
	}

	const defaultBudget = 64 * 1024 * 1024
	cache, err := pixmapcache.New(filepath.Join(e.cacheDir, target), defaultBudget)
	if err != nil {
		return engineerr.New(engineerr.KindCacheUnavailable, target, err)
	}

	e.mu.Lock()
	e.pixmaps = cache
	e.mu.Unlock()
	return nil
}

// scheduleThemeChanged coalesces rapid successive SetTheme calls into a
// single broadcast, per spec.md §4.6/§5's 100ms debounce.
func (e *Engine) scheduleThemeChanged(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = time.AfterFunc(debounceDelay, func() { e.broadcast(Event{Kind: ThemeChanged, Theme: name}) })
}

// NotifyPaletteChange drops the current theme's memoized style sheets
// synchronously and then broadcasts ApplicationPaletteChange. It does
// not re-read the theme's ColorScheme and does not clear the Pixmap
// Cache, so the regenerated style sheets use the same colors as before.
func (e *Engine) NotifyPaletteChange() {
	e.mu.Lock()
	current := e.current
	e.mu.Unlock()
	if current != nil && current.Styles != nil {
		current.Styles.Invalidate()
	}
	e.broadcast(Event{Kind: ApplicationPaletteChange})
}

// NotifyMetadataChange invalidates rect/path discoveries for the
// current theme without switching themes, used when a theme's metadata
// file changes or its declared version no longer matches the loaded
// one.
func (e *Engine) NotifyMetadataChange() {
	e.mu.Lock()
	current := e.current
	e.mu.Unlock()
	if current != nil {
		e.resolver.Invalidate(current.Name)
		e.rects.Invalidate(current.BasePath)
	}
	e.broadcast(Event{Kind: MetadataChanged})
}

// NotifyIconThemePathChanged invalidates both the Pixmap and Rects
// caches, used when the system icon theme changes underneath an
// absolute-path consumer.
func (e *Engine) NotifyIconThemePathChanged() {
	e.mu.Lock()
	cache := e.pixmaps
	e.mu.Unlock()
	if cache != nil {
		cache.Flush()
	}
	e.broadcast(Event{Kind: IconThemePathChanged})
}

func (e *Engine) broadcast(ev Event) {
	e.mu.Lock()
	listeners := make([]func(Event), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}
