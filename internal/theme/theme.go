package theme

import (
	"os"
	"path/filepath"

	"github.com/kdeframe/plasmasvg/internal/colorscheme"
)

// InternalSystemColors is the synthetic "no theme" name used to cache
// recolorings of absolute-path SVGs: path resolution and metadata
// watching are skipped for it, but caching stays enabled (spec.md
// §4.6).
const InternalSystemColors = "internal-system-colors"

// groupRemapMajorVersion is the API major version below which
// non-Normal group requests are transparently remapped to Button for
// backward compatibility (spec.md §4.6).
const groupRemapMajorVersion = 5

// Theme is one resolved theme: its metadata, fallback chain, resolved
// ColorScheme, and memoized style sheets.
type Theme struct {
	Name          string
	BasePath      string // <data-dir>/<base>/<name>, empty for InternalSystemColors
	FallbackChain []string
	Metadata      Metadata
	Colors        *colorscheme.ColorScheme
	Styles        *colorscheme.Cache
}

// ResolveGroup applies the major<5 backward-compatibility remap: any
// group other than Normal is treated as Button when the theme declares
// an API major version below groupRemapMajorVersion. A theme whose
// metadata declares no API version (major 0) is not remapped.
func (t *Theme) ResolveGroup(group colorscheme.Group) colorscheme.Group {
	if t == nil {
		return group
	}
	if t.Metadata.APIVersion.Major > 0 && t.Metadata.APIVersion.Major < groupRemapMajorVersion && group != colorscheme.Normal {
		return colorscheme.Button
	}
	return group
}

// buildFallbackChain walks a theme's FallbackTheme metadata field to
// produce an ordered chain always ending in "default", guarding against
// cycles and self-reference.
func buildFallbackChain(loadMeta func(name string) (Metadata, error), name string) []string {
	var chain []string
	seen := map[string]bool{name: true}
	current := name
	for {
		meta, err := loadMeta(current)
		if err != nil || meta.FallbackTheme == "" || meta.FallbackTheme == current {
			break
		}
		if seen[meta.FallbackTheme] {
			break
		}
		chain = append(chain, meta.FallbackTheme)
		seen[meta.FallbackTheme] = true
		current = meta.FallbackTheme
	}
	if len(chain) == 0 || chain[len(chain)-1] != "default" {
		if !seen["default"] {
			chain = append(chain, "default")
		}
	}
	return chain
}

// loadColors reads <themeDir>/colors if present; its absence is not an
// error, since spec.md §4.6/§6 define the platform palette as the
// fallback source.
func loadColors(themeDir string) (*colorscheme.ColorScheme, error) {
	path := filepath.Join(themeDir, "colors")
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return colorscheme.LoadFromINI(path)
}
