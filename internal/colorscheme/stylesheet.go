package colorscheme

import (
	"fmt"
	"hash/crc32"
	"strings"
	"sync"
)

// FontToken carries the two placeholders a themed SVG's <style> element
// may reference: %fontfamily and %fontsize. Callers typically fill these
// in from the platform's current font settings; the zero value omits
// both substitutions.
type FontToken struct {
	Family string
	Size   float64
}

// StyleSheet is the generated CSS text a themed SVG document's <style>
// element is replaced with before rasterization (spec.md §4.2). Classes
// follow the `.ColorScheme-<Role>` convention real themed SVGs rely on,
// plus the `current-color-scheme` text-fill alias used by icons.
type StyleSheet struct {
	Group  Group
	Status Status
	CSS    string
	sum    uint32
}

// Checksum returns a CRC32 of the generated CSS text, used by the
// Renderer Pool as part of its SharedRenderer cache key so two themed
// SVGs sharing a stylesheet share a renderer.
func (s StyleSheet) Checksum() uint32 { return s.sum }

// cacheKey identifies one memoized stylesheet.
type cacheKey struct {
	group  Group
	status Status
	font   FontToken
}

// Cache memoizes StyleSheet generation per (group, status, font token)
// for a single ColorScheme, since the same combination recurs across
// every SVG sharing a theme.
type Cache struct {
	scheme *ColorScheme
	mu     sync.Mutex
	sheets map[cacheKey]StyleSheet
}

// NewCache builds a StyleSheet cache bound to one resolved ColorScheme.
func NewCache(scheme *ColorScheme) *Cache {
	return &Cache{scheme: scheme, sheets: map[cacheKey]StyleSheet{}}
}

// Get returns the StyleSheet for (group, status, font), generating and
// memoizing it on first use.
func (c *Cache) Get(group Group, status Status, font FontToken) StyleSheet {
	key := cacheKey{group: group, status: status, font: font}

	c.mu.Lock()
	defer c.mu.Unlock()
	if sheet, ok := c.sheets[key]; ok {
		return sheet
	}
	sheet := generate(c.scheme, group, status, font)
	c.sheets[key] = sheet
	return sheet
}

// Invalidate drops every memoized sheet, called when the bound scheme's
// theme changes underneath it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sheets = map[cacheKey]StyleSheet{}
}

// prefixedGroups lists the groups that get their own
// `.ColorScheme-<Group><Role>` classes in every generated stylesheet,
// regardless of which group the sheet's unqualified classes resolve
// against. Normal has no prefixed form (it's what the unqualified
// classes alias when group is Normal) and Selection is addressed only
// through the Highlight/HighlightedText roles, never as its own
// group-prefixed class.
var prefixedGroups = []Group{Button, View, Complementary, Header, Tooltip}

// generate builds the CSS text for one (group, status) pair. Selected
// status substitutes Highlight/HighlightedText for Background/Text, the
// same substitution a selected list item or menu entry uses in the real
// desktop; Inactive uses the same substitution with the palette's own
// dimmer tones left to the scheme itself. Besides the unqualified
// `.ColorScheme-<Role>` classes for group, every themed SVG asset that
// addresses a group explicitly gets a `.ColorScheme-<Group><Role>` class
// for each of prefixedGroups, so e.g. a panel background can use
// `.ColorScheme-ButtonText` even when the enclosing widget's own group
// is Normal.
func generate(scheme *ColorScheme, group Group, status Status, font FontToken) StyleSheet {
	resolveIn := func(g Group, role Role) RGBA {
		switch status {
		case StatusSelected, StatusInactive:
			switch role {
			case Text:
				return scheme.Get(g, HighlightedText)
			case Background:
				return scheme.Get(g, Highlight)
			}
		}
		return scheme.Get(g, role)
	}
	resolve := func(role Role) RGBA { return resolveIn(group, role) }

	var b strings.Builder
	fmt.Fprintf(&b, ".ColorScheme-Text { color: %s; }\n", resolve(Text).Hex())
	fmt.Fprintf(&b, ".ColorScheme-Background { color: %s; }\n", resolve(Background).Hex())
	fmt.Fprintf(&b, ".ColorScheme-Highlight { color: %s; }\n", resolve(Highlight).Hex())
	fmt.Fprintf(&b, ".ColorScheme-HighlightedText { color: %s; }\n", resolve(HighlightedText).Hex())
	fmt.Fprintf(&b, ".ColorScheme-Hover { color: %s; }\n", resolve(Hover).Hex())
	fmt.Fprintf(&b, ".ColorScheme-Focus { color: %s; }\n", resolve(Focus).Hex())
	fmt.Fprintf(&b, ".ColorScheme-Link { color: %s; }\n", resolve(Link).Hex())
	fmt.Fprintf(&b, ".ColorScheme-VisitedLink { color: %s; }\n", resolve(VisitedLink).Hex())
	fmt.Fprintf(&b, ".ColorScheme-PositiveText { color: %s; }\n", resolve(PositiveText).Hex())
	fmt.Fprintf(&b, ".ColorScheme-NeutralText { color: %s; }\n", resolve(NeutralText).Hex())
	fmt.Fprintf(&b, ".ColorScheme-NegativeText { color: %s; }\n", resolve(NegativeText).Hex())
	fmt.Fprintf(&b, ".ColorScheme-DisabledText { color: %s; }\n", resolve(DisabledText).Hex())
	fmt.Fprintf(&b, "text, .current-color-scheme-text { fill: %s; }\n", resolve(Text).Hex())

	for _, g := range prefixedGroups {
		fmt.Fprintf(&b, ".ColorScheme-%sText { color: %s; }\n", g, resolveIn(g, Text).Hex())
		fmt.Fprintf(&b, ".ColorScheme-%sBackground { color: %s; }\n", g, resolveIn(g, Background).Hex())
		fmt.Fprintf(&b, ".ColorScheme-%sHighlight { color: %s; }\n", g, resolveIn(g, Highlight).Hex())
		fmt.Fprintf(&b, ".ColorScheme-%sHighlightedText { color: %s; }\n", g, resolveIn(g, HighlightedText).Hex())
	}

	if font.Family != "" {
		fmt.Fprintf(&b, "text { font-family: '%s'; }\n", font.Family)
	}
	if font.Size > 0 {
		fmt.Fprintf(&b, "text { font-size: %gpx; }\n", font.Size)
	}

	css := b.String()
	return StyleSheet{
		Group:  group,
		Status: status,
		CSS:    css,
		sum:    crc32.ChecksumIEEE([]byte(css)),
	}
}
